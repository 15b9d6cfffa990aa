package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"unravel/internal/engine"
	"unravel/internal/evidence"
	"unravel/internal/fragment"
)

// Worker processes a single evidence analysis job.
type Worker struct {
	orch *Orchestrator
	log  *slog.Logger
}

func NewWorker(orch *Orchestrator, log *slog.Logger) *Worker {
	return &Worker{orch: orch, log: log}
}

// Process runs the full analysis pipeline for a job: extract text from
// the evidence file, scan it for candidate seeds, and decompose each
// seed with a fresh engine. One bad seed degrades the job to partial,
// never to failed.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	// Phase 1: Extract text
	job.SetStatus(StatusExtracting, "extracting")
	reader, err := evidence.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "extracting")
		return
	}
	if pdf, ok := reader.(*evidence.PDFReader); ok {
		pdf.FallbackPdftotext = w.orch.cfg.PDFFallbackPdftotext
	}

	text, err := reader.Extract(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("extract failed", "error", err)
		job.AddError(fmt.Sprintf("extract: %s", err))
		job.SetStatus(StatusFailed, "extracting")
		return
	}

	// Phase 2: Scan for seeds
	job.SetStatus(StatusScanning, "scanning")
	seeds := evidence.ScanSeeds(text, w.orch.cfg.MaxSeedsPerFile)
	job.SetSeedsFound(len(seeds))
	log.Info("scanned evidence", "seeds", len(seeds))

	if len(seeds) == 0 {
		job.AddError("no seed candidates found")
		job.SetStatus(StatusFailed, "scanning")
		return
	}

	// Phase 3: Decompose each seed.
	job.SetStatus(StatusDecomposing, "decomposing")
	hadErrors := false
	for _, seed := range seeds {
		select {
		case <-ctx.Done():
			job.AddError("canceled")
			job.SetStatus(StatusFailed, "decomposing")
			return
		default:
		}

		eng := engine.New(w.orch.EngineConfig(), w.log)
		graph, err := eng.Run(fragment.TypeURL, seed)
		if err != nil {
			log.Error("decomposition failed", "seed", seed, "error", err)
			job.AddError(fmt.Sprintf("seed %s: %s", seed, err))
			job.AddResult(SeedResult{Seed: seed, Error: err.Error()}, 0)
			hadErrors = true
			continue
		}
		job.AddResult(SeedResult{Seed: seed, Graph: graph}, len(graph.Nodes))
		w.orch.RecordRun(len(graph.Nodes))
	}

	snap := job.Snapshot()
	log.Info("decomposition complete",
		"seeds", snap.Progress.SeedsDecomposed, "nodes", snap.Progress.NodesTotal)

	if hadErrors && snap.Progress.NodesTotal > 0 {
		job.SetStatus(StatusPartial, "done")
	} else if hadErrors {
		job.SetStatus(StatusFailed, "decomposing")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}
