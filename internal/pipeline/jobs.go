package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"unravel/internal/engine"
)

// JobStatus represents the state of an evidence analysis job.
type JobStatus string

const (
	StatusQueued      JobStatus = "queued"
	StatusExtracting  JobStatus = "extracting"
	StatusScanning    JobStatus = "scanning"
	StatusDecomposing JobStatus = "decomposing"
	StatusCompleted   JobStatus = "completed"
	StatusPartial     JobStatus = "partial"
	StatusFailed      JobStatus = "failed"
)

// SeedResult is the outcome of decomposing one candidate seed.
type SeedResult struct {
	Seed  string        `json:"seed"`
	Graph *engine.Graph `json:"graph,omitempty"`
	Error string        `json:"error,omitempty"`
}

// Job tracks the state of a single evidence file analysis.
type Job struct {
	mu sync.Mutex

	ID       string `json:"job_id"`
	Filename string `json:"filename"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	results  []SeedResult
	errors   []string
}

// Progress tracks processing progress.
type Progress struct {
	SeedsFound      int      `json:"seeds_found"`
	SeedsDecomposed int      `json:"seeds_decomposed"`
	NodesTotal      int      `json:"nodes_total"`
	Errors          []string `json:"errors"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetSeedsFound records how many candidate seeds the scanner produced.
func (j *Job) SetSeedsFound(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.SeedsFound = n
	j.UpdatedAt = time.Now()
}

// AddResult records one finished seed decomposition.
func (j *Job) AddResult(res SeedResult, nodes int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.results = append(j.results, res)
	j.Progress.SeedsDecomposed++
	j.Progress.NodesTotal += nodes
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string       `json:"job_id"`
	Filename    string       `json:"filename"`
	Status      JobStatus    `json:"status"`
	Phase       string       `json:"phase"`
	ContentHash string       `json:"content_hash,omitempty"`
	Progress    Progress     `json:"progress"`
	Results     []SeedResult `json:"results,omitempty"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	results := make([]SeedResult, len(j.results))
	copy(results, j.results)
	return JobSnapshot{
		ID:          j.ID,
		Filename:    j.Filename,
		Status:      j.Status,
		Phase:       j.Phase,
		ContentHash: j.ContentHash,
		Progress: Progress{
			SeedsFound:      j.Progress.SeedsFound,
			SeedsDecomposed: j.Progress.SeedsDecomposed,
			NodesTotal:      j.Progress.NodesTotal,
			Errors:          errs,
		},
		Results: results,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
