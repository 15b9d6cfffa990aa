package api

import (
	"encoding/json"
	"net/http"

	"unravel/internal/engine"
	"unravel/internal/fragment"
)

type unfurlRequest struct {
	Value string `json:"value"`
	Type  string `json:"type,omitempty"`
}

// seedTypes are the node kinds a caller may seed a run with.
var seedTypes = map[string]fragment.DataType{
	"":               fragment.TypeURL,
	"url":            fragment.TypeURL,
	"raw":            fragment.TypeRaw,
	"url.query.pair": fragment.TypeQueryPair,
	"json":           fragment.TypeJSON,
}

// handleUnfurl decomposes a single seed value synchronously. Runs are
// pure in-memory computation bounded by MaxNodes/MaxDepth, so there is
// no need to go through the job queue.
func (s *Server) handleUnfurl(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req unfurlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Value == "" {
		jsonError(w, "value is required", http.StatusBadRequest)
		return
	}
	seedType, ok := seedTypes[req.Type]
	if !ok {
		jsonError(w, "unsupported seed type: "+req.Type, http.StatusBadRequest)
		return
	}

	eng := engine.New(s.orchestrator.EngineConfig(), s.log)
	graph, err := eng.Run(seedType, req.Value)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.orchestrator.RecordRun(len(graph.Nodes))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"seed":  req.Value,
		"type":  seedType,
		"graph": graph,
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
