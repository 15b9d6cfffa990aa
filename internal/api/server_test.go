package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"unravel/internal/config"
	"unravel/internal/pipeline"
)

func newTestServer(apiKey string) (*Server, *pipeline.Orchestrator) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Load()
	cfg.APIKey = apiKey
	orch := pipeline.NewOrchestrator(cfg, log)
	return NewServer(orch, log, cfg), orch
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer("")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUnfurl_DecomposesSeed(t *testing.T) {
	srv, _ := newTestServer("")
	body := strings.NewReader(`{"value":"https://host.example/a/b/c?x=1&y=2"}`)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/unfurl", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Seed  string `json:"seed"`
		Graph struct {
			Nodes []struct {
				ID    int    `json:"id"`
				Type  string `json:"type"`
				Label string `json:"label"`
			} `json:"nodes"`
			Edges []struct {
				From int `json:"from"`
				To   int `json:"to"`
			} `json:"edges"`
		} `json:"graph"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Graph.Nodes) < 5 {
		t.Errorf("expected a decomposed graph, got %d nodes", len(resp.Graph.Nodes))
	}
	if resp.Graph.Nodes[0].Type != "url" {
		t.Errorf("expected root type url, got %s", resp.Graph.Nodes[0].Type)
	}
	if len(resp.Graph.Edges) != len(resp.Graph.Nodes)-1 {
		t.Errorf("expected a tree (%d edges for %d nodes), got %d edges",
			len(resp.Graph.Nodes)-1, len(resp.Graph.Nodes), len(resp.Graph.Edges))
	}
}

func TestUnfurl_BadRequests(t *testing.T) {
	srv, _ := newTestServer("")
	cases := []string{
		`{}`,
		`{"value":""}`,
		`{"value":"x","type":"nonsense"}`,
		`not json`,
	}
	for _, body := range cases {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/unfurl", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestAuth_RequiredWhenKeyConfigured(t *testing.T) {
	const key = "0123456789abcdef"
	srv, _ := newTestServer(key)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer "+key)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer wrong-key-entirely")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", rec.Code)
	}
}

func multipartUpload(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestEvidence_UploadAndPoll(t *testing.T) {
	srv, orch := newTestServer("")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	orch.Start(ctx)
	defer orch.Stop()

	body, contentType := multipartUpload(t, "notes.txt",
		[]byte("suspicious link: https://host.example/lure?u=https%3A%2F%2Ftarget.example%2F\n"))
	req := httptest.NewRequest(http.MethodPost, "/api/evidence", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var accepted struct {
		JobID   string `json:"job_id"`
		PollURL string `json:"poll_url"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&accepted); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		rec = httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, accepted.PollURL, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("poll: expected 200, got %d", rec.Code)
		}
		var snap pipeline.JobSnapshot
		if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
			t.Fatalf("decode snapshot: %v", err)
		}
		if snap.Status == pipeline.StatusCompleted {
			if snap.Progress.SeedsFound != 1 {
				t.Errorf("expected 1 seed, got %d", snap.Progress.SeedsFound)
			}
			if len(snap.Results) != 1 || snap.Results[0].Graph == nil {
				t.Fatalf("expected one graph result, got %+v", snap.Results)
			}
			return
		}
		if snap.Status == pipeline.StatusFailed {
			t.Fatalf("job failed: %v", snap.Progress.Errors)
		}
		if time.Now().After(deadline) {
			t.Fatalf("job did not complete in time (status %s)", snap.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestEvidence_UnsupportedFileType(t *testing.T) {
	srv, _ := newTestServer("")
	body, contentType := multipartUpload(t, "dump.bin", []byte{0x00})
	req := httptest.NewRequest(http.MethodPost, "/api/evidence", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEvidence_JobNotFound(t *testing.T) {
	srv, _ := newTestServer("")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/evidence/no-such-job", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"../../etc/passwd": "passwd",
		"notes.txt":        "notes.txt",
		"":                 "unnamed",
		"a..b.txt":         "a_b.txt",
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q): expected %q, got %q", in, want, got)
		}
	}
}
