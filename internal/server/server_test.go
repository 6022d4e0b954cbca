package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tsawler/bibrec"
	"github.com/tsawler/bibrec/lookup"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(Config{
		ReportDir: t.TempDir(),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	s.recognizer = bibrec.New(lookup.NewMemoryStore())
	s.stats.started = time.Now()
	return s
}

func do(s *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rr, req)
	return rr
}

// pageDoc is a minimal one-page wire document with a single word.
const pageDoc = `{"totalPages":1,"pages":[[612,792,[[[[[[50,100,120,110,10,0,110,0,0,0,0,0,1,"Hello"]]]]]]]]}`

func TestHandleRecognize(t *testing.T) {
	s := newTestServer(t)

	rr := do(s, http.MethodPost, "/recognize", pageDoc)
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, body %q", rr.Code, rr.Body.String())
	}
	var cit bibrec.Citation
	if err := json.Unmarshal(rr.Body.Bytes(), &cit); err != nil {
		t.Fatalf("Invalid response JSON: %v", err)
	}
	if cit.Type != "journal-article" {
		t.Errorf("Type = %q", cit.Type)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestHandleRecognize_BadInput(t *testing.T) {
	s := newTestServer(t)

	rr := do(s, http.MethodPost, "/recognize", "not json")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Status = %d", rr.Code)
	}

	s.stats.mu.Lock()
	failed := s.stats.failed
	s.stats.mu.Unlock()
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
}

func TestHandleRecognize_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	if rr := do(s, http.MethodGet, "/recognize", ""); rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("Status = %d, want 405", rr.Code)
	}
}

func TestHandleReport_SpoolsToDisk(t *testing.T) {
	s := newTestServer(t)
	report := `{"note":"title missed on two-column layout"}`

	rr := do(s, http.MethodPost, "/report", report)
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, body %q", rr.Code, rr.Body.String())
	}

	entries, err := os.ReadDir(s.cfg.ReportDir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Spooled %d files, want 1", len(entries))
	}
	name := entries[0].Name()
	if !strings.HasSuffix(name, ".json") {
		t.Errorf("File name = %q, want .json suffix", name)
	}
	data, err := os.ReadFile(filepath.Join(s.cfg.ReportDir, name))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != report {
		t.Errorf("Spooled content = %q, want %q", data, report)
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)

	rr := do(s, http.MethodGet, "/healthz", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d", rr.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid response JSON: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status = %q", resp["status"])
	}
}

func TestHandleStats(t *testing.T) {
	s := newTestServer(t)

	if rr := do(s, http.MethodPost, "/recognize", pageDoc); rr.Code != http.StatusOK {
		t.Fatalf("recognize status = %d", rr.Code)
	}
	if rr := do(s, http.MethodPost, "/report", `{"note":"n"}`); rr.Code != http.StatusOK {
		t.Fatalf("report status = %d", rr.Code)
	}

	rr := do(s, http.MethodGet, "/stats", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d", rr.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid response JSON: %v", err)
	}
	if resp["processed"] != float64(1) {
		t.Errorf("processed = %v, want 1", resp["processed"])
	}
	if resp["reports"] != float64(1) {
		t.Errorf("reports = %v, want 1", resp["reports"])
	}
	if resp["failed"] != float64(0) {
		t.Errorf("failed = %v, want 0", resp["failed"])
	}
}
