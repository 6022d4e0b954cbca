package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
)

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /recognize", s.handleRecognize)
	mux.HandleFunc("POST /report", s.handleReport)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /stats", s.handleStats)
}

// withRequestLog assigns each request an id and logs method, path,
// status, and duration.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := uuid.NewString()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.LogAttrs(r.Context(), slog.LevelInfo, "request",
			slog.String("id", id),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleRecognize(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	start := time.Now()
	cit, err := s.recognizer.RecognizeData(r.Context(), body)
	if err != nil {
		s.stats.mu.Lock()
		s.stats.failed++
		s.stats.mu.Unlock()
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cit.TimeMS = time.Since(start).Milliseconds()

	s.stats.mu.Lock()
	s.stats.processed++
	s.stats.mu.Unlock()

	writeJSON(w, http.StatusOK, cit)
}

// handleReport spools a client-submitted diagnostic report to disk. The
// write is retried because the spool directory may sit on network
// storage.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	name := time.Now().UTC().Format("20060102T150405") + "-" + uuid.NewString() + ".json"
	path := filepath.Join(s.cfg.ReportDir, name)

	err = retry.Do(
		func() error {
			if err := os.MkdirAll(s.cfg.ReportDir, 0o755); err != nil {
				return err
			}
			return os.WriteFile(path, body, 0o644)
		},
		retry.Attempts(3),
		retry.Delay(100*time.Millisecond),
		retry.Context(r.Context()),
	)
	if err != nil {
		s.logger.Error("spool report", "path", path, "error", err)
		http.Error(w, "could not store report", http.StatusInternalServerError)
		return
	}

	s.stats.mu.Lock()
	s.stats.reports++
	s.stats.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.stats.mu.Lock()
	resp := map[string]any{
		"uptimeSeconds": int64(time.Since(s.stats.started).Seconds()),
		"processed":     s.stats.processed,
		"failed":        s.stats.failed,
		"reports":       s.stats.reports,
	}
	s.stats.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
