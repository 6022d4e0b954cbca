// Package server is the HTTP front end of the recognizer: it decodes
// page-stream requests, runs the recognition pipeline, and serves the
// diagnostics endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/tsawler/bibrec"
	"github.com/tsawler/bibrec/lookup"
)

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8003)
	Port string
	// Stores locates the three read-only lookup databases.
	Stores lookup.SQLiteConfig
	// ReportDir is where diagnostic reports are spooled (default: ./reports)
	ReportDir string
	// MaxBodyBytes caps the request body size (default: 32 MiB)
	MaxBodyBytes int64
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// Server owns the lookup stores: it opens them on Start and closes them
// on shutdown.
type Server struct {
	httpServer *http.Server
	recognizer *bibrec.Recognizer
	store      *lookup.SQLiteStore
	cfg        Config
	logger     *slog.Logger
	stats      stats

	mu      sync.Mutex
	running bool
}

type stats struct {
	mu        sync.Mutex
	started   time.Time
	processed int64
	failed    int64
	reports   int64
}

// New creates a Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8003"
	}
	if cfg.ReportDir == "" {
		cfg.ReportDir = "reports"
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = 32 << 20
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{
		cfg:    cfg,
		logger: cfg.Logger,
	}

	mux := http.NewServeMux()
	s.routes(mux)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withRequestLog(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s, nil
}

// Start opens the lookup stores and serves until the context is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	store, err := lookup.OpenSQLite(s.cfg.Stores)
	if err != nil {
		return fmt.Errorf("open lookup stores: %w", err)
	}
	s.store = store
	defer store.Close()

	s.recognizer = bibrec.New(store)
	s.stats.mu.Lock()
	s.stats.started = time.Now()
	s.stats.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
