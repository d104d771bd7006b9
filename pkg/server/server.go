// Package server exposes sorting over HTTP.
//
// # Routes
//
//	POST /v1/sort          linear order of a JSON manifest
//	POST /v1/sort/grouped  grouped order of a JSON manifest
//	GET  /healthz          liveness probe
//
// Both sort routes take the manifest as the request body and accept the
// query parameters detect_cycles, intercept_cycles, same_type_grouping
// (booleans), encoding (sequence or text) and refresh. They respond with
// a [pipeline.Result] as JSON.
//
// # Errors
//
// Errors are JSON objects {"code": ..., "message": ...}. Invalid input maps
// to 400, cycles and missing dependencies to 422.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackorder/pkg/pipeline"
)

// maxBodyBytes bounds the size of a manifest upload.
const maxBodyBytes = 4 << 20

// Server serves the sort API.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	addr   string
}

// New creates a server that sorts with runner and listens on addr.
func New(runner *pipeline.Runner, logger *log.Logger, addr string) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger, addr: addr}
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
