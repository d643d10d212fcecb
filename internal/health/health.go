// Package health serves scheduler status over HTTP.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/rickgao/polygon-tickers/internal/scheduler"
	"github.com/rickgao/polygon-tickers/internal/version"
)

// StatusSource reports scheduler activity.
type StatusSource interface {
	Status() scheduler.Status
}

// Response is the body of GET /health.
type Response struct {
	Status    string           `json:"status"` // healthy, degraded, unhealthy
	Version   string           `json:"version"`
	Scheduler scheduler.Status `json:"scheduler"`
}

// NewHandler returns the router for the health endpoints.
func NewHandler(src StatusSource, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	r := mux.NewRouter()
	r.Path("/health").Methods(http.MethodGet).HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		st := src.Status()
		resp := Response{
			Status:    "healthy",
			Version:   version.Version,
			Scheduler: st,
		}

		code := http.StatusOK
		switch {
		case st.LastFailed:
			resp.Status = "unhealthy"
			code = http.StatusServiceUnavailable
		case st.Runs == 0:
			resp.Status = "degraded"
		}

		writeJSON(w, code, resp, logger)
	})

	r.Path("/runs/last").Methods(http.MethodGet).HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		st := src.Status()
		if st.LastReport == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no run recorded yet"}, logger)
			return
		}
		writeJSON(w, http.StatusOK, st.LastReport, logger)
	})

	return r
}

func writeJSON(w http.ResponseWriter, code int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("encode health response", "error", err)
	}
}

// Server is the optional status HTTP server.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// NewServer creates a server listening on addr.
func NewServer(addr string, src StatusSource, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		srv: &http.Server{
			Addr:         addr,
			Handler:      NewHandler(src, logger),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting health server", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("health server stopped")
	return nil
}
