// Package api serves the tracker over JSON HTTP with a websocket change
// stream.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vladimiradmaev/calorie-tracker/internal/changes"
	"github.com/vladimiradmaev/calorie-tracker/internal/config"
	"github.com/vladimiradmaev/calorie-tracker/internal/interfaces"
	"github.com/vladimiradmaev/calorie-tracker/internal/logger"
)

// Pinger reports whether the store is reachable.
type Pinger func(ctx context.Context) error

type Server struct {
	srv *http.Server
}

func NewServer(cfg config.HTTPConfig, svcs interfaces.Services, hub *changes.Hub, ping Pinger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           NewRouter(NewHandler(svcs, hub, ping)),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Name() string { return "http" }

// Start serves until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP API listening", "addr", s.srv.Addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		s.Stop()
		return nil
	}
}

// Stop shuts the server down, waiting up to five seconds for requests.
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		logger.Warn("HTTP shutdown incomplete", "error", err)
	}
}
