// Package server carries the HTTP surface: catalog and inventory reads,
// the destructive restore point operations, and the operational endpoints
// (health, status, metrics, manual sweep).
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/raoulx24/ova-manager/internal/catalog"
	"github.com/raoulx24/ova-manager/internal/config"
	"github.com/raoulx24/ova-manager/internal/inventory"
	"github.com/raoulx24/ova-manager/internal/logging"
	"github.com/raoulx24/ova-manager/internal/mailbox"
	"github.com/raoulx24/ova-manager/internal/worker"
)

// Server wires the HTTP routes to the catalog, the inventory source and
// the sweep mailbox. Configuration may be swapped at runtime; the listen
// address only takes effect on restart.
type Server struct {
	mu  sync.RWMutex
	cfg config.Config

	catalog   *catalog.Catalog
	inventory inventory.Source
	sweeps    *mailbox.Mailbox[worker.Request]
	log       logging.Logger

	engine *gin.Engine
}

func New(cfg config.Config, cat *catalog.Catalog, inv inventory.Source, sweeps *mailbox.Mailbox[worker.Request], log logging.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		catalog:   cat,
		inventory: inv,
		sweeps:    sweeps,
		log:       log,
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestID(), requestLogger(log), recordMetrics())
	s.registerRoutes(engine)
	s.engine = engine
	return s
}

// UpdateConfig swaps the configuration visible to the status endpoint.
func (s *Server) UpdateConfig(cfg config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}

func (s *Server) config() config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the context is canceled, then drains in-flight requests
// within the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	cfg := s.config()
	srv := &http.Server{
		Addr:    cfg.Server.Listen,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", cfg.Server.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	s.log.Info("http server stopped")
	return nil
}
