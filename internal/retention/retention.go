// Package retention prunes old restore points so the catalog root does not
// grow without bound. A sweep keeps the newest keepLast points and sends
// the rest through the deletion engine, one by one, so a stuck directory
// never blocks the others.
package retention

import (
	"context"
	"fmt"
	"sync"

	"github.com/raoulx24/ova-manager/internal/catalog"
	"github.com/raoulx24/ova-manager/internal/config"
	"github.com/raoulx24/ova-manager/internal/logging"
	"github.com/raoulx24/ova-manager/internal/metrics"
)

type Engine struct {
	mu  sync.RWMutex
	cfg config.RetentionConfig

	catalog *catalog.Catalog
	log     logging.Logger
}

// Result summarizes one sweep.
type Result struct {
	Scanned    int   `json:"scanned"`
	Kept       int   `json:"kept"`
	Deleted    int   `json:"deleted"`
	Failed     int   `json:"failed"`
	BytesFreed int64 `json:"bytes_freed"`
}

func New(cfg config.RetentionConfig, cat *catalog.Catalog, log logging.Logger) *Engine {
	return &Engine{
		cfg:     cfg,
		catalog: cat,
		log:     log,
	}
}

// UpdateConfig swaps the retention settings. A sweep already running keeps
// the settings it started with.
func (e *Engine) UpdateConfig(cfg config.RetentionConfig) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg = cfg
}

func (e *Engine) config() config.RetentionConfig {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg
}

// Sweep deletes everything but the newest keepLast restore points. A
// keepLast of zero or less keeps everything; retention never wipes the
// whole catalog on a misconfiguration.
func (e *Engine) Sweep(ctx context.Context) (*Result, error) {
	cfg := e.config()
	metrics.RetentionSweeps.Inc()

	points, err := e.catalog.List()
	if err != nil {
		return nil, fmt.Errorf("listing restore points: %w", err)
	}

	res := &Result{Scanned: len(points)}
	if cfg.KeepLast <= 0 || len(points) <= cfg.KeepLast {
		res.Kept = len(points)
		e.log.Debug("retention sweep: nothing to prune",
			"scanned", res.Scanned, "keep_last", cfg.KeepLast)
		return res, nil
	}
	res.Kept = cfg.KeepLast

	// List is newest first, so everything past keepLast is expired
	for _, p := range points[cfg.KeepLast:] {
		stats, err := e.catalog.Delete(ctx, p.Name)
		if err != nil {
			e.log.Error("retention: delete failed", "name", p.Name, "error", err)
			metrics.RestorePointDeletes.WithLabelValues("retention", "failure").Inc()
			res.Failed++
			continue
		}
		metrics.RestorePointDeletes.WithLabelValues("retention", "success").Inc()
		metrics.BytesReclaimed.Add(float64(stats.SizeBytes))
		res.Deleted++
		res.BytesFreed += stats.SizeBytes
	}

	e.log.Info("retention sweep finished",
		"scanned", res.Scanned,
		"kept", res.Kept,
		"deleted", res.Deleted,
		"failed", res.Failed,
		"bytes_freed", res.BytesFreed)
	return res, nil
}
