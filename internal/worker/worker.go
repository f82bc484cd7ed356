// Package worker runs retention sweeps. A single goroutine drains the
// request mailbox, so at most one sweep runs at a time and triggers that
// pile up while one is running collapse into a single follow-up sweep.
package worker

import (
	"context"

	"github.com/raoulx24/ova-manager/internal/logging"
	"github.com/raoulx24/ova-manager/internal/mailbox"
	"github.com/raoulx24/ova-manager/internal/retention"
)

// Worker executes sweeps requested through the mailbox.
type Worker struct {
	engine *retention.Engine
	mb     *mailbox.Mailbox[Request]
	log    logging.Logger
}

// New creates a worker over the given engine and mailbox.
func New(engine *retention.Engine, mb *mailbox.Mailbox[Request], log logging.Logger) *Worker {
	return &Worker{
		engine: engine,
		mb:     mb,
		log:    log,
	}
}

// Start runs the sweep loop. It blocks on the mailbox and is meant to run
// in its own goroutine for the life of the process; after the context is
// canceled the next request ends the loop instead of sweeping.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info("starting retention worker")
	for {
		req := w.mb.Take()
		if ctx.Err() != nil {
			w.log.Info("retention worker stopped")
			return
		}
		w.log.Info("retention sweep starting", "trigger", req.Trigger)
		if _, err := w.engine.Sweep(ctx); err != nil {
			w.log.Error("retention sweep failed", "error", err)
		}
	}
}
