// the cron side of retention. The scheduler owns a cron runner whose only
// job is dropping sweep requests into the mailbox; actual deletion always
// happens on the worker goroutine.

package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/raoulx24/ova-manager/internal/config"
	"github.com/raoulx24/ova-manager/internal/logging"
	"github.com/raoulx24/ova-manager/internal/mailbox"
)

// Scheduler turns a cron expression into periodic sweep requests.
type Scheduler struct {
	mu     sync.Mutex
	cron   *cron.Cron
	mb     *mailbox.Mailbox[Request]
	log    logging.Logger
	spec   string
	entry  cron.EntryID
	active bool
}

func NewScheduler(mb *mailbox.Mailbox[Request], log logging.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		mb:   mb,
		log:  log,
	}
}

// Apply reconciles the schedule with the retention settings. Disabling
// retention removes the entry; changing the expression replaces it. Safe
// to call again on config reload.
func (s *Scheduler) Apply(cfg config.RetentionConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active && cfg.Enabled && cfg.Cron == s.spec {
		return nil
	}
	if !cfg.Enabled {
		if s.active {
			s.cron.Remove(s.entry)
			s.active = false
		}
		s.log.Info("retention schedule disabled")
		return nil
	}

	// add before remove, so a rejected expression on reload keeps the
	// schedule it would have replaced
	id, err := s.cron.AddFunc(cfg.Cron, func() {
		s.mb.Put(Request{Trigger: "cron"})
	})
	if err != nil {
		return fmt.Errorf("invalid retention cron %q: %w", cfg.Cron, err)
	}
	if s.active {
		s.cron.Remove(s.entry)
	}
	s.entry = id
	s.spec = cfg.Cron
	s.active = true
	s.log.Info("retention schedule set", "cron", cfg.Cron)
	return nil
}

// Start begins firing schedule entries.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule. The returned context is done once any entry
// still running has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
