package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/raoulx24/ova-manager/internal/catalog"
	"github.com/raoulx24/ova-manager/internal/config"
	"github.com/raoulx24/ova-manager/internal/fsprobe"
	"github.com/raoulx24/ova-manager/internal/inventory"
	"github.com/raoulx24/ova-manager/internal/logging"
	"github.com/raoulx24/ova-manager/internal/mailbox"
	"github.com/raoulx24/ova-manager/internal/retention"
	"github.com/raoulx24/ova-manager/internal/server"
	"github.com/raoulx24/ova-manager/internal/worker"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("shutting down...")
		cancel()
	}()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Logger
	logg := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	gin.SetMode(gin.ReleaseMode)

	// Catalog (restore point reads and deletes)
	cat := catalog.New(cfg.Catalog, logg, nil)

	// Prism inventory client
	prism := inventory.NewPrismClient(cfg.Prism, logg, nil)

	// Mailbox for retention sweep requests
	mb := mailbox.New[worker.Request]()

	// Retention engine (prunes old restore points)
	eng := retention.New(cfg.Retention, cat, logg)

	// Worker (drains the mailbox and runs sweeps)
	w := worker.New(eng, mb, logg)
	go w.Start(ctx)

	// Cron schedule feeding the mailbox
	sched := worker.NewScheduler(mb, logg)
	if err := sched.Apply(cfg.Retention); err != nil {
		log.Fatalf("failed to schedule retention: %v", err)
	}
	sched.Start()

	// HTTP API
	srv := server.New(*cfg, cat, prism, mb, logg)

	reload := func() {
		newCfg, err := config.Load(*configPath)
		if err != nil {
			logg.Error("config reload failed", "error", err)
			return
		}

		// Apply updates
		cat.UpdateConfig(newCfg.Catalog)
		prism.UpdateConfig(newCfg.Prism)
		eng.UpdateConfig(newCfg.Retention)
		if err := sched.Apply(newCfg.Retention); err != nil {
			logg.Error("retention schedule rejected", "error", err)
		}
		srv.UpdateConfig(*newCfg)

		logg.Info("config reloaded")
	}

	// Hot reload on SIGHUP
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGHUP)

		for range sigCh {
			reload()
		}
	}()

	// Optional reload on config file change. SIGHUP stays available either
	// way, so an unsupported filesystem only costs the convenience.
	if cfg.ConfigReload.Enabled {
		switch cfg.ConfigReload.Method {
		case "fsnotify":
			if probe := fsprobe.Probe(filepath.Dir(*configPath)); probe.Supported {
				go func() {
					if err := config.Watch(ctx, *configPath, cfg.ConfigReload.Debounce, logg, reload); err != nil {
						logg.Error("config watch failed", "error", err)
					}
				}()
			} else {
				logg.Warn("config watch unsupported, reload is SIGHUP only", "reason", probe.Reason)
			}
		default:
			logg.Warn("unknown config reload method", "method", cfg.ConfigReload.Method)
		}
	}

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server failed: %v", err)
	}
	<-sched.Stop().Done()
	log.Println("exit complete")
}
