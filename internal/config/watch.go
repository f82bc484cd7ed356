package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/raoulx24/ova-manager/internal/logging"
)

// Watch blocks until ctx is done, invoking onChange after the config file
// at path changes and the burst of events settles. Editors and config
// management tools tend to write, rename and chmod in quick succession, so
// changes are debounced. onChange is responsible for re-reading the file.
func Watch(ctx context.Context, path string, debounce time.Duration, log logging.Logger, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory, not the file: atomic saves replace the inode
	// and a file-level watch would go stale after the first reload.
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	if err := watcher.Add(dir); err != nil {
		return err
	}

	// Channel to request debounce resets
	resetCh := make(chan struct{}, 1)

	// Debounce goroutine
	go func() {
		var t *time.Timer
		for range resetCh {
			if t != nil {
				t.Stop()
			}
			t = time.AfterFunc(debounce, func() {
				defer func() {
					if r := recover(); r != nil {
						log.Error("config reload panic", "panic", r)
					}
				}()
				onChange()
			})
		}
	}()
	defer close(resetCh)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				log.Error("events channel closed")
				return nil
			}

			log.Debug("config event", "name", ev.Name, "op", ev.Op)

			if filepath.Base(ev.Name) != base {
				continue
			}

			// Non-blocking send to reset debounce
			select {
			case resetCh <- struct{}{}:
			default:
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("fsnotify error", "error", err)
		}
	}
}
