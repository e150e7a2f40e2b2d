package agent

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"vawter.tech/stopper"
)

// reloadDebounce coalesces the burst of events an editor or atomic rename
// produces into one reload.
const reloadDebounce = 250 * time.Millisecond

// ReloadFunc receives each successfully parsed configuration. Callers apply
// the settings that are safe to change at runtime and ignore the rest.
type ReloadFunc func(cfg *AgentConfig)

// WatchConfig watches the configuration file and invokes apply after each
// change that parses and validates. The parent directory is watched rather
// than the file itself: config updates land as a rename over the old file,
// which would silently detach a file-level watch.
//
// The returned cleanup function stops the watch goroutine and waits for it.
func WatchConfig(path string, apply ReloadFunc, logger *slog.Logger) (func() error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "config-watcher")

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("agent: watch config: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("agent: watch config: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("agent: watch config: %s: %w", filepath.Dir(abs), err)
	}

	sctx := stopper.WithContext(context.Background())
	sctx.Defer(func() {
		watcher.Close()
	})

	var mu sync.Mutex
	var debouncer *time.Timer

	reload := func() {
		if sctx.IsStopping() {
			return
		}
		cfg, err := ParseConfig(abs)
		if err != nil {
			logger.Warn("config changed but did not parse, keeping current settings", "error", err)
			return
		}
		logger.Info("config reloaded", "path", abs)
		apply(cfg)
	}

	sctx.Go(func(sctx *stopper.Context) error {
		sctx.Defer(func() {
			mu.Lock()
			if debouncer != nil {
				debouncer.Stop()
			}
			mu.Unlock()
		})

		for {
			select {
			case <-sctx.Stopping():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Base(event.Name) != filepath.Base(abs) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				mu.Lock()
				if debouncer != nil {
					debouncer.Stop()
				}
				debouncer = time.AfterFunc(reloadDebounce, reload)
				mu.Unlock()

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				if err != nil {
					logger.Warn("config watch error", "error", err)
				}
			}
		}
	})

	cleanup := func() error {
		sctx.Stop(100 * time.Millisecond)
		return sctx.Wait()
	}
	return cleanup, nil
}
