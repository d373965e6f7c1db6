package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce is how long Watch waits after a change event before
// reloading. Editors saving atomically emit a Create (rename over the
// inode) and often a Write in the same burst; the delay collapses the
// burst into one reload.
const reloadDebounce = 250 * time.Millisecond

// Watch monitors path for changes and calls onChange with the newly loaded
// Config after each change settles. It runs until ctx is cancelled.
//
// A failed reload (invalid YAML, validation error) is logged and the
// previous config remains active — Watch does not call onChange. A later
// valid write is picked up normally.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	slog.Info("config: watching for changes", "path", path)

	// Keep the debounce timer stopped until a change event arms it.
	debounce := time.NewTimer(reloadDebounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	armed := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !armed {
				debounce.Reset(reloadDebounce)
				armed = true
			}

		case <-debounce.C:
			armed = false
			cfg, err := Load(path)
			if err != nil {
				slog.Error("config: reload failed — keeping previous config",
					"path", path, "err", err)
				rearm(watcher, path)
				continue
			}

			// The rule count is the headline: alert rules are the only
			// setting inflamd swaps without a restart.
			slog.Info("config: reloaded",
				"path", path, "rules", len(cfg.Alerts.Rules))
			onChange(cfg)
			rearm(watcher, path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}

// rearm re-adds the config file after a reload attempt. An atomic save
// replaces the inode, which detaches the existing watch; re-adding the
// same path is harmless when it did not.
func rearm(w *fsnotify.Watcher, path string) {
	if err := w.Add(path); err != nil {
		slog.Error("config: re-watch failed", "path", path, "err", err)
	}
}
