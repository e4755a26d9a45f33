package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// DefaultDebounceInterval is the quiet period after a file event before a
// reload fires, so editors that write in multiple steps trigger one reload.
const DefaultDebounceInterval = 100 * time.Millisecond

// LoadRulesFile parses a routing-rules YAML file into a task-kind to
// provider-list table.
func LoadRulesFile(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %q: %w", path, err)
	}

	var rules map[string][]string
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %q: %w", path, err)
	}
	return rules, nil
}

// RulesWatcher watches a routing-rules file and delivers reloaded tables
// through a callback. Reloads are debounced; a file that fails to parse
// is logged and skipped, keeping the previous table in effect.
type RulesWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	running bool
}

// NewRulesWatcher creates a watcher for the given rules file.
func NewRulesWatcher(path string) (*RulesWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &RulesWatcher{
		path:     path,
		watcher:  watcher,
		debounce: DefaultDebounceInterval,
		logger:   slog.Default().With("component", "rules-watcher"),
	}, nil
}

// Watch blocks until ctx is cancelled, invoking onReload with each newly
// parsed rules table. The containing directory is watched rather than the
// file itself so atomic rename-into-place saves are observed.
func (w *RulesWatcher) Watch(ctx context.Context, onReload func(rules map[string][]string)) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	w.logger.Info("routing rules watcher started", "path", w.path)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("routing rules watcher stopped")
			return w.watcher.Close()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&fsnotify.Chmod == fsnotify.Chmod {
				continue
			}
			w.trigger(onReload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("rules watcher error", "error", err)
		}
	}
}

// trigger debounces reloads: each event resets the timer and only the
// last one within the quiet period fires.
func (w *RulesWatcher) trigger(onReload func(rules map[string][]string)) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		rules, err := LoadRulesFile(w.path)
		if err != nil {
			w.logger.Error("routing rules reload failed, keeping previous table",
				"error", err,
			)
			return
		}
		w.logger.Info("routing rules reloaded", "path", w.path, "rules", len(rules))
		onReload(rules)
	})
}
