// Package watcher monitors the config file and reports changes.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/raoulx24/snapshot-reclaimer/internal/config"
	"github.com/raoulx24/snapshot-reclaimer/internal/fsprobe"
	"github.com/raoulx24/snapshot-reclaimer/internal/logging"
)

// Watcher observes one file and calls onChange when its mtime moves forward.
type Watcher struct {
	mu sync.RWMutex

	dir      string
	name     string
	interval time.Duration
	mode     string
	debounce time.Duration

	log logging.Logger

	lastModTime time.Time

	onChange func()

	// reconfigured wakes a running poll loop after UpdateConfig.
	reconfigured chan struct{}
}

// New creates a watcher for path using the reload configuration.
func New(path string, cfg config.ReloadConfig, log logging.Logger, onChange func()) *Watcher {
	w := &Watcher{
		dir:      filepath.Dir(path),
		name:     filepath.Base(path),
		interval: cfg.PollInterval,
		mode:     cfg.Method,
		debounce: cfg.DebounceWindow,
		log:      log,
		onChange: onChange,

		reconfigured: make(chan struct{}, 1),
	}
	w.lastModTime = w.modTime()
	return w
}

// Start chooses the correct watching strategy based on config.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.RLock()
	mode := w.mode
	dir := w.dir
	w.mu.RUnlock()

	switch mode {
	case "fsnotify":
		return w.StartFsNotify(ctx)

	case "poll":
		w.StartPolling(ctx)
		return nil

	case "auto":
		res := fsprobe.Probe(dir)
		if res.FsnotifySupported {
			return w.StartFsNotify(ctx)
		}
		w.log.Warn("fsnotify disabled, polling config file", "reason", res.Reason)
		w.StartPolling(ctx)
		return nil

	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}
