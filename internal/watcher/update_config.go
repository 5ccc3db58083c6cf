package watcher

import (
	"time"

	"github.com/raoulx24/snapshot-reclaimer/internal/config"
)

// UpdateConfig applies reloaded poll and debounce settings to the running
// loop. A method change applies on the next Start.
func (w *Watcher) UpdateConfig(cfg config.ReloadConfig) {
	w.mu.Lock()
	w.interval = cfg.PollInterval
	w.mode = cfg.Method
	w.debounce = cfg.DebounceWindow
	w.mu.Unlock()

	select {
	case w.reconfigured <- struct{}{}:
	default:
	}
}

func (w *Watcher) debounceWindow() time.Duration {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.debounce
}
