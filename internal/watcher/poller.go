package watcher

import (
	"context"
	"time"
)

// StartPolling calls detect() every poll interval. UpdateConfig restarts
// the wait with the new interval.
func (w *Watcher) StartPolling(ctx context.Context) {
	timer := time.NewTimer(w.pollInterval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			w.detect()
			timer.Reset(w.pollInterval())
		case <-w.reconfigured:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.pollInterval())
		}
	}
}

func (w *Watcher) pollInterval() time.Duration {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.interval
}
