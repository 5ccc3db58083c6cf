package watcher

import (
	"os"
	"path/filepath"
	"time"
)

func (w *Watcher) modTime() time.Time {
	info, err := os.Stat(filepath.Join(w.dir, w.name))
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// detect calls onChange if the file changed since the last call.
func (w *Watcher) detect() {
	w.mu.RLock()
	last := w.lastModTime
	w.mu.RUnlock()

	mod := w.modTime()
	if mod.IsZero() || !mod.After(last) {
		return
	}

	w.mu.Lock()
	w.lastModTime = mod
	w.mu.Unlock()

	w.log.Debug("config file changed", "file", w.name, "mtime", mod)
	w.onChange()
}
