// Package fsprobe checks whether fsnotify delivers events for a directory.
// Some mounts (NFS, certain container volumes, ConfigMap projections) accept
// a watch but never report changes, so the probe makes a real change and
// waits for it.
package fsprobe

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultTimeout is how long Probe waits for the first event.
const DefaultTimeout = 200 * time.Millisecond

// Result reports whether fsnotify is usable and why.
type Result struct {
	FsnotifySupported bool   // true if events are delivered
	Reason            string // explanation when unsupported
}

func unsupported(format string, args ...any) Result {
	return Result{Reason: fmt.Sprintf(format, args...)}
}

// Probe tests dir with DefaultTimeout.
func Probe(dir string) Result {
	return ProbeWithTimeout(dir, DefaultTimeout)
}

// ProbeWithTimeout creates and renames a scratch file in dir and reports
// whether any of those operations produced an event within timeout.
func ProbeWithTimeout(dir string, timeout time.Duration) Result {
	st, err := os.Stat(dir)
	if err != nil {
		return unsupported("stat failed: %v", err)
	}
	if !st.IsDir() {
		return unsupported("%s is not a directory", dir)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return unsupported("fsnotify unavailable: %v", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return unsupported("cannot watch directory: %v", err)
	}

	f, err := os.CreateTemp(dir, ".reclaimer-probe-*")
	if err != nil {
		return unsupported("cannot create probe file: %v", err)
	}
	tmp := f.Name()
	f.Close()

	final := tmp + ".done"
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return unsupported("rename failed: %v", err)
	}
	defer os.Remove(final)

	deadline := time.After(timeout)
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return unsupported("event channel closed")
			}
			if filepath.Dir(ev.Name) != filepath.Clean(dir) {
				continue
			}
			if ev.Op&(fsnotify.Rename|fsnotify.Create|fsnotify.Write) != 0 {
				return Result{FsnotifySupported: true}
			}
		case err := <-w.Errors:
			return unsupported("watch error: %v", err)
		case <-deadline:
			return unsupported("no events received within %s", timeout)
		}
	}
}
