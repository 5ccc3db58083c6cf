package reclaimer

import (
	"time"

	"github.com/raoulx24/snapshot-reclaimer/internal/inventory"
	"github.com/raoulx24/snapshot-reclaimer/internal/policy"
)

// Status is the terminal state of one snapshot within a run.
type Status string

const (
	StatusKept         Status = "kept"
	StatusDeleted      Status = "deleted"
	StatusAlreadyGone  Status = "already-gone"
	StatusFailed       Status = "failed"
	StatusWouldDelete  Status = "would-delete"
	StatusSkippedLimit Status = "skipped-limit"
)

// Outcome is what happened to one snapshot.
type Outcome struct {
	SnapshotID string
	VolumeID   string
	Reason     policy.Reason
	Status     Status
	Class      inventory.ErrorClass // set when Status is StatusFailed
	Err        error
}

// Report collects every outcome of a run.
type Report struct {
	RunID    string
	DryRun   bool
	Started  time.Time
	Finished time.Time
	Outcomes []Outcome
}

// Count returns how many outcomes have the given status.
func (r *Report) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Failed returns the outcomes whose delete request failed.
func (r *Report) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed {
			out = append(out, o)
		}
	}
	return out
}

// Deleted returns the ids removed in this run, including those already gone.
func (r *Report) Deleted() []string {
	var out []string
	for _, o := range r.Outcomes {
		if o.Status == StatusDeleted || o.Status == StatusAlreadyGone {
			out = append(out, o.SnapshotID)
		}
	}
	return out
}
