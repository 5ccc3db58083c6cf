package scheduler

import "time"

// Trigger asks the scheduler for one reclaim run.
type Trigger struct {
	Source string // "cron", "startup", "signal"
	At     time.Time
}
