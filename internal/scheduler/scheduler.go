// Package scheduler runs the reclaimer on a cron schedule inside a
// long-lived process.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/raoulx24/snapshot-reclaimer/internal/config"
	"github.com/raoulx24/snapshot-reclaimer/internal/logging"
	"github.com/raoulx24/snapshot-reclaimer/internal/mailbox"
)

// RunFunc performs one reclaim run.
type RunFunc func(ctx context.Context) error

// Scheduler turns cron ticks into runs. Ticks that arrive while a run is in
// progress collapse into a single pending trigger, so runs never overlap.
type Scheduler struct {
	mu sync.Mutex

	cron       *cron.Cron
	entry      cron.EntryID
	spec       string
	runOnStart bool

	run RunFunc
	log logging.Logger
	mb  *mailbox.Mailbox[Trigger]
	now func() time.Time
}

// New creates a scheduler from the schedule configuration.
func New(cfg config.ScheduleConfig, run RunFunc, log logging.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithLogger(logging.CronLogger{Log: log})),
		spec:       cfg.Cron,
		runOnStart: cfg.RunOnStart,
		run:        run,
		log:        log,
		mb:         mailbox.New[Trigger](),
		now:        time.Now,
	}
}

// Trigger requests a run outside the schedule.
func (s *Scheduler) Trigger(source string) {
	if s.mb.Put(Trigger{Source: source, At: s.now()}) {
		s.log.Debug("pending trigger replaced", "source", source)
	}
}

// Start registers the cron entry and processes triggers until ctx ends.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if err := s.register(s.spec); err != nil {
		s.mu.Unlock()
		return err
	}
	runOnStart := s.runOnStart
	spec := s.spec
	s.mu.Unlock()

	s.cron.Start()
	defer func() {
		<-s.cron.Stop().Done()
	}()
	s.log.Info("scheduler started", "cron", spec, "next", s.Next())

	if runOnStart {
		s.Trigger("startup")
	}

	for {
		t, err := s.mb.Take(ctx)
		if err != nil {
			s.log.Info("scheduler stopping")
			return nil
		}
		s.log.Info("run triggered", "source", t.Source, "at", t.At)
		if err := s.run(ctx); err != nil {
			s.log.Error("scheduled run failed", "source", t.Source, "error", err)
		}
	}
}

// UpdateConfig swaps the cron expression for hot reload.
func (s *Scheduler) UpdateConfig(cfg config.ScheduleConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runOnStart = cfg.RunOnStart
	if cfg.Cron == s.spec && s.entry != 0 {
		return nil
	}
	if err := s.register(cfg.Cron); err != nil {
		return err
	}
	s.log.Info("schedule updated", "cron", cfg.Cron, "next", s.nextLocked())
	return nil
}

// register replaces the current cron entry. Callers hold s.mu.
func (s *Scheduler) register(spec string) error {
	id, err := s.cron.AddFunc(spec, func() { s.Trigger("cron") })
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	if s.entry != 0 {
		s.cron.Remove(s.entry)
	}
	s.entry = id
	s.spec = spec
	return nil
}

// Next returns the next scheduled activation, or zero when no entry is registered.
func (s *Scheduler) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextLocked()
}

// nextLocked is Next for callers holding s.mu.
func (s *Scheduler) nextLocked() time.Time {
	if s.entry == 0 {
		return time.Time{}
	}
	e := s.cron.Entry(s.entry)
	if !e.Next.IsZero() {
		return e.Next
	}
	// cron only fills Next once started
	return e.Schedule.Next(s.now())
}
