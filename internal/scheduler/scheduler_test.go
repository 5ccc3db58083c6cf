package scheduler

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raoulx24/snapshot-reclaimer/internal/config"
	"github.com/raoulx24/snapshot-reclaimer/internal/logging"
)

func TestScheduler_RunOnStartAndManualTrigger(t *testing.T) {
	var runs atomic.Int32
	done := make(chan struct{}, 4)
	run := func(ctx context.Context) error {
		runs.Add(1)
		done <- struct{}{}
		return errors.New("inventory unavailable") // logged, never stops the loop
	}

	s := New(config.ScheduleConfig{Cron: "@yearly", RunOnStart: true}, run, logging.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- s.Start(ctx) }()

	waitRun(t, done)
	s.Trigger("signal")
	waitRun(t, done)

	cancel()
	select {
	case err := <-stopped:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.Equal(t, int32(2), runs.Load())
}

func TestScheduler_TriggersCoalesceWhileRunning(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 4)
	var runs atomic.Int32
	run := func(ctx context.Context) error {
		runs.Add(1)
		started <- struct{}{}
		<-release
		return nil
	}

	s := New(config.ScheduleConfig{Cron: "@yearly"}, run, logging.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Start(ctx) }()

	s.Trigger("signal")
	waitRun(t, started)

	// three triggers during one run collapse into one pending run
	s.Trigger("signal")
	s.Trigger("signal")
	s.Trigger("signal")
	release <- struct{}{}

	waitRun(t, started)
	release <- struct{}{}

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(2), runs.Load())
}

func TestScheduler_UpdateConfig(t *testing.T) {
	s := New(config.ScheduleConfig{Cron: "0 3 * * *"}, func(context.Context) error { return nil }, logging.Nop())

	require.NoError(t, s.UpdateConfig(config.ScheduleConfig{Cron: "*/5 * * * *"}))
	assert.False(t, s.Next().IsZero())
	assert.Len(t, s.cron.Entries(), 1)

	err := s.UpdateConfig(config.ScheduleConfig{Cron: "not a schedule"})
	require.Error(t, err)
	assert.Equal(t, "*/5 * * * *", s.spec)
	assert.Len(t, s.cron.Entries(), 1)
}

func TestScheduler_UpdateConfigLogsNextRun(t *testing.T) {
	var buf bytes.Buffer
	log, err := logging.NewWithWriter(&buf, logging.Config{Level: "info", Format: "text"})
	require.NoError(t, err)

	s := New(config.ScheduleConfig{Cron: "0 3 * * *"}, func(context.Context) error { return nil }, log)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local) }

	require.NoError(t, s.UpdateConfig(config.ScheduleConfig{Cron: "0 4 * * *"}))
	assert.True(t, time.Date(2024, 5, 2, 4, 0, 0, 0, time.Local).Equal(s.Next()))
	assert.Contains(t, buf.String(), "schedule updated")
	assert.Contains(t, buf.String(), "next=2024-05-02")
}

func TestScheduler_InvalidSpecFailsStart(t *testing.T) {
	s := New(config.ScheduleConfig{Cron: "bogus"}, func(context.Context) error { return nil }, logging.Nop())
	assert.Error(t, s.Start(context.Background()))
}

func waitRun(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("run did not happen")
	}
}
