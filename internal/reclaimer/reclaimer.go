// Package reclaimer runs one pass of the orphaned snapshot cleanup: fetch
// the inventory, classify every snapshot, delete the eligible ones.
package reclaimer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/raoulx24/snapshot-reclaimer/internal/config"
	"github.com/raoulx24/snapshot-reclaimer/internal/inventory"
	"github.com/raoulx24/snapshot-reclaimer/internal/logging"
	"github.com/raoulx24/snapshot-reclaimer/internal/metrics"
	"github.com/raoulx24/snapshot-reclaimer/internal/policy"
	"github.com/raoulx24/snapshot-reclaimer/internal/snapshot"
)

// Reclaimer deletes orphaned snapshots through an inventory client.
type Reclaimer struct {
	mu      sync.RWMutex
	client  inventory.Client
	policy  *policy.Policy
	reclaim config.ReclaimConfig
	log     logging.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// New creates a reclaimer. m may be nil.
func New(client inventory.Client, cfg *config.Config, log logging.Logger, m *metrics.Metrics) *Reclaimer {
	log.Debug("creating reclaimer")
	return &Reclaimer{
		client:  client,
		policy:  policy.New(cfg.Policy),
		reclaim: cfg.Reclaim,
		log:     log,
		metrics: m,
		now:     time.Now,
	}
}

// UpdateConfig hot-reloads the policy and reclaim settings. Runs already in
// progress keep the settings they started with.
func (r *Reclaimer) UpdateConfig(cfg *config.Config) {
	r.log.Debug("entering Reclaimer.UpdateConfig()")
	r.mu.Lock()
	r.policy = policy.New(cfg.Policy)
	r.reclaim = cfg.Reclaim
	r.mu.Unlock()
}

// Fetch takes the inventory snapshot a run works from. Any listing error
// is fatal for the run.
func (r *Reclaimer) Fetch(ctx context.Context) (*snapshot.Inventory, error) {
	snaps, err := r.client.ListSnapshots(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	running, err := r.client.ListRunningInstances(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing running instances: %w", err)
	}
	volumes, err := r.client.ListVolumes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing volumes: %w", err)
	}
	return snapshot.NewInventory(snaps, volumes, running), nil
}

// Candidate pairs a snapshot with its classification.
type Candidate struct {
	Snapshot snapshot.Snapshot
	Decision policy.Decision
}

// Plan fetches the inventory and classifies every snapshot without deleting.
func (r *Reclaimer) Plan(ctx context.Context) ([]Candidate, error) {
	inv, err := r.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	p := r.policy
	r.mu.RUnlock()
	return classifyAll(p, inv), nil
}

func classifyAll(p *policy.Policy, inv *snapshot.Inventory) []Candidate {
	out := make([]Candidate, 0, len(inv.Snapshots))
	for _, s := range inv.Snapshots {
		out = append(out, Candidate{Snapshot: s, Decision: p.Classify(s, inv)})
	}
	return out
}

// Run performs one full pass. It returns an error only when the inventory
// cannot be fetched; per-snapshot failures are recorded in the report.
func (r *Reclaimer) Run(ctx context.Context) (*Report, error) {
	r.mu.RLock()
	p := r.policy
	rc := r.reclaim
	r.mu.RUnlock()

	report := &Report{
		RunID:   uuid.NewString(),
		DryRun:  rc.DryRun,
		Started: r.now(),
	}
	log := r.log.With("run_id", report.RunID)
	log.Info("reclaim run started", "dry_run", rc.DryRun, "max_deletes", rc.MaxDeletes)

	inv, err := r.Fetch(ctx)
	if err != nil {
		report.Finished = r.now()
		r.metrics.ObserveRun(report.Finished.Sub(report.Started), report.Finished, err)
		log.Error("reclaim run aborted", "error", err)
		return report, err
	}
	r.metrics.ObserveInventory(len(inv.Snapshots), inv.VolumeCount(), inv.RunningCount())
	log.Info("inventory fetched",
		"snapshots", len(inv.Snapshots),
		"volumes", inv.VolumeCount(),
		"running_instances", inv.RunningCount())

	deletes := 0
	for _, c := range classifyAll(p, inv) {
		r.metrics.ObserveDecision(c.Decision.Eligible, string(c.Decision.Reason))

		o := Outcome{
			SnapshotID: c.Snapshot.ID,
			VolumeID:   c.Snapshot.VolumeID,
			Reason:     c.Decision.Reason,
		}

		switch {
		case !c.Decision.Eligible:
			o.Status = StatusKept
			log.Debug("keeping snapshot", "snapshot_id", o.SnapshotID, "reason", o.Reason.Describe())
		case rc.DryRun:
			o.Status = StatusWouldDelete
			log.Info("would delete snapshot", "snapshot_id", o.SnapshotID, "reason", o.Reason.Describe())
		case rc.MaxDeletes > 0 && deletes >= rc.MaxDeletes:
			o.Status = StatusSkippedLimit
			log.Warn("delete limit reached, skipping snapshot", "snapshot_id", o.SnapshotID, "reason", o.Reason.Describe())
		default:
			deletes++
			r.delete(ctx, log, &o)
		}

		r.metrics.ObserveOutcome(string(o.Status))
		report.Outcomes = append(report.Outcomes, o)
	}

	report.Finished = r.now()
	r.metrics.ObserveRun(report.Finished.Sub(report.Started), report.Finished, nil)
	log.Info("reclaim run finished",
		"deleted", report.Count(StatusDeleted),
		"already_gone", report.Count(StatusAlreadyGone),
		"failed", report.Count(StatusFailed),
		"kept", report.Count(StatusKept),
		"would_delete", report.Count(StatusWouldDelete),
		"skipped_limit", report.Count(StatusSkippedLimit),
		"duration", report.Finished.Sub(report.Started))
	return report, nil
}

// delete issues one delete request and records the result on o.
func (r *Reclaimer) delete(ctx context.Context, log logging.Logger, o *Outcome) {
	err := r.client.DeleteSnapshot(ctx, o.SnapshotID)
	switch {
	case err == nil:
		o.Status = StatusDeleted
		log.Info("snapshot deleted", "snapshot_id", o.SnapshotID, "reason", o.Reason.Describe())
	case inventory.IsNotFound(err):
		o.Status = StatusAlreadyGone
		log.Info("snapshot already gone", "snapshot_id", o.SnapshotID, "reason", o.Reason.Describe())
	default:
		o.Status = StatusFailed
		o.Class = inventory.Classify(err)
		o.Err = err
		r.metrics.ObserveDeleteError(string(o.Class))
		log.Error("snapshot delete failed",
			"snapshot_id", o.SnapshotID,
			"reason", o.Reason.Describe(),
			"error_class", string(o.Class),
			"error", err)
	}
}
