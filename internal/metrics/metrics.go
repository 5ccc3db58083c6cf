// Package metrics exposes per-run Prometheus metrics for the reclaimer.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	LabelDecision = "decision"
	LabelReason   = "reason"
	LabelOutcome  = "outcome"
	LabelClass    = "error_class"
)

// Metrics records classification and reclamation outcomes. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	classified    *prometheus.CounterVec
	outcomes      *prometheus.CounterVec
	deleteErrors  *prometheus.CounterVec
	inventorySize *prometheus.GaugeVec
	runDuration   prometheus.Histogram
	lastSuccess   prometheus.Gauge
	runFailures   prometheus.Counter
}

// New creates the metrics on a fresh registry so a run can be pushed as a unit.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		classified: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "snapshot_reclaimer",
				Name:      "snapshots_classified_total",
				Help:      "Snapshots classified, by decision and reason",
			},
			[]string{LabelDecision, LabelReason},
		),
		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "snapshot_reclaimer",
				Name:      "reclaim_outcomes_total",
				Help:      "Per-snapshot reclamation outcomes",
			},
			[]string{LabelOutcome},
		),
		deleteErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "snapshot_reclaimer",
				Name:      "delete_errors_total",
				Help:      "Failed snapshot deletions by error class",
			},
			[]string{LabelClass},
		),
		inventorySize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "snapshot_reclaimer",
				Name:      "inventory_size",
				Help:      "Number of records fetched at the start of the last run",
			},
			[]string{"kind"},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "snapshot_reclaimer",
				Name:      "run_duration_seconds",
				Help:      "Duration of reclaimer runs",
				Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 900},
			},
		),
		lastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "snapshot_reclaimer",
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix time of the last run that fetched inventory successfully",
			},
		),
		runFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "snapshot_reclaimer",
				Name:      "run_failures_total",
				Help:      "Runs aborted by an inventory fetch failure",
			},
		),
	}

	reg.MustRegister(
		m.classified,
		m.outcomes,
		m.deleteErrors,
		m.inventorySize,
		m.runDuration,
		m.lastSuccess,
		m.runFailures,
	)
	return m
}

// Registry returns the registry holding the reclaimer metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveInventory(snapshots, volumes, running int) {
	if m == nil {
		return
	}
	m.inventorySize.WithLabelValues("snapshots").Set(float64(snapshots))
	m.inventorySize.WithLabelValues("volumes").Set(float64(volumes))
	m.inventorySize.WithLabelValues("running_instances").Set(float64(running))
}

func (m *Metrics) ObserveDecision(eligible bool, reason string) {
	if m == nil {
		return
	}
	decision := "keep"
	if eligible {
		decision = "eligible"
	}
	m.classified.WithLabelValues(decision, reason).Inc()
}

func (m *Metrics) ObserveOutcome(outcome string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveDeleteError(class string) {
	if m == nil {
		return
	}
	m.deleteErrors.WithLabelValues(class).Inc()
}

// ObserveRun records run duration and, when err is nil, the success timestamp.
func (m *Metrics) ObserveRun(d time.Duration, finished time.Time, err error) {
	if m == nil {
		return
	}
	m.runDuration.Observe(d.Seconds())
	if err != nil {
		m.runFailures.Inc()
		return
	}
	m.lastSuccess.Set(float64(finished.Unix()))
}

// Push sends the registry to a Prometheus Pushgateway. An empty url is a no-op.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	if m == nil || url == "" {
		return nil
	}
	if err := push.New(url, job).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("pushing metrics: %w", err)
	}
	return nil
}
