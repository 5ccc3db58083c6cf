// Package app wires configuration, the EC2 inventory, metrics and the
// reclaimer together for the command line and Lambda entry points.
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/raoulx24/snapshot-reclaimer/internal/config"
	"github.com/raoulx24/snapshot-reclaimer/internal/inventory"
	"github.com/raoulx24/snapshot-reclaimer/internal/logging"
	"github.com/raoulx24/snapshot-reclaimer/internal/metrics"
	"github.com/raoulx24/snapshot-reclaimer/internal/reclaimer"
)

// App owns one reclaimer and the collaborators around it.
type App struct {
	mu        sync.RWMutex
	cfg       *config.Config
	Log       logging.Logger
	Metrics   *metrics.Metrics
	Reclaimer *reclaimer.Reclaimer
}

// New builds an App against the real EC2 API.
func New(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	client, err := inventory.NewEC2FromConfig(ctx, cfg.AWS)
	if err != nil {
		return nil, err
	}
	return NewWithClient(cfg, log, client), nil
}

// NewWithClient builds an App on any inventory client.
func NewWithClient(cfg *config.Config, log logging.Logger, client inventory.Client) *App {
	m := metrics.New()
	return &App{
		cfg:       cfg,
		Log:       log,
		Metrics:   m,
		Reclaimer: reclaimer.New(client, cfg, log, m),
	}
}

// Config returns the active configuration.
func (a *App) Config() *config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg
}

// UpdateConfig applies a reloaded configuration. AWS and logging settings
// are fixed for the life of the process.
func (a *App) UpdateConfig(cfg *config.Config) {
	a.mu.Lock()
	a.cfg = cfg
	a.mu.Unlock()
	a.Reclaimer.UpdateConfig(cfg)
}

// RunOnce performs one reclaim run and pushes metrics when a Pushgateway
// is configured. A push failure is logged, never returned.
func (a *App) RunOnce(ctx context.Context) (*reclaimer.Report, error) {
	report, err := a.Reclaimer.Run(ctx)

	mc := a.Config().Metrics
	if perr := a.Metrics.Push(ctx, mc.PushgatewayURL, mc.Job); perr != nil {
		a.Log.Warn("metrics push failed", "error", perr)
	}

	if err != nil {
		return report, fmt.Errorf("reclaim run: %w", err)
	}
	return report, nil
}
