package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/raoulx24/snapshot-reclaimer/internal/app"
	"github.com/raoulx24/snapshot-reclaimer/internal/config"
	"github.com/raoulx24/snapshot-reclaimer/internal/inventory"
	"github.com/raoulx24/snapshot-reclaimer/internal/logging"
)

// newInventory is replaced in tests.
var newInventory = func(ctx context.Context, cfg *config.Config) (inventory.Client, error) {
	return inventory.NewEC2FromConfig(ctx, cfg.AWS)
}

// setup loads config, logger and the app for a command.
func setup(ctx context.Context) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	client, err := newInventory(ctx, cfg)
	if err != nil {
		return nil, exitErr(ExitRuntimeError, err)
	}
	return app.NewWithClient(cfg, log, client), nil
}

// signalContext cancels on SIGINT/SIGTERM.
func signalContext(parent context.Context, log logging.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			log.Info("shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
