package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raoulx24/snapshot-reclaimer/internal/app"
	"github.com/raoulx24/snapshot-reclaimer/internal/scheduler"
	"github.com/raoulx24/snapshot-reclaimer/internal/watcher"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Stay resident and run on the configured cron schedule",
	Long: `Run the reclaimer every time schedule.cron fires. Runs never overlap: ticks that
arrive during a run collapse into one pending run.

Signals:
  SIGHUP           reload the config file
  SIGUSR1          trigger a run now
  SIGINT, SIGTERM  stop`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}

		ctx, cancel := signalContext(cmd.Context(), a.Log)
		defer cancel()

		cfg := a.Config()
		sched := scheduler.New(cfg.Schedule, func(ctx context.Context) error {
			_, err := a.RunOnce(ctx)
			return err
		}, a.Log)

		// Config file watcher
		var watch *watcher.Watcher
		reload := func() { reloadConfig(a, sched, watch) }
		if cfg.ConfigReload.Enabled && cfgFile != "" {
			watch = watcher.New(cfgFile, cfg.ConfigReload, a.Log, reload)
			go func() {
				if err := watch.Start(ctx); err != nil {
					a.Log.Error("config watcher stopped", "error", err)
				}
			}()
		}

		// Hot reload on SIGHUP, manual trigger on SIGUSR1
		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGUSR1)
			defer signal.Stop(sigCh)

			for {
				select {
				case <-ctx.Done():
					return
				case sig := <-sigCh:
					if sig == syscall.SIGUSR1 {
						sched.Trigger("signal")
						continue
					}
					reload()
				}
			}
		}()

		if err := sched.Start(ctx); err != nil {
			return exitErr(ExitInvalidConfig, err)
		}
		a.Log.Info("exit complete")
		return nil
	},
}

// reloadConfig re-reads the config file and applies what can change at
// runtime. A bad file leaves the running configuration untouched. watch is
// nil when file watching is off.
func reloadConfig(a *app.App, sched *scheduler.Scheduler, watch *watcher.Watcher) {
	if cfgFile == "" {
		a.Log.Warn("config reload requested but no config file is in use")
		return
	}
	newCfg, err := loadConfig()
	if err != nil {
		a.Log.Error("config reload failed", "error", err)
		return
	}
	if err := sched.UpdateConfig(newCfg.Schedule); err != nil {
		a.Log.Error("config reload failed", "error", err)
		return
	}

	if newCfg.Logging != a.Config().Logging {
		a.Log.Warn("logging settings changed, restart to apply",
			"level", newCfg.Logging.Level, "format", newCfg.Logging.Format)
	}

	// Apply updates
	a.UpdateConfig(newCfg)
	if watch != nil {
		watch.UpdateConfig(newCfg.ConfigReload)
	}
	a.Log.Info("config reloaded")
}
