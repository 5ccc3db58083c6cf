package commands

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/raoulx24/snapshot-reclaimer/internal/reclaimer"
)

var (
	runDryRun bool
	runStrict bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one reclaim pass and exit",
	Long: `Fetch the snapshot, volume and instance inventory, classify every snapshot and
delete the eligible ones. Failed deletions are logged and left for the next run.
The command fails only when the inventory cannot be fetched, unless --strict is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("dry-run") {
			cfg := *a.Config()
			cfg.Reclaim.DryRun = runDryRun
			a.UpdateConfig(&cfg)
		}

		ctx, cancel := signalContext(cmd.Context(), a.Log)
		defer cancel()

		report, err := a.RunOnce(ctx)
		if err != nil {
			return exitErr(ExitRuntimeError, err)
		}

		printSummary(cmd.OutOrStdout(), report)

		if runStrict && len(report.Failed()) > 0 {
			return exitErrf(ExitPartial, "%d snapshot deletions failed", len(report.Failed()))
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "classify and log, but do not delete (overrides reclaim.dryRun)")
	runCmd.Flags().BoolVar(&runStrict, "strict", false, "exit non-zero when any deletion failed")
}

func printSummary(w io.Writer, r *reclaimer.Report) {
	fmt.Fprintf(w, "run %s: deleted=%d already-gone=%d failed=%d kept=%d would-delete=%d skipped-limit=%d\n",
		r.RunID,
		r.Count(reclaimer.StatusDeleted),
		r.Count(reclaimer.StatusAlreadyGone),
		r.Count(reclaimer.StatusFailed),
		r.Count(reclaimer.StatusKept),
		r.Count(reclaimer.StatusWouldDelete),
		r.Count(reclaimer.StatusSkippedLimit))

	failed := r.Failed()
	if len(failed) == 0 {
		return
	}
	data := pterm.TableData{{"Snapshot", "Reason", "Error class", "Error"}}
	for _, o := range failed {
		data = append(data, []string{o.SnapshotID, o.Reason.Describe(), string(o.Class), o.Err.Error()})
	}
	if s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender(); err == nil {
		fmt.Fprintln(w, s)
	}
}
