package commands

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/raoulx24/snapshot-reclaimer/internal/reclaimer"
)

var planAll bool

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show which snapshots would be reclaimed, without deleting",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		cands, err := a.Reclaimer.Plan(cmd.Context())
		if err != nil {
			return exitErr(ExitRuntimeError, err)
		}
		return printPlan(cmd.OutOrStdout(), cands, planAll)
	},
}

func init() {
	planCmd.Flags().BoolVar(&planAll, "all", false, "include snapshots that would be kept")
}

func printPlan(w io.Writer, cands []reclaimer.Candidate, all bool) error {
	data := pterm.TableData{{"Snapshot", "Volume", "Decision", "Reason"}}
	eligible := 0
	for _, c := range cands {
		decision := "keep"
		if c.Decision.Eligible {
			decision = "delete"
			eligible++
		} else if !all {
			continue
		}
		vol := c.Snapshot.VolumeID
		if vol == "" {
			vol = "-"
		}
		data = append(data, []string{c.Snapshot.ID, vol, decision, c.Decision.Reason.Describe()})
	}

	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, s)
	fmt.Fprintf(w, "%d of %d snapshots eligible for deletion\n", eligible, len(cands))
	return nil
}
