package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dfrsetup/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded provisioning runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			stateDir, err := ctx.stateDir()
			if err != nil {
				return err
			}
			j, err := journal.Open(stateDir)
			if err != nil {
				return err
			}
			defer j.Close()

			runs, err := j.Runs(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					run.StartedAt.Local().Format(time.DateTime),
					runDuration(run),
					run.State,
					run.Failure,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(),
				renderTable([]string{"Run", "Started", "Duration", "State", "Failure"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runDuration(run journal.Run) string {
	if run.FinishedAt.IsZero() {
		return "-"
	}
	return run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String()
}
