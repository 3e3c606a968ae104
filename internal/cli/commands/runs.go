package commands

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewRunsCommand creates the runs command.
func NewRunsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "Show the build run history",
		Long: `Show past builds from the run ledger.

Without arguments, lists recent runs. With a run ID, shows that run's
per-table load counts.`,
		Example: `  # List the last 20 runs
  starmill runs

  # Show what a specific run published
  starmill runs 7d62c9e1-...`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if len(args) == 1 {
				return showRun(cmd, cmdCtx, args[0])
			}
			return listRuns(cmd, cmdCtx, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")

	return cmd
}

func listRuns(cmd *cobra.Command, cmdCtx *CommandContext, limit int) error {
	runs, err := cmdCtx.Engine.Store().ListRuns(limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No runs yet. Run 'starmill build' first.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Run ID", "Status", "Started", "Duration", "Error"})

	for _, run := range runs {
		duration := "-"
		if run.CompletedAt != nil {
			duration = run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
		}
		errMsg := ""
		if run.Error != nil {
			errMsg = *run.Error
		}
		t.AppendRow(table.Row{
			run.ID,
			run.Status,
			run.StartedAt.Format(time.RFC3339),
			duration,
			errMsg,
		})
	}

	t.Render()
	return nil
}

func showRun(cmd *cobra.Command, cmdCtx *CommandContext, runID string) error {
	run, err := cmdCtx.Engine.Store().GetRun(runID)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Run %s: %s\n", run.ID, run.Status)
	_, _ = fmt.Fprintf(out, "Started: %s\n", run.StartedAt.Format(time.RFC3339))
	if run.CompletedAt != nil {
		_, _ = fmt.Fprintf(out, "Completed: %s (%s)\n",
			run.CompletedAt.Format(time.RFC3339),
			run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond))
	}
	if run.Error != nil {
		_, _ = fmt.Fprintf(out, "Error: %s\n", *run.Error)
	}

	loads, err := cmdCtx.Engine.Store().ListTableLoads(run.ID)
	if err != nil {
		return fmt.Errorf("failed to list table loads: %w", err)
	}
	if len(loads) == 0 {
		_, _ = fmt.Fprintln(out, "No tables published.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Table", "Rows In", "Rows Out", "Dropped"})
	for _, load := range loads {
		t.AppendRow(table.Row{load.Table, load.RowsIn, load.RowsOut, load.Dropped})
	}
	t.Render()

	return nil
}
