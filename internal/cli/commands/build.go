package commands

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/starmill/internal/state"
	"github.com/spf13/cobra"
)

// NewBuildCommand creates the build command.
func NewBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Rebuild the warehouse from staging CSVs",
		Long: `Rebuild every dimension and the fact table from the staging datasets.

The build derives the date, region, product, customer, store and staff
dimensions, assembles fact_sales against them, writes each table as a CSV
artifact in the warehouse directory, and replaces the tables in the
configured store. Every build is a full reload; nothing is incremental.`,
		Example: `  # Rebuild from ./staging into ./warehouse
  starmill build

  # Rebuild from a different staging directory
  starmill build --staging-dir /data/staging`,
		Aliases: []string{"run"},
		RunE:    runBuild,
	}

	return cmd
}

func runBuild(cmd *cobra.Command, _ []string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := cmdCtx.Cfg.ValidateDirectories(); err != nil {
		return err
	}

	startTime := time.Now()

	run, err := cmdCtx.Engine.Build(cmd.Context())
	if run != nil {
		// Table loads recorded before the failure are still worth showing.
		renderRunSummary(cmd, cmdCtx, run)
	}
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	elapsed := time.Since(startTime)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Completed in %s\n", elapsed.Round(time.Millisecond))
	return nil
}

func renderRunSummary(cmd *cobra.Command, cmdCtx *CommandContext, run *state.Run) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Run %s: %s\n", run.ID, run.Status)
	if run.Error != nil {
		_, _ = fmt.Fprintf(out, "Error: %s\n", *run.Error)
	}

	loads, err := cmdCtx.Engine.Store().ListTableLoads(run.ID)
	if err != nil || len(loads) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Table", "Rows In", "Rows Out", "Dropped"})
	for _, load := range loads {
		t.AppendRow(table.Row{load.Table, load.RowsIn, load.RowsOut, load.Dropped})
	}
	t.Render()
}
