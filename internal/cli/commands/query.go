package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/leapstack-labs/starmill/pkg/adapter"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// warehouseTables lists the tables a build publishes, in publish order.
var warehouseTables = []string{
	"dim_date",
	"dim_region",
	"dim_product",
	"dim_customer",
	"dim_store",
	"dim_staff",
	"fact_sales",
}

// openStore connects to the configured warehouse store.
// The caller must Close the returned adapter.
func openStore(ctx context.Context, cmdCtx *CommandContext) (adapter.Adapter, error) {
	cfg := cmdCtx.Cfg.GetTarget()
	db, err := adapter.New(cfg, cmdCtx.Logger)
	if err != nil {
		return nil, err
	}
	if err := db.Connect(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to connect to store: %w", err)
	}
	return db, nil
}

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Input  string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Query the warehouse store",
		Long: `Execute SQL against the configured warehouse store.

Run ad-hoc queries over the published dimension and fact tables. Supports
multiple output formats for scripting and integration.

When invoked without arguments, enters interactive REPL mode.`,
		Example: `  # Execute SQL directly
  starmill query "SELECT COUNT(*) FROM fact_sales"

  # Output as JSON
  starmill query "SELECT * FROM dim_region" --format json

  # Read SQL from a file
  starmill query --input report.sql

  # Interactive mode
  starmill query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, json, csv, md")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)

	// Determine SQL source
	var sqlQuery string

	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case !term.IsTerminal(int(os.Stdin.Fd())):
		// Read from stdin (piped input)
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	default:
		// No input, TTY detected - enter REPL mode
		return runQueryREPL(cmd, cmdCtx, opts)
	}

	db, err := openStore(cmd.Context(), cmdCtx)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return executeAndRenderQuery(cmd.Context(), cmd, db, sqlQuery, opts.Format)
}

// executeAndRenderQuery executes a query and renders results, properly closing rows with defer.
func executeAndRenderQuery(ctx context.Context, cmd *cobra.Command, db adapter.Adapter, query, format string) error {
	rows, err := db.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return renderResults(cmd.OutOrStdout(), rows.Rows, format)
}
