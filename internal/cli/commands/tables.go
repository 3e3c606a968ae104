package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/starmill/pkg/adapter"
	"github.com/spf13/cobra"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables [table]",
		Short: "Inspect the published warehouse tables",
		Long: `List the published warehouse tables, or show the schema of one table.

Without arguments, lists every dimension and fact table with its column and
row counts. With a table name, shows that table's columns as the store
reports them.`,
		Example: `  # List all warehouse tables
  starmill tables

  # Show the fact table schema
  starmill tables fact_sales`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContextWithoutEngine(cmd)

			db, err := openStore(cmd.Context(), cmdCtx)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if len(args) == 1 {
				return renderTableSchema(cmd.Context(), cmd.OutOrStdout(), db, args[0])
			}
			return renderTableList(cmd.Context(), cmd.OutOrStdout(), db)
		},
	}

	return cmd
}

// renderTableList prints one line per warehouse table. Tables that have not
// been published yet show up as missing rather than failing the listing.
func renderTableList(ctx context.Context, w io.Writer, db adapter.Adapter) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Table", "Columns", "Rows"})

	for _, name := range warehouseTables {
		md, err := db.GetTableMetadata(ctx, name)
		if err != nil {
			t.AppendRow(table.Row{name, "-", "(not built)"})
			continue
		}
		t.AppendRow(table.Row{name, len(md.Columns), md.RowCount})
	}

	t.Render()
	return nil
}

func renderTableSchema(ctx context.Context, w io.Writer, db adapter.Adapter, name string) error {
	md, err := db.GetTableMetadata(ctx, name)
	if err != nil {
		return err
	}

	qualified := md.Name
	if md.Schema != "" {
		qualified = md.Schema + "." + md.Name
	}
	_, _ = fmt.Fprintf(w, "Table: %s (%d rows)\n", qualified, md.RowCount)
	_, _ = fmt.Fprintln(w, strings.Repeat("-", 60))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Column", "Type", "Nullable"})

	for _, col := range md.Columns {
		nullable := "YES"
		if !col.Nullable {
			nullable = "NO"
		}
		t.AppendRow(table.Row{col.Name, col.Type, nullable})
	}
	t.Render()

	return nil
}
