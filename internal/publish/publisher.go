// Package publish persists warehouse tables. Each table is written twice:
// a durable CSV artifact in the warehouse directory, then a full replacement
// of the same-named table in the queryable store, loaded from that file.
// The two writes are not transactional; a failure between them is resolved
// by the next full rebuild.
package publish

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/starmill/internal/warehouse"
	"github.com/leapstack-labs/starmill/pkg/adapter"
)

// Publisher writes warehouse relations to the file and store targets.
type Publisher struct {
	dir    string
	store  adapter.Adapter
	logger *slog.Logger
}

// New creates a publisher. The warehouse directory is created if absent.
// store may be nil for file-only publishing (used by tests and dry runs).
func New(dir string, store adapter.Adapter, logger *slog.Logger) (*Publisher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create warehouse directory: %w", err)
	}
	return &Publisher{dir: dir, store: store, logger: logger}, nil
}

// Path returns the CSV artifact path for a table name.
func (p *Publisher) Path(table string) string {
	return filepath.Join(p.dir, table+".csv")
}

// Publish replaces the relation's CSV artifact and store table in full.
// Any write failure is fatal for the table: the caller should abort the run
// rather than leave a half-updated warehouse silently.
func (p *Publisher) Publish(ctx context.Context, rel warehouse.Relation) error {
	path := p.Path(rel.Name)
	if err := writeCSV(path, rel); err != nil {
		return fmt.Errorf("failed to write %s artifact: %w", rel.Name, err)
	}
	p.logger.Debug("wrote table artifact", "table", rel.Name, "path", path, "rows", rel.Rows())

	if p.store == nil {
		return nil
	}
	if err := p.store.LoadCSV(ctx, rel.Name, path); err != nil {
		return fmt.Errorf("failed to replace store table %s: %w", rel.Name, err)
	}
	p.logger.Debug("replaced store table", "table", rel.Name, "rows", rel.Rows())
	return nil
}

// writeCSV replaces the file artifact in full.
func writeCSV(path string, rel warehouse.Relation) error {
	f, err := os.Create(path) //nolint:gosec // paths are derived from the configured warehouse directory
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(rel.Columns); err != nil {
		_ = f.Close()
		return err
	}
	for _, rec := range rel.Records {
		if err := w.Write(rec); err != nil {
			_ = f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
