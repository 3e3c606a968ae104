// Package engine orchestrates a full warehouse rebuild: load staging
// datasets, build the dimensions in dependency order, assemble the fact
// table, and publish every table to the file and store targets. Execution
// is single-threaded and strictly sequential; the store connection is
// acquired once and released when the engine closes.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/starmill/internal/state"
	"github.com/leapstack-labs/starmill/internal/warehouse"
	"github.com/leapstack-labs/starmill/pkg/adapter"
)

// Config holds engine configuration.
type Config struct {
	// StagingDir is the directory holding the cleaned staging CSVs
	StagingDir string
	// WarehouseDir is the directory the table artifacts are written to
	WarehouseDir string
	// StatePath is the path to the SQLite run-ledger database
	StatePath string
	// Target contains the warehouse store configuration
	Target adapter.Config
	// RequiredDimensions overrides the fact policy (nil uses the default:
	// every joinable dimension is required)
	RequiredDimensions []string
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Engine rebuilds the dimensional warehouse from staging datasets.
type Engine struct {
	logger *slog.Logger
	store  state.Store
	db     adapter.Adapter

	dbCfg       adapter.Config
	dbConnected bool

	stagingDir   string
	warehouseDir string
	policy       warehouse.FactPolicy
}

// New creates a new engine with a lazy store connection. The store is only
// connected when Build is called.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	logger.Debug("initializing engine",
		"staging_dir", cfg.StagingDir, "warehouse_dir", cfg.WarehouseDir)

	store := state.NewSQLiteStore(logger)
	if err := store.Open(cfg.StatePath); err != nil {
		return nil, fmt.Errorf("failed to open run ledger: %w", err)
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate run ledger: %w", err)
	}

	policy := warehouse.DefaultFactPolicy()
	if cfg.RequiredDimensions != nil {
		var err error
		policy, err = warehouse.NewFactPolicy(cfg.RequiredDimensions)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	db, err := adapter.New(cfg.Target, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &Engine{
		logger:       logger,
		store:        store,
		db:           db,
		dbCfg:        cfg.Target,
		stagingDir:   cfg.StagingDir,
		warehouseDir: cfg.WarehouseDir,
		policy:       policy,
	}, nil
}

// ensureStoreConnected connects the warehouse store on first use.
func (e *Engine) ensureStoreConnected(ctx context.Context) error {
	if e.dbConnected {
		return nil
	}
	if err := e.db.Connect(ctx, e.dbCfg); err != nil {
		return fmt.Errorf("failed to connect warehouse store: %w", err)
	}
	e.dbConnected = true
	return nil
}

// Store exposes the run ledger for the CLI's history surface.
func (e *Engine) Store() state.Store { return e.store }

// Close releases the store connection and the run ledger.
func (e *Engine) Close() error {
	var firstErr error
	if e.dbConnected {
		if err := e.db.Close(); err != nil {
			firstErr = err
		}
		e.dbConnected = false
	}
	if err := e.store.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
