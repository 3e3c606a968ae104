package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/starmill/internal/config"
	"github.com/leapstack-labs/starmill/internal/engine"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Engine *engine.Engine
}

// NewCommandContext creates a CommandContext with an engine.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(_ *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := newLogger(cfg)

	eng, err := createEngine(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = eng.Close()
	}

	return &CommandContext{
		Cfg:    cfg,
		Logger: logger,
		Engine: eng,
	}, cleanup, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
// Useful for commands that don't need the run ledger.
func NewCommandContextWithoutEngine(_ *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:    cfg,
		Logger: newLogger(cfg),
	}
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	stagingDir := getEnvOrDefault("STARMILL_STAGING_DIR", config.DefaultStagingDir)
	warehouseDir := getEnvOrDefault("STARMILL_WAREHOUSE_DIR", config.DefaultWarehouseDir)
	statePath := getEnvOrDefault("STARMILL_STATE_PATH", config.DefaultStateFile)
	verbose := os.Getenv("STARMILL_VERBOSE") == "true"

	return &config.Config{
		StagingDir:   stagingDir,
		WarehouseDir: warehouseDir,
		StatePath:    statePath,
		Verbose:      verbose,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// newLogger builds the slog logger for a command. Commands print their own
// summaries, so the structured log stays quiet unless verbose is set.
func newLogger(cfg *config.Config) *slog.Logger {
	if !cfg.Verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func createEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	// Ensure state directory exists
	stateDir := filepath.Dir(cfg.StatePath)
	if stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0750); err != nil {
			return nil, err
		}
	}

	engineCfg := engine.Config{
		StagingDir:         cfg.StagingDir,
		WarehouseDir:       cfg.WarehouseDir,
		StatePath:          cfg.StatePath,
		Target:             cfg.GetTarget(),
		RequiredDimensions: cfg.Fact.RequiredDimensions,
		Logger:             logger,
	}

	return engine.New(engineCfg)
}
