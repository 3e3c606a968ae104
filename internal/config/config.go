// Package config provides configuration management for the starmill CLI.
package config

import (
	"fmt"
	"os"

	"github.com/leapstack-labs/starmill/pkg/adapter"
)

// Default configuration values.
const (
	DefaultStagingDir   = "staging"
	DefaultWarehouseDir = "warehouse"
	DefaultStateFile    = ".starmill/state.db"
)

// FactConfig controls the fact assembler's join policy.
type FactConfig struct {
	// RequiredDimensions lists the dimensions a fact row must resolve to
	// survive. nil means the default set (all of them).
	RequiredDimensions []string `koanf:"required_dimensions"`
}

// Config holds all CLI configuration options.
type Config struct {
	StagingDir   string          `koanf:"staging_dir"`
	WarehouseDir string          `koanf:"warehouse_dir"`
	StatePath    string          `koanf:"state_path"`
	Verbose      bool            `koanf:"verbose"`
	Target       *adapter.Config `koanf:"target"`
	Fact         FactConfig      `koanf:"fact"`
}

// GetTarget returns the store target, defaulting to a DuckDB file in the
// warehouse directory so a bare `starmill build` works out of the box.
func (c *Config) GetTarget() adapter.Config {
	if c.Target != nil {
		return *c.Target
	}
	return adapter.Config{Type: "duckdb", Path: "warehouse.duckdb"}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.StagingDir == "" {
		return fmt.Errorf("staging_dir is required")
	}
	if c.WarehouseDir == "" {
		return fmt.Errorf("warehouse_dir is required")
	}
	return nil
}

// ValidateDirectories checks if required directories exist.
func (c *Config) ValidateDirectories() error {
	if _, err := os.Stat(c.StagingDir); os.IsNotExist(err) {
		return fmt.Errorf("staging directory does not exist: %s\nHint: Create the directory or use --staging-dir to specify a different path", c.StagingDir)
	}
	return nil
}
