package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("staging-dir", "", "")
	flags.String("warehouse-dir", "", "")
	flags.String("state", "", "")
	flags.BoolP("verbose", "v", false, "")
	return flags
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Cleanup(Reset)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultStagingDir, cfg.StagingDir)
	assert.Equal(t, DefaultWarehouseDir, cfg.WarehouseDir)
	assert.Equal(t, DefaultStateFile, cfg.StatePath)
	assert.False(t, cfg.Verbose)
	assert.Nil(t, cfg.Target)
	assert.Empty(t, GetConfigFileUsed())

	// Without an explicit target, builds land in a local DuckDB file.
	target := cfg.GetTarget()
	assert.Equal(t, "duckdb", target.Type)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
staging_dir: data/staging
warehouse_dir: data/warehouse
target:
  type: postgres
  host: localhost
  port: 5432
  database: warehouse
  username: etl
fact:
  required_dimensions: [order_date, product]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "starmill.yaml"), []byte(content), 0600))
	chdir(t, dir)
	t.Cleanup(Reset)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "starmill.yaml", GetConfigFileUsed())
	// Paths resolve relative to the config file's directory.
	assert.Equal(t, filepath.Join("data", "staging"), cfg.StagingDir)

	require.NotNil(t, cfg.Target)
	assert.Equal(t, "postgres", cfg.Target.Type)
	assert.Equal(t, 5432, cfg.Target.Port)
	assert.Equal(t, []string{"order_date", "product"}, cfg.Fact.RequiredDimensions)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "starmill.yaml"),
		[]byte("staging_dir: /from/file\n"), 0600))
	chdir(t, dir)
	t.Cleanup(Reset)

	t.Setenv("STARMILL_STAGING_DIR", "/from/env")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.StagingDir)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Cleanup(Reset)

	t.Setenv("STARMILL_STAGING_DIR", "/from/env")

	flags := newFlagSet()
	require.NoError(t, flags.Set("staging-dir", "/from/flag"))
	require.NoError(t, flags.Set("state", "/from/flag/state.db"))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", cfg.StagingDir)
	// --state maps onto state_path.
	assert.Equal(t, "/from/flag/state.db", cfg.StatePath)
}

func TestLoadUnchangedFlagsIgnored(t *testing.T) {
	chdir(t, t.TempDir())
	t.Cleanup(Reset)

	// Flags that were never set must not clobber defaults.
	cfg, err := Load("", newFlagSet())
	require.NoError(t, err)
	assert.Equal(t, DefaultStagingDir, cfg.StagingDir)
}

func TestLoadExplicitConfigFileMissing(t *testing.T) {
	chdir(t, t.TempDir())
	t.Cleanup(Reset)

	_, err := Load("no-such-file.yaml", nil)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{StagingDir: "staging", WarehouseDir: "warehouse"}
	assert.NoError(t, cfg.Validate())

	cfg.StagingDir = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{StagingDir: filepath.Join(dir, "staging"), WarehouseDir: dir}

	err := cfg.ValidateDirectories()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "staging directory does not exist")

	require.NoError(t, os.MkdirAll(cfg.StagingDir, 0750))
	assert.NoError(t, cfg.ValidateDirectories())
}
