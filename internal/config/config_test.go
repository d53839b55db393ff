package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	f := pflag.NewFlagSet("test", pflag.ContinueOnError)
	Flags(f)
	require.NoError(t, f.Parse(args))
	return f
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "eqflash.db", cfg.DB)
	assert.Equal(t, 50, cfg.MaxHistory)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "repos", cfg.ReposDir)
	assert.False(t, cfg.Shuffle)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "eqflash.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db: from-file.db\nmax-history: 20\nlog-level: info\nshuffle: true\n"), 0o644))
	t.Setenv("EQFLASH_MAX_HISTORY", "30")

	cfg, err := Load(newFlags(t, "--config", path, "--log-level", "debug"))
	require.NoError(t, err)
	assert.Equal(t, "from-file.db", cfg.DB, "file overrides flag default")
	assert.Equal(t, 30, cfg.MaxHistory, "environment overrides file")
	assert.Equal(t, "debug", cfg.LogLevel, "explicit flag overrides everything")
	assert.True(t, cfg.Shuffle)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(newFlags(t, "--config", filepath.Join(t.TempDir(), "absent.yaml")))
	assert.Error(t, err)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load(newFlags(t, "--max-history", "0"))
	assert.Error(t, err)

	_, err = Load(newFlags(t, "--log-level", "loud"))
	assert.Error(t, err)
}
