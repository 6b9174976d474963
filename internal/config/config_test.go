package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inTempDir runs the test from an empty working directory so no stray
// microcity.yaml or .env is picked up.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
	t.Setenv("PORT", "")
	return dir
}

func TestLoadDefaults(t *testing.T) {
	inTempDir(t)
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":2222", cfg.SSH.Addr)
	assert.Equal(t, "host_key", cfg.SSH.HostKey)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 20, cfg.Game.TickRate)
	assert.Equal(t, 4, cfg.Game.ScrollSpeed)
	assert.Equal(t, int64(8<<20), cfg.Cache.MaxCost)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	inTempDir(t)
	t.Setenv("MICROCITY_HTTP_ADDR", ":9090")
	t.Setenv("MICROCITY_GAME_TICK_RATE", "30")
	t.Setenv("MICROCITY_CACHE_TTL", "45s")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 30, cfg.Game.TickRate)
	assert.Equal(t, 45*time.Second, cfg.Cache.TTL)
}

func TestLoadLegacyPort(t *testing.T) {
	inTempDir(t)
	t.Setenv("PORT", "2022")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":2022", cfg.SSH.Addr)

	// The prefixed variable wins.
	t.Setenv("MICROCITY_SSH_ADDR", ":3000")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.SSH.Addr)
}

func TestLoadConfigFile(t *testing.T) {
	dir := inTempDir(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("city:\n  path: towns/river.json\ngame:\n  scroll_speed: 8\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "towns/river.json", cfg.City.Path)
	assert.Equal(t, 8, cfg.Game.ScrollSpeed)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MICROCITY_LOG_LEVEL=debug\n"), 0644))
	t.Cleanup(func() { _ = os.Unsetenv("MICROCITY_LOG_LEVEL") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	inTempDir(t)
	t.Setenv("MICROCITY_GAME_TICK_RATE", "0")
	_, err := Load("")
	assert.ErrorContains(t, err, "tick_rate")
}
