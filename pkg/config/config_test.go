package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultSyncConfig(t *testing.T) {
	cfg := DefaultSyncConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 5, cfg.Reliability.RetryAttempts)
	assert.Equal(t, 30*time.Second, cfg.Reliability.RetryDelay)
	assert.Equal(t, 60*time.Second, cfg.Timeouts.Request)
}

func TestLoadAppliesDefaultsForUnsetSections(t *testing.T) {
	path := writeConfig(t, `
user_agent: custom-agent/2.0
reliability:
  retry_attempts: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "custom-agent/2.0", cfg.UserAgent)
	assert.Equal(t, 3, cfg.Reliability.RetryAttempts)
	// Unset values keep defaults
	assert.Equal(t, 30*time.Second, cfg.Reliability.RetryDelay)
	assert.Equal(t, 60*time.Second, cfg.Timeouts.Request)
	assert.Equal(t, "info", cfg.Observability.LogLevel)
}

func TestLoadSubstitutesEnvVars(t *testing.T) {
	t.Setenv("SYNC_LOG_LEVEL", "debug")
	path := writeConfig(t, `
observability:
  log_level: ${SYNC_LOG_LEVEL}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, `
reliability:
  retry_attempts: 0
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retry_attempts")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultSyncConfig()
	cfg.UserAgent = "roundtrip/1.0"

	require.NoError(t, Save(path, cfg))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestValidate(t *testing.T) {
	cfg := DefaultSyncConfig()
	cfg.Reliability.RetryDelay = -time.Second
	assert.Error(t, cfg.Validate())

	cfg = DefaultSyncConfig()
	cfg.Timeouts.Request = 0
	assert.Error(t, cfg.Validate())
}
