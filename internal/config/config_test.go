package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	t.Setenv("TEST_SMS_KEY", "secret-key")

	content := `
server:
  port: 8080
database:
  path: ` + filepath.Join(dir, "data", "test.db") + `
admin:
  username: admin
  session_ttl_minutes: 30
sms:
  enabled: true
  api_key: ${TEST_SMS_KEY}
booking:
  slot_minutes: 30
  sweep_interval_minutes: 15
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, "secret-key", cfg.SMS.APIKey, "env placeholders should expand")
	assert.Equal(t, 30*time.Minute, cfg.SlotDuration())
	assert.Equal(t, 15*time.Minute, cfg.SweepInterval())
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL())

	// Database directory is created on load.
	_, err = os.Stat(filepath.Join(dir, "data"))
	assert.NoError(t, err)
}

func TestDefaults(t *testing.T) {
	var cfg Config
	assert.Equal(t, 60*time.Minute, cfg.SlotDuration())
	assert.Equal(t, 2*time.Hour, cfg.BookingMinAdvance())
	assert.Equal(t, 60*24*time.Hour, cfg.BookingMaxAdvance())
	assert.Equal(t, 30*time.Minute, cfg.SweepInterval())
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL())
	assert.Equal(t, time.Minute, cfg.SheetsInterval())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
