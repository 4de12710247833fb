package db

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode: dev
addr: ":9090"
database:
  host: localhost
  port: 3306
  user: app
  password: secret
  dbname: library
auth:
  secret: token-secret
  token_ttl: 12h
sweeper:
  interval: 30m
upload:
  dir: data/uploads
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Mode)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 3306, cfg.DB.Port)
	assert.Equal(t, "library", cfg.DB.DBName)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTLOrDefault())
	assert.Equal(t, 30*time.Minute, cfg.Sweeper.SweepInterval())
	assert.Equal(t, "data/uploads", cfg.Upload.Dir)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: [unclosed"), 0o644))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestDurationDefaults(t *testing.T) {
	assert.Equal(t, 24*time.Hour, AuthConfig{}.TokenTTLOrDefault())
	assert.Equal(t, 24*time.Hour, AuthConfig{TokenTTL: "nope"}.TokenTTLOrDefault())
	assert.Equal(t, 24*time.Hour, AuthConfig{TokenTTL: "-5m"}.TokenTTLOrDefault())

	assert.Equal(t, time.Hour, SweeperConfig{}.SweepInterval())
	assert.Equal(t, 2*time.Hour, SweeperConfig{Interval: "2h"}.SweepInterval())
}
