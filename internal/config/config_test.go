package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

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

func TestLoad_RequiresTokenSecret(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingTokenSecret)
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	configYAML := []byte("security:\n  tokensecret: test-secret\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), configYAML, 0o600))
	chdir(t, dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 30, cfg.Postgres.MaxOpen)
	assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
	assert.Equal(t, 60*time.Second, cfg.Redis.ListCacheTTL)
	assert.Equal(t, "ipss-avatars", cfg.Storage.BucketAvatars)
	assert.Equal(t, "test-secret", cfg.Security.TokenSecret)
	assert.Equal(t, 7*24*time.Hour, cfg.Security.TokenTTL)
	assert.Equal(t, 10, cfg.Security.BcryptCost)
	assert.Equal(t, 90*24*time.Hour, cfg.Audit.Retention)
}

func TestLoad_FileOverrides(t *testing.T) {
	dir := t.TempDir()
	configYAML := []byte(`
environment: production
http:
  port: 9090
security:
  tokensecret: file-secret
  tokenttl: 24h
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), configYAML, 0o600))
	chdir(t, dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "file-secret", cfg.Security.TokenSecret)
	assert.Equal(t, 24*time.Hour, cfg.Security.TokenTTL)
}
