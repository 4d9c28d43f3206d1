package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Behyna/bank-webhooks/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(content), 0o600))
	return dir
}

func TestLoadFrom(t *testing.T) {
	dir := writeConfig(t, `
webhook:
  secret: from-file
  max_body_bytes: 1024
outbox:
  batch_size: 5
database:
  driver: postgres
`)

	cfg, err := config.LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Webhook.Secret)
	assert.Equal(t, 1024, cfg.Webhook.MaxBodyBytes)
	assert.Equal(t, 5*time.Minute, cfg.Webhook.MaxAge)
	assert.Equal(t, 5, cfg.Outbox.BatchSize)
	assert.Equal(t, "transactions.processed", cfg.Outbox.Queue)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 3, cfg.Notifier.MaxRetry)
	assert.Equal(t, ":8080", cfg.API.Port)
}

func TestLoadFrom_EnvOverride(t *testing.T) {
	dir := writeConfig(t, "webhook:\n  secret: from-file\n")
	t.Setenv("WEBHOOK_SECRET", "from-env")
	t.Setenv("RATE_LIMIT_MAX", "7")

	cfg, err := config.LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Webhook.Secret)
	assert.Equal(t, 7, cfg.RateLimit.Max)
}

func TestLoadFrom_MissingSecret(t *testing.T) {
	_, err := config.LoadFrom(t.TempDir())
	assert.ErrorContains(t, err, "webhook.secret")
}
