package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigContent = `
[development]
host = "localhost"
port = 8080
log_level = "trace"
logs_path = ""
log_to_stdout = true
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "velora_dev"
redis_host = "localhost"
redis_port = "6379"
prometheus_metrics_host = "localhost"
prometheus_metrics_port = "2112"
allowed_origins = ["http://localhost:3000", "http://localhost:5173"]
login_rate_limit_allowed_per_min = 10
listing_cache_ttl_seconds = 30
sentry_enabled = false
tracing_enabled = false

[production]
host = ""
port = 9000
log_level = "debug"
logs_path = "/var/log/velora/service.log"
log_to_stdout = false
postgres_host = "velora-db"
postgres_port = "5432"
postgres_db_name = "velora"
redis_host = "velora-redis"
redis_port = "6379"
prometheus_metrics_host = ""
prometheus_metrics_port = "2112"
allowed_origins = ["https://www.velora.shop", "https://admin.velora.shop"]
login_rate_limit_allowed_per_min = 5
listing_cache_ttl_seconds = 120
sentry_enabled = true
tracing_enabled = true
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigContent), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeTestConfig(t)

	cfg, err := Load("development", path)
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "velora_dev", cfg.PostgresDBName)
	assert.Equal(t, 10, cfg.LoginRateLimitAllowedPerMin)
	assert.Len(t, cfg.AllowedOrigins, 2)

	cfg, err = Load("prod", path)
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 9000, cfg.Port)
	assert.True(t, cfg.SentryEnabled)

	_, err = Load("staging", path)
	require.Error(t, err)

	_, err = Load("dev", filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestLoadSecrets(t *testing.T) {
	t.Setenv("VELORA_ADMIN_EMAIL", "a@aa.co")
	t.Setenv("VELORA_ADMIN_PASSWORD", "123412")
	t.Setenv("VELORA_TOKEN_SECRET", "sssh-very-secret")

	secrets, err := LoadSecrets(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "a@aa.co", secrets.AdminEmail)
	assert.Equal(t, "123412", secrets.AdminPassword)
	assert.Equal(t, "sssh-very-secret", secrets.TokenSecret)
	// 30 days unless overridden
	assert.Equal(t, 720*time.Hour, secrets.TokenTTL)

	t.Setenv("VELORA_TOKEN_TTL", "48h")
	secrets, err = LoadSecrets(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 48*time.Hour, secrets.TokenTTL)
}
