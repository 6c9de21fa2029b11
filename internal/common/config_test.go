package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://finnhub.io/api/v1", cfg.Clients.Finnhub.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Ledger.GetLockWait())
	assert.Equal(t, 3, cfg.Ledger.MaxRetries)
	assert.Equal(t, time.Minute, cfg.Clients.Finnhub.GetQuoteTTL())
	assert.Equal(t, 24*time.Hour, cfg.Auth.GetTokenExpiry())
	assert.True(t, cfg.Scheduler.Enabled)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fintrack.toml")
	content := `
environment = "production"

[server]
port = 9090

[ledger]
lock_wait = "500ms"
max_retries = 5

[clients.finnhub]
api_key = "file-key"
quote_ttl = "30s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.Ledger.GetLockWait())
	assert.Equal(t, 5, cfg.Ledger.MaxRetries)
	assert.Equal(t, "file-key", cfg.Clients.Finnhub.APIKey)
	assert.Equal(t, 30*time.Second, cfg.Clients.Finnhub.GetQuoteTTL())
	// Untouched sections keep defaults
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("FINTRACK_ENV", "production")
	t.Setenv("FINTRACK_PORT", "7070")
	t.Setenv("FINNHUB_API_KEY", "env-key")
	t.Setenv("FINTRACK_JWT_SECRET", "env-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "env-key", cfg.Clients.Finnhub.APIKey)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
}

func TestDurationFallbacks(t *testing.T) {
	ledger := LedgerConfig{LockWait: "not-a-duration"}
	assert.Equal(t, 2*time.Second, ledger.GetLockWait())

	finnhub := FinnhubConfig{Timeout: "", QuoteTTL: ""}
	assert.Equal(t, 30*time.Second, finnhub.GetTimeout())
	assert.Equal(t, time.Minute, finnhub.GetQuoteTTL())

	auth := AuthConfig{TokenExpiry: "bogus"}
	assert.Equal(t, 24*time.Hour, auth.GetTokenExpiry())
}
