package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("GAS_WEB_APP_URL", "")
	t.Setenv("DASHBOARD_RETRY_ATTEMPTS", "")
	t.Setenv("DASHBOARD_RETRY_BACKOFF", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.False(t, cfg.GasConfigured())
	require.Equal(t, 3, cfg.DashboardRetryAttempts)
	require.Equal(t, 1500*time.Millisecond, cfg.DashboardRetryBackoff)
	require.Equal(t, "https://access.line.me/oauth2/v2.1/authorize", cfg.LineAuthorizeURL)
	require.Equal(t, 60*time.Second, cfg.RequestTimeout)
	require.Greater(t, cfg.WriteTimeout, cfg.RequestTimeout)
	require.Equal(t, 4500*time.Millisecond, cfg.DashboardBackoffTotal())
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("GAS_WEB_APP_URL", " https://script.example/exec ")
	t.Setenv("SESSION_TTL", "3600")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.GasConfigured())
	require.Equal(t, "https://script.example/exec", cfg.GasURL)
	require.Equal(t, time.Hour, cfg.SessionTTL)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoadRejectsZeroRetryAttempts(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DASHBOARD_RETRY_ATTEMPTS", "0")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsTimeoutsThatCutOffRetries(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	t.Setenv("HTTP_REQUEST_TIMEOUT", "60s")
	t.Setenv("HTTP_WRITE_TIMEOUT", "60s")
	_, err := Load()
	require.ErrorContains(t, err, "HTTP_WRITE_TIMEOUT")

	t.Setenv("HTTP_WRITE_TIMEOUT", "")
	t.Setenv("HTTP_REQUEST_TIMEOUT", "4s")
	_, err = Load()
	require.ErrorContains(t, err, "does not fit")

	t.Setenv("HTTP_REQUEST_TIMEOUT", "10s")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 10*time.Second, cfg.RequestTimeout)
}
