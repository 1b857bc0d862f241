package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "storefront-service", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 60, cfg.Auth.AccessTokenTTLMinutes)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, "storefront_session", cfg.Session.CookieName)
	assert.Equal(t, "XSRF-TOKEN", cfg.Session.CSRFCookie)
	assert.True(t, cfg.Postgres.RunMigrations)
	assert.False(t, cfg.Postgres.SeedOnStart)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "15")
	t.Setenv("SESSION_TTL_MINUTES", "30")
	t.Setenv("SEED_ON_START", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL())
	assert.True(t, cfg.Postgres.SeedOnStart)
}

func TestDurationFallbacks(t *testing.T) {
	auth := AuthConfig{AccessTokenTTLMinutes: 0}
	assert.Equal(t, time.Hour, auth.AccessTokenTTL())

	session := SessionConfig{TTLMinutes: -5}
	assert.Equal(t, 2*time.Hour, session.TTL())
}

func TestLoadInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	_, err := Load()
	assert.Error(t, err)
}
