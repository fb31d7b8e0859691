package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(newViper(map[string]any{"BACKEND_BASE_URL": "https://api.example.com/api/"}))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 7090, cfg.HTTP.Port)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, SessionStoreMemory, cfg.Session.Store)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL)
	assert.Equal(t, []string{"ADMIN", "MANAGER"}, cfg.Session.ElevatedRoles)
	assert.Equal(t, 5, cfg.Backend.BreakerFailures)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := load(newViper(map[string]any{
		"APP_ENV":              "Production",
		"BACKEND_BASE_URL":     "http://backend:8000/api/",
		"CORS_ALLOWED_ORIGINS": "https://admin.example.com, https://ops.example.com,",
		"SESSION_STORE":        "postgres",
		"DB_DSN":               "postgres://u:p@db/ops",
		"SESSION_TTL":          "2h",
		"SHOP_NAME":            "Ferretería Sol",
	}))
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, []string{"https://admin.example.com", "https://ops.example.com"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, SessionStorePostgres, cfg.Session.Store)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "Ferretería Sol", cfg.Shop.Name)
}

func TestValidate(t *testing.T) {
	_, err := load(newViper(nil))
	assert.ErrorContains(t, err, "BACKEND_BASE_URL is required")

	_, err = load(newViper(map[string]any{"BACKEND_BASE_URL": "/api"}))
	assert.ErrorContains(t, err, "absolute URL")

	_, err = load(newViper(map[string]any{"BACKEND_BASE_URL": "http://b/api/", "SESSION_STORE": "postgres"}))
	assert.ErrorContains(t, err, "DB_DSN is required")

	_, err = load(newViper(map[string]any{"BACKEND_BASE_URL": "http://b/api/", "SESSION_STORE": "redis"}))
	assert.ErrorContains(t, err, "SESSION_STORE")
}
