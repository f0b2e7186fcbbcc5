// nolint: funlen
package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movieapi/pkg/config"
)

func TestLoadConfig(t *testing.T) {
	t.Run("loads config from environment variables", func(t *testing.T) {
		// Setup environment variables
		envVars := map[string]string{
			"APP_ENV":            "test",
			"PORT":               "8080",
			"SENTRY_DSN":         "https://test@sentry.io/123",
			"ALLOW_ORIGINS":      "*",
			"DB_NAME":            "testdb",
			"DB_HOST":            "localhost",
			"DB_PORT":            "5432",
			"DB_USER":            "testuser",
			"DB_PASS":            "testpass",
			"ENABLE_SSL":         "true",
			"DB_MIN_CONNS":       "3",
			"DB_MAX_CONNS":       "12",
			"AUTH_ENABLED":       "true",
			"AUTH_PROVIDER":      "keycloak",
			"AUTH_API_KEY":       "secret-key",
			"AUTH_CLIENT_ID":     "movie-api-client",
			"AUTH_KEYCLOAK_URL":  "http://localhost:8081",
			"AUTH_KEYCLOAK_REALM": "movie-realm",
		}

		// Set environment variables
		for key, value := range envVars {
			t.Setenv(key, value)
		}

		// Load config
		cfg, err := config.LoadConfig()

		// Assertions
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "test", cfg.AppEnv)
		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, "https://test@sentry.io/123", cfg.SentryDSN)
		assert.Equal(t, "*", cfg.AllowOrigins)
		assert.Equal(t, "testdb", cfg.DB.Name)
		assert.Equal(t, "localhost", cfg.DB.Host)
		assert.Equal(t, 5432, cfg.DB.Port)
		assert.Equal(t, "testuser", cfg.DB.User)
		assert.Equal(t, "testpass", cfg.DB.Pass)
		assert.True(t, cfg.DB.EnableSSL)
		assert.Equal(t, 3, cfg.DB.MinConns)
		assert.Equal(t, 12, cfg.DB.MaxConns)
		assert.True(t, cfg.Auth.Enabled)
		assert.Equal(t, "keycloak", cfg.Auth.Provider)
		assert.Equal(t, "secret-key", cfg.Auth.APIKey)
		assert.Equal(t, "movie-api-client", cfg.Auth.ClientID)
		assert.Equal(t, "http://localhost:8081", cfg.Auth.KeycloakURL)
		assert.Equal(t, "movie-realm", cfg.Auth.KeycloakRealm)
	})

	t.Run("applies pool and auth defaults", func(t *testing.T) {
		cfg, err := config.LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, 2, cfg.DB.MinConns)
		assert.Equal(t, 10, cfg.DB.MaxConns)
		assert.Equal(t, "keycloak", cfg.Auth.Provider)
		assert.True(t, cfg.Auth.Enabled)
	})

	t.Run("handles invalid port number", func(t *testing.T) {
		t.Setenv("PORT", "invalid")

		cfg, err := config.LoadConfig()

		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "load config error")
	})

	t.Run("handles invalid boolean value", func(t *testing.T) {
		t.Setenv("ENABLE_SSL", "not-a-boolean")

		cfg, err := config.LoadConfig()

		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "load config error")
	})

	t.Run("handles invalid DB port", func(t *testing.T) {
		t.Setenv("DB_PORT", "not-a-number")

		cfg, err := config.LoadConfig()

		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "load config error")
	})
}
