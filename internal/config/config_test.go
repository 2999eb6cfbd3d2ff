// AngelaMos | 2026
// config_test.go

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/invoices")

	c, err := load("")
	require.NoError(t, err)

	assert.Equal(t, "auth-token", c.Session.CookieName)
	assert.Equal(t, "user-", c.Session.Prefix)
	assert.Equal(t, 7*24*time.Hour, c.Session.MaxAge)
	assert.Equal(t, 5, c.LoginLimit.Attempts)
	assert.Equal(t, time.Minute, c.LoginLimit.Window)
	assert.Equal(t, "/login", c.Gate.LoginPath)
	assert.Equal(t, "/dashboard", c.Gate.LandingPath)
	assert.Contains(t, c.Gate.APIPrefixes, "/api/invoices")
	assert.Equal(t, 5*time.Second, c.Database.QueryTimeout)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  environment: staging
login_limit:
  attempts: 3
server:
  port: 9000
`), 0o600))

	t.Setenv("DATABASE_URL", "postgres://localhost/invoices")
	t.Setenv("PORT", "9100")

	c, err := load(path)
	require.NoError(t, err)

	assert.Equal(t, "staging", c.App.Environment)
	assert.Equal(t, 3, c.LoginLimit.Attempts)
	assert.Equal(t, 9100, c.Server.Port, "env overrides file")
}

func TestValidate(t *testing.T) {
	t.Run("missing database url", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		_, err := load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DATABASE_URL")
	})

	t.Run("short signing key", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/invoices")
		t.Setenv("SESSION_SIGNING_KEY", "too-short")
		_, err := load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SESSION_SIGNING_KEY")
	})

	t.Run("wildcard origin with credentials", func(t *testing.T) {
		c := &Config{
			Database:   DatabaseConfig{URL: "postgres://x"},
			Session:    SessionConfig{CookieName: "a", Prefix: "user-", MaxAge: time.Hour},
			LoginLimit: LoginLimitConfig{Attempts: 5, Window: time.Minute},
			Gate:       GateConfig{LoginPath: "/login", LandingPath: "/dashboard"},
			CORS:       CORSConfig{AllowedOrigins: []string{"*"}, AllowCredentials: true},
			Server:     ServerConfig{ReadTimeout: time.Second, WriteTimeout: time.Second},
		}
		assert.Error(t, validate(c))

		c.CORS.AllowCredentials = false
		assert.NoError(t, validate(c))
	})
}
