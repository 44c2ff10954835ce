package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasiliy-maslov/ecommerce-storefront/internal/config"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory and restores the previous one when the test ends.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_NAME", "storefront")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestNewConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	setRequiredEnv(t)

	cfg, err := config.NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, "disable", cfg.Postgres.SSLMode)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Orders.StrictTransitions)
}

func TestNewConfig_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "config.yaml")
	yamlBody := `
app:
  port: "9090"
postgres:
  host: db.internal
  max_conns: 20
auth:
  jwt_secret: from-yaml
  token_ttl: 24h
orders:
  strict_transitions: true
`
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_NAME", "storefront")
	t.Setenv("APP_PORT", "7070")

	cfg, err := config.NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.App.Port, "env overrides yaml")
	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, int32(20), cfg.Postgres.MaxConns)
	assert.Equal(t, "from-yaml", cfg.Auth.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Orders.StrictTransitions)
}

func TestNewConfig_MissingSecret(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_NAME", "storefront")
	t.Setenv("JWT_SECRET", "")

	_, err := config.NewConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestNewConfig_TokenTTLOverride(t *testing.T) {
	chdir(t, t.TempDir())
	setRequiredEnv(t)
	t.Setenv("JWT_TTL", "12h")

	cfg, err := config.NewConfig()
	require.NoError(t, err)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)

	t.Setenv("JWT_TTL", "-1h")
	_, err = config.NewConfig()
	require.Error(t, err)
}

func TestNewConfig_InvalidDuration(t *testing.T) {
	chdir(t, t.TempDir())
	setRequiredEnv(t)
	t.Setenv("JWT_TTL", "a week")

	_, err := config.NewConfig()
	require.Error(t, err)
}
