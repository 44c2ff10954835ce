// Package dbtest connects integration tests to a disposable PostgreSQL
// database described by DB_*_TEST environment variables.
package dbtest

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"

	"github.com/vasiliy-maslov/ecommerce-storefront/internal/config"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/db"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Enabled reports whether a test database has been configured.
func Enabled() bool {
	return os.Getenv("DB_HOST_TEST") != ""
}

func migrationsPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "migrations")
}

func Config() config.PostgresConfig {
	return config.PostgresConfig{
		Host:           getenv("DB_HOST_TEST", "localhost"),
		Port:           getenv("DB_PORT_TEST", "5432"),
		User:           getenv("DB_USER_TEST", "postgres"),
		Password:       getenv("DB_PASSWORD_TEST", "postgres"),
		DBName:         getenv("DB_NAME_TEST", "storefront_test"),
		SSLMode:        getenv("DB_SSLMODE_TEST", "disable"),
		MaxConns:       5,
		MigrationsPath: migrationsPath(),
	}
}

// Run is meant to be called from TestMain. It opens the pool, applies
// migrations, runs the tests and closes the pool. Without DB_HOST_TEST
// the tests still run and integration tests skip themselves via Pool.
func Run(m *testing.M, pool **pgxpool.Pool) int {
	if !Enabled() {
		return m.Run()
	}

	cfg := Config()
	if err := db.ApplyMigrations(cfg); err != nil {
		log.Fatal().Err(err).Str("host", cfg.Host).Str("dbname", cfg.DBName).Msg("Failed to migrate test database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pg, err := db.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("host", cfg.Host).Str("port", cfg.Port).Msg("Failed to connect to test database")
	}
	*pool = pg.Pool
	log.Info().Msg("Test Database connection established.")

	code := m.Run()

	pg.Close()
	return code
}

// Pool skips the calling test when no database is configured.
func Pool(t *testing.T, pool *pgxpool.Pool) *pgxpool.Pool {
	t.Helper()
	if pool == nil {
		t.Skip("DB_HOST_TEST not set; skipping integration test")
	}
	return pool
}

// Truncate empties the given tables and everything referencing them.
func Truncate(tb testing.TB, pool *pgxpool.Pool, tables ...string) {
	tb.Helper()
	_, err := pool.Exec(context.Background(), "TRUNCATE TABLE "+strings.Join(tables, ", ")+" RESTART IDENTITY CASCADE")
	require.NoError(tb, err, "failed to truncate tables")
}
