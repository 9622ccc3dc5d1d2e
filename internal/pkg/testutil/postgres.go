package testutil

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/light-bringer/procat-rest/internal/config"
)

// PostgresImage is the container image used by integration tests.
const PostgresImage = "postgres:17-alpine"

// SetupPostgresTest starts a postgres container, applies the migrations and
// returns a pool plus a cleanup function.
func SetupPostgresTest(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()

	ctx := context.Background()

	container, err := postgres.Run(
		ctx,
		PostgresImage,
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	MigratePostgres(t, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err, "failed to create pool")

	cleanup := func() {
		pool.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	}

	return pool, cleanup
}

// MigratePostgres applies migrations/postgres to the database at connStr.
func MigratePostgres(t *testing.T, connStr string) {
	t.Helper()

	sourceURL := "file://" + filepath.Join(RepoRoot(), "migrations", "postgres")
	m, err := migrate.New(sourceURL, config.MigrateURL(connStr))
	require.NoError(t, err, "failed to init migrations")
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "failed to apply migrations")
	}
}

// TruncateProducts empties the products table and resets its identity.
func TruncateProducts(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), "TRUNCATE products RESTART IDENTITY")
	require.NoError(t, err, "failed to truncate products")
}

// RepoRoot returns the module root directory.
func RepoRoot() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..")
}
