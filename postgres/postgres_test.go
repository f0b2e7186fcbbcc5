package postgres_test

import (
	"context"
	"testing"
	"time"

	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"movieapi/postgres"
)

func TestPoolLifecycle(t *testing.T) {
	t.Run("uninitialized pool rejects use", func(t *testing.T) {
		pool := postgres.NewPool()

		_, err := pool.DB()
		assert.Equal(t, postgres.ErrNotInitialized, err)

		_, err = pool.Acquire(context.Background())
		assert.Equal(t, postgres.ErrNotInitialized, err)
	})

	t.Run("initialize fails loudly on bad target", func(t *testing.T) {
		pool := postgres.NewPool()

		err := pool.Initialize(postgres.Options{
			DBName:   "nonexistent",
			DBUser:   "invaliduser",
			Password: "wrongpass",
			Host:     "invalidhost", // Non-existent host to ensure failure
			Port:     "5432",
		})

		assert.Error(t, err)

		// A failed Initialize leaves the pool unusable.
		_, err = pool.DB()
		assert.Equal(t, postgres.ErrNotInitialized, err)
	})

	t.Run("shutdown of an uninitialized pool is a no-op", func(t *testing.T) {
		pool := postgres.NewPool()
		assert.NoError(t, pool.Shutdown())
	})

	t.Run("initialize is idempotent and shutdown resets", func(t *testing.T) {
		opts := startPostgres(t, "pooltest", "pooltest", "123456")
		pool := postgres.NewPool()

		require.NoError(t, pool.Initialize(opts))
		require.NoError(t, pool.Initialize(opts), "second initialize should be a logged no-op")

		conn, err := pool.Acquire(context.Background())
		require.NoError(t, err)
		assert.NoError(t, conn.PingContext(context.Background()))
		assert.NoError(t, pool.Release(conn))

		require.NoError(t, pool.Shutdown())
		_, err = pool.DB()
		assert.Equal(t, postgres.ErrNotInitialized, err)

		// The pool is reusable after another Initialize.
		require.NoError(t, pool.Initialize(opts))
		db, err := pool.DB()
		require.NoError(t, err)
		assert.NotNil(t, db)
		assert.NoError(t, pool.Shutdown())
	})
}

func TestNewConnection_Error(t *testing.T) {
	// Use invalid options to force a connection failure
	opts := postgres.Options{
		DBName:   "nonexistent",
		DBUser:   "invaliduser",
		Password: "wrongpass",
		Host:     "invalidhost", // Non-existent host to ensure failure
		Port:     "5432",
		SSLMode:  true,
	}

	_, err := postgres.NewConnection(opts)
	assert.Error(t, err) // Assert that an error is returned
}

// startPostgres runs a disposable postgres container and returns
// connection options pointing at it.
func startPostgres(t testing.TB, dbname, user, password string) postgres.Options {
	t.Helper()
	ctx := context.Background()

	cont, err := pgcontainer.RunContainer(ctx,
		testcontainers.WithImage("docker.io/postgres:15.2-alpine"),
		pgcontainer.WithDatabase(dbname),
		pgcontainer.WithUsername(user),
		pgcontainer.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(3*time.Second)),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, cont.Terminate(ctx))
	})

	host, err := cont.Host(ctx)
	require.NoError(t, err)
	port, err := cont.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return postgres.Options{
		DBName:   dbname,
		DBUser:   user,
		Password: password,
		Host:     host,
		Port:     port.Port(),
	}
}

// newTestPool starts a container, initializes a pool against it and runs
// the migrations.
func newTestPool(t testing.TB) *postgres.Pool {
	t.Helper()

	opts := startPostgres(t, "test1", "test1", "123456")
	pool := postgres.NewPool()
	require.NoError(t, pool.Initialize(opts))
	t.Cleanup(func() {
		assert.NoError(t, pool.Shutdown())
	})

	db, err := pool.DB()
	require.NoError(t, err)
	migrateTestDatabase(t, db, "../migrations")

	return pool
}

func migrateTestDatabase(t testing.TB, db *gorm.DB, migrationPath string) {
	t.Helper()

	migrations := &migrate.FileMigrationSource{
		Dir: migrationPath,
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)

	_, err = migrate.Exec(sqlDB, "postgres", migrations, migrate.Up)
	require.NoError(t, err)
}
