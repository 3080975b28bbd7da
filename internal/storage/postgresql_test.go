package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/botcatalog/internal/migrations"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и накатывает миграции.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "failed to start container")

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err)

	root, err := filepath.Abs("../..")
	require.NoError(t, err)
	_, err = migrations.Run(storage.DB, filepath.Join(root, "migrations"))
	require.NoError(t, err)
	require.NoError(t, storage.CheckDatabaseReady(context.Background()))

	cleanup := func() {
		_ = storage.Close()
		_ = pgContainer.Terminate(ctx)
	}
	return storage, cleanup
}

func TestStorage_PutGetDelete(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()

	_, err := storage.Get(ctx, "user-plan", "plan:alice")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, storage.Put(ctx, "user-plan", "plan:alice", []byte(`{"trial_ended":false}`)))
	require.NoError(t, storage.Put(ctx, "user-plan", "plan:alice", []byte(`{"trial_ended":true}`)))

	got, err := storage.Get(ctx, "user-plan", "plan:alice")
	require.NoError(t, err)
	assert.JSONEq(t, `{"trial_ended":true}`, string(got))

	n, err := storage.Delete(ctx, "user-plan", "plan:alice")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = storage.Delete(ctx, "user-plan", "plan:alice")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestStorage_NamespacesAreIsolated(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, storage.Put(ctx, "user-plan", "k", []byte(`{"a":1}`)))
	_, err := storage.Get(ctx, "telegram-config", "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_ListByPrefix(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, storage.Put(ctx, "flows", "flow:alice:1", []byte(`{"id":"1"}`)))
	require.NoError(t, storage.Put(ctx, "flows", "flow:alice:2", []byte(`{"id":"2"}`)))
	require.NoError(t, storage.Put(ctx, "flows", "flow:alice_x:3", []byte(`{"id":"3"}`)))
	require.NoError(t, storage.Put(ctx, "flows", "flow:bob:4", []byte(`{"id":"4"}`)))

	got, err := storage.List(ctx, "flows", "flow:alice:")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestStorage_CanceledContext(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := storage.Get(ctx, "user-plan", "k")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, storage.Put(ctx, "user-plan", "k", []byte(`{}`)), context.Canceled)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `flow:a\_b\%`, escapeLike("flow:a_b%"))
}
