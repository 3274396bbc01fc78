package store

import (
	"context"
	"net"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HammerMeetNail/chatcore/internal/config"
	"github.com/HammerMeetNail/chatcore/internal/database"
)

// These tests run against real servers when the matching environment
// variable is set and are skipped otherwise.

func exerciseBackend(t *testing.T, backend Backend) {
	t.Helper()
	ctx := context.Background()
	s := New(backend)
	coll := NewCollection[record](s, KindUsers)

	require.NoError(t, coll.SaveAll(ctx, nil))
	require.NoError(t, coll.Update(ctx, func(records []record) ([]record, error) {
		return append(records, record{ID: "u1", Name: "alice"}), nil
	}))
	require.NoError(t, coll.Update(ctx, func(records []record) ([]record, error) {
		return records, ErrNoChange
	}))

	got, err := coll.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []record{{ID: "u1", Name: "alice"}}, got)
}

func TestPostgresBackend_Integration(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	m, err := database.NewEmbeddedMigrator(dsn, database.PostgresMigrations)
	require.NoError(t, err)
	require.NoError(t, m.Up())
	require.NoError(t, m.Close())

	db, err := database.NewPostgresDB(dsn)
	require.NoError(t, err)
	defer db.Close()

	exerciseBackend(t, NewPostgresBackend(db.Pool))
}

func TestRedisBackend_Integration(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	db, err := database.NewRedisDB(config.RedisConfig{Host: host, Port: port})
	require.NoError(t, err)
	defer db.Close()

	backend := NewRedisBackend(db.Client, "chatcore-test:")
	t.Cleanup(func() { db.Client.Del(context.Background(), backend.key(KindUsers)) })
	exerciseBackend(t, backend)
}

func TestMongoBackend_Integration(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	db, err := database.NewMongoDB(uri, "chatcore_test")
	require.NoError(t, err)
	defer db.Close(context.Background())
	t.Cleanup(func() { _ = db.Database.Drop(context.Background()) })

	exerciseBackend(t, NewMongoBackend(db.Database))
}
