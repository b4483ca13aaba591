package store

import (
	"context"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/aita-go-api/internal/config"
	"github.com/noah-isme/aita-go-api/internal/database"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	boltDB, err := database.OpenBolt(filepath.Join(t.TempDir(), "state.db"), "default")
	require.NoError(t, err)

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)
	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "state.sqlite")), &gorm.Config{})
	require.NoError(t, err)
	sqlStore, err := NewSQLStore(context.Background(), db, "default")
	require.NoError(t, err)

	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"bolt":   NewBoltStore(boltDB, "default"),
		"redis":  NewRedisStore(redisClient, "default"),
		"sql":    sqlStore,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func TestStoreBackendsRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, KeyTheme)
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, KeyTheme, []byte(`"dark"`)))
			value, err := s.Get(ctx, KeyTheme)
			require.NoError(t, err)
			require.JSONEq(t, `"dark"`, string(value))

			require.NoError(t, s.Set(ctx, KeyTheme, []byte(`"light"`)))
			value, err = s.Get(ctx, KeyTheme)
			require.NoError(t, err)
			require.JSONEq(t, `"light"`, string(value))

			require.NoError(t, s.Remove(ctx, KeyTheme))
			_, err = s.Get(ctx, KeyTheme)
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Remove(ctx, "missing"))
		})
	}
}

func TestRedisStoreNamespacesKeysByProfile(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	s := NewRedisStore(client, "room-12")
	require.NoError(t, s.Set(context.Background(), KeyDraft, []byte(`"draft"`)))

	raw, err := server.Get("aita:room-12:" + KeyDraft)
	require.NoError(t, err)
	require.Equal(t, `"draft"`, raw)
}

func TestOpenMemoryAndBolt(t *testing.T) {
	ctx := context.Background()

	mem, err := Open(ctx, config.ClientConfig{StoreDriver: config.StoreDriverMemory})
	require.NoError(t, err)
	require.IsType(t, &MemoryStore{}, mem)

	bolt, err := Open(ctx, config.ClientConfig{
		StoreDriver: config.StoreDriverBolt,
		StorePath:   filepath.Join(t.TempDir(), "state.db"),
		Profile:     "default",
	})
	require.NoError(t, err)
	require.IsType(t, &BoltStore{}, bolt)
	require.NoError(t, bolt.Close())

	_, err = Open(ctx, config.ClientConfig{StoreDriver: "floppy"})
	require.Error(t, err)
}
