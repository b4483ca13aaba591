package database

import (
	"context"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
)

func TestOpenBoltCreatesBuckets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")

	db, err := OpenBolt(path, "aita")
	require.NoError(t, err)
	defer db.Close()

	err = db.View(func(tx *bbolt.Tx) error {
		require.NotNil(t, tx.Bucket([]byte("aita")))
		return nil
	})
	require.NoError(t, err)
}

func TestOpenBoltRejectsEmptyPath(t *testing.T) {
	_, err := OpenBolt("")
	require.Error(t, err)
}

func TestConnectRedis(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client, err := ConnectRedis(context.Background(), "redis://"+server.Addr())
	require.NoError(t, err)
	defer client.Close()

	_, err = ConnectRedis(context.Background(), "")
	require.Error(t, err)
}

func TestConnectSQLite(t *testing.T) {
	db, err := ConnectSQLite(filepath.Join(t.TempDir(), "state.sqlite"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Ping())
	require.NoError(t, sqlDB.Close())
}
