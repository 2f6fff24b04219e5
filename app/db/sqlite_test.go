package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getSQLiteKV(t *testing.T) *SQLiteKV {
	conn, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "kv.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	kv, err := NewSQLiteKV(conn)
	require.NoError(t, err)
	return kv
}

func TestSQLiteKV(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		kv := getSQLiteKV(t)
		_, err := kv.Get("key")
		assert.ErrorIs(t, err, ErrNotFound)
	})
	t.Run("upsert", func(t *testing.T) {
		kv := getSQLiteKV(t)
		require.NoError(t, kv.Put("key", []byte("first")))
		require.NoError(t, kv.Put("key", []byte("second")))
		value, err := kv.Get("key")
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), value)

		var count int
		require.NoError(t, kv.db.QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&count))
		assert.Equal(t, 1, count)
	})
	t.Run("schema is idempotent", func(t *testing.T) {
		kv := getSQLiteKV(t)
		require.NoError(t, kv.Put("key", []byte("value")))
		again, err := NewSQLiteKV(kv.db)
		require.NoError(t, err)
		value, err := again.Get("key")
		require.NoError(t, err)
		assert.Equal(t, []byte("value"), value)
	})
}

func TestSQLiteCollectionStore(t *testing.T) {
	store := NewCollectionStore(getSQLiteKV(t))
	c, err := store.Create("JLPT N5")
	require.NoError(t, err)
	_, err = store.AddWord(getEntry("犬-1"), c.ID)
	require.NoError(t, err)
	_, err = store.AddWord(getEntry("犬-1"), c.ID)
	require.NoError(t, err)

	res, err := store.Get(c.ID)
	require.NoError(t, err)
	assert.Len(t, res.Words, 1)
}
