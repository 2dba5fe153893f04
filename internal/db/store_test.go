package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusconnect/internal/config"
	"campusconnect/internal/store"
)

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		s, closeFn, err := OpenStore(ctx, &config.Config{StoreBackend: config.BackendMemory})
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &store.MemoryStore{}, s)
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := &config.Config{StoreBackend: config.BackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "cc.db")}
		s, closeFn, err := OpenStore(ctx, cfg)
		require.NoError(t, err)
		defer closeFn()

		require.NoError(t, s.Set(ctx, "k", []byte("v")))
		got, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)
	})

	t.Run("unknown", func(t *testing.T) {
		_, _, err := OpenStore(ctx, &config.Config{StoreBackend: "etcd"})
		assert.Error(t, err)
	})
}
