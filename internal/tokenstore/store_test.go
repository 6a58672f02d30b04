package tokenstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xcel/profile/internal/profileview"
)

func TestStores(t *testing.T) {
	ctx := context.Background()

	stores := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemory() },
		"sqlite": func(t *testing.T) Store {
			s, err := Open(ctx, filepath.Join(t.TempDir(), "nested", "storage.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}

	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			s := open(t)

			v, err := s.GetItem(ctx, profileview.TokenKey)
			require.NoError(t, err)
			assert.Empty(t, v)

			require.NoError(t, s.SetItem(ctx, profileview.TokenKey, "first"))
			require.NoError(t, s.SetItem(ctx, profileview.TokenKey, "second"))
			v, err = s.GetItem(ctx, profileview.TokenKey)
			require.NoError(t, err)
			assert.Equal(t, "second", v)

			require.NoError(t, s.RemoveItem(ctx, profileview.TokenKey))
			v, err = s.GetItem(ctx, profileview.TokenKey)
			require.NoError(t, err)
			assert.Empty(t, v)

			require.NoError(t, s.RemoveItem(ctx, "never-set"))
		})
	}
}

func TestSQLite_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storage.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.SetItem(ctx, "token", "kept"))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	v, err := s.GetItem(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "kept", v)
}
