package auth

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	t.Run("empty store", func(t *testing.T) {
		_, err := store.Token()
		assert.ErrorIs(t, err, ErrNoToken)
	})

	t.Run("save and read", func(t *testing.T) {
		require.NoError(t, store.Save("tok-123"))
		token, err := store.Token()
		require.NoError(t, err)
		assert.Equal(t, "tok-123", token)
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, store.Clear())
		_, err := store.Token()
		assert.ErrorIs(t, err, ErrNoToken)
	})
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	t.Run("missing file", func(t *testing.T) {
		_, err := store.Token()
		assert.ErrorIs(t, err, ErrNoToken)
	})

	t.Run("save creates directory and persists", func(t *testing.T) {
		require.NoError(t, store.Save("tok-456"))

		// A second store over the same path sees the token.
		reopened, err := NewFileStore(path)
		require.NoError(t, err)
		token, err := reopened.Token()
		require.NoError(t, err)
		assert.Equal(t, "tok-456", token)
	})

	t.Run("whitespace-only file counts as missing", func(t *testing.T) {
		require.NoError(t, store.Save("  \n"))
		_, err := store.Token()
		assert.ErrorIs(t, err, ErrNoToken)
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		require.NoError(t, store.Clear())
		require.NoError(t, store.Clear())
		_, err := store.Token()
		assert.ErrorIs(t, err, ErrNoToken)
	})
}
