package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storychat/storychat/internal/chat"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	turns := []chat.Turn{
		{Role: chat.RoleUser, Content: "what is 1/2 + 1/4?", Flagged: true},
		{Role: chat.RoleAssistant, Content: "Think about a common denominator."},
		{Role: chat.RoleUser, Content: "3/4?"},
		{Role: chat.RoleAssistant, Content: "Exactly."},
	}
	for _, turn := range turns {
		require.NoError(t, store.SaveTurn(ctx, 5, turn))
	}
	// A different lesson's turns stay separate.
	require.NoError(t, store.SaveTurn(ctx, 6, chat.Turn{Role: chat.RoleUser, Content: "other lesson"}))

	got, err := store.Recent(ctx, 5, 10)
	require.NoError(t, err)
	assert.Equal(t, turns, got)
}

func TestRecentLimitKeepsLatest(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, content := range []string{"one", "two", "three"} {
		require.NoError(t, store.SaveTurn(ctx, 1, chat.Turn{Role: chat.RoleUser, Content: content}))
	}

	got, err := store.Recent(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "two", got[0].Content)
	assert.Equal(t, "three", got[1].Content)
}

func TestRecentEmptyLesson(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Recent(context.Background(), 99, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
