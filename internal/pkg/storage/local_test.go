package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	var got doc
	assert.ErrorIs(t, s.Get(ctx, "session", &got), ErrNotFound)

	require.NoError(t, s.Put(ctx, "session", doc{Name: "a", Count: 1}))
	require.NoError(t, s.Put(ctx, "session", doc{Name: "b", Count: 2}))
	require.NoError(t, s.Get(ctx, "session", &got))
	assert.Equal(t, doc{Name: "b", Count: 2}, got)

	ok, err := s.Exists(ctx, "session")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Delete(ctx, "session"))
	require.NoError(t, s.Delete(ctx, "session"))
	ok, err = s.Exists(ctx, "session")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, ns := range []string{"", "../escape", "a/b", ".hidden"} {
		assert.Error(t, s.Put(context.Background(), ns, doc{}), "namespace %q", ns)
	}
}
