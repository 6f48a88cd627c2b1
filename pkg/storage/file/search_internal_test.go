package file

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nitin-100/rustedclaw-sub001/pkg/storage"
)

func TestSearchDoesNotPersistTouchOfOverwrittenEntry(t *testing.T) {
	ctx := context.Background()
	old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "memories.jsonl")

	c, err := NewClient(&Config{Path: path})
	require.NoError(t, err)
	_, err = c.Store(ctx, &storage.Entry{ID: "x", Content: "rust", CreatedAt: old, LastAccessed: old})
	require.NoError(t, err)

	overwritten := false
	c.now = func() time.Time {
		if !overwritten {
			overwritten = true
			_, err := c.Store(ctx, &storage.Entry{ID: "x", Content: "replaced, no match", CreatedAt: old, LastAccessed: old})
			require.NoError(t, err)
		}
		return now
	}

	q := storage.NewQuery("rust")
	q.Mode = storage.ModeKeyword
	results, err := c.Search(ctx, q)
	require.NoError(t, err)
	require.True(t, overwritten)
	require.Len(t, results, 1)

	// The next mutation flushes whatever LastAccessed the set holds.
	_, err = c.Store(ctx, &storage.Entry{ID: "y", Content: "flush trigger"})
	require.NoError(t, err)

	reopened, err := NewClient(&Config{Path: path})
	require.NoError(t, err)
	got, err := reopened.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "replaced, no match", got.Content)
	assert.True(t, old.Equal(got.LastAccessed), "replacement LastAccessed = %v", got.LastAccessed)
}
