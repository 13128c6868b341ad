package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStore_RecordAndList verifies entries come back newest first.
func TestStore_RecordAndList(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "db", "history.db"))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	base := time.UnixMilli(1_700_000_000_000)
	require.NoError(t, s.Record(ctx, Entry{
		RunID: "a", Kind: KindProfile, Name: "farm",
		StartedAt: base, EndedAt: base.Add(2 * time.Second), Executed: 12, Loops: 3,
	}))
	require.NoError(t, s.Record(ctx, Entry{
		RunID: "b", Kind: KindWorkspace, Name: "daily",
		StartedAt: base.Add(time.Minute), EndedAt: base.Add(2 * time.Minute), Cancelled: true, Skipped: 1,
	}))

	got, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].RunID)
	assert.Equal(t, KindWorkspace, got[0].Kind)
	assert.True(t, got[0].Cancelled)
	assert.Equal(t, 1, got[0].Skipped)
	assert.Equal(t, "a", got[1].RunID)
	assert.Equal(t, 12, got[1].Executed)
	assert.Equal(t, 2*time.Second, got[1].Duration())
	assert.True(t, got[1].StartedAt.Equal(base))

	limited, err := s.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

// TestStore_RecordRequiresID verifies anonymous entries are rejected.
func TestStore_RecordRequiresID(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()
	require.Error(t, s.Record(context.Background(), Entry{Name: "x"}))
}

// TestStore_ReplaceSameRun verifies a rewrite keeps one row.
func TestStore_ReplaceSameRun(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, s.Record(ctx, Entry{RunID: "r", Kind: KindPlayback, Name: "rec", StartedAt: now, EndedAt: now}))
	require.NoError(t, s.Record(ctx, Entry{RunID: "r", Kind: KindPlayback, Name: "rec", StartedAt: now, EndedAt: now, Executed: 9}))
	got, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 9, got[0].Executed)
}
