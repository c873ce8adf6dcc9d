package store

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/bourseiq/internal/workflow"
)

func newTestCheckpointer(t *testing.T) *Checkpointer {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })
	return NewCheckpointer(db, zerolog.Nop())
}

func TestCheckpointer_SaveThenLoadRoundTrips(t *testing.T) {
	cp := newTestCheckpointer(t)
	snap := workflow.Snapshot{
		ThreadID:  "thread-1",
		State:     map[string]any{"user_message": "analyze IKCO"},
		Completed: []string{"introduction"},
		Interrupt: &workflow.Interrupt{NodeID: "introduction", Payload: "Which ticker?"},
	}

	require.NoError(t, cp.Save(context.Background(), snap))

	loaded, ok, err := cp.Load(context.Background(), "thread-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "thread-1", loaded.ThreadID)
	assert.Equal(t, []string{"introduction"}, loaded.Completed)
	assert.Equal(t, "analyze IKCO", loaded.State["user_message"])
	assert.Equal(t, "introduction", loaded.Interrupt.NodeID)
}

func TestCheckpointer_LoadMissingThreadReturnsFalse(t *testing.T) {
	cp := newTestCheckpointer(t)
	_, ok, err := cp.Load(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckpointer_SaveOverwritesPriorCheckpointForSameThread(t *testing.T) {
	cp := newTestCheckpointer(t)
	ctx := context.Background()

	require.NoError(t, cp.Save(ctx, workflow.Snapshot{ThreadID: "thread-1", State: map[string]any{"user_message": "first"}}))
	require.NoError(t, cp.Save(ctx, workflow.Snapshot{ThreadID: "thread-1", State: map[string]any{"user_message": "second"}}))

	loaded, ok, err := cp.Load(ctx, "thread-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", loaded.State["user_message"])
}
