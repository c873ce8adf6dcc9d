package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/bourseiq/internal/workflow"
)

// Checkpointer is the sqlite-backed workflow.Checkpointer: a durable,
// restart-surviving alternative to workflow.InMemoryCheckpointer, needed
// because an interrupted analysis thread (waiting on a human to supply a
// ticker symbol) may outlive the process that started it. Snapshots are
// msgpack-encoded rather than JSON -- more compact for the blackboard
// state persisted on every pause. Like JSON, decoding fills the `any`
// values of State with generic maps, slices and scalars: a typed node
// output (e.g. a domain.AgentReport) comes back as a map, not as its
// original type.
type Checkpointer struct {
	db  *DB
	log zerolog.Logger
}

// NewCheckpointer wraps an already-migrated DB as a workflow.Checkpointer.
func NewCheckpointer(db *DB, log zerolog.Logger) *Checkpointer {
	return &Checkpointer{db: db, log: log.With().Str("component", "checkpointer").Logger()}
}

var _ workflow.Checkpointer = (*Checkpointer)(nil)

// Save msgpack-encodes snap and upserts it keyed by ThreadID.
func (c *Checkpointer) Save(ctx context.Context, snap workflow.Snapshot) error {
	payload, err := msgpack.Marshal(snap)
	if err != nil {
		return fmt.Errorf("store: marshal checkpoint: %w", err)
	}

	_, err = c.db.conn.ExecContext(ctx, `
		INSERT INTO workflow_checkpoints (thread_id, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(thread_id) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, snap.ThreadID, payload, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("store: save checkpoint %q: %w", snap.ThreadID, err)
	}
	return nil
}

// Load retrieves and decodes the checkpoint for threadID, if one exists.
func (c *Checkpointer) Load(ctx context.Context, threadID string) (workflow.Snapshot, bool, error) {
	var payload []byte
	err := c.db.conn.QueryRowContext(ctx,
		`SELECT payload FROM workflow_checkpoints WHERE thread_id = ?`, threadID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return workflow.Snapshot{}, false, nil
	}
	if err != nil {
		return workflow.Snapshot{}, false, fmt.Errorf("store: load checkpoint %q: %w", threadID, err)
	}

	var snap workflow.Snapshot
	if err := msgpack.Unmarshal(payload, &snap); err != nil {
		return workflow.Snapshot{}, false, fmt.Errorf("store: unmarshal checkpoint %q: %w", threadID, err)
	}
	return snap, true, nil
}
