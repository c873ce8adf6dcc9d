package workflow

import (
	"context"
	"sync"
)

// Snapshot is the persisted execution record for one thread_id: the state
// blackboard at the moment of interruption (or completion) and which nodes
// had already finished.
type Snapshot struct {
	ThreadID  string         `json:"thread_id"`
	State     map[string]any `json:"state"`
	Completed []string       `json:"completed"`
	Interrupt *Interrupt     `json:"interrupt,omitempty"`
}

// Checkpointer persists and retrieves Snapshots keyed by thread_id, letting
// an interrupted run resume later -- potentially in a different process,
// if the implementation is backed by durable storage rather than memory.
type Checkpointer interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context, threadID string) (Snapshot, bool, error)
}

// InMemoryCheckpointer is a process-local Checkpointer, adequate for tests
// and for single-process deployments where restart-survival isn't required.
type InMemoryCheckpointer struct {
	mu    sync.RWMutex
	byID  map[string]Snapshot
}

// NewInMemoryCheckpointer returns an empty checkpoint store.
func NewInMemoryCheckpointer() *InMemoryCheckpointer {
	return &InMemoryCheckpointer{byID: make(map[string]Snapshot)}
}

func (c *InMemoryCheckpointer) Save(_ context.Context, snap Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID[snap.ThreadID] = snap
	return nil
}

func (c *InMemoryCheckpointer) Load(_ context.Context, threadID string) (Snapshot, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap, ok := c.byID[threadID]
	return snap, ok, nil
}
