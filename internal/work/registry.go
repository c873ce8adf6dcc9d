package work

import "sync"

// Registry holds every registered WorkType, keyed by ID.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*WorkType
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*WorkType)}
}

// Register adds wt to the registry, replacing any existing entry with the
// same ID.
func (r *Registry) Register(wt *WorkType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[wt.ID] = wt
}

// All returns every registered WorkType. Order is unspecified.
func (r *Registry) All() []*WorkType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*WorkType, 0, len(r.types))
	for _, wt := range r.types {
		out = append(out, wt)
	}
	return out
}
