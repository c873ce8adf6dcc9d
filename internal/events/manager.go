// Package events is the process-wide event bus: a thin, synchronized
// wrapper around structured logging that also lets subscribers (the
// websocket stream in internal/server) observe what's happening without
// coupling producers to a transport.
package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// EventType names a kind of event flowing through the bus.
type EventType string

const (
	// Ingestion pipeline lifecycle (internal/ingest, internal/orchestrator).
	DocumentRefreshStarted   EventType = "DOCUMENT_REFRESH_STARTED"
	DocumentRefreshCompleted EventType = "DOCUMENT_REFRESH_COMPLETED"
	DocumentRefreshFailed    EventType = "DOCUMENT_REFRESH_FAILED"
	DocumentRefreshSkipped   EventType = "DOCUMENT_REFRESH_SKIPPED"

	// Workflow engine node lifecycle (internal/workflow), streamed verbatim
	// to the UI over the astream surface.
	NodeStarted   EventType = "NODE_STARTED"
	NodeCompleted EventType = "NODE_COMPLETED"
	NodeFailed    EventType = "NODE_FAILED"
	NodeInterrupt EventType = "NODE_INTERRUPT"

	ErrorOccurred EventType = "ERROR_OCCURRED"
)

// Event is one emitted occurrence.
type Event struct {
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
	Module    string                 `json:"module"`
}

// Subscriber receives every event emitted after it subscribes.
type Subscriber chan Event

// Manager emits events: it always logs them, and fans them out to any
// subscribers registered via Subscribe (e.g. a websocket connection).
type Manager struct {
	log zerolog.Logger

	mu   sync.RWMutex
	subs map[int]Subscriber
	next int
}

// NewManager builds an event manager bound to the given logger.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{
		log:  log.With().Str("service", "events").Logger(),
		subs: make(map[int]Subscriber),
	}
}

// Subscribe registers a channel that receives a copy of every subsequent
// event. The returned function unsubscribes and closes the channel.
func (m *Manager) Subscribe(buffer int) (Subscriber, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(Subscriber, buffer)
	id := m.next
	m.next++
	m.subs[id] = ch

	return ch, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(ch)
		}
	}
}

// Emit records and fans out an event. Slow or full subscribers are
// dropped from delivery for this event rather than blocking the emitter.
func (m *Manager) Emit(eventType EventType, module string, data map[string]interface{}) {
	event := Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
		Module:    module,
	}

	eventJSON, _ := json.Marshal(event)
	m.log.Info().
		Str("event_type", string(eventType)).
		Str("module", module).
		RawJSON("event", eventJSON).
		Msg("event emitted")

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, sub := range m.subs {
		select {
		case sub <- event:
		default:
		}
	}
}

// EmitError emits an ErrorOccurred event carrying the error text and
// optional context.
func (m *Manager) EmitError(module string, err error, context map[string]interface{}) {
	data := map[string]interface{}{
		"error":   err.Error(),
		"context": context,
	}
	m.Emit(ErrorOccurred, module, data)
}
