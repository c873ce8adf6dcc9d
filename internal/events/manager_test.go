package events

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_EmitDeliversToSubscriber(t *testing.T) {
	m := NewManager(zerolog.Nop())
	sub, unsubscribe := m.Subscribe(4)
	defer unsubscribe()

	m.Emit(NodeStarted, "workflow", map[string]interface{}{"node": "trend"})

	select {
	case evt := <-sub:
		assert.Equal(t, NodeStarted, evt.Type)
		assert.Equal(t, "workflow", evt.Module)
		assert.Equal(t, "trend", evt.Data["node"])
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestManager_EmitErrorWrapsError(t *testing.T) {
	m := NewManager(zerolog.Nop())
	sub, unsubscribe := m.Subscribe(4)
	defer unsubscribe()

	m.EmitError("orchestrator", errors.New("boom"), map[string]interface{}{"symbol": "فملی"})

	evt := <-sub
	require.Equal(t, ErrorOccurred, evt.Type)
	assert.Equal(t, "boom", evt.Data["error"])
}

func TestManager_UnsubscribeStopsDelivery(t *testing.T) {
	m := NewManager(zerolog.Nop())
	sub, unsubscribe := m.Subscribe(1)
	unsubscribe()

	m.Emit(NodeCompleted, "workflow", nil)

	_, ok := <-sub
	assert.False(t, ok, "channel should be closed after unsubscribe")
}

func TestManager_SlowSubscriberDoesNotBlock(t *testing.T) {
	m := NewManager(zerolog.Nop())
	sub, unsubscribe := m.Subscribe(1)
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			m.Emit(NodeStarted, "workflow", nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit blocked on a full subscriber channel")
	}
	<-sub
}
