package ingest

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/bourseiq/internal/events"
)

func closedMarket() *MarketTimingChecker {
	return NewMarketTimingCheckerWithClock(func() time.Time {
		return time.Date(2026, 7, 30, 23, 0, 0, 0, tehranLocation) // Thursday: closed
	})
}

func openMarket() *MarketTimingChecker {
	return NewMarketTimingCheckerWithClock(func() time.Time {
		return time.Date(2026, 7, 29, 9, 30, 0, 0, tehranLocation) // Wednesday mid-session
	})
}

func newTestProcessor(registry *Registry, market *MarketTimingChecker) *Processor {
	return NewProcessor(registry, market, NewCache(), events.NewManager(zerolog.Nop()), zerolog.Nop())
}

func TestNewProcessor(t *testing.T) {
	p := newTestProcessor(NewRegistry(), closedMarket())
	require.NotNil(t, p)
}

func TestProcessor_Trigger(t *testing.T) {
	registry := NewRegistry()
	executed := atomic.Bool{}
	registry.Register(&WorkType{
		ID:       "test:work",
		Priority: PriorityMedium,
		FindSubjects: func() []string {
			return []string{""}
		},
		Execute: func(ctx context.Context, subject string) error {
			executed.Store(true)
			return nil
		},
	})

	p := newTestProcessor(registry, closedMarket())
	go p.Run()
	defer p.Stop()

	p.Trigger()
	time.Sleep(100 * time.Millisecond)

	assert.True(t, executed.Load())
}

func TestProcessor_DependencyOrdering(t *testing.T) {
	registry := NewRegistry()
	var executionOrder []string
	var mu sync.Mutex
	executed := make(map[string]bool)

	register := func(id string, deps []string) {
		registry.Register(&WorkType{
			ID:        id,
			DependsOn: deps,
			Priority:  PriorityCritical,
			FindSubjects: func() []string {
				mu.Lock()
				defer mu.Unlock()
				if executed[id] {
					return nil
				}
				return []string{""}
			},
			Execute: func(ctx context.Context, subject string) error {
				mu.Lock()
				executionOrder = append(executionOrder, id)
				executed[id] = true
				mu.Unlock()
				return nil
			},
		})
	}
	register("stage:weights", nil)
	register("stage:context", []string{"stage:weights"})
	register("stage:plan", []string{"stage:context"})

	p := newTestProcessor(registry, closedMarket())
	go p.Run()
	defer p.Stop()

	p.Trigger()
	time.Sleep(500 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, executionOrder, 3)
	assert.Equal(t, []string{"stage:weights", "stage:context", "stage:plan"}, executionOrder)
}

func TestProcessor_PerSymbolDependencies(t *testing.T) {
	registry := NewRegistry()
	var executionOrder []string
	var mu sync.Mutex
	executed := make(map[string]bool)

	registry.Register(&WorkType{
		ID:           "document:refresh",
		Priority:     PriorityMedium,
		MarketTiming: AfterMarketClose,
		FindSubjects: func() []string {
			mu.Lock()
			defer mu.Unlock()
			if executed["document:refresh:فملی"] {
				return nil
			}
			return []string{"فملی"}
		},
		Execute: func(ctx context.Context, subject string) error {
			mu.Lock()
			executionOrder = append(executionOrder, "document:refresh:"+subject)
			executed["document:refresh:"+subject] = true
			mu.Unlock()
			return nil
		},
	})

	registry.Register(&WorkType{
		ID:           "document:technical",
		DependsOn:    []string{"document:refresh"},
		Priority:     PriorityMedium,
		MarketTiming: AfterMarketClose,
		FindSubjects: func() []string {
			mu.Lock()
			defer mu.Unlock()
			if executed["document:technical:فملی"] {
				return nil
			}
			return []string{"فملی"}
		},
		Execute: func(ctx context.Context, subject string) error {
			mu.Lock()
			executionOrder = append(executionOrder, "document:technical:"+subject)
			executed["document:technical:"+subject] = true
			mu.Unlock()
			return nil
		},
	})

	p := newTestProcessor(registry, closedMarket())
	go p.Run()
	defer p.Stop()

	p.Trigger()
	time.Sleep(500 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, executionOrder, 2)
	assert.Equal(t, "document:refresh:فملی", executionOrder[0])
	assert.Equal(t, "document:technical:فملی", executionOrder[1])
}

func TestProcessor_MarketTimingRespected(t *testing.T) {
	registry := NewRegistry()
	executed := atomic.Bool{}
	registry.Register(&WorkType{
		ID:           "document:refresh",
		Priority:     PriorityMedium,
		MarketTiming: AfterMarketClose,
		FindSubjects: func() []string {
			return []string{"فملی"}
		},
		Execute: func(ctx context.Context, subject string) error {
			executed.Store(true)
			return nil
		},
	})

	p := newTestProcessor(registry, openMarket())
	go p.Run()
	defer p.Stop()

	p.Trigger()
	time.Sleep(100 * time.Millisecond)

	assert.False(t, executed.Load())
}

func TestProcessor_RetryOnFailure(t *testing.T) {
	registry := NewRegistry()
	attempts := atomic.Int32{}
	registry.Register(&WorkType{
		ID:       "test:failing",
		Priority: PriorityMedium,
		FindSubjects: func() []string {
			if attempts.Load() < 2 {
				return []string{""}
			}
			return nil
		},
		Execute: func(ctx context.Context, subject string) error {
			count := attempts.Add(1)
			if count < 2 {
				return assert.AnError
			}
			return nil
		},
	})

	p := newTestProcessor(registry, closedMarket())
	go p.Run()
	defer p.Stop()

	p.Trigger()
	time.Sleep(500 * time.Millisecond)

	assert.GreaterOrEqual(t, attempts.Load(), int32(2))
}

func TestProcessor_MaxRetries(t *testing.T) {
	registry := NewRegistry()
	attempts := atomic.Int32{}
	firstRun := atomic.Bool{}
	firstRun.Store(true)

	registry.Register(&WorkType{
		ID:       "test:always-fails",
		Priority: PriorityMedium,
		FindSubjects: func() []string {
			if firstRun.CompareAndSwap(true, false) {
				return []string{""}
			}
			return nil
		},
		Execute: func(ctx context.Context, subject string) error {
			attempts.Add(1)
			return assert.AnError
		},
	})

	p := newTestProcessor(registry, closedMarket())
	go p.Run()
	defer p.Stop()

	p.Trigger()
	time.Sleep(500 * time.Millisecond)

	assert.LessOrEqual(t, attempts.Load(), int32(MaxRetries+1))
}

func TestProcessor_Timeout(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping timeout test in short mode")
	}

	registry := NewRegistry()
	started := atomic.Bool{}
	cancelled := atomic.Bool{}

	registry.Register(&WorkType{
		ID:       "test:slow",
		Priority: PriorityMedium,
		FindSubjects: func() []string {
			if !started.Load() {
				return []string{""}
			}
			return nil
		},
		Execute: func(ctx context.Context, subject string) error {
			started.Store(true)
			<-ctx.Done()
			cancelled.Store(true)
			return ctx.Err()
		},
	})

	p := NewProcessorWithTimeout(registry, closedMarket(), NewCache(), events.NewManager(zerolog.Nop()), zerolog.Nop(), 100*time.Millisecond)
	go p.Run()
	defer p.Stop()

	p.Trigger()
	time.Sleep(300 * time.Millisecond)

	assert.True(t, started.Load())
	assert.True(t, cancelled.Load())
}

func TestProcessor_ExecuteNow(t *testing.T) {
	registry := NewRegistry()
	executed := atomic.Bool{}
	var executedSubject string
	var mu sync.Mutex

	registry.Register(&WorkType{
		ID:           "symbol:refresh",
		Priority:     PriorityHigh,
		MarketTiming: DuringMarketOpen,
		FindSubjects: func() []string { return nil },
		Execute: func(ctx context.Context, subject string) error {
			executed.Store(true)
			mu.Lock()
			executedSubject = subject
			mu.Unlock()
			return nil
		},
	})

	p := newTestProcessor(registry, openMarket())
	go p.Run()
	defer p.Stop()

	err := p.ExecuteNow("symbol:refresh", "")
	require.NoError(t, err)
	assert.True(t, executed.Load())

	mu.Lock()
	assert.Equal(t, "", executedSubject)
	mu.Unlock()
}

func TestProcessor_ExecuteNow_UnknownWorkType(t *testing.T) {
	p := newTestProcessor(NewRegistry(), closedMarket())
	err := p.ExecuteNow("unknown:work", "")
	assert.Error(t, err)
}

func TestProcessor_ExecuteNow_WithSubject(t *testing.T) {
	registry := NewRegistry()
	var executedSubject string
	var mu sync.Mutex

	registry.Register(&WorkType{
		ID:           "document:refresh",
		Priority:     PriorityMedium,
		MarketTiming: AfterMarketClose,
		FindSubjects: func() []string { return nil },
		Execute: func(ctx context.Context, subject string) error {
			mu.Lock()
			executedSubject = subject
			mu.Unlock()
			return nil
		},
	})

	p := newTestProcessor(registry, closedMarket())
	go p.Run()
	defer p.Stop()

	err := p.ExecuteNow("document:refresh", "فملی")
	require.NoError(t, err)

	mu.Lock()
	assert.Equal(t, "فملی", executedSubject)
	mu.Unlock()
}

func TestProcessor_Stop(t *testing.T) {
	p := newTestProcessor(NewRegistry(), closedMarket())
	go p.Run()

	done := make(chan bool)
	go func() {
		p.Stop()
		done <- true
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop() blocked")
	}
}

func TestProcessor_NoDuplicateExecution(t *testing.T) {
	registry := NewRegistry()
	execCount := atomic.Int32{}

	registry.Register(&WorkType{
		ID:       "test:work",
		Priority: PriorityMedium,
		FindSubjects: func() []string {
			if execCount.Load() == 0 {
				return []string{""}
			}
			return nil
		},
		Execute: func(ctx context.Context, subject string) error {
			execCount.Add(1)
			time.Sleep(50 * time.Millisecond)
			return nil
		},
	})

	p := newTestProcessor(registry, closedMarket())
	go p.Run()
	defer p.Stop()

	for i := 0; i < 10; i++ {
		p.Trigger()
	}
	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, int32(1), execCount.Load())
}
