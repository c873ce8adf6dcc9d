package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/bourseiq/internal/events"
)

// periodicTriggerInterval is the fallback interval for checking time-based
// work eligibility, so interval-based work runs even when nothing Triggers it.
const periodicTriggerInterval = 1 * time.Minute

// queuedWork is one entry in the FIFO work queue.
type queuedWork struct {
	TypeID  string
	Subject string
}

// Processor drains the work queue one item at a time, honoring declared
// dependencies and Tehran Stock Exchange market timing.
type Processor struct {
	registry *Registry
	market   *MarketTimingChecker
	cache    *Cache
	bus      *events.Manager
	log      zerolog.Logger
	timeout  time.Duration

	trigger    chan struct{}
	done       chan struct{}
	stop       chan struct{}
	stopped    chan struct{}
	retryQueue []*WorkItem
	inFlight   map[string]bool

	workQueue   []*queuedWork
	queuedItems map[string]bool

	mu sync.Mutex
}

// NewProcessor creates a work processor with the default per-item timeout.
func NewProcessor(registry *Registry, market *MarketTimingChecker, cache *Cache, bus *events.Manager, log zerolog.Logger) *Processor {
	return NewProcessorWithTimeout(registry, market, cache, bus, log, ItemTimeout)
}

// NewProcessorWithTimeout creates a work processor with a custom per-item
// timeout, primarily for tests.
func NewProcessorWithTimeout(registry *Registry, market *MarketTimingChecker, cache *Cache, bus *events.Manager, log zerolog.Logger, timeout time.Duration) *Processor {
	return &Processor{
		registry:    registry,
		market:      market,
		cache:       cache,
		bus:         bus,
		log:         log.With().Str("component", "ingest").Logger(),
		timeout:     timeout,
		trigger:     make(chan struct{}, 1),
		done:        make(chan struct{}, 1),
		stop:        make(chan struct{}),
		stopped:     make(chan struct{}),
		retryQueue:  make([]*WorkItem, 0),
		inFlight:    make(map[string]bool),
		workQueue:   make([]*queuedWork, 0),
		queuedItems: make(map[string]bool),
	}
}

func makeQueueKey(typeID, subject string) string {
	if subject == "" {
		return typeID
	}
	return typeID + ":" + subject
}

// Run blocks, draining the queue until Stop is called.
func (p *Processor) Run() {
	defer close(p.stopped)

	ticker := time.NewTicker(periodicTriggerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-p.trigger:
			p.populateQueue()
			p.processOne()
		case <-p.done:
			p.processOne()
		case <-ticker.C:
			p.populateQueue()
			p.processOne()
		}
	}
}

// Stop halts the processor and waits for the current item to finish.
func (p *Processor) Stop() {
	close(p.stop)
	<-p.stopped
}

// Trigger wakes the processor to check for newly eligible work. Non-blocking.
func (p *Processor) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// ExecuteNow runs a specific work type immediately, bypassing timing and
// interval checks but not dependency checks. Used by the manual refresh API.
func (p *Processor) ExecuteNow(workTypeID, subject string) error {
	wt := p.registry.Get(workTypeID)
	if wt == nil {
		return fmt.Errorf("unknown work type: %s", workTypeID)
	}
	if !p.dependenciesMet(wt, subject) {
		return fmt.Errorf("dependencies not met for work type %s", workTypeID)
	}
	item := NewWorkItem(wt, subject)
	return p.executeItem(item, wt, true)
}

func (p *Processor) processOne() {
	p.mu.Lock()
	if len(p.inFlight) > 0 {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	item, wt := p.findNextWork()
	if item == nil {
		item, wt = p.popRetryQueue()
	}
	if item == nil {
		return
	}

	p.mu.Lock()
	p.inFlight[item.ID] = true
	p.mu.Unlock()

	go func() {
		defer func() {
			p.mu.Lock()
			delete(p.inFlight, item.ID)
			p.mu.Unlock()

			select {
			case p.done <- struct{}{}:
			default:
			}
		}()

		err := p.executeItem(item, wt, false)
		if err != nil {
			item.Retries++
			if item.Retries < MaxRetries {
				p.pushRetryQueue(item)
			} else {
				p.log.Warn().Str("work", item.ID).Int("retries", item.Retries).Msg("max retries reached, skipping")
			}
		}
	}()
}

// populateQueue scans all work types and enqueues any eligible subjects.
// Dependencies are resolved at execution time, not here.
func (p *Processor) populateQueue() {
	for _, wt := range p.registry.ByPriority() {
		subjects := wt.FindSubjects()
		if subjects == nil {
			continue
		}

		for _, subject := range subjects {
			key := makeQueueKey(wt.ID, subject)

			p.mu.Lock()
			alreadyQueued := p.queuedItems[key]
			p.mu.Unlock()
			if alreadyQueued {
				continue
			}

			if !p.market.CanExecute(wt.MarketTiming, subject) {
				continue
			}

			if wt.Interval > 0 && p.cache != nil {
				if time.Now().Unix() < p.cache.GetExpiresAt(key) {
					continue
				}
			}

			p.mu.Lock()
			if !p.queuedItems[key] {
				p.workQueue = append(p.workQueue, &queuedWork{TypeID: wt.ID, Subject: subject})
				p.queuedItems[key] = true
			}
			p.mu.Unlock()
		}
	}
}

// resolveDependencies makes sure every dependency of wt has either already
// run for subject or gets pushed to the front of the queue ahead of it.
// Returns true if the queue needed reordering (caller should retry wt later).
func (p *Processor) resolveDependencies(wt *WorkType, subject string, visited map[string]bool) bool {
	if len(wt.DependsOn) == 0 || p.cache == nil {
		return false
	}

	needsResolution := false

	for _, depID := range wt.DependsOn {
		depKey := makeQueueKey(depID, subject)
		if p.cache.GetExpiresAt(depKey) != 0 {
			continue
		}

		if visited[depKey] {
			p.log.Warn().Str("work", wt.ID).Str("dependency", depID).Str("subject", subject).
				Msg("circular dependency detected, skipping")
			continue
		}
		visited[depKey] = true

		depWT := p.registry.Get(depID)
		if depWT == nil {
			p.log.Warn().Str("work", wt.ID).Str("dependency", depID).Msg("unknown dependency, skipping")
			continue
		}

		if p.queuedItems[depKey] {
			p.moveToFront(depID, subject)
			needsResolution = true
			continue
		}

		if !p.market.CanExecute(depWT.MarketTiming, subject) {
			needsResolution = true
			continue
		}

		if p.resolveDependencies(depWT, subject, visited) {
			needsResolution = true
		}

		p.workQueue = append([]*queuedWork{{TypeID: depID, Subject: subject}}, p.workQueue...)
		p.queuedItems[depKey] = true
		needsResolution = true
	}

	return needsResolution
}

func (p *Processor) moveToFront(typeID, subject string) {
	for i, qw := range p.workQueue {
		if qw.TypeID == typeID && qw.Subject == subject {
			p.workQueue = append(p.workQueue[:i], p.workQueue[i+1:]...)
			p.workQueue = append([]*queuedWork{{TypeID: typeID, Subject: subject}}, p.workQueue...)
			return
		}
	}
}

// findNextWork pops queue entries until one has all dependencies satisfied.
func (p *Processor) findNextWork() (*WorkItem, *WorkType) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.workQueue) > 0 {
		qw := p.workQueue[0]
		p.workQueue = p.workQueue[1:]

		key := makeQueueKey(qw.TypeID, qw.Subject)
		delete(p.queuedItems, key)

		wt := p.registry.Get(qw.TypeID)
		if wt == nil {
			continue
		}

		visited := make(map[string]bool)
		if p.resolveDependencies(wt, qw.Subject, visited) {
			p.workQueue = append(p.workQueue, qw)
			p.queuedItems[key] = true
			continue
		}

		return NewWorkItem(wt, qw.Subject), wt
	}

	return nil, nil
}

func (p *Processor) dependenciesMet(wt *WorkType, subject string) bool {
	if len(wt.DependsOn) == 0 || p.cache == nil {
		return true
	}
	for _, depID := range wt.DependsOn {
		if p.cache.GetExpiresAt(makeQueueKey(depID, subject)) == 0 {
			return false
		}
	}
	return true
}

func (p *Processor) executeItem(item *WorkItem, wt *WorkType, force bool) error {
	if p.cache != nil && !force {
		if time.Now().Unix() < p.cache.GetExpiresAt(item.ID) {
			return nil
		}
	}

	startTime := time.Now()
	progress := NewProgressReporter(p.bus, item.ID, item.TypeID, item.Subject)
	progress.emitStarted()

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	err := wt.Execute(ctx, item.Subject)
	duration := time.Since(startTime)

	if err != nil {
		progress.emitFailed(err, duration, item.Retries)
		return err
	}

	progress.emitCompleted(duration)
	// Completion is recorded even for on-demand work (Interval 0) so that
	// dependents see it as already run for this subject.
	if p.cache != nil {
		if err := p.cache.Set(item.ID, time.Now().Add(wt.Interval).Unix()); err != nil {
			p.log.Warn().Err(err).Str("work", item.ID).Msg("failed to update cache")
		}
	}
	return nil
}

func (p *Processor) pushRetryQueue(item *WorkItem) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.retryQueue = append(p.retryQueue, item)
}

func (p *Processor) popRetryQueue() (*WorkItem, *WorkType) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.retryQueue) == 0 {
		return nil, nil
	}
	item := p.retryQueue[0]
	p.retryQueue = p.retryQueue[1:]

	wt := p.registry.Get(item.TypeID)
	if wt == nil {
		return nil, nil
	}
	return item, wt
}

// GetRegistry exposes the underlying registry for status reporting.
func (p *Processor) GetRegistry() *Registry {
	return p.registry
}
