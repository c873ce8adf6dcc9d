// Package ingest is the background work scheduler for the data-ingestion
// side of the pipeline: periodic, dependency-ordered sweeps that keep the
// document store fresh, independent of the per-request analysis workflow in
// package workflow. A WorkType registers how to discover subjects (symbols)
// needing work and how to run that work; the Processor drains a queue of
// WorkItems, honoring dependencies and Tehran Stock Exchange market timing.
package ingest

import (
	"context"
	"strings"
	"time"
)

// ItemTimeout is the maximum duration a work item can run before cancellation.
const ItemTimeout = 2 * time.Minute

// MaxRetries is the maximum number of times a failed work item is retried.
const MaxRetries = 3

// MarketTiming gates a work type to the Tehran Stock Exchange session clock.
type MarketTiming int

const (
	// AnyTime means the work may run regardless of market state.
	AnyTime MarketTiming = iota
	// AfterMarketClose restricts the work to when the exchange is closed.
	AfterMarketClose
	// DuringMarketOpen restricts the work to the live trading session.
	DuringMarketOpen
)

// String returns a human-readable name for the market timing.
func (mt MarketTiming) String() string {
	switch mt {
	case AnyTime:
		return "AnyTime"
	case AfterMarketClose:
		return "AfterMarketClose"
	case DuringMarketOpen:
		return "DuringMarketOpen"
	default:
		return "Unknown"
	}
}

// Priority determines execution order among eligible work items.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

// String returns a human-readable name for the priority.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	case PriorityCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// WorkType describes one kind of ingestion work. It is registered once and
// generates a WorkItem per subject (symbol) that needs it.
type WorkType struct {
	// ID is the unique identifier for this work type, e.g. "document:refresh".
	ID string

	// DependsOn lists work type IDs that must complete first, scoped to the
	// same subject.
	DependsOn []string

	// MarketTiming gates when this work type is eligible to run.
	MarketTiming MarketTiming

	// Interval is the minimum time between runs for the same subject
	// (0 = on-demand only).
	Interval time.Duration

	Priority Priority

	// FindSubjects returns the symbols currently needing this work.
	// A global (non-symbol) work type returns []string{""}.
	FindSubjects func() []string

	// Execute performs the work for one subject (empty string for global work).
	Execute func(ctx context.Context, subject string) error
}

// WorkItem is one concrete unit of queued work.
type WorkItem struct {
	ID        string
	TypeID    string
	Subject   string
	Retries   int
	CreatedAt time.Time
}

// NewWorkItem builds a WorkItem for the given type and subject.
func NewWorkItem(workType *WorkType, subject string) *WorkItem {
	id := workType.ID
	if subject != "" {
		id = workType.ID + ":" + subject
	}
	return &WorkItem{
		ID:        id,
		TypeID:    workType.ID,
		Subject:   subject,
		CreatedAt: time.Now(),
	}
}

// ParseWorkID splits a full work ID such as "document:refresh:فملی" back into
// its type ID and subject.
func ParseWorkID(id string) (typeID string, subject string) {
	parts := strings.Split(id, ":")
	if len(parts) <= 2 {
		return id, ""
	}
	return strings.Join(parts[:len(parts)-1], ":"), parts[len(parts)-1]
}

// CompletionKey uniquely identifies a completed work item.
type CompletionKey struct {
	TypeID  string
	Subject string
}

// NewCompletionKey derives a CompletionKey from a WorkItem.
func NewCompletionKey(item *WorkItem) CompletionKey {
	return CompletionKey{TypeID: item.TypeID, Subject: item.Subject}
}

// String renders the completion key in "type:subject" form.
func (ck CompletionKey) String() string {
	if ck.Subject == "" {
		return ck.TypeID
	}
	return ck.TypeID + ":" + ck.Subject
}
