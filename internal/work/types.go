// Package work is a small dependency-free work-type registry for the
// ingestion/maintenance side of the system: each registered WorkType names
// its subjects (tracked symbols, maintenance targets) and how to execute
// one. It is distinct from internal/workflow's request-scoped analysis DAG
// -- this package drives the background sweep that decides WHEN to run an
// analysis, workflow drives HOW one runs once started.
package work

import (
	"context"
	"time"
)

// Timeout is the maximum duration a single work item may run before its
// context is cancelled. Ingestion (provider fetches plus the full agent
// graph) runs considerably longer than a typical background job.
const Timeout = 5 * time.Minute

// MaxRetries is how many additional attempts a failed work item gets
// within one sweep before the processor gives up on it for that tick.
const MaxRetries = 2

// WorkType is one registered unit of recurring background work.
type WorkType struct {
	// ID identifies this work type in the processor's log lines.
	ID string

	// FindSubjects returns the subjects (e.g. tracked ticker symbols) this
	// work type should run over on the current tick. An empty slice means
	// nothing is due right now.
	FindSubjects func(ctx context.Context) ([]string, error)

	// Execute runs this work type for one subject. It is expected to be
	// idempotent and to skip its own work internally when nothing is due
	// (e.g. by consulting a freshness predicate) rather than relying on
	// the processor to know that.
	Execute func(ctx context.Context, subject string) error
}
