package providers

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentFetches bounds the simultaneous provider connections a single
// orchestrator run opens, per the "bounded concurrent-connection limit"
// resource model.
const maxConcurrentFetches = 100

// IsolatedResult is one field of a gatherWithIsolation batch: Err is nil on
// success, non-nil when this field's fetch failed -- a failure here never
// propagates to its siblings.
type IsolatedResult struct {
	Field string
	Err   error
}

// GatherWithIsolation runs every fetch concurrently (bounded by
// maxConcurrentFetches), letting each one fail independently. fetches is a
// map from a field name (used only for the returned isolation report) to a
// thunk that populates its own result and returns an error.
//
// Unlike errgroup.Group.Wait's fail-fast semantics, GatherWithIsolation
// never aborts siblings on a single field's error: every thunk always runs
// to completion, and the error (if any) is reported back per field instead
// of short-circuiting the batch.
func GatherWithIsolation(ctx context.Context, fetches map[string]func(context.Context) error) []IsolatedResult {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	results := make([]IsolatedResult, len(fetches))
	i := 0
	for field, fetch := range fetches {
		idx, name, fn := i, field, fetch
		i++
		g.Go(func() error {
			err := fn(gctx)
			results[idx] = IsolatedResult{Field: name, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// FirstError returns the first non-nil error found among results, or nil if
// every field succeeded. The orchestrator does not call it: both of its
// gather steps log per-field errors and continue.
func FirstError(results []IsolatedResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
