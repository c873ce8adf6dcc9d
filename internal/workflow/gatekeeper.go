package workflow

import "context"

// Gatekeeper wraps a fan-in NodeFunc so it only runs its real logic once
// every key in required is present in State. Until then it returns an empty
// Fragment (a no-op) rather than erroring -- this is what lets a consensus
// node depend on several worker branches where any individual branch may
// legitimately have produced nothing (a skipped analysis, an upstream that
// chose not to write its key) without the whole run failing.
//
// fn still only executes after the graph's dependency ordering has already
// run every upstream node; the state check catches the case where an
// upstream *ran* but didn't write one of the keys this node needs.
func Gatekeeper(required []string, fn NodeFunc) NodeFunc {
	return func(ctx context.Context, state *State) (Fragment, error) {
		if !state.HasAll(required...) {
			return Fragment{}, nil
		}
		return fn(ctx, state)
	}
}
