package workflow

import (
	"context"
	"fmt"
	"sync"
)

// Result is what Execute/Resume returns: either a completed run (Interrupt
// is nil) or a paused one the caller should checkpoint. Failed lists every
// node that errored plus any downstream node skipped because a dependency
// of its own failed -- the rest of the graph (siblings in other branches)
// still ran to completion.
type Result struct {
	State     *State
	Completed []string
	Failed    []string
	Interrupt *Interrupt
}

// Execute runs g level by level: every node in a level runs concurrently in
// its own goroutine, and a level only starts once every node in the
// previous level has completed. The first node in a level to return an
// *Interrupt pauses the whole run -- sibling nodes in that level are let to
// finish (their fragments are still merged), but no further level starts.
// A node that returns a plain (non-Interrupt) error fails only that node
// and whatever depends on it, directly or transitively; every other branch
// keeps running, so one worker exhausting its recovery ladder never
// prevents the other branches' consensus and reporter nodes from running.
func Execute(ctx context.Context, g *Graph, initial map[string]any) (*Result, error) {
	state := NewState(initial)
	return run(ctx, g, state, nil)
}

// Resume continues a previously interrupted run from snap: state and the
// completed-node set are restored, resumeData is merged into state (this is
// how the paused node learns what the human decided), and execution
// continues from the level containing the interrupted node -- that node
// runs again and is expected to check state for its resume key instead of
// interrupting a second time.
func Resume(ctx context.Context, g *Graph, snap Snapshot, resumeData Fragment) (*Result, error) {
	state := NewState(snap.State)
	state.Merge(resumeData)

	completed := make(map[string]bool, len(snap.Completed))
	for _, id := range snap.Completed {
		if id == snap.Interrupt.NodeID {
			continue // re-run the interrupted node itself
		}
		completed[id] = true
	}
	return run(ctx, g, state, completed)
}

func run(ctx context.Context, g *Graph, state *State, alreadyDone map[string]bool) (*Result, error) {
	done := make(map[string]bool, len(alreadyDone))
	for id, v := range alreadyDone {
		done[id] = v
	}
	completedOrder := make([]string, 0, len(g.nodes))
	for id := range done {
		completedOrder = append(completedOrder, id)
	}

	failed := make(map[string]bool)
	var failedOrder []string

	for _, level := range g.levels {
		pending := make([]*Node, 0, len(level))
		for _, id := range level {
			if done[id] || failed[id] {
				continue
			}
			n := g.nodes[id]
			if dependsOnFailed(n, failed) {
				failed[id] = true
				failedOrder = append(failedOrder, id)
				continue
			}
			pending = append(pending, n)
		}
		if len(pending) == 0 {
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("workflow: context cancelled before level: %w", err)
		}

		type outcome struct {
			id       string
			fragment Fragment
			err      error
		}
		outcomes := make(chan outcome, len(pending))

		var wg sync.WaitGroup
		for _, n := range pending {
			wg.Add(1)
			go func(n *Node) {
				defer wg.Done()
				fragment, err := n.Fn(ctx, state)
				outcomes <- outcome{id: n.ID, fragment: fragment, err: err}
			}(n)
		}
		wg.Wait()
		close(outcomes)

		var interrupted *Interrupt
		for o := range outcomes {
			if o.err != nil {
				if i, ok := AsInterrupt(o.err); ok {
					if interrupted == nil {
						interrupted = i
					}
					state.Merge(o.fragment)
					completedOrder = append(completedOrder, o.id)
					continue
				}
				failed[o.id] = true
				failedOrder = append(failedOrder, o.id)
				continue
			}
			state.Merge(o.fragment)
			done[o.id] = true
			completedOrder = append(completedOrder, o.id)
		}

		if interrupted != nil {
			return &Result{State: state, Completed: completedOrder, Failed: failedOrder, Interrupt: interrupted}, nil
		}
	}

	return &Result{State: state, Completed: completedOrder, Failed: failedOrder}, nil
}

// dependsOnFailed reports whether n depends, directly, on a node already
// marked failed. Levels are processed in topological order, so a failed
// dependency is always resolved in an earlier (or the same) level before
// n is considered, which is enough to cascade failure through an entire
// downstream chain one level at a time.
func dependsOnFailed(n *Node, failed map[string]bool) bool {
	for _, dep := range n.DependsOn {
		if failed[dep] {
			return true
		}
	}
	return false
}
