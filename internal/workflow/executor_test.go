package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_RunsNodesInDependencyOrderAndMergesFragments(t *testing.T) {
	fetch := &Node{ID: "fetch", Fn: func(ctx context.Context, s *State) (Fragment, error) {
		return Fragment{"price": 100.0}, nil
	}}
	analyze := &Node{ID: "analyze", DependsOn: []string{"fetch"}, Fn: func(ctx context.Context, s *State) (Fragment, error) {
		price, ok := s.Get("price")
		require.True(t, ok)
		return Fragment{"verdict": price.(float64) > 50}, nil
	}}

	g, err := Compile(fetch, analyze)
	require.NoError(t, err)

	result, err := Execute(context.Background(), g, nil)
	require.NoError(t, err)
	assert.Nil(t, result.Interrupt)

	verdict, ok := result.State.Get("verdict")
	require.True(t, ok)
	assert.Equal(t, true, verdict)
}

func TestExecute_NodeFailureIsolatedToItsOwnDownstream(t *testing.T) {
	root := &Node{ID: "root", Fn: func(ctx context.Context, s *State) (Fragment, error) {
		return Fragment{"root": true}, nil
	}}
	failingBranch := &Node{ID: "boom", DependsOn: []string{"root"}, Fn: func(ctx context.Context, s *State) (Fragment, error) {
		return nil, errors.New("kaboom")
	}}
	downstreamOfFailure := &Node{ID: "after_boom", DependsOn: []string{"boom"}, Fn: func(ctx context.Context, s *State) (Fragment, error) {
		return Fragment{"after_boom": true}, nil
	}}
	healthyBranch := &Node{ID: "ok", DependsOn: []string{"root"}, Fn: func(ctx context.Context, s *State) (Fragment, error) {
		return Fragment{"ok": true}, nil
	}}

	g, err := Compile(root, failingBranch, downstreamOfFailure, healthyBranch)
	require.NoError(t, err)

	result, err := Execute(context.Background(), g, nil)
	require.NoError(t, err)
	assert.Nil(t, result.Interrupt)

	assert.Contains(t, result.Completed, "root")
	assert.Contains(t, result.Completed, "ok")
	assert.True(t, result.State.Has("ok"))

	assert.Contains(t, result.Failed, "boom")
	assert.Contains(t, result.Failed, "after_boom")
	assert.False(t, result.State.Has("after_boom"))
}

func TestExecute_InterruptPausesBeforeNextLevel(t *testing.T) {
	ask := &Node{ID: "ask", Fn: func(ctx context.Context, s *State) (Fragment, error) {
		if _, ok := s.Get("confirmed"); ok {
			return Fragment{"asked": true}, nil
		}
		return nil, &Interrupt{NodeID: "ask", Payload: "confirm?"}
	}}
	after := &Node{ID: "after", DependsOn: []string{"ask"}, Fn: func(ctx context.Context, s *State) (Fragment, error) {
		return Fragment{"done": true}, nil
	}}

	g, err := Compile(ask, after)
	require.NoError(t, err)

	result, err := Execute(context.Background(), g, nil)
	require.NoError(t, err)
	require.NotNil(t, result.Interrupt)
	assert.Equal(t, "ask", result.Interrupt.NodeID)
	assert.False(t, result.State.Has("done"))
}

func TestResume_ContinuesAfterInterruptWithResumeData(t *testing.T) {
	ask := &Node{ID: "ask", Fn: func(ctx context.Context, s *State) (Fragment, error) {
		if v, ok := s.Get("confirmed"); ok {
			return Fragment{"asked": v}, nil
		}
		return nil, &Interrupt{NodeID: "ask", Payload: "confirm?"}
	}}
	after := &Node{ID: "after", DependsOn: []string{"ask"}, Fn: func(ctx context.Context, s *State) (Fragment, error) {
		return Fragment{"done": true}, nil
	}}
	g, err := Compile(ask, after)
	require.NoError(t, err)

	first, err := Execute(context.Background(), g, nil)
	require.NoError(t, err)
	require.NotNil(t, first.Interrupt)

	snap := Snapshot{
		ThreadID:  "t1",
		State:     first.State.Snapshot(),
		Completed: first.Completed,
		Interrupt: first.Interrupt,
	}

	resumed, err := Resume(context.Background(), g, snap, Fragment{"confirmed": true})
	require.NoError(t, err)
	assert.Nil(t, resumed.Interrupt)
	assert.True(t, resumed.State.Has("done"))
}

func TestGatekeeper_WithholdsUntilAllKeysPresent(t *testing.T) {
	ran := false
	gk := Gatekeeper([]string{"a", "b"}, func(ctx context.Context, s *State) (Fragment, error) {
		ran = true
		return Fragment{"fused": true}, nil
	})

	state := NewState(map[string]any{"a": 1})
	fragment, err := gk(context.Background(), state)
	require.NoError(t, err)
	assert.Empty(t, fragment)
	assert.False(t, ran)

	state.Merge(Fragment{"b": 2})
	fragment, err = gk(context.Background(), state)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, Fragment{"fused": true}, fragment)
}
