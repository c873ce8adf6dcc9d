package providers

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatherWithIsolation_OneFailureDoesNotBlockSiblings(t *testing.T) {
	var completed int32

	results := GatherWithIsolation(context.Background(), map[string]func(context.Context) error{
		"a": func(context.Context) error { atomic.AddInt32(&completed, 1); return nil },
		"b": func(context.Context) error { atomic.AddInt32(&completed, 1); return errAt("b") },
		"c": func(context.Context) error { atomic.AddInt32(&completed, 1); return nil },
	})

	require.Len(t, results, 3)
	assert.EqualValues(t, 3, atomic.LoadInt32(&completed))

	byField := map[string]error{}
	for _, r := range results {
		byField[r.Field] = r.Err
	}
	assert.NoError(t, byField["a"])
	assert.Error(t, byField["b"])
	assert.NoError(t, byField["c"])
}

func TestFirstError_ReturnsNilWhenAllSucceed(t *testing.T) {
	results := []IsolatedResult{{Field: "a"}, {Field: "b"}}
	assert.NoError(t, FirstError(results))
}

func TestFirstError_ReturnsFirstFailure(t *testing.T) {
	results := []IsolatedResult{{Field: "a"}, {Field: "b", Err: errAt("b")}}
	assert.Error(t, FirstError(results))
}

func TestGatherWithIsolation_RespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran int32
	results := GatherWithIsolation(ctx, map[string]func(context.Context) error{
		"a": func(ctx context.Context) error {
			atomic.AddInt32(&ran, 1)
			return ctx.Err()
		},
	})

	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
}
