package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type verdictReport struct {
	Verdict    string `json:"verdict"`
	Confidence string `json:"confidence"`
}

func fastBackoff() BackoffConfig {
	return BackoffConfig{
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		BackoffFactor:  2,
		JitterFraction: 0,
	}
}

func TestInvoke_SucceedsOnFirstRungWithCleanJSON(t *testing.T) {
	model := &FakeModel{Responses: []string{`{"verdict":"BUY","confidence":"high"}`}}
	inv := &Invoker{Model: model, Backoff: fastBackoff()}

	result, meta, err := Invoke[verdictReport](context.Background(), inv, "system", []Message{{Role: RoleUser, Content: "analyze"}})

	require.NoError(t, err)
	assert.Equal(t, "BUY", result.Verdict)
	assert.Equal(t, 1, meta.RungReached)
	assert.False(t, meta.Repaired)
}

func TestInvoke_ExtractsJSONFromProseOnRungTwo(t *testing.T) {
	model := &FakeModel{Responses: []string{
		"Sure, here's my analysis as prose with no JSON at all.",
		`Here you go: {"verdict":"SELL","confidence":"medium"} thanks!`,
	}}
	inv := &Invoker{Model: model, Backoff: fastBackoff()}

	result, meta, err := Invoke[verdictReport](context.Background(), inv, "system", nil)

	require.NoError(t, err)
	assert.Equal(t, "SELL", result.Verdict)
	assert.Equal(t, 2, meta.RungReached)
}

func TestInvoke_FallsBackToJSONRepairOnRungThree(t *testing.T) {
	model := &FakeModel{Responses: []string{
		"not json",
		"still not json",
		`{"verdict": "BUY", "confidence": "low",}`, // trailing comma needs repair
	}}
	inv := &Invoker{Model: model, Backoff: fastBackoff()}

	result, meta, err := Invoke[verdictReport](context.Background(), inv, "system", nil)

	require.NoError(t, err)
	assert.Equal(t, "BUY", result.Verdict)
	assert.True(t, meta.Repaired)
}

func TestInvoke_ExhaustsLadderOnUnrecoverableGarbage(t *testing.T) {
	model := &FakeModel{Responses: []string{"garbage", "more garbage", "still garbage"}}
	inv := &Invoker{Model: model, Backoff: fastBackoff()}

	_, _, err := Invoke[verdictReport](context.Background(), inv, "system", nil)

	assert.ErrorIs(t, err, ErrRecoveryExhausted)
}

func TestInvoke_RetriesTransientModelErrors(t *testing.T) {
	model := &FakeModel{
		ErrorsBeforeSuccess: 2,
		Responses:           []string{`{"verdict":"BUY","confidence":"high"}`},
	}
	inv := &Invoker{Model: model, Backoff: fastBackoff()}

	result, meta, err := Invoke[verdictReport](context.Background(), inv, "system", nil)

	require.NoError(t, err)
	assert.Equal(t, "BUY", result.Verdict)
	assert.Equal(t, 3, meta.Attempts)
}

func TestExtractJSONObject_StripsSurroundingProse(t *testing.T) {
	got := extractJSONObject(`prefix {"a":1} suffix`)
	assert.Equal(t, `{"a":1}`, got)
}

func TestExtractJSONObject_NoObjectReturnsOriginal(t *testing.T) {
	got := extractJSONObject("no json here")
	assert.Equal(t, "no json here", got)
}
