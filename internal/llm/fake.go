package llm

import (
	"context"
	"errors"
)

// FakeModel is a deterministic in-memory ChatModel for tests: it returns
// Responses in order, one per call, optionally erroring first per
// ErrorsBeforeSuccess.
type FakeModel struct {
	Responses           []string
	ErrorsBeforeSuccess int
	calls               int
}

// Chat returns the next canned response, or an error while
// ErrorsBeforeSuccess hasn't been exhausted yet.
func (f *FakeModel) Chat(_ context.Context, _ ChatRequest) (*ChatResponse, error) {
	if f.calls < f.ErrorsBeforeSuccess {
		f.calls++
		return nil, errors.New("simulated transient failure")
	}
	idx := f.calls - f.ErrorsBeforeSuccess
	f.calls++
	if idx >= len(f.Responses) {
		idx = len(f.Responses) - 1
	}
	if idx < 0 {
		return nil, errors.New("fake model has no responses configured")
	}
	return &ChatResponse{Content: f.Responses[idx]}, nil
}

// Calls returns how many times Chat has been invoked.
func (f *FakeModel) Calls() int { return f.calls }
