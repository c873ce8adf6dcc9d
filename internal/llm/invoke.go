package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kaptinlin/jsonrepair"
)

// ErrRecoveryExhausted is returned when every rung of the recovery ladder
// failed to produce a value that unmarshals into the target type.
var ErrRecoveryExhausted = errors.New("llm: recovery ladder exhausted")

// RecoveryMeta records how much work Invoke had to do to get a valid
// structured result, for logging and for the AgentReport's confidence
// grade (a result that needed rung 3 and a repair pass is less trustworthy
// than one that parsed cleanly on rung 1).
type RecoveryMeta struct {
	RungReached int  // 1, 2, or 3 -- which ladder rung finally produced parseable JSON
	Repaired    bool // true if kaptinlin/jsonrepair had to patch the text
	Attempts    int  // total ChatModel.Chat calls across all rungs and retries
}

// Invoker wraps a ChatModel with the structured-output recovery ladder.
type Invoker struct {
	Model   ChatModel
	Backoff BackoffConfig
}

// NewInvoker constructs an Invoker with default backoff settings
// (1s initial, 10s cap, per the recovery ladder's retry budget).
func NewInvoker(model ChatModel) *Invoker {
	cfg := BackoffConfig{}
	cfg.applyDefaults()
	return &Invoker{Model: model, Backoff: cfg}
}

// Invoke runs the three-rung recovery ladder against the model and decodes
// the result into T:
//
//  1. A schema-constrained call: the request carries GenerateSchema[T]() and
//     the system prompt as given.
//  2. If the response doesn't unmarshal, a re-prompt appending "Return ONLY
//     valid JSON matching the schema above. No prose, no markdown fences."
//  3. If that still fails, a re-prompt demanding the response start with '{'
//     and contain nothing else.
//
// After rung 3, a kaptinlin/jsonrepair pass is tried on the last response
// before giving up. Any ChatModel error is retried with exponential backoff
// within each rung, up to Backoff.MaxRetries times; errors are not
// classified, so every failure is retried until that budget is spent.
func Invoke[T any](ctx context.Context, inv *Invoker, systemPrompt string, messages []Message) (T, RecoveryMeta, error) {
	var zero T
	schema := GenerateSchema[T]()

	meta := RecoveryMeta{}
	req := ChatRequest{
		Messages:     messages,
		SystemPrompt: systemPrompt,
		Schema:       schema,
	}

	var lastContent string
	for rung := 1; rung <= 3; rung++ {
		resp, err := inv.callWithRetry(ctx, req, &meta)
		if err != nil {
			return zero, meta, fmt.Errorf("llm: rung %d call failed: %w", rung, err)
		}
		lastContent = resp.Content

		if value, ok := tryDecode[T](resp.Content); ok {
			meta.RungReached = rung
			return value, meta, nil
		}

		req = nextRungRequest(req, rung, resp.Content, schema)
	}

	repaired, err := jsonrepair.JSONRepair(lastContent)
	if err == nil {
		if value, ok := tryDecode[T](repaired); ok {
			meta.RungReached = 3
			meta.Repaired = true
			return value, meta, nil
		}
	}

	return zero, meta, ErrRecoveryExhausted
}

func nextRungRequest(req ChatRequest, rung int, lastContent string, schema *Schema) ChatRequest {
	next := req
	switch rung {
	case 1:
		next.Messages = append(append([]Message{}, req.Messages...),
			Message{Role: RoleAssistant, Content: lastContent},
			Message{Role: RoleUser, Content: "Return ONLY valid JSON matching the schema above. No prose, no markdown fences."},
		)
	case 2:
		next.Messages = append(append([]Message{}, req.Messages...),
			Message{Role: RoleAssistant, Content: lastContent},
			Message{Role: RoleUser, Content: "Your previous reply was not valid JSON. Respond with nothing but a single JSON object, starting with '{' and ending with '}'. Do not include any other character."},
		)
	}
	_ = schema
	return next
}

func tryDecode[T any](content string) (T, bool) {
	var value T
	trimmed := extractJSONObject(content)
	if err := json.Unmarshal([]byte(trimmed), &value); err != nil {
		return value, false
	}
	return value, true
}

// extractJSONObject trims surrounding prose/markdown fences down to the
// first balanced '{'...'}' span, which is the common failure mode on rungs
// 1 and 2 before a model is pinned down by rung 3's strict prefix demand.
func extractJSONObject(content string) string {
	start := -1
	depth := 0
	for i, r := range content {
		switch r {
		case '{':
			if start == -1 {
				start = i
			}
			depth++
		case '}':
			depth--
			if depth == 0 && start != -1 {
				return content[start : i+1]
			}
		}
	}
	return content
}

func (inv *Invoker) callWithRetry(ctx context.Context, req ChatRequest, meta *RecoveryMeta) (*ChatResponse, error) {
	cfg := inv.Backoff
	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := computeBackoff(cfg, attempt-1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
		meta.Attempts++
		resp, err := inv.Model.Chat(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("exhausted %d retries: %w", cfg.MaxRetries, lastErr)
}
