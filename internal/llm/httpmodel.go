package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPModel is the one concrete ChatModel: a plain net/http client against
// an OpenAI-compatible chat-completions endpoint. No provider SDK -- a POST
// of a JSON body and a JSON decode of the reply, same shape Invoke's
// recovery ladder already expects from ChatModel.Chat. Transient-error
// retry lives one layer up in Invoker.callWithRetry, so this type never
// retries on its own.
type HTTPModel struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// HTTPModelConfig points an HTTPModel at a provider.
type HTTPModelConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// NewHTTPModel builds an HTTPModel. A zero Timeout defaults to 60 seconds,
// generous for a structured completion with a few hundred output tokens.
func NewHTTPModel(cfg HTTPModelConfig) *HTTPModel {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPModel{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

var _ ChatModel = (*HTTPModel)(nil)

type chatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string                   `json:"model"`
	Messages       []chatCompletionMessage  `json:"messages"`
	MaxTokens      int                      `json:"max_tokens,omitempty"`
	TopP           float64                  `json:"top_p,omitempty"`
	ResponseFormat *chatCompletionRespFmt   `json:"response_format,omitempty"`
}

type chatCompletionRespFmt struct {
	Type string `json:"type"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message      chatCompletionMessage `json:"message"`
		FinishReason string                `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Chat sends req as a single chat-completions call. When req.Schema is set,
// the schema is rendered into the system prompt (so the model sees the
// exact shape expected) and the request asks the provider for a plain JSON
// object in response_format -- the recovery ladder above this call handles
// providers that ignore that hint.
func (m *HTTPModel) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	system := req.SystemPrompt
	if req.Schema != nil {
		system = fmt.Sprintf("%s\n\nRespond with a single JSON object matching this schema:\n%s",
			system, req.Schema.JSONString())
	}

	messages := make([]chatCompletionMessage, 0, len(req.Messages)+1)
	if system != "" {
		messages = append(messages, chatCompletionMessage{Role: string(RoleSystem), Content: system})
	}
	for _, msg := range req.Messages {
		messages = append(messages, chatCompletionMessage{Role: string(msg.Role), Content: msg.Content})
	}

	model := req.Model
	if model == "" {
		model = m.model
	}

	body := chatCompletionRequest{
		Model:     model,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
		TopP:      req.TopP,
	}
	if req.Schema != nil {
		body.ResponseFormat = &chatCompletionRespFmt{Type: "json_object"}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("llm: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		m.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("llm: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if m.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+m.apiKey)
	}

	resp, err := m.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("llm: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("llm: read response: %w", err)
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("llm: decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return nil, fmt.Errorf("llm: provider error (status %d): %s", resp.StatusCode, parsed.Error.Message)
		}
		return nil, fmt.Errorf("llm: provider returned status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("llm: provider returned no choices")
	}

	return &ChatResponse{
		Content:      parsed.Choices[0].Message.Content,
		FinishReason: parsed.Choices[0].FinishReason,
	}, nil
}
