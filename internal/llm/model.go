package llm

import "context"

// Role identifies the speaker of a Message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in a chat conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a single chat completion request. SystemPrompt and Schema
// are optional; when Schema is set the provider is asked to constrain its
// output to that shape.
type ChatRequest struct {
	Model        string
	Messages     []Message
	SystemPrompt string
	Schema       *Schema
	MaxTokens    int
	TopP         float64
}

// ChatResponse is a provider's reply. Content is the raw text; structured
// decoding happens one layer up, in Invoke.
type ChatResponse struct {
	Content      string
	FinishReason string
}

// ChatModel is the minimal surface Invoke needs from an LLM provider. The
// real implementation is HTTPModel, a plain HTTP client with no provider
// SDK; tests use the in-memory fake in fake.go.
type ChatModel interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}
