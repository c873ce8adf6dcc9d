package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPModel_Chat_SendsSchemaAndDecodesChoice(t *testing.T) {
	var gotBody chatCompletionRequest
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(chatCompletionResponse{
			Choices: []struct {
				Message      chatCompletionMessage `json:"message"`
				FinishReason string                `json:"finish_reason"`
			}{
				{Message: chatCompletionMessage{Role: "assistant", Content: `{"ok":true}`}, FinishReason: "stop"},
			},
		})
	}))
	defer srv.Close()

	model := NewHTTPModel(HTTPModelConfig{BaseURL: srv.URL, APIKey: "secret", Model: "test-model"})

	resp, err := model.Chat(context.Background(), ChatRequest{
		SystemPrompt: "be terse",
		Messages:     []Message{{Role: RoleUser, Content: "hello"}},
		Schema:       &Schema{Type: "object"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, resp.Content)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "test-model", gotBody.Model)
	require.NotNil(t, gotBody.ResponseFormat)
	assert.Equal(t, "json_object", gotBody.ResponseFormat.Type)
	require.Len(t, gotBody.Messages, 2)
	assert.Equal(t, "system", gotBody.Messages[0].Role)
	assert.Contains(t, gotBody.Messages[0].Content, "be terse")
	assert.Contains(t, gotBody.Messages[0].Content, `"type": "object"`)
}

func TestHTTPModel_Chat_PropagatesProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "rate limited"},
		})
	}))
	defer srv.Close()

	model := NewHTTPModel(HTTPModelConfig{BaseURL: srv.URL, Model: "test-model"})
	_, err := model.Chat(context.Background(), ChatRequest{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}
