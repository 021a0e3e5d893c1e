package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rag-chat-be/pkg/llm"
)

func newChatServer(t *testing.T, captured *ollamaChatRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		_ = json.NewEncoder(w).Encode(ollamaChatResponse{
			Model:   captured.Model,
			Message: ollamaMessage{Role: "assistant", Content: "pong"},
			Done:    true,
		})
	}))
}

func TestChatSendsHistoryAndOptions(t *testing.T) {
	var captured ollamaChatRequest
	srv := newChatServer(t, &captured)
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")
	answer, err := p.Chat(context.Background(), []llm.Message{
		{Role: "system", Content: "be brief"},
		{Role: "model", Content: "earlier reply"},
		{Role: "user", Content: "ping"},
	}, llm.WithTemperature(0.3), llm.WithMaxTokens(256))
	require.NoError(t, err)
	assert.Equal(t, "pong", answer)

	assert.Equal(t, "llama3", captured.Model)
	require.Len(t, captured.Messages, 3)
	// The "model" role is normalized to the name ollama understands.
	assert.Equal(t, "assistant", captured.Messages[1].Role)
	require.NotNil(t, captured.Options)
	assert.Equal(t, 0.3, captured.Options.Temperature)
	assert.Equal(t, 256, captured.Options.NumPredict)
}

func TestGenerateWrapsPromptAndOverridesModel(t *testing.T) {
	var captured ollamaChatRequest
	srv := newChatServer(t, &captured)
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")
	answer, err := p.Generate(context.Background(), "ping", llm.WithModel("mistral"))
	require.NoError(t, err)
	assert.Equal(t, "pong", answer)

	assert.Equal(t, "mistral", captured.Model)
	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "user", captured.Messages[0].Role)
	assert.Equal(t, "ping", captured.Messages[0].Content)
}

func TestChatSurfacesUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")
	_, err := p.Chat(context.Background(), []llm.Message{{Role: "user", Content: "ping"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}
