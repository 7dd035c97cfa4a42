package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mikey/llm-scam-shield/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenAIClient_Generate(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"riskLevel\":\"GREEN\"}"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	}))
	defer server.Close()

	client := NewOpenAIClient("sk-test", server.URL+"/v1", "gpt-4o-mini", 256, 0.1, zap.NewNop())

	reply, err := client.Generate(context.Background(), "classify this")
	require.NoError(t, err)
	assert.Equal(t, `{"riskLevel":"GREEN"}`, reply)

	assert.Equal(t, "gpt-4o-mini", received["model"])
	assert.EqualValues(t, 256, received["max_tokens"])
	messages, ok := received["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	first := messages[0].(map[string]any)
	assert.Equal(t, "user", first["role"])
	assert.Equal(t, "classify this", first["content"])
}

func TestOpenAIClient_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited", "type": "rate_limit_error"}}`))
	}))
	defer server.Close()

	client := NewOpenAIClient("sk-test", server.URL+"/v1", "gpt-4o-mini", 256, 0.1, zap.NewNop())

	_, err := client.Generate(context.Background(), "classify this")
	var classErr *core.ClassificationError
	require.True(t, errors.As(err, &classErr))
	assert.Equal(t, core.KindStatus, classErr.Kind)
	assert.Equal(t, http.StatusTooManyRequests, classErr.StatusCode)
}

func TestOpenAIClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewOpenAIClient("sk-test", url+"/v1", "gpt-4o-mini", 256, 0.1, zap.NewNop())

	_, err := client.Generate(context.Background(), "classify this")
	var classErr *core.ClassificationError
	require.True(t, errors.As(err, &classErr))
	assert.Equal(t, core.KindTransport, classErr.Kind)
}

func TestOpenAIClient_HasCredential(t *testing.T) {
	assert.False(t, NewOpenAIClient("", "", "gpt-4o-mini", 256, 0.1, zap.NewNop()).HasCredential())
	assert.True(t, NewOpenAIClient("sk-test", "", "gpt-4o-mini", 256, 0.1, zap.NewNop()).HasCredential())
}
