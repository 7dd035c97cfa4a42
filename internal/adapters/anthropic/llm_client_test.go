package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mikey/llm-scam-shield/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordedRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	Messages  []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"messages"`
}

func newTestClient(url string) *AnthropicClient {
	return NewAnthropicClient(nil, "key-123", url, "2023-06-01", "claude-3-haiku-20240307", 512, zap.NewNop())
}

func classificationKind(t *testing.T, err error) *core.ClassificationError {
	t.Helper()
	var classErr *core.ClassificationError
	require.True(t, errors.As(err, &classErr), "expected ClassificationError, got %v", err)
	return classErr
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestAnthropicClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "key-123", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var req recordedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "claude-3-haiku-20240307", req.Model)
		assert.Equal(t, 512, req.MaxTokens)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		require.Len(t, req.Messages[0].Content, 1)
		assert.Equal(t, "the prompt", req.Messages[0].Content[0].Text)

		writeJSON(w, http.StatusOK, `{"id":"msg_1","type":"message","role":"assistant","model":"claude-3-haiku-20240307",`+
			`"content":[{"type":"text","text":"first"},{"type":"text","text":"second"}],`+
			`"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":2}}`)
	}))
	defer server.Close()

	reply, err := newTestClient(server.URL).Generate(context.Background(), "the prompt")
	require.NoError(t, err)
	assert.Equal(t, "first", reply)
}

func TestAnthropicClient_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected core.ErrorKind
	}{
		{
			name:     "Unauthorized",
			status:   http.StatusUnauthorized,
			body:     `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`,
			expected: core.KindStatus,
		},
		{
			name:     "Overloaded",
			status:   529,
			body:     `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`,
			expected: core.KindStatus,
		},
		{
			name:     "No content blocks",
			status:   http.StatusOK,
			body:     `{"id":"msg_1","type":"message","role":"assistant","content":[]}`,
			expected: core.KindParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				writeJSON(w, tt.status, tt.body)
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).Generate(context.Background(), "the prompt")
			classErr := classificationKind(t, err)
			assert.Equal(t, tt.expected, classErr.Kind)
			if tt.expected == core.KindStatus {
				assert.Equal(t, tt.status, classErr.StatusCode)
			}
			assert.Equal(t, 1, calls)
		})
	}
}

func TestAnthropicClient_MalformedBodyIsClassified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `<html>`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Generate(context.Background(), "the prompt")
	require.Error(t, err)
	classificationKind(t, err)
}

func TestAnthropicClient_DeadlineIsTransportError(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestClient(server.URL).Generate(ctx, "the prompt")
	assert.Equal(t, core.KindTransport, classificationKind(t, err).Kind)
}

func TestAnthropicClient_HasCredential(t *testing.T) {
	assert.True(t, newTestClient("http://localhost").HasCredential())
	empty := NewAnthropicClient(nil, "", "http://localhost", "2023-06-01", "m", 1, zap.NewNop())
	assert.False(t, empty.HasCredential())
	assert.Equal(t, "m", empty.ModelName())
}
