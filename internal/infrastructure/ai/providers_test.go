package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/wtf-go/internal/domain"
)

func TestOpenAIGenerateShellCommand(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","model":"gpt-4o",
			"choices":[{"index":0,"message":{"role":"assistant","content":"  ls -la\n"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	provider := newOpenAIProvider("sk-test", Options{OpenAIBaseURL: server.URL + "/v1", HTTPClient: server.Client()}, NewPromptBuilder("bash", "linux"))
	command, err := provider.GenerateShellCommand(context.Background(), "list files", "gpt-4o")
	require.NoError(t, err)
	assert.Equal(t, "ls -la", command)

	assert.Equal(t, "gpt-4o", captured["model"])
	assert.InDelta(t, 0.1, captured["temperature"], 1e-6)
	messages := captured["messages"].([]interface{})
	require.Len(t, messages, 2)
	assert.Equal(t, SystemInstruction, messages[0].(map[string]interface{})["content"])
	assert.Contains(t, messages[1].(map[string]interface{})["content"], "Natural language: list files")
}

func TestOpenAIRemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	provider := newOpenAIProvider("sk-bad", Options{OpenAIBaseURL: server.URL + "/v1"}, NewPromptBuilder("bash", "linux"))
	_, err := provider.GenerateShellCommand(context.Background(), "list files", "gpt-4o")

	var remote *domain.RemoteError
	require.True(t, errors.As(err, &remote), "got %v", err)
	assert.Equal(t, http.StatusUnauthorized, remote.StatusCode)
	assert.Contains(t, remote.Message, "Incorrect API key")
}

func TestAnthropicGenerateShellCommand(t *testing.T) {
	var captured anthropicRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sk-ant", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant",
			"content":[{"type":"text","text":"` + "```bash\\ndf -h\\n```" + `"}]}`))
	}))
	defer server.Close()

	provider := newAnthropicProvider("sk-ant", Options{AnthropicURL: server.URL, HTTPClient: server.Client()}, NewPromptBuilder("zsh", "darwin"))
	command, err := provider.GenerateShellCommand(context.Background(), "show disk usage", "claude-3-5-sonnet")
	require.NoError(t, err)
	assert.Equal(t, "df -h", command)

	assert.Equal(t, "claude-3-5-sonnet", captured.Model)
	assert.Equal(t, domain.MaxResponseTokens, captured.MaxTokens)
	assert.Equal(t, SystemInstruction, captured.System)
	require.Len(t, captured.Messages, 1)
	assert.Contains(t, captured.Messages[0].Content, "zsh syntax")
}

func TestAnthropicRemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"Rate limited"}}`))
	}))
	defer server.Close()

	provider := newAnthropicProvider("sk-ant", Options{AnthropicURL: server.URL}, NewPromptBuilder("", "linux"))
	_, err := provider.GenerateShellCommand(context.Background(), "x", "claude-3-haiku")

	var remote *domain.RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, http.StatusTooManyRequests, remote.StatusCode)
	assert.Equal(t, "Rate limited", remote.Message)
}

func TestAnthropicEmptyReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer server.Close()

	provider := newAnthropicProvider("sk-ant", Options{AnthropicURL: server.URL}, NewPromptBuilder("", "linux"))
	_, err := provider.GenerateShellCommand(context.Background(), "x", "claude-3-haiku")
	assert.ErrorIs(t, err, domain.ErrEmptyCommand)
}
