package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewOpenAICompleterRequiresKey(t *testing.T) {
	_, err := NewOpenAICompleter(OpenAIConfig{})
	require.Error(t, err)
}

func TestOpenAICompleterSendsPrompts(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"- fix commas\nscore: 80"}}],"usage":{"prompt_tokens":12,"completion_tokens":5,"total_tokens":17}}`))
	}))
	defer server.Close()

	completer, err := NewOpenAICompleter(OpenAIConfig{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)
	require.Equal(t, "gpt-4o-mini", completer.DefaultModel())

	out, err := completer.Complete(context.Background(), CompletionRequest{
		System:      "system text",
		User:        "user text",
		Temperature: 0.2,
	})
	require.NoError(t, err)
	require.Equal(t, "- fix commas\nscore: 80", out.Content)
	require.Equal(t, "gpt-4o-mini", out.Model)
	require.Equal(t, 5, out.CompletionTokens)

	require.Equal(t, "gpt-4o-mini", captured["model"])
	require.InDelta(t, 0.2, captured["temperature"], 0.0001)
	messages := captured["messages"].([]interface{})
	require.Len(t, messages, 2)
	require.Equal(t, "system", messages[0].(map[string]interface{})["role"])
	require.Equal(t, "user text", messages[1].(map[string]interface{})["content"])
}

func TestOpenAICompleterEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[]}`))
	}))
	defer server.Close()

	completer, err := NewOpenAICompleter(OpenAIConfig{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	out, err := completer.Complete(context.Background(), CompletionRequest{Model: "gpt-4o", User: "x"})
	require.NoError(t, err)
	require.Empty(t, out.Content)
	require.Equal(t, "gpt-4o", out.Model)
}

func TestOpenAICompleterUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	completer, err := NewOpenAICompleter(OpenAIConfig{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = completer.Complete(context.Background(), CompletionRequest{User: "x"})
	require.Error(t, err)
}
