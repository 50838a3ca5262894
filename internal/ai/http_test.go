package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenAI_Review(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body struct {
			Model    string              `json:"model"`
			Messages []map[string]string `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "gpt-4o-mini", body.Model)
		require.Len(t, body.Messages, 2)
		require.Contains(t, body.Messages[1]["content"], "File: main.go")

		w.Write([]byte(`{"model":"gpt-4o-mini-2024","choices":[{"message":{"content":"Line 1: ok"}}],"usage":{"prompt_tokens":10,"completion_tokens":3,"total_tokens":13}}`))
	}))
	defer srv.Close()

	resp, err := NewOpenAI("sk-test", "gpt-4o-mini", srv.URL+"/").Review(context.Background(), sampleRequest)

	require.NoError(t, err)
	require.Equal(t, "Line 1: ok", resp.Content)
	require.Equal(t, "gpt-4o-mini-2024", resp.Model)
	require.Equal(t, Usage{PromptTokens: 10, CompletionTokens: 3, TotalTokens: 13}, resp.Usage)
}

func TestOpenAI_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewOpenAI("k", "m", srv.URL).Review(context.Background(), sampleRequest)

	require.ErrorContains(t, err, "openai status 429")
}

func TestOpenAI_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewOpenAI("k", "m", srv.URL).Review(context.Background(), sampleRequest)

	require.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOllama_Review(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)

		var body ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.False(t, body.Stream)
		require.Equal(t, systemPrompt, body.System)

		w.Write([]byte(`{"response":"Line 1: arr","prompt_eval_count":20,"eval_count":4}`))
	}))
	defer srv.Close()

	resp, err := NewOllama(srv.URL, "llama3").Review(context.Background(), sampleRequest)

	require.NoError(t, err)
	require.Equal(t, "Line 1: arr", resp.Content)
	require.Equal(t, "ollama", resp.Provider)
	require.Equal(t, 24, resp.Usage.TotalTokens)
}

func TestOllama_EstimatesUsageWhenMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":"Line 1: a remark long enough to count"}`))
	}))
	defer srv.Close()

	resp, err := NewOllama(srv.URL, "llama3").Review(context.Background(), sampleRequest)

	require.NoError(t, err)
	require.Positive(t, resp.Usage.PromptTokens)
	require.Positive(t, resp.Usage.CompletionTokens)
}
