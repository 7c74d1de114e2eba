package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realtyaura/aura/pkg/logger"
)

func TestNewClient(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNop()

	_, err := NewClient(ctx, Config{Provider: "gemini"}, log)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewClient(ctx, Config{Provider: "openai"}, log)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewClient(ctx, Config{Provider: "watson", APIKey: "k"}, log)
	assert.Error(t, err)

	c, err := NewClient(ctx, Config{Provider: "OpenAI", APIKey: "k"}, log)
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, c.Provider())

	c, err = NewClient(ctx, Config{Provider: "ollama"}, log)
	require.NoError(t, err)
	assert.Equal(t, ProviderOllama, c.Provider())

	c, err = NewClient(ctx, Config{Provider: "gemini", APIKey: "k"}, log)
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, c.Provider())
}

func TestOpenAIClientComplete(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Palm Tower is your best lead."}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 20, "completion_tokens": 7, "total_tokens": 27}
		}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1"}, logger.NewNop())
	out, err := c.Complete(context.Background(), "Which lead?", AssistantSystemPrompt)
	require.NoError(t, err)
	assert.Equal(t, "Palm Tower is your best lead.", out)

	assert.Equal(t, "gpt-4o-mini", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "Which lead?", got.Messages[1].Content)
}

func TestOpenAIClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "bad key", "type": "invalid_request_error"}}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient(Config{APIKey: "nope", BaseURL: srv.URL + "/v1"}, logger.NewNop())
	_, err := c.Chat(context.Background(), ChatRequest{Messages: []ChatMessage{{Role: "user", Content: "hi"}}})
	assert.Error(t, err)
}

func TestGeminiClientChat(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-2.5-flash:generateContent")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "Two viewings today."}]}, "finishReason": "STOP"}],
			"usageMetadata": {"promptTokenCount": 10, "candidatesTokenCount": 4, "totalTokenCount": 14}
		}`))
	}))
	defer srv.Close()

	c, err := NewGeminiClient(context.Background(), Config{APIKey: "k", BaseURL: srv.URL}, logger.NewNop())
	require.NoError(t, err)

	resp, err := c.Chat(context.Background(), ChatRequest{Messages: []ChatMessage{
		{Role: "system", Content: AssistantSystemPrompt},
		{Role: "user", Content: "What is on today?"},
	}})
	require.NoError(t, err)
	assert.Equal(t, "Two viewings today.", resp.Message)
	assert.Equal(t, 14, resp.TokensUsed)
	assert.Equal(t, "STOP", resp.FinishReason)

	assert.Contains(t, body, "systemInstruction")
	contents, ok := body["contents"].([]any)
	require.True(t, ok)
	assert.Len(t, contents, 1)
}

func TestGeminiClientRequiresUserMessage(t *testing.T) {
	c, err := NewGeminiClient(context.Background(), Config{APIKey: "k"}, logger.NewNop())
	require.NoError(t, err)

	_, err = c.Chat(context.Background(), ChatRequest{Messages: []ChatMessage{{Role: "system", Content: "x"}}})
	assert.Error(t, err)
}

func TestPrompts(t *testing.T) {
	p := AssistantPrompt("Total Properties: 5", "No relevant documents found in knowledge base.", "How is the market?")
	assert.Contains(t, p, "DATABASE CONTEXT:\nTotal Properties: 5")
	assert.Contains(t, p, "User Query: How is the market?")

	assert.Contains(t, FollowUpEmailPrompt("Sarah Johnson (Warm)", "viewed Marina Residences"), "Subject:")
	assert.Equal(t, 3, estimateTokens("twelve chars"))
}
