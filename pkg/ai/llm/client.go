package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/realtyaura/aura/pkg/logger"
)

// Supported providers
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// ErrNotConfigured is returned by NewClient when the provider has no API key
var ErrNotConfigured = errors.New("llm provider not configured")

// LLMClient is the interface for text generation providers
type LLMClient interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	Complete(ctx context.Context, prompt string, systemPrompt ...string) (string, error)
	CountTokens(text string) int
	Provider() string
}

// Ensure implementations satisfy the interface
var _ LLMClient = (*OpenAIClient)(nil)
var _ LLMClient = (*GeminiClient)(nil)

// ChatMessage represents a chat message
type ChatMessage struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// ChatRequest represents a chat completion request
type ChatRequest struct {
	Messages    []ChatMessage `json:"messages"`
	Temperature float32       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// ChatResponse represents a chat completion response
type ChatResponse struct {
	Message      string `json:"message"`
	TokensUsed   int    `json:"tokens_used"`
	FinishReason string `json:"finish_reason"`
}

// Config selects and configures a provider
type Config struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
}

func (c Config) withDefaults(model string) Config {
	if c.Model == "" {
		c.Model = model
	}
	if c.Temperature == 0 {
		c.Temperature = 0.7
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 2000
	}
	return c
}

// NewClient builds the client for cfg.Provider. Ollama needs no key; the
// hosted providers return ErrNotConfigured without one.
func NewClient(ctx context.Context, cfg Config, log logger.Logger) (LLMClient, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderGemini, "":
		if cfg.APIKey == "" {
			return nil, ErrNotConfigured
		}
		return NewGeminiClient(ctx, cfg, log)
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, ErrNotConfigured
		}
		return NewOpenAIClient(cfg, log), nil
	case ProviderOllama:
		if cfg.BaseURL == "" {
			cfg.BaseURL = "http://localhost:11434/v1"
		}
		if cfg.Model == "" {
			cfg.Model = "llama3.1:8b"
		}
		if cfg.APIKey == "" {
			cfg.APIKey = "ollama"
		}
		c := NewOpenAIClient(cfg, log)
		c.provider = ProviderOllama
		return c, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// completeWith builds the system + user message pair shared by providers
func completeWith(ctx context.Context, c LLMClient, prompt string, systemPrompt []string) (string, error) {
	var messages []ChatMessage
	if len(systemPrompt) > 0 && systemPrompt[0] != "" {
		messages = append(messages, ChatMessage{Role: "system", Content: systemPrompt[0]})
	}
	messages = append(messages, ChatMessage{Role: "user", Content: prompt})

	resp, err := c.Chat(ctx, ChatRequest{Messages: messages})
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// estimateTokens is a rough estimate of ~4 characters per token
func estimateTokens(text string) int {
	return len(text) / 4
}
