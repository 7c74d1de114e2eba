package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/realtyaura/aura/pkg/logger"
)

// OpenAIClient wraps the OpenAI API client. It also serves OpenAI-compatible
// servers such as Ollama through Config.BaseURL.
type OpenAIClient struct {
	client      *openai.Client
	provider    string
	model       string
	temperature float32
	maxTokens   int
	logger      logger.Logger
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(cfg Config, log logger.Logger) *OpenAIClient {
	cfg = cfg.withDefaults("gpt-4o-mini")

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	log.Info("openai client initialized", "model", cfg.Model, "base_url", config.BaseURL)

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(config),
		provider:    ProviderOpenAI,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		logger:      log,
	}
}

// Provider names the backing service
func (c *OpenAIClient) Provider() string {
	return c.provider
}

// Chat sends a chat completion request
func (c *OpenAIClient) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, msg := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.temperature
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	duration := time.Since(start)

	if err != nil {
		c.logger.Error("chat completion failed", "provider", c.provider, "error", err, "duration", duration)
		return nil, fmt.Errorf("%s chat failed: %w", c.provider, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from %s", c.provider)
	}

	c.logger.Debug("chat completion done", "provider", c.provider, "tokens", resp.Usage.TotalTokens, "duration", duration)

	return &ChatResponse{
		Message:      resp.Choices[0].Message.Content,
		TokensUsed:   resp.Usage.TotalTokens,
		FinishReason: string(resp.Choices[0].FinishReason),
	}, nil
}

// Complete sends a single prompt with an optional system prompt
func (c *OpenAIClient) Complete(ctx context.Context, prompt string, systemPrompt ...string) (string, error) {
	return completeWith(ctx, c, prompt, systemPrompt)
}

// CountTokens estimates the number of tokens in a text
func (c *OpenAIClient) CountTokens(text string) int {
	return estimateTokens(text)
}
