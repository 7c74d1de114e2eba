package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/realtyaura/aura/pkg/logger"
)

// GeminiClient generates text with Google's Gemini models
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int
	logger      logger.Logger
}

// NewGeminiClient creates a Gemini client for cfg.APIKey
func NewGeminiClient(ctx context.Context, cfg Config, log logger.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	cfg = cfg.withDefaults("gemini-2.5-flash")

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	log.Info("gemini client initialized", "model", cfg.Model)

	return &GeminiClient{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		logger:      log,
	}, nil
}

// Provider names the backing service
func (c *GeminiClient) Provider() string {
	return ProviderGemini
}

// Chat sends the conversation to Gemini. System messages become the system
// instruction and assistant turns use the model role.
func (c *GeminiClient) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var system []string
	var contents []*genai.Content
	for _, msg := range req.Messages {
		switch msg.Role {
		case "system":
			system = append(system, msg.Content)
		case "assistant":
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}
	if len(contents) == 0 {
		return nil, fmt.Errorf("gemini chat requires at least one user message")
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.temperature
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(temperature),
		MaxOutputTokens: int32(maxTokens),
	}
	if len(system) > 0 {
		config.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	duration := time.Since(start)
	if err != nil {
		c.logger.Error("gemini generation failed", "error", err, "duration", duration)
		return nil, fmt.Errorf("gemini chat failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("no response from gemini")
	}

	out := &ChatResponse{Message: text}
	if resp.UsageMetadata != nil {
		out.TokensUsed = int(resp.UsageMetadata.TotalTokenCount)
	}
	if len(resp.Candidates) > 0 {
		out.FinishReason = string(resp.Candidates[0].FinishReason)
	}
	c.logger.Debug("gemini generation done", "tokens", out.TokensUsed, "duration", duration)
	return out, nil
}

// Complete sends a single prompt with an optional system prompt
func (c *GeminiClient) Complete(ctx context.Context, prompt string, systemPrompt ...string) (string, error) {
	return completeWith(ctx, c, prompt, systemPrompt)
}

// CountTokens estimates the number of tokens in a text
func (c *GeminiClient) CountTokens(text string) int {
	return estimateTokens(text)
}
