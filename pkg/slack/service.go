package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrSlackSendFailed is returned when Slack API fails
	ErrSlackSendFailed = errors.New("failed to send Slack notification")
)

// Message represents a Slack message
type Message struct {
	Text string `json:"text"`
}

// SlackClient is an interface for sending Slack notifications
type SlackClient interface {
	SendMessage(ctx context.Context, msg Message) error
}

// WebhookClient implements SlackClient using Slack webhooks
type WebhookClient struct {
	webhookURL string
	httpClient *http.Client
}

// NewWebhookClient creates a new Slack webhook client
func NewWebhookClient(webhookURL string) *WebhookClient {
	return &WebhookClient{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SendMessage sends a message to Slack via webhook
func (c *WebhookClient) SendMessage(ctx context.Context, msg Message) error {
	if c.webhookURL == "" {
		return fmt.Errorf("slack webhook URL not configured")
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSlackSendFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrSlackSendFailed, resp.StatusCode)
	}

	return nil
}

// Service handles Slack notifications
type Service struct {
	client SlackClient
}

// NewService creates a new Slack service. A nil client disables notifications.
func NewService(client SlackClient) *Service {
	return &Service{
		client: client,
	}
}

// IsEnabled returns true if Slack notifications are enabled
func (s *Service) IsEnabled() bool {
	return s != nil && s.client != nil
}

// NotifyDailyBriefing posts the agent's daily briefing
func (s *Service) NotifyDailyBriefing(ctx context.Context, date, briefing string) error {
	if !s.IsEnabled() {
		return nil
	}

	text := fmt.Sprintf("☀️ *Daily Briefing %s*\n%s", date, briefing)
	return s.client.SendMessage(ctx, Message{Text: text})
}

// NotifyDealClosed announces a closed deal
func (s *Service) NotifyDealClosed(ctx context.Context, dealID int64, value, commission float64) error {
	if !s.IsEnabled() {
		return nil
	}

	text := fmt.Sprintf("🎉 *Deal Closed*\n"+
		"• Deal: #%d\n"+
		"• Value: AED %.0f\n"+
		"• Commission: AED %.0f",
		dealID, value, commission)

	return s.client.SendMessage(ctx, Message{Text: text})
}

// NotifyHotLead announces a new contact entering as Hot
func (s *Service) NotifyHotLead(ctx context.Context, name, source string) error {
	if !s.IsEnabled() {
		return nil
	}

	text := fmt.Sprintf("🔥 *New Hot Lead*\n"+
		"• Name: %s\n"+
		"• Source: %s",
		name, source)

	return s.client.SendMessage(ctx, Message{Text: text})
}

// NotifyScrapeComplete reports a finished listings scrape
func (s *Service) NotifyScrapeComplete(ctx context.Context, listings int, file string) error {
	if !s.IsEnabled() {
		return nil
	}

	text := fmt.Sprintf("🏙️ *Listings Scraped*\n"+
		"• Listings: %d\n"+
		"• File: %s",
		listings, file)

	return s.client.SendMessage(ctx, Message{Text: text})
}
