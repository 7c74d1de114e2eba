package followup

import (
	"context"
	"fmt"
	"strings"

	"github.com/realtyaura/aura/pkg/ai/llm"
	"github.com/realtyaura/aura/pkg/domain"
	"github.com/realtyaura/aura/pkg/models"
)

// Writer generates text from a prompt
type Writer interface {
	Complete(ctx context.Context, prompt string, systemPrompt ...string) (string, error)
}

// WithWriter enables ComposeEmail
func (s *Service) WithWriter(w Writer) *Service {
	s.writer = w
	return s
}

// ComposeEmail asks the language model for a personalized follow-up email.
// interaction describes the last exchange with the contact and may be empty.
func (s *Service) ComposeEmail(ctx context.Context, contactID int64, interaction string) (*EmailDraft, error) {
	if s.writer == nil {
		return nil, domain.NewUnavailableError("AI email composition")
	}

	contact, err := s.store.GetContact(ctx, contactID)
	if err != nil {
		return nil, err
	}
	interests, err := s.store.PropertiesRelatedTo(ctx, contactID, models.RelationshipInterested)
	if err != nil {
		return nil, fmt.Errorf("failed to load property interests: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\nLead status: %s\n", contact.Name, contact.LeadStatus)
	if contact.Source != "" {
		fmt.Fprintf(&b, "Source: %s\n", contact.Source)
	}
	if contact.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", contact.Notes)
	}
	for _, p := range interests {
		fmt.Fprintf(&b, "Interested in: %s in %s\n", p.Label(), p.Area)
	}
	if interaction == "" {
		interaction = "Routine follow-up"
	}

	text, err := s.writer.Complete(ctx, llm.FollowUpEmailPrompt(b.String(), interaction), llm.AssistantSystemPrompt)
	if err != nil {
		s.logger.Error("email composition failed", "contact_id", contactID, "error", err)
		return nil, fmt.Errorf("failed to compose email: %w", err)
	}

	subject, body := splitSubject(text)
	return &EmailDraft{
		ContactID: contactID,
		ToEmail:   contact.Email,
		ToName:    contact.Name,
		Subject:   subject,
		Body:      body,
	}, nil
}

// splitSubject separates a leading "Subject:" line from the body
func splitSubject(text string) (string, string) {
	text = strings.TrimSpace(text)
	first, rest, _ := strings.Cut(text, "\n")
	if subject, ok := strings.CutPrefix(strings.TrimSpace(first), "Subject:"); ok {
		return strings.TrimSpace(subject), strings.TrimSpace(rest)
	}
	return defaultSubject, text
}
