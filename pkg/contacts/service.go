package contacts

import (
	"context"
	"fmt"
	"strings"

	"github.com/realtyaura/aura/pkg/domain"
	"github.com/realtyaura/aura/pkg/logger"
	"github.com/realtyaura/aura/pkg/models"
	"github.com/realtyaura/aura/pkg/phone"
	"github.com/realtyaura/aura/pkg/store"
)

// Notifier announces contacts that arrive as Hot leads
type Notifier interface {
	NotifyHotLead(ctx context.Context, name, source string) error
}

// Service handles contact intake and edits
type Service struct {
	store    *store.Store
	region   string
	notifier Notifier
	logger   logger.Logger
}

// NewService creates a contact service. Phones without a country code are
// read as numbers from region.
func NewService(st *store.Store, region string, log logger.Logger) *Service {
	if region == "" {
		region = phone.DefaultRegion
	}
	return &Service{store: st, region: region, logger: log}
}

// WithNotifier announces new Hot contacts
func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

func (s *Service) normalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if e164, err := phone.Normalize(raw, s.region); err == nil {
		return e164
	}
	return raw
}

// Create adds a contact with a normalized lead status and phone
func (s *Service) Create(ctx context.Context, req models.CreateContactRequest) (*models.Contact, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.NewValidationError("name is required")
	}

	c := &models.Contact{
		Name:       name,
		Email:      strings.TrimSpace(req.Email),
		Phone:      s.normalizePhone(req.Phone),
		LeadStatus: req.LeadStatus,
		Source:     strings.TrimSpace(req.Source),
		Notes:      req.Notes,
	}
	if err := s.store.CreateContact(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	s.logger.Info("contact created", "contact_id", c.ID, "lead_status", c.LeadStatus)

	if c.LeadStatus == models.StatusHot && s.notifier != nil {
		if err := s.notifier.NotifyHotLead(ctx, c.Name, c.Source); err != nil {
			s.logger.Warn("failed to announce hot lead", "contact_id", c.ID, "error", err)
		}
	}
	return c, nil
}

// Update applies the set fields of req and returns the stored contact
func (s *Service) Update(ctx context.Context, id int64, req models.UpdateContactRequest) (*models.Contact, error) {
	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.NewValidationError("name cannot be empty")
		}
		fields["name"] = name
	}
	if req.Email != nil {
		fields["email"] = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		fields["phone"] = s.normalizePhone(*req.Phone)
	}
	if req.LeadStatus != nil {
		fields["lead_status"] = models.NormalizeLeadStatus(*req.LeadStatus)
	}
	if req.Source != nil {
		fields["source"] = strings.TrimSpace(*req.Source)
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}

	if err := s.store.UpdateContact(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.store.GetContact(ctx, id)
}
