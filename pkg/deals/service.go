package deals

import (
	"context"
	"fmt"

	"github.com/realtyaura/aura/pkg/domain"
	"github.com/realtyaura/aura/pkg/logger"
	"github.com/realtyaura/aura/pkg/models"
	"github.com/realtyaura/aura/pkg/scoring"
	"github.com/realtyaura/aura/pkg/store"
)

// Notifier announces closed deals
type Notifier interface {
	NotifyDealClosed(ctx context.Context, dealID int64, value, commission float64) error
}

// Service handles the deal pipeline and closing predictions
type Service struct {
	store    *store.Store
	engine   *scoring.Engine
	notifier Notifier
	logger   logger.Logger
}

// NewService creates a new deal service
func NewService(st *store.Store, engine *scoring.Engine, log logger.Logger) *Service {
	return &Service{store: st, engine: engine, logger: log}
}

// WithNotifier announces deals moved to Closed
func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

// PredictCloseProbability estimates how likely a deal is to close. Unknown
// deals, and deals whose contact or property is gone, yield a not-found error.
func (s *Service) PredictCloseProbability(ctx context.Context, dealID int64) (*scoring.DealPrediction, error) {
	deal, err := s.store.GetDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	contact, err := s.store.GetContact(ctx, deal.ContactID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetProperty(ctx, deal.PropertyID); err != nil {
		return nil, err
	}

	prediction := s.engine.PredictClose(*deal, *contact)
	s.logger.Debug("deal probability predicted", "deal_id", dealID, "probability", prediction.Probability)
	return &prediction, nil
}

// Create opens a deal between an existing contact and property
func (s *Service) Create(ctx context.Context, d *models.Deal) error {
	if _, err := s.store.GetContact(ctx, d.ContactID); err != nil {
		return err
	}
	if _, err := s.store.GetProperty(ctx, d.PropertyID); err != nil {
		return err
	}
	if err := s.store.CreateDeal(ctx, d); err != nil {
		return fmt.Errorf("failed to create deal: %w", err)
	}
	s.logger.Info("deal created", "deal_id", d.ID, "contact_id", d.ContactID, "property_id", d.PropertyID)
	return nil
}

// UpdateStatus moves a deal through the pipeline. Closing a deal notifies
// the team; a failed notification is logged and does not fail the update.
func (s *Service) UpdateStatus(ctx context.Context, dealID int64, status string) (*models.Deal, error) {
	if status == "" {
		return nil, domain.NewValidationError("status is required")
	}
	if err := s.store.UpdateDealStatus(ctx, dealID, status); err != nil {
		return nil, err
	}
	deal, err := s.store.GetDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}

	if status == store.DealStatusClosed && s.notifier != nil {
		if err := s.notifier.NotifyDealClosed(ctx, deal.ID, deal.DealValue, deal.Commission); err != nil {
			s.logger.Warn("failed to announce closed deal", "deal_id", deal.ID, "error", err)
		}
	}
	return deal, nil
}
