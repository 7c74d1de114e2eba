package matching

import (
	"context"
	"fmt"
	"strings"

	"github.com/realtyaura/aura/pkg/logger"
	"github.com/realtyaura/aura/pkg/models"
	"github.com/realtyaura/aura/pkg/scoring"
	"github.com/realtyaura/aura/pkg/store"
)

// Service finds potential buyers for listed properties
type Service struct {
	store  *store.Store
	engine *scoring.Engine
	logger logger.Logger
}

// NewService creates a new matching service
func NewService(st *store.Store, engine *scoring.Engine, log logger.Logger) *Service {
	return &Service{store: st, engine: engine, logger: log}
}

// MatchBuyers ranks every contact who does not own the property. An unknown
// property id yields a not-found error.
func (s *Service) MatchBuyers(ctx context.Context, propertyID int64) ([]scoring.BuyerMatch, error) {
	property, err := s.store.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	return s.match(ctx, property)
}

// MatchBuyersForUnit looks the property up by building and unit first
func (s *Service) MatchBuyersForUnit(ctx context.Context, building, unit string) (*models.Property, []scoring.BuyerMatch, error) {
	property, err := s.store.FindPropertyByUnit(ctx, building, unit)
	if err != nil {
		return nil, nil, err
	}
	matches, err := s.match(ctx, property)
	if err != nil {
		return nil, nil, err
	}
	return property, matches, nil
}

func (s *Service) match(ctx context.Context, property *models.Property) ([]scoring.BuyerMatch, error) {
	contacts, err := s.store.ListContacts(ctx, store.ContactFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}
	owners, err := s.store.ContactsRelatedTo(ctx, property.ID, models.RelationshipOwner)
	if err != nil {
		return nil, fmt.Errorf("failed to load owners: %w", err)
	}

	owned := make(map[int64]bool, len(owners))
	for _, o := range owners {
		owned[o.ID] = true
	}

	matches := s.engine.MatchBuyers(*property, contacts, owned)
	s.logger.Debug("buyers matched", "property_id", property.ID, "candidates", len(matches))
	return matches, nil
}

// FormatMatches renders the n best buyers for a property as chat text
func FormatMatches(property *models.Property, matches []scoring.BuyerMatch, n int) string {
	if len(matches) == 0 {
		return "No potential buyers found for this property."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Potential buyers for %s:\n\n", property.Label())
	for _, m := range matches[:min(n, len(matches))] {
		fmt.Fprintf(&b, "• %s (%s lead) - %s\n", m.Name, m.Status, m.Email)
	}
	return b.String()
}
