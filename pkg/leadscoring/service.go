package leadscoring

import (
	"context"
	"fmt"
	"strings"

	"github.com/realtyaura/aura/pkg/logger"
	"github.com/realtyaura/aura/pkg/metrics"
	"github.com/realtyaura/aura/pkg/models"
	"github.com/realtyaura/aura/pkg/scoring"
	"github.com/realtyaura/aura/pkg/store"
)

// Service handles lead scoring operations.
type Service struct {
	store   *store.Store
	engine  *scoring.Engine
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewService creates a new lead scoring service.
func NewService(st *store.Store, engine *scoring.Engine, log logger.Logger) *Service {
	return &Service{store: st, engine: engine, logger: log}
}

// WithMetrics records scoring runs on m.
func (s *Service) WithMetrics(m *metrics.Metrics) *Service {
	s.metrics = m
	return s
}

// Inputs loads every contact with its engagement counts.
func (s *Service) Inputs(ctx context.Context) ([]scoring.LeadInput, error) {
	contacts, err := s.store.ListContacts(ctx, store.ContactFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}
	links, err := s.store.RelationshipCounts(ctx, models.RelationshipInterested, models.RelationshipViewingScheduled)
	if err != nil {
		return nil, fmt.Errorf("failed to count property links: %w", err)
	}
	tasks, err := s.store.OpenTaskCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count open tasks: %w", err)
	}

	inputs := make([]scoring.LeadInput, 0, len(contacts))
	for _, c := range contacts {
		inputs = append(inputs, scoring.LeadInput{
			Contact:             c,
			InterestedOrViewing: links[c.ID],
			OpenTasks:           tasks[c.ID],
		})
	}
	return inputs, nil
}

// ScoreAllLeads scores every contact and replaces the stored scores in one
// transaction. On failure no score is written and the previous run stays.
func (s *Service) ScoreAllLeads(ctx context.Context) ([]scoring.LeadScore, error) {
	scores, err := s.scoreAll(ctx)
	s.metrics.RecordScoringRun(len(scores), err)
	if err != nil {
		s.logger.Error("lead scoring run failed", "error", err)
		return nil, err
	}
	s.logger.Info("lead scoring run completed", "contacts", len(scores))
	return scores, nil
}

func (s *Service) scoreAll(ctx context.Context) ([]scoring.LeadScore, error) {
	inputs, err := s.Inputs(ctx)
	if err != nil {
		return nil, err
	}

	scores := s.engine.ScoreLeads(inputs)

	calculated := models.FormatTimestamp(s.store.Now())
	records := make([]models.ScoreRecord, 0, len(scores))
	for _, sc := range scores {
		records = append(records, models.ScoreRecord{
			ContactID:      sc.ContactID,
			Score:          sc.Score,
			Breakdown:      sc.Breakdown,
			LastCalculated: calculated,
		})
	}
	if err := s.store.ReplaceScores(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to save lead scores: %w", err)
	}
	return scores, nil
}

// PreviewScores scores every contact without persisting the result
func (s *Service) PreviewScores(ctx context.Context) ([]scoring.LeadScore, error) {
	inputs, err := s.Inputs(ctx)
	if err != nil {
		return nil, err
	}
	return s.engine.ScoreLeads(inputs), nil
}

// StoredScores returns the scores of the last run, highest first.
func (s *Service) StoredScores(ctx context.Context) ([]models.ScoreRecord, error) {
	return s.store.ListScores(ctx)
}

// GetScoreDistribution buckets the stored scores.
func (s *Service) GetScoreDistribution(ctx context.Context) (map[string]int, error) {
	records, err := s.store.ListScores(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scores: %w", err)
	}

	distribution := map[string]int{
		"excellent": 0, // 80-100
		"good":      0, // 60-79
		"fair":      0, // 40-59
		"poor":      0, // 20-39
		"critical":  0, // 0-19
	}

	for _, r := range records {
		switch {
		case r.Score >= 80:
			distribution["excellent"]++
		case r.Score >= 60:
			distribution["good"]++
		case r.Score >= 40:
			distribution["fair"]++
		case r.Score >= 20:
			distribution["poor"]++
		default:
			distribution["critical"]++
		}
	}

	return distribution, nil
}

// TopLeadsSummary runs a scoring pass and renders the best n leads as chat text.
func (s *Service) TopLeadsSummary(ctx context.Context, n int) (string, error) {
	scores, err := s.ScoreAllLeads(ctx)
	if err != nil {
		return "", err
	}
	return FormatTopLeads(scores, n), nil
}

// FormatTopLeads renders up to n scored leads.
func FormatTopLeads(scores []scoring.LeadScore, n int) string {
	if len(scores) == 0 {
		return "No leads found to score."
	}
	if n > len(scores) {
		n = len(scores)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Lead Scoring Results (Top %d):\n\n", n)
	for i, l := range scores[:n] {
		fmt.Fprintf(&b, "%d. %s - Score: %.1f (%s Priority)\n", i+1, l.Name, l.Score, l.PriorityLevel)
		fmt.Fprintf(&b, "   Status: %s | Source: %s\n", l.LeadStatus, l.Source)
		fmt.Fprintf(&b, "   Recommendation: %s\n\n", l.Recommendation)
	}
	return b.String()
}
