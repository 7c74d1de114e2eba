package leadscoring

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realtyaura/aura/pkg/logger"
	"github.com/realtyaura/aura/pkg/metrics"
	"github.com/realtyaura/aura/pkg/models"
	"github.com/realtyaura/aura/pkg/scoring"
	"github.com/realtyaura/aura/pkg/store"
	"github.com/realtyaura/aura/pkg/testdata"
)

func newService(t *testing.T, st *store.Store) *Service {
	t.Helper()
	engine := scoring.MustNewEngine(scoring.DefaultTables()).WithClock(testdata.Clock)
	return NewService(st, engine, logger.NewNop())
}

func TestScoreAllLeads(t *testing.T) {
	st, _ := testdata.OpenStore(t)
	ctx := context.Background()

	hot := &models.Contact{
		Name:              "Ahmed",
		LeadStatus:        models.StatusHot,
		Source:            "Referral",
		LastContactedDate: testdata.DaysAgo(0),
		Notes:             "cash buyer, urgent",
	}
	cold := &models.Contact{Name: "Bea", LeadStatus: models.StatusCold, Source: "Cold Call", CreatedDate: testdata.DaysAgo(200)}
	require.NoError(t, st.CreateContact(ctx, cold))
	require.NoError(t, st.CreateContact(ctx, hot))

	p1 := &models.Property{Building: "Palm Tower", Unit: "1"}
	p2 := &models.Property{Building: "Palm Tower", Unit: "2"}
	require.NoError(t, st.CreateProperty(ctx, p1))
	require.NoError(t, st.CreateProperty(ctx, p2))
	require.NoError(t, st.LinkContactProperty(ctx, hot.ID, p1.ID, models.RelationshipInterested))
	require.NoError(t, st.LinkContactProperty(ctx, hot.ID, p2.ID, models.RelationshipInterested))
	require.NoError(t, st.CreateTask(ctx, &models.Task{Title: "Call", ContactID: &hot.ID}))

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	svc := newService(t, st).WithMetrics(m)

	t.Run("Success - ordered and persisted", func(t *testing.T) {
		scores, err := svc.ScoreAllLeads(ctx)
		require.NoError(t, err)
		require.Len(t, scores, 2)

		assert.Equal(t, hot.ID, scores[0].ContactID)
		assert.Equal(t, 94.5, scores[0].Score)
		assert.Equal(t, "High", scores[0].PriorityLevel)
		assert.Equal(t, cold.ID, scores[1].ContactID)

		stored, err := svc.StoredScores(ctx)
		require.NoError(t, err)
		require.Len(t, stored, 2)
		assert.Equal(t, hot.ID, stored[0].ContactID)
		assert.Equal(t, scores[0].Breakdown, stored[0].Breakdown)
		assert.Equal(t, "2025-06-15T12:00:00Z", stored[0].LastCalculated)

		assert.Equal(t, 1.0, testutil.ToFloat64(m.ScoringRuns.WithLabelValues("success")))
		assert.Equal(t, 2.0, testutil.ToFloat64(m.LeadsScored))
	})

	t.Run("Success - idempotent", func(t *testing.T) {
		first, err := svc.ScoreAllLeads(ctx)
		require.NoError(t, err)
		second, err := svc.ScoreAllLeads(ctx)
		require.NoError(t, err)
		assert.Equal(t, first, second)

		stored, err := svc.StoredScores(ctx)
		require.NoError(t, err)
		assert.Len(t, stored, 2)
	})

	t.Run("Success - distribution", func(t *testing.T) {
		dist, err := svc.GetScoreDistribution(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, dist["excellent"])
		assert.Equal(t, 1, dist["poor"]+dist["critical"])
	})

	t.Run("Success - chat summary", func(t *testing.T) {
		text, err := svc.TopLeadsSummary(ctx, 5)
		require.NoError(t, err)
		assert.Contains(t, text, "Lead Scoring Results (Top 2):")
		assert.Contains(t, text, "1. Ahmed - Score: 94.5 (High Priority)")
		assert.Contains(t, text, "Status: Hot | Source: Referral")
	})
}

func TestScoreAllLeadsStoreFailure(t *testing.T) {
	st, client := testdata.OpenStore(t)
	ctx := context.Background()
	require.NoError(t, st.CreateContact(ctx, &models.Contact{Name: "A", LeadStatus: models.StatusWarm}))
	require.NoError(t, client.Close())

	scores, err := newService(t, st).ScoreAllLeads(ctx)
	assert.Error(t, err)
	assert.Nil(t, scores)
}

func TestFormatTopLeadsEmpty(t *testing.T) {
	assert.Equal(t, "No leads found to score.", FormatTopLeads(nil, 5))
}

func TestPreviewScoresDoesNotPersist(t *testing.T) {
	st, _ := testdata.SeededStore(t)
	ctx := context.Background()

	scores, err := newService(t, st).PreviewScores(ctx)
	require.NoError(t, err)
	assert.Len(t, scores, 5)

	stored, err := st.ListScores(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}
