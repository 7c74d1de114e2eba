package deals

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realtyaura/aura/pkg/domain"
	"github.com/realtyaura/aura/pkg/logger"
	"github.com/realtyaura/aura/pkg/models"
	"github.com/realtyaura/aura/pkg/scoring"
	"github.com/realtyaura/aura/pkg/store"
	"github.com/realtyaura/aura/pkg/testdata"
)

type recordingNotifier struct {
	closed []int64
	err    error
}

func (r *recordingNotifier) NotifyDealClosed(ctx context.Context, dealID int64, value, commission float64) error {
	r.closed = append(r.closed, dealID)
	return r.err
}

func newService(st *store.Store) *Service {
	engine := scoring.MustNewEngine(scoring.DefaultTables()).WithClock(testdata.Clock)
	return NewService(st, engine, logger.NewNop())
}

func TestPredictCloseProbability(t *testing.T) {
	st, _ := testdata.SeededStore(t)
	svc := newService(st)
	ctx := context.Background()

	// Ahmed: Hot referral, contacted yesterday, deal opened two days ago
	require.NoError(t, st.UpdateContact(ctx, 1, map[string]any{"last_contacted_date": testdata.DaysAgo(1)}))
	strong := &models.Deal{ContactID: 1, PropertyID: 2, DealType: "Sale", DealValue: 3200000, CreatedDate: testdata.DaysAgo(2)}
	require.NoError(t, svc.Create(ctx, strong))

	// Mohammed: Cold walk-in, never contacted, deal opened 90 days ago
	weak := &models.Deal{ContactID: 3, PropertyID: 4, DealType: "Sale", CreatedDate: testdata.DaysAgo(90)}
	require.NoError(t, svc.Create(ctx, weak))

	t.Run("Success - strong deal clamps to 100", func(t *testing.T) {
		p, err := svc.PredictCloseProbability(ctx, strong.ID)
		require.NoError(t, err)
		assert.Equal(t, 100.0, p.Probability)
		assert.Equal(t, "Very High", p.ConfidenceLevel)
		assert.Equal(t, 30, p.Factors[scoring.FactorDealStatus])
		assert.Equal(t, 15, p.Factors[scoring.FactorRecentContact])
	})

	t.Run("Success - weak deal", func(t *testing.T) {
		p, err := svc.PredictCloseProbability(ctx, weak.ID)
		require.NoError(t, err)
		// 50 - 20 + 5 - 20 - 10
		assert.Equal(t, 5.0, p.Probability)
		assert.Equal(t, "Very Low", p.ConfidenceLevel)
		assert.Contains(t, p.Recommendations[0], "Deal at risk")
	})

	t.Run("Failure - unknown deal", func(t *testing.T) {
		_, err := svc.PredictCloseProbability(ctx, 999)
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestPredictCloseProbabilityMissingProperty(t *testing.T) {
	st, client := testdata.SeededStore(t)
	svc := newService(st)
	ctx := context.Background()

	// a single connection, so the pragma covers the orphan insert
	conn, err := client.DB.Conn(ctx)
	require.NoError(t, err)
	_, err = conn.ExecContext(ctx, "PRAGMA foreign_keys = OFF")
	require.NoError(t, err)
	res, err := conn.ExecContext(ctx,
		"INSERT INTO Deals (contact_id, property_id, deal_type, status, created_date) VALUES (1, 999, 'Sale', 'Active', ?)",
		testdata.DaysAgo(2))
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	_, err = conn.ExecContext(ctx, "PRAGMA foreign_keys = ON")
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	_, err = svc.PredictCloseProbability(ctx, id)
	assert.True(t, domain.IsNotFound(err))
}

func TestCreate(t *testing.T) {
	st, _ := testdata.SeededStore(t)
	svc := newService(st)
	ctx := context.Background()

	err := svc.Create(ctx, &models.Deal{ContactID: 99, PropertyID: 1, DealType: "Sale"})
	assert.True(t, domain.IsNotFound(err))

	err = svc.Create(ctx, &models.Deal{ContactID: 1, PropertyID: 99, DealType: "Sale"})
	assert.True(t, domain.IsNotFound(err))

	d := &models.Deal{ContactID: 2, PropertyID: 2, DealType: "Rental"}
	require.NoError(t, svc.Create(ctx, d))
	assert.Equal(t, "Active", d.Status)
	assert.Equal(t, "2025-06-15T12:00:00Z", d.CreatedDate)
}

func TestUpdateStatus(t *testing.T) {
	st, _ := testdata.SeededStore(t)
	notifier := &recordingNotifier{err: errors.New("slack down")}
	svc := newService(st).WithNotifier(notifier)
	ctx := context.Background()

	d := &models.Deal{ContactID: 2, PropertyID: 2, DealType: "Sale", DealValue: 3200000, Commission: 64000}
	require.NoError(t, svc.Create(ctx, d))

	updated, err := svc.UpdateStatus(ctx, d.ID, "Negotiation")
	require.NoError(t, err)
	assert.Equal(t, "Negotiation", updated.Status)
	assert.Empty(t, notifier.closed)

	updated, err = svc.UpdateStatus(ctx, d.ID, store.DealStatusClosed)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-15T12:00:00Z", updated.ClosingDate)
	assert.Equal(t, []int64{d.ID}, notifier.closed)

	_, err = svc.UpdateStatus(ctx, 999, "Closed")
	assert.True(t, domain.IsNotFound(err))

	_, err = svc.UpdateStatus(ctx, d.ID, "")
	assert.True(t, domain.IsValidation(err))
}
