package matching

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realtyaura/aura/pkg/domain"
	"github.com/realtyaura/aura/pkg/logger"
	"github.com/realtyaura/aura/pkg/scoring"
	"github.com/realtyaura/aura/pkg/testdata"
)

func newService(t *testing.T) *Service {
	t.Helper()
	st, _ := testdata.SeededStore(t)
	engine := scoring.MustNewEngine(scoring.DefaultTables()).WithClock(testdata.Clock)
	return NewService(st, engine, logger.NewNop())
}

func ids(matches []scoring.BuyerMatch) []int64 {
	out := make([]int64, len(matches))
	for i, m := range matches {
		out[i] = m.ContactID
	}
	return out
}

func TestMatchBuyers(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	t.Run("Success - owner excluded, status order", func(t *testing.T) {
		matches, err := svc.MatchBuyers(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []int64{4, 2, 5, 3}, ids(matches))
		assert.Equal(t, 100, matches[0].MatchScore)
	})

	t.Run("Success - notes lift a cold lead", func(t *testing.T) {
		err := svc.store.UpdateContact(ctx, 3, map[string]any{"notes": "Urgent: wants an apartment in Palm Jumeirah"})
		require.NoError(t, err)

		matches, err := svc.MatchBuyers(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []int64{4, 3, 2, 5}, ids(matches))
		assert.Equal(t, 75, matches[1].MatchScore)
	})

	t.Run("Failure - unknown property", func(t *testing.T) {
		_, err := svc.MatchBuyers(ctx, 404)
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestMatchBuyersForUnit(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	property, matches, err := svc.MatchBuyersForUnit(ctx, "garden homes", "Villa A15")
	require.NoError(t, err)
	assert.Equal(t, int64(5), property.ID)
	assert.NotContains(t, ids(matches), int64(5))

	text := FormatMatches(property, matches, 3)
	assert.Contains(t, text, "Potential buyers for Garden Homes Unit Villa A15:")
	assert.Contains(t, text, "• Ahmed Al Rashid (Hot lead) - ahmed.rashid@email.com")
	assert.NotContains(t, text, "Mohammed")

	_, _, err = svc.MatchBuyersForUnit(ctx, "Nowhere", "1")
	assert.True(t, domain.IsNotFound(err))
}

func TestFormatMatchesEmpty(t *testing.T) {
	assert.Equal(t, "No potential buyers found for this property.", FormatMatches(nil, nil, 3))
}
