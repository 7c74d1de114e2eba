package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/realtyaura/aura/pkg/models"
)

func TestPredictClose(t *testing.T) {
	e := newTestEngine(t)

	t.Run("Hot referral clamps to 100", func(t *testing.T) {
		p := e.PredictClose(
			models.Deal{ID: 1, CreatedDate: daysAgo(2)},
			models.Contact{LeadStatus: models.StatusHot, Source: "Referral", LastContactedDate: daysAgo(1)},
		)

		assert.Equal(t, 100.0, p.Probability)
		assert.Equal(t, "Very High", p.ConfidenceLevel)
		assert.Equal(t, map[string]int{
			FactorDealStatus:    30,
			FactorDealSource:    20,
			FactorDealAge:       10,
			FactorRecentContact: 15,
		}, p.Factors)
		assert.Equal(t, []string{"Deal progressing well - maintain current momentum"}, p.Recommendations)
	})

	t.Run("Stale cold deal is at risk", func(t *testing.T) {
		p := e.PredictClose(
			models.Deal{ID: 2, CreatedDate: daysAgo(90)},
			models.Contact{LeadStatus: models.StatusCold, Source: "Cold Call"},
		)

		// 50 - 20 - 10 - 20 - 10 = -10
		assert.Equal(t, 0.0, p.Probability)
		assert.Equal(t, "Very Low", p.ConfidenceLevel)
		assert.Equal(t, -10, p.Factors[FactorRecentContact])
		assert.Equal(t, []string{
			"Deal at risk - immediate action required",
			"Contact the client immediately - communication gap detected",
			"Deal aging - create urgency or address concerns",
			"Lead status needs improvement - provide more value",
		}, p.Recommendations)
	})

	t.Run("Unparseable created date has no age impact", func(t *testing.T) {
		p := e.PredictClose(
			models.Deal{ID: 3, CreatedDate: "soon"},
			models.Contact{LeadStatus: models.StatusWarm, Source: "Website", LastContactedDate: daysAgo(10)},
		)

		// 50 + 15 + 10 + 0 - 5
		assert.Equal(t, 70.0, p.Probability)
		assert.Equal(t, "High", p.ConfidenceLevel)
		assert.Equal(t, 0, p.Factors[FactorDealAge])
		assert.Equal(t, []string{"Contact the client immediately - communication gap detected"}, p.Recommendations)
	})

	t.Run("Moderate band", func(t *testing.T) {
		p := e.PredictClose(
			models.Deal{ID: 4, CreatedDate: daysAgo(45)},
			models.Contact{LeadStatus: "Unknown", Source: "Instagram", LastContactedDate: daysAgo(5)},
		)

		// 50 + 0 + 0 - 10 + 5
		assert.Equal(t, 45.0, p.Probability)
		assert.Equal(t, "Moderate", p.ConfidenceLevel)
		assert.Equal(t, []string{"Moderate risk - increase engagement efforts"}, p.Recommendations)
	})
}
