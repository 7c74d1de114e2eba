package scoring

import (
	"github.com/realtyaura/aura/pkg/models"
)

// Deal factor names
const (
	FactorDealStatus    = "lead_status"
	FactorDealSource    = "lead_source"
	FactorDealAge       = "deal_age"
	FactorRecentContact = "recent_contact"
)

// DealPrediction is the closing probability of a deal
type DealPrediction struct {
	DealID          int64          `json:"deal_id"`
	Probability     float64        `json:"probability"`
	Factors         map[string]int `json:"probability_factors"`
	ConfidenceLevel string         `json:"confidence_level"`
	Recommendations []string       `json:"recommendations"`
}

// PredictClose estimates how likely deal is to close given its contact.
// Every factor, including the missing-contact penalty, counts toward the total.
func (e *Engine) PredictClose(deal models.Deal, contact models.Contact) DealPrediction {
	dt := e.tables.Deal

	factors := map[string]int{
		FactorDealStatus: int(dt.Status.Lookup(contact.LeadStatus)),
		FactorDealSource: int(dt.Source.Lookup(contact.Source)),
		FactorDealAge:    0,
	}
	if days, ok := e.daysSince(deal.CreatedDate); ok {
		factors[FactorDealAge] = int(dt.Age.At(days))
	}
	if days, ok := e.daysSince(contact.LastContactedDate); ok {
		factors[FactorRecentContact] = int(dt.Contact.At(days))
	} else {
		factors[FactorRecentContact] = int(dt.ContactMissing)
	}

	total := dt.Base
	for _, v := range factors {
		total += float64(v)
	}
	total = round1(clamp(total, 0, 100))

	return DealPrediction{
		DealID:          deal.ID,
		Probability:     total,
		Factors:         factors,
		ConfidenceLevel: e.ConfidenceLevel(total),
		Recommendations: dealRecommendations(total, factors),
	}
}

// ConfidenceLevel labels a probability
func (e *Engine) ConfidenceLevel(probability float64) string {
	return e.tables.Deal.Confidence.Label(probability)
}

func dealRecommendations(probability float64, factors map[string]int) []string {
	var recs []string
	switch {
	case probability < 40:
		recs = append(recs, "Deal at risk - immediate action required")
	case probability < 60:
		recs = append(recs, "Moderate risk - increase engagement efforts")
	}
	if factors[FactorRecentContact] < 0 {
		recs = append(recs, "Contact the client immediately - communication gap detected")
	}
	if factors[FactorDealAge] < -10 {
		recs = append(recs, "Deal aging - create urgency or address concerns")
	}
	if factors[FactorDealStatus] < 0 {
		recs = append(recs, "Lead status needs improvement - provide more value")
	}
	if len(recs) == 0 {
		recs = append(recs, "Deal progressing well - maintain current momentum")
	}
	return recs
}
