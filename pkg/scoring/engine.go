// Package scoring computes lead scores, follow-up priorities, buyer matches
// and deal-closing probabilities. Every function is pure over its inputs;
// callers load the records and persist the results.
package scoring

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/realtyaura/aura/pkg/models"
)

// Engine evaluates records against a validated set of tables
type Engine struct {
	tables Tables
	now    func() time.Time
}

// NewEngine validates tables and returns an engine using the wall clock
func NewEngine(tables Tables) (*Engine, error) {
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	return &Engine{tables: tables, now: time.Now}, nil
}

// MustNewEngine is NewEngine for tables known to be valid
func MustNewEngine(tables Tables) *Engine {
	e, err := NewEngine(tables)
	if err != nil {
		panic(err)
	}
	return e
}

// WithClock returns a copy of the engine reading time from now
func (e *Engine) WithClock(now func() time.Time) *Engine {
	cp := *e
	cp.now = now
	return &cp
}

// Tables returns the engine's configuration
func (e *Engine) Tables() Tables {
	return e.tables
}

// LeadInput is one contact plus its engagement counts
type LeadInput struct {
	Contact models.Contact
	// InterestedOrViewing counts Interested and Viewing Scheduled links.
	InterestedOrViewing int
	OpenTasks           int
}

// LeadScore is the scored view of a contact
type LeadScore struct {
	ContactID      int64              `json:"contact_id"`
	Name           string             `json:"name"`
	Email          string             `json:"email"`
	Phone          string             `json:"phone"`
	LeadStatus     string             `json:"lead_status"`
	Source         string             `json:"source"`
	Score          float64            `json:"score"`
	Breakdown      map[string]float64 `json:"score_breakdown"`
	PriorityLevel  string             `json:"priority_level"`
	Recommendation string             `json:"recommendation"`
}

// Breakdown factor names
const (
	FactorLeadStatus = "lead_status"
	FactorSource     = "source"
	FactorRecency    = "recency"
	FactorEngagement = "engagement"
	FactorIntent     = "intent"
)

// ScoreLead scores a single contact
func (e *Engine) ScoreLead(in LeadInput) LeadScore {
	lt := e.tables.Lead
	c := in.Contact

	breakdown := map[string]float64{
		FactorLeadStatus: lt.Status.Lookup(c.LeadStatus),
		FactorSource:     lt.Source.Lookup(c.Source),
		FactorRecency:    e.RecencyScore(c.LastContactedDate, c.CreatedDate),
		FactorEngagement: e.EngagementScore(in.InterestedOrViewing, in.OpenTasks),
		FactorIntent:     e.IntentScore(c.Notes),
	}

	w := lt.Weights
	total := breakdown[FactorLeadStatus]*w.LeadStatus +
		breakdown[FactorSource]*w.Source +
		breakdown[FactorRecency]*w.Recency +
		breakdown[FactorEngagement]*w.Engagement +
		breakdown[FactorIntent]*w.Intent
	total = round1(total)

	return LeadScore{
		ContactID:      c.ID,
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		LeadStatus:     c.LeadStatus,
		Source:         c.Source,
		Score:          total,
		Breakdown:      breakdown,
		PriorityLevel:  e.PriorityLevel(total),
		Recommendation: leadRecommendation(total, breakdown),
	}
}

// ScoreLeads scores every input and orders the result by descending score,
// keeping input order among equal scores.
func (e *Engine) ScoreLeads(inputs []LeadInput) []LeadScore {
	out := make([]LeadScore, 0, len(inputs))
	for _, in := range inputs {
		out = append(out, e.ScoreLead(in))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// PriorityLevel maps a lead score to its tier
func (e *Engine) PriorityLevel(score float64) string {
	return e.tables.Lead.Tiers.Label(score)
}

// RecencyScore rates how recently a contact was reached. The reference is
// the last contact date, then the created date; with neither usable the
// score is the configured unknown value.
func (e *Engine) RecencyScore(lastContacted, created string) float64 {
	days, ok := e.daysSince(lastContacted, created)
	if !ok {
		return e.tables.Lead.RecencyUnknown
	}
	return e.tables.Lead.Recency.At(days)
}

// EngagementScore rewards property interest and open tasks, capped at 100
func (e *Engine) EngagementScore(interestedOrViewing, openTasks int) float64 {
	lt := e.tables.Lead
	v := float64(interestedOrViewing)*lt.InterestPoints + float64(openTasks)*lt.TaskPoints
	return math.Min(v, 100)
}

// IntentScore scans notes for buying signals and clamps to [0,100]
func (e *Engine) IntentScore(notes string) float64 {
	lt := e.tables.Lead
	if strings.TrimSpace(notes) == "" {
		return lt.IntentEmpty
	}
	lower := strings.ToLower(notes)
	score := lt.IntentBase
	for _, set := range []KeywordSet{lt.HighIntent, lt.MedIntent, lt.NegIntent} {
		for _, k := range set.Keywords {
			if strings.Contains(lower, strings.ToLower(k)) {
				score += set.Points
			}
		}
	}
	return clamp(score, 0, 100)
}

func leadRecommendation(total float64, breakdown map[string]float64) string {
	var recs []string
	switch {
	case total >= 80:
		recs = append(recs, "HIGH PRIORITY: Contact immediately")
	case total >= 60:
		recs = append(recs, "MEDIUM PRIORITY: Follow up within 24 hours")
	default:
		recs = append(recs, "LOW PRIORITY: Include in weekly follow-up cycle")
	}
	if breakdown[FactorRecency] < 40 {
		recs = append(recs, "Re-engagement needed - contact has gone cold")
	}
	if breakdown[FactorEngagement] < 30 {
		recs = append(recs, "Increase engagement - send property suggestions")
	}
	if breakdown[FactorIntent] > 70 {
		recs = append(recs, "High intent detected - prepare property options")
	}
	return strings.Join(recs, "; ")
}

// daysSince returns whole days elapsed since the first parseable timestamp
func (e *Engine) daysSince(candidates ...string) (int, bool) {
	for _, c := range candidates {
		if t, ok := models.ParseTimestamp(c); ok {
			return wholeDays(e.now().Sub(t)), true
		}
	}
	return 0, false
}

// wholeDays floors d to days, so a timestamp one hour in the future is -1.
func wholeDays(d time.Duration) int {
	return int(math.Floor(d.Hours() / 24))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
