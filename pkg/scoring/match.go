package scoring

import (
	"sort"
	"strings"

	"github.com/realtyaura/aura/pkg/models"
)

// BuyerMatch rates a contact against a property
type BuyerMatch struct {
	ContactID  int64  `json:"contact_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Status     string `json:"status"`
	Notes      string `json:"notes"`
	MatchScore int    `json:"match_score"`
}

// MatchScore rates how well contact fits property
func (e *Engine) MatchScore(c models.Contact, p models.Property) int {
	mt := e.tables.Match
	score := mt.Base.Lookup(c.LeadStatus)

	notes := strings.ToLower(c.Notes)
	if kind := strings.ToLower(strings.TrimSpace(p.PropertyType)); kind != "" && strings.Contains(notes, kind) {
		score += mt.TypeBonus
	}
	if area := strings.ToLower(strings.TrimSpace(p.Area)); area != "" && strings.Contains(notes, area) {
		score += mt.AreaBonus
	}
	for _, k := range mt.UrgencyKeywords {
		if strings.Contains(notes, strings.ToLower(k)) {
			score += mt.UrgencyBonus
			break
		}
	}
	return int(score)
}

// MatchBuyers ranks every contact that does not own the property by
// descending match score, keeping input order among equals.
func (e *Engine) MatchBuyers(p models.Property, contacts []models.Contact, owners map[int64]bool) []BuyerMatch {
	out := make([]BuyerMatch, 0, len(contacts))
	for _, c := range contacts {
		if owners[c.ID] {
			continue
		}
		out = append(out, BuyerMatch{
			ContactID:  c.ID,
			Name:       c.Name,
			Email:      c.Email,
			Phone:      c.Phone,
			Status:     c.LeadStatus,
			Notes:      c.Notes,
			MatchScore: e.MatchScore(c, p),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchScore > out[j].MatchScore
	})
	return out
}
