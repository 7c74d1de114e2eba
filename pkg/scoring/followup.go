package scoring

import (
	"math"
	"sort"

	"github.com/realtyaura/aura/pkg/models"
)

// FollowUp is a contact due for outreach
type FollowUp struct {
	ContactID         int64  `json:"contact_id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Status            string `json:"status"`
	LastContactedDate string `json:"last_contacted_date,omitempty"`
	DaysOverdue       int    `json:"days_overdue"`
	Priority          int    `json:"priority"`
}

// Interval returns the follow-up interval in days for status
func (e *Engine) Interval(status string) int {
	return int(e.tables.FollowUp.Intervals.Lookup(status))
}

// FollowUpPriority is the status base plus a capped bonus per elapsed day
func (e *Engine) FollowUpPriority(status string, daysOverdue int) int {
	ft := e.tables.FollowUp
	bonus := math.Min(float64(daysOverdue)*ft.PointsPerDay, ft.UrgencyCap)
	return int(ft.Base.Lookup(status) + bonus)
}

// DaysOverdue returns the days since the contact's reference date. A contact
// without a usable date is one day past its interval.
func (e *Engine) DaysOverdue(c models.Contact) int {
	if days, ok := e.daysSince(c.LastContactedDate, c.CreatedDate); ok {
		return days
	}
	return e.Interval(c.LeadStatus) + 1
}

// FollowUpsDue returns the contacts whose interval has elapsed, most urgent
// first. Equal priorities are ordered by days overdue, then input order.
func (e *Engine) FollowUpsDue(contacts []models.Contact) []FollowUp {
	out := make([]FollowUp, 0)
	for _, c := range contacts {
		days := e.DaysOverdue(c)
		if days < e.Interval(c.LeadStatus) {
			continue
		}
		out = append(out, FollowUp{
			ContactID:         c.ID,
			Name:              c.Name,
			Email:             c.Email,
			Phone:             c.Phone,
			Status:            c.LeadStatus,
			LastContactedDate: c.LastContactedDate,
			DaysOverdue:       days,
			Priority:          e.FollowUpPriority(c.LeadStatus, days),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].DaysOverdue > out[j].DaysOverdue
	})
	return out
}
