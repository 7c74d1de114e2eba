package followup

import (
	"fmt"
	"strings"

	"github.com/realtyaura/aura/pkg/scoring"
)

// FormatFollowUps renders the n most urgent follow-ups as chat text
func FormatFollowUps(due []scoring.FollowUp, n int) string {
	if len(due) == 0 {
		return "You're all caught up! No follow-ups needed at this time."
	}

	var b strings.Builder
	b.WriteString("Here are your follow-up tasks:\n\n")
	for _, f := range due[:min(n, len(due))] {
		fmt.Fprintf(&b, "• %s (%s lead) - %d days overdue\n", f.Name, f.Status, f.DaysOverdue)
	}
	return b.String()
}

// FormatBriefing renders a daily summary as chat text
func FormatBriefing(s *DailySummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Daily Briefing for %s:\n\n", s.Date)
	b.WriteString(s.SummaryMessage + "\n\n")

	if len(s.UrgentFollowUps) > 0 {
		b.WriteString("Urgent Follow-ups:\n")
		for _, f := range s.UrgentFollowUps {
			fmt.Fprintf(&b, "• %s (%s lead) - %d days overdue\n", f.Name, f.Status, f.DaysOverdue)
		}
		b.WriteString("\n")
	}

	if len(s.UrgentOverdueTasks) > 0 {
		b.WriteString("Overdue Tasks:\n")
		for _, t := range s.UrgentOverdueTasks {
			fmt.Fprintf(&b, "• %s - %d days overdue\n", t.Title, t.DaysOverdue)
		}
		b.WriteString("\n")
	}

	if len(s.TodaysViewings) > 0 {
		b.WriteString("Today's Viewings:\n")
		for _, v := range s.TodaysViewings {
			fmt.Fprintf(&b, "• %s - %s\n", v.ContactName, v.Property)
		}
	}
	return b.String()
}
