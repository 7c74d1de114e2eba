package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/realtyaura/aura/pkg/ai/llm"
	"github.com/realtyaura/aura/pkg/analytics"
	"github.com/realtyaura/aura/pkg/domain"
	"github.com/realtyaura/aura/pkg/followup"
	"github.com/realtyaura/aura/pkg/knowledge"
	"github.com/realtyaura/aura/pkg/matching"
	"github.com/realtyaura/aura/pkg/models"
	"github.com/realtyaura/aura/pkg/store"
)

const (
	followUpItems  = 5
	topLeads       = 5
	buyerItems     = 3
	searchLimit    = 5
	recentListings = 5
	taskTitleLen   = 100
	taskDueDays    = 7
)

var (
	taskPhrases   = regexp.MustCompile(`(?i)create task|add task`)
	searchPhrases = regexp.MustCompile(`(?i)find property|search property`)

	marketAreas = map[string]bool{
		"downtown": true, "marina": true, "palm": true, "jumeirah": true,
		"deira": true, "bur": true, "dubai": true,
	}

	searchStopWords = map[string]bool{
		"find": true, "search": true, "property": true, "properties": true,
		"for": true, "in": true, "at": true, "the": true, "a": true, "an": true,
		"me": true, "show": true, "with": true, "any": true, "some": true,
	}
)

func (r *Router) mentionedProperties(ctx context.Context, message string) ([]knowledge.PropertyRef, error) {
	units, err := r.Store.PropertyUnits(ctx)
	if err != nil {
		return nil, err
	}
	return knowledge.FindProperties(message, units), nil
}

func (r *Router) findOwner(ctx context.Context, message string) (string, error) {
	refs, err := r.mentionedProperties(ctx, message)
	if err != nil {
		return "", err
	}
	if len(refs) == 0 {
		return "I couldn't identify a specific property in your query. Please provide the building name and unit number.", nil
	}

	lines := make([]string, 0, len(refs))
	for _, ref := range refs {
		p, err := r.Store.FindPropertyByUnit(ctx, ref.Building, ref.Unit)
		if domain.IsNotFound(err) {
			lines = append(lines, "No owner found for "+ref.Label())
			continue
		}
		if err != nil {
			return "", err
		}

		owners, err := r.Store.ContactsRelatedTo(ctx, p.ID, models.RelationshipOwner)
		if err != nil {
			return "", err
		}
		if len(owners) == 0 {
			lines = append(lines, "No owner found for "+p.Label())
			continue
		}
		o := owners[0]
		lines = append(lines, fmt.Sprintf("Owner of %s: %s (%s, %s)", p.Label(), o.Name, o.Email, o.Phone))
	}
	return strings.Join(lines, "\n"), nil
}

func (r *Router) createTask(ctx context.Context, message string) (string, error) {
	desc := strings.Trim(taskPhrases.ReplaceAllString(message, ""), " \t:-")
	if desc == "" {
		return "Please provide a task description.", nil
	}

	title := desc
	if runes := []rune(desc); len(runes) > taskTitleLen {
		title = string(runes[:taskTitleLen])
	}

	task := &models.Task{
		Title:       title,
		Description: desc,
		Status:      models.TaskPending,
		DueDate:     models.FormatTimestamp(r.Store.Now().AddDate(0, 0, taskDueDays)),
	}
	if err := r.Store.CreateTask(ctx, task); err != nil {
		return "", err
	}
	r.Logger.Info("task created from chat", "task_id", task.ID)
	return fmt.Sprintf("Task created successfully: '%s'", title), nil
}

func (r *Router) followUps(ctx context.Context, _ string) (string, error) {
	due, err := r.FollowUps.FollowUpsDue(ctx)
	if err != nil {
		return "", err
	}
	return followup.FormatFollowUps(due, followUpItems), nil
}

func (r *Router) leadScores(ctx context.Context, _ string) (string, error) {
	return r.Leads.TopLeadsSummary(ctx, topLeads)
}

func (r *Router) findBuyers(ctx context.Context, message string) (string, error) {
	refs, err := r.mentionedProperties(ctx, message)
	if err != nil {
		return "", err
	}
	if len(refs) == 0 {
		return "Please specify a property to find buyers for.", nil
	}

	ref := refs[0]
	property, matches, err := r.Matching.MatchBuyersForUnit(ctx, ref.Building, ref.Unit)
	if domain.IsNotFound(err) {
		return fmt.Sprintf("Property %s not found in database.", ref.Label()), nil
	}
	if err != nil {
		return "", err
	}
	return matching.FormatMatches(property, matches, buyerItems), nil
}

func (r *Router) searchProperties(ctx context.Context, message string) (string, error) {
	term := strings.TrimSpace(searchPhrases.ReplaceAllString(message, ""))

	results, err := r.Store.ListProperties(ctx, store.PropertyFilter{Query: term, Limit: searchLimit})
	if err != nil {
		return "", err
	}
	// Fall back to the first meaningful word that matches anything.
	if len(results) == 0 {
		for _, w := range strings.Fields(term) {
			w = strings.Trim(w, ".,?!'\"")
			if len(w) < 3 || searchStopWords[strings.ToLower(w)] {
				continue
			}
			if results, err = r.Store.ListProperties(ctx, store.PropertyFilter{Query: w, Limit: searchLimit}); err != nil {
				return "", err
			}
			if len(results) > 0 {
				term = w
				break
			}
		}
	}

	if len(results) == 0 {
		return fmt.Sprintf("No properties found matching '%s'", term), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Properties matching '%s':\n\n", term)
	for _, p := range results {
		fmt.Fprintf(&b, "• %s - %s (%s) - %dBR/%dBA - %s\n",
			p.Label(), p.Area, p.PropertyType, p.Bedrooms, p.Bathrooms, analytics.FormatAED(p.Price))
	}
	return b.String(), nil
}

// marketArea returns the first known area word in message
func marketArea(message string) string {
	for _, w := range strings.Fields(message) {
		w = strings.Trim(w, ".,?!'\"")
		if marketAreas[strings.ToLower(w)] {
			return w
		}
	}
	return ""
}

func (r *Router) marketAnalysis(ctx context.Context, message string) (string, error) {
	mi, err := r.Analytics.MarketInsights(ctx, marketArea(message))
	if err != nil {
		return "", err
	}
	return analytics.FormatMarket(mi), nil
}

func (r *Router) performance(ctx context.Context, _ string) (string, error) {
	pm, err := r.Analytics.PerformanceMetrics(ctx)
	if err != nil {
		return "", err
	}
	return analytics.FormatPerformance(pm), nil
}

func (r *Router) briefing(ctx context.Context, _ string) (string, error) {
	summary, err := r.FollowUps.DailySummary(ctx)
	if err != nil {
		return "", err
	}
	return followup.FormatBriefing(summary), nil
}

func (r *Router) ask(ctx context.Context, message string) (string, error) {
	if r.LLM == nil {
		return NoLLMReply, nil
	}

	dbContext, err := r.databaseContext(ctx)
	if err != nil {
		r.Logger.Warn("database context unavailable", "error", err)
		dbContext = "Database context unavailable."
	}

	kbContext := knowledge.NoContext
	if r.Knowledge != nil {
		if kbContext, err = r.Knowledge.RelevantContext(ctx, message); err != nil {
			r.Logger.Warn("knowledge context unavailable", "error", err)
			kbContext = knowledge.NoContext
		}
	}

	reply, err := r.LLM.Complete(ctx, llm.AssistantPrompt(dbContext, kbContext, message), llm.AssistantSystemPrompt)
	r.Metrics.RecordLLMRequest(r.LLM.Provider(), err)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		return "I couldn't generate a response for that query.", nil
	}
	return reply, nil
}

func (r *Router) databaseContext(ctx context.Context) (string, error) {
	sum, err := r.Store.Summary(ctx, recentListings)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Database Summary:\n")
	fmt.Fprintf(&b, "- Total Properties: %d\n", sum.Properties)
	fmt.Fprintf(&b, "- Total Contacts: %d\n", sum.Contacts)
	fmt.Fprintf(&b, "- Active Deals: %d\n", sum.ActiveDeals)
	fmt.Fprintf(&b, "- Pending Tasks: %d\n\n", sum.PendingTasks)
	b.WriteString("Recent Properties:\n")
	for _, p := range sum.RecentProperties {
		fmt.Fprintf(&b, "- %s in %s - %s\n", p.Label(), p.Area, analytics.FormatAED(p.Price))
	}
	return b.String(), nil
}
