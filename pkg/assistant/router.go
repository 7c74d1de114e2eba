// Package assistant answers chat messages. Recognised commands run against
// the record store; anything else goes to the configured language model.
package assistant

import (
	"context"
	"strings"

	"github.com/realtyaura/aura/pkg/ai/llm"
	"github.com/realtyaura/aura/pkg/analytics"
	"github.com/realtyaura/aura/pkg/domain"
	"github.com/realtyaura/aura/pkg/followup"
	"github.com/realtyaura/aura/pkg/knowledge"
	"github.com/realtyaura/aura/pkg/leadscoring"
	"github.com/realtyaura/aura/pkg/logger"
	"github.com/realtyaura/aura/pkg/matching"
	"github.com/realtyaura/aura/pkg/metrics"
	"github.com/realtyaura/aura/pkg/models"
	"github.com/realtyaura/aura/pkg/store"
)

// Route names the handler chosen for a message
type Route string

const (
	RouteOwner          Route = "owner"
	RouteCreateTask     Route = "create_task"
	RouteFollowUps      Route = "follow_ups"
	RouteLeadScores     Route = "lead_scores"
	RouteFindBuyers     Route = "find_buyers"
	RoutePropertySearch Route = "property_search"
	RouteMarket         Route = "market"
	RoutePerformance    Route = "performance"
	RouteBriefing       Route = "briefing"
	RouteLLM            Route = "llm"
)

// NoLLMReply is returned for free-form questions when no provider is configured
const NoLLMReply = "I'm sorry, but I'm currently unable to process your request. Please check that the Gemini API key is properly configured."

type rule struct {
	route Route
	match func(msg string) bool
}

func anyOf(phrases ...string) func(string) bool {
	return func(msg string) bool {
		for _, p := range phrases {
			if strings.Contains(msg, p) {
				return true
			}
		}
		return false
	}
}

func both(first string, rest func(string) bool) func(string) bool {
	return func(msg string) bool {
		return strings.Contains(msg, first) && rest(msg)
	}
}

// rules are checked in order; the first match wins
var rules = []rule{
	{RouteOwner, anyOf("who owns", "owner of")},
	{RouteCreateTask, anyOf("create task", "add task")},
	{RouteFollowUps, anyOf("follow up", "follow-up")},
	{RouteLeadScores, anyOf("lead score", "score leads")},
	{RouteFindBuyers, anyOf("find buyers", "matching buyers")},
	{RoutePropertySearch, both("property", anyOf("find", "search"))},
	{RouteMarket, both("market", anyOf("insight", "analysis"))},
	{RoutePerformance, anyOf("performance", "metrics")},
	{RouteBriefing, anyOf("briefing")},
}

// Classify picks the route for a message
func Classify(message string) Route {
	msg := strings.ToLower(message)
	for _, r := range rules {
		if r.match(msg) {
			return r.route
		}
	}
	return RouteLLM
}

// Deps are the services the router dispatches to
type Deps struct {
	Store     *store.Store
	FollowUps *followup.Service
	Leads     *leadscoring.Service
	Matching  *matching.Service
	Analytics *analytics.Service
	Knowledge *knowledge.Service
	// LLM is nil when no provider is configured
	LLM     llm.LLMClient
	Logger  logger.Logger
	Metrics *metrics.Metrics
}

// Router dispatches chat messages
type Router struct {
	Deps
	handlers map[Route]func(ctx context.Context, message string) (string, error)
}

// NewRouter creates a router over deps
func NewRouter(deps Deps) *Router {
	r := &Router{Deps: deps}
	r.handlers = map[Route]func(context.Context, string) (string, error){
		RouteOwner:          r.findOwner,
		RouteCreateTask:     r.createTask,
		RouteFollowUps:      r.followUps,
		RouteLeadScores:     r.leadScores,
		RouteFindBuyers:     r.findBuyers,
		RoutePropertySearch: r.searchProperties,
		RouteMarket:         r.marketAnalysis,
		RoutePerformance:    r.performance,
		RouteBriefing:       r.briefing,
		RouteLLM:            r.ask,
	}
	return r
}

// failures are the replies sent when a handler returns an error
var failures = map[Route]string{
	RouteOwner:          "Sorry, I encountered an error while searching for ownership information.",
	RouteCreateTask:     "Sorry, I couldn't create the task. Please try again.",
	RouteFollowUps:      "Sorry, I couldn't retrieve your follow-up tasks.",
	RouteLeadScores:     "Error calculating lead scores.",
	RouteFindBuyers:     "Sorry, I couldn't find potential buyers.",
	RoutePropertySearch: "Sorry, I couldn't search for properties.",
	RouteMarket:         "Sorry, I couldn't retrieve market analysis.",
	RoutePerformance:    "Sorry, I couldn't retrieve performance metrics.",
	RouteBriefing:       "Sorry, I couldn't generate your daily briefing.",
	RouteLLM:            "I'm having trouble processing that request right now. Please try rephrasing your question or contact support if the issue persists.",
}

// Handle answers message. Handler failures are logged and turned into an
// apology so the conversation continues; only an empty message is an error.
func (r *Router) Handle(ctx context.Context, message string) (*models.ChatResponse, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, domain.NewValidationError("Message is required")
	}

	route := Classify(message)
	r.Metrics.RecordChat(string(route))

	reply, err := r.handlers[route](ctx, message)
	if err != nil {
		r.Logger.Error("chat handler failed", "route", route, "error", err)
		reply = failures[route]
	}
	return &models.ChatResponse{Response: reply, Route: string(route)}, nil
}
