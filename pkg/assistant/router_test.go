package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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
	"github.com/realtyaura/aura/pkg/scoring"
	"github.com/realtyaura/aura/pkg/store"
	"github.com/realtyaura/aura/pkg/testdata"
)

type fakeLLM struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeLLM) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	return &llm.ChatResponse{Message: f.reply}, f.err
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string, systemPrompt ...string) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

func (f *fakeLLM) CountTokens(text string) int { return len(text) / 4 }

func (f *fakeLLM) Provider() string { return "fake" }

func newRouter(t *testing.T, client llm.LLMClient) (*Router, *store.Store, *metrics.Metrics) {
	t.Helper()
	st, _ := testdata.SeededStore(t)
	log := logger.NewNop()
	engine := scoring.MustNewEngine(scoring.DefaultTables()).WithClock(testdata.Clock)
	m := metrics.New(prometheus.NewRegistry())

	r := NewRouter(Deps{
		Store:     st,
		FollowUps: followup.NewService(st, engine, log),
		Leads:     leadscoring.NewService(st, engine, log),
		Matching:  matching.NewService(st, engine, log),
		Analytics: analytics.NewService(st, log),
		Knowledge: knowledge.NewService(st, t.TempDir(), log),
		LLM:       client,
		Logger:    log,
		Metrics:   m,
	})
	return r, st, m
}

func TestClassify(t *testing.T) {
	tests := []struct {
		message string
		want    Route
	}{
		{"Who owns Palm Tower 3401?", RouteOwner},
		{"who is the owner of Golden Mile 2106", RouteOwner},
		{"Create task call Lisa tomorrow", RouteCreateTask},
		{"please ADD TASK: send brochure", RouteCreateTask},
		{"Who do I need to follow up with?", RouteFollowUps},
		{"show follow-ups and lead scores", RouteFollowUps},
		{"What are my lead scores?", RouteLeadScores},
		{"score leads now", RouteLeadScores},
		{"find buyers for Marina Residences 1205", RouteFindBuyers},
		{"any matching buyers for Garden Homes Villa A15", RouteFindBuyers},
		{"find property in Marina", RoutePropertySearch},
		{"search property villa with the best performance", RoutePropertySearch},
		{"market insights for Downtown", RouteMarket},
		{"give me a market analysis", RouteMarket},
		{"how is my performance", RoutePerformance},
		{"show metrics", RoutePerformance},
		{"daily briefing please", RouteBriefing},
		{"what is the market like?", RouteLLM},
		{"Which property should I find time for?", RoutePropertySearch},
		{"Draft a note for Sarah", RouteLLM},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.message))
		})
	}
}

func TestHandleEmptyMessage(t *testing.T) {
	r, _, _ := newRouter(t, nil)
	_, err := r.Handle(context.Background(), "   ")
	assert.True(t, domain.IsValidation(err))
}

func TestOwnerLookup(t *testing.T) {
	r, _, m := newRouter(t, nil)
	ctx := context.Background()

	resp, err := r.Handle(ctx, "Who owns Palm Tower 3401?")
	require.NoError(t, err)
	assert.Equal(t, string(RouteOwner), resp.Route)
	assert.Equal(t, "Owner of Palm Tower Unit 3401: Ahmed Al Rashid (ahmed.rashid@email.com, +971501234567)", resp.Response)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChatRequests.WithLabelValues("owner")))

	resp, err = r.Handle(ctx, "who is the owner of Golden Mile 2106")
	require.NoError(t, err)
	assert.Equal(t, "No owner found for Golden Mile Unit 2106", resp.Response)

	resp, err = r.Handle(ctx, "who owns the big house?")
	require.NoError(t, err)
	assert.Contains(t, resp.Response, "couldn't identify a specific property")
}

func TestCreateTask(t *testing.T) {
	r, st, _ := newRouter(t, nil)
	ctx := context.Background()

	resp, err := r.Handle(ctx, "Create task: call Lisa about the Golden Mile offer")
	require.NoError(t, err)
	assert.Equal(t, "Task created successfully: 'call Lisa about the Golden Mile offer'", resp.Response)

	tasks, err := st.ListTasks(ctx, store.TaskFilter{})
	require.NoError(t, err)
	last := tasks[len(tasks)-1]
	assert.Equal(t, "call Lisa about the Golden Mile offer", last.Title)
	assert.Equal(t, models.TaskPending, last.Status)
	due, ok := models.ParseTimestamp(last.DueDate)
	require.True(t, ok)
	assert.Equal(t, testdata.Now.AddDate(0, 0, 7), due)

	long := "add task " + strings.Repeat("x", 150)
	resp, err = r.Handle(ctx, long)
	require.NoError(t, err)
	assert.Equal(t, "Task created successfully: '"+strings.Repeat("x", 100)+"'", resp.Response)

	resp, err = r.Handle(ctx, "add task")
	require.NoError(t, err)
	assert.Equal(t, "Please provide a task description.", resp.Response)
}

func TestFindBuyers(t *testing.T) {
	r, _, _ := newRouter(t, nil)
	ctx := context.Background()

	resp, err := r.Handle(ctx, "find buyers for Palm Tower 3401")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.Response, "Potential buyers for Palm Tower Unit 3401:\n\n• Lisa Chen (Hot lead) - lisa.chen@email.com\n"))
	assert.Equal(t, 3, strings.Count(resp.Response, "•"))

	resp, err = r.Handle(ctx, "find buyers for something nice")
	require.NoError(t, err)
	assert.Equal(t, "Please specify a property to find buyers for.", resp.Response)
}

func TestPropertySearch(t *testing.T) {
	r, _, _ := newRouter(t, nil)
	ctx := context.Background()

	resp, err := r.Handle(ctx, "find property in Marina")
	require.NoError(t, err)
	assert.Equal(t, "Properties matching 'Marina':\n\n• Marina Residences Unit 1205 - Palm Jumeirah (Apartment) - 3BR/3BA - AED 3,200,000\n", resp.Response)

	resp, err = r.Handle(ctx, "search property villa")
	require.NoError(t, err)
	assert.Contains(t, resp.Response, "Properties matching 'villa':")
	assert.Contains(t, resp.Response, "Garden Homes Unit Villa A15")

	resp, err = r.Handle(ctx, "search property helipad")
	require.NoError(t, err)
	assert.Equal(t, "No properties found matching 'helipad'", resp.Response)
}

func TestReportRoutes(t *testing.T) {
	r, _, _ := newRouter(t, nil)
	ctx := context.Background()

	tests := []struct {
		message string
		route   Route
		prefix  string
	}{
		{"market analysis for Palm", RouteMarket, "Market Analysis for Palm:\n\nTotal Properties: 4\nAverage Price: AED 4,100,000"},
		{"market insights", RouteMarket, "Market Analysis for Overall Market:"},
		{"how is my performance", RoutePerformance, "Performance Summary:\n\n• Active Deals: 0"},
		{"daily briefing", RouteBriefing, "Daily Briefing for 2025-06-15:"},
		{"what are my lead scores", RouteLeadScores, "Lead Scoring Results (Top 5):"},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			resp, err := r.Handle(ctx, tt.message)
			require.NoError(t, err)
			assert.Equal(t, string(tt.route), resp.Route)
			assert.True(t, strings.HasPrefix(resp.Response, tt.prefix), resp.Response)
		})
	}
}

func TestFollowUpRoute(t *testing.T) {
	r, st, _ := newRouter(t, nil)
	ctx := context.Background()

	stale := &models.Contact{Name: "Omar", LeadStatus: models.StatusHot, LastContactedDate: testdata.DaysAgo(4)}
	require.NoError(t, st.CreateContact(ctx, stale))

	resp, err := r.Handle(ctx, "who needs a follow up?")
	require.NoError(t, err)
	assert.Contains(t, resp.Response, "• Omar (Hot lead) - 4 days overdue")
}

func TestLLMFallback(t *testing.T) {
	ctx := context.Background()

	t.Run("no provider configured", func(t *testing.T) {
		r, _, _ := newRouter(t, nil)
		resp, err := r.Handle(ctx, "What should I focus on this week?")
		require.NoError(t, err)
		assert.Equal(t, string(RouteLLM), resp.Route)
		assert.Equal(t, NoLLMReply, resp.Response)
	})

	t.Run("prompt carries database and knowledge context", func(t *testing.T) {
		fake := &fakeLLM{reply: "Focus on Lisa Chen."}
		r, _, m := newRouter(t, fake)
		_, err := r.Knowledge.Upload(ctx, "notes.txt", strings.NewReader("Lisa wants to focus on Golden Mile 2106"))
		require.NoError(t, err)

		resp, err := r.Handle(ctx, "focus")
		require.NoError(t, err)
		assert.Equal(t, "Focus on Lisa Chen.", resp.Response)

		assert.Contains(t, fake.prompt, "- Total Properties: 5")
		assert.Contains(t, fake.prompt, "- Pending Tasks: 4")
		assert.Contains(t, fake.prompt, "- Garden Homes Unit Villa A15 in Palm Jumeirah - AED 8,500,000")
		assert.Contains(t, fake.prompt, "Document: notes.txt")
		assert.Contains(t, fake.prompt, "User Query: focus")
		assert.Equal(t, 1.0, testutil.ToFloat64(m.LLMRequests.WithLabelValues("fake", "success")))
	})

	t.Run("provider failure", func(t *testing.T) {
		fake := &fakeLLM{err: errors.New("quota exceeded")}
		r, _, m := newRouter(t, fake)
		resp, err := r.Handle(ctx, "Summarise my week")
		require.NoError(t, err)
		assert.Equal(t, failures[RouteLLM], resp.Response)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.LLMRequests.WithLabelValues("fake", "failed")))
	})

	t.Run("empty reply", func(t *testing.T) {
		r, _, _ := newRouter(t, &fakeLLM{reply: "  "})
		resp, err := r.Handle(ctx, "Summarise my week")
		require.NoError(t, err)
		assert.Equal(t, "I couldn't generate a response for that query.", resp.Response)
	})
}
