package store

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realtyaura/aura/pkg/database"
	"github.com/realtyaura/aura/pkg/domain"
	"github.com/realtyaura/aura/pkg/logger"
	"github.com/realtyaura/aura/pkg/models"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func setupTestStore(t *testing.T) (*Store, *database.Client) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	client, err := database.NewClient(context.Background(), "file:"+name+"?mode=memory&cache=shared", logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return New(client).WithClock(func() time.Time { return testNow }), client
}

func TestContacts(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	c := &models.Contact{Name: "Ahmed", Email: "a@x.ae", LeadStatus: models.StatusHot, Source: "Referral", Notes: "urgent buyer"}
	require.NoError(t, s.CreateContact(ctx, c))
	assert.NotZero(t, c.ID)
	assert.Equal(t, "2025-06-15T12:00:00Z", c.CreatedDate)

	t.Run("Success - get", func(t *testing.T) {
		got, err := s.GetContact(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ahmed", got.Name)
		assert.Empty(t, got.LastContactedDate)
	})

	t.Run("Not found", func(t *testing.T) {
		_, err := s.GetContact(ctx, 999)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("Success - mark contacted", func(t *testing.T) {
		require.NoError(t, s.MarkContacted(ctx, c.ID))
		got, err := s.GetContact(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "2025-06-15T12:00:00Z", got.LastContactedDate)
		assert.True(t, domain.IsNotFound(s.MarkContacted(ctx, 999)))
	})

	t.Run("Success - update and filter", func(t *testing.T) {
		require.NoError(t, s.UpdateContact(ctx, c.ID, map[string]any{"lead_status": models.StatusWarm}))
		warm, err := s.ListContacts(ctx, ContactFilter{Status: models.StatusWarm})
		require.NoError(t, err)
		require.Len(t, warm, 1)

		byNote, err := s.ListContacts(ctx, ContactFilter{Query: "URGENT"})
		require.NoError(t, err)
		assert.Len(t, byNote, 1)
	})

	t.Run("Success - import in one transaction", func(t *testing.T) {
		n, err := s.ImportContacts(ctx, []models.Contact{
			{Name: "Bea", LeadStatus: models.StatusCold},
			{Name: "Cal", LeadStatus: models.StatusWarm},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		counts, err := s.CountContactsByStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"Warm": 2, "Cold": 1}, counts)
	})
}

func TestRelationshipsAndTasks(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	owner := &models.Contact{Name: "Owner", LeadStatus: models.StatusHot}
	buyer := &models.Contact{Name: "Buyer", LeadStatus: models.StatusWarm}
	require.NoError(t, s.CreateContact(ctx, owner))
	require.NoError(t, s.CreateContact(ctx, buyer))
	prop := &models.Property{Building: "Palm Tower", Unit: "3401", Area: "Palm Jumeirah", PropertyType: "Apartment", Price: 2500000}
	require.NoError(t, s.CreateProperty(ctx, prop))
	assert.Equal(t, "Available", prop.Status)

	require.NoError(t, s.LinkContactProperty(ctx, owner.ID, prop.ID, models.RelationshipOwner))
	require.NoError(t, s.LinkContactProperty(ctx, buyer.ID, prop.ID, models.RelationshipInterested))
	// relinking is an upsert
	require.NoError(t, s.LinkContactProperty(ctx, buyer.ID, prop.ID, models.RelationshipInterested))

	t.Run("Success - owners of property", func(t *testing.T) {
		owners, err := s.ContactsRelatedTo(ctx, prop.ID, models.RelationshipOwner)
		require.NoError(t, err)
		require.Len(t, owners, 1)
		assert.Equal(t, owner.ID, owners[0].ID)
	})

	t.Run("Success - relationship counts", func(t *testing.T) {
		counts, err := s.RelationshipCounts(ctx, models.RelationshipInterested, models.RelationshipViewingScheduled)
		require.NoError(t, err)
		assert.Equal(t, map[int64]int{buyer.ID: 1}, counts)
	})

	t.Run("Success - schedule viewing is atomic", func(t *testing.T) {
		task := &models.Task{
			Title:      "Property viewing scheduled",
			Status:     models.TaskScheduled,
			Priority:   "High",
			ContactID:  &buyer.ID,
			PropertyID: &prop.ID,
			DueDate:    "2025-06-15 16:00:00",
		}
		require.NoError(t, s.ScheduleViewing(ctx, task))
		assert.Equal(t, "2025-06-15T16:00:00Z", task.DueDate)

		viewings, err := s.ViewingsOn(ctx, "2025-06-15")
		require.NoError(t, err)
		require.Len(t, viewings, 1)
		assert.Equal(t, "Buyer", viewings[0].ContactName)
		assert.Equal(t, "Palm Tower Unit 3401", viewings[0].Property)

		rels, err := s.ListRelationships(ctx, prop.ID)
		require.NoError(t, err)
		assert.Len(t, rels, 3)
	})

	t.Run("Success - overdue and open counts", func(t *testing.T) {
		late := &models.Task{Title: "Send CMA", ContactID: &owner.ID, DueDate: "2025-06-01"}
		done := &models.Task{Title: "Old call", ContactID: &owner.ID, DueDate: "2025-05-01"}
		require.NoError(t, s.CreateTask(ctx, late))
		require.NoError(t, s.CreateTask(ctx, done))
		require.NoError(t, s.CompleteTask(ctx, done.ID))

		overdue, err := s.OverdueTasks(ctx)
		require.NoError(t, err)
		require.Len(t, overdue, 1)
		assert.Equal(t, "Send CMA", overdue[0].Title)
		assert.Equal(t, "Owner", overdue[0].ContactName)

		open, err := s.OpenTaskCounts(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, open[owner.ID])
		assert.Equal(t, 1, open[buyer.ID])
	})

	t.Run("Success - unlink", func(t *testing.T) {
		require.NoError(t, s.UnlinkContactProperty(ctx, buyer.ID, prop.ID, models.RelationshipInterested))
		err := s.UnlinkContactProperty(ctx, buyer.ID, prop.ID, models.RelationshipInterested)
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestReplaceScores(t *testing.T) {
	s, client := setupTestStore(t)
	ctx := context.Background()

	var ids []int64
	for _, name := range []string{"A", "B", "C"} {
		c := &models.Contact{Name: name, LeadStatus: models.StatusCold}
		require.NoError(t, s.CreateContact(ctx, c))
		ids = append(ids, c.ID)
	}

	first := []models.ScoreRecord{
		{ContactID: ids[0], Score: 50, Breakdown: map[string]float64{"lead_status": 20}},
		{ContactID: ids[1], Score: 70},
		{ContactID: ids[2], Score: 10},
	}
	require.NoError(t, s.ReplaceScores(ctx, first))

	t.Run("Success - rerun overwrites in place", func(t *testing.T) {
		second := []models.ScoreRecord{
			{ContactID: ids[0], Score: 90, Breakdown: map[string]float64{"lead_status": 100}},
			{ContactID: ids[1], Score: 70},
			{ContactID: ids[2], Score: 10},
		}
		require.NoError(t, s.ReplaceScores(ctx, second))

		scores, err := s.ListScores(ctx)
		require.NoError(t, err)
		require.Len(t, scores, 3)
		assert.Equal(t, ids[0], scores[0].ContactID)
		assert.Equal(t, 90.0, scores[0].Score)
		assert.Equal(t, 100.0, scores[0].Breakdown["lead_status"])
		assert.Equal(t, "2025-06-15T12:00:00Z", scores[0].LastCalculated)
	})

	t.Run("Failure mid-run leaves prior scores intact", func(t *testing.T) {
		_, err := client.DB.ExecContext(ctx, `CREATE TRIGGER fail_third BEFORE INSERT ON LeadScores
			WHEN NEW.contact_id = `+strconv.FormatInt(ids[2], 10)+` BEGIN SELECT RAISE(ABORT, 'boom'); END`)
		require.NoError(t, err)

		err = s.ReplaceScores(ctx, []models.ScoreRecord{
			{ContactID: ids[0], Score: 1},
			{ContactID: ids[1], Score: 1},
			{ContactID: ids[2], Score: 1},
		})
		require.Error(t, err)

		scores, err := s.ListScores(ctx)
		require.NoError(t, err)
		for _, sc := range scores {
			assert.NotEqual(t, 1.0, sc.Score, "contact %d was partially rewritten", sc.ContactID)
		}
	})
}

func TestInsights(t *testing.T) {
	s, client := setupTestStore(t)
	ctx := context.Background()
	_, err := client.Seed(ctx, testNow)
	require.NoError(t, err)

	t.Run("Success - market rows exclude sold units", func(t *testing.T) {
		rows, err := s.MarketRows(ctx, "palm")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Apartment", rows[0].PropertyType)
		assert.Equal(t, 3, rows[0].Count)
		assert.Equal(t, 2200000.0, rows[0].MinPrice)
		assert.Equal(t, "Villa", rows[1].PropertyType)

		none, err := s.MarketRows(ctx, "Deira")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("Success - database summary", func(t *testing.T) {
		sum, err := s.Summary(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, 5, sum.Properties)
		assert.Equal(t, 5, sum.Contacts)
		assert.Equal(t, 0, sum.ActiveDeals)
		assert.Equal(t, 4, sum.PendingTasks)
		require.Len(t, sum.RecentProperties, 2)
		assert.Equal(t, "Garden Homes", sum.RecentProperties[0].Building)
	})

	t.Run("Success - performance counts", func(t *testing.T) {
		require.NoError(t, s.CreateDeal(ctx, &models.Deal{ContactID: 1, PropertyID: 1, DealType: "Sale", DealValue: 1000, Commission: 20}))
		closed := &models.Deal{ContactID: 2, PropertyID: 2, DealType: "Sale", DealValue: 3000, Commission: 60}
		require.NoError(t, s.CreateDeal(ctx, closed))
		require.NoError(t, s.UpdateDealStatus(ctx, closed.ID, DealStatusClosed))

		pc, err := s.Performance(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, pc.ActiveDeals)
		assert.Equal(t, 1, pc.ClosedRecent)
		assert.Equal(t, 3000.0, pc.RevenueRecent)
		assert.Equal(t, 60.0, pc.CommissionRecent)
		assert.Equal(t, 1000.0, pc.PipelineValue)
		assert.Equal(t, 5, pc.TotalContacts)
		assert.Equal(t, 2, pc.ContactsWithDeals)
		assert.Equal(t, 3000.0, pc.AvgClosedDealValue)
		assert.Equal(t, 5, pc.TasksCreatedRecent)
	})

	t.Run("Success - template lookup by type", func(t *testing.T) {
		tpl, err := s.FindTemplate(ctx, "welcome")
		require.NoError(t, err)
		assert.Equal(t, "welcome_new_lead", tpl.TemplateName)

		_, err = s.FindTemplate(ctx, "missing")
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestKnowledgeDocuments(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	doc := &models.KnowledgeDocument{
		ContentType: "text",
		Title:       "notes.txt",
		Content:     "Palm Tower unit 3401 asking AED 2,500,000",
		SourceFile:  "notes.txt",
		Metadata:    map[string]any{"word_count": 7},
	}
	require.NoError(t, s.UpsertDocument(ctx, doc))
	firstID := doc.ID

	doc.Content = "Palm Tower unit 3401 reduced to AED 2,400,000"
	require.NoError(t, s.UpsertDocument(ctx, doc))
	assert.Equal(t, firstID, doc.ID)

	t.Run("Success - search requires every term", func(t *testing.T) {
		hits, err := s.SearchDocuments(ctx, []string{"palm", "reduced"}, 5)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, 7.0, hits[0].Metadata["word_count"])

		miss, err := s.SearchDocuments(ctx, []string{"palm", "villa"}, 5)
		require.NoError(t, err)
		assert.Empty(t, miss)
	})

	t.Run("Success - tags and stats", func(t *testing.T) {
		require.NoError(t, s.UpdateTags(ctx, firstID, []string{"listing", "palm"}))
		got, err := s.GetDocument(ctx, firstID)
		require.NoError(t, err)
		assert.Equal(t, []string{"listing", "palm"}, got.Tags)

		stats, err := s.KnowledgeStatistics(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.TotalItems)
		assert.Equal(t, 1, stats.ContentTypes["text"])
		assert.Equal(t, 1, stats.RecentAdditions)
	})
}
