package followup

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/realtyaura/aura/pkg/domain"
	"github.com/realtyaura/aura/pkg/email"
	"github.com/realtyaura/aura/pkg/logger"
	"github.com/realtyaura/aura/pkg/metrics"
	"github.com/realtyaura/aura/pkg/models"
	"github.com/realtyaura/aura/pkg/scoring"
	"github.com/realtyaura/aura/pkg/store"
)

const (
	// DefaultTemplate is used when DraftEmail is called without a key
	DefaultTemplate = "follow_up_hot"

	defaultSubject = "Follow-up"
	defaultBody    = "Hi {name},\n\nI wanted to follow up with you regarding your real estate needs.\n\nBest regards,\nYour Real Estate Agent"

	viewingTitle = "Property viewing scheduled"

	// urgentPriority is the follow-up priority above which a contact is
	// listed as urgent in the daily summary
	urgentPriority = 100
	summaryTop     = 3
)

// Mailer delivers drafted emails
type Mailer interface {
	Send(ctx context.Context, msg email.Message) error
}

// EmailDraft is a personalized follow-up email
type EmailDraft struct {
	ContactID int64  `json:"contact_id"`
	ToEmail   string `json:"to_email"`
	ToName    string `json:"to_name"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// OverdueTask is an open task past its due date
type OverdueTask struct {
	TaskID      int64  `json:"task_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
	ContactName string `json:"contact_name,omitempty"`
	Property    string `json:"property,omitempty"`
	DaysOverdue int    `json:"days_overdue"`
}

// Viewing is a viewing task due today
type Viewing struct {
	Title       string `json:"title"`
	ContactName string `json:"contact_name"`
	Property    string `json:"property"`
}

// DailySummary is the agent's start-of-day overview
type DailySummary struct {
	Date               string             `json:"date"`
	FollowUpsCount     int                `json:"follow_ups_count"`
	UrgentFollowUps    []scoring.FollowUp `json:"urgent_follow_ups"`
	OverdueTasksCount  int                `json:"overdue_tasks_count"`
	UrgentOverdueTasks []OverdueTask      `json:"urgent_overdue_tasks"`
	TodaysViewings     []Viewing          `json:"todays_viewings"`
	SummaryMessage     string             `json:"summary_message"`
}

// Service handles follow-up scheduling and outreach
type Service struct {
	store   *store.Store
	engine  *scoring.Engine
	mailer  Mailer
	writer  Writer
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewService creates a new follow-up service
func NewService(st *store.Store, engine *scoring.Engine, log logger.Logger) *Service {
	return &Service{store: st, engine: engine, logger: log}
}

// WithMailer enables SendFollowUpEmail
func (s *Service) WithMailer(m Mailer) *Service {
	s.mailer = m
	return s
}

// WithMetrics records the follow-up gauge on m
func (s *Service) WithMetrics(m *metrics.Metrics) *Service {
	s.metrics = m
	return s
}

// FollowUpsDue returns the contacts whose follow-up interval has elapsed,
// most urgent first.
func (s *Service) FollowUpsDue(ctx context.Context) ([]scoring.FollowUp, error) {
	contacts, err := s.store.ListContacts(ctx, store.ContactFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}
	due := s.engine.FollowUpsDue(contacts)
	s.metrics.RecordFollowUps(len(due))
	return due, nil
}

// MarkContacted records that the agent reached the contact now
func (s *Service) MarkContacted(ctx context.Context, contactID int64) error {
	if err := s.store.MarkContacted(ctx, contactID); err != nil {
		return err
	}
	s.logger.Debug("contact marked as contacted", "contact_id", contactID)
	return nil
}

// OverdueTasks returns open tasks past their due date, oldest first
func (s *Service) OverdueTasks(ctx context.Context) ([]OverdueTask, error) {
	details, err := s.store.OverdueTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load overdue tasks: %w", err)
	}

	now := s.store.Now()
	out := make([]OverdueTask, 0, len(details))
	for _, d := range details {
		days := 0
		if due, ok := models.ParseTimestamp(d.DueDate); ok {
			days = int(now.Sub(due).Hours() / 24)
		}
		out = append(out, OverdueTask{
			TaskID:      d.ID,
			Title:       d.Title,
			Description: d.Description,
			Priority:    d.Priority,
			DueDate:     d.DueDate,
			ContactName: d.ContactName,
			Property:    d.Property,
			DaysOverdue: days,
		})
	}
	return out, nil
}

// ScheduleViewing books a viewing: a Scheduled, High priority task due at
// viewingDate plus a Viewing Scheduled link between contact and property.
func (s *Service) ScheduleViewing(ctx context.Context, contactID, propertyID int64, viewingDate string) (*models.Task, error) {
	if _, ok := models.ParseTimestamp(viewingDate); !ok {
		return nil, domain.NewValidationError("viewing_date must be an ISO-8601 date")
	}
	if _, err := s.store.GetContact(ctx, contactID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetProperty(ctx, propertyID); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       viewingTitle,
		Description: fmt.Sprintf("Viewing scheduled for contact ID %d at property ID %d on %s", contactID, propertyID, viewingDate),
		Status:      models.TaskScheduled,
		Priority:    "High",
		ContactID:   &contactID,
		PropertyID:  &propertyID,
		DueDate:     viewingDate,
	}
	if err := s.store.ScheduleViewing(ctx, task); err != nil {
		s.logger.Error("failed to schedule viewing", "error", err, "contact_id", contactID, "property_id", propertyID)
		return nil, fmt.Errorf("failed to schedule viewing: %w", err)
	}

	s.logger.Info("viewing scheduled", "contact_id", contactID, "property_id", propertyID, "date", task.DueDate)
	return task, nil
}

// DraftEmail personalizes the template named or typed templateKey for the
// contact. Missing templates fall back to a generic follow-up.
func (s *Service) DraftEmail(ctx context.Context, contactID int64, templateKey string) (*EmailDraft, error) {
	if templateKey == "" {
		templateKey = DefaultTemplate
	}

	contact, err := s.store.GetContact(ctx, contactID)
	if err != nil {
		return nil, err
	}

	subject, body := defaultSubject, defaultBody
	tpl, err := s.store.FindTemplate(ctx, templateKey)
	switch {
	case err == nil:
		subject, body = tpl.Subject, tpl.Body
	case !domain.IsNotFound(err):
		return nil, fmt.Errorf("failed to load email template: %w", err)
	}

	property := "properties in your area"
	interests, err := s.store.PropertiesRelatedTo(ctx, contactID, models.RelationshipInterested)
	if err != nil {
		return nil, fmt.Errorf("failed to load property interests: %w", err)
	}
	if len(interests) > 0 {
		p := interests[0]
		property = fmt.Sprintf("%s in %s", p.Label(), p.Area)
	}

	r := strings.NewReplacer(
		"{name}", contact.Name,
		"{property}", property,
		"{status}", contact.LeadStatus,
	)
	return &EmailDraft{
		ContactID: contactID,
		ToEmail:   contact.Email,
		ToName:    contact.Name,
		Subject:   r.Replace(subject),
		Body:      r.Replace(body),
	}, nil
}

// SendFollowUpEmail drafts, sends and records the contact as reached
func (s *Service) SendFollowUpEmail(ctx context.Context, contactID int64, templateKey string) (*EmailDraft, error) {
	if s.mailer == nil {
		return nil, domain.NewUnavailableError("email delivery")
	}

	draft, err := s.DraftEmail(ctx, contactID, templateKey)
	if err != nil {
		return nil, err
	}
	if draft.ToEmail == "" {
		return nil, domain.NewValidationError("contact has no email address")
	}

	err = s.mailer.Send(ctx, email.Message{
		ToEmail: draft.ToEmail,
		ToName:  draft.ToName,
		Subject: draft.Subject,
		Body:    draft.Body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send follow-up email: %w", err)
	}

	if err := s.store.MarkContacted(ctx, contactID); err != nil {
		return nil, err
	}
	s.logger.Info("follow-up email sent", "contact_id", contactID, "template", templateKey)
	return draft, nil
}

// DailySummary gathers follow-ups, overdue tasks and today's viewings
func (s *Service) DailySummary(ctx context.Context) (*DailySummary, error) {
	var (
		followUps []scoring.FollowUp
		overdue   []OverdueTask
		viewings  []store.TaskDetail
	)
	day := s.store.Now().Format("2006-01-02")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		followUps, err = s.FollowUpsDue(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		overdue, err = s.OverdueTasks(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		viewings, err = s.store.ViewingsOn(gctx, day)
		if err != nil {
			return fmt.Errorf("failed to load viewings: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to generate daily summary", "error", err)
		return nil, err
	}

	urgent := make([]scoring.FollowUp, 0, summaryTop)
	urgentCount := 0
	for _, f := range followUps {
		if f.Priority > urgentPriority {
			urgentCount++
			if len(urgent) < summaryTop {
				urgent = append(urgent, f)
			}
		}
	}

	todays := make([]Viewing, 0, len(viewings))
	for _, v := range viewings {
		property := v.Property
		if property == "" {
			property = "Property TBD"
		}
		todays = append(todays, Viewing{Title: v.Title, ContactName: v.ContactName, Property: property})
	}

	return &DailySummary{
		Date:               day,
		FollowUpsCount:     len(followUps),
		UrgentFollowUps:    urgent,
		OverdueTasksCount:  len(overdue),
		UrgentOverdueTasks: overdue[:min(summaryTop, len(overdue))],
		TodaysViewings:     todays,
		SummaryMessage:     summaryMessage(len(followUps), urgentCount, len(overdue), len(todays)),
	}, nil
}

func summaryMessage(followUps, urgent, overdue, viewings int) string {
	var parts []string
	switch {
	case urgent > 0:
		parts = append(parts, fmt.Sprintf("%d urgent follow-ups needed", urgent))
	case followUps > 0:
		parts = append(parts, fmt.Sprintf("%d follow-ups pending", followUps))
	}
	if overdue > 0 {
		parts = append(parts, fmt.Sprintf("%d overdue tasks", overdue))
	}
	if viewings > 0 {
		parts = append(parts, fmt.Sprintf("%d viewings scheduled today", viewings))
	}
	if len(parts) == 0 {
		return "You're all caught up! Great job staying on top of your tasks."
	}
	return "Today's priorities: " + strings.Join(parts, ", ") + "."
}
