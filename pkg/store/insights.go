package store

import (
	"context"
	"database/sql"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/realtyaura/aura/pkg/database"
	"github.com/realtyaura/aura/pkg/models"
)

// MarketRow aggregates Available properties of one type
type MarketRow struct {
	PropertyType string
	AvgPrice     float64
	Count        int
	MinPrice     float64
	MaxPrice     float64
	AvgSize      float64
}

// PerformanceCounts are the raw figures behind the performance report
type PerformanceCounts struct {
	ActiveDeals          int
	ClosedRecent         int
	RevenueRecent        float64
	CommissionRecent     float64
	PipelineValue        float64
	TotalContacts        int
	ContactsWithDeals    int
	AvgClosedDealValue   float64
	TasksCompletedRecent int
	TasksCreatedRecent   int
}

// MarketRows groups Available properties by type, optionally restricted to
// areas containing area.
func (s *Store) MarketRows(ctx context.Context, area string) ([]MarketRow, error) {
	sel := s.b.Select(
		"property_type",
		entsql.Avg("price"),
		entsql.Count("*"),
		entsql.Min("price"),
		entsql.Max("price"),
		entsql.Avg("size_sqft"),
	).
		From(s.b.Table(database.TableProperties)).
		Where(entsql.EQ("status", "Available")).
		GroupBy("property_type").
		OrderBy("property_type")
	if area != "" {
		sel.Where(entsql.ContainsFold("area", area))
	}

	rows, err := s.query(ctx, s.db, sel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MarketRow
	for rows.Next() {
		var r MarketRow
		var kind sql.NullString
		var avg, lo, hi, size sql.NullFloat64
		if err := rows.Scan(&kind, &avg, &r.Count, &lo, &hi, &size); err != nil {
			return nil, err
		}
		r.PropertyType = kind.String
		r.AvgPrice = avg.Float64
		r.MinPrice = lo.Float64
		r.MaxPrice = hi.Float64
		r.AvgSize = size.Float64
		out = append(out, r)
	}
	return out, rows.Err()
}

// Performance collects deal, contact and task figures relative to now
func (s *Store) Performance(ctx context.Context) (*PerformanceCounts, error) {
	now := s.now()
	since30 := models.FormatTimestamp(now.Add(-30 * 24 * time.Hour))
	since90 := models.FormatTimestamp(now.Add(-90 * 24 * time.Hour))
	deals := s.b.Table(database.TableDeals)

	var pc PerformanceCounts
	var err error

	if pc.ActiveDeals, err = s.count(ctx, s.b.Select(entsql.Count("*")).From(deals).
		Where(entsql.EQ("status", "Active"))); err != nil {
		return nil, err
	}

	query, args := s.b.Select(entsql.Count("*"), "COALESCE(SUM(`deal_value`), 0)", "COALESCE(SUM(`commission`), 0)").
		From(deals).
		Where(entsql.And(entsql.EQ("status", DealStatusClosed), entsql.GTE("closing_date", since30))).
		Query()
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&pc.ClosedRecent, &pc.RevenueRecent, &pc.CommissionRecent); err != nil {
		return nil, err
	}

	query, args = s.b.Select("COALESCE(SUM(`deal_value`), 0)").From(deals).
		Where(entsql.EQ("status", "Active")).Query()
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&pc.PipelineValue); err != nil {
		return nil, err
	}

	if pc.TotalContacts, err = s.count(ctx, s.b.Select(entsql.Count("*")).From(s.b.Table(database.TableContacts))); err != nil {
		return nil, err
	}
	if pc.ContactsWithDeals, err = s.count(ctx, s.b.Select("COUNT(DISTINCT `contact_id`)").From(deals)); err != nil {
		return nil, err
	}

	var avg sql.NullFloat64
	query, args = s.b.Select(entsql.Avg("deal_value")).From(deals).
		Where(entsql.And(entsql.EQ("status", DealStatusClosed), entsql.GTE("closing_date", since90))).Query()
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&avg); err != nil {
		return nil, err
	}
	pc.AvgClosedDealValue = avg.Float64

	tasks := s.b.Table(database.TableTasks)
	if pc.TasksCompletedRecent, err = s.count(ctx, s.b.Select(entsql.Count("*")).From(tasks).
		Where(entsql.And(entsql.EQ("status", models.TaskCompleted), entsql.GTE("completed_date", since30)))); err != nil {
		return nil, err
	}
	if pc.TasksCreatedRecent, err = s.count(ctx, s.b.Select(entsql.Count("*")).From(tasks).
		Where(entsql.GTE("created_date", since30))); err != nil {
		return nil, err
	}
	return &pc, nil
}

// DatabaseSummary is the record overview handed to the language model
type DatabaseSummary struct {
	Properties       int
	Contacts         int
	ActiveDeals      int
	PendingTasks     int
	RecentProperties []models.Property
}

// Summary counts records and returns the n most recently added properties
func (s *Store) Summary(ctx context.Context, n int) (*DatabaseSummary, error) {
	var sum DatabaseSummary
	var err error

	if sum.Properties, err = s.count(ctx, s.b.Select(entsql.Count("*")).From(s.b.Table(database.TableProperties))); err != nil {
		return nil, err
	}
	if sum.Contacts, err = s.count(ctx, s.b.Select(entsql.Count("*")).From(s.b.Table(database.TableContacts))); err != nil {
		return nil, err
	}
	if sum.ActiveDeals, err = s.count(ctx, s.b.Select(entsql.Count("*")).From(s.b.Table(database.TableDeals)).
		Where(entsql.EQ("status", "Active"))); err != nil {
		return nil, err
	}
	if sum.PendingTasks, err = s.count(ctx, s.b.Select(entsql.Count("*")).From(s.b.Table(database.TableTasks)).
		Where(entsql.EQ("status", models.TaskPending))); err != nil {
		return nil, err
	}

	sum.RecentProperties, err = s.properties(ctx, s.b.Select(propertyColumns...).
		From(s.b.Table(database.TableProperties)).
		OrderBy(entsql.Desc("id")).
		Limit(n))
	if err != nil {
		return nil, err
	}
	return &sum, nil
}
