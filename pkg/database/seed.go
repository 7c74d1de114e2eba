package database

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

type seedProperty struct {
	building, unit, area, kind string
	bedrooms, bathrooms        int
	size, price                float64
	status, description        string
}

type seedContact struct {
	name, email, phone, status, source string
}

type seedTask struct {
	title, description, status, priority string
	contactID, propertyID                any
}

var (
	seedProperties = []seedProperty{
		{"Palm Tower", "3401", "Palm Jumeirah", "Apartment", 2, 2, 1200, 2500000, "Available", "Luxury apartment with sea view"},
		{"Marina Residences", "1205", "Palm Jumeirah", "Apartment", 3, 3, 1800, 3200000, "Available", "Spacious family apartment"},
		{"Shoreline Apartments", "0804", "Palm Jumeirah", "Apartment", 1, 1, 800, 1800000, "Sold", "Cozy beachfront unit"},
		{"Golden Mile", "2106", "Palm Jumeirah", "Apartment", 2, 2, 1100, 2200000, "Available", "Modern apartment with amenities"},
		{"Garden Homes", "Villa A15", "Palm Jumeirah", "Villa", 4, 5, 3500, 8500000, "Available", "Luxury beachfront villa"},
	}

	seedContacts = []seedContact{
		{"Ahmed Al Rashid", "ahmed.rashid@email.com", "+971501234567", "Hot", "Referral"},
		{"Sarah Johnson", "sarah.j@email.com", "+971559876543", "Warm", "Website"},
		{"Mohammed Hassan", "mohammed.h@email.com", "+971505551234", "Cold", "Walk-in"},
		{"Lisa Chen", "lisa.chen@email.com", "+971567778888", "Hot", "Social Media"},
		{"David Smith", "david.smith@email.com", "+971509990000", "Warm", "Previous Client"},
	}

	seedLinks = [][3]any{
		{1, 1, "Owner"},
		{2, 2, "Interested"},
		{3, 3, "Previous Owner"},
		{4, 4, "Viewing Scheduled"},
		{5, 5, "Owner"},
	}

	seedTasks = []seedTask{
		{"Follow up with Ahmed about Palm Tower maintenance", "Ahmed mentioned some issues with AC", "Pending", "High", 1, 1},
		{"Schedule viewing for Sarah", "Sarah wants to see Marina Residences this week", "Pending", "Medium", 2, 2},
		{"Prepare CMA for Golden Mile area", "Lisa requested market analysis", "In Progress", "Medium", 4, nil},
		{"Update property photos", "Garden Homes needs new photography", "Pending", "Low", nil, 5},
		{"Call David about referrals", "David might have friends looking for properties", "Pending", "Medium", 5, nil},
	}

	seedTemplates = [][4]string{
		{"follow_up_hot", "Quick Follow-up",
			"Hi {name},\n\nI wanted to follow up on your interest in {property}. Do you have any questions or would you like to schedule a viewing?\n\nBest regards,\nYour Real Estate Agent",
			"follow_up"},
		{"welcome_new_lead", "Welcome to Our Services",
			"Dear {name},\n\nThank you for your interest in Dubai real estate. I look forward to helping you find your perfect property.\n\nBest regards,\nYour Real Estate Agent",
			"welcome"},
		{"viewing_confirmation", "Property Viewing Confirmation",
			"Hi {name},\n\nThis confirms your property viewing for {property}.\n\nSee you there!\nYour Real Estate Agent",
			"confirmation"},
	}
)

// Seed inserts the demonstration dataset when the Properties table is empty.
// It reports whether anything was inserted.
func (c *Client) Seed(ctx context.Context, now time.Time) (bool, error) {
	b := entsql.Dialect(dialect.SQLite)

	var n int
	q, args := b.Select(entsql.Count("*")).From(b.Table(TableProperties)).Query()
	if err := c.DB.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("count properties: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	ts := now.UTC().Format(time.RFC3339)
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	exec := func(ib *entsql.InsertBuilder) error {
		q, args := ib.Query()
		_, err := tx.ExecContext(ctx, q, args...)
		return err
	}

	for _, p := range seedProperties {
		err := exec(b.Insert(TableProperties).
			Columns("building", "unit", "area", "property_type", "bedrooms", "bathrooms",
				"size_sqft", "price", "status", "description", "created_date", "updated_date").
			Values(p.building, p.unit, p.area, p.kind, p.bedrooms, p.bathrooms,
				p.size, p.price, p.status, p.description, ts, ts))
		if err != nil {
			return false, fmt.Errorf("seed property %s: %w", p.building, err)
		}
	}

	for _, ct := range seedContacts {
		err := exec(b.Insert(TableContacts).
			Columns("name", "email", "phone", "lead_status", "source", "created_date", "updated_date").
			Values(ct.name, ct.email, ct.phone, ct.status, ct.source, ts, ts))
		if err != nil {
			return false, fmt.Errorf("seed contact %s: %w", ct.name, err)
		}
	}

	for _, l := range seedLinks {
		err := exec(b.Insert(TableContactProperties).
			Columns("contact_id", "property_id", "relationship_type", "created_date").
			Values(l[0], l[1], l[2], ts))
		if err != nil {
			return false, fmt.Errorf("seed link: %w", err)
		}
	}

	for _, t := range seedTasks {
		err := exec(b.Insert(TableTasks).
			Columns("title", "description", "status", "priority", "contact_id", "property_id", "created_date", "due_date").
			Values(t.title, t.description, t.status, t.priority, t.contactID, t.propertyID, ts, ts))
		if err != nil {
			return false, fmt.Errorf("seed task: %w", err)
		}
	}

	for _, tpl := range seedTemplates {
		err := exec(b.Insert(TableEmailTemplates).
			Columns("template_name", "subject", "body", "template_type", "created_date").
			Values(tpl[0], tpl[1], tpl[2], tpl[3], ts))
		if err != nil {
			return false, fmt.Errorf("seed template: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}
