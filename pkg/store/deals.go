package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/realtyaura/aura/pkg/database"
	"github.com/realtyaura/aura/pkg/models"
)

var dealColumns = []string{
	"id", "contact_id", "property_id", "deal_type", "status", "deal_value",
	"commission", "created_date", "closing_date", "notes",
}

// DealStatusClosed marks a completed transaction
const DealStatusClosed = "Closed"

func scanDeal(row scanner) (*models.Deal, error) {
	var d models.Deal
	var contactID, propertyID sql.NullInt64
	var kind, status, created, closing, notes sql.NullString
	var value, commission sql.NullFloat64
	if err := row.Scan(&d.ID, &contactID, &propertyID, &kind, &status, &value,
		&commission, &created, &closing, &notes); err != nil {
		return nil, err
	}
	d.ContactID = contactID.Int64
	d.PropertyID = propertyID.Int64
	d.DealType = kind.String
	d.Status = status.String
	d.DealValue = value.Float64
	d.Commission = commission.Float64
	d.CreatedDate = created.String
	d.ClosingDate = closing.String
	d.Notes = notes.String
	return &d, nil
}

// ListDeals returns deals, optionally restricted to one status
func (s *Store) ListDeals(ctx context.Context, status string) ([]models.Deal, error) {
	sel := s.b.Select(dealColumns...).From(s.b.Table(database.TableDeals)).OrderBy("id")
	if status != "" {
		sel.Where(entsql.EQ("status", status))
	}

	rows, err := s.query(ctx, s.db, sel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// GetDeal returns one deal
func (s *Store) GetDeal(ctx context.Context, id int64) (*models.Deal, error) {
	query, args := s.b.Select(dealColumns...).
		From(s.b.Table(database.TableDeals)).
		Where(entsql.EQ("id", id)).
		Query()
	d, err := scanDeal(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, notFound(err, "deal")
	}
	return d, nil
}

// CreateDeal inserts d as an Active deal unless a status is set
func (s *Store) CreateDeal(ctx context.Context, d *models.Deal) error {
	if d.CreatedDate == "" {
		d.CreatedDate = s.timestamp()
	}
	if d.Status == "" {
		d.Status = "Active"
	}

	id, err := s.insert(ctx, s.db, s.b.Insert(database.TableDeals).
		Columns("contact_id", "property_id", "deal_type", "status", "deal_value",
			"commission", "created_date", "closing_date", "notes").
		Values(d.ContactID, d.PropertyID, d.DealType, d.Status, d.DealValue,
			d.Commission, d.CreatedDate, nullable(d.ClosingDate), nullable(d.Notes)))
	if err != nil {
		return fmt.Errorf("insert deal: %w", err)
	}
	d.ID = id
	return nil
}

// UpdateDealStatus moves a deal; closing a deal stamps its closing date
func (s *Store) UpdateDealStatus(ctx context.Context, id int64, status string) error {
	u := s.b.Update(database.TableDeals).Set("status", status).Where(entsql.EQ("id", id))
	if status == DealStatusClosed {
		u.Set("closing_date", s.timestamp())
	}
	return s.update(ctx, u, "deal")
}
