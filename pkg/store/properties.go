package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/realtyaura/aura/pkg/database"
	"github.com/realtyaura/aura/pkg/models"
)

var propertyColumns = []string{
	"id", "building", "unit", "area", "property_type", "bedrooms", "bathrooms",
	"size_sqft", "price", "status", "description", "amenities", "created_date", "updated_date",
}

// PropertyFilter narrows ListProperties
type PropertyFilter struct {
	Area         string
	PropertyType string
	Status       string
	Building     string
	Query        string
	Limit        int
}

func scanProperty(row scanner) (*models.Property, error) {
	var p models.Property
	var area, kind, status, desc, amenities, created, updated sql.NullString
	var beds, baths sql.NullInt64
	var size, price sql.NullFloat64
	if err := row.Scan(&p.ID, &p.Building, &p.Unit, &area, &kind, &beds, &baths,
		&size, &price, &status, &desc, &amenities, &created, &updated); err != nil {
		return nil, err
	}
	p.Area = area.String
	p.PropertyType = kind.String
	p.Bedrooms = int(beds.Int64)
	p.Bathrooms = int(baths.Int64)
	p.SizeSqft = size.Float64
	p.Price = price.Float64
	p.Status = status.String
	p.Description = desc.String
	p.Amenities = amenities.String
	p.CreatedDate = created.String
	p.UpdatedDate = updated.String
	return &p, nil
}

func (s *Store) properties(ctx context.Context, sel *entsql.Selector) ([]models.Property, error) {
	rows, err := s.query(ctx, s.db, sel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// ListProperties returns properties matching f
func (s *Store) ListProperties(ctx context.Context, f PropertyFilter) ([]models.Property, error) {
	sel := s.b.Select(propertyColumns...).From(s.b.Table(database.TableProperties)).OrderBy("id")
	if f.Area != "" {
		sel.Where(entsql.ContainsFold("area", f.Area))
	}
	if f.PropertyType != "" {
		sel.Where(entsql.EqualFold("property_type", f.PropertyType))
	}
	if f.Status != "" {
		sel.Where(entsql.EQ("status", f.Status))
	}
	if f.Building != "" {
		sel.Where(entsql.ContainsFold("building", f.Building))
	}
	if f.Query != "" {
		sel.Where(entsql.Or(
			entsql.ContainsFold("building", f.Query),
			entsql.ContainsFold("area", f.Query),
			entsql.ContainsFold("property_type", f.Query),
			entsql.ContainsFold("description", f.Query),
		))
	}
	if f.Limit > 0 {
		sel.Limit(f.Limit)
	}
	return s.properties(ctx, sel)
}

// GetProperty returns one property
func (s *Store) GetProperty(ctx context.Context, id int64) (*models.Property, error) {
	query, args := s.b.Select(propertyColumns...).
		From(s.b.Table(database.TableProperties)).
		Where(entsql.EQ("id", id)).
		Query()
	p, err := scanProperty(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, notFound(err, "property")
	}
	return p, nil
}

// FindPropertyByUnit looks a property up by its unique building/unit pair
func (s *Store) FindPropertyByUnit(ctx context.Context, building, unit string) (*models.Property, error) {
	query, args := s.b.Select(propertyColumns...).
		From(s.b.Table(database.TableProperties)).
		Where(entsql.And(entsql.EqualFold("building", building), entsql.EQ("unit", unit))).
		Query()
	p, err := scanProperty(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, notFound(err, "property")
	}
	return p, nil
}

// CreateProperty inserts p and sets its ID and dates
func (s *Store) CreateProperty(ctx context.Context, p *models.Property) error {
	ts := s.timestamp()
	p.CreatedDate, p.UpdatedDate = ts, ts
	if p.Status == "" {
		p.Status = "Available"
	}

	id, err := s.insert(ctx, s.db, s.b.Insert(database.TableProperties).
		Columns("building", "unit", "area", "property_type", "bedrooms", "bathrooms",
			"size_sqft", "price", "status", "description", "amenities", "created_date", "updated_date").
		Values(p.Building, p.Unit, nullable(p.Area), nullable(p.PropertyType), p.Bedrooms, p.Bathrooms,
			p.SizeSqft, p.Price, p.Status, nullable(p.Description), nullable(p.Amenities), ts, ts))
	if err != nil {
		return fmt.Errorf("insert property: %w", err)
	}
	p.ID = id
	return nil
}

// UpdateProperty applies fields to property id
func (s *Store) UpdateProperty(ctx context.Context, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		_, err := s.GetProperty(ctx, id)
		return err
	}
	u := s.b.Update(database.TableProperties).Where(entsql.EQ("id", id))
	for col, v := range fields {
		u.Set(col, v)
	}
	u.Set("updated_date", s.timestamp())
	return s.update(ctx, u, "property")
}
