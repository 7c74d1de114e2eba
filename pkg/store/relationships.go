package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/realtyaura/aura/pkg/database"
	"github.com/realtyaura/aura/pkg/models"
)

// LinkContactProperty records a relationship, refreshing created_date when it
// already exists.
func (s *Store) LinkContactProperty(ctx context.Context, contactID, propertyID int64, relationship string) error {
	return s.link(ctx, s.db, contactID, propertyID, relationship)
}

func (s *Store) link(ctx context.Context, cn conn, contactID, propertyID int64, relationship string) error {
	_, err := s.exec(ctx, cn, s.b.Insert(database.TableContactProperties).
		Columns("contact_id", "property_id", "relationship_type", "created_date").
		Values(contactID, propertyID, relationship, s.timestamp()).
		OnConflict(
			entsql.ConflictColumns("contact_id", "property_id", "relationship_type"),
			entsql.ResolveWithNewValues(),
		))
	if err != nil {
		return fmt.Errorf("link contact %d to property %d: %w", contactID, propertyID, err)
	}
	return nil
}

// UnlinkContactProperty removes one relationship
func (s *Store) UnlinkContactProperty(ctx context.Context, contactID, propertyID int64, relationship string) error {
	return s.update(ctx, s.b.Delete(database.TableContactProperties).Where(entsql.And(
		entsql.EQ("contact_id", contactID),
		entsql.EQ("property_id", propertyID),
		entsql.EQ("relationship_type", relationship),
	)), "relationship")
}

// ScheduleViewing creates the viewing task and the Viewing Scheduled link atomically
func (s *Store) ScheduleViewing(ctx context.Context, task *models.Task) error {
	if task.ContactID == nil || task.PropertyID == nil {
		return fmt.Errorf("viewing needs both a contact and a property")
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.createTask(ctx, tx, task); err != nil {
			return err
		}
		return s.link(ctx, tx, *task.ContactID, *task.PropertyID, models.RelationshipViewingScheduled)
	})
}

// RelationshipCounts returns, per contact, the number of links whose type is
// one of relationships.
func (s *Store) RelationshipCounts(ctx context.Context, relationships ...string) (map[int64]int, error) {
	types := make([]any, len(relationships))
	for i, r := range relationships {
		types[i] = r
	}
	sel := s.b.Select("contact_id", entsql.Count("*")).
		From(s.b.Table(database.TableContactProperties)).
		Where(entsql.In("relationship_type", types...)).
		GroupBy("contact_id")
	return s.countsByID(ctx, sel)
}

// ContactsRelatedTo returns the contacts holding relationship to property
func (s *Store) ContactsRelatedTo(ctx context.Context, propertyID int64, relationship string) ([]models.Contact, error) {
	c := s.b.Table(database.TableContacts).As("c")
	cp := s.b.Table(database.TableContactProperties).As("cp")
	sel := s.b.Select(c.Columns(contactColumns...)...).
		From(c).
		Join(cp).On(c.C("id"), cp.C("contact_id")).
		Where(entsql.And(
			entsql.EQ(cp.C("property_id"), propertyID),
			entsql.EQ(cp.C("relationship_type"), relationship),
		)).
		OrderBy(c.C("id"))
	return s.contacts(ctx, sel)
}

// PropertiesRelatedTo returns the properties a contact holds relationship to,
// most recent link first.
func (s *Store) PropertiesRelatedTo(ctx context.Context, contactID int64, relationship string) ([]models.Property, error) {
	p := s.b.Table(database.TableProperties).As("p")
	cp := s.b.Table(database.TableContactProperties).As("cp")
	sel := s.b.Select(p.Columns(propertyColumns...)...).
		From(p).
		Join(cp).On(p.C("id"), cp.C("property_id")).
		Where(entsql.And(
			entsql.EQ(cp.C("contact_id"), contactID),
			entsql.EQ(cp.C("relationship_type"), relationship),
		)).
		OrderBy(entsql.Desc(cp.C("created_date")), entsql.Desc(cp.C("id")))
	return s.properties(ctx, sel)
}

// ListRelationships returns every link of a property
func (s *Store) ListRelationships(ctx context.Context, propertyID int64) ([]models.ContactProperty, error) {
	rows, err := s.query(ctx, s.db, s.b.Select("id", "contact_id", "property_id", "relationship_type", "created_date").
		From(s.b.Table(database.TableContactProperties)).
		Where(entsql.EQ("property_id", propertyID)).
		OrderBy("id"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ContactProperty
	for rows.Next() {
		var cp models.ContactProperty
		var rel, created sql.NullString
		if err := rows.Scan(&cp.ID, &cp.ContactID, &cp.PropertyID, &rel, &created); err != nil {
			return nil, err
		}
		cp.RelationshipType = rel.String
		cp.CreatedDate = created.String
		out = append(out, cp)
	}
	return out, rows.Err()
}

func (s *Store) countsByID(ctx context.Context, sel *entsql.Selector) (map[int64]int, error) {
	rows, err := s.query(ctx, s.db, sel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]int)
	for rows.Next() {
		var id int64
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		out[id] = n
	}
	return out, rows.Err()
}
