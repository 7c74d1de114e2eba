package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/realtyaura/aura/pkg/database"
	"github.com/realtyaura/aura/pkg/models"
)

var contactColumns = []string{
	"id", "name", "email", "phone", "lead_status", "source", "notes",
	"last_contacted_date", "created_date", "updated_date",
}

// ContactFilter narrows ListContacts
type ContactFilter struct {
	Status string
	Query  string
	Limit  int
}

func scanContact(row scanner) (*models.Contact, error) {
	var c models.Contact
	var email, phone, status, source sql.NullString
	var notes, last, created, updated sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &email, &phone, &status, &source, &notes, &last, &created, &updated); err != nil {
		return nil, err
	}
	c.Email = email.String
	c.Phone = phone.String
	c.LeadStatus = status.String
	c.Source = source.String
	c.Notes = notes.String
	c.LastContactedDate = last.String
	c.CreatedDate = created.String
	c.UpdatedDate = updated.String
	return &c, nil
}

func (s *Store) contacts(ctx context.Context, sel *entsql.Selector) ([]models.Contact, error) {
	rows, err := s.query(ctx, s.db, sel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// ListContacts returns contacts in insertion order
func (s *Store) ListContacts(ctx context.Context, f ContactFilter) ([]models.Contact, error) {
	sel := s.b.Select(contactColumns...).From(s.b.Table(database.TableContacts)).OrderBy("id")
	if f.Status != "" {
		sel.Where(entsql.EQ("lead_status", f.Status))
	}
	if f.Query != "" {
		sel.Where(entsql.Or(
			entsql.ContainsFold("name", f.Query),
			entsql.ContainsFold("email", f.Query),
			entsql.ContainsFold("notes", f.Query),
		))
	}
	if f.Limit > 0 {
		sel.Limit(f.Limit)
	}
	return s.contacts(ctx, sel)
}

// GetContact returns one contact
func (s *Store) GetContact(ctx context.Context, id int64) (*models.Contact, error) {
	query, args := s.b.Select(contactColumns...).
		From(s.b.Table(database.TableContacts)).
		Where(entsql.EQ("id", id)).
		Query()
	c, err := scanContact(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, notFound(err, "contact")
	}
	return c, nil
}

// CreateContact inserts c and sets its ID and dates
func (s *Store) CreateContact(ctx context.Context, c *models.Contact) error {
	return s.createContact(ctx, s.db, c)
}

func (s *Store) createContact(ctx context.Context, cn conn, c *models.Contact) error {
	ts := s.timestamp()
	if c.CreatedDate == "" {
		c.CreatedDate = ts
	}
	c.UpdatedDate = ts
	c.LeadStatus = models.NormalizeLeadStatus(c.LeadStatus)

	id, err := s.insert(ctx, cn, s.b.Insert(database.TableContacts).
		Columns("name", "email", "phone", "lead_status", "source", "notes",
			"last_contacted_date", "created_date", "updated_date").
		Values(c.Name, nullable(c.Email), nullable(c.Phone), c.LeadStatus, nullable(c.Source),
			nullable(c.Notes), nullable(c.LastContactedDate), c.CreatedDate, c.UpdatedDate))
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	c.ID = id
	return nil
}

// ImportContacts inserts all contacts in one transaction
func (s *Store) ImportContacts(ctx context.Context, contacts []models.Contact) (int, error) {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for i := range contacts {
			if err := s.createContact(ctx, tx, &contacts[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(contacts), nil
}

// UpdateContact applies the non-nil fields of fields to contact id
func (s *Store) UpdateContact(ctx context.Context, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		_, err := s.GetContact(ctx, id)
		return err
	}
	u := s.b.Update(database.TableContacts).Where(entsql.EQ("id", id))
	for col, v := range fields {
		u.Set(col, v)
	}
	u.Set("updated_date", s.timestamp())
	return s.update(ctx, u, "contact")
}

// MarkContacted stamps last_contacted_date with the current time
func (s *Store) MarkContacted(ctx context.Context, id int64) error {
	ts := s.timestamp()
	return s.update(ctx, s.b.Update(database.TableContacts).
		Set("last_contacted_date", ts).
		Set("updated_date", ts).
		Where(entsql.EQ("id", id)), "contact")
}

// CountContactsByStatus returns how many contacts sit in each lead status
func (s *Store) CountContactsByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := s.query(ctx, s.db, s.b.Select("lead_status", entsql.Count("*")).
		From(s.b.Table(database.TableContacts)).
		GroupBy("lead_status"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var status sql.NullString
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status.String] += n
	}
	return out, rows.Err()
}
