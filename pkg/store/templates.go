package store

import (
	"context"
	"database/sql"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/realtyaura/aura/pkg/database"
	"github.com/realtyaura/aura/pkg/models"
)

// FindTemplate returns the first template whose name or type equals key
func (s *Store) FindTemplate(ctx context.Context, key string) (*models.EmailTemplate, error) {
	query, args := s.b.Select("id", "template_name", "subject", "body", "template_type").
		From(s.b.Table(database.TableEmailTemplates)).
		Where(entsql.Or(entsql.EQ("template_name", key), entsql.EQ("template_type", key))).
		OrderBy("id").
		Limit(1).
		Query()

	var t models.EmailTemplate
	var name, subject, body, kind sql.NullString
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&t.ID, &name, &subject, &body, &kind)
	if err != nil {
		return nil, notFound(err, "email template")
	}
	t.TemplateName = name.String
	t.Subject = subject.String
	t.Body = body.String
	t.TemplateType = kind.String
	return &t, nil
}
