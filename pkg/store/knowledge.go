package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/realtyaura/aura/pkg/database"
	"github.com/realtyaura/aura/pkg/models"
)

var knowledgeColumns = []string{
	"id", "content_type", "title", "content", "source_file", "metadata", "tags", "created_date", "updated_date",
}

// KnowledgeStats summarises the knowledge base
type KnowledgeStats struct {
	TotalItems      int            `json:"total_items"`
	ContentTypes    map[string]int `json:"content_types"`
	RecentAdditions int            `json:"recent_additions"`
	LastUpdated     string         `json:"last_updated"`
}

func scanDocument(row scanner) (*models.KnowledgeDocument, error) {
	var d models.KnowledgeDocument
	var kind, title, content, source, meta, tags, created, updated sql.NullString
	if err := row.Scan(&d.ID, &kind, &title, &content, &source, &meta, &tags, &created, &updated); err != nil {
		return nil, err
	}
	d.ContentType = kind.String
	d.Title = title.String
	d.Content = content.String
	d.SourceFile = source.String
	d.CreatedDate = created.String
	d.UpdatedDate = updated.String
	d.Tags = splitTags(tags.String)
	if meta.String != "" {
		// Unreadable metadata is treated as absent.
		if err := json.Unmarshal([]byte(meta.String), &d.Metadata); err != nil {
			d.Metadata = nil
		}
	}
	return &d, nil
}

func splitTags(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// UpsertDocument stores doc keyed by its source file; re-ingesting a file
// replaces its content and metadata but keeps the original created date.
func (s *Store) UpsertDocument(ctx context.Context, doc *models.KnowledgeDocument) error {
	meta, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	ts := s.timestamp()
	doc.CreatedDate, doc.UpdatedDate = ts, ts

	_, err = s.exec(ctx, s.db, s.b.Insert(database.TableKnowledge).
		Columns("content_type", "title", "content", "source_file", "metadata", "tags", "created_date", "updated_date").
		Values(doc.ContentType, doc.Title, doc.Content, doc.SourceFile, string(meta),
			strings.Join(doc.Tags, ","), ts, ts).
		OnConflict(
			entsql.ConflictColumns("source_file"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("content_type")
				u.SetExcluded("title")
				u.SetExcluded("content")
				u.SetExcluded("metadata")
				u.SetExcluded("updated_date")
			}),
		))
	if err != nil {
		return fmt.Errorf("upsert document %s: %w", doc.SourceFile, err)
	}

	query, args := s.b.Select("id", "created_date").
		From(s.b.Table(database.TableKnowledge)).
		Where(entsql.EQ("source_file", doc.SourceFile)).
		Query()
	var created sql.NullString
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&doc.ID, &created); err != nil {
		return err
	}
	doc.CreatedDate = created.String
	return nil
}

// GetDocument returns one knowledge document
func (s *Store) GetDocument(ctx context.Context, id int64) (*models.KnowledgeDocument, error) {
	query, args := s.b.Select(knowledgeColumns...).
		From(s.b.Table(database.TableKnowledge)).
		Where(entsql.EQ("id", id)).
		Query()
	d, err := scanDocument(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, notFound(err, "knowledge document")
	}
	return d, nil
}

// SearchDocuments returns documents where every term appears in the title,
// content or metadata, newest first.
func (s *Store) SearchDocuments(ctx context.Context, terms []string, limit int) ([]models.KnowledgeDocument, error) {
	sel := s.b.Select(knowledgeColumns...).
		From(s.b.Table(database.TableKnowledge)).
		OrderBy(entsql.Desc("created_date"), entsql.Desc("id"))
	for _, term := range terms {
		sel.Where(entsql.Or(
			entsql.ContainsFold("title", term),
			entsql.ContainsFold("content", term),
			entsql.ContainsFold("metadata", term),
		))
	}
	if limit > 0 {
		sel.Limit(limit)
	}

	rows, err := s.query(ctx, s.db, sel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.KnowledgeDocument
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// UpdateTags replaces the tags of a document
func (s *Store) UpdateTags(ctx context.Context, id int64, tags []string) error {
	return s.update(ctx, s.b.Update(database.TableKnowledge).
		Set("tags", strings.Join(tags, ",")).
		Set("updated_date", s.timestamp()).
		Where(entsql.EQ("id", id)), "knowledge document")
}

// KnowledgeStatistics counts documents overall, per type and in the last week
func (s *Store) KnowledgeStatistics(ctx context.Context) (*KnowledgeStats, error) {
	now := s.now()
	stats := &KnowledgeStats{ContentTypes: map[string]int{}, LastUpdated: models.FormatTimestamp(now)}

	total, err := s.count(ctx, s.b.Select(entsql.Count("*")).From(s.b.Table(database.TableKnowledge)))
	if err != nil {
		return nil, err
	}
	stats.TotalItems = total

	rows, err := s.query(ctx, s.db, s.b.Select("content_type", entsql.Count("*")).
		From(s.b.Table(database.TableKnowledge)).
		GroupBy("content_type"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var kind sql.NullString
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		stats.ContentTypes[kind.String] += n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	weekAgo := models.FormatTimestamp(now.Add(-7 * 24 * time.Hour))
	recent, err := s.count(ctx, s.b.Select(entsql.Count("*")).
		From(s.b.Table(database.TableKnowledge)).
		Where(entsql.GTE("created_date", weekAgo)))
	if err != nil {
		return nil, err
	}
	stats.RecentAdditions = recent
	return stats, nil
}

// PropertyUnits returns the distinct building/unit pairs on record
func (s *Store) PropertyUnits(ctx context.Context) ([][2]string, error) {
	rows, err := s.query(ctx, s.db, s.b.Select("building", "unit").
		From(s.b.Table(database.TableProperties)).
		Distinct().
		OrderBy("building", "unit"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][2]string
	for rows.Next() {
		var pair [2]string
		if err := rows.Scan(&pair[0], &pair[1]); err != nil {
			return nil, err
		}
		out = append(out, pair)
	}
	return out, rows.Err()
}
