package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/realtyaura/aura/pkg/database"
	"github.com/realtyaura/aura/pkg/models"
)

// ReplaceScores upserts one score record per contact inside a single
// transaction. Either every record is written or none is.
func (s *Store) ReplaceScores(ctx context.Context, records []models.ScoreRecord) error {
	ts := s.timestamp()
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for i := range records {
			r := &records[i]
			if r.LastCalculated == "" {
				r.LastCalculated = ts
			}
			factors, err := json.Marshal(r.Breakdown)
			if err != nil {
				return fmt.Errorf("encode breakdown for contact %d: %w", r.ContactID, err)
			}
			_, err = s.exec(ctx, tx, s.b.Insert(database.TableLeadScores).
				Columns("contact_id", "score", "score_factors", "last_calculated").
				Values(r.ContactID, r.Score, string(factors), r.LastCalculated).
				OnConflict(entsql.ConflictColumns("contact_id"), entsql.ResolveWithNewValues()))
			if err != nil {
				return fmt.Errorf("upsert score for contact %d: %w", r.ContactID, err)
			}
		}
		return nil
	})
}

// ListScores returns stored scores, highest first
func (s *Store) ListScores(ctx context.Context) ([]models.ScoreRecord, error) {
	rows, err := s.query(ctx, s.db, s.b.Select("contact_id", "score", "score_factors", "last_calculated").
		From(s.b.Table(database.TableLeadScores)).
		OrderBy(entsql.Desc("score"), "contact_id"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ScoreRecord
	for rows.Next() {
		var r models.ScoreRecord
		var factors, calculated sql.NullString
		var score sql.NullFloat64
		if err := rows.Scan(&r.ContactID, &score, &factors, &calculated); err != nil {
			return nil, err
		}
		r.Score = score.Float64
		r.LastCalculated = calculated.String
		if factors.String != "" {
			if err := json.Unmarshal([]byte(factors.String), &r.Breakdown); err != nil {
				return nil, fmt.Errorf("decode breakdown for contact %d: %w", r.ContactID, err)
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
