// Package store persists AURA records in SQLite. Queries are composed with
// the ent SQL builder and executed on the shared database handle.
package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/realtyaura/aura/pkg/database"
	"github.com/realtyaura/aura/pkg/domain"
	"github.com/realtyaura/aura/pkg/models"
)

type conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

// Store is the record store shared by every service
type Store struct {
	db  *sql.DB
	b   *entsql.DialectBuilder
	now func() time.Time
}

// New creates a store over an open database client
func New(client *database.Client) *Store {
	return &Store{
		db:  client.DB,
		b:   entsql.Dialect(dialect.SQLite),
		now: time.Now,
	}
}

// WithClock replaces the clock used for created/updated timestamps
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Now returns the store clock's current time
func (s *Store) Now() time.Time {
	return s.now()
}

func (s *Store) timestamp() string {
	return models.FormatTimestamp(s.now())
}

func (s *Store) query(ctx context.Context, c conn, q entsql.Querier) (*sql.Rows, error) {
	query, args := q.Query()
	return c.QueryContext(ctx, query, args...)
}

func (s *Store) exec(ctx context.Context, c conn, q entsql.Querier) (sql.Result, error) {
	query, args := q.Query()
	return c.ExecContext(ctx, query, args...)
}

func (s *Store) insert(ctx context.Context, c conn, q entsql.Querier) (int64, error) {
	res, err := s.exec(ctx, c, q)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// update runs q and reports a not-found error for the resource when no row
// matched.
func (s *Store) update(ctx context.Context, q entsql.Querier, resource string) error {
	res, err := s.exec(ctx, s.db, q)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NewNotFoundError(resource)
	}
	return nil
}

func (s *Store) count(ctx context.Context, sel *entsql.Selector) (int, error) {
	var n int
	query, args := sel.Query()
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil && !errors.Is(rerr, sql.ErrTxDone) {
			return errors.Join(err, rerr)
		}
		return err
	}
	return tx.Commit()
}

func notFound(err error, resource string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewNotFoundError(resource)
	}
	return err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func idPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}
