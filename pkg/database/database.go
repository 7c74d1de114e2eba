package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/realtyaura/aura/pkg/logger"
)

// Client holds the database handle
type Client struct {
	DB     *sql.DB
	Driver *entsql.Driver
	path   string
}

// PoolConfig holds connection pool configuration
type PoolConfig struct {
	MaxOpenConns    int           // Maximum number of open connections
	MaxIdleConns    int           // Maximum number of idle connections
	ConnMaxLifetime time.Duration // Maximum amount of time a connection may be reused
	ConnMaxIdleTime time.Duration // Maximum amount of time a connection may be idle
}

// DefaultPoolConfig returns defaults suited to a single-writer SQLite file
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 10 * time.Minute,
	}
}

// BuildDSN turns a file path into a go-sqlite3 DSN with foreign keys and a
// busy timeout enabled. DSNs that already use the file: scheme are returned
// with the missing options appended.
func BuildDSN(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("database path is empty")
	}

	dsn := path
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}

	var opts []string
	if !strings.Contains(dsn, "_fk=") && !strings.Contains(dsn, "_foreign_keys=") {
		opts = append(opts, "_fk=1")
	}
	if !strings.Contains(dsn, "_busy_timeout=") {
		opts = append(opts, "_busy_timeout=5000")
	}
	if len(opts) == 0 {
		return dsn, nil
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(opts, "&"), nil
}

// NewClient opens the database with the default pool and applies migrations
func NewClient(ctx context.Context, path string, log logger.Logger) (*Client, error) {
	return NewClientWithPool(ctx, path, DefaultPoolConfig(), log)
}

// NewClientWithPool opens the database with a custom pool and applies migrations
func NewClientWithPool(ctx context.Context, path string, poolCfg PoolConfig, log logger.Logger) (*Client, error) {
	dsn, err := BuildDSN(path)
	if err != nil {
		return nil, fmt.Errorf("failed building dsn: %w", err)
	}

	db, err := sql.Open(dialect.SQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed opening connection to sqlite: %w", err)
	}

	db.SetMaxOpenConns(poolCfg.MaxOpenConns)
	db.SetMaxIdleConns(poolCfg.MaxIdleConns)
	db.SetConnMaxLifetime(poolCfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(poolCfg.ConnMaxIdleTime)

	log.Info("database connection pool configured",
		"max_open", poolCfg.MaxOpenConns,
		"max_idle", poolCfg.MaxIdleConns,
		"max_lifetime", poolCfg.ConnMaxLifetime.String())

	client := &Client{
		DB:     db,
		Driver: entsql.OpenDB(dialect.SQLite, db),
		path:   path,
	}

	if err := client.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed creating schema resources: %w", err)
	}

	log.Info("database connected and migrations applied", "path", path)
	return client, nil
}

// Migrate creates every table and index if missing
func (c *Client) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := c.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.DB.Close()
}

// Ping checks if the database is reachable
func (c *Client) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Stats returns database connection pool statistics
func (c *Client) Stats() sql.DBStats {
	return c.DB.Stats()
}

// Path returns the path the client was opened with
func (c *Client) Path() string {
	return c.path
}
