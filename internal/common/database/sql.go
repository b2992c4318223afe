// internal/common/database/sql.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"leasing-wizard/internal/common/config"
)

// SQLClient wraps a SQL connection pool together with the driver it was opened with.
type SQLClient struct {
	DB     *sql.DB
	Driver string
}

// Open connects to the database selected by cfg.Driver.
func Open(cfg config.DatabaseConfig) (*SQLClient, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return NewPostgres(cfg.Postgres)
	case config.DriverSQLite:
		return NewSQLite(cfg.SQLite)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// NewSQLClient wraps an existing *sql.DB, e.g. one returned by sqlmock.
func NewSQLClient(db *sql.DB, driver string) *SQLClient {
	return &SQLClient{DB: db, Driver: driver}
}

// Ping tests the database connection
func (c *SQLClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Close closes the database connection
func (c *SQLClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

var placeholder = regexp.MustCompile(`\$\d+`)

// Rebind rewrites postgres-style $N placeholders for the client's driver.
// Queries must reference each placeholder once and in order.
func (c *SQLClient) Rebind(query string) string {
	if c.Driver != config.DriverSQLite {
		return query
	}
	return placeholder.ReplaceAllString(query, "?")
}
