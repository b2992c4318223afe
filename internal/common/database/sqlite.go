// internal/common/database/sqlite.go
package database

import (
	"database/sql"
	"fmt"

	"leasing-wizard/internal/common/config"

	_ "modernc.org/sqlite"
)

// NewSQLite opens a local SQLite database, used in development in place of postgres.
func NewSQLite(cfg config.SQLiteConfig) (*SQLClient, error) {
	dsn := cfg.Path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	return &SQLClient{DB: db, Driver: config.DriverSQLite}, nil
}
