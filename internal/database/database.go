// Package database provides database connection management and utilities.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// SupportedDrivers lists the drivers the repositories implement.
var SupportedDrivers = []string{"postgres", "mysql"}

// Config holds database configuration settings.
type Config struct {
	Driver             string
	ConnectionString   string
	MaxOpenConnections int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// Connect establishes a database connection with the given configuration and
// verifies it with a ping. Drivers without a repository implementation are
// rejected up front.
func Connect(ctx context.Context, cfg Config) (*sql.DB, error) {
	if !slices.Contains(SupportedDrivers, cfg.Driver) {
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
