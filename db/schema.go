// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/party-registry/cliparse"
)

// Open connects to the configured database and sizes the pool. The
// connection is verified with a ping before returning.
func Open(ctx context.Context, cfg cliparse.Config) (*sqlx.DB, error) {
	dsn := cfg.DatabaseURL
	if cfg.DatabaseType == cliparse.DatabaseSQLite {
		dsn = sqliteDSN(dsn)
	}

	conn, err := sqlx.Open(driverName(cfg.DatabaseType), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = cliparse.DefaultMaxOpenConns
	}
	conn.SetMaxOpenConns(maxOpen)
	conn.SetMaxIdleConns(maxOpen)
	conn.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

func driverName(databaseType string) string {
	if databaseType == cliparse.DatabaseSQLite {
		return "sqlite"
	}
	return "postgres"
}

// sqliteDSN makes the driver write timestamps in SQLite's own sortable
// format instead of time.Time.String()
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_time_format=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_time_format=sqlite"
}

// CreateSchema creates the party table for the connection's dialect.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, conn *sqlx.DB) error {
	ddl := postgresSchema
	if conn.DriverName() == "sqlite" {
		ddl = sqliteSchema
	}

	_, err := conn.ExecContext(ctx, ddl)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS party (
    id TEXT PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    abbreviation VARCHAR(50) NOT NULL,
    ideology VARCHAR(255),
    founding_date DATE NOT NULL,
    headquarters VARCHAR(255) NOT NULL,
    representative_color VARCHAR(50),
    logo_url VARCHAR(255),
    active BOOLEAN NOT NULL DEFAULT TRUE,
    registered_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_party_active_registered ON party(active, registered_at DESC);
CREATE INDEX IF NOT EXISTS idx_party_ideology ON party(ideology);
`

// SQLite keeps founding_date as TEXT so the driver hands back the
// YYYY-MM-DD string unchanged.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS party (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    abbreviation TEXT NOT NULL,
    ideology TEXT,
    founding_date TEXT NOT NULL,
    headquarters TEXT NOT NULL,
    representative_color TEXT,
    logo_url TEXT,
    active BOOLEAN NOT NULL DEFAULT 1,
    registered_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_party_active_registered ON party(active, registered_at DESC);
CREATE INDEX IF NOT EXISTS idx_party_ideology ON party(ideology);
`
