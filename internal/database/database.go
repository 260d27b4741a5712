// Package database centralises sqlx connection helpers for the contact
// submission store.  The driver is go-sql-driver/mysql, which also works
// with MariaDB.
//
// Public entry points:
//
//	DSN(template, password)             – fills the %s password verb.
//	Open(ctx, dsn)                      – conservative pool sizes + Ping.
//	OpenWithOptions(ctx, dsn, open, idle) – fine-grained control.
//	Migrate(ctx, db)                    – creates the tables it owns.
//
// Callers should Close() the returned *sqlx.DB on shutdown.
package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// DSN substitutes password into template and forces parseTime so DATETIME
// columns scan into time.Time.
func DSN(template, password string) (string, error) {
	dsn := strings.Replace(template, "%s", password, 1)
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("database dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// Open returns a *sqlx.DB with 10 max open, 3 idle, and a 30-minute
// connection lifetime.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	return OpenWithOptions(ctx, dsn, 10, 3)
}

// OpenWithOptions lets callers tune maxOpen and maxIdle.
func OpenWithOptions(ctx context.Context, dsn string, maxOpen, maxIdle int) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}
	return db, nil
}

// Migrate applies stmts in order.  Callers pass idempotent DDL (components
// expose theirs through Migrations), so Migrate runs on every start.
func Migrate(ctx context.Context, db *sqlx.DB, stmts ...string) error {
	for i, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i, err)
		}
	}
	return nil
}
