// Package sqlitedb opens the embedded SQLite database used by single-node
// deployments and tests, and applies the schema to it.
package sqlitedb

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	schema "github.com/shandysiswandi/coursebell/db"
	"github.com/shandysiswandi/coursebell/internal/pkg/goerror"
	_ "modernc.org/sqlite"
)

// Open opens dsn with the sqlite driver. ":memory:" keeps a single
// connection so every query sees the same database.
func Open(dsn string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		conn.SetMaxOpenConns(1)
	}

	return conn, nil
}

// Migrate applies the embedded schema. Every statement is idempotent.
func Migrate(ctx context.Context, conn *sql.DB) error {
	stmts, err := schema.UpMigrations()
	if err != nil {
		return err
	}

	for _, stmt := range stmts {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// MapError converts driver errors to the goerror sentinels.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return goerror.ErrNotFound
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return goerror.ErrConflict
	}

	return err
}

// Millis is the stored form of a timestamp.
func Millis(t time.Time) int64 { return t.UnixMilli() }

// FromMillis restores a stored timestamp in UTC.
func FromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }
