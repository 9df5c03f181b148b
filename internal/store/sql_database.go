// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-pim-sync/internal/logger"
	"github.com/MKhiriev/go-pim-sync/migrations"
)

// Dialect names the SQL flavour a [DB] talks to.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "pgx"
)

type DB struct {
	*sql.DB
	dialect            Dialect
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// NewConnect opens the database described by dsn. DSNs starting with
// postgres:// or postgresql:// select PostgreSQL; anything else is treated
// as a SQLite file path (an optional sqlite:// prefix is stripped).
func NewConnect(ctx context.Context, dsn string, log *logger.Logger) (*DB, error) {
	if DialectFor(dsn) == DialectPostgres {
		return NewConnectPostgres(ctx, dsn, log)
	}
	return NewConnectSQLite(ctx, strings.TrimPrefix(dsn, "sqlite://"), log)
}

// DialectFor returns the dialect selected by dsn.
func DialectFor(dsn string) Dialect {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

func (db *DB) Dialect() Dialect { return db.dialect }

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, string(db.dialect))
}

// builder returns a squirrel statement builder using the placeholder
// format of the dialect.
func (db *DB) builder() sq.StatementBuilderType {
	if db.dialect == DialectPostgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

const (
	execAttempts = 3
	execBackoff  = 50 * time.Millisecond
)

// execRetrying runs a statement, repeating it while the dialect classifies
// the failure as retryable. SQLite reports a busy file this way when a
// second process holds the write lock.
func (db *DB) execRetrying(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var (
		result sql.Result
		err    error
	)
	for attempt := 1; ; attempt++ {
		result, err = db.ExecContext(ctx, query, args...)
		if err == nil || attempt == execAttempts || !db.retryable(err) {
			return result, err
		}

		db.logger.Debug().Err(err).Int("attempt", attempt).Msg("retrying statement")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(execBackoff * time.Duration(attempt)):
		}
	}
}

func (db *DB) retryable(err error) bool {
	return db.errorClassificator != nil && db.errorClassificator.Classify(err) == Retryable
}

func (db *DB) isUniqueViolation(err error) bool {
	if db.errorClassificator == nil {
		return false
	}
	return db.errorClassificator.IsUniqueViolation(err)
}
