// Package sqlite provides the SQLite-backed world store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	sqlitemigrate "github.com/louisbranch/worldseed/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/worldseed/internal/platform/timeouts"
	"github.com/louisbranch/worldseed/internal/storage"
	"github.com/louisbranch/worldseed/internal/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

var dsnPragmas = fmt.Sprintf(
	"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)",
	timeouts.StoreBusy.Milliseconds(),
)

// Store persists world records in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite world store and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	sqlDB, err := sql.Open("sqlite", filepath.Clean(path)+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// QueryRowContext runs a single-row read.
func (s *Store) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return s.sqlDB.QueryRowContext(ctx, query, args...)
}

// QueryContext runs a multi-row read.
func (s *Store) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.sqlDB.QueryContext(ctx, query, args...)
}

// WithTx runs fn inside one transaction. The transaction commits only when fn
// returns nil; any error or panic rolls every write back.
func (s *Store) WithTx(ctx context.Context, fn func(tx storage.Tx) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if fn == nil {
		return fmt.Errorf("transaction function is required")
	}

	sqlTx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rollbackErr := sqlTx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) && err != nil {
			err = fmt.Errorf("%w: rollback: %v", err, rollbackErr)
		}
	}()

	if err := fn(&tx{sqlTx: sqlTx}); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	return nil
}

type tx struct {
	sqlTx *sql.Tx
}

func (t *tx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return t.sqlTx.QueryRowContext(ctx, query, args...)
}

func (t *tx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return t.sqlTx.QueryContext(ctx, query, args...)
}

func (t *tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	result, err := t.sqlTx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	return result, nil
}

func (t *tx) Insert(ctx context.Context, table string, row storage.Row) (int64, error) {
	columns := row.Columns()
	if err := storage.CheckIdentifiers(table, columns); err != nil {
		return 0, err
	}
	result, err := t.sqlTx.ExecContext(ctx, insertSQL(table, columns), row.Values(columns)...)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", table, classify(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert %s: read generated id: %w", table, err)
	}
	return id, nil
}

func (t *tx) InsertBatch(ctx context.Context, table string, rows []storage.Row) error {
	if len(rows) == 0 {
		return nil
	}
	columns := rows[0].Columns()
	if err := storage.CheckIdentifiers(table, columns); err != nil {
		return err
	}
	for i, row := range rows[1:] {
		if !sameColumns(columns, row.Columns()) {
			return fmt.Errorf("insert batch %s: row %d columns differ from row 0", table, i+1)
		}
	}

	stmt, err := t.sqlTx.PrepareContext(ctx, insertSQL(table, columns))
	if err != nil {
		return fmt.Errorf("prepare insert batch %s: %w", table, err)
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, row.Values(columns)...); err != nil {
			return fmt.Errorf("insert batch %s row %d: %w", table, i, classify(err))
		}
	}
	return nil
}

func insertSQL(table string, columns []string) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	return "INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ") VALUES (" + placeholders + ")"
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// classify tags constraint violations with storage.ErrConflict.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY,
			sqlite3lib.SQLITE_CONSTRAINT_UNIQUE,
			sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY,
			sqlite3lib.SQLITE_CONSTRAINT_NOTNULL,
			sqlite3lib.SQLITE_CONSTRAINT_CHECK:
			return fmt.Errorf("%w: %v", storage.ErrConflict, err)
		}
	}
	if strings.Contains(strings.ToLower(err.Error()), "constraint failed") {
		return fmt.Errorf("%w: %v", storage.ErrConflict, err)
	}
	return err
}

var _ storage.Store = (*Store)(nil)
