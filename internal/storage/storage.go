// Package storage defines the narrow data-store contract seeders depend on.
//
// Reads go through Reader. Writes only happen inside Store.WithTx, whose Tx
// is committed when the callback returns nil and rolled back otherwise.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"sort"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidIdentifier indicates a table or column name that cannot be quoted safely.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrEmptyRow indicates an insert without columns.
	ErrEmptyRow = errors.New("row has no columns")
	// ErrConflict indicates a write rejected by a uniqueness or key constraint.
	ErrConflict = errors.New("constraint conflict")
)

// Reader runs read-only queries.
type Reader interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Tx is one open write transaction.
type Tx interface {
	Reader
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	// Insert writes one row and returns its generated identifier. The row is
	// visible to later statements in the same transaction when Insert returns.
	Insert(ctx context.Context, table string, row Row) (int64, error)
	// InsertBatch writes rows that share one column set through a single
	// prepared statement. Use it when no row needs another row's identifier.
	InsertBatch(ctx context.Context, table string, rows []Row) error
}

// Store is a transactional relational store.
type Store interface {
	Reader
	WithTx(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}

// Row maps column names to values for one insert.
type Row map[string]any

// Columns returns the row's column names in sorted order.
func (r Row) Columns() []string {
	columns := make([]string, 0, len(r))
	for column := range r {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	return columns
}

// Values returns the row's values in the given column order.
func (r Row) Values(columns []string) []any {
	values := make([]any, len(columns))
	for i, column := range columns {
		values[i] = r[column]
	}
	return values
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether name can be used unquoted as a table or column.
func ValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// CheckIdentifiers validates a table name and its columns.
func CheckIdentifiers(table string, columns []string) error {
	if !ValidIdentifier(table) {
		return fmt.Errorf("%w: table %q", ErrInvalidIdentifier, table)
	}
	if len(columns) == 0 {
		return fmt.Errorf("%w: table %s", ErrEmptyRow, table)
	}
	for _, column := range columns {
		if !ValidIdentifier(column) {
			return fmt.Errorf("%w: column %q", ErrInvalidIdentifier, column)
		}
	}
	return nil
}

// Exists reports whether query returns at least one row.
func Exists(ctx context.Context, r Reader, query string, args ...any) (bool, error) {
	var marker int
	err := r.QueryRowContext(ctx, "SELECT 1 WHERE EXISTS ("+query+")", args...).Scan(&marker)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check exists: %w", err)
	}
	return true, nil
}

// Count returns the number of rows in table.
func Count(ctx context.Context, r Reader, table string) (int64, error) {
	if !ValidIdentifier(table) {
		return 0, fmt.Errorf("%w: table %q", ErrInvalidIdentifier, table)
	}
	var count int64
	if err := r.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return count, nil
}

// IDs returns the integer identifiers selected by query in result order.
func IDs(ctx context.Context, r Reader, query string, args ...any) ([]int64, error) {
	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list ids: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list ids: %w", err)
	}
	return ids, nil
}
