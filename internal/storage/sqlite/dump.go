package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	sqlitemigrate "github.com/louisbranch/worldseed/internal/platform/storage/sqlitemigrate"
)

// Dump writes every row of every user table in a stable text form: tables
// by name, rows by rowid, one `table: col=value ...` line per row.
func (s *Store) Dump(ctx context.Context, w io.Writer) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	tables, err := s.tables(ctx)
	if err != nil {
		return err
	}
	for _, table := range tables {
		if err := s.dumpTable(ctx, w, table); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) tables(ctx context.Context) ([]string, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT name FROM sqlite_master
 WHERE type = 'table'
   AND name NOT LIKE 'sqlite_%'
   AND name <> ?
 ORDER BY name`, sqlitemigrate.Table)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list tables: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func (s *Store) dumpTable(ctx context.Context, w io.Writer, table string) error {
	rows, err := s.sqlDB.QueryContext(ctx, "SELECT * FROM "+table+" ORDER BY rowid")
	if err != nil {
		return fmt.Errorf("dump %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("dump %s: %w", table, err)
	}
	values := make([]sql.NullString, len(columns))
	targets := make([]any, len(columns))
	for i := range values {
		targets[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(targets...); err != nil {
			return fmt.Errorf("dump %s: %w", table, err)
		}
		var line strings.Builder
		line.WriteString(table)
		line.WriteString(":")
		for i, column := range columns {
			value := "NULL"
			if values[i].Valid {
				value = fmt.Sprintf("%q", values[i].String)
			}
			fmt.Fprintf(&line, " %s=%s", column, value)
		}
		line.WriteString("\n")
		if _, err := io.WriteString(w, line.String()); err != nil {
			return err
		}
	}
	return rows.Err()
}
