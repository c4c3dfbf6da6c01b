package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/roach88/recstore/internal/record"
	"github.com/roach88/recstore/internal/schema"
)

// querier is implemented by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TableExists reports whether the catalog lists a table with this name.
func (s *Store) TableExists(ctx context.Context, table string) (bool, error) {
	exists, err := tableExists(ctx, s.db, table)
	if err != nil {
		return false, fmt.Errorf("table exists: %w", err)
	}
	return exists, nil
}

func tableExists(ctx context.Context, q querier, table string) (bool, error) {
	var count int
	if err := q.QueryRowContext(ctx, tableExistsSQL, table).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Select returns the row with the given id.
//
// Fields follow the table's column order. The id field is always Text; the
// other fields keep their storage type, so booleans read back as "True" or
// "False" text. Returns ErrNotFound if no row matches.
func (s *Store) Select(ctx context.Context, table, id string) (rec *record.Record, err error) {
	rows, err := s.db.QueryContext(ctx, selectSQL(table), id)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	// Ensure Close error is propagated if no earlier error occurred.
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("select: %w", cerr)
		}
	}()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("select: %w", err)
		}
		return nil, newNotFound(table, id)
	}

	rec, err = scanRecord(rows)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	return rec, nil
}

// Tables returns the names of all user tables, sorted.
// Returns an empty slice (not nil) for an empty database.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, tablesSQL)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	tables := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}
	return tables, nil
}

// Columns returns every column of a table, id included, in declaration
// order. Returns ErrNotFound if the table does not exist.
func (s *Store) Columns(ctx context.Context, table string) ([]schema.Column, error) {
	cols, err := tableColumns(ctx, s.db, table)
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	if len(cols) == 0 {
		return nil, &Error{Code: ErrCodeNotFound, Message: "table not found", Table: table}
	}
	return cols, nil
}

// Strategy returns the key strategy a table was created with, recovered from
// the declared type of its id column. ok is false for tables this package did
// not create.
func (s *Store) Strategy(ctx context.Context, table string) (strategy schema.Strategy, ok bool, err error) {
	strategy, ok, err = tableStrategy(ctx, s.db, table)
	if err != nil {
		return 0, false, fmt.Errorf("strategy: %w", err)
	}
	return strategy, ok, nil
}

func tableColumns(ctx context.Context, q querier, table string) ([]schema.Column, error) {
	rows, err := q.QueryContext(ctx, columnsSQL, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []schema.Column
	for rows.Next() {
		var name, declType string
		if err := rows.Scan(&name, &declType); err != nil {
			return nil, err
		}
		cols = append(cols, schema.Column{
			Name: name,
			Type: record.ColumnType(strings.ToLower(declType)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cols, nil
}

func tableStrategy(ctx context.Context, q querier, table string) (schema.Strategy, bool, error) {
	cols, err := tableColumns(ctx, q, table)
	if err != nil {
		return 0, false, err
	}
	for _, c := range cols {
		if c.Name == record.IDField {
			strategy, ok := schema.StrategyForIDType(string(c.Type))
			return strategy, ok, nil
		}
	}
	return 0, false, nil
}
