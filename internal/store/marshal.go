package store

import (
	"database/sql"
	"fmt"

	"github.com/roach88/recstore/internal/record"
)

// bindRecord splits a record into column names and bound arguments in field
// order. Id fields are skipped; the key is never bound as data.
func bindRecord(rec *record.Record) (columns []string, args []any) {
	columns = make([]string, 0, rec.Len())
	args = make([]any, 0, rec.Len())
	for k, v := range rec.All() {
		if record.IsIDField(k) {
			continue
		}
		columns = append(columns, k)
		args = append(args, record.Bind(v))
	}
	return columns, args
}

// scanRecord scans the current row into a Record in the store's column order.
// The id column is coerced to Text whatever its storage type.
func scanRecord(rows *sql.Rows) (*record.Record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	raw := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	rec := record.New()
	for i, name := range columns {
		v, err := record.FromDriver(raw[i])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		if record.IsIDField(name) {
			v = record.Text(record.String(v))
		}
		rec.Set(name, v)
	}
	return rec, nil
}
