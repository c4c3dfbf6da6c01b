package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/recstore/internal/record"
	"github.com/roach88/recstore/internal/schema"
)

// Push stores a record and returns its id, choosing the operation itself:
//   - table absent: create it from the record's shape, then insert
//   - record carries an id (any letter case, not null or empty): Update
//   - otherwise: Insert with the given strategy
//
// On the create path the record's id is ignored and strategy fixes the key
// type for the table's lifetime. Create and first insert share a transaction.
// An empty record pushed to a missing table creates nothing and returns "".
func (s *Store) Push(ctx context.Context, table string, rec *record.Record, strategy schema.Strategy) (string, error) {
	var id string
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.push(ctx, tx, table, rec, strategy)
		return err
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) push(ctx context.Context, tx *sql.Tx, table string, rec *record.Record, strategy schema.Strategy) (string, error) {
	exists, err := tableExists(ctx, tx, table)
	if err != nil {
		return "", fmt.Errorf("push: %w", err)
	}

	if !exists {
		data := rec.Data()
		created, err := s.createTable(ctx, tx, table, data, strategy)
		if err != nil {
			return "", err
		}
		if !created {
			return "", nil
		}
		return s.insert(ctx, tx, table, data, strategy)
	}

	if rec.HasID() {
		return s.update(ctx, tx, table, rec)
	}
	return s.insert(ctx, tx, table, rec, strategy)
}
