package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/roach88/recstore/internal/record"
	"github.com/roach88/recstore/internal/schema"
)

// CreateTable creates a table shaped like sample with the given key strategy.
//
// A sample with no data fields is a no-op. The sample's id field, if any, is
// ignored. Returns ErrSchemaMismatch if the table already exists; callers
// that may race with an earlier create should check TableExists first.
func (s *Store) CreateTable(ctx context.Context, table string, sample *record.Record, strategy schema.Strategy) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := s.createTable(ctx, tx, table, sample, strategy)
		return err
	})
}

func (s *Store) createTable(ctx context.Context, tx *sql.Tx, table string, sample *record.Record, strategy schema.Strategy) (bool, error) {
	def, ok := schema.Build(table, sample, strategy)
	if !ok {
		return false, nil
	}

	exists, err := tableExists(ctx, tx, table)
	if err != nil {
		return false, fmt.Errorf("create table: %w", err)
	}
	if exists {
		return false, newSchemaMismatch(table)
	}

	if _, err := tx.ExecContext(ctx, def.CreateSQL()); err != nil {
		return false, fmt.Errorf("create table: %w", err)
	}

	s.log.Debug("table created", "table", table, "strategy", strategy.String(), "columns", len(def.Columns))
	return true, nil
}

// Insert adds a row and returns its id.
//
// The record's id field is never stored: Sequential tables get a store
// assigned key, RandomUUID tables a freshly generated one. A record with no
// data fields is a no-op returning "". Returns ErrStrategyMismatch if the
// table was created with the other strategy.
func (s *Store) Insert(ctx context.Context, table string, rec *record.Record, strategy schema.Strategy) (string, error) {
	var id string
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.insert(ctx, tx, table, rec, strategy)
		return err
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) insert(ctx context.Context, tx *sql.Tx, table string, rec *record.Record, strategy schema.Strategy) (string, error) {
	data := rec.Data()
	if data.Len() == 0 {
		return "", nil
	}

	have, known, err := tableStrategy(ctx, tx, table)
	if err != nil {
		return "", fmt.Errorf("insert: %w", err)
	}
	if known && have != strategy {
		return "", newStrategyMismatch(table, have, strategy)
	}

	var id string
	columns, args := bindRecord(data)
	if strategy == schema.RandomUUID {
		id = s.ids.Generate()
		columns = append([]string{record.IDField}, columns...)
		args = append([]any{id}, args...)
	}

	result, err := tx.ExecContext(ctx, insertSQL(table, columns), args...)
	if err != nil {
		return "", fmt.Errorf("insert: %w", err)
	}

	if strategy == schema.Sequential {
		rowID, err := result.LastInsertId()
		if err != nil {
			return "", fmt.Errorf("insert: last insert id: %w", err)
		}
		id = strconv.FormatInt(rowID, 10)
	}

	s.log.Debug("row inserted", "table", table, "id", id)
	return id, nil
}

// Update overwrites the fields of the row named by the record's id and
// returns that id.
//
// Returns ErrMissingIdentifier if the record has no id, ErrInvalidIdentifier
// if the id is a Bool or fractional Float, and ErrNotFound if no row has it. The id is compared as a string, which matches both integer and
// text keys. A record holding only an id changes nothing.
func (s *Store) Update(ctx context.Context, table string, rec *record.Record) (string, error) {
	var id string
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.update(ctx, tx, table, rec)
		return err
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) update(ctx context.Context, tx *sql.Tx, table string, rec *record.Record) (string, error) {
	if !rec.HasID() {
		return "", newMissingIdentifier(table)
	}
	id, ok := rec.ID()
	if !ok {
		v, _ := rec.IDValue()
		return "", newInvalidIdentifier(table, v)
	}

	data := rec.Data()
	if data.Len() == 0 {
		var count int
		if err := tx.QueryRowContext(ctx, countSQL(table), id).Scan(&count); err != nil {
			return "", fmt.Errorf("update: %w", err)
		}
		if count == 0 {
			return "", newNotFound(table, id)
		}
		return id, nil
	}

	columns, args := bindRecord(data)
	args = append(args, id)

	result, err := tx.ExecContext(ctx, updateSQL(table, columns), args...)
	if err != nil {
		return "", fmt.Errorf("update: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("update: rows affected: %w", err)
	}
	if n == 0 {
		return "", newNotFound(table, id)
	}

	s.log.Debug("row updated", "table", table, "id", id, "fields", len(columns))
	return id, nil
}
