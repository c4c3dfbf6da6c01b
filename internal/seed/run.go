package seed

import (
	"context"
	"fmt"

	"github.com/roach88/recstore/internal/schema"
	"github.com/roach88/recstore/internal/store"
)

// Result lists the ids returned for one fixture table, in record order.
// An empty string marks a record that wrote nothing.
type Result struct {
	Table string   `json:"table"`
	IDs   []string `json:"ids"`
}

// Run pushes every fixture record through Store.Push.
//
// A table's strategy comes from the fixture, then from the existing table,
// then from def. Run stops at the first failing record; earlier pushes stay
// committed.
func Run(ctx context.Context, s *store.Store, f *Fixture, def schema.Strategy) ([]Result, error) {
	results := make([]Result, 0, len(f.Tables))

	for _, t := range f.Tables {
		strategy, err := tableStrategy(ctx, s, t, def)
		if err != nil {
			return results, err
		}

		res := Result{Table: t.Name, IDs: make([]string, 0, len(t.Records))}
		for i, row := range t.Records {
			id, err := s.Push(ctx, t.Name, row.Record, strategy)
			if err != nil {
				results = append(results, res)
				return results, fmt.Errorf("seed %s record %d: %w", t.Name, i, err)
			}
			res.IDs = append(res.IDs, id)
		}
		results = append(results, res)
	}

	return results, nil
}

func tableStrategy(ctx context.Context, s *store.Store, t Table, def schema.Strategy) (schema.Strategy, error) {
	if t.Strategy != "" {
		return schema.ParseStrategy(t.Strategy)
	}
	existing, ok, err := s.Strategy(ctx, t.Name)
	if err != nil {
		return 0, fmt.Errorf("seed %s: %w", t.Name, err)
	}
	if ok {
		return existing, nil
	}
	return def, nil
}
