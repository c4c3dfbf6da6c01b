package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/recstore/internal/schema"
	"github.com/roach88/recstore/internal/store"
)

// WriteOptions holds flags for push and create.
type WriteOptions struct {
	*RootOptions
	Strategy string
	DryRun   bool
}

// WriteResult is the output of push and update.
type WriteResult struct {
	Table string `json:"table"`
	ID    string `json:"id"`
}

func (r WriteResult) String() string { return r.ID }

// NewPushCommand creates the push command.
func NewPushCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WriteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "push <table> <json>",
		Short: "Store a record, creating the table on first use",
		Long: `Store a record and print its id.

If the table does not exist it is created from the record's fields and the
record is inserted. Otherwise a record with an "id" field updates that row
and a record without one is inserted. Pass "-" to read the record from stdin.

Example:
  recstore push --db game.db npcs '{"name":"Willy the Goblin","health":67.8,"gold":999}'
  recstore push --db game.db npcs '{"id":"1","name":"Helga"}'
  recstore push --db hr.db employees --strategy uuid '{"first":"Ada"}'`,
		Args:          exactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPush(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Strategy, "strategy", "", "key strategy when the table is created (sequential|uuid)")

	return cmd
}

func runPush(opts *WriteOptions, table, arg string, cmd *cobra.Command) error {
	s, err := opts.newSession(cmd)
	if err != nil {
		return err
	}
	strategy, err := s.strategy(opts.Strategy)
	if err != nil {
		return err
	}
	rec, err := readRecord(arg, cmd.InOrStdin())
	if err != nil {
		return s.fail(err)
	}

	return s.withStore(commandContext(cmd), func(ctx context.Context, st *store.Store) error {
		id, err := st.Push(ctx, table, rec, strategy)
		if err != nil {
			return s.fail(err)
		}
		s.out.VerboseLog("pushed %s id=%q", table, id)
		return s.out.Success(WriteResult{Table: table, ID: id})
	})
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <table> <json>",
		Short: "Update the row named by the record's id",
		Long: `Update an existing row and print its id.

The record must carry an "id" field. Only the fields present are changed.
Fails with NOT_FOUND when no row has that id.

Example:
  recstore update --db game.db npcs '{"id":"1","gold":0}'`,
		Args:          exactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(rootOpts, args[0], args[1], cmd)
		},
	}

	return cmd
}

func runUpdate(opts *RootOptions, table, arg string, cmd *cobra.Command) error {
	s, err := opts.newSession(cmd)
	if err != nil {
		return err
	}
	rec, err := readRecord(arg, cmd.InOrStdin())
	if err != nil {
		return s.fail(err)
	}

	return s.withStore(commandContext(cmd), func(ctx context.Context, st *store.Store) error {
		id, err := st.Update(ctx, table, rec)
		if err != nil {
			return s.fail(err)
		}
		return s.out.Success(WriteResult{Table: table, ID: id})
	})
}

// CreateResult is the output of create.
type CreateResult struct {
	Table   string `json:"table"`
	Created bool   `json:"created"`
	SQL     string `json:"sql,omitempty"`
}

func (r CreateResult) String() string {
	if r.SQL != "" {
		return r.SQL
	}
	if !r.Created {
		return fmt.Sprintf("nothing to create for %s: record has no data fields", r.Table)
	}
	return fmt.Sprintf("created table %s", r.Table)
}

// NewCreateCommand creates the create command.
func NewCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WriteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create <table> <json>",
		Short: "Create a table from a sample record",
		Long: `Create a table whose columns follow a sample record.

Column types come from the sample values: integers become integer columns,
floats real, strings and booleans text, and nulls untyped. The sample's "id"
field is ignored; the id column follows --strategy. Fails with
SCHEMA_MISMATCH when the table already exists.

With --dry-run the create statement is printed and nothing is opened.

Example:
  recstore create --db game.db npcs '{"name":"","health":0.0,"gold":0}'
  recstore create --dry-run npcs '{"name":"","gold":0}'`,
		Args:          exactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Strategy, "strategy", "", "key strategy (sequential|uuid)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print the create statement without executing it")

	return cmd
}

func runCreate(opts *WriteOptions, table, arg string, cmd *cobra.Command) error {
	s, err := opts.newSession(cmd)
	if err != nil {
		return err
	}
	strategy, err := s.strategy(opts.Strategy)
	if err != nil {
		return err
	}
	sample, err := readRecord(arg, cmd.InOrStdin())
	if err != nil {
		return s.fail(err)
	}

	def, ok := schema.Build(table, sample, strategy)
	if opts.DryRun {
		res := CreateResult{Table: table}
		if ok {
			res.SQL = def.CreateSQL()
		}
		return s.out.Success(res)
	}

	return s.withStore(commandContext(cmd), func(ctx context.Context, st *store.Store) error {
		if err := st.CreateTable(ctx, table, sample, strategy); err != nil {
			return s.fail(err)
		}
		return s.out.Success(CreateResult{Table: table, Created: ok})
	})
}
