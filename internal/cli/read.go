package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/recstore/internal/store"
)

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <table> <id>",
		Short: "Print the row with the given id",
		Long: `Print a row as a JSON object in column order.

Example:
  recstore get --db game.db npcs 1`,
		Args:          exactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(rootOpts, args[0], args[1], cmd)
		},
	}

	return cmd
}

func runGet(opts *RootOptions, table, id string, cmd *cobra.Command) error {
	s, err := opts.newSession(cmd)
	if err != nil {
		return err
	}

	return s.withStore(commandContext(cmd), func(ctx context.Context, st *store.Store) error {
		rec, err := st.Select(ctx, table, id)
		if err != nil {
			return s.fail(err)
		}
		return s.out.Success(rec)
	})
}

// ExistsResult is the output of exists.
type ExistsResult struct {
	Table  string `json:"table"`
	Exists bool   `json:"exists"`
}

func (r ExistsResult) String() string { return strconv.FormatBool(r.Exists) }

// NewExistsCommand creates the exists command.
func NewExistsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "exists <table>",
		Short:         "Print whether a table exists",
		Args:          exactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExists(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runExists(opts *RootOptions, table string, cmd *cobra.Command) error {
	s, err := opts.newSession(cmd)
	if err != nil {
		return err
	}

	return s.withStore(commandContext(cmd), func(ctx context.Context, st *store.Store) error {
		exists, err := st.TableExists(ctx, table)
		if err != nil {
			return s.fail(err)
		}
		return s.out.Success(ExistsResult{Table: table, Exists: exists})
	})
}

// TablesResult is the output of tables.
type TablesResult struct {
	Tables []string `json:"tables"`
}

func (r TablesResult) String() string { return strings.Join(r.Tables, "\n") }

// NewTablesCommand creates the tables command.
func NewTablesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tables",
		Short:         "List tables in name order",
		Args:          noArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTables(rootOpts, cmd)
		},
	}

	return cmd
}

func runTables(opts *RootOptions, cmd *cobra.Command) error {
	s, err := opts.newSession(cmd)
	if err != nil {
		return err
	}

	return s.withStore(commandContext(cmd), func(ctx context.Context, st *store.Store) error {
		tables, err := st.Tables(ctx)
		if err != nil {
			return s.fail(err)
		}
		return s.out.Success(TablesResult{Tables: tables})
	})
}

// ColumnInfo describes one column in describe output.
type ColumnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Description is the output of describe.
type Description struct {
	Table    string       `json:"table"`
	Strategy string       `json:"strategy"`
	Columns  []ColumnInfo `json:"columns"`
}

func (d Description) String() string {
	width := 0
	for _, c := range d.Columns {
		width = max(width, len(c.Name))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s keys)", d.Table, d.Strategy)
	for _, c := range d.Columns {
		typ := c.Type
		if typ == "" {
			typ = "-"
		}
		fmt.Fprintf(&b, "\n  %-*s  %s", width, c.Name, typ)
	}
	return b.String()
}

// NewDescribeCommand creates the describe command.
func NewDescribeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe <table>",
		Short: "Show a table's columns and key strategy",
		Long: `Show the columns of a table in order with their declared types, and the
key strategy recovered from the id column. Fails with NOT_FOUND when the
table does not exist.`,
		Args:          exactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runDescribe(opts *RootOptions, table string, cmd *cobra.Command) error {
	s, err := opts.newSession(cmd)
	if err != nil {
		return err
	}

	return s.withStore(commandContext(cmd), func(ctx context.Context, st *store.Store) error {
		cols, err := st.Columns(ctx, table)
		if err != nil {
			return s.fail(err)
		}
		strategy, ok, err := st.Strategy(ctx, table)
		if err != nil {
			return s.fail(err)
		}

		d := Description{Table: table, Strategy: "unknown", Columns: make([]ColumnInfo, len(cols))}
		if ok {
			d.Strategy = strategy.String()
		}
		for i, c := range cols {
			d.Columns[i] = ColumnInfo{Name: c.Name, Type: string(c.Type)}
		}
		return s.out.Success(d)
	})
}
