package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/recstore/internal/seed"
	"github.com/roach88/recstore/internal/store"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	Strategy string
}

// SeedResult is the output of seed.
type SeedResult struct {
	Tables []seed.Result `json:"tables"`
}

func (r SeedResult) String() string {
	lines := make([]string, len(r.Tables))
	for i, t := range r.Tables {
		lines[i] = fmt.Sprintf("%s: %s", t.Table, strings.Join(t.IDs, ", "))
	}
	return strings.Join(lines, "\n")
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Push the records of a YAML fixture",
		Long: `Push every record of a YAML fixture in order and print the ids per table.

Fixture format:
  tables:
    - name: npcs
      strategy: sequential   # optional
      records:
        - {name: Willy the Goblin, health: 67.8, gold: 999}

Tables without a strategy keep the one they were created with, or use
--strategy (default from config) when they are new.

Example:
  recstore seed --db game.db fixtures/npcs.yaml`,
		Args:          exactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Strategy, "strategy", "", "key strategy for new tables without one (sequential|uuid)")

	return cmd
}

func runSeed(opts *SeedOptions, path string, cmd *cobra.Command) error {
	s, err := opts.newSession(cmd)
	if err != nil {
		return err
	}
	strategy, err := s.strategy(opts.Strategy)
	if err != nil {
		return err
	}

	fixture, err := seed.Load(path)
	if err != nil {
		return s.fail(&inputError{err})
	}
	s.out.VerboseLog("Loaded %d table(s) from %s", len(fixture.Tables), path)

	return s.withStore(commandContext(cmd), func(ctx context.Context, st *store.Store) error {
		results, err := seed.Run(ctx, st, fixture, strategy)
		if err != nil {
			for _, r := range results {
				s.log.Info("seeded before failure", "table", r.Table, "ids", r.IDs)
			}
			return s.fail(err)
		}
		return s.out.Success(SeedResult{Tables: results})
	})
}
