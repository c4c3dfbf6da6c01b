package cli

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/recstore/internal/config"
	"github.com/roach88/recstore/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	Database   string
	Driver     string
	ConfigPath string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the recstore CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "recstore",
		Short: "recstore - schemaless records in SQLite",
		Long: `Store flat records in SQLite tables without declaring a schema.

The first record pushed to a table defines its columns; later records are
inserted, or updated when they carry an id.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", "", "database driver (sqlite3|sqlite)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (.yaml, .yml or .cue)")

	// Add subcommands
	cmd.AddCommand(NewPushCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewCreateCommand(opts))
	cmd.AddCommand(NewExistsCommand(opts))
	cmd.AddCommand(NewTablesCommand(opts))
	cmd.AddCommand(NewDescribeCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))

	return cmd
}

// exactArgs is cobra.ExactArgs with a command-error exit code.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return WrapExitError(ExitCommandError, "invalid arguments", err)
		}
		return nil
	}
}

// noArgs is cobra.NoArgs with a command-error exit code.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return WrapExitError(ExitCommandError, "invalid arguments", err)
	}
	return nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// session is the per-command state shared by every subcommand.
type session struct {
	cfg config.Config
	out *OutputFormatter
	log *slog.Logger
}

// newSession builds the formatter and logger and resolves configuration:
// defaults, then the --config file, then --db and --driver.
func (o *RootOptions) newSession(cmd *cobra.Command) (*session, error) {
	s := &session{
		out: &OutputFormatter{
			Format:    o.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
			Verbose:   o.Verbose,
		},
		log: newLogger(cmd.ErrOrStderr(), o.Verbose),
	}

	cfg := config.Default()
	if o.ConfigPath != "" {
		loaded, err := config.Load(o.ConfigPath)
		if err != nil {
			return nil, s.fail(WrapExitError(ExitCommandError, "failed to load config", err))
		}
		cfg = loaded
		s.log.Debug("config loaded", "path", o.ConfigPath)
	}
	cfg = cfg.Merge(config.Config{Database: o.Database, Driver: o.Driver})
	if err := cfg.Validate(); err != nil {
		return nil, s.fail(WrapExitError(ExitCommandError, "invalid configuration", err))
	}
	s.cfg = cfg
	return s, nil
}

// withStore opens the configured database for the duration of fn.
// Failing to open is a command error; errors from fn pass through.
func (s *session) withStore(ctx context.Context, fn func(ctx context.Context, st *store.Store) error) error {
	if s.cfg.Database == "" {
		return s.fail(NewExitError(ExitCommandError, "no database: set --db or database in the config file"))
	}
	opts, err := s.cfg.StoreOptions(s.log)
	if err != nil {
		return s.fail(WrapExitError(ExitCommandError, "invalid configuration", err))
	}

	opened := false
	err = store.With(s.cfg.Database, opts, func(st *store.Store) error {
		opened = true
		return fn(ctx, st)
	})
	if err != nil && !opened {
		return s.fail(WrapExitError(ExitCommandError, "failed to open database", err))
	}
	return err
}

// commandContext returns the command's context, falling back to Background
// when the command runs without one (tests).
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
