package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/mj36/internal/config"
	"github.com/dmitrijs2005/mj36/internal/database"
	"github.com/dmitrijs2005/mj36/internal/filex"
	"github.com/dmitrijs2005/mj36/internal/logging"
	"github.com/dmitrijs2005/mj36/internal/repositories/records"
	"github.com/dmitrijs2005/mj36/internal/store"
	"github.com/spf13/cobra"
)

var errImportFailed = errors.New("import failed, see the log for details")

// NewRootCommand builds the mj36 command tree. Without a subcommand it
// starts the interactive client.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "mj36",
		Short:         "MJ36, a private space for two, in your terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLogger(cmd, func(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
				app, err := NewApp(ctx, cfg, logger)
				if err != nil {
					return err
				}
				defer app.Close()
				return app.Run(ctx)
			})
		},
	}

	config.RegisterFlags(root.PersistentFlags())
	root.AddCommand(newExportCommand(), newImportCommand(), newResetCommand(), newCleanupCommand())
	return root
}

func newExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write all data as JSON to a file or stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(ctx context.Context, st *store.Store) error {
				data, err := st.ExportData(ctx)
				if err != nil {
					return err
				}
				if len(args) == 0 {
					_, err = fmt.Fprintln(cmd.OutOrStdout(), data)
					return err
				}
				return filex.WriteFileAtomic(args[0], []byte(data+"\n"), 0o600)
			})
		},
	}
}

func newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all data with the JSON document in file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd, func(ctx context.Context, st *store.Store) error {
				if !st.ImportData(ctx, string(data)) {
					return errImportFailed
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Imported.")
				return nil
			})
		},
	}
}

func newResetCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all data and restore the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("reset deletes everything; confirm with --yes")
			}
			return withStore(cmd, func(ctx context.Context, st *store.Store) error {
				if err := st.Reset(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Data reset to defaults.")
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the reset")
	return cmd
}

func newCleanupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove expired stories and old screenshot logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, func(ctx context.Context, st *store.Store) error {
				n, err := st.Cleanup(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired entries.\n", n)
				return nil
			})
		},
	}
}

// withLogger loads the configuration and builds the logger for cmd.
func withLogger(cmd *cobra.Command, fn func(ctx context.Context, cfg *config.Config, logger logging.Logger) error) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if s, ok := logger.(interface{ Sync() error }); ok {
		defer func() { _ = s.Sync() }()
	}

	return fn(cmd.Context(), cfg, logger)
}

// withStore opens the configured database and runs fn on a store over it.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, st *store.Store) error) error {
	return withLogger(cmd, func(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
		db, err := openDatabase(ctx, cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer db.Close()

		st := store.New(records.NewSQLiteRepository(db), nil, logger)
		if err := st.Init(ctx); err != nil {
			return err
		}
		return fn(ctx, st)
	})
}

func openDatabase(ctx context.Context, path string) (*sql.DB, error) {
	if path != ":memory:" {
		if _, err := filex.EnsureParentDir(path); err != nil {
			return nil, err
		}
	}
	return database.InitDatabase(ctx, path)
}
