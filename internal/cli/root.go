// Package cli defines the readinglists command line: the HTTP server and
// a few administrative commands that work directly on the database.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mrlokans/readinglists/internal/config"
	"github.com/mrlokans/readinglists/internal/logging"
)

// NewRootCommand builds the command tree. Running it without a subcommand
// starts the server.
func NewRootCommand(version, commit string) *cobra.Command {
	var (
		cfg    *config.Config
		logger *zap.Logger
	)

	root := &cobra.Command{
		Use:           "readinglists",
		Short:         "Book catalogue with ordered, user-owned reading lists",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = config.NewConfig()
			if db, _ := cmd.Flags().GetString("db"); db != "" {
				cfg.Database.Path = db
			}

			var err error
			logger, err = logging.New(cfg.Logging.Level, cfg.Logging.Format)
			if err != nil {
				return err
			}
			zap.ReplaceGlobals(logger)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}
	root.PersistentFlags().String("db", "", "path to the SQLite database (overrides DATABASE_PATH)")

	deps := func() (*config.Config, *zap.Logger) { return cfg, logger }

	serve := newServeCommand(version, deps)
	root.RunE = serve.RunE

	root.AddCommand(
		serve,
		newMigrateCommand(deps),
		newCreateUserCommand(deps),
	)
	return root
}

// depsFunc yields the configuration and logger prepared by the root command.
type depsFunc func() (*config.Config, *zap.Logger)
