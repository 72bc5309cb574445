package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mrlokans/readinglists/internal/database"
)

func newMigrateCommand(deps depsFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := deps()

			db, err := database.NewDatabase(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			logger.Info("database schema is up to date", zap.String("path", cfg.Database.Path))
			fmt.Fprintf(cmd.OutOrStdout(), "Migrated %s\n", cfg.Database.Path)
			return nil
		},
	}
}
