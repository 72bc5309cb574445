package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/readinglists/internal/entrypoint"
)

func newServeCommand(version string, deps depsFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := deps()
			return entrypoint.Run(cfg, version, logger)
		},
	}
}
