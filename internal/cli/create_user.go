package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrlokans/readinglists/internal/auth"
	"github.com/mrlokans/readinglists/internal/database"
	"github.com/mrlokans/readinglists/internal/database/users"
)

const passwordEnv = "READINGLISTS_PASSWORD"

func newCreateUserCommand(deps depsFunc) *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user account",
		Long: `Create a user account with the same validation rules as registration.

The password may also be passed in the READINGLISTS_PASSWORD environment
variable to keep it out of shell history.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _ := deps()

			if password == "" {
				password = os.Getenv(passwordEnv)
			}
			if password == "" {
				return errors.New("a password is required (--password or READINGLISTS_PASSWORD)")
			}

			db, err := database.NewDatabase(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := auth.NewService(users.NewRepository(db.DB), cfg.Auth)
			user, err := svc.CreateUser(context.Background(), username, email, password)
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (id %d)\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username, letters only (required)")
	cmd.Flags().StringVar(&email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
