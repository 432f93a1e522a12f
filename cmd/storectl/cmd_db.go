package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"Palaniappa/internal/catalog"
	"Palaniappa/internal/schema"
)

// storectl migrate
func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the catalog tables in PostgreSQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pg, err := a.postgres(cmd.Context())
			if err != nil {
				return err
			}
			defer pg.Close()

			if err := pg.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

// storectl seed
func (a *app) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo inventory into an empty PostgreSQL catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pg, err := a.postgres(ctx)
			if err != nil {
				return err
			}
			defer pg.Close()

			if err := pg.Migrate(ctx); err != nil {
				return err
			}
			n, err := catalog.LoadSeed(ctx, pg, catalog.Seed())
			if err != nil {
				return err
			}
			a.log.Info("seed finished", zap.Int("inserted", n))
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "catalog already has products, nothing seeded")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d products\n", n)
			return nil
		},
	}
}

// storectl users add <username> --password <pw>
func (a *app) usersCmd() *cobra.Command {
	users := &cobra.Command{
		Use:   "users",
		Short: "Manage store users",
	}

	var password string
	add := &cobra.Command{
		Use:   "add <username>",
		Short: "Create a user with a bcrypt-hashed password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nu := schema.NewUser{Username: args[0], Password: password}
			if res := schema.ValidateNewUser(nu); !res.Valid {
				for _, fe := range res.Errors {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", fe.Field, fe.Reason)
				}
				return fmt.Errorf("invalid user")
			}

			ctx := cmd.Context()
			pg, err := a.postgres(ctx)
			if err != nil {
				return err
			}
			defer pg.Close()

			u, err := pg.CreateUser(ctx, nu)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", u.Username, u.ID)
			return nil
		},
	}
	add.Flags().StringVar(&password, "password", "", "user password (8-72 characters)")
	_ = add.MarkFlagRequired("password")

	users.AddCommand(add)
	return users
}
