package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/wire"
)

// LoginCmd returns the login command
func LoginCmd() *cobra.Command {
	var token, role string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the bearer token used against the backend",
		Long: `Store a bearer token and role. When the token is a JWT its exp claim
decides when the session expires.

Examples:
  escrituras login --token "$TOKEN" --role admin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *wire.Adapters) error {
				return a.Session.Login(ctx, token, role)
			})
		},
	}

	cmd.Flags().StringVarP(&token, "token", "t", "", "Bearer token")
	cmd.Flags().StringVarP(&role, "role", "r", "", "Role granted by the token")
	return cmd
}

// LogoutCmd returns the logout command
func LogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *wire.Adapters) error {
				return a.Session.Logout(ctx)
			})
		},
	}
}

// WhoAmICmd returns the whoami command
func WhoAmICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *wire.Adapters) error {
				return a.Session.WhoAmI(ctx)
			})
		},
	}
}
