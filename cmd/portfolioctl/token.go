package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pzaman/portfolio-backend-go/internal/config"
	"github.com/pzaman/portfolio-backend-go/internal/middleware"
)

func newTokenCmd() *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
		secret  string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed JWT for the admin endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				secret = cfg.JWTSecret
			}
			token, err := middleware.IssueToken(secret, subject, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "admin", "Token subject")
	cmd.Flags().StringVar(&role, "role", middleware.RoleAdmin, "Role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	cmd.Flags().StringVar(&secret, "secret", "", "Signing secret (default: $JWT_SECRET)")
	return cmd
}
