package main

import (
	"fmt"
	"time"

	"github.com/KirkDiggler/barcrew/internal/config"
	"github.com/KirkDiggler/barcrew/internal/handlers/api"
	"github.com/spf13/cobra"
)

type tokenOptions struct {
	*rootOptions
	Role string
	TTL  time.Duration
}

func newTokenCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &tokenOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue an API bearer token",
		Long: `Issue an HS256 bearer token signed with JWT_SECRET.

Example:
  barcrew token alice
  barcrew token ops --role admin --ttl 1h`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.cfg.JWTSecret == "" {
				return config.ErrMissingJWTSecret
			}
			token, err := api.IssueToken(opts.cfg.JWTSecret, args[0], opts.Role, time.Now(), opts.TTL)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Role, "role", "", "token role, admin for the admin endpoints")
	cmd.Flags().DurationVar(&opts.TTL, "ttl", 24*time.Hour, "token lifetime")

	return cmd
}
