package main

import (
	"github.com/KirkDiggler/barcrew/internal/config"
	"github.com/spf13/cobra"
)

// rootOptions holds global flags for all commands
type rootOptions struct {
	LogLevel string
	cfg      *config.Config
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "barcrew",
		Short:         "BarCrew engagement server",
		Long:          "Drink logging, dares and push notifications for a crew on a night out.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if opts.LogLevel != "" {
				cfg.LogLevel = opts.LogLevel
			}
			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "override LOG_LEVEL (debug|info|warn|error)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newSweepCommand(opts))
	cmd.AddCommand(newPurgeCommand(opts))
	cmd.AddCommand(newResetCommand(opts))
	cmd.AddCommand(newTokenCommand(opts))
	cmd.AddCommand(newDrinkCommand(opts))

	return cmd
}
