package main

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/barcrew/internal/services/scheduler"
	"github.com/spf13/cobra"
)

func newSweepCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run a sweep once",
	}
	cmd.AddCommand(newJobCommand(opts, "reminders", "Nudge idle checked-in members", scheduler.JobSweepReminders))
	cmd.AddCommand(newJobCommand(opts, "challenges", "Fail dares past their deadline", scheduler.JobExpireChallenges))
	return cmd
}

func newPurgeCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete expired records once",
	}
	cmd.AddCommand(newJobCommand(opts, "feed", "Delete notification feed items past retention", scheduler.JobPurgeFeed))
	cmd.AddCommand(newJobCommand(opts, "messages", "Delete group messages past retention", scheduler.JobPurgeMessages))
	return cmd
}

func newResetCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Run a daily reset once",
	}
	cmd.AddCommand(newJobCommand(opts, "checkins", "Check out everyone still checked in", scheduler.JobResetCheckIns))
	return cmd
}

func newJobCommand(opts *rootOptions, use, short, job string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(cmd.Context(), opts, job)
		},
	}
}

func runJob(ctx context.Context, opts *rootOptions, job string) error {
	a, err := newApp(ctx, opts.cfg, false)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.scheduler.RunOnce(ctx, job); err != nil {
		return err
	}
	fmt.Printf("%s done\n", job)
	return nil
}
