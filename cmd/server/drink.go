package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"

	"github.com/KirkDiggler/barcrew/internal/common/logger"
	"github.com/KirkDiggler/barcrew/internal/handlers/api"
	"github.com/KirkDiggler/barcrew/internal/repositories/drink_ledger"
	"github.com/KirkDiggler/barcrew/internal/services/eventlog"
	"github.com/KirkDiggler/barcrew/internal/timeboundary"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

type drinkOptions struct {
	*rootOptions
	API   string
	Token string
	State string
}

// newDrinkCommand drives a member's drink session against a running API.
// The local log is kept in the state file between invocations.
func newDrinkCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &drinkOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "drink",
		Short: "Log drinks through the API as one member",
		Long: `Log drinks through the API as the member the token was issued to.

Example:
  barcrew drink add beer lager --token $(barcrew token alice)
  barcrew drink remove beer lager
  barcrew drink sync`,
	}

	cmd.PersistentFlags().StringVar(&opts.API, "api", "http://localhost:8080", "API base URL")
	cmd.PersistentFlags().StringVar(&opts.Token, "token", os.Getenv("BARCREW_TOKEN"), "member bearer token (BARCREW_TOKEN)")
	cmd.PersistentFlags().StringVar(&opts.State, "state", ".barcrew-drinks.json", "file holding the local drink log")

	cmd.AddCommand(&cobra.Command{
		Use:   "add <category> <variation>",
		Short: "Log one drink",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDrink(cmd.Context(), opts, cmd.OutOrStdout(), func(ctx context.Context, t *eventlog.Tracker) (*eventlog.Derived, error) {
				output, err := t.Add(ctx, &eventlog.AddInput{CategoryID: args[0], VariationName: args[1]})
				if errors.Is(err, eventlog.ErrSpamCooldown) {
					return nil, fmt.Errorf("%s (retry in %s)", output.Governor.Message, output.Governor.RetryAfter)
				}
				if err != nil {
					return nil, err
				}
				return output.Derived, nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "remove <category> <variation>",
		Short: "Undo one drink",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDrink(cmd.Context(), opts, cmd.OutOrStdout(), func(ctx context.Context, t *eventlog.Tracker) (*eventlog.Derived, error) {
				output, err := t.Remove(ctx, &eventlog.RemoveInput{CategoryID: args[0], VariationName: args[1]})
				if err != nil {
					return nil, err
				}
				return output.Derived, nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Replace the local log with the server counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDrink(cmd.Context(), opts, cmd.OutOrStdout(), func(ctx context.Context, t *eventlog.Tracker) (*eventlog.Derived, error) {
				return t.Sync(ctx)
			})
		},
	})

	return cmd
}

func runDrink(ctx context.Context, opts *drinkOptions, out io.Writer, op func(context.Context, *eventlog.Tracker) (*eventlog.Derived, error)) error {
	userID, err := tokenSubject(opts.Token)
	if err != nil {
		return err
	}

	restored, err := os.ReadFile(opts.State)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read drink state: %w", err)
	}

	log, err := logger.New(&logger.Config{Level: opts.cfg.LogLevel, Format: opts.cfg.LogFormat, Service: "barcrew-drink"})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	boundary, err := timeboundary.New(&timeboundary.Config{
		Timezone:     opts.cfg.BoundaryTimezone,
		BoundaryHour: opts.cfg.BoundaryHour,
	})
	if err != nil {
		return fmt.Errorf("failed to create boundary calculator: %w", err)
	}

	ledger, err := drink_ledger.NewHTTP(&drink_ledger.HTTPConfig{BaseURL: opts.API, Token: opts.Token})
	if err != nil {
		return err
	}

	tracker, err := eventlog.NewTracker(&eventlog.TrackerConfig{
		UserID:          userID,
		Restored:        restored,
		Boundary:        boundary,
		DrinkLedgerRepo: ledger,
		Logger:          log.Named("tracker"),
	})
	if err != nil {
		return err
	}
	defer tracker.Close()

	derived, opErr := op(ctx, tracker)

	// a failed write was rolled back, so the log is still worth keeping
	state, err := tracker.Export()
	if err != nil {
		return fmt.Errorf("failed to export drink state: %w", err)
	}
	if err := os.WriteFile(opts.State, state, 0o600); err != nil {
		return fmt.Errorf("failed to write drink state: %w", err)
	}

	if opErr != nil {
		return opErr
	}
	printDerived(out, derived)
	return nil
}

// tokenSubject reads the member ID out of a token. The API verifies it.
func tokenSubject(token string) (string, error) {
	if token == "" {
		return "", errors.New("a member token is required, see barcrew token")
	}
	var claims api.Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

func printDerived(out io.Writer, derived *eventlog.Derived) {
	categories := make([]string, 0, len(derived.Variants))
	for category := range derived.Variants {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		variations := make([]string, 0, len(derived.Variants[category]))
		for variation := range derived.Variants[category] {
			variations = append(variations, variation)
		}
		sort.Strings(variations)
		for _, variation := range variations {
			fmt.Fprintf(out, "%s/%s %d\n", category, variation, derived.Variants[category][variation])
		}
	}
	fmt.Fprintf(out, "total %d\n", derived.RunTotal)
}
