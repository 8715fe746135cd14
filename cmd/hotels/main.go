package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hotel_merge/internal/adapters/observability"
	"hotel_merge/internal/adapters/suppliers"
	"hotel_merge/internal/app"
	"hotel_merge/internal/domain"
	"hotel_merge/internal/shared"
)

const (
	exitFailure      = 1
	exitInvalidQuery = 2
)

type options struct {
	pretty  bool
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "hotels <hotel_ids> <destination_ids>",
		Short: "Fetch, merge and filter hotel data from all suppliers",
		Long: `hotels fetches every configured supplier, merges the records that describe
the same hotel and prints the hotels matching both lists as a JSON array.

Both arguments are comma-separated identifier lists. The value "none" in either
list disables filtering.`,
		Example: `  hotels iJhz,SjyX 5432
  hotels none none --pretty`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "indent the JSON output")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall deadline for fetching all suppliers")
	return cmd
}

func run(ctx context.Context, stdout, stderr io.Writer, args []string, opts options) error {
	f, err := domain.ParseFilter(args[0], args[1])
	if err != nil {
		return err
	}

	cfg, err := shared.Load()
	if err != nil {
		return err
	}
	// stdout carries only the result
	log.Logger = observability.NewLogger(cfg.AppEnv, stderr)

	client := suppliers.NewClient(cfg.SupplierTimeout, cfg.SupplierRPS)
	sups, err := suppliers.Build(client, cfg.Endpoints, cfg.Disabled)
	if err != nil {
		return err
	}
	svc := app.NewHotelService(sups, cfg.Workers)

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}
	hotels, rep, err := svc.Reconcile(ctx, f)
	if err != nil && !errors.Is(err, domain.ErrAllSuppliersFailed) {
		return err
	}
	if hotels == nil {
		hotels = []domain.Hotel{}
	}

	enc := json.NewEncoder(stdout)
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	if encErr := enc.Encode(hotels); encErr != nil {
		return encErr
	}

	if rep.Failed() > 0 {
		log.Warn().
			Str("run_id", rep.RunID).
			Int("failed", rep.Failed()).
			Int("suppliers", len(rep.Suppliers)).
			Msg("result is partial")
	}
	return err
}

func exitCode(err error) int {
	if errors.Is(err, domain.ErrInvalidQuery) {
		return exitInvalidQuery
	}
	return exitFailure
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(exitCode(err))
	}
}
