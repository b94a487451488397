package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Veraticus/loan-payoff/internal/cli"
	"github.com/Veraticus/loan-payoff/internal/payoff"
	"github.com/Veraticus/loan-payoff/internal/planner"
	"github.com/Veraticus/loan-payoff/internal/service"
)

func optimizeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize [loans.csv|loans.yaml]",
		Short: "Find the payoff ordering that saves the most",
		Long: `Try every order in which the extra amount can be put toward the loans and
report the one with the greatest savings, along with the best debt snowball
ordering (smallest balance first) for comparison.

Loans come from a CSV or YAML file, or from a saved portfolio with --portfolio.
Each run is recorded in the history unless --no-history is given.`,
		Example: `  payoff optimize loans.csv --extra 100
  payoff optimize --portfolio household --output json
  payoff optimize loans.yaml --verbose --progress`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runOptimize,
	}

	addSourceFlags(cmd)
	cmd.Flags().BoolP("verbose", "v", false, "list every ordering that was tried")
	cmd.Flags().Bool("progress", false, "show a progress bar while searching")
	cmd.Flags().Bool("no-history", false, "do not record this run")

	return cmd
}

func (a *app) runOptimize(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	showProgress, _ := cmd.Flags().GetBool("progress")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	out, err := renderer(cmd, verbose)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx = interrupts.HandleInterrupts(ctx, "Nothing was recorded; run the command again to start over.")

	var store service.Storage
	portfolio, _ := cmd.Flags().GetString("portfolio")
	if portfolio != "" || !noHistory {
		store, err = a.initStorage(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer closeStorage(store)
	}

	src, err := a.loadSource(cmd, args, store)
	if err != nil {
		return err
	}

	var recorder service.RunRecorder
	if !noHistory {
		recorder = store
	}
	p, release, err := a.initPlanner(ctx, recorder)
	if err != nil {
		return err
	}
	defer release()

	req := planner.Request{
		PortfolioName: src.Portfolio,
		Loans:         src.Loans,
		Extra:         src.Extra,
		Verbose:       verbose,
	}

	if showProgress && len(src.Loans) <= p.MaxLoans() {
		bar := newProgressBar(cmd, payoff.Count(len(src.Loans)))
		req.Progress = func(done, _ int) {
			if err := bar.Set(done); err != nil {
				slog.Warn("Failed to update progress bar", "error", err)
			}
		}
		defer func() { _ = bar.Finish() }()
	}

	result, err := p.Optimize(ctx, req)
	if err != nil {
		if interrupts.WasInterrupted() {
			return errors.Join(err, ctx.Err())
		}
		return err
	}

	return out.Optimization(cmd.OutOrStdout(), result)
}

func newProgressBar(cmd *cobra.Command, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[green][bold]Trying orderings...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(cmd.ErrOrStderr()); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}
