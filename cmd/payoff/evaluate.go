package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/loan-payoff/internal/common"
	"github.com/Veraticus/loan-payoff/internal/service"
)

func evaluateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate [loans.csv|loans.yaml] --order 1,0",
		Short: "Simulate a single payoff ordering",
		Long: `Simulate one ordering of the loans and report what it costs. Loans are
numbered from 0 in the order they appear in the file or portfolio; the first
loan in --order gets the extra amount first.`,
		Example: `  payoff evaluate loans.csv --order 1,0 --extra 100
  payoff evaluate --portfolio household --order 0,1`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runEvaluate,
	}

	addSourceFlags(cmd)
	cmd.Flags().String("order", "", "comma separated loan numbers, highest priority first")
	_ = cmd.MarkFlagRequired("order")

	return cmd
}

func (a *app) runEvaluate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	out, err := renderer(cmd, false)
	if err != nil {
		return err
	}

	order, _ := cmd.Flags().GetString("order")
	ordering, err := parseOrdering(order)
	if err != nil {
		return err
	}

	var store service.Storage
	if portfolio, _ := cmd.Flags().GetString("portfolio"); portfolio != "" {
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
	if len(ordering) != len(src.Loans) {
		return fmt.Errorf("%w: --order names %d loans but there are %d", common.ErrInvalidInput, len(ordering), len(src.Loans))
	}

	p, release, err := a.initPlanner(ctx, nil)
	if err != nil {
		return err
	}
	defer release()

	eval, err := p.Evaluate(ctx, src.Loans, src.Extra, ordering)
	if err != nil {
		return err
	}

	return out.Evaluation(cmd.OutOrStdout(), eval)
}
