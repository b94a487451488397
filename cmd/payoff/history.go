package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/loan-payoff/internal/report"
	"github.com/Veraticus/loan-payoff/internal/service"
)

func historyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past optimizations",
		Long:  `List recorded optimizations, newest first.`,
		Example: `  payoff history
  payoff history --portfolio household --limit 5 --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			out, err := renderer(cmd, false)
			if err != nil {
				return err
			}

			portfolio, _ := cmd.Flags().GetString("portfolio")
			limit, _ := cmd.Flags().GetInt("limit")

			store, err := a.initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			runs, err := store.ListRuns(ctx, service.RunFilter{
				PortfolioName: portfolio,
				Limit:         limit,
			})
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}

			return out.Runs(cmd.OutOrStdout(), runs)
		},
	}

	cmd.Flags().StringP("portfolio", "p", "", "only runs for this portfolio")
	cmd.Flags().IntP("limit", "n", 20, "maximum number of runs to show (0 for all)")
	cmd.Flags().StringP("output", "o", report.FormatText, "output format (text, json)")

	return cmd
}
