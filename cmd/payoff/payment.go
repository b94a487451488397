package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/loan-payoff/internal/common"
	"github.com/Veraticus/loan-payoff/internal/model"
	"github.com/Veraticus/loan-payoff/internal/planner"
	"github.com/Veraticus/loan-payoff/internal/report"
)

func paymentCmd(_ *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payment",
		Short: "Calculate a loan's level payment",
		Long: `Calculate the payment that retires a loan in the given number of periods
and, with --stated, check a payment quoted by the lender against it.`,
		Example: `  payoff payment --principal 10000 --rate 0.00625 --payments 48
  payoff payment --principal 10000 --annual-rate 7.5 --payments 48 --stated 241.79`,
		Args: cobra.NoArgs,
		RunE: runPayment,
	}

	cmd.Flags().Float64("principal", 0, "amount borrowed")
	cmd.Flags().Float64("rate", 0, "interest rate per period, such as 0.00625")
	cmd.Flags().Float64("annual-rate", 0, "annual percentage rate, such as 7.5 (monthly periods)")
	cmd.Flags().Int("payments", 0, "number of payments")
	cmd.Flags().Float64("stated", 0, "payment quoted by the lender")
	cmd.Flags().StringP("output", "o", report.FormatText, "output format (text, json)")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("payments")
	cmd.MarkFlagsMutuallyExclusive("rate", "annual-rate")
	cmd.MarkFlagsOneRequired("rate", "annual-rate")

	return cmd
}

func runPayment(cmd *cobra.Command, _ []string) error {
	out, err := renderer(cmd, false)
	if err != nil {
		return err
	}

	principal, _ := cmd.Flags().GetFloat64("principal")
	payments, _ := cmd.Flags().GetInt("payments")
	stated, _ := cmd.Flags().GetFloat64("stated")

	rate, _ := cmd.Flags().GetFloat64("rate")
	if cmd.Flags().Changed("annual-rate") {
		annual, _ := cmd.Flags().GetFloat64("annual-rate")
		rate = annual / 12 / 100
	}

	if payments <= 0 {
		return fmt.Errorf("%w: --payments must be positive", common.ErrInvalidInput)
	}
	if principal <= 0 || rate <= 0 {
		return fmt.Errorf("%w: principal and rate must be positive", common.ErrInvalidInput)
	}

	loan := model.Loan{
		Name:             "loan",
		InitialValue:     principal,
		Rate:             rate,
		NumberOfPayments: payments,
		PaymentAmount:    stated,
	}

	return out.Payment(cmd.OutOrStdout(), loan, planner.PaymentSchedule(loan))
}
