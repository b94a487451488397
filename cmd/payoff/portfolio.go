package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/loan-payoff/internal/cli"
	"github.com/Veraticus/loan-payoff/internal/common"
	"github.com/Veraticus/loan-payoff/internal/loanfile"
	"github.com/Veraticus/loan-payoff/internal/model"
	"github.com/Veraticus/loan-payoff/internal/report"
)

func portfolioCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "portfolio",
		Aliases: []string{"portfolios"},
		Short:   "Manage saved loan portfolios",
		Long: `A portfolio is a named set of loans plus the extra amount available each
period, saved so that optimize and evaluate can use it with --portfolio.`,
	}

	cmd.AddCommand(portfolioImportCmd(a))
	cmd.AddCommand(portfolioListCmd(a))
	cmd.AddCommand(portfolioShowCmd(a))
	cmd.AddCommand(portfolioDeleteCmd(a))
	cmd.AddCommand(portfolioExportCmd(a))

	return cmd
}

func portfolioImportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <loans.csv|loans.yaml>",
		Short: "Save the loans in a file as a portfolio",
		Example: `  payoff portfolio import loans.csv --name household --extra 100
  payoff portfolio import household.yaml --force`,
		Args: cobra.ExactArgs(1),
		RunE: a.runPortfolioImport,
	}

	cmd.Flags().StringP("name", "n", "", "portfolio name (default: the file name)")
	cmd.Flags().Float64P("extra", "e", 0, "extra amount per period (overrides the file)")
	cmd.Flags().BoolP("force", "f", false, "replace an existing portfolio with the same name")

	return cmd
}

func (a *app) runPortfolioImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	file, err := loanfile.Load(args[0])
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		base := filepath.Base(args[0])
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	extra := file.Extra
	if cmd.Flags().Changed("extra") {
		extra, _ = cmd.Flags().GetFloat64("extra")
	}
	force, _ := cmd.Flags().GetBool("force")

	store, err := a.initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	if !force {
		_, err := store.GetPortfolio(ctx, name)
		switch {
		case err == nil:
			return fmt.Errorf("%w: portfolio %q already exists; use --force to replace it", common.ErrDuplicateEntry, name)
		case !errors.Is(err, common.ErrNotFound):
			return fmt.Errorf("failed to check for portfolio %q: %w", name, err)
		}
	}

	portfolio := &model.Portfolio{
		Name:        name,
		Loans:       file.Loans,
		ExtraAmount: extra,
	}
	if err := store.SavePortfolio(ctx, portfolio); err != nil {
		return fmt.Errorf("failed to save portfolio: %w", err)
	}

	common.LogInfo("Imported portfolio", common.Fields{
		"name":  portfolio.Name,
		"loans": len(portfolio.Loans),
		"file":  args[0],
	})
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Saved portfolio %q with %d loans", name, len(file.Loans))))
	return nil
}

func portfolioListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved portfolios",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			out, err := renderer(cmd, false)
			if err != nil {
				return err
			}

			store, err := a.initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			portfolios, err := store.ListPortfolios(ctx)
			if err != nil {
				return fmt.Errorf("failed to list portfolios: %w", err)
			}

			return out.Portfolios(cmd.OutOrStdout(), portfolios)
		},
	}

	cmd.Flags().StringP("output", "o", report.FormatText, "output format (text, json)")

	return cmd
}

func portfolioShowCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a portfolio's loans",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			out, err := renderer(cmd, false)
			if err != nil {
				return err
			}

			store, err := a.initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			portfolio, err := store.GetPortfolio(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to load portfolio %q: %w", args[0], err)
			}

			return out.Portfolio(cmd.OutOrStdout(), *portfolio)
		},
	}

	cmd.Flags().StringP("output", "o", report.FormatText, "output format (text, json)")

	return cmd
}

func portfolioDeleteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved portfolio",
		Long: `Delete a saved portfolio. Run history that mentions it is kept.
You are asked to confirm unless --yes is given.`,
		Args: cobra.ExactArgs(1),
		RunE: a.runPortfolioDelete,
	}

	cmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")

	return cmd
}

func (a *app) runPortfolioDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	name := args[0]

	store, err := a.initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	if _, err := store.GetPortfolio(ctx, name); err != nil {
		return fmt.Errorf("failed to load portfolio %q: %w", name, err)
	}

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		reader := cli.NewLineReader(a.in)
		ok, err := cli.Confirm(ctx, reader, cmd.OutOrStdout(), fmt.Sprintf("Delete portfolio %q?", name))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Nothing deleted"))
			return nil
		}
	}

	if err := store.DeletePortfolio(ctx, name); err != nil {
		return fmt.Errorf("failed to delete portfolio %q: %w", name, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted portfolio %q", name)))
	return nil
}

func portfolioExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <name> [file]",
		Short: "Write a portfolio's loans to a CSV or YAML file",
		Long: `Write a portfolio's loans to a file that optimize and portfolio import
accept. The format follows the file extension. Without a file the portfolio
is written to stdout in --format.`,
		Example: `  payoff portfolio export household household.yaml
  payoff portfolio export household --format csv > loans.csv`,
		Args: cobra.RangeArgs(1, 2),
		RunE: a.runPortfolioExport,
	}

	cmd.Flags().String("format", "yaml", "format for stdout (yaml, csv)")

	return cmd
}

func (a *app) runPortfolioExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	format, _ := cmd.Flags().GetString("format")
	if len(args) == 2 {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(args[1])), ".")
	}
	if format == "yml" {
		format = "yaml"
	}
	if format != "yaml" && format != "csv" {
		return fmt.Errorf("%w: %q", loanfile.ErrUnsupportedFormat, format)
	}

	store, err := a.initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	portfolio, err := store.GetPortfolio(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to load portfolio %q: %w", args[0], err)
	}

	if len(args) == 1 {
		return writeLoans(cmd.OutOrStdout(), format, portfolio)
	}

	f, err := os.Create(args[1])
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", args[1], err)
	}
	if err := writeLoans(f, format, portfolio); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", args[1], err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Wrote %d loans to %s", len(portfolio.Loans), args[1])))
	return nil
}

func writeLoans(w io.Writer, format string, portfolio *model.Portfolio) error {
	if format == "csv" {
		return loanfile.WriteCSV(w, portfolio.Loans)
	}
	return loanfile.WriteYAML(w, loanfile.File{Loans: portfolio.Loans, Extra: portfolio.ExtraAmount})
}
