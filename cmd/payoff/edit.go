package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/loan-payoff/internal/cli"
	"github.com/Veraticus/loan-payoff/internal/common"
	"github.com/Veraticus/loan-payoff/internal/loanfile"
	"github.com/Veraticus/loan-payoff/internal/model"
	"github.com/Veraticus/loan-payoff/internal/tui"
	"github.com/Veraticus/loan-payoff/internal/tui/themes"
)

func editCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [portfolio]",
		Short: "Edit loans interactively",
		Long: `Open a terminal editor for a portfolio's loans. Each loan's stated payment
is checked against its terms as you type. Press o to optimize, s to save
and q to quit.

Without a name the editor starts empty and asks for a name on save.
With --file the loans are read from a CSV or YAML file instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runEdit,
	}

	cmd.Flags().StringP("file", "f", "", "start from the loans in a CSV or YAML file")
	cmd.Flags().String("theme", "default", "color theme (default, catppuccin-mocha)")

	return cmd
}

func (a *app) runEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := a.initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	p, release, err := a.initPlanner(ctx, store)
	if err != nil {
		return err
	}
	defer release()

	var portfolio model.Portfolio
	if len(args) == 1 {
		portfolio.Name = args[0]
		existing, err := store.GetPortfolio(ctx, args[0])
		switch {
		case err == nil:
			portfolio = *existing
		case !errors.Is(err, common.ErrNotFound):
			return fmt.Errorf("failed to load portfolio %q: %w", args[0], err)
		}
	}
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		file, err := loanfile.Load(path)
		if err != nil {
			return err
		}
		portfolio.Loans = file.Loans
		portfolio.ExtraAmount = file.Extra
	}

	themeName, _ := cmd.Flags().GetString("theme")
	result, err := tui.Run(ctx,
		tui.WithPlanner(p),
		tui.WithStore(store),
		tui.WithPortfolio(portfolio),
		tui.WithTheme(themes.GetTheme(themeName)),
	)
	if err != nil {
		return err
	}

	if result.Dirty {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("Quit with unsaved changes"))
	}
	return nil
}
