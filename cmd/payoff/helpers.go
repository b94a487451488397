package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/loan-payoff/internal/cache"
	"github.com/Veraticus/loan-payoff/internal/common"
	"github.com/Veraticus/loan-payoff/internal/loanfile"
	"github.com/Veraticus/loan-payoff/internal/model"
	"github.com/Veraticus/loan-payoff/internal/planner"
	"github.com/Veraticus/loan-payoff/internal/report"
	"github.com/Veraticus/loan-payoff/internal/service"
	"github.com/Veraticus/loan-payoff/internal/storage"
)

// envKeyReplacer maps database.path onto PAYOFF_DATABASE_PATH.
var envKeyReplacer = strings.NewReplacer(".", "_")

// initStorage opens the configured database and brings its schema up to date.
func (a *app) initStorage(ctx context.Context) (service.Storage, error) {
	db := a.settings.Database
	store, err := storage.Open(ctx, db.Driver, db.DataSource())
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initPlanner builds a planner over the configured cache. recorder may be nil.
// The returned func releases the cache.
func (a *app) initPlanner(ctx context.Context, recorder service.RunRecorder) (*planner.Planner, func(), error) {
	c, err := cache.New(ctx, a.settings.Cache)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	p := planner.NewWithConfig(c, recorder, planner.Config{
		MaxLoans: a.settings.Search.MaxLoans,
	})
	release := func() {
		if closeErr := c.Close(); closeErr != nil {
			common.LogError(closeErr, "failed to close cache", common.Fields{"driver": a.settings.Cache.Driver})
		}
	}
	return p, release, nil
}

func closeStorage(store service.Storage) {
	if closeErr := store.Close(); closeErr != nil {
		common.LogError(closeErr, "failed to close storage", nil)
	}
}

// loanSource is where optimize and evaluate take their loans from.
type loanSource struct {
	Portfolio string
	Loans     []model.Loan
	Extra     float64
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("portfolio", "p", "", "use a saved portfolio instead of a file")
	cmd.Flags().Float64P("extra", "e", 0, "extra amount per period (overrides the file or portfolio)")
	cmd.Flags().StringP("output", "o", report.FormatText, "output format (text, json)")
}

// loadSource reads loans from the file named in args or from --portfolio.
// The extra amount comes from --extra when given.
func (a *app) loadSource(cmd *cobra.Command, args []string, store service.PortfolioStore) (loanSource, error) {
	name, _ := cmd.Flags().GetString("portfolio")

	var src loanSource
	switch {
	case name != "" && len(args) > 0:
		return src, fmt.Errorf("%w: give either a loan file or --portfolio, not both", common.ErrInvalidInput)

	case name != "":
		if store == nil {
			return src, fmt.Errorf("%w: storage is not available", common.ErrMissingConfig)
		}
		portfolio, err := store.GetPortfolio(cmd.Context(), name)
		if err != nil {
			return src, fmt.Errorf("failed to load portfolio %q: %w", name, err)
		}
		src = loanSource{Portfolio: portfolio.Name, Loans: portfolio.Loans, Extra: portfolio.ExtraAmount}

	case len(args) == 1:
		file, err := loanfile.Load(args[0])
		if err != nil {
			return src, err
		}
		src = loanSource{Loans: file.Loans, Extra: file.Extra}

	default:
		return src, fmt.Errorf("%w: give a loan file or --portfolio", common.ErrInvalidInput)
	}

	if cmd.Flags().Changed("extra") {
		src.Extra, _ = cmd.Flags().GetFloat64("extra")
	}
	return src, nil
}

func renderer(cmd *cobra.Command, verbose bool) (report.Renderer, error) {
	format, _ := cmd.Flags().GetString("output")
	return report.New(format, verbose)
}

// parseOrdering reads a comma separated list of loan indices such as "1,0".
func parseOrdering(s string) (model.Ordering, error) {
	fields := strings.Split(s, ",")
	ordering := make(model.Ordering, 0, len(fields))
	for _, f := range fields {
		idx, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("%w: ordering %q must be comma separated loan numbers", common.ErrInvalidInput, s)
		}
		ordering = append(ordering, idx)
	}
	return ordering, nil
}
