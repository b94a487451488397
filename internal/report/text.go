package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/loan-payoff/internal/cli"
	"github.com/Veraticus/loan-payoff/internal/model"
	"github.com/Veraticus/loan-payoff/internal/money"
	"github.com/Veraticus/loan-payoff/internal/payoff"
	"github.com/Veraticus/loan-payoff/internal/planner"
)

// Text renders results for a terminal.
type Text struct {
	// Verbose lists every evaluated and skipped ordering.
	Verbose bool
}

// Optimization writes the winning ordering, how it compares with the debt
// snowball, and the per-loan breakdown.
func (t *Text) Optimization(w io.Writer, r planner.Report) error {
	var b strings.Builder

	b.WriteString(cli.FormatTitle("Best payoff ordering"))
	b.WriteString("\n")
	for i, name := range r.Names {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, name)
	}
	b.WriteString("\n")

	summary := [][2]string{
		{"Extra per period", money.Format(r.Extra)},
		{"Savings", money.Format(r.Payoff.Savings)},
		{"Paid off after", fmt.Sprintf("%d periods", r.Best.Periods)},
	}
	switch {
	case !r.Payoff.HasDebtSnowball:
		summary = append(summary, [2]string{"Debt snowball", "no snowball ordering pays off in time"})
	case r.Payoff.IsDebtSnowball:
		summary = append(summary, [2]string{"Debt snowball", "this is the debt snowball ordering"})
	default:
		summary = append(summary,
			[2]string{"Debt snowball", strings.Join(r.SnowballNames, " → ")},
			[2]string{"Beats snowball by", money.Format(r.Payoff.SavingsOverDebtSnowball)})
	}
	b.WriteString(keyValues(summary))
	b.WriteString("\n\n")

	b.WriteString(loanTable(r.Best))

	counts := fmt.Sprintf("%d of %d orderings evaluated", r.Evaluated, r.Total)
	if r.SkippedCount > 0 {
		counts += fmt.Sprintf(", %d never paid off", r.SkippedCount)
	}
	if r.CacheHit {
		counts += " (cached)"
	}
	b.WriteString("\n")
	b.WriteString(cli.SubtleStyle.Render(counts))
	b.WriteString("\n")

	if t.Verbose && (len(r.Evaluations) > 0 || len(r.Skipped) > 0) {
		b.WriteString("\n")
		b.WriteString(cli.BoldStyle.Render("All orderings"))
		b.WriteString("\n")
		b.WriteString(orderingTable(r))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Evaluation writes the outcome of one ordering.
func (t *Text) Evaluation(w io.Writer, eval payoff.Evaluation) error {
	var b strings.Builder

	names := make([]string, len(eval.Loans))
	for i, l := range eval.Loans {
		names[i] = l.Name
	}
	b.WriteString(cli.FormatTitle("Ordering " + strings.Join(names, " → ")))
	b.WriteString("\n")

	snowball := "no"
	if eval.IsDebtSnowball {
		snowball = "yes"
	}
	b.WriteString(keyValues([][2]string{
		{"Expected cost", money.Format(eval.ExpectedCostsTotal)},
		{"Actual cost", money.Format(eval.ActualCostsTotal)},
		{"Savings", money.Format(eval.SavingsTotal)},
		{"Paid off after", fmt.Sprintf("%d periods", eval.Periods)},
		{"Debt snowball", snowball},
	}))
	b.WriteString("\n\n")
	b.WriteString(loanTable(eval))

	_, err := io.WriteString(w, b.String())
	return err
}

// Payment writes the calculated payment and whether the stated one matches.
func (t *Text) Payment(w io.Writer, loan model.Loan, check planner.PaymentCheck) error {
	rows := [][2]string{
		{"Calculated payment", money.Format(check.Calculated)},
	}
	if loan.PaymentAmount != 0 {
		rows = append(rows,
			[2]string{"Stated payment", money.Format(check.Stated) + " " + cli.FormatMatch(check.Matches)},
			[2]string{"Difference", money.Format(check.Difference)},
		)
	}
	out := keyValues(rows) + "\n"
	if loan.PaymentAmount != 0 && !check.Matches {
		out += cli.FormatWarning(fmt.Sprintf("stated payment is more than %s away from the calculated one",
			money.Format(model.PaymentTolerance))) + "\n"
	}

	_, err := io.WriteString(w, out)
	return err
}

// Portfolio writes a portfolio's loans and checks each stated payment.
func (t *Text) Portfolio(w io.Writer, portfolio model.Portfolio) error {
	var b strings.Builder

	b.WriteString(cli.FormatTitle(portfolio.Name))
	b.WriteString("\n")
	b.WriteString(keyValues([][2]string{
		{"Extra per period", money.Format(portfolio.ExtraAmount)},
		{"Updated", portfolio.UpdatedAt.Local().Format("2006-01-02 15:04")},
	}))
	b.WriteString("\n\n")

	rows := [][]string{{"#", "Loan", "Principal", "Rate", "Payments", "Payment", "Calculated", ""}}
	for i, l := range portfolio.Loans {
		check := planner.PaymentSchedule(l)
		rows = append(rows, []string{
			strconv.Itoa(i),
			l.Name,
			money.Format(l.InitialValue),
			strconv.FormatFloat(l.Rate, 'f', -1, 64),
			strconv.Itoa(l.NumberOfPayments),
			money.Format(l.PaymentAmount),
			money.Format(check.Calculated),
			cli.FormatMatch(check.Matches),
		})
	}
	b.WriteString(table(rows, 2, 3, 4, 5, 6))

	_, err := io.WriteString(w, b.String())
	return err
}

// Portfolios writes one line per portfolio.
func (t *Text) Portfolios(w io.Writer, portfolios []model.Portfolio) error {
	if len(portfolios) == 0 {
		_, err := io.WriteString(w, cli.FormatInfo("No portfolios saved yet")+"\n")
		return err
	}

	rows := [][]string{{"Name", "Loans", "Balance", "Extra", "Updated"}}
	for _, p := range portfolios {
		balance := 0.0
		for _, l := range p.Loans {
			balance += l.InitialValue
		}
		rows = append(rows, []string{
			p.Name,
			strconv.Itoa(len(p.Loans)),
			money.Format(balance),
			money.Format(p.ExtraAmount),
			p.UpdatedAt.Local().Format("2006-01-02 15:04"),
		})
	}

	_, err := io.WriteString(w, table(rows, 1, 2, 3))
	return err
}

// Runs writes run history, newest first.
func (t *Text) Runs(w io.Writer, runs []model.Run) error {
	if len(runs) == 0 {
		_, err := io.WriteString(w, cli.FormatInfo("No optimizations recorded yet")+"\n")
		return err
	}

	rows := [][]string{{"When", "Portfolio", "Ordering", "Extra", "Savings", "vs snowball"}}
	for _, r := range runs {
		portfolio := r.PortfolioName
		if portfolio == "" {
			portfolio = "-"
		}
		rows = append(rows, []string{
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			portfolio,
			strings.Join(r.Ordering, " → "),
			money.Format(r.ExtraAmount),
			money.Format(r.Savings),
			money.Format(r.SavingsOverDebtSnowball),
		})
	}

	_, err := io.WriteString(w, table(rows, 3, 4, 5))
	return err
}

func loanTable(eval payoff.Evaluation) string {
	rows := [][]string{{"#", "Loan", "Expected", "Actual", "Saved", "Paid off"}}
	for i, l := range eval.Loans {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			l.Name,
			money.Format(l.Expected),
			money.Format(l.Actual),
			money.Format(l.Expected - l.Actual),
			fmt.Sprintf("period %d", l.PaidOffPeriod),
		})
	}
	rows = append(rows, []string{
		"",
		"Total",
		money.Format(eval.ExpectedCostsTotal),
		money.Format(eval.ActualCostsTotal),
		money.Format(eval.SavingsTotal),
		"",
	})
	return table(rows, 2, 3, 4)
}

func orderingTable(r planner.Report) string {
	rows := [][]string{{"Ordering", "Savings", "Periods", "Snowball"}}
	for _, e := range r.Evaluations {
		snowball := ""
		if e.IsDebtSnowball {
			snowball = cli.SuccessIcon
		}
		rows = append(rows, []string{
			orderingString(e.Ordering),
			money.Format(e.SavingsTotal),
			strconv.Itoa(e.Periods),
			snowball,
		})
	}
	for _, o := range r.Skipped {
		rows = append(rows, []string{orderingString(o), "never paid off", "", ""})
	}
	return table(rows, 1, 2)
}

func orderingString(o model.Ordering) string {
	parts := make([]string, len(o))
	for i, idx := range o {
		parts[i] = strconv.Itoa(idx)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func keyValues(rows [][2]string) string {
	width := 0
	for _, r := range rows {
		width = max(width, lipgloss.Width(r[0]))
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		key := cli.SubtleStyle.Render(r[0] + ":" + strings.Repeat(" ", width-lipgloss.Width(r[0])))
		lines[i] = "  " + key + " " + r[1]
	}
	return strings.Join(lines, "\n")
}

// table lays rows out in columns; the first row is the header. Columns listed
// in rightAligned hold amounts.
func table(rows [][]string, rightAligned ...int) string {
	if len(rows) == 0 {
		return ""
	}

	right := make(map[int]bool, len(rightAligned))
	for _, c := range rightAligned {
		right[c] = true
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for c, cell := range row {
			widths[c] = max(widths[c], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	for i, row := range rows {
		cells := make([]string, len(row))
		for c, cell := range row {
			pad := strings.Repeat(" ", widths[c]-lipgloss.Width(cell))
			if right[c] {
				cells[c] = pad + cell
			} else {
				cells[c] = cell + pad
			}
		}
		line := strings.TrimRight(strings.Join(cells, "  "), " ")
		if i == 0 {
			line = cli.BoldStyle.Render(line)
		}
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
