package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/loan-payoff/internal/money"
	"github.com/Veraticus/loan-payoff/internal/planner"
	"github.com/Veraticus/loan-payoff/internal/report"
)

const (
	matchMark    = "✓"
	mismatchMark = "✗"
)

var loanColumns = []struct {
	title string
	width int
}{
	{"Name", 16},
	{"Principal", 13},
	{"Rate", 10},
	{"Payments", 9},
	{"Payment", 11},
	{"Calculated", 11},
	{"", 2},
}

// View renders the current state.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := "Loan payoff"
	if m.name != "" {
		title += " · " + m.name
	}
	if m.dirty {
		title += " *"
	}
	b.WriteString(m.theme.Title.Render(title))
	b.WriteString("\n")

	b.WriteString(m.renderTable())
	b.WriteString("\n")

	switch m.state {
	case StateEditing:
		b.WriteString(m.renderForm())
	case StateExtra:
		b.WriteString(m.theme.Input.Render(m.extraInput.View()))
		b.WriteString("\n")
	case StateNaming:
		b.WriteString(m.theme.Input.Render(m.nameInput.View()))
		b.WriteString("\n")
	default:
		b.WriteString(m.theme.Subtitle.Render("Extra per period: " + money.Format(m.extra)))
		b.WriteString("\n")
	}

	if m.state == StateOptimizing {
		fmt.Fprintf(&b, "\n%s Trying every ordering...\n", m.spinner.View())
	} else if m.report != nil {
		b.WriteString(m.renderResult(*m.report))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.statusStyle().Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.theme.HelpBar.Render(m.help.View(m.keymap)))

	return b.String()
}

func (m Model) renderTable() string {
	var b strings.Builder

	header := make([]string, len(loanColumns))
	for i, col := range loanColumns {
		header[i] = pad(col.title, col.width)
	}
	b.WriteString(m.theme.Header.Render(strings.Join(header, " ")))
	b.WriteString("\n")

	if len(m.loans) == 0 {
		b.WriteString(m.theme.Faint.Render("No loans yet. Press a to add one."))
		b.WriteString("\n")
		return b.String()
	}

	for i, loan := range m.loans {
		check := planner.PaymentSchedule(loan)
		cells := []string{
			pad(loan.Name, loanColumns[0].width),
			pad(money.Format(loan.InitialValue), loanColumns[1].width),
			pad(strconv.FormatFloat(loan.Rate, 'f', -1, 64), loanColumns[2].width),
			pad(strconv.Itoa(loan.NumberOfPayments), loanColumns[3].width),
			pad(money.Format(loan.PaymentAmount), loanColumns[4].width),
			pad(money.Format(check.Calculated), loanColumns[5].width),
		}
		row := strings.Join(cells, " ") + " " + m.mark(check.Matches)

		if i == m.cursor && m.state == StateTable {
			row = m.theme.Selected.Render(row)
		} else {
			row = m.theme.Normal.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderForm() string {
	var b strings.Builder

	heading := "New loan"
	if m.editIndex >= 0 {
		heading = "Edit loan"
	}
	b.WriteString(m.theme.Bold.Render(heading))
	b.WriteString("\n")

	for i, in := range m.form.inputs {
		label := pad(fieldLabels[i]+":", 15)
		if i == m.form.focus {
			label = m.theme.Input.Render(label)
		} else {
			label = m.theme.Faint.Render(label)
		}
		b.WriteString(label)
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	if check, ok := m.form.preview(); ok {
		line := "Calculated payment: " + money.Format(check.Calculated)
		if m.form.value(fieldPayment) != "" {
			line += " " + m.mark(check.Matches)
		}
		b.WriteString(m.theme.Subtitle.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderResult(r planner.Report) string {
	var b strings.Builder
	text := &report.Text{}
	if err := text.Optimization(&b, r); err != nil {
		return m.theme.StatusError.Render(err.Error())
	}

	style := m.theme.ResultBox
	if m.width > 4 {
		style = style.MaxWidth(m.width)
	}
	return style.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) mark(matches bool) string {
	if matches {
		return lipgloss.NewStyle().Foreground(m.theme.Success).Render(matchMark)
	}
	return lipgloss.NewStyle().Foreground(m.theme.Error).Render(mismatchMark)
}

func (m Model) statusStyle() lipgloss.Style {
	switch m.level {
	case statusSuccess:
		return m.theme.StatusSuccess
	case statusWarning:
		return m.theme.StatusWarning
	case statusError:
		return m.theme.StatusError
	default:
		return m.theme.StatusInfo
	}
}

// pad truncates or right-pads s to width cells.
func pad(s string, width int) string {
	if lipgloss.Width(s) > width {
		runes := []rune(s)
		for len(runes) > 0 && lipgloss.Width(string(runes)) > width-1 {
			runes = runes[:len(runes)-1]
		}
		return string(runes) + "…"
	}
	return s + strings.Repeat(" ", width-lipgloss.Width(s))
}
