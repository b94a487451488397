package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/loan-payoff/internal/model"
	"github.com/Veraticus/loan-payoff/internal/money"
	"github.com/Veraticus/loan-payoff/internal/planner"
)

// Form fields, in tab order.
const (
	fieldName = iota
	fieldPrincipal
	fieldRate
	fieldPayments
	fieldPayment
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldName:      "Name",
	fieldPrincipal: "Principal",
	fieldRate:      "Rate / period",
	fieldPayments:  "Payments",
	fieldPayment:   "Payment",
}

var errEmptyName = errors.New("loan name is required")

// loanForm edits a single loan. A blank payment takes the calculated one.
type loanForm struct {
	inputs [fieldCount]textinput.Model
	focus  int
}

func newLoanForm(loan *model.Loan) loanForm {
	var f loanForm
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 32
		in.Width = 16
		f.inputs[i] = in
	}
	f.inputs[fieldName].Placeholder = "car"
	f.inputs[fieldPrincipal].Placeholder = "10000"
	f.inputs[fieldRate].Placeholder = "0.00625"
	f.inputs[fieldPayments].Placeholder = "48"
	f.inputs[fieldPayment].Placeholder = "calculated"

	if loan != nil {
		f.inputs[fieldName].SetValue(loan.Name)
		f.inputs[fieldPrincipal].SetValue(strconv.FormatFloat(loan.InitialValue, 'f', -1, 64))
		f.inputs[fieldRate].SetValue(strconv.FormatFloat(loan.Rate, 'f', -1, 64))
		f.inputs[fieldPayments].SetValue(strconv.Itoa(loan.NumberOfPayments))
		f.inputs[fieldPayment].SetValue(strconv.FormatFloat(loan.PaymentAmount, 'f', 2, 64))
	}

	f.inputs[fieldName].Focus()
	return f
}

func (f *loanForm) next() {
	f.setFocus((f.focus + 1) % fieldCount)
}

func (f *loanForm) prev() {
	f.setFocus((f.focus + fieldCount - 1) % fieldCount)
}

func (f *loanForm) setFocus(i int) {
	f.inputs[f.focus].Blur()
	f.focus = i
	f.inputs[f.focus].Focus()
}

func (f loanForm) update(msg tea.Msg) (loanForm, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f loanForm) value(field int) string {
	return strings.TrimSpace(f.inputs[field].Value())
}

// terms parses everything except the name and the stated payment.
func (f loanForm) terms() (model.Loan, error) {
	var loan model.Loan
	var err error

	if loan.InitialValue, err = money.Parse(f.value(fieldPrincipal)); err != nil {
		return loan, fmt.Errorf("principal: %w", err)
	}
	if loan.Rate, err = money.ParseRate(f.value(fieldRate)); err != nil {
		return loan, fmt.Errorf("rate: %w", err)
	}
	n, err := strconv.Atoi(f.value(fieldPayments))
	if err != nil || n <= 0 {
		return loan, fmt.Errorf("payments: %q is not a positive whole number", f.value(fieldPayments))
	}
	loan.NumberOfPayments = n
	return loan, nil
}

// preview is the live payment check for whatever has been typed so far.
func (f loanForm) preview() (planner.PaymentCheck, bool) {
	loan, err := f.terms()
	if err != nil {
		return planner.PaymentCheck{}, false
	}
	if stated, err := money.Parse(f.value(fieldPayment)); err == nil {
		loan.PaymentAmount = stated
	}
	return planner.PaymentSchedule(loan), true
}

// loan builds the edited loan.
func (f loanForm) loan() (model.Loan, error) {
	name := f.value(fieldName)
	if name == "" {
		return model.Loan{}, errEmptyName
	}

	loan, err := f.terms()
	if err != nil {
		return model.Loan{}, err
	}
	loan.Name = name

	if f.value(fieldPayment) == "" {
		check := planner.PaymentSchedule(loan)
		if check.Calculated == 0 {
			return model.Loan{}, fmt.Errorf("payment: no payment can be calculated for these terms")
		}
		loan.PaymentAmount = check.Calculated
		return loan, nil
	}

	if loan.PaymentAmount, err = money.Parse(f.value(fieldPayment)); err != nil {
		return model.Loan{}, fmt.Errorf("payment: %w", err)
	}
	return loan, nil
}
