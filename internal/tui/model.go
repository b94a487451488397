package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/loan-payoff/internal/common"
	"github.com/Veraticus/loan-payoff/internal/model"
	"github.com/Veraticus/loan-payoff/internal/money"
	"github.com/Veraticus/loan-payoff/internal/planner"
	"github.com/Veraticus/loan-payoff/internal/service"
	"github.com/Veraticus/loan-payoff/internal/tui/themes"
)

// State represents the current state of the TUI.
type State int

const (
	StateTable State = iota
	StateEditing
	StateExtra
	StateNaming
	StateOptimizing
)

// Model holds the editor state.
type Model struct {
	ctx        context.Context
	planner    *planner.Planner
	store      service.PortfolioStore
	report     *planner.Report
	theme      themes.Theme
	keymap     KeyMap
	help       help.Model
	spinner    spinner.Model
	extraInput textinput.Model
	nameInput  textinput.Model
	status     string
	name       string
	loans      []model.Loan
	form       loanForm
	extra      float64
	editIndex  int
	cursor     int
	width      int
	height     int
	level      statusLevel
	state      State
	dirty      bool
	quitting   bool
}

// newModel creates a new model with the given configuration.
func newModel(ctx context.Context, cfg Config) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = cfg.Theme.Input

	extra := textinput.New()
	extra.Prompt = "Extra per period: "
	extra.Placeholder = "100"
	extra.CharLimit = 16

	name := textinput.New()
	name.Prompt = "Portfolio name: "
	name.Placeholder = "household"
	name.CharLimit = 64

	h := help.New()
	h.Width = cfg.Width

	loans := make([]model.Loan, len(cfg.Portfolio.Loans))
	copy(loans, cfg.Portfolio.Loans)

	return Model{
		ctx:        ctx,
		planner:    cfg.Planner,
		store:      cfg.Store,
		theme:      cfg.Theme,
		keymap:     DefaultKeyMap(),
		help:       h,
		spinner:    s,
		extraInput: extra,
		nameInput:  name,
		name:       cfg.Portfolio.Name,
		loans:      loans,
		extra:      money.Round(cfg.Portfolio.ExtraAmount),
		editIndex:  -1,
		width:      cfg.Width,
		height:     cfg.Height,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if m.state != StateOptimizing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case optimizedMsg:
		m.state = StateTable
		if msg.err != nil {
			m.report = nil
			m.setStatus(statusError, common.Explain(msg.err).Error())
			return m, nil
		}
		report := msg.report
		m.report = &report
		m.setStatus(statusSuccess, fmt.Sprintf("Best ordering saves %s", money.Format(report.Payoff.Savings)))
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.setStatus(statusError, fmt.Sprintf("Failed to save %q: %v", msg.name, common.Explain(msg.err)))
			return m, nil
		}
		m.dirty = false
		m.setStatus(statusSuccess, fmt.Sprintf("Saved portfolio %q", msg.name))
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case StateEditing:
		return m.handleFormKey(msg)
	case StateExtra:
		return m.handleExtraKey(msg)
	case StateNaming:
		return m.handleNameKey(msg)
	case StateOptimizing:
		return m, nil
	default:
		return m.handleTableKey(msg)
	}
}

func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keymap.Down):
		if m.cursor < len(m.loans)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keymap.Add):
		m.editIndex = -1
		m.form = newLoanForm(nil)
		m.state = StateEditing
		return m, textinput.Blink

	case key.Matches(msg, m.keymap.Edit):
		if len(m.loans) == 0 {
			return m, nil
		}
		m.editIndex = m.cursor
		m.form = newLoanForm(&m.loans[m.cursor])
		m.state = StateEditing
		return m, textinput.Blink

	case key.Matches(msg, m.keymap.Delete):
		if len(m.loans) == 0 {
			return m, nil
		}
		removed := m.loans[m.cursor].Name
		loans := make([]model.Loan, 0, len(m.loans)-1)
		loans = append(loans, m.loans[:m.cursor]...)
		m.loans = append(loans, m.loans[m.cursor+1:]...)
		if m.cursor >= len(m.loans) && m.cursor > 0 {
			m.cursor--
		}
		m.changed()
		m.setStatus(statusInfo, fmt.Sprintf("Removed %q", removed))

	case key.Matches(msg, m.keymap.Extra):
		m.extraInput.SetValue(strings.TrimPrefix(money.Format(m.extra), "$"))
		m.extraInput.CursorEnd()
		m.state = StateExtra
		cmd := m.extraInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keymap.Optimize):
		return m.startOptimize()

	case key.Matches(msg, m.keymap.Save):
		return m.startSave()

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Cancel):
		m.state = StateTable
		return m, nil

	case key.Matches(msg, m.keymap.Submit):
		loan, err := m.form.loan()
		if err != nil {
			m.setStatus(statusError, err.Error())
			return m, nil
		}
		if m.editIndex >= 0 && m.editIndex < len(m.loans) {
			loans := make([]model.Loan, len(m.loans))
			copy(loans, m.loans)
			loans[m.editIndex] = loan
			m.loans = loans
			m.cursor = m.editIndex
		} else {
			m.loans = append(m.loans, loan)
			m.cursor = len(m.loans) - 1
		}
		m.changed()
		m.state = StateTable
		m.setStatus(statusInfo, fmt.Sprintf("Updated %q", loan.Name))
		return m, nil

	case key.Matches(msg, m.keymap.NextField):
		m.form.next()
		return m, nil

	case key.Matches(msg, m.keymap.PrevField):
		m.form.prev()
		return m, nil
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m Model) handleExtraKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Cancel):
		m.extraInput.Blur()
		m.state = StateTable
		return m, nil

	case key.Matches(msg, m.keymap.Submit):
		extra, err := money.Parse(m.extraInput.Value())
		if err != nil || extra < 0 {
			m.setStatus(statusError, fmt.Sprintf("Extra amount must be a non-negative amount, got %q", m.extraInput.Value()))
			return m, nil
		}
		m.extraInput.Blur()
		m.extra = extra
		m.changed()
		m.state = StateTable
		m.setStatus(statusInfo, fmt.Sprintf("Extra per period is now %s", money.Format(extra)))
		return m, nil
	}

	var cmd tea.Cmd
	m.extraInput, cmd = m.extraInput.Update(msg)
	return m, cmd
}

func (m Model) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Cancel):
		m.nameInput.Blur()
		m.state = StateTable
		return m, nil

	case key.Matches(msg, m.keymap.Submit):
		name := strings.TrimSpace(m.nameInput.Value())
		if name == "" {
			m.setStatus(statusError, "Portfolio name is required")
			return m, nil
		}
		m.nameInput.Blur()
		m.name = name
		m.state = StateTable
		return m, save(m.ctx, m.store, m.Portfolio())
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m Model) startOptimize() (tea.Model, tea.Cmd) {
	if m.planner == nil {
		m.setStatus(statusWarning, "Optimization is not available")
		return m, nil
	}
	if len(m.loans) == 0 {
		m.setStatus(statusWarning, "Add at least one loan first")
		return m, nil
	}

	loans := make([]model.Loan, len(m.loans))
	copy(loans, m.loans)
	req := planner.Request{
		PortfolioName: m.name,
		Loans:         loans,
		Extra:         m.extra,
	}

	m.state = StateOptimizing
	m.setStatus(statusInfo, "Optimizing...")
	return m, tea.Batch(m.spinner.Tick, optimize(m.ctx, m.planner, req))
}

func (m Model) startSave() (tea.Model, tea.Cmd) {
	if m.store == nil {
		m.setStatus(statusWarning, "Saving needs a database; start the editor with storage configured")
		return m, nil
	}
	if m.name == "" {
		m.nameInput.SetValue("")
		m.state = StateNaming
		cmd := m.nameInput.Focus()
		return m, cmd
	}
	m.setStatus(statusInfo, "Saving...")
	return m, save(m.ctx, m.store, m.Portfolio())
}

// updateFocused forwards non-key messages, such as cursor blinks, to the
// input that has focus.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state {
	case StateEditing:
		m.form, cmd = m.form.update(msg)
	case StateExtra:
		m.extraInput, cmd = m.extraInput.Update(msg)
	case StateNaming:
		m.nameInput, cmd = m.nameInput.Update(msg)
	}
	return m, cmd
}

// changed marks the portfolio edited. A result computed for the old loans
// no longer applies.
func (m *Model) changed() {
	m.dirty = true
	m.report = nil
}

func (m *Model) setStatus(level statusLevel, text string) {
	m.level = level
	m.status = text
}

// Portfolio returns the portfolio as currently edited.
func (m Model) Portfolio() model.Portfolio {
	loans := make([]model.Loan, len(m.loans))
	copy(loans, m.loans)
	return model.Portfolio{
		Name:        m.name,
		Loans:       loans,
		ExtraAmount: m.extra,
	}
}

// Dirty reports whether there are unsaved edits.
func (m Model) Dirty() bool {
	return m.dirty
}
