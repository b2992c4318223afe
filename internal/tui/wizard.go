// Package tui renders the leasing wizard in the terminal.
//
// The controller is only touched from Update, except while a blocking call
// (country load or submission) runs in a command; during that time the
// model is busy, ignores input and renders from its cached snapshot.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"leasing-wizard/internal/leasing/countries"
	"leasing-wizard/internal/leasing/form"
	"leasing-wizard/internal/leasing/submission"
	"leasing-wizard/internal/leasing/wizard"
	"leasing-wizard/internal/models"
)

type mountedMsg struct{ err error }

type submittedMsg struct{ err error }

// Model is the bubbletea model wrapping a wizard.Controller.
type Model struct {
	ctx       context.Context
	ctrl      *wizard.Controller
	inputs    map[string]textinput.Model
	state     wizard.State
	countries []models.Country
	focus     int
	busy      bool
	status    string
	width     int
}

// New builds the model. Init loads the countries.
func New(ctx context.Context, ctrl *wizard.Controller) *Model {
	m := &Model{
		ctx:    ctx,
		ctrl:   ctrl,
		inputs: make(map[string]textinput.Model, len(form.Fields)),
	}
	draft := ctrl.Draft()
	for _, f := range form.Fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 256
		ti.SetValue(form.Value(draft, f))
		m.inputs[f] = ti
	}
	m.refresh()
	m.focusCurrent()
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.mount())
}

func (m *Model) mount() tea.Cmd {
	m.busy = true
	m.status = "Loading countries..."
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return mountedMsg{err: ctrl.Mount(ctx)}
	}
}

func (m *Model) submit() tea.Cmd {
	m.busy = true
	m.status = "Submitting..."
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return submittedMsg{err: ctrl.Submit(ctx)}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case mountedMsg:
		m.busy = false
		m.status = ""
		m.countries = m.ctrl.Countries()
		m.refresh()
		return m, nil

	case submittedMsg:
		m.busy = false
		m.status = ""
		m.refresh()
		if msg.err != nil {
			switch {
			case !errors.Is(msg.err, wizard.ErrStepInvalid):
				m.status = "Submission failed: " + msg.err.Error()
			case !m.focusFirstError():
				m.status = "Employment details are missing. Press esc to complete them on step 2."
			}
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.busy {
		return m, nil
	}
	if m.state.Step == wizard.Submitted {
		switch msg.String() {
		case "q", "enter", "esc":
			return m, tea.Quit
		}
		return m, nil
	}

	field := m.currentField()
	switch msg.String() {
	case "ctrl+r":
		if m.state.Blocked {
			return m, m.mount()
		}
		return m, nil
	case "tab", "down":
		m.moveFocus(1)
		return m, nil
	case "shift+tab", "up":
		m.moveFocus(-1)
		return m, nil
	case "esc":
		if err := m.ctrl.Previous(); err == nil {
			m.status = ""
			m.focus = 0
			m.refresh()
			m.focusCurrent()
		}
		return m, nil
	case "enter":
		return m, m.advance()
	case "left", "right":
		if isChoice(field) {
			step := 1
			if msg.String() == "left" {
				step = -1
			}
			m.cycle(field, step)
			return m, nil
		}
	case " ":
		if field == form.FieldTerms {
			m.set(field, strconv.FormatBool(!m.state.Draft.Terms))
			return m, nil
		}
	}

	if field == "" || field == form.FieldTerms || field == form.FieldProductType {
		return m, nil
	}

	ti := m.inputs[field]
	before := ti.Value()
	ti, cmd := ti.Update(msg)
	m.inputs[field] = ti
	if ti.Value() != before {
		m.set(field, ti.Value())
	}
	return m, cmd
}

// advance moves to the next step, or submits on the last one.
func (m *Model) advance() tea.Cmd {
	if m.state.Step == wizard.Step3 {
		return m.submit()
	}

	err := m.ctrl.Next()
	m.refresh()
	switch {
	case err == nil:
		m.status = ""
		m.focus = 0
		m.focusCurrent()
	case errors.Is(err, wizard.ErrBlocked):
		m.status = "Countries are unavailable. Press ctrl+r to retry."
	default:
		m.status = "Please fix the highlighted fields."
		m.focusFirstError()
	}
	return nil
}

func (m *Model) set(field, value string) {
	err := m.ctrl.Set(field, value)
	m.refresh()
	draft := m.state.Draft
	switch {
	case errors.Is(err, wizard.ErrDerivedField):
		m.setInput(field, form.Value(draft, field))
	case field == form.FieldProductType:
		m.setInput(form.FieldProductModel, draft.ProductModel)
		m.setInput(field, value)
	case field == form.FieldCountry || field == form.FieldTerms:
		m.setInput(field, value)
	}
}

func (m *Model) setInput(field, value string) {
	ti := m.inputs[field]
	ti.SetValue(value)
	m.inputs[field] = ti
}

func (m *Model) cycle(field string, step int) {
	var options []string
	switch field {
	case form.FieldProductType:
		for _, p := range models.ProductTypes {
			options = append(options, string(p))
		}
	case form.FieldCountry:
		options = countries.Names(m.countries)
	}
	if len(options) == 0 {
		return
	}

	current := form.Value(m.state.Draft, field)
	idx := -1
	for i, o := range options {
		if o == current {
			idx = i
			break
		}
	}
	switch {
	case idx < 0 && step < 0:
		idx = len(options) - 1
	case idx < 0:
		idx = 0
	default:
		idx = (idx + step + len(options)) % len(options)
	}
	m.set(field, options[idx])
}

func (m *Model) moveFocus(delta int) {
	n := len(m.state.Fields)
	if n == 0 {
		return
	}
	if m.state.Step == wizard.Step1 {
		_ = m.ctrl.Touch(m.currentField())
		m.refresh()
	}
	m.focus = (m.focus + delta + n) % n
	m.focusCurrent()
}

// focusFirstError reports whether an error sits on a field of the current step.
func (m *Model) focusFirstError() bool {
	found := false
	for i, f := range m.state.Fields {
		if _, bad := m.state.Errors[f]; bad {
			m.focus = i
			found = true
			break
		}
	}
	m.focusCurrent()
	return found
}

func (m *Model) focusCurrent() {
	current := m.currentField()
	for f, ti := range m.inputs {
		if f == current {
			ti.Focus()
		} else {
			ti.Blur()
		}
		m.inputs[f] = ti
	}
}

func (m *Model) currentField() string {
	if m.focus < 0 || m.focus >= len(m.state.Fields) {
		return ""
	}
	return m.state.Fields[m.focus]
}

func (m *Model) refresh() {
	m.state = m.ctrl.State()
	if m.focus >= len(m.state.Fields) {
		m.focus = 0
	}
}

func isChoice(field string) bool {
	return field == form.FieldProductType || field == form.FieldCountry
}

// Ack returns the acknowledgement once the application was submitted.
func (m *Model) Ack() (submission.Ack, bool) {
	return m.ctrl.Ack()
}

func (m *Model) View() string {
	var b strings.Builder

	if m.state.Step == wizard.Submitted {
		b.WriteString(successStyle.Render("Application submitted."))
		if ack, ok := m.ctrl.Ack(); ok {
			fmt.Fprintf(&b, "\nReference: %s", ack.Reference)
		}
		b.WriteString(hintStyle.Render("\nPress enter to exit."))
		return boxStyle.Render(b.String()) + "\n"
	}

	b.WriteString(titleStyle.Render(fmt.Sprintf("Lease Application · Step %d of 3 · %s", int(m.state.Step), m.state.Step.Title())))
	b.WriteString("\n")
	if m.state.Notice != "" {
		b.WriteString(errorStyle.Render(m.state.Notice))
		b.WriteString("\n")
	}

	for i, f := range m.state.Fields {
		cursor := "  "
		label := labelStyle.Render(labels[f])
		if i == m.focus {
			cursor = focusStyle.Render("› ")
		}
		b.WriteString(cursor + label + " " + m.renderValue(f))
		b.WriteString("\n")
		if msg := m.state.Errors[f]; msg != "" {
			b.WriteString("    " + errorStyle.Render(msg))
			b.WriteString("\n")
		}
	}

	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	b.WriteString(hintStyle.Render(m.hint()))

	out := b.String()
	if m.width > 0 {
		out = lipgloss.NewStyle().MaxWidth(m.width).Render(out)
	}
	return out + "\n"
}

func (m *Model) renderValue(field string) string {
	draft := m.state.Draft
	switch field {
	case form.FieldTerms:
		if draft.Terms {
			return "[x] I agree to the terms"
		}
		return "[ ] I agree to the terms"
	case form.FieldProductType:
		if draft.ProductType == "" {
			return "‹ Select a product ›"
		}
		return "‹ " + string(draft.ProductType) + " ›"
	case form.FieldProductModel:
		if draft.ProductType.Valid() {
			return derivedStyle.Render(draft.ProductModel)
		}
	case form.FieldCountry:
		for _, c := range m.countries {
			if c.Name.Common == draft.Country {
				return "‹ " + countries.DisplayName(c) + " ›"
			}
		}
	}
	return m.inputs[field].View()
}

func (m *Model) hint() string {
	next := "enter next"
	if m.state.Step == wizard.Step3 {
		next = "enter submit"
	}
	parts := []string{"tab/↑↓ move", "←/→ choose", next}
	if m.state.Step != wizard.Step1 {
		parts = append(parts, "esc back")
	}
	if m.state.Blocked {
		parts = append(parts, "ctrl+r retry")
	}
	return strings.Join(append(parts, "ctrl+c quit"), " · ")
}
