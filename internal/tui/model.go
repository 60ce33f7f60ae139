// Package tui is an interactive terminal front end that re-evaluates the
// budget on every keystroke.
package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/iwvelando/maintenance-budget/internal/budget"
	"github.com/iwvelando/maintenance-budget/internal/metrics"
	"github.com/iwvelando/maintenance-budget/internal/report"
	"github.com/iwvelando/maintenance-budget/pkg/output"
)

const (
	fieldGrossArea = iota
	fieldCapacity
	fieldConstructionYear
	fieldAnnualRevenue
	numFields
)

var fieldLabels = [numFields]string{
	"Gross area (m²)",
	"Capacity",
	"Construction year",
	"Annual revenue (€)",
}

const labelWidth = 20

var (
	labelStyle   = lipgloss.NewStyle().Foreground(output.ColorTextMuted)
	focusStyle   = lipgloss.NewStyle().Foreground(output.ColorAccent).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(output.ColorRed)
	helpStyle    = lipgloss.NewStyle().Foreground(output.ColorTextDim)
	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(output.ColorBorder).
			Padding(0, 1).
			MarginRight(1)
)

// Model holds the form state and the latest evaluation.
type Model struct {
	inputs    [numFields]textinput.Model
	equipment budget.Equipment
	catalog   []budget.EquipmentRate
	focus     int
	variant   report.Variant

	input  budget.AssetInput
	result budget.BudgetResult
	err    error
}

// New returns a model pre-filled with in.
func New(in budget.AssetInput, v report.Variant) Model {
	m := Model{
		equipment: in.Equipment,
		catalog:   budget.Catalog(),
		variant:   v,
	}

	values := [numFields]string{
		strconv.FormatFloat(in.GrossArea, 'f', -1, 64),
		strconv.Itoa(in.Capacity),
		strconv.Itoa(in.ConstructionYear),
		strconv.FormatFloat(in.AnnualRevenue, 'f', -1, 64),
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.CharLimit = 16
		ti.Width = 14
		ti.Prompt = ""
		ti.SetValue(values[i])
		m.inputs[i] = ti
	}
	m.inputs[0].Focus()

	m.recompute()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "down":
		return m, m.setFocus((m.focus + 1) % m.rows())
	case "shift+tab", "up":
		return m, m.setFocus((m.focus - 1 + m.rows()) % m.rows())
	case " ", "space", "enter", "x":
		if m.focus >= numFields {
			m.equipment = m.equipment.Toggle(m.catalog[m.focus-numFields].Flag)
			m.recompute()
			return m, nil
		}
	}

	if m.focus >= numFields {
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.recompute()
	return m, cmd
}

func (m Model) rows() int {
	return numFields + len(m.catalog)
}

func (m *Model) setFocus(i int) tea.Cmd {
	m.focus = i
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == i {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return cmd
}

func (m *Model) recompute() {
	start := time.Now()

	in, err := m.parse()
	if err != nil {
		m.err = err
		return
	}
	m.input = in

	res, err := budget.Evaluate(in)
	metrics.Observe(metrics.SurfaceTUI, err, res.IsCritical, time.Since(start))
	m.result, m.err = res, err
}

func (m Model) parse() (budget.AssetInput, error) {
	area, err := strconv.ParseFloat(strings.TrimSpace(m.inputs[fieldGrossArea].Value()), 64)
	if err != nil {
		return budget.AssetInput{}, errors.New("gross area must be a number")
	}
	capacity, err := strconv.Atoi(strings.TrimSpace(m.inputs[fieldCapacity].Value()))
	if err != nil {
		return budget.AssetInput{}, errors.New("capacity must be a whole number")
	}
	year, err := strconv.Atoi(strings.TrimSpace(m.inputs[fieldConstructionYear].Value()))
	if err != nil {
		return budget.AssetInput{}, errors.New("construction year must be a whole number")
	}
	revenue, err := strconv.ParseFloat(strings.TrimSpace(m.inputs[fieldAnnualRevenue].Value()), 64)
	if err != nil {
		return budget.AssetInput{}, errors.New("annual revenue must be a number")
	}

	return budget.AssetInput{
		GrossArea:        area,
		Capacity:         capacity,
		ConstructionYear: year,
		AnnualRevenue:    revenue,
		Equipment:        m.equipment,
	}, nil
}

// Input returns the last input that parsed successfully.
func (m Model) Input() budget.AssetInput {
	return m.input
}

// Result returns the latest evaluation and the error that replaced it, if any.
func (m Model) Result() (budget.BudgetResult, error) {
	return m.result, m.err
}

// View implements tea.Model.
func (m Model) View() string {
	var side strings.Builder
	for i := range m.inputs {
		label := fieldLabels[i]
		if i == m.focus {
			side.WriteString(focusStyle.Render(fmt.Sprintf("%-*s", labelWidth, label)))
		} else {
			side.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", labelWidth, label)))
		}
		side.WriteString(m.inputs[i].View())
		side.WriteString("\n")
	}
	side.WriteString("\n")
	for i, rate := range m.catalog {
		box := "[ ]"
		if m.equipment.Has(rate.Flag) {
			box = "[x]"
		}
		line := box + " " + rate.Label
		if numFields+i == m.focus {
			side.WriteString(focusStyle.Render(line))
		} else {
			side.WriteString(labelStyle.Render(line))
		}
		side.WriteString("\n")
	}

	var main strings.Builder
	if m.err != nil {
		main.WriteString(errorStyle.Render("  " + m.err.Error()))
		main.WriteString("\n")
	} else if err := output.PrettyFormat(&main, output.NewDocument(m.input, m.result, m.variant)); err != nil {
		main.WriteString(errorStyle.Render("  " + err.Error()))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebarStyle.Render(strings.TrimRight(side.String(), "\n")), main.String())
	return body + "\n" + helpStyle.Render("  tab/shift+tab move · space toggles equipment · esc quits") + "\n"
}
