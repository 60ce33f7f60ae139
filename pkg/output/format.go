// Package output provides utilities for formatting and displaying budget results.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iwvelando/maintenance-budget/internal/budget"
	"github.com/iwvelando/maintenance-budget/internal/report"
	"github.com/iwvelando/maintenance-budget/pkg/constants"
	"github.com/iwvelando/maintenance-budget/pkg/validation"
)

// Document bundles everything one evaluation produces for rendering.
type Document struct {
	Input  budget.AssetInput   `json:"input"`
	Result budget.BudgetResult `json:"result"`
	Split  budget.CostSplit    `json:"split"`
	Report report.Report       `json:"report"`
}

// NewDocument builds the document for an evaluated input.
func NewDocument(in budget.AssetInput, res budget.BudgetResult, v report.Variant) Document {
	return Document{
		Input:  in,
		Result: res,
		Split:  res.Split(in.AnnualRevenue),
		Report: report.Build(in, res, v),
	}
}

const (
	prettyWidth    = 66
	barWidth       = 30
	barLabelWidth  = 14
	cardGapColumns = 2
)

// Render writes doc in the requested format.
func Render(w io.Writer, format string, doc Document) error {
	if err := validation.ValidateOutputFormat(format); err != nil {
		return err
	}

	switch format {
	case constants.OutputFormatCSV:
		return CsvFormat(w, doc)
	case constants.OutputFormatJSON:
		return JSONFormat(w, doc)
	default:
		return PrettyFormat(w, doc)
	}
}

// PrettyFormat outputs a styled, human-readable report.
func PrettyFormat(w io.Writer, doc Document) error {
	r := doc.Report
	var b strings.Builder

	b.WriteString(RenderTitle(r.Title, prettyWidth))
	b.WriteString("\n")

	cardWidth := cardWidthFor(r.Headline)
	cards := make([]string, 0, len(r.Headline))
	for _, m := range r.Headline {
		cards = append(cards, RenderCard(m.Label, m.Value, m.Status, cardWidth))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n\n")

	b.WriteString("  ")
	b.WriteString(headerStyle.Render("Cost split"))
	b.WriteString("\n")
	for i, s := range r.Split {
		value := s.Value
		if s.Percent != "" {
			value += mutedStyle.Render("  " + s.Percent)
		}
		b.WriteString(RenderBar(s.Label, value, s.Amount, doc.Input.AnnualRevenue, barLabelWidth, barWidth, SliceColors[i%len(SliceColors)]))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	headers := []string{"Parameter", "Value"}
	if r.Variant == report.Detailed {
		headers = append(headers, "Basis")
	}
	rows := make([][]string, 0, len(r.Justification))
	for _, row := range r.Justification {
		cells := []string{row.Parameter, row.Value}
		if r.Variant == report.Detailed {
			cells = append(cells, row.Basis)
		}
		rows = append(rows, cells)
	}
	b.WriteString(RenderTable(Table{Title: "Technical justification", Headers: headers, Rows: rows}))

	if r.Notice != "" {
		b.WriteString("\n  ")
		b.WriteString(criticalStyle.Render(r.Notice))
		b.WriteString("\n")
	}
	for _, warning := range r.Warnings {
		b.WriteString("\n  ")
		b.WriteString(mutedStyle.Render("warning: " + warning))
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// cardWidthFor spreads the cards over the title width, widening them when a
// label would otherwise wrap.
func cardWidthFor(metrics []report.Metric) int {
	if len(metrics) == 0 {
		return prettyWidth
	}
	width := prettyWidth/len(metrics) - cardGapColumns
	for _, m := range metrics {
		for _, text := range []string{m.Label, m.Value, m.Status} {
			if w := lipgloss.Width(text) + cardGapColumns; w > width {
				width = w
			}
		}
	}
	return width
}

// CsvFormat outputs in comma-separated value format: one row per reported
// value, grouped by section. Amounts are written unrounded.
func CsvFormat(w io.Writer, doc Document) error {
	cw := csv.NewWriter(w)
	res := doc.Result
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

	records := [][]string{
		{"section", "name", "value"},
		{"input", "grossArea", f(doc.Input.GrossArea)},
		{"input", "capacity", strconv.Itoa(doc.Input.Capacity)},
		{"input", "constructionYear", strconv.Itoa(doc.Input.ConstructionYear)},
		{"input", "annualRevenue", f(doc.Input.AnnualRevenue)},
		{"input", "equipment", strings.Join(doc.Input.Equipment.Names(), ";")},
		{"result", "reconstructionValue", f(res.ReconstructionValue)},
		{"result", "buildingAge", strconv.Itoa(res.BuildingAge)},
		{"result", "kv", f(res.VetustyCoefficient)},
		{"result", "occupancyDensity", f(res.OccupancyDensity)},
		{"result", "kd", f(res.DensityCoefficient)},
		{"result", "deltaOrdinaryRate", f(res.DeltaOrdinaryRate)},
		{"result", "deltaExtraordinaryRate", f(res.DeltaExtraordinaryRate)},
		{"result", "ordinaryMaintenance", f(res.OrdinaryMaintenance)},
		{"result", "extraordinaryReserve", f(res.ExtraordinaryReserve)},
		{"result", "totalBudget", f(res.TotalBudget)},
		{"result", "revenueIncidencePercent", f(res.RevenueIncidencePercent)},
		{"result", "isCritical", strconv.FormatBool(res.IsCritical)},
		{"split", "ordinaryMaintenance", f(doc.Split.OrdinaryMaintenance)},
		{"split", "extraordinaryReserve", f(doc.Split.ExtraordinaryReserve)},
		{"split", "residualMargin", f(doc.Split.ResidualMargin)},
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// CsvString renders the CSV output into a string.
func CsvString(doc Document) string {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, doc); err != nil {
		return ""
	}
	return buf.String()
}

// JSONFormat outputs the document as indented JSON.
func JSONFormat(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}
