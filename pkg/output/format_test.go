package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/iwvelando/maintenance-budget/internal/budget"
	"github.com/iwvelando/maintenance-budget/internal/report"
	"github.com/iwvelando/maintenance-budget/pkg/testutil"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func document(t *testing.T, in budget.AssetInput, v report.Variant) Document {
	t.Helper()
	res, err := budget.Evaluate(in)
	require.NoError(t, err)
	return NewDocument(in, res, v)
}

func TestPrettyFormatCompact(t *testing.T) {
	doc := document(t, testutil.ReferenceAsset(), report.Compact)

	var buf bytes.Buffer
	require.NoError(t, PrettyFormat(&buf, doc))
	out := buf.String()

	for _, want := range []string{
		"Maintenance Budget",
		"Reconstruction value", "€ 630,000",
		"Annual budget", "€ 24,696",
		"Revenue incidence", "5.49%", "OK",
		"Cost split", "Ordinary", "Extraordinary", "Margin", "€ 425,304",
		"Technical justification", "Vetusty coefficient (kv)", "1.4", "13.33",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "CRITICAL")
	assert.NotContains(t, out, "Basis")
}

func TestPrettyFormatDetailedCritical(t *testing.T) {
	in := testutil.WithEquipment(testutil.ReferenceAsset(), budget.Elevator)
	in.AnnualRevenue = 20000
	doc := document(t, in, report.Detailed)

	var buf bytes.Buffer
	require.NoError(t, PrettyFormat(&buf, doc))
	out := buf.String()

	assert.Contains(t, out, "CRITICAL")
	assert.Contains(t, out, report.CriticalNotice)
	assert.Contains(t, out, "Basis")
	assert.Contains(t, out, "-€ ")
	assert.Contains(t, out, "Ordinary maintenance")
}

func TestRenderTableAlignment(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Parameter", "Value"},
		Rows: [][]string{
			{"kv", "1.4"},
			{"m² per occupant", "13.33"},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6)
	width := lipgloss.Width(lines[0])
	for _, line := range lines {
		assert.Equal(t, width, lipgloss.Width(line), "line %q", line)
	}
	assert.Contains(t, lines[3], "│ kv              │   1.4 │")
}

func TestRenderTableEmpty(t *testing.T) {
	assert.Empty(t, RenderTable(Table{}))
}

func TestRenderBarNegativeAmount(t *testing.T) {
	bar := RenderBar("Margin", "-€ 4,696", -4696, 20000, 8, 10, ColorGreen)
	assert.Contains(t, bar, strings.Repeat("░", 10))
	assert.Contains(t, bar, "-€ 4,696")
}

func TestCsvFormat(t *testing.T) {
	doc := document(t, testutil.WithEquipment(testutil.ReferenceAsset(), budget.HVAC), report.Compact)

	records, err := csv.NewReader(strings.NewReader(CsvString(doc))).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, []string{"section", "name", "value"}, records[0])

	values := make(map[string]string)
	for _, rec := range records[1:] {
		require.Len(t, rec, 3)
		values[rec[0]+"."+rec[1]] = rec[2]
	}
	assert.Equal(t, "630000", values["result.reconstructionValue"])
	assert.Equal(t, "36", values["result.buildingAge"])
	assert.Equal(t, "hvac", values["input.equipment"])
	assert.Equal(t, "false", values["result.isCritical"])
	assert.Contains(t, values, "split.residualMargin")
}

func TestJSONFormat(t *testing.T) {
	doc := document(t, testutil.ReferenceAsset(), report.Detailed)

	var buf bytes.Buffer
	require.NoError(t, JSONFormat(&buf, doc))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	result := decoded["result"].(map[string]interface{})
	assert.InDelta(t, 24696, result["totalBudget"], 1e-6)
	assert.Equal(t, false, result["isCritical"])
	rep := decoded["report"].(map[string]interface{})
	assert.Equal(t, "detailed", rep["variant"])
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	doc := document(t, testutil.ReferenceAsset(), report.Compact)
	var buf bytes.Buffer
	assert.Error(t, Render(&buf, "xml", doc))
	assert.Zero(t, buf.Len())

	require.NoError(t, Render(&buf, "csv", doc))
	assert.True(t, strings.HasPrefix(buf.String(), "section,name,value"))
}
