package integration

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"testing"

	"github.com/iwvelando/maintenance-budget/internal/budget"
	"github.com/iwvelando/maintenance-budget/internal/config"
	"github.com/iwvelando/maintenance-budget/internal/report"
	"github.com/iwvelando/maintenance-budget/pkg/output"
	"github.com/iwvelando/maintenance-budget/pkg/testutil"
)

const testConfigPath = "../test_config.yaml"

func loadAndEvaluate(t *testing.T) (budget.AssetInput, budget.BudgetResult, *config.Configuration) {
	t.Helper()

	conf, err := config.LoadConfiguration(testConfigPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	in, err := conf.AssetInput()
	if err != nil {
		t.Fatalf("AssetInput() error = %v", err)
	}

	res, err := budget.Evaluate(in)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	return in, res, conf
}

// TestMainIntegrationBaseline checks the sample configuration end to end
// against hand-computed figures.
func TestMainIntegrationBaseline(t *testing.T) {
	in, res, _ := loadAndEvaluate(t)

	if in.Equipment != budget.NewEquipment(budget.Elevator, budget.HVAC) {
		t.Fatalf("unexpected equipment %s", in.Equipment)
	}

	expected := []struct {
		name string
		got  float64
		want float64
	}{
		{"reconstruction value", res.ReconstructionValue, 630000},
		{"kv", res.VetustyCoefficient, 1.4},
		{"kd", res.DensityCoefficient, 1.5},
		{"delta ordinary", res.DeltaOrdinaryRate, 0.006},
		{"delta extraordinary", res.DeltaExtraordinaryRate, 0.004},
		{"ordinary maintenance", res.OrdinaryMaintenance, 22302},
		{"extraordinary reserve", res.ExtraordinaryReserve, 8694},
		{"total budget", res.TotalBudget, 30996},
		{"revenue incidence", res.RevenueIncidencePercent, 6.888},
	}
	for _, e := range expected {
		if !testutil.AlmostEqual(e.got, e.want) {
			t.Errorf("%s = %v, want %v", e.name, e.got, e.want)
		}
	}
	if res.BuildingAge != 36 {
		t.Errorf("building age = %d, want 36", res.BuildingAge)
	}
	if res.IsCritical {
		t.Error("sample asset should not be critical")
	}
}

func TestCSVOutputFormat(t *testing.T) {
	in, res, _ := loadAndEvaluate(t)

	var buf bytes.Buffer
	if err := output.Render(&buf, "csv", output.NewDocument(in, res, report.Compact)); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse csv output: %v", err)
	}
	if len(records) < 2 {
		t.Fatalf("expected csv rows, got %d", len(records))
	}

	values := make(map[string]string)
	for _, rec := range records[1:] {
		if len(rec) != 3 {
			t.Fatalf("expected 3 columns, got %v", rec)
		}
		values[rec[0]+"."+rec[1]] = rec[2]
	}

	for key, want := range map[string]float64{
		"result.totalBudget":   30996,
		"split.residualMargin": 419004,
	} {
		got, err := strconv.ParseFloat(values[key], 64)
		if err != nil {
			t.Fatalf("%s is not a number: %q", key, values[key])
		}
		if !testutil.AlmostEqual(got, want) {
			t.Errorf("expected %s %v, got %v", key, want, got)
		}
	}
}

func TestPrettyOutputFormat(t *testing.T) {
	in, res, conf := loadAndEvaluate(t)

	variant, err := report.ParseVariant(conf.Output.Variant)
	if err != nil {
		t.Fatalf("ParseVariant() error = %v", err)
	}

	var buf bytes.Buffer
	if err := output.Render(&buf, conf.Output.Format, output.NewDocument(in, res, variant)); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Maintenance Budget", "€ 630,000", "€ 22,302", "€ 8,694", "6.89%", "OK"} {
		if !strings.Contains(out, want) {
			t.Errorf("pretty output missing %q", want)
		}
	}
}

func TestConfigurationValidation(t *testing.T) {
	_, _, conf := loadAndEvaluate(t)

	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("sample configuration should not warn, got %v", warnings)
	}
}

// TestEndToEndAcrossEquipment runs every equipment combination through the
// config path and checks the additive rate model.
func TestEndToEndAcrossEquipment(t *testing.T) {
	base, err := budget.Evaluate(testutil.ReferenceAsset())
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	for _, eq := range testutil.EquipmentSubsets() {
		t.Run(eq.String(), func(t *testing.T) {
			yaml := "asset:\n  grossArea: 600\n  capacity: 45\n  constructionYear: 1990\n  annualRevenue: 450000\n  equipment: [" +
				strings.Join(eq.Names(), ", ") + "]\n"

			conf, err := config.LoadConfigurationFromReader(strings.NewReader(yaml))
			if err != nil {
				t.Fatalf("LoadConfigurationFromReader() error = %v", err)
			}
			in, err := conf.AssetInput()
			if err != nil {
				t.Fatalf("AssetInput() error = %v", err)
			}
			if in.Equipment != eq {
				t.Fatalf("equipment %s round-tripped as %s", eq, in.Equipment)
			}

			res, err := budget.Evaluate(in)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}

			ordinary, extraordinary := eq.Rates()
			wantTotal := base.TotalBudget + base.ReconstructionValue*(ordinary+extraordinary)
			if !testutil.AlmostEqual(res.TotalBudget, wantTotal) {
				t.Errorf("total = %v, want %v", res.TotalBudget, wantTotal)
			}
			if res.TotalBudget < base.TotalBudget {
				t.Errorf("equipment lowered the budget: %v < %v", res.TotalBudget, base.TotalBudget)
			}
		})
	}
}

func TestCriticalThresholdEndToEnd(t *testing.T) {
	tests := []struct {
		revenue  float64
		critical bool
	}{
		{450000, false},
		{309970, false},
		{309950, true},
		{20000, true},
	}

	for _, tt := range tests {
		in := testutil.WithEquipment(testutil.ReferenceAsset(), budget.Elevator, budget.HVAC)
		in.AnnualRevenue = tt.revenue

		res, err := budget.Evaluate(in)
		if err != nil {
			t.Fatalf("Evaluate() error = %v", err)
		}
		if res.IsCritical != tt.critical {
			t.Errorf("revenue %v: critical = %v (incidence %v), want %v",
				tt.revenue, res.IsCritical, res.RevenueIncidencePercent, tt.critical)
		}

		r := report.Build(in, res, report.Compact)
		if (r.Notice != "") != tt.critical {
			t.Errorf("revenue %v: notice %q does not match critical=%v", tt.revenue, r.Notice, tt.critical)
		}
	}
}
