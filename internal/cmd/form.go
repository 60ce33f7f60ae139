package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/iwvelando/maintenance-budget/internal/budget"
	"github.com/iwvelando/maintenance-budget/internal/metrics"
	"github.com/iwvelando/maintenance-budget/internal/profile"
	"github.com/iwvelando/maintenance-budget/internal/report"
	"github.com/iwvelando/maintenance-budget/pkg/constants"
	"github.com/iwvelando/maintenance-budget/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// formValues backs the huh fields, which edit strings.
type formValues struct {
	grossArea        string
	capacity         string
	constructionYear string
	annualRevenue    string
	equipment        []string
	variant          string
}

func newFormValues(in budget.AssetInput, v report.Variant) *formValues {
	return &formValues{
		grossArea:        strconv.FormatFloat(in.GrossArea, 'f', -1, 64),
		capacity:         strconv.Itoa(in.Capacity),
		constructionYear: strconv.Itoa(in.ConstructionYear),
		annualRevenue:    strconv.FormatFloat(in.AnnualRevenue, 'f', -1, 64),
		equipment:        in.Equipment.Names(),
		variant:          string(v),
	}
}

func (v *formValues) assetInput() (budget.AssetInput, error) {
	area, err := strconv.ParseFloat(strings.TrimSpace(v.grossArea), 64)
	if err != nil {
		return budget.AssetInput{}, fmt.Errorf("gross area: %w", err)
	}
	capacity, err := strconv.Atoi(strings.TrimSpace(v.capacity))
	if err != nil {
		return budget.AssetInput{}, fmt.Errorf("capacity: %w", err)
	}
	year, err := strconv.Atoi(strings.TrimSpace(v.constructionYear))
	if err != nil {
		return budget.AssetInput{}, fmt.Errorf("construction year: %w", err)
	}
	revenue, err := strconv.ParseFloat(strings.TrimSpace(v.annualRevenue), 64)
	if err != nil {
		return budget.AssetInput{}, fmt.Errorf("annual revenue: %w", err)
	}
	equipment, err := budget.ParseEquipment(v.equipment)
	if err != nil {
		return budget.AssetInput{}, err
	}

	return budget.AssetInput{
		GrossArea:        area,
		Capacity:         capacity,
		ConstructionYear: year,
		AnnualRevenue:    revenue,
		Equipment:        equipment,
	}, nil
}

func validateNumber(s string) error {
	if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
		return errors.New("enter a number")
	}
	return nil
}

func validateWholeNumber(s string) error {
	if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
		return errors.New("enter a whole number")
	}
	return nil
}

func newAssetForm(v *formValues) *huh.Form {
	options := make([]huh.Option[string], 0, len(budget.Catalog()))
	for _, rate := range budget.Catalog() {
		options = append(options, huh.NewOption(rate.Label, rate.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Gross area (m²)").Value(&v.grossArea).Validate(validateNumber),
			huh.NewInput().Title("Capacity (occupants)").Value(&v.capacity).Validate(validateWholeNumber),
			huh.NewInput().Title("Construction year").Value(&v.constructionYear).Validate(validateWholeNumber),
			huh.NewInput().Title("Annual revenue (€)").Value(&v.annualRevenue).Validate(validateNumber),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Equipment").
				Options(options...).
				Value(&v.equipment),
			huh.NewSelect[string]().
				Title("Report").
				Options(
					huh.NewOption("Compact", constants.VariantCompact),
					huh.NewOption("Detailed", constants.VariantDetailed),
				).
				Value(&v.variant),
		),
	)
}

func newFormCommand(o *rootOptions) *cobra.Command {
	var (
		savePath string
		name     string
	)

	cmd := &cobra.Command{
		Use:   "form",
		Short: "Fill in the asset interactively and evaluate it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, variant, err := o.resolveOutput()
			if err != nil {
				return err
			}
			in, err := o.resolveInput(cmd)
			if err != nil {
				return err
			}

			values := newFormValues(in, variant)
			if err := newAssetForm(values).Run(); err != nil {
				return fmt.Errorf("form aborted: %w", err)
			}

			in, err = values.assetInput()
			if err != nil {
				return err
			}
			if variant, err = report.ParseVariant(values.variant); err != nil {
				return err
			}

			start := time.Now()
			res, err := budget.Evaluate(in)
			metrics.Observe(metrics.SurfaceForm, err, res.IsCritical, time.Since(start))
			if err != nil {
				return err
			}

			if savePath != "" {
				if name == "" {
					name = strings.TrimSuffix(filepath.Base(savePath), filepath.Ext(savePath))
				}
				if err := profile.Save(savePath, profile.FromInput(name, in)); err != nil {
					return err
				}
				o.logger.Info("saved profile",
					zap.String("op", "cmd.form"),
					zap.String("path", savePath),
				)
			}

			return output.Render(cmd.OutOrStdout(), format, output.NewDocument(in, res, variant))
		},
	}

	cmd.Flags().StringVar(&savePath, "save", "", "save the entered asset as a TOML profile")
	cmd.Flags().StringVar(&name, "name", "", "profile name (defaults to the file name)")
	return cmd
}
