package cmd

import (
	"fmt"

	"github.com/iwvelando/maintenance-budget/internal/budget"
	"github.com/iwvelando/maintenance-budget/pkg/format"
	"github.com/iwvelando/maintenance-budget/pkg/output"
	"github.com/spf13/cobra"
)

func newEquipmentCommand(_ *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "equipment",
		Short: "List the equipment flags and the rates they add",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog := budget.Catalog()
			rows := make([][]string, 0, len(catalog))
			for _, rate := range catalog {
				rows = append(rows, []string{rate.Name, rate.Label, format.Rate(rate.Ordinary), format.Rate(rate.Extraordinary)})
			}

			table := output.Table{
				Title:   "Equipment",
				Headers: []string{"Flag", "Label", "Δ ordinary", "Δ extraordinary"},
				Rows:    rows,
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), output.RenderTable(table))
			return err
		},
	}
}
