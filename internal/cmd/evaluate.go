package cmd

import (
	"time"

	"github.com/iwvelando/maintenance-budget/internal/budget"
	"github.com/iwvelando/maintenance-budget/internal/metrics"
	"github.com/iwvelando/maintenance-budget/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newEvaluateCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate the maintenance budget for one asset",
		Long: `Evaluate the maintenance budget for one asset.

Asset parameters come from the configuration file, then --profile, then the
--area, --capacity, --year, --revenue and --equipment flags, each layer
overriding the previous one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEvaluate(cmd, o)
		},
	}
}

func runEvaluate(cmd *cobra.Command, o *rootOptions) error {
	format, variant, err := o.resolveOutput()
	if err != nil {
		return err
	}

	in, err := o.resolveInput(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := budget.Evaluate(in)
	metrics.Observe(metrics.SurfaceCLI, err, res.IsCritical, time.Since(start))
	if err != nil {
		o.logger.Error("failed to evaluate budget",
			zap.String("op", "cmd.runEvaluate"),
			zap.Error(err),
		)
		return err
	}

	o.logger.Debug("evaluated budget",
		zap.String("op", "cmd.runEvaluate"),
		zap.Float64("totalBudget", res.TotalBudget),
		zap.Float64("revenueIncidencePercent", res.RevenueIncidencePercent),
		zap.Bool("critical", res.IsCritical),
	)

	return output.Render(cmd.OutOrStdout(), format, output.NewDocument(in, res, variant))
}
