// Package cmd wires the command line surfaces: one-shot evaluation, the HTTP
// server, the interactive form and TUI, and profile management.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/iwvelando/maintenance-budget/internal/budget"
	"github.com/iwvelando/maintenance-budget/internal/config"
	"github.com/iwvelando/maintenance-budget/internal/profile"
	"github.com/iwvelando/maintenance-budget/internal/report"
	"github.com/iwvelando/maintenance-budget/pkg/constants"
	"github.com/iwvelando/maintenance-budget/pkg/validation"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Exit codes returned by Execute.
const (
	ExitOK           = 0
	ExitError        = 1
	ExitInvalidInput = 2
)

type rootOptions struct {
	version      string
	configPath   string
	envFile      string
	logLevel     string
	outputFormat string
	variant      string
	profilePath  string
	noColor      bool

	asset assetFlags

	conf   *config.Configuration
	logger *zap.Logger
}

// assetFlags override individual asset fields on any command.
type assetFlags struct {
	grossArea        float64
	capacity         int
	constructionYear int
	annualRevenue    float64
	equipment        []string
}

// Execute runs the CLI and returns the process exit code.
func Execute(version string) int {
	return exitCode(NewRootCommand(version).Execute())
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, budget.ErrInvalidInput):
		return ExitInvalidInput
	default:
		return ExitError
	}
}

// NewRootCommand builds the command tree. Running it without a subcommand
// evaluates the configured asset.
func NewRootCommand(version string) *cobra.Command {
	o := &rootOptions{version: version}

	root := &cobra.Command{
		Use:           "maintenance-budget",
		Short:         "Annual maintenance budget calculator for buildings",
		Long:          "Estimate the annual ordinary maintenance and extraordinary reserve of a building and check it against revenue.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.setup(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if o.logger != nil {
				_ = o.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEvaluate(cmd, o)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&o.configPath, "config", "c", constants.DefaultConfigFile, "path to configuration file")
	pf.StringVar(&o.envFile, "env-file", constants.DefaultEnvFile, "dotenv file loaded before reading configuration")
	pf.StringVar(&o.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	pf.StringVarP(&o.outputFormat, "output-format", "o", "", "type of output override: pretty, csv, json")
	pf.StringVar(&o.variant, "variant", "", "report variant override: compact, detailed")
	pf.StringVarP(&o.profilePath, "profile", "p", "", "TOML asset profile to evaluate")
	pf.BoolVar(&o.noColor, "no-color", false, "disable colours and text styling")

	pf.Float64Var(&o.asset.grossArea, "area", 0, "gross floor area in m²")
	pf.IntVar(&o.asset.capacity, "capacity", 0, "maximum number of occupants")
	pf.IntVar(&o.asset.constructionYear, "year", 0, "construction year")
	pf.Float64Var(&o.asset.annualRevenue, "revenue", 0, "annual revenue")
	pf.StringSliceVar(&o.asset.equipment, "equipment", nil, "installed equipment, e.g. elevator,hvac")

	root.AddCommand(
		newEvaluateCommand(o),
		newServeCommand(o),
		newFormCommand(o),
		newTUICommand(o),
		newProfileCommand(o),
		newEquipmentCommand(o),
	)

	return root
}

func (o *rootOptions) setup(cmd *cobra.Command) error {
	if o.noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	if err := config.LoadEnvFile(o.envFile); err != nil {
		return err
	}

	conf, err := o.loadConfiguration(cmd)
	if err != nil {
		return err
	}
	o.conf = conf

	logger, err := initializeLogger(conf.Logging, o.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	o.logger = logger

	for _, warning := range conf.ValidateConfiguration() {
		o.logger.Warn("Configuration warning: "+warning,
			zap.String("op", "cmd.setup"),
		)
	}
	return nil
}

// loadConfiguration reads the config file. A missing file at the default
// location falls back to built-in defaults; an explicit --config must exist.
func (o *rootOptions) loadConfiguration(cmd *cobra.Command) (*config.Configuration, error) {
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(o.configPath); errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
	}

	conf, err := config.LoadConfiguration(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration at %s: %w", o.configPath, err)
	}
	return conf, nil
}

// resolveInput layers the asset sources: flags over profile over config.
func (o *rootOptions) resolveInput(cmd *cobra.Command) (budget.AssetInput, error) {
	in, err := o.conf.AssetInput()
	if err != nil {
		return budget.AssetInput{}, err
	}

	if o.profilePath != "" {
		p, err := profile.Load(o.profilePath)
		if err != nil {
			return budget.AssetInput{}, err
		}
		if in, err = p.AssetInput(); err != nil {
			return budget.AssetInput{}, err
		}
		o.logger.Debug("loaded profile",
			zap.String("op", "cmd.resolveInput"),
			zap.String("profile", p.Name),
		)
	}

	flags := cmd.Flags()
	if flags.Changed("area") {
		in.GrossArea = o.asset.grossArea
	}
	if flags.Changed("capacity") {
		in.Capacity = o.asset.capacity
	}
	if flags.Changed("year") {
		in.ConstructionYear = o.asset.constructionYear
	}
	if flags.Changed("revenue") {
		in.AnnualRevenue = o.asset.annualRevenue
	}
	if flags.Changed("equipment") {
		equipment, err := budget.ParseEquipment(o.asset.equipment)
		if err != nil {
			return budget.AssetInput{}, err
		}
		in.Equipment = equipment
	}

	return in, nil
}

// resolveOutput picks the output format and report variant: flags over config
// over defaults.
func (o *rootOptions) resolveOutput() (string, report.Variant, error) {
	format := o.conf.Output.Format
	if o.outputFormat != "" {
		format = o.outputFormat
	}
	if format == "" {
		format = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(format); err != nil {
		return "", "", err
	}

	name := o.conf.Output.Variant
	if o.variant != "" {
		name = o.variant
	}
	variant, err := report.ParseVariant(name)
	if err != nil {
		return "", "", err
	}
	return format, variant, nil
}
