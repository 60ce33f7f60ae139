// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/iwvelando/maintenance-budget/internal/budget"
	"github.com/iwvelando/maintenance-budget/pkg/constants"
	"github.com/iwvelando/maintenance-budget/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for maintenance-budget.
type Configuration struct {
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging,omitempty"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output,omitempty"`
	Asset   AssetConfig   `mapstructure:"asset" yaml:"asset,omitempty"`

	// defaulted lists asset keys that were neither in the file nor the environment.
	defaulted []string
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format  string `mapstructure:"format" yaml:"format,omitempty"`   // pretty, csv, json
	Variant string `mapstructure:"variant" yaml:"variant,omitempty"` // compact, detailed
}

// AssetConfig describes the building to evaluate.
type AssetConfig struct {
	GrossArea        float64  `mapstructure:"grossArea" yaml:"grossArea"`
	Capacity         int      `mapstructure:"capacity" yaml:"capacity"`
	ConstructionYear int      `mapstructure:"constructionYear" yaml:"constructionYear"`
	AnnualRevenue    float64  `mapstructure:"annualRevenue" yaml:"annualRevenue"`
	Equipment        []string `mapstructure:"equipment" yaml:"equipment,omitempty"`
}

var assetDefaults = []struct {
	key   string
	value interface{}
}{
	{"asset.grossArea", constants.DefaultGrossArea},
	{"asset.capacity", constants.DefaultCapacity},
	{"asset.constructionYear", constants.DefaultConstructionYear},
	{"asset.annualRevenue", constants.DefaultAnnualRevenue},
}

// Default returns the configuration used when no file is given.
func Default() *Configuration {
	return &Configuration{
		Output: OutputConfig{
			Format:  constants.OutputFormatPretty,
			Variant: constants.VariantCompact,
		},
		Asset: AssetConfig{
			GrossArea:        constants.DefaultGrossArea,
			Capacity:         constants.DefaultCapacity,
			ConstructionYear: constants.DefaultConstructionYear,
			AnnualRevenue:    constants.DefaultAnnualRevenue,
		},
	}
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// Variables already set are left alone and a missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error reading env file %s: %w", path, err)
	}
	return nil
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Environment variables prefixed with MAINTBUDGET_
// override file values, e.g. MAINTBUDGET_ASSET_CAPACITY=60.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r, with the same
// environment overrides as LoadConfiguration.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("output.variant", constants.VariantCompact)
	for _, d := range assetDefaults {
		v.SetDefault(d.key, d.value)
	}
	v.SetDefault("asset.equipment", []string{})
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	for _, d := range assetDefaults {
		if v.InConfig(d.key) || envSet(d.key) {
			continue
		}
		configuration.defaulted = append(configuration.defaulted, d.key)
	}

	return &configuration, nil
}

func envSet(key string) bool {
	_, ok := os.LookupEnv(constants.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_")))
	return ok
}

// AssetInput converts the asset section into calculator input. Unknown
// equipment names are rejected.
func (c *Configuration) AssetInput() (budget.AssetInput, error) {
	equipment, err := budget.ParseEquipment(c.Asset.Equipment)
	if err != nil {
		return budget.AssetInput{}, fmt.Errorf("asset.equipment: %w", err)
	}

	return budget.AssetInput{
		GrossArea:        c.Asset.GrossArea,
		Capacity:         c.Asset.Capacity,
		ConstructionYear: c.Asset.ConstructionYear,
		AnnualRevenue:    c.Asset.AnnualRevenue,
		Equipment:        equipment,
	}, nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Nothing reported here stops an evaluation on its own.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			warnings = append(warnings, fmt.Sprintf("output.format: %v", err))
		}
	}
	if c.Output.Variant != "" {
		if err := validation.ValidateVariant(c.Output.Variant); err != nil {
			warnings = append(warnings, fmt.Sprintf("output.variant: %v", err))
		}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		warnings = append(warnings, fmt.Sprintf("logging.level: unknown level %q, using info", c.Logging.Level))
	}

	for _, key := range c.defaulted {
		warnings = append(warnings, fmt.Sprintf("%s is not set, using the default", key))
	}

	in, err := c.AssetInput()
	if err != nil {
		return append(warnings, err.Error())
	}
	return append(warnings, validation.AssetWarnings(in)...)
}
