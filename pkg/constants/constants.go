// Package constants provides shared constants for the maintenance-budget application.
package constants

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the machine-readable JSON output format
	OutputFormatJSON = "json"
)

// Report variant constants
const (
	// VariantCompact shows three headline metrics
	VariantCompact = "compact"

	// VariantDetailed shows four headline metrics and a percentage breakdown
	VariantDetailed = "detailed"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// DefaultEnvFile is loaded into the environment before configuration is read, if present
	DefaultEnvFile = ".env"

	// EnvPrefix prefixes environment variables that override configuration values
	EnvPrefix = "MAINTBUDGET"
)

// Default asset, matching the sample building used in the documentation
const (
	DefaultGrossArea        = 600.0
	DefaultCapacity         = 45
	DefaultConstructionYear = 1990
	DefaultAnnualRevenue    = 450000.0
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size for the evaluate API (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// ShutdownTimeoutSeconds bounds graceful server shutdown
	ShutdownTimeoutSeconds = 5
)

// Presentation constants
const (
	// CurrencySymbol prefixes formatted amounts
	CurrencySymbol = "€"

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// MaxReasonableAgeYears triggers a configuration warning for older assets
	MaxReasonableAgeYears = 200
)
