package config

import "numsummary/pkg/contracts"

// Application constants
const (
	// Application Info
	AppName    = contracts.Name
	AppVersion = contracts.Version

	// EnvPrefix namespaces every environment variable (NUMSUM_OUTPUT_DIR, ...)
	EnvPrefix = "NUMSUM"

	// Output locations, relative to the working directory
	DefaultOutputDir        = "demo_output"
	DefaultSummaryCSVName   = "numeric_summary.csv"
	DefaultSummaryTextName  = "numeric_summary.txt"
	DefaultSummaryExcelName = "numeric_summary.xlsx"

	// Report formatting
	DefaultPrecision     = 4
	MaxPrecision         = 15
	DefaultMissingMarker = "NA"

	// Logging
	DefaultLogLevel    = "info"
	DefaultLogOutput   = "stderr"
	DefaultLogFilePath = "logs/numsummary.log"

	// Telemetry
	DefaultServiceName = "numsummary"
)

// DefaultNAValues are the cell values, besides the empty string, that read
// as missing.
var DefaultNAValues = []string{
	"#N/A", "#N/A N/A", "#NA",
	"-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN",
	"<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// ConfigFileLocations are searched in order when no -config flag is given
var ConfigFileLocations = []string{
	"numsummary.yaml",
	"configs/numsummary.yaml",
}
