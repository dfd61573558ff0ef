package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Loader    LoaderConfig    `yaml:"loader" envconfig:"LOADER"`
	Exporter  ExporterConfig  `yaml:"exporter" envconfig:"EXPORTER"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stderr stdout console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// LoaderConfig controls how input files are read
type LoaderConfig struct {
	// Delimiter is a single character, "tab", or empty to pick by extension
	Delimiter string   `yaml:"delimiter" envconfig:"DELIMITER"`
	Sheet     string   `yaml:"sheet" envconfig:"SHEET"`
	NAValues  []string `yaml:"na_values" envconfig:"NA_VALUES"`
}

// ExporterConfig controls report formatting
type ExporterConfig struct {
	Precision     int    `yaml:"precision" envconfig:"PRECISION" validate:"gte=0,lte=15"`
	MissingMarker string `yaml:"missing_marker" envconfig:"MISSING_MARKER" validate:"required"`
	Workbook      bool   `yaml:"workbook" envconfig:"WORKBOOK"`
	// BOM prefixes the summary CSV with a UTF-8 byte order mark for Excel
	BOM bool `yaml:"bom" envconfig:"BOM"`
}

// OutputConfig names the output directory and files
type OutputConfig struct {
	Dir          string `yaml:"dir" envconfig:"DIR" validate:"required"`
	CSVName      string `yaml:"csv_name" envconfig:"CSV_NAME" validate:"required,excludesall=/\\"`
	TextName     string `yaml:"text_name" envconfig:"TEXT_NAME" validate:"required,excludesall=/\\"`
	WorkbookName string `yaml:"workbook_name" envconfig:"WORKBOOK_NAME" validate:"required,excludesall=/\\"`
}

// TelemetryConfig enables the optional trace and metrics files of a run
type TelemetryConfig struct {
	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	TraceFile   string `yaml:"trace_file" envconfig:"TRACE_FILE"`
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// TracingEnabled reports whether spans should be exported
func (t TelemetryConfig) TracingEnabled() bool {
	return t.TraceFile != ""
}

// MetricsEnabled reports whether metrics should be exported
func (t TelemetryConfig) MetricsEnabled() bool {
	return t.MetricsFile != ""
}

// Load loads configuration from the first config file found in
// ConfigFileLocations and from environment variables.
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom loads configuration with the precedence defaults < YAML file <
// environment. An empty filePath skips the file layer.
func LoadFrom(filePath string) (*Config, error) {
	cfg := Default()

	if filePath != "" {
		if err := loadFromFile(filePath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Fields have no default tags, so unset variables leave file values alone
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file at filePath onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate normalises and validates the configuration
func (c *Config) validate() error {
	// JSON is the only supported log format
	c.Logging.Format = "json"
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Output = strings.ToLower(c.Logging.Output)
	if c.Logging.Output == "console" {
		c.Logging.Output = DefaultLogOutput
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFilePath
	}

	if len(c.Loader.NAValues) == 0 {
		c.Loader.NAValues = append([]string(nil), DefaultNAValues...)
	}
	if _, err := c.Loader.DelimiterRune(); err != nil {
		return err
	}

	if err := validator.New().Struct(c); err != nil {
		return err
	}
	return nil
}

// DelimiterRune resolves the configured delimiter. It returns 0 when the
// delimiter should be picked from the file extension.
func (l LoaderConfig) DelimiterRune() (rune, error) {
	switch l.Delimiter {
	case "":
		return 0, nil
	case "tab", `\t`, "\t":
		return '\t', nil
	}
	runes := []rune(l.Delimiter)
	if len(runes) != 1 {
		return 0, fmt.Errorf("invalid delimiter %q: must be a single character or \"tab\"", l.Delimiter)
	}
	switch runes[0] {
	case '"', '\r', '\n':
		return 0, fmt.Errorf("invalid delimiter %q", l.Delimiter)
	}
	return runes[0], nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	for _, location := range ConfigFileLocations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   "json",
			Output:   DefaultLogOutput,
			FilePath: DefaultLogFilePath,
		},
		Loader: LoaderConfig{
			NAValues: append([]string(nil), DefaultNAValues...),
		},
		Exporter: ExporterConfig{
			Precision:     DefaultPrecision,
			MissingMarker: DefaultMissingMarker,
		},
		Output: OutputConfig{
			Dir:          DefaultOutputDir,
			CSVName:      DefaultSummaryCSVName,
			TextName:     DefaultSummaryTextName,
			WorkbookName: DefaultSummaryExcelName,
		},
		Telemetry: TelemetryConfig{
			ServiceName: DefaultServiceName,
		},
	}
}
