// Package config provides centralized configuration management for numsummary.
// It loads configuration from multiple sources, validates it, and resolves the
// paths of the files a run writes.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A YAML configuration file (-config flag, numsummary.yaml or configs/numsummary.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern NUMSUM_* for namespacing:
//
//	NUMSUM_OUTPUT_DIR=reports
//	NUMSUM_EXPORTER_PRECISION=6
//	NUMSUM_EXPORTER_MISSING_MARKER=-
//	NUMSUM_EXPORTER_BOM=true
//	NUMSUM_LOADER_DELIMITER=;
//	NUMSUM_LOADER_NA_VALUES=NA,null
//	NUMSUM_LOGGING_LEVEL=debug
//	NUMSUM_TELEMETRY_TRACE_FILE=trace.json
//
// # Path Management
//
// Paths resolves the output directory against the working directory:
//
//	paths := config.NewPaths(wd, cfg.Output)
//	csvPath := paths.SummaryCSV
//
// # Testing
//
// Use config.Default() for a configuration that needs neither environment
// variables nor files.
package config
