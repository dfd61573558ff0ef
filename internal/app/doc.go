// Package app wires configuration, logging, telemetry and the pipeline
// components into the analyse command.
//
// # Initialization Flow
//
//	1. Parse flags (-config, -version, -v) and the single positional argument
//	2. Load configuration from defaults, an optional YAML file and NUMSUM_
//	   environment variables
//	3. Build the logger, OpenTelemetry providers and pipeline components
//	4. Run the pipeline and map its final state to an exit code
//	5. Flush telemetry and close the log file
//
// # Output contract
//
// Stdout carries only the fixed progress and ERROR lines of a run; logs go
// to stderr or a file. A run exits 0 when every file was written and 1 on
// any failure. The output directory is created only after the summary has
// been computed, so failed runs before that point leave no trace on disk.
package app
