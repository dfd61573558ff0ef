package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the output locations of one run.
// This is the single source of truth for every file the run writes.
type Paths struct {
	WorkingDir string
	OutputDir  string

	// Well-known report files inside OutputDir
	SummaryCSV      string
	SummaryText     string
	SummaryWorkbook string
}

// GetPaths resolves output paths against the current working directory.
// Output.Dir may also be absolute.
func GetPaths(cfg *Config) (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewPaths(wd, cfg.Output), nil
}

// NewPaths builds Paths rooted at workingDir
func NewPaths(workingDir string, out OutputConfig) *Paths {
	outputDir := out.Dir
	if !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(workingDir, outputDir)
	}

	return &Paths{
		WorkingDir:      workingDir,
		OutputDir:       outputDir,
		SummaryCSV:      filepath.Join(outputDir, out.CSVName),
		SummaryText:     filepath.Join(outputDir, out.TextName),
		SummaryWorkbook: filepath.Join(outputDir, out.WorkbookName),
	}
}

// OutputDirName is the directory name shown to the user
func (p *Paths) OutputDirName() string {
	return filepath.Base(p.OutputDir)
}

// EnsureOutputDir creates the output directory if it doesn't exist
func (p *Paths) EnsureOutputDir() error {
	if err := os.MkdirAll(p.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", p.OutputDir, err)
	}

	slog.Default().Debug("Ensured directory exists",
		slog.String("directory", p.OutputDir))
	return nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved output paths
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("working", p.WorkingDir),
			slog.String("output", p.OutputDir),
		),
		slog.Group("report_files",
			slog.String("summary_csv", p.SummaryCSV),
			slog.String("summary_text", p.SummaryText),
			slog.String("summary_workbook", p.SummaryWorkbook),
		))
}
