package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"numsummary/internal/config"
	"numsummary/internal/infrastructure"
)

// ExpectedArgs is the number of positional arguments the CLI takes
const ExpectedArgs = 1

// FileValidator provides the file and argument checks of a pipeline run
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	return &FileValidator{
		logger: infrastructure.WithComponent(logger, "validator"),
	}
}

// ValidateArgs checks that exactly one positional argument was given
func (v *FileValidator) ValidateArgs(args []string) error {
	if len(args) != ExpectedArgs {
		v.logger.Error("Incorrect number of arguments",
			slog.Int("expected", ExpectedArgs),
			slog.Int("got", len(args)))
		return fmt.Errorf("expected %d argument, got %d", ExpectedArgs, len(args))
	}
	return nil
}

// InputExists reports whether anything exists at path. Directories count;
// reading one fails later with a read error.
func (v *FileValidator) InputExists(path string) bool {
	if !config.FileExists(path) {
		v.logger.Error("Input file does not exist",
			slog.String("file", path))
		return false
	}
	return true
}

// ValidateOutputDirectory checks that dir exists, is a directory and
// accepts new files. It does not create dir.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		v.logger.Error("Output directory is not accessible",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not accessible: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	probe, err := os.CreateTemp(dir, ".write_test*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir),
		slog.String("name", filepath.Base(dir)))
	return nil
}
