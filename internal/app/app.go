package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"time"

	"numsummary/internal/config"
	"numsummary/internal/dataprocessing"
	apperrors "numsummary/internal/errors"
	"numsummary/internal/exporter"
	"numsummary/internal/infrastructure"
	"numsummary/internal/operations"
	"numsummary/internal/validation"
	"numsummary/pkg/contracts"
	"numsummary/pkg/contracts/domain"
)

const (
	// CommandName is the name shown in the usage line
	CommandName = "analyse"
	// Usage is printed after an argument count error
	Usage = "Usage: " + CommandName + " path/to/input.csv"

	// shutdownTimeout bounds the telemetry flush at exit
	shutdownTimeout = 5 * time.Second
)

// Application wires the pipeline components of one CLI invocation
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders

	Validator        *validation.FileValidator
	SummaryValidator *validation.SummaryValidator
	Loader           *dataprocessing.Loader
	Summarizer       *dataprocessing.Summarizer
	Exporter         *exporter.Exporter

	tracer *operations.PipelineTracer
	stdout io.Writer
}

// Main parses flags, loads configuration and runs the pipeline. It returns
// the process exit code.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet(CommandName, flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "path to a YAML configuration file")
	showVersion := flags.Bool("version", false, "print the version and exit")
	verbose := flags.Bool("v", false, "with -version, include build details")
	flags.Usage = func() {
		fmt.Fprintln(stderr, Usage)
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stdout, "ERROR: %v\n", err)
		fmt.Fprintln(stdout, Usage)
		return 1
	}

	if *showVersion {
		if *verbose {
			fmt.Fprintln(stdout, contracts.GetFullVersionString())
		} else {
			fmt.Fprintln(stdout, contracts.GetVersionString())
		}
		return 0
	}

	// A usage error is reported before configuration is read
	if flags.NArg() != validation.ExpectedArgs {
		printArgumentError(stdout)
		return 1
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(stdout, "ERROR: Failed to load configuration: %v\n", err)
		return 1
	}

	application, err := NewApplication(cfg, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stdout, "ERROR: Failed to start: %v\n", err)
		return 1
	}
	defer application.Close()

	return application.Run(ctx, flags.Args())
}

// NewApplication builds the logger, telemetry and pipeline components from
// cfg. Progress lines go to stdout; logs go where cfg.Logging says.
func NewApplication(cfg *config.Config, stdout, stderr io.Writer) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging, stderr, stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion))

	paths, err := config.GetPaths(cfg)
	if err != nil {
		infrastructure.CloseLogFile()
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	paths.LogPathResolution(logger)

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		infrastructure.CloseLogFile()
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	tracer, err := operations.NewPipelineTracer(providers)
	if err != nil {
		providers.Shutdown(context.Background())
		infrastructure.CloseLogFile()
		return nil, fmt.Errorf("failed to initialize pipeline tracer: %w", err)
	}

	loader, err := dataprocessing.NewLoader(logger, cfg.Loader)
	if err != nil {
		providers.Shutdown(context.Background())
		infrastructure.CloseLogFile()
		return nil, err
	}

	return &Application{
		Config:           cfg,
		Paths:            paths,
		Logger:           logger,
		OTelProviders:    providers,
		Validator:        validation.NewFileValidator(logger),
		SummaryValidator: validation.NewSummaryValidator(),
		Loader:           loader,
		Summarizer:       dataprocessing.NewSummarizer(logger),
		Exporter:         exporter.NewExporter(logger, cfg.Exporter),
		tracer:           tracer,
		stdout:           stdout,
	}, nil
}

// Run executes one pipeline run over the positional arguments and returns
// the exit code. Every failure prints a single ERROR line to stdout.
func (a *Application) Run(ctx context.Context, args []string) int {
	ctx = infrastructure.EnsureTraceID(ctx)
	pipeline := operations.NewPipeline(infrastructure.GetTraceID(ctx), a.tracer, a.Logger)

	input := ""
	if len(args) > 0 {
		input = args[0]
	}
	ctx = pipeline.Begin(ctx, input)
	defer pipeline.End(ctx)

	err := pipeline.Step(ctx, operations.StateArgsValidated, operations.ReasonWrongArgCount,
		func(ctx context.Context) error {
			if err := a.Validator.ValidateArgs(args); err != nil {
				return apperrors.NewArgumentError(err.Error())
			}
			return nil
		})
	if err != nil {
		printArgumentError(a.stdout)
		return pipeline.State().ExitCode()
	}

	a.printf("Reading input CSV: %s\n", input)

	err = pipeline.Step(ctx, operations.StateFileExists, operations.ReasonMissingFile,
		func(ctx context.Context) error {
			if !a.Validator.InputExists(input) {
				return apperrors.NewNotFoundError(fmt.Sprintf("file %s", input))
			}
			return nil
		})
	if err != nil {
		a.printf("ERROR: The file '%s' does not exist.\n", input)
		return pipeline.State().ExitCode()
	}

	var table *domain.Table
	err = pipeline.Step(ctx, operations.StateTableLoaded, operations.ReasonParseFailure,
		func(ctx context.Context) error {
			var err error
			table, err = a.Loader.Load(ctx, input)
			if err != nil {
				return err
			}
			a.tracer.RecordTableLoaded(ctx, table.NumRows(), table.NumColumns())
			return nil
		})
	if err != nil {
		a.printf("ERROR: Failed to read CSV file: %s\n", detail(err))
		return pipeline.State().ExitCode()
	}

	a.printf("Computing numeric summary (mean, sd, min, max, n_missing)...\n")

	var summary *domain.SummaryTable
	err = pipeline.Step(ctx, operations.StateSummaryComputed, operations.ReasonSummarizationFailure,
		func(ctx context.Context) error {
			numeric, text := 0, 0
			for _, c := range a.Summarizer.Classify(table) {
				if c.Kind == domain.ColumnKindNumeric {
					numeric++
				} else {
					text++
				}
			}
			a.tracer.RecordColumnsClassified(ctx, string(domain.ColumnKindNumeric), numeric)
			a.tracer.RecordColumnsClassified(ctx, string(domain.ColumnKindText), text)

			var err error
			summary, err = a.Summarizer.Summarize(ctx, table)
			if err != nil {
				return err
			}
			if err := a.SummaryValidator.Validate(summary); err != nil {
				return apperrors.NewComputationError("summary failed validation", err)
			}
			a.tracer.RecordColumnsSummarized(ctx, len(summary.Summaries))
			return nil
		})
	if err != nil {
		a.printf("ERROR: Failed to compute numeric summary: %s\n", detail(err))
		return pipeline.State().ExitCode()
	}

	err = pipeline.Step(ctx, operations.StateOutputDirReady, operations.ReasonExportFailure,
		func(ctx context.Context) error {
			if err := a.Paths.EnsureOutputDir(); err != nil {
				return apperrors.NewExportError("cannot prepare output directory", err)
			}
			if err := a.Validator.ValidateOutputDirectory(a.Paths.OutputDir); err != nil {
				return apperrors.NewExportError("cannot prepare output directory", err)
			}
			return nil
		})
	if err != nil {
		a.printf("ERROR: Failed to export summary: %s\n", detail(err))
		return pipeline.State().ExitCode()
	}

	a.printf("Writing summary CSV to: %s\n", a.Paths.SummaryCSV)
	a.printf("Writing human-readable summary to: %s\n", a.Paths.SummaryText)

	err = pipeline.Step(ctx, operations.StateFilesExported, operations.ReasonExportFailure,
		func(ctx context.Context) error {
			if err := a.Exporter.WriteCSV(ctx, summary, a.Paths.SummaryCSV); err != nil {
				return err
			}
			a.tracer.RecordFileExported(ctx, "csv", a.Paths.SummaryCSV)

			if err := a.Exporter.WriteText(ctx, summary, a.Paths.SummaryText); err != nil {
				return err
			}
			a.tracer.RecordFileExported(ctx, "text", a.Paths.SummaryText)

			if a.Config.Exporter.Workbook {
				if err := a.Exporter.WriteWorkbook(ctx, summary, a.Paths.SummaryWorkbook); err != nil {
					return err
				}
				a.tracer.RecordFileExported(ctx, "xlsx", a.Paths.SummaryWorkbook)
			}
			return nil
		})
	if err != nil {
		a.printf("ERROR: Failed to export summary: %s\n", detail(err))
		return pipeline.State().ExitCode()
	}

	if err := pipeline.Complete(ctx); err != nil {
		a.Logger.ErrorContext(ctx, "cannot complete pipeline", slog.String("error", err.Error()))
		return 1
	}

	a.printf("Done. Files saved to '%s' directory.\n", a.Paths.OutputDirName())
	return pipeline.State().ExitCode()
}

// Close flushes telemetry and closes the log file
func (a *Application) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(ctx); err != nil {
			a.Logger.Error("Failed to shut down OpenTelemetry", slog.String("error", err.Error()))
		}
	}
	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.Error("Failed to close log file", slog.String("error", err.Error()))
	}
}

func (a *Application) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.stdout, format, args...)
}

// detail renders err for an ERROR line without the error type tag
func detail(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Detail()
	}
	return err.Error()
}

func printArgumentError(w io.Writer) {
	fmt.Fprintln(w, "ERROR: Incorrect number of arguments provided.")
	fmt.Fprintln(w, Usage)
}
