package dataprocessing

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"numsummary/internal/config"
	apperrors "numsummary/internal/errors"
	"numsummary/internal/infrastructure"
	"numsummary/pkg/contracts/domain"
)

// cancelCheckInterval is how many records are read between context checks
const cancelCheckInterval = 4096

// Loader reads a delimited text file or an Excel workbook into a Table
type Loader struct {
	logger    *slog.Logger
	delimiter rune
	sheet     string
	naValues  map[string]struct{}
}

// NewLoader creates a loader from the loader configuration. A zero
// delimiter picks one from the file extension on every Load.
func NewLoader(logger *slog.Logger, cfg config.LoaderConfig) (*Loader, error) {
	delimiter, err := cfg.DelimiterRune()
	if err != nil {
		return nil, apperrors.NewConfigError("invalid loader configuration", err)
	}

	naList := cfg.NAValues
	if len(naList) == 0 {
		naList = config.DefaultNAValues
	}
	naValues := make(map[string]struct{}, len(naList))
	for _, v := range naList {
		naValues[strings.TrimSpace(v)] = struct{}{}
	}

	return &Loader{
		logger:    infrastructure.WithComponent(logger, "loader"),
		delimiter: delimiter,
		sheet:     cfg.Sheet,
		naValues:  naValues,
	}, nil
}

// Load reads path into a Table. Missing files fail with NOT_FOUND,
// unreadable files with STORAGE and malformed content with PARSING.
func (l *Loader) Load(ctx context.Context, path string) (*domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("file %s", path))
		}
		return nil, apperrors.NewStorageError("cannot access input file", err)
	}
	if info.IsDir() {
		return nil, apperrors.NewStorageError(fmt.Sprintf("%s is a directory", path), nil)
	}

	var records [][]string
	var lines []int
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		records, err = l.readWorkbook(ctx, path)
	case ".xls":
		return nil, apperrors.NewParsingError(fmt.Sprintf("unsupported spreadsheet format %s", ext), nil)
	default:
		records, lines, err = l.readDelimited(ctx, path)
	}
	if err != nil {
		return nil, err
	}

	table, err := l.buildTable(path, records, lines)
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "table loaded",
		slog.String("source", path),
		slog.Int("rows", table.NumRows()),
		slog.Int("columns", table.NumColumns()))

	return table, nil
}

// delimiterFor returns the configured delimiter or the one implied by the
// file extension
func (l *Loader) delimiterFor(path string) rune {
	if l.delimiter != 0 {
		return l.delimiter
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab":
		return '\t'
	default:
		return ','
	}
}

// readDelimited returns the non-blank records of a delimited file together
// with the line each record starts on
func (l *Loader) readDelimited(ctx context.Context, path string) ([][]string, []int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, apperrors.NewStorageError("cannot open input file", err)
	}
	defer file.Close()

	// Strips a UTF-8 BOM and decodes UTF-16 input that starts with a BOM
	decoded := transform.NewReader(file, unicode.BOMOverride(transform.Nop))

	reader := csv.NewReader(decoded)
	reader.Comma = l.delimiterFor(path)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records [][]string
	var lines []int
	for n := 0; ; n++ {
		if n%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, apperrors.NewParsingError("malformed delimited input", err)
		}
		if isBlankRecord(record) {
			continue
		}
		line, _ := reader.FieldPos(0)
		records = append(records, record)
		lines = append(lines, line)
	}

	l.logger.DebugContext(ctx, "delimited input read",
		slog.String("source", path),
		slog.String("delimiter", string(reader.Comma)),
		slog.Int("records", len(records)))

	return records, lines, nil
}

// readWorkbook returns the non-blank rows of the configured sheet, or of
// the first sheet when none is configured. Rows are widened to the widest
// row so that unlabeled trailing columns surface as "Unnamed" columns.
func (l *Loader) readWorkbook(ctx context.Context, path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err)
	}
	defer f.Close()

	sheet := l.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewParsingError("workbook has no sheets", nil)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheet), err)
	}

	var records [][]string
	width := 0
	for _, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		records = append(records, row)
		if len(row) > width {
			width = len(row)
		}
	}
	for i, row := range records {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			records[i] = padded
		}
	}

	l.logger.DebugContext(ctx, "workbook sheet read",
		slog.String("source", path),
		slog.String("sheet", sheet),
		slog.Int("records", len(records)))

	return records, nil
}

// buildTable turns header plus data records into a column-oriented Table.
// lines holds the source line of each record and may be nil.
func (l *Loader) buildTable(source string, records [][]string, lines []int) (*domain.Table, error) {
	if len(records) == 0 {
		return nil, apperrors.NewParsingError("no columns to parse from file", nil)
	}

	names := headerNames(records[0])
	width := len(names)
	data := records[1:]

	columns := make([]domain.Column, width)
	for i, name := range names {
		columns[i] = domain.Column{
			Name:  name,
			Cells: make([]domain.Cell, 0, len(data)),
		}
	}

	for r, record := range data {
		if len(record) > width {
			line := r + 2
			if lines != nil {
				line = lines[r+1]
			}
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("expected %d fields in line %d, saw %d", width, line, len(record)), nil)
		}
		for c := 0; c < width; c++ {
			if c >= len(record) {
				columns[c].Cells = append(columns[c].Cells, domain.MissingCell())
				continue
			}
			columns[c].Cells = append(columns[c].Cells, l.parseCell(record[c]))
		}
	}

	table := &domain.Table{Source: source, Columns: columns}
	if err := table.Validate(); err != nil {
		return nil, apperrors.NewParsingError("inconsistent table", err)
	}
	return table, nil
}

// parseCell trims raw and marks it missing when empty or an NA token
func (l *Loader) parseCell(raw string) domain.Cell {
	value := strings.TrimSpace(raw)
	if value == "" {
		return domain.MissingCell()
	}
	if _, na := l.naValues[value]; na {
		return domain.MissingCell()
	}
	return domain.Cell{Raw: value}
}

// headerNames names empty headers "Unnamed: <index>" and renames repeats
// to "<name>.1", "<name>.2", ... skipping names already taken
func headerNames(header []string) []string {
	names := make([]string, len(header))
	taken := make(map[string]struct{}, len(header))
	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		names[i] = h
	}

	counts := make(map[string]int, len(header))
	for i, name := range names {
		if _, dup := taken[name]; !dup {
			taken[name] = struct{}{}
			continue
		}
		next := counts[name]
		var candidate string
		for {
			next++
			candidate = fmt.Sprintf("%s.%d", name, next)
			if _, used := taken[candidate]; !used {
				break
			}
		}
		counts[name] = next
		taken[candidate] = struct{}{}
		names[i] = candidate
	}
	return names
}

// isBlankRecord reports whether a delimited record is a blank line. A line
// of bare delimiters is a row of missing cells, not a blank line.
func isBlankRecord(record []string) bool {
	return len(record) == 0 || (len(record) == 1 && strings.TrimSpace(record[0]) == "")
}

// isEmptyRow reports whether a workbook row has no content
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
