package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"numsummary/pkg/contracts/domain"
)

// SummarySheetName is the sheet that holds the summary rows
const SummarySheetName = "Summary"

// writeWorkbook saves the summary rows as an .xlsx file with a bold header.
// Missing statistics are left as empty cells.
func writeWorkbook(summary *domain.SummaryTable, path string) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", SummarySheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(CSVHeaders))
	for i, h := range CSVHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(SummarySheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(CSVHeaders))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheetName, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range summary.Summaries {
		values := []interface{}{
			row.Column,
			workbookValue(row.Mean),
			workbookValue(row.SD),
			workbookValue(row.Min),
			workbookValue(row.Max),
			row.NMissing,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(SummarySheetName, "A", "A", 20); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// workbookValue returns nil for a missing value so the cell stays empty
func workbookValue(v domain.OptionalFloat) interface{} {
	if v.IsMissing() {
		return nil
	}
	return v.Value
}
