// Package exporter writes numeric summaries to disk.
//
// Exporter.Export produces two files from a domain.SummaryTable:
//
//   - a CSV with the header column,mean,sd,min,max,n_missing, values in
//     shortest round-trip form and missing values left empty
//   - a plain text report with fixed precision and a missing marker
//
// Exporter.WriteWorkbook additionally writes the rows to the "Summary" sheet
// of an .xlsx file.
//
// Destination directories must exist; the exporter only creates or
// overwrites files. All failures are EXPORT-typed application errors.
//
// Example usage:
//
//	exp := exporter.NewExporter(logger, cfg.Exporter)
//	if err := exp.Export(ctx, summary, paths.SummaryCSV, paths.SummaryText); err != nil {
//	    return err
//	}
package exporter
