// Package dataprocessing loads tabular input files and computes per-column
// numeric summaries.
//
// # Architecture
//
//  1. Loader: reads a delimited text file (CSV, TSV or a configured
//     delimiter) or an .xlsx sheet into a column-oriented domain.Table
//  2. Classifier: decides whether each column is numeric
//  3. Summarizer: computes mean, sample standard deviation, min, max and
//     the missing count of every numeric column
//
// # Usage
//
//	loader, err := dataprocessing.NewLoader(logger, cfg.Loader)
//	if err != nil {
//	    return err
//	}
//	table, err := loader.Load(ctx, "input.csv")
//	if err != nil {
//	    return err
//	}
//	summary, err := dataprocessing.NewSummarizer(logger).Summarize(ctx, table)
//
// # Missing values
//
// Cells are trimmed. A cell is missing when it is empty or equals one of the
// configured NA tokens. Statistics ignore missing cells; SD needs at least
// two values and Mean, Min and Max need at least one.
//
// # Column kinds
//
// A column is numeric when every non-missing cell parses as a decimal
// number. A column without any value is numeric and summarizes to missing
// statistics.
//
// # Error Handling
//
// Loader errors are typed NOT_FOUND, STORAGE or PARSING. Summarizer errors
// are typed COMPUTATION and wrap ErrEmptyInput or ErrNoNumericColumns.
package dataprocessing
