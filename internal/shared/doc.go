// Package shared holds helpers used by more than one package.
//
// The testutil subpackage provides:
//
//   - BufferedSlogHandler and NewTestLogger for asserting on structured logs
//   - input fixtures (WriteFile, WriteCSV and sample CSV bodies)
//   - Chdir for tests that depend on the working directory
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    path := testutil.WriteFile(t, "in.csv", testutil.MixedCSV)
//	    // ...
//	    testutil.AssertNoErrors(t, logs)
//	}
//
// Nothing here depends on domain packages.
package shared
