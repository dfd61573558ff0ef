// Command analyse computes a numeric summary of a CSV file.
//
//	analyse [-config numsummary.yaml] path/to/input.csv
//
// It writes numeric_summary.csv and numeric_summary.txt into demo_output
// under the working directory.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"numsummary/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := app.Main(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
