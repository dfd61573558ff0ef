package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Sample inputs shared by the loader, app and exporter tests
const (
	// MixedCSV has two numeric columns and one text column
	MixedCSV = "a,b,name\n1,10,x\n2,,y\n3,30,z\n"

	// TextOnlyCSV has no numeric column
	TextOnlyCSV = "name,city\nann,rome\nbob,oslo\n"

	// HeaderOnlyCSV has columns but no rows
	HeaderOnlyCSV = "a,b\n"
)

// WriteFile writes content to name inside a fresh temp directory and returns
// the full path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create fixture directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}

// WriteCSV writes rows joined by commas as a CSV fixture
func WriteCSV(t *testing.T, name string, rows ...[]string) string {
	t.Helper()

	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}
	return WriteFile(t, name, b.String())
}

// Chdir switches the working directory for the rest of the test and
// restores it on cleanup. Tests using it must not run in parallel.
func Chdir(t *testing.T, dir string) {
	t.Helper()

	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change directory to %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("failed to restore working directory: %v", err)
		}
	})
}
