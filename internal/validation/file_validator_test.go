package validation

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"numsummary/internal/shared/testutil"
)

func TestFileValidator_ValidateArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{name: "none", args: nil, wantErr: true},
		{name: "one", args: []string{"in.csv"}, wantErr: false},
		{name: "two", args: []string{"a.csv", "b.csv"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := NewFileValidator(slog.Default())
			err := validator.ValidateArgs(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "expected 1 argument")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidator_InputExists(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	validator := NewFileValidator(logger)

	dir := t.TempDir()
	file := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(file, []byte("a\n1\n"), 0644))

	assert.True(t, validator.InputExists(file))
	assert.True(t, validator.InputExists(dir))
	assert.False(t, validator.InputExists(filepath.Join(dir, "absent.csv")))
	testutil.AssertLogContains(t, logs, slog.LevelError, "does not exist")
	testutil.AssertLogAttr(t, logs, "component", "validator")
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	validator := NewFileValidator(nil)

	t.Run("writable directory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, validator.ValidateOutputDirectory(dir))

		// The probe file is removed
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("missing directory is not created", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "absent")
		err := validator.ValidateOutputDirectory(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not accessible")

		_, statErr := os.Stat(dir)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("file in the way", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "out")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

		err := validator.ValidateOutputDirectory(file)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a directory")
	})

	t.Run("read-only directory", func(t *testing.T) {
		if runtime.GOOS == "windows" || os.Geteuid() == 0 {
			t.Skip("permission bits are not enforced")
		}
		dir := t.TempDir()
		require.NoError(t, os.Chmod(dir, 0555))
		t.Cleanup(func() { os.Chmod(dir, 0755) })

		err := validator.ValidateOutputDirectory(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not writable")
	})
}
