// Package testutil provides testing utilities for seriesflow
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/seriesflow/pkg/table"
)

// TestLogger creates a test logger that writes to the test output.
// The logger is automatically cleaned up when the test completes.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// WriteTempFile writes content to a file under the test's temp directory
// and returns its path.
func WriteTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

// WriteTempCSV joins the given lines into a CSV file and returns its path.
func WriteTempCSV(t *testing.T, name string, lines ...string) string {
	t.Helper()
	return WriteTempFile(t, name, []byte(strings.Join(lines, "\n")+"\n"))
}

// HourlyTable builds a single-series table with n hourly rows starting at
// start, target values 0..n-1, and a constant item_id column.
func HourlyTable(t *testing.T, id string, start time.Time, n int) *table.Table {
	t.Helper()
	timestamps := make([]time.Time, n)
	target := make([]float64, n)
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		timestamps[i] = start.Add(time.Duration(i) * time.Hour)
		target[i] = float64(i)
		ids[i] = id
	}
	return table.NewBuilder().
		AddTimeColumn("timestamp", timestamps).
		AddFloatColumn("target", target).
		AddStringColumn("item_id", ids).
		MustBuild()
}

// RequireNoError fails the test immediately if err is not nil.
// The msg parameter provides additional context in the failure message.
func RequireNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", msg, err)
	}
}
