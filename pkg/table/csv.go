package table

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/ajitpratap0/seriesflow/pkg/compression"
	"github.com/ajitpratap0/seriesflow/pkg/intern"
	"github.com/ajitpratap0/seriesflow/pkg/metrics"
	"github.com/ajitpratap0/seriesflow/pkg/sferrors"
)

func init() {
	_ = Register("csv", LoadCSV)
}

// timeLayouts are tried in order when inferring timestamp columns.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// LoadCSV reads a CSV file with a header row into a Table. Column types are
// inferred from the values: a column where every value parses as a float
// becomes a float column, one where every value parses as a timestamp
// becomes a timestamp column, and anything else stays a string column.
// Compressed files are decompressed transparently based on the extension.
func LoadCSV(path string) (*Table, error) {
	file, err := os.Open(path) //nolint:gosec // G304: path is controlled by the caller
	if err != nil {
		return nil, sferrors.Wrap(err, sferrors.ErrorTypeFile, "failed to open CSV file").
			WithDetail("path", path)
	}
	defer file.Close()

	stream, err := compression.NewReader(file, compression.Detect(path))
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	reader := csv.NewReader(stream)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, sferrors.Wrap(err, sferrors.ErrorTypeFile, "failed to parse CSV").
			WithDetail("path", path)
	}
	if len(rows) == 0 {
		return nil, sferrors.New(sferrors.ErrorTypeFile, "CSV file has no header row").
			WithDetail("path", path)
	}

	header := rows[0]
	records := rows[1:]
	b := NewBuilder()
	interned := intern.New()
	for col, name := range header {
		values := make([]string, len(records))
		for row, record := range records {
			values[row] = record[col]
		}
		addInferredColumn(b, name, values, interned)
	}

	t, err := b.Build()
	if err != nil {
		return nil, err
	}
	metrics.RowsLoaded.WithLabelValues("csv").Add(float64(t.NumRows()))
	return t, nil
}

// addInferredColumn appends values under their narrowest type: float if
// every value parses as a float, timestamp if every value parses with one
// shared layout, string otherwise. String columns are interned since
// identifiers and categorical values repeat per row.
func addInferredColumn(b *Builder, name string, values []string, interned *intern.Table) {
	if floats, ok := tryFloats(values); ok {
		b.AddFloatColumn(name, floats)
		return
	}
	if times, ok := tryTimes(values); ok {
		b.AddTimeColumn(name, times)
		return
	}
	b.AddStringColumn(name, interned.GetAll(values))
}

func tryFloats(values []string) ([]float64, bool) {
	if len(values) == 0 {
		return nil, false
	}
	floats := make([]float64, len(values))
	for i, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, false
		}
		floats[i] = f
	}
	return floats, true
}

func tryTimes(values []string) ([]time.Time, bool) {
	if len(values) == 0 {
		return nil, false
	}
	for _, layout := range timeLayouts {
		if _, err := time.Parse(layout, values[0]); err != nil {
			continue
		}
		times := make([]time.Time, len(values))
		ok := true
		for i, v := range values {
			t, err := time.Parse(layout, v)
			if err != nil {
				ok = false
				break
			}
			times[i] = t
		}
		if ok {
			return times, true
		}
	}
	return nil, false
}

// parseTime parses a single timestamp string using the known layouts.
func parseTime(value string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
