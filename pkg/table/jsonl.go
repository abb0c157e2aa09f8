package table

import (
	"bufio"
	"os"
	"sort"
	"time"

	"github.com/ajitpratap0/seriesflow/pkg/compression"
	"github.com/ajitpratap0/seriesflow/pkg/intern"
	"github.com/ajitpratap0/seriesflow/pkg/jsonutil"
	"github.com/ajitpratap0/seriesflow/pkg/metrics"
	"github.com/ajitpratap0/seriesflow/pkg/sferrors"
)

func init() {
	_ = Register("jsonl", LoadJSONL)
}

// LoadJSONL reads a JSON Lines file (one object per line) into a Table.
// The first line fixes the column set; every following line must carry the
// same fields. Numbers become float columns; strings that consistently
// parse as timestamps become timestamp columns; other strings stay strings.
// Compressed files are decompressed transparently based on the extension.
func LoadJSONL(path string) (*Table, error) {
	file, err := os.Open(path) //nolint:gosec // G304: path is controlled by the caller
	if err != nil {
		return nil, sferrors.Wrap(err, sferrors.ErrorTypeFile, "failed to open JSONL file").
			WithDetail("path", path)
	}
	defer file.Close()

	stream, err := compression.NewReader(file, compression.Detect(path))
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	var rows []map[string]interface{}
	scanner := bufio.NewScanner(stream)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		row := make(map[string]interface{})
		if err := jsonutil.Unmarshal(raw, &row); err != nil {
			return nil, sferrors.Wrap(err, sferrors.ErrorTypeFile, "failed to parse JSONL line").
				WithDetail("path", path).
				WithDetail("line", line)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, sferrors.Wrap(err, sferrors.ErrorTypeFile, "failed to read JSONL file").
			WithDetail("path", path)
	}
	if len(rows) == 0 {
		return nil, sferrors.New(sferrors.ErrorTypeFile, "JSONL file has no rows").
			WithDetail("path", path)
	}

	// the first row fixes the column set
	names := make([]string, 0, len(rows[0]))
	for name := range rows[0] {
		names = append(names, name)
	}
	sort.Strings(names)

	b := NewBuilder()
	interned := intern.New()
	for _, name := range names {
		if err := addJSONColumn(b, name, rows, interned); err != nil {
			return nil, err
		}
	}

	t, err := b.Build()
	if err != nil {
		return nil, err
	}
	metrics.RowsLoaded.WithLabelValues("jsonl").Add(float64(t.NumRows()))
	return t, nil
}

func addJSONColumn(b *Builder, name string, rows []map[string]interface{}, interned *intern.Table) error {
	floats := make([]float64, len(rows))
	strings := make([]string, len(rows))
	times := make([]time.Time, len(rows))
	allFloat, allString, allTime := true, true, true

	for i, row := range rows {
		value, ok := row[name]
		if !ok {
			return sferrors.Newf(sferrors.ErrorTypeFile,
				"JSONL row %d is missing field %q", i+1, name)
		}
		switch v := value.(type) {
		case float64:
			floats[i] = v
			allString, allTime = false, false
		case string:
			strings[i] = v
			allFloat = false
			if allTime {
				t, ok := parseTime(v)
				if !ok {
					allTime = false
				} else {
					times[i] = t
				}
			}
		default:
			return sferrors.Newf(sferrors.ErrorTypeFile,
				"JSONL field %q has unsupported type %T at row %d", name, value, i+1)
		}
	}

	switch {
	case allFloat:
		b.AddFloatColumn(name, floats)
	case allTime:
		b.AddTimeColumn(name, times)
	case allString:
		b.AddStringColumn(name, interned.GetAll(strings))
	default:
		return sferrors.Newf(sferrors.ErrorTypeFile,
			"JSONL field %q mixes numeric and string values", name)
	}
	return nil
}
