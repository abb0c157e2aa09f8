package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/seriesflow/pkg/config"
	"github.com/ajitpratap0/seriesflow/pkg/dataset"
	"github.com/ajitpratap0/seriesflow/pkg/jsonutil"
	"github.com/ajitpratap0/seriesflow/pkg/sferrors"
	"github.com/ajitpratap0/seriesflow/pkg/testutil"
)

func writeLongCSV(t *testing.T) string {
	t.Helper()
	return testutil.WriteTempCSV(t, "long.csv",
		"timestamp,target,item_id",
		"2021-01-01 00:00,1.0,A",
		"2021-01-01 01:00,2.0,A",
		"2021-01-01 02:00,3.0,A",
		"2021-01-01 00:00,10.0,B",
		"2021-01-01 01:00,20.0,B",
		"2021-01-01 02:00,30.0,B",
	)
}

func TestParseLayout(t *testing.T) {
	for _, s := range []string{"single", "Long", "KEYED"} {
		_, err := ParseLayout(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseLayout("wide")
	require.Error(t, err)
	assert.True(t, sferrors.IsType(err, sferrors.ErrorTypeConfig))
}

func TestOpenLongLayout(t *testing.T) {
	ds, err := Open(context.Background(), writeLongCSV(t), LayoutLong, config.New())
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, []string{"A", "B"}, ds.Keys())
}

func TestOpenKeyedDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, key := range []string{"beta", "alpha"} {
		content := "timestamp,target\n2021-01-01 00:00,1\n2021-01-01 01:00,2\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, key+".csv"), []byte(content), 0o644))
	}

	ds, err := Open(context.Background(), dir, LayoutKeyed, config.New())
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, ds.Keys())
}

func TestSeriesKeyStripsExtensions(t *testing.T) {
	assert.Equal(t, "store_7", seriesKey("store_7.csv.gz"))
	assert.Equal(t, "store_7", seriesKey("store_7.jsonl"))
	assert.Equal(t, "store_7", seriesKey("store_7"))
}

func TestExportRoundTrip(t *testing.T) {
	ds, err := Open(context.Background(), writeLongCSV(t), LayoutLong, config.New())
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := Export(context.Background(), ds, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	scanner := bufio.NewScanner(&buf)
	var keys []string
	for scanner.Scan() {
		var s dataset.Series
		require.NoError(t, jsonutil.Unmarshal(scanner.Bytes(), &s))
		keys = append(keys, s.Key)
		assert.Len(t, s.Target, 3)
		assert.Equal(t, "H", s.Freq.String())
	}
	assert.Equal(t, []string{"A", "B"}, keys)
}

func TestExportFileCompressed(t *testing.T) {
	ds, err := Open(context.Background(), writeLongCSV(t), LayoutLong, config.New())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.jsonl.gz")
	n, err := ExportFile(context.Background(), ds, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestInspectSummary(t *testing.T) {
	ds, err := Open(context.Background(), writeLongCSV(t), LayoutLong, config.New())
	require.NoError(t, err)

	summary, err := Inspect(context.Background(), ds)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Series)
	assert.Equal(t, 6, summary.Observations)
	assert.Equal(t, map[string]int{"H": 2}, summary.Frequencies)
	assert.Equal(t, 3, summary.MinLength)
	assert.Equal(t, 3, summary.MaxLength)
}

func TestValidateReportsEverySeries(t *testing.T) {
	// series B has an irregular gap; A is clean
	path := testutil.WriteTempCSV(t, "mixed.csv",
		"timestamp,target,item_id",
		"2021-01-01 00:00,1.0,A",
		"2021-01-01 01:00,2.0,A",
		"2021-01-01 00:00,10.0,B",
		"2021-01-01 01:00,20.0,B",
		"2021-01-01 05:00,30.0,B",
	)
	cfg := config.New()
	cfg.Freq = "1H"

	ds, err := Open(context.Background(), path, LayoutLong, cfg)
	require.NoError(t, err)

	issues, err := Validate(context.Background(), ds)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "B", issues[0].Series)
	assert.Equal(t, string(sferrors.KindIrregularTimestamps), issues[0].Kind)
}

func TestExportStopsCleanlyOnBadSeries(t *testing.T) {
	// series B is irregular; the export must surface that error without
	// leaving a partial line behind
	path := testutil.WriteTempCSV(t, "bad.csv",
		"timestamp,target,item_id",
		"2021-01-01 00:00,1.0,A",
		"2021-01-01 01:00,2.0,A",
		"2021-01-01 00:00,10.0,B",
		"2021-01-01 01:00,20.0,B",
		"2021-01-01 05:00,30.0,B",
	)
	cfg := config.New()
	cfg.Freq = "1H"

	ds, err := Open(context.Background(), path, LayoutLong, cfg)
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := Export(context.Background(), ds, &buf)
	require.Error(t, err)
	assert.True(t, sferrors.IsKind(err, sferrors.KindIrregularTimestamps))
	assert.Equal(t, 1, n)
	if buf.Len() > 0 {
		assert.Equal(t, byte('\n'), buf.Bytes()[buf.Len()-1])
	}
}

func TestExportCancelled(t *testing.T) {
	ds, err := Open(context.Background(), writeLongCSV(t), LayoutLong, config.New())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Export(ctx, ds, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, sferrors.IsType(err, sferrors.ErrorTypeInternal))
}

func BenchmarkExport(b *testing.B) {
	dir := b.TempDir()
	path := filepath.Join(dir, "bench.csv")
	var buf bytes.Buffer
	buf.WriteString("timestamp,target,item_id\n")
	for i := 0; i < 24; i++ {
		fmt.Fprintf(&buf, "2021-01-01 %02d:00,%d.0,A\n", i, i)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		b.Fatal(err)
	}

	ds, err := Open(context.Background(), path, LayoutLong, config.New())
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Export(context.Background(), ds, &bytes.Buffer{}); err != nil {
			b.Fatal(err)
		}
	}
}
