// Package pipeline orchestrates dataset runs for the seriesflow CLI,
// wiring file loading, dataset construction, and series export together.
//
// A run flows through three stages:
//   - Load: read one or more tables from disk via the format registry
//   - Adapt: wrap the tables in a Dataset according to the input layout
//   - Iterate: normalize each series lazily, exporting or summarizing it
package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/seriesflow/pkg/compression"
	"github.com/ajitpratap0/seriesflow/pkg/config"
	"github.com/ajitpratap0/seriesflow/pkg/dataset"
	"github.com/ajitpratap0/seriesflow/pkg/logger"
	"github.com/ajitpratap0/seriesflow/pkg/sferrors"
	"github.com/ajitpratap0/seriesflow/pkg/table"
)

// Layout names how the input files map onto series.
type Layout string

const (
	// LayoutSingle treats the input as one table holding one series.
	LayoutSingle Layout = "single"
	// LayoutLong treats the input as one table holding many series,
	// distinguished by the identifier column.
	LayoutLong Layout = "long"
	// LayoutKeyed treats the input path as a directory of per-series
	// files, keyed by file name.
	LayoutKeyed Layout = "keyed"
)

// ParseLayout converts a CLI layout flag into a Layout.
func ParseLayout(s string) (Layout, error) {
	switch Layout(strings.ToLower(s)) {
	case LayoutSingle, LayoutLong, LayoutKeyed:
		return Layout(strings.ToLower(s)), nil
	default:
		return "", sferrors.Newf(sferrors.ErrorTypeConfig,
			"unknown layout %q (want single, long, or keyed)", s)
	}
}

// Open loads the input path according to the layout and returns the
// constructed dataset. For LayoutKeyed the path must be a directory; each
// regular file in it becomes one series keyed by its base name with format
// and compression extensions stripped.
func Open(ctx context.Context, path string, layout Layout, cfg *config.Config) (*dataset.Dataset, error) {
	log := logger.WithContext(ctx).With(
		zap.String("path", path),
		zap.String("layout", string(layout)),
	)
	start := time.Now()

	var (
		ds  *dataset.Dataset
		err error
	)
	switch layout {
	case LayoutKeyed:
		ds, err = openKeyed(path, cfg)
	case LayoutLong:
		ds, err = openTable(path, cfg, dataset.FromLongTable)
	default:
		ds, err = openTable(path, cfg, dataset.FromTable)
	}
	if err != nil {
		return nil, err
	}

	log.Info("dataset opened",
		zap.Int("series", ds.Len()),
		zap.Duration("elapsed", time.Since(start)))
	return ds, nil
}

func openTable(path string, cfg *config.Config, build func(*table.Table, *config.Config) (*dataset.Dataset, error)) (*dataset.Dataset, error) {
	tbl, err := table.Load(path)
	if err != nil {
		return nil, err
	}
	return build(tbl, cfg)
}

func openKeyed(dir string, cfg *config.Config) (*dataset.Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, sferrors.Wrap(err, sferrors.ErrorTypeFile, "reading dataset directory")
	}

	tables := make(map[string]*table.Table, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		tbl, err := table.Load(path)
		if err != nil {
			return nil, err
		}
		tables[seriesKey(entry.Name())] = tbl
	}
	return dataset.FromKeyedTables(tables, cfg)
}

// seriesKey strips compression and format extensions from a file name, so
// "store_7.csv.gz" keys the series "store_7".
func seriesKey(name string) string {
	name = compression.TrimExt(name)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Summary describes a dataset without materializing its series.
type Summary struct {
	Series       int            `json:"series"`
	Observations int            `json:"observations"`
	Frequencies  map[string]int `json:"frequencies"`
	MinLength    int            `json:"min_length"`
	MaxLength    int            `json:"max_length"`
	Keys         []string       `json:"keys"`
}

// Inspect normalizes every series once and reports aggregate shape
// information. The first normalization failure aborts the pass.
func Inspect(ctx context.Context, ds *dataset.Dataset) (*Summary, error) {
	summary := &Summary{
		Frequencies: map[string]int{},
		Keys:        ds.Keys(),
	}

	it := ds.Iter()
	for {
		if err := ctx.Err(); err != nil {
			return nil, sferrors.Wrap(err, sferrors.ErrorTypeInternal, "inspect cancelled")
		}
		s, err := it.Next()
		if errors.Is(err, dataset.Done) {
			break
		}
		if err != nil {
			return nil, err
		}

		n := s.Len()
		summary.Series++
		summary.Observations += n
		summary.Frequencies[s.Freq.String()]++
		if summary.MinLength == 0 || n < summary.MinLength {
			summary.MinLength = n
		}
		if n > summary.MaxLength {
			summary.MaxLength = n
		}
	}
	return summary, nil
}

// Issue records one series that failed normalization.
type Issue struct {
	Series string `json:"series"`
	Kind   string `json:"kind,omitempty"`
	Error  string `json:"error"`
}

// Validate normalizes every series and collects per-series failures instead
// of stopping at the first one, so a report covers the whole dataset.
func Validate(ctx context.Context, ds *dataset.Dataset) ([]Issue, error) {
	keys := ds.Keys()
	var issues []Issue

	it := ds.Iter()
	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return nil, sferrors.Wrap(err, sferrors.ErrorTypeInternal, "validate cancelled")
		}
		_, err := it.Next()
		if errors.Is(err, dataset.Done) {
			break
		}
		if err != nil {
			issue := Issue{Error: err.Error()}
			if i < len(keys) {
				issue.Series = keys[i]
			}
			var structured *sferrors.Error
			if errors.As(err, &structured) {
				issue.Kind = string(structured.Kind)
			}
			issues = append(issues, issue)
		}
	}

	sort.Slice(issues, func(a, b int) bool { return issues[a].Series < issues[b].Series })
	return issues, nil
}
