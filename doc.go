// Package seriesflow adapts tabular time-series data into normalized
// per-series records ready for forecasting pipelines.
//
// It accepts four input shapes (a single table, a list of tables, a
// string-keyed map of tables, and a long table holding many series) and
// presents them all through one lazy, restartable Dataset view. Each series
// is validated against a fixed sampling frequency (explicit or inferred from
// the timestamp spacing) and carries optional static and dynamic features.
//
// # Packages
//
//   - pkg/dataset: the Dataset view, Series record, and source adapters
//   - pkg/frequency: the fixed time-step model, inference, and grid checks
//   - pkg/table: the columnar table, builders, and file loaders (CSV, JSON Lines)
//   - pkg/config: dataset configuration with YAML loading
//   - pkg/compression: transparent gzip/zstd/lz4/snappy file compression
//   - pkg/sferrors: structured errors with domain error kinds
//
// # Quick Start
//
// Build a dataset from a long-format table and iterate its series:
//
//	import (
//	    "github.com/ajitpratap0/seriesflow/pkg/config"
//	    "github.com/ajitpratap0/seriesflow/pkg/dataset"
//	    "github.com/ajitpratap0/seriesflow/pkg/table"
//	)
//
//	tbl, err := table.Load("sales.csv")
//	if err != nil {
//	    return err
//	}
//
//	ds, err := dataset.FromLongTable(tbl, config.New())
//	if err != nil {
//	    return err
//	}
//
//	for it := ds.Iter(); ; {
//	    s, err := it.Next()
//	    if errors.Is(err, dataset.Done) {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    // use s.Key, s.Start, s.Freq, s.Target
//	}
//
// The seriesflow CLI in cmd/seriesflow wraps the same path: it loads files
// through the format registry, builds a dataset, and exports normalized
// series as JSON Lines.
package seriesflow
