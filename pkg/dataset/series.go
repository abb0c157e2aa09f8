// Package dataset converts heterogeneous tabular time-series inputs into the
// canonical sequence-of-series representation consumed by downstream
// forecasting pipelines. It accepts four source shapes (a single table, an
// ordered list of tables, a keyed collection of tables, or one long table
// grouping multiple series by an identifier column) and exposes the result
// as a lazy, restartable Dataset.
//
// Construction validates configuration and source structure eagerly
// (duplicate keys, empty sources, missing columns) while deferring the
// per-series normalization cost to iteration time, so a single traversal
// pays for exactly one normalization pass.
//
//	tbl, _ := table.Load("sales.csv")
//	ds, err := dataset.FromLongTable(tbl, config.New())
//	if err != nil {
//	    return err
//	}
//	for it := ds.Iter(); ; {
//	    series, err := it.Next()
//	    if errors.Is(err, dataset.Done) {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    train(series)
//	}
package dataset

import (
	"time"

	"github.com/ajitpratap0/seriesflow/pkg/frequency"
)

// Series is the canonical unit passed downstream: one time-ordered target
// sequence plus aligned covariates, identified by a unique key. The
// timestamps implied by Start, Freq, and index are strictly increasing with
// no gaps.
type Series struct {
	// Key uniquely identifies the series within its dataset
	Key string `json:"key"`
	// Start is the first timestamp, anchored to the frequency grid
	Start time.Time `json:"start"`
	// Freq is the fixed time-step governing the series
	Freq frequency.Frequency `json:"freq"`
	// Target holds one value per grid step
	Target []float64 `json:"target"`

	// StaticCat maps categorical feature names to their per-series value
	StaticCat map[string]string `json:"static_cat,omitempty"`
	// StaticReal maps real-valued feature names to their per-series value
	StaticReal map[string]float64 `json:"static_real,omitempty"`
	// DynamicCat maps categorical feature names to sequences aligned with Target
	DynamicCat map[string][]string `json:"dynamic_cat,omitempty"`
	// DynamicReal maps real-valued feature names to sequences aligned with Target
	DynamicReal map[string][]float64 `json:"dynamic_real,omitempty"`
}

// Len returns the series length (the number of target values).
func (s *Series) Len() int {
	return len(s.Target)
}

// TimestampAt returns the grid timestamp of the i-th observation.
func (s *Series) TimestampAt(i int) time.Time {
	return s.Freq.Add(s.Start, i)
}

// End returns the grid timestamp of the last observation. The zero time is
// returned for an empty series.
func (s *Series) End() time.Time {
	if len(s.Target) == 0 {
		return time.Time{}
	}
	return s.TimestampAt(len(s.Target) - 1)
}
