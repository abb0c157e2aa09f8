package dataset

import (
	"errors"

	"github.com/ajitpratap0/seriesflow/pkg/config"
	"github.com/ajitpratap0/seriesflow/pkg/frequency"
	"github.com/ajitpratap0/seriesflow/pkg/metrics"
	"github.com/ajitpratap0/seriesflow/pkg/sferrors"
)

// Done is returned by Iterator.Next when the pass is complete.
var Done = errors.New("dataset: no more series")

// Dataset is a lazy, restartable view over normalized series. It is
// immutable after construction: every call to Iter begins a fresh pass and
// per-pass position lives on the iterator, so independent passes can be
// interleaved freely.
type Dataset struct {
	kind    sourceKind
	entries []entry
	cfg     config.Config
	freq    frequency.Frequency
}

// Len returns the number of series in the dataset.
func (d *Dataset) Len() int {
	return len(d.entries)
}

// Keys returns the series keys in iteration order.
func (d *Dataset) Keys() []string {
	keys := make([]string, len(d.entries))
	for i, e := range d.entries {
		keys[i] = e.key
	}
	return keys
}

// Iter begins a fresh pass over the dataset. Normalization happens lazily,
// one series per Next call; the same series is re-normalized on every pass
// so no shared state is mutated.
func (d *Dataset) Iter() *Iterator {
	return &Iterator{d: d}
}

// Collect materializes one full pass. A normalization failure aborts the
// pass and is returned as-is; there is no partial-success mode.
func (d *Dataset) Collect() ([]*Series, error) {
	out := make([]*Series, 0, len(d.entries))
	for it := d.Iter(); ; {
		s, err := it.Next()
		if errors.Is(err, Done) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
}

// Iterator is a single pass over a Dataset. Iterators are not safe for
// concurrent use themselves, but distinct iterators never interfere.
type Iterator struct {
	d   *Dataset
	pos int
}

// Next normalizes and returns the next series. It returns Done after the
// last series. A data-quality error in any series aborts the pass; the
// error names the offending series key and row or column.
func (it *Iterator) Next() (*Series, error) {
	if it.pos >= len(it.d.entries) {
		return nil, Done
	}
	e := it.d.entries[it.pos]
	it.pos++

	timer := metrics.NewTimer()
	s, err := normalize(e.key, e.tbl, &it.d.cfg, it.d.freq)
	metrics.NormalizationLatency.Observe(timer.Stop().Seconds())
	if err != nil {
		metrics.NormalizationErrors.WithLabelValues(errorKind(err)).Inc()
		return nil, err
	}
	metrics.SeriesNormalized.Inc()
	return s, nil
}

func errorKind(err error) string {
	var structured *sferrors.Error
	if errors.As(err, &structured) && structured.Kind != "" {
		return string(structured.Kind)
	}
	return "other"
}
