package dataset

import (
	"github.com/ajitpratap0/seriesflow/pkg/config"
	"github.com/ajitpratap0/seriesflow/pkg/frequency"
	"github.com/ajitpratap0/seriesflow/pkg/sferrors"
	"github.com/ajitpratap0/seriesflow/pkg/table"
)

// normalize converts one raw table into a canonical Series. Timestamps must
// already be monotonically increasing and land exactly on the resolved
// frequency grid; static feature columns must be constant for the whole
// table. Any violation aborts with a data error naming the series key and
// the offending row or column. No sorting, filling, or truncation happens
// silently.
func normalize(key string, tbl *table.Table, cfg *config.Config, explicit frequency.Frequency) (*Series, error) {
	timestamps, err := tbl.Times(cfg.TimestampColumn)
	if err != nil {
		return nil, withKey(err, key)
	}
	if len(timestamps) == 0 {
		return nil, withKey(sferrors.New(sferrors.ErrorTypeData,
			"series has no observations").
			WithKind(sferrors.KindEmptySeries), key)
	}

	for i := 1; i < len(timestamps); i++ {
		if timestamps[i].Before(timestamps[i-1]) {
			return nil, withKey(sferrors.Newf(sferrors.ErrorTypeData,
				"timestamps are not monotonically increasing at row %d", i).
				WithKind(sferrors.KindUnsortedTimestamps).
				WithDetail("row", i), key)
		}
	}

	freq, err := frequency.Resolve(explicit, timestamps)
	if err != nil {
		return nil, withKey(err, key)
	}
	if err := frequency.CheckGrid(freq, timestamps); err != nil {
		return nil, withKey(err, key)
	}

	target, err := tbl.Floats(cfg.TargetColumn)
	if err != nil {
		if !tbl.Has(cfg.TargetColumn) {
			return nil, withKey(sferrors.Newf(sferrors.ErrorTypeConfig,
				"target column %q not found", cfg.TargetColumn).
				WithKind(sferrors.KindMissingTargetColumn).
				WithDetail("column", cfg.TargetColumn), key)
		}
		return nil, withKey(err, key)
	}

	s := &Series{
		Key:    key,
		Start:  freq.Align(timestamps[0]),
		Freq:   freq,
		Target: target,
	}

	for _, col := range cfg.StaticCat {
		value, err := staticValue(tbl, col)
		if err != nil {
			return nil, withKey(err, key)
		}
		if s.StaticCat == nil {
			s.StaticCat = make(map[string]string, len(cfg.StaticCat))
		}
		s.StaticCat[col] = value
	}

	for _, col := range cfg.StaticReal {
		values, err := tbl.Floats(col)
		if err != nil {
			return nil, withKey(err, key)
		}
		for row := 1; row < len(values); row++ {
			if values[row] != values[0] {
				return nil, withKey(nonConstantStatic(col, row), key)
			}
		}
		if s.StaticReal == nil {
			s.StaticReal = make(map[string]float64, len(cfg.StaticReal))
		}
		if len(values) > 0 {
			s.StaticReal[col] = values[0]
		}
	}

	for _, col := range cfg.DynamicCat {
		values := make([]string, tbl.NumRows())
		for row := range values {
			v, err := tbl.CellString(col, row)
			if err != nil {
				return nil, withKey(err, key)
			}
			values[row] = v
		}
		if err := checkAligned(col, len(values), len(target)); err != nil {
			return nil, withKey(err, key)
		}
		if s.DynamicCat == nil {
			s.DynamicCat = make(map[string][]string, len(cfg.DynamicCat))
		}
		s.DynamicCat[col] = values
	}

	for _, col := range cfg.DynamicReal {
		values, err := tbl.Floats(col)
		if err != nil {
			return nil, withKey(err, key)
		}
		if err := checkAligned(col, len(values), len(target)); err != nil {
			return nil, withKey(err, key)
		}
		if s.DynamicReal == nil {
			s.DynamicReal = make(map[string][]float64, len(cfg.DynamicReal))
		}
		s.DynamicReal[col] = values
	}

	return s, nil
}

// staticValue verifies that a static feature column holds one constant
// value across all rows and returns it in string form.
func staticValue(tbl *table.Table, col string) (string, error) {
	first, err := tbl.CellString(col, 0)
	if err != nil {
		return "", err
	}
	for row := 1; row < tbl.NumRows(); row++ {
		v, err := tbl.CellString(col, row)
		if err != nil {
			return "", err
		}
		if v != first {
			return "", nonConstantStatic(col, row)
		}
	}
	return first, nil
}

func nonConstantStatic(col string, row int) *sferrors.Error {
	return sferrors.Newf(sferrors.ErrorTypeData,
		"static feature column %q varies within the series (row %d)", col, row).
		WithKind(sferrors.KindNonConstantStaticFeature).
		WithDetail("column", col).
		WithDetail("row", row)
}

func checkAligned(col string, got, want int) error {
	if got == want {
		return nil
	}
	return sferrors.Newf(sferrors.ErrorTypeData,
		"dynamic feature column %q has %d values, target has %d", col, got, want).
		WithKind(sferrors.KindLengthMismatch).
		WithDetail("column", col)
}

// withKey tags an error with the series it belongs to.
func withKey(err error, key string) error {
	var structured *sferrors.Error
	if e, ok := err.(*sferrors.Error); ok {
		structured = e
	} else {
		structured = sferrors.Wrap(err, sferrors.ErrorTypeData, "normalization failed")
	}
	return structured.WithDetail("series", key)
}
