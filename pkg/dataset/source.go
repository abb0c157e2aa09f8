package dataset

import (
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/ajitpratap0/seriesflow/pkg/config"
	"github.com/ajitpratap0/seriesflow/pkg/logger"
	"github.com/ajitpratap0/seriesflow/pkg/metrics"
	"github.com/ajitpratap0/seriesflow/pkg/sferrors"
	"github.com/ajitpratap0/seriesflow/pkg/table"
)

// sourceKind tags the input shape a dataset was built from. Shape detection
// lives entirely here; the normalizer never branches on it.
type sourceKind string

const (
	kindSingle sourceKind = "single"
	kindList   sourceKind = "list"
	kindKeyed  sourceKind = "keyed"
	kindLong   sourceKind = "long"
)

// entry pairs a series key with the raw table that backs it.
type entry struct {
	key string
	tbl *table.Table
}

// FromTable builds a dataset from a single raw table holding one series.
// The key comes from the identifier column when present (its value must be
// constant), otherwise the positional key "0" is synthesized. With
// cfg.SplitByID set and an identifier column present, the table is treated
// as a long table instead.
func FromTable(t *table.Table, cfg *config.Config) (*Dataset, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.SplitByID && t.Has(cfg.ItemIDColumn) {
		return fromGroups(t, cfg, kindSingle)
	}

	key := "0"
	if t.Has(cfg.ItemIDColumn) {
		ids, err := columnStrings(t, cfg.ItemIDColumn)
		if err != nil {
			return nil, err
		}
		for row := 1; row < len(ids); row++ {
			if ids[row] != ids[0] {
				return nil, sferrors.Newf(sferrors.ErrorTypeConfig,
					"identifier column %q has multiple values but split_by_id is off",
					cfg.ItemIDColumn).
					WithKind(sferrors.KindAmbiguousIdentifier).
					WithDetail("column", cfg.ItemIDColumn).
					WithDetail("row", row)
			}
		}
		if len(ids) > 0 {
			key = ids[0]
		}
	}
	return newDataset(kindSingle, []entry{{key: key, tbl: t}}, cfg)
}

// FromTables builds a dataset from an ordered collection of tables, one
// series per element. Keys default to the element position; a table
// carrying a constant identifier column supplies its own key instead.
func FromTables(tables []*table.Table, cfg *config.Config) (*Dataset, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	entries := make([]entry, 0, len(tables))
	for i, t := range tables {
		key := strconv.Itoa(i)
		if t.Has(cfg.ItemIDColumn) {
			ids, err := columnStrings(t, cfg.ItemIDColumn)
			if err != nil {
				return nil, err
			}
			for row := 1; row < len(ids); row++ {
				if ids[row] != ids[0] {
					return nil, sferrors.Newf(sferrors.ErrorTypeConfig,
						"identifier column %q varies within table %d", cfg.ItemIDColumn, i).
						WithKind(sferrors.KindAmbiguousIdentifier).
						WithDetail("column", cfg.ItemIDColumn).
						WithDetail("table", i)
				}
			}
			if len(ids) > 0 {
				key = ids[0]
			}
		}
		entries = append(entries, entry{key: key, tbl: t})
	}
	return newDataset(kindList, entries, cfg)
}

// FromKeyedTables builds a dataset from a keyed collection of tables. The
// collection key becomes the series key, overriding any in-table
// identifier. Entries are ordered by key so iteration is deterministic.
func FromKeyedTables(tables map[string]*table.Table, cfg *config.Config) (*Dataset, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(tables))
	for key := range tables {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	entries := make([]entry, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, entry{key: key, tbl: tables[key]})
	}
	return newDataset(kindKeyed, entries, cfg)
}

// FromLongTable builds a dataset from one long table grouping multiple
// series by the identifier column. Groups keep first-appearance order and
// rows keep their original relative order within each group. This entry
// point is distinct from the other three because it is the only one that
// needs grouping logic.
func FromLongTable(t *table.Table, cfg *config.Config) (*Dataset, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if !t.Has(cfg.ItemIDColumn) {
		return nil, sferrors.Newf(sferrors.ErrorTypeConfig,
			"long table is missing identifier column %q", cfg.ItemIDColumn).
			WithDetail("column", cfg.ItemIDColumn)
	}
	return fromGroups(t, cfg, kindLong)
}

func fromGroups(t *table.Table, cfg *config.Config, kind sourceKind) (*Dataset, error) {
	groups, err := t.GroupBy(cfg.ItemIDColumn)
	if err != nil {
		return nil, err
	}
	entries := make([]entry, len(groups))
	for i, g := range groups {
		entries[i] = entry{key: g.Key, tbl: g.Table}
	}
	return newDataset(kind, entries, cfg)
}

// newDataset performs the eager construction-time validation shared by all
// shapes: key uniqueness, non-emptiness, column presence and kinds. The
// per-series data checks stay lazy.
func newDataset(kind sourceKind, entries []entry, cfg *config.Config) (*Dataset, error) {
	if len(entries) == 0 {
		return nil, sferrors.New(sferrors.ErrorTypeStructural, "source contains zero series").
			WithKind(sferrors.KindEmptySource)
	}

	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.key]; dup {
			return nil, sferrors.Newf(sferrors.ErrorTypeStructural,
				"duplicate series key %q", e.key).
				WithKind(sferrors.KindDuplicateSeriesKey).
				WithDetail("key", e.key)
		}
		seen[e.key] = struct{}{}
	}

	for _, e := range entries {
		if err := validateColumns(e.tbl, cfg); err != nil {
			return nil, withKey(err, e.key)
		}
	}

	explicit, err := cfg.Frequency()
	if err != nil {
		return nil, err
	}

	d := &Dataset{
		kind:    kind,
		entries: entries,
		cfg:     cloneConfig(cfg),
		freq:    explicit,
	}

	metrics.DatasetSeries.Set(float64(len(entries)))
	logger.Get().Info("dataset constructed",
		zap.String("shape", string(kind)),
		zap.Int("series", len(entries)),
		zap.String("freq", cfg.Freq))
	return d, nil
}

// validateConfig fails fast on configuration errors before any data is
// touched.
func validateConfig(cfg *config.Config) error {
	if cfg == nil {
		return sferrors.New(sferrors.ErrorTypeConfig, "config must not be nil")
	}
	return cfg.Validate()
}

// validateColumns checks column presence and kinds for one table so
// misconfiguration surfaces at construction, never mid-iteration.
func validateColumns(t *table.Table, cfg *config.Config) error {
	if !t.Has(cfg.TargetColumn) {
		return sferrors.Newf(sferrors.ErrorTypeConfig,
			"target column %q not found", cfg.TargetColumn).
			WithKind(sferrors.KindMissingTargetColumn).
			WithDetail("column", cfg.TargetColumn)
	}
	if _, err := t.Floats(cfg.TargetColumn); err != nil {
		return err
	}
	if _, err := t.Times(cfg.TimestampColumn); err != nil {
		return err
	}
	for _, col := range cfg.StaticCat {
		if !t.Has(col) {
			return missingFeature("static_cat", col)
		}
	}
	for _, col := range cfg.StaticReal {
		if _, err := t.Floats(col); err != nil {
			return err
		}
	}
	for _, col := range cfg.DynamicCat {
		if !t.Has(col) {
			return missingFeature("dynamic_cat", col)
		}
	}
	for _, col := range cfg.DynamicReal {
		if _, err := t.Floats(col); err != nil {
			return err
		}
	}
	return nil
}

func missingFeature(role, col string) *sferrors.Error {
	return sferrors.Newf(sferrors.ErrorTypeConfig,
		"%s column %q not found", role, col).
		WithDetail("column", col)
}

// columnStrings renders an identifier column as strings whatever its kind.
func columnStrings(t *table.Table, col string) ([]string, error) {
	out := make([]string, t.NumRows())
	for row := range out {
		v, err := t.CellString(col, row)
		if err != nil {
			return nil, err
		}
		out[row] = v
	}
	return out, nil
}

// cloneConfig takes a defensive copy so the dataset stays immutable even if
// the caller mutates the config afterwards.
func cloneConfig(cfg *config.Config) config.Config {
	c := *cfg
	c.StaticCat = append([]string(nil), cfg.StaticCat...)
	c.StaticReal = append([]string(nil), cfg.StaticReal...)
	c.DynamicCat = append([]string(nil), cfg.DynamicCat...)
	c.DynamicReal = append([]string(nil), cfg.DynamicReal...)
	return c
}
