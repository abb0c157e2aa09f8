// Package config provides the unified configuration system for seriesflow.
// It defines a single Config structure that all dataset adapters use,
// ensuring one set of field-name conventions across the entire system.
//
// Defaults are explicit values set by New, never mutable process-wide
// state: a Config documents exactly which columns feed the target, the
// timestamp grid, the series identifier, and the static and dynamic
// covariates.
//
// Example usage:
//
//	cfg := config.New()
//	cfg.Freq = "1H"
//	cfg.StaticCat = []string{"store_id"}
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"github.com/ajitpratap0/seriesflow/pkg/frequency"
	"github.com/ajitpratap0/seriesflow/pkg/sferrors"
)

// Default field names shared by every adapter unless overridden.
const (
	// DefaultTargetColumn is the default name of the numeric target column
	DefaultTargetColumn = "target"
	// DefaultTimestampColumn is the default name of the timestamp column
	DefaultTimestampColumn = "timestamp"
	// DefaultItemIDColumn is the default name of the series identifier column
	DefaultItemIDColumn = "item_id"
)

// Config describes how raw tables map onto normalized series. All fields
// are optional; New fills in the conventional defaults.
type Config struct {
	// TargetColumn names the numeric target column
	TargetColumn string `yaml:"target_column" json:"target_column"`
	// TimestampColumn names the timestamp column
	TimestampColumn string `yaml:"timestamp_column" json:"timestamp_column"`
	// ItemIDColumn names the series identifier column
	ItemIDColumn string `yaml:"item_id_column" json:"item_id_column"`

	// StaticCat lists categorical covariate columns constant per series
	StaticCat []string `yaml:"static_cat" json:"static_cat"`
	// StaticReal lists real-valued covariate columns constant per series
	StaticReal []string `yaml:"static_real" json:"static_real"`
	// DynamicCat lists categorical covariate columns aligned to the target
	DynamicCat []string `yaml:"dynamic_cat" json:"dynamic_cat"`
	// DynamicReal lists real-valued covariate columns aligned to the target
	DynamicReal []string `yaml:"dynamic_real" json:"dynamic_real"`

	// Freq is the explicit sampling frequency ("1H", "D", ...); empty
	// requests inference from the timestamp spacing
	Freq string `yaml:"freq" json:"freq"`

	// SplitByID routes a single table through the long-table grouping path
	SplitByID bool `yaml:"split_by_id" json:"split_by_id"`
}

// New creates a Config with the conventional defaults.
func New() *Config {
	return &Config{
		TargetColumn:    DefaultTargetColumn,
		TimestampColumn: DefaultTimestampColumn,
		ItemIDColumn:    DefaultItemIDColumn,
	}
}

// Frequency parses the explicit frequency. An empty Freq yields the zero
// frequency, which downstream code treats as "infer".
func (c *Config) Frequency() (frequency.Frequency, error) {
	return frequency.Parse(c.Freq)
}

// Validate checks the configuration for correctness: required column names,
// a parseable frequency, and no column assigned to more than one role.
// Adapters call this before touching any data so configuration errors fail
// fast at construction.
func (c *Config) Validate() error {
	if c.TargetColumn == "" {
		return sferrors.New(sferrors.ErrorTypeConfig, "target_column is required")
	}
	if c.TimestampColumn == "" {
		return sferrors.New(sferrors.ErrorTypeConfig, "timestamp_column is required")
	}
	if c.ItemIDColumn == "" {
		return sferrors.New(sferrors.ErrorTypeConfig, "item_id_column is required")
	}
	if _, err := c.Frequency(); err != nil {
		return err
	}

	roles := map[string]string{c.TargetColumn: "target_column"}
	for _, assignment := range []struct {
		role string
		col  string
	}{
		{"timestamp_column", c.TimestampColumn},
		{"item_id_column", c.ItemIDColumn},
	} {
		if prev, taken := roles[assignment.col]; taken {
			return sferrors.Newf(sferrors.ErrorTypeConfig,
				"column %q assigned to both %s and %s", assignment.col, prev, assignment.role)
		}
		roles[assignment.col] = assignment.role
	}

	for _, assignment := range []struct {
		role string
		cols []string
	}{
		{"static_cat", c.StaticCat},
		{"static_real", c.StaticReal},
		{"dynamic_cat", c.DynamicCat},
		{"dynamic_real", c.DynamicReal},
	} {
		for _, col := range assignment.cols {
			if col == "" {
				return sferrors.Newf(sferrors.ErrorTypeConfig,
					"%s contains an empty column name", assignment.role)
			}
			if prev, taken := roles[col]; taken {
				return sferrors.Newf(sferrors.ErrorTypeConfig,
					"column %q assigned to both %s and %s", col, prev, assignment.role)
			}
			roles[col] = assignment.role
		}
	}
	return nil
}

// FeatureColumns returns all configured covariate column names, in role
// order. Useful for schema reporting.
func (c *Config) FeatureColumns() []string {
	out := make([]string, 0,
		len(c.StaticCat)+len(c.StaticReal)+len(c.DynamicCat)+len(c.DynamicReal))
	out = append(out, c.StaticCat...)
	out = append(out, c.StaticReal...)
	out = append(out, c.DynamicCat...)
	out = append(out, c.DynamicReal...)
	return out
}
