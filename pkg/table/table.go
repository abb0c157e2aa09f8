// Package table provides the column-oriented raw table consumed by the
// seriesflow dataset adapters. A Table holds an ordered set of typed columns
// (float64, string, or time.Time) of uniform length. Tables are built once
// through a Builder or loaded from a file format and treated as read-only
// afterwards.
package table

import (
	"strconv"
	"time"

	"github.com/ajitpratap0/seriesflow/pkg/sferrors"
)

// ColumnKind identifies the element type of a column.
type ColumnKind string

const (
	// KindFloat is a column of float64 values
	KindFloat ColumnKind = "float"
	// KindString is a column of string values
	KindString ColumnKind = "string"
	// KindTime is a column of timestamps
	KindTime ColumnKind = "timestamp"
)

// Column is a single typed column. Exactly one of the value slices is
// populated, matching the column kind.
type Column struct {
	name    string
	kind    ColumnKind
	floats  []float64
	strings []string
	times   []time.Time
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Kind returns the column element type.
func (c *Column) Kind() ColumnKind { return c.kind }

// Len returns the number of values in the column.
func (c *Column) Len() int {
	switch c.kind {
	case KindFloat:
		return len(c.floats)
	case KindString:
		return len(c.strings)
	case KindTime:
		return len(c.times)
	}
	return 0
}

// Table is an ordered collection of equal-length typed columns.
type Table struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return t.rows }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.cols) }

// ColumnNames returns the column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.name
	}
	return names
}

// Has reports whether the table contains the named column.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Kind returns the element type of the named column.
func (t *Table) Kind(name string) (ColumnKind, error) {
	i, ok := t.index[name]
	if !ok {
		return "", missingColumn(name)
	}
	return t.cols[i].kind, nil
}

// Floats returns the values of a float column. The returned slice is shared
// with the table and must not be modified.
func (t *Table) Floats(name string) ([]float64, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, missingColumn(name)
	}
	c := t.cols[i]
	if c.kind != KindFloat {
		return nil, wrongKind(name, c.kind, KindFloat)
	}
	return c.floats, nil
}

// Strings returns the values of a string column. The returned slice is
// shared with the table and must not be modified.
func (t *Table) Strings(name string) ([]string, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, missingColumn(name)
	}
	c := t.cols[i]
	if c.kind != KindString {
		return nil, wrongKind(name, c.kind, KindString)
	}
	return c.strings, nil
}

// Times returns the values of a timestamp column. The returned slice is
// shared with the table and must not be modified.
func (t *Table) Times(name string) ([]time.Time, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, missingColumn(name)
	}
	c := t.cols[i]
	if c.kind != KindTime {
		return nil, wrongKind(name, c.kind, KindTime)
	}
	return c.times, nil
}

// CellString returns the value at (name, row) rendered as a string,
// regardless of the column kind. Timestamps render as RFC 3339.
func (t *Table) CellString(name string, row int) (string, error) {
	i, ok := t.index[name]
	if !ok {
		return "", missingColumn(name)
	}
	c := t.cols[i]
	if row < 0 || row >= c.Len() {
		return "", sferrors.Newf(sferrors.ErrorTypeInternal,
			"row %d out of range for column %q", row, name)
	}
	switch c.kind {
	case KindFloat:
		return strconv.FormatFloat(c.floats[row], 'g', -1, 64), nil
	case KindString:
		return c.strings[row], nil
	case KindTime:
		return c.times[row].Format(time.RFC3339), nil
	}
	return "", sferrors.Newf(sferrors.ErrorTypeInternal,
		"column %q has unknown kind %q", name, c.kind)
}

// Select returns a new table containing the given rows, in the given order.
// Column names, kinds, and column order are preserved.
func (t *Table) Select(rows []int) *Table {
	out := &Table{
		cols:  make([]*Column, len(t.cols)),
		index: make(map[string]int, len(t.cols)),
		rows:  len(rows),
	}
	for ci, c := range t.cols {
		nc := &Column{name: c.name, kind: c.kind}
		switch c.kind {
		case KindFloat:
			nc.floats = make([]float64, len(rows))
			for i, r := range rows {
				nc.floats[i] = c.floats[r]
			}
		case KindString:
			nc.strings = make([]string, len(rows))
			for i, r := range rows {
				nc.strings[i] = c.strings[r]
			}
		case KindTime:
			nc.times = make([]time.Time, len(rows))
			for i, r := range rows {
				nc.times[i] = c.times[r]
			}
		}
		out.cols[ci] = nc
		out.index[c.name] = ci
	}
	return out
}

// Group is one partition of a table produced by GroupBy.
type Group struct {
	Key   string
	Table *Table
}

// GroupBy partitions the table by the values of the named column. Groups
// are returned in order of first appearance and rows keep their original
// relative order within each group.
func (t *Table) GroupBy(name string) ([]Group, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, missingColumn(name)
	}
	c := t.cols[i]

	order := make([]string, 0)
	rowsByKey := make(map[string][]int)
	for row := 0; row < t.rows; row++ {
		key, err := t.CellString(c.name, row)
		if err != nil {
			return nil, err
		}
		if _, seen := rowsByKey[key]; !seen {
			order = append(order, key)
		}
		rowsByKey[key] = append(rowsByKey[key], row)
	}

	groups := make([]Group, len(order))
	for gi, key := range order {
		groups[gi] = Group{Key: key, Table: t.Select(rowsByKey[key])}
	}
	return groups, nil
}

// Builder assembles a Table column by column. Columns must share one length
// and carry unique names; Build reports violations.
type Builder struct {
	cols []*Column
	err  error
}

// NewBuilder creates an empty table builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddFloatColumn appends a float64 column.
func (b *Builder) AddFloatColumn(name string, values []float64) *Builder {
	return b.add(&Column{name: name, kind: KindFloat, floats: values})
}

// AddStringColumn appends a string column.
func (b *Builder) AddStringColumn(name string, values []string) *Builder {
	return b.add(&Column{name: name, kind: KindString, strings: values})
}

// AddTimeColumn appends a timestamp column.
func (b *Builder) AddTimeColumn(name string, values []time.Time) *Builder {
	return b.add(&Column{name: name, kind: KindTime, times: values})
}

func (b *Builder) add(c *Column) *Builder {
	if b.err != nil {
		return b
	}
	if c.name == "" {
		b.err = sferrors.New(sferrors.ErrorTypeConfig, "column name cannot be empty")
		return b
	}
	for _, existing := range b.cols {
		if existing.name == c.name {
			b.err = sferrors.Newf(sferrors.ErrorTypeConfig,
				"duplicate column %q", c.name)
			return b
		}
	}
	b.cols = append(b.cols, c)
	return b
}

// Build finalizes the table, validating that all columns share one length.
func (b *Builder) Build() (*Table, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.cols) == 0 {
		return nil, sferrors.New(sferrors.ErrorTypeConfig, "table has no columns")
	}

	rows := b.cols[0].Len()
	for _, c := range b.cols[1:] {
		if c.Len() != rows {
			return nil, sferrors.Newf(sferrors.ErrorTypeConfig,
				"column %q has %d rows, expected %d", c.name, c.Len(), rows).
				WithKind(sferrors.KindLengthMismatch)
		}
	}

	t := &Table{
		cols:  b.cols,
		index: make(map[string]int, len(b.cols)),
		rows:  rows,
	}
	for i, c := range b.cols {
		t.index[c.name] = i
	}
	return t, nil
}

// MustBuild finalizes the table and panics on failure. Intended for tests.
func (b *Builder) MustBuild() *Table {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}

func missingColumn(name string) *sferrors.Error {
	return sferrors.Newf(sferrors.ErrorTypeConfig, "column %q not found", name).
		WithDetail("column", name)
}

func wrongKind(name string, actual, expected ColumnKind) *sferrors.Error {
	return sferrors.Newf(sferrors.ErrorTypeConfig,
		"column %q is %s, expected %s", name, actual, expected).
		WithDetail("column", name)
}
