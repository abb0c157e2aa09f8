// Package intern deduplicates repeated strings. Long-format tables repeat
// series identifiers and categorical values on every row; interning keeps a
// single backing copy per distinct value.
package intern

// Table holds one copy of every distinct string seen. It is not safe for
// concurrent use; each loader run owns its own Table.
type Table struct {
	strings map[string]string
}

// New creates an empty intern table.
func New() *Table {
	return &Table{strings: make(map[string]string)}
}

// Get returns the canonical copy of s, storing s on first sight.
func (t *Table) Get(s string) string {
	if canonical, ok := t.strings[s]; ok {
		return canonical
	}
	t.strings[s] = s
	return s
}

// GetAll interns every element of values in place and returns the slice.
func (t *Table) GetAll(values []string) []string {
	for i, v := range values {
		values[i] = t.Get(v)
	}
	return values
}

// Size returns the number of distinct strings held.
func (t *Table) Size() int {
	return len(t.strings)
}
