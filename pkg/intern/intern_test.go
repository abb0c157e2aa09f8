package intern

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetReturnsCanonicalCopy(t *testing.T) {
	tbl := New()

	a := tbl.Get("store_7")
	b := tbl.Get("sto" + "re_7")
	assert.Equal(t, a, b)
	assert.Equal(t, 1, tbl.Size())
}

func TestGetAllInternsInPlace(t *testing.T) {
	tbl := New()
	values := []string{"A", "B", "A", "A", "B"}

	out := tbl.GetAll(values)
	assert.Equal(t, []string{"A", "B", "A", "A", "B"}, out)
	assert.Equal(t, 2, tbl.Size())
}
