package sferrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCapturesStack(t *testing.T) {
	err := New(ErrorTypeData, "bad row")
	require.NotNil(t, err)
	assert.Equal(t, ErrorTypeData, err.Type)
	assert.NotEmpty(t, err.Stack)
	assert.Equal(t, "data: bad row", err.Error())
}

func TestErrorWithKindFormatting(t *testing.T) {
	err := New(ErrorTypeData, "timestamps off grid").
		WithKind(KindIrregularTimestamps).
		WithDetail("row", 17)

	assert.Equal(t, "data/irregular_timestamps: timestamps off grid", err.Error())
	assert.True(t, IsKind(err, KindIrregularTimestamps))
	assert.False(t, IsKind(err, KindFrequencyMismatch))
	assert.Equal(t, 17, GetDetail(err, "row"))
}

func TestWrapPreservesKindAndCause(t *testing.T) {
	inner := New(ErrorTypeData, "static feature varies").
		WithKind(KindNonConstantStaticFeature).
		WithDetail("column", "store_id")

	outer := Wrap(inner, ErrorTypeData, "normalizing series A failed")
	require.NotNil(t, outer)

	assert.True(t, IsKind(outer, KindNonConstantStaticFeature))
	assert.True(t, errors.Is(outer, inner))

	var structured *Error
	require.True(t, errors.As(outer, &structured))
	assert.Equal(t, inner.Stack, structured.Stack)
}

func TestWrapPlainError(t *testing.T) {
	cause := fmt.Errorf("open data.csv: no such file")
	err := Wrap(cause, ErrorTypeFile, "failed to load table")

	assert.True(t, IsType(err, ErrorTypeFile))
	assert.True(t, errors.Is(err, cause))
	assert.NotEmpty(t, err.Stack)
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeInternal, "ignored"))
}

func TestIsTypeOnForeignError(t *testing.T) {
	assert.False(t, IsType(errors.New("plain"), ErrorTypeData))
	assert.False(t, IsKind(errors.New("plain"), KindEmptySource))
	assert.Nil(t, GetDetail(errors.New("plain"), "row"))
}
