package frequency

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/seriesflow/pkg/sferrors"
)

func hourly(start time.Time, n int, step time.Duration) []time.Time {
	ts := make([]time.Time, n)
	for i := range ts {
		ts[i] = start.Add(time.Duration(i) * step)
	}
	return ts
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Frequency
	}{
		{"H", Frequency{N: 1, Unit: UnitHour}},
		{"1H", Frequency{N: 1, Unit: UnitHour}},
		{"2h", Frequency{N: 2, Unit: UnitHour}},
		{"30min", Frequency{N: 30, Unit: UnitMinute}},
		{"15s", Frequency{N: 15, Unit: UnitSecond}},
		{"D", Frequency{N: 1, Unit: UnitDay}},
		{"W", Frequency{N: 1, Unit: UnitWeek}},
		{"M", Frequency{N: 1, Unit: UnitMonth}},
		{"m", Frequency{N: 1, Unit: UnitMinute}},
		{"3mo", Frequency{N: 3, Unit: UnitMonth}},
		{"Y", Frequency{N: 1, Unit: UnitYear}},
		{"", Frequency{}},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		require.NoError(t, err, "Parse(%q)", tt.in)
		assert.Equal(t, tt.want, got, "Parse(%q)", tt.in)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"fortnight", "0H", "-1D", "1.5H"} {
		_, err := Parse(in)
		assert.Error(t, err, "Parse(%q)", in)
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"H", "2H", "30min", "D", "M", "Y"} {
		f := MustParse(s)
		got, err := Parse(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
}

func TestAddCalendarUnits(t *testing.T) {
	jan31 := time.Date(2021, 1, 31, 0, 0, 0, 0, time.UTC)
	m := Frequency{N: 1, Unit: UnitMonth}
	assert.Equal(t, time.Date(2021, 3, 3, 0, 0, 0, 0, time.UTC), m.Add(jan31, 1))

	jan1 := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	y := Frequency{N: 1, Unit: UnitYear}
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), y.Add(jan1, 3))
}

func TestAlign(t *testing.T) {
	ts := time.Date(2021, 6, 17, 14, 35, 9, 0, time.UTC) // a Thursday

	assert.Equal(t, time.Date(2021, 6, 17, 14, 0, 0, 0, time.UTC),
		Frequency{N: 1, Unit: UnitHour}.Align(ts))
	assert.Equal(t, time.Date(2021, 6, 17, 0, 0, 0, 0, time.UTC),
		Frequency{N: 1, Unit: UnitDay}.Align(ts))
	assert.Equal(t, time.Date(2021, 6, 14, 0, 0, 0, 0, time.UTC),
		Frequency{N: 1, Unit: UnitWeek}.Align(ts))
	assert.Equal(t, time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC),
		Frequency{N: 1, Unit: UnitMonth}.Align(ts))
	assert.Equal(t, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
		Frequency{N: 1, Unit: UnitYear}.Align(ts))
}

func TestInferHourly(t *testing.T) {
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	got, err := Infer(hourly(start, 240, time.Hour))
	require.NoError(t, err)
	assert.Equal(t, Frequency{N: 1, Unit: UnitHour}, got)
}

func TestInferPrefersLargestUnit(t *testing.T) {
	start := time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC)

	got, err := Infer(hourly(start, 10, 24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, Frequency{N: 1, Unit: UnitDay}, got)

	got, err = Infer(hourly(start, 10, 7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, Frequency{N: 1, Unit: UnitWeek}, got)
}

func TestInferMonthly(t *testing.T) {
	ts := make([]time.Time, 24)
	for i := range ts {
		ts[i] = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, i, 0)
	}
	got, err := Infer(ts)
	require.NoError(t, err)
	assert.Equal(t, Frequency{N: 1, Unit: UnitMonth}, got)
}

func TestInferTooFewTimestamps(t *testing.T) {
	_, err := Infer([]time.Time{time.Now()})
	require.Error(t, err)
	assert.True(t, sferrors.IsKind(err, sferrors.KindFrequencyInference))
}

func TestInferInconsistentSpacing(t *testing.T) {
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := []time.Time{start, start.Add(time.Hour), start.Add(3 * time.Hour)}

	_, err := Infer(ts)
	require.Error(t, err)
	assert.True(t, sferrors.IsKind(err, sferrors.KindFrequencyInference))
	assert.Equal(t, 2, sferrors.GetDetail(err, "row"))
}

func TestResolveExplicitMatches(t *testing.T) {
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	got, err := Resolve(MustParse("1H"), hourly(start, 24, time.Hour))
	require.NoError(t, err)
	assert.Equal(t, Frequency{N: 1, Unit: UnitHour}, got)
}

func TestResolveExplicitMismatch(t *testing.T) {
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := Resolve(MustParse("1H"), hourly(start, 24, 2*time.Hour))
	require.Error(t, err)
	assert.True(t, sferrors.IsKind(err, sferrors.KindFrequencyMismatch))
	assert.Equal(t, "2H", sferrors.GetDetail(err, "observed"))
}

func TestResolveExplicitIrregularDeferred(t *testing.T) {
	// irregular spacing is not a frequency mismatch; the grid check owns it
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := []time.Time{start, start.Add(time.Hour), start.Add(5 * time.Hour)}

	got, err := Resolve(MustParse("1H"), ts)
	require.NoError(t, err)
	assert.Equal(t, Frequency{N: 1, Unit: UnitHour}, got)

	err = CheckGrid(got, ts)
	require.Error(t, err)
	assert.True(t, sferrors.IsKind(err, sferrors.KindIrregularTimestamps))
	assert.Equal(t, 2, sferrors.GetDetail(err, "row"))
	assert.Equal(t, "gap", sferrors.GetDetail(err, "violation"))
}

func TestResolveUnsetInfers(t *testing.T) {
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	got, err := Resolve(Frequency{}, hourly(start, 5, 30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, Frequency{N: 30, Unit: UnitMinute}, got)
}

func TestCheckGridDuplicate(t *testing.T) {
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := []time.Time{start, start.Add(time.Hour), start.Add(time.Hour)}

	err := CheckGrid(MustParse("1H"), ts)
	require.Error(t, err)
	assert.Equal(t, "duplicate", sferrors.GetDetail(err, "violation"))
	assert.Equal(t, 2, sferrors.GetDetail(err, "row"))
}

func TestCheckGridCalendarMonths(t *testing.T) {
	ts := make([]time.Time, 6)
	for i := range ts {
		ts[i] = time.Date(2020, 11, 1, 0, 0, 0, 0, time.UTC).AddDate(0, i, 0)
	}
	assert.NoError(t, CheckGrid(MustParse("M"), ts))
}
