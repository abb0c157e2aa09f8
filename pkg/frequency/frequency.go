// Package frequency provides the fixed time-step model used by seriesflow
// datasets. A Frequency is a positive multiple of a calendar unit (for
// example "H", "2H", "30min", "D", "M"). The package resolves the frequency
// governing a series either from explicit configuration or by inference from
// observed timestamp spacing.
//
// Sub-day units map to fixed durations. Month and year units are calendar
// units: their grid is computed with calendar arithmetic rather than a fixed
// duration, so February steps differ from March steps.
package frequency

import (
	"strconv"
	"strings"
	"time"

	"github.com/ajitpratap0/seriesflow/pkg/sferrors"
)

// Unit represents the calendar unit of a frequency.
type Unit string

const (
	// UnitSecond is a one-second step
	UnitSecond Unit = "s"
	// UnitMinute is a one-minute step
	UnitMinute Unit = "min"
	// UnitHour is a one-hour step
	UnitHour Unit = "H"
	// UnitDay is a one-day step
	UnitDay Unit = "D"
	// UnitWeek is a seven-day step
	UnitWeek Unit = "W"
	// UnitMonth is a calendar-month step
	UnitMonth Unit = "M"
	// UnitYear is a calendar-year step
	UnitYear Unit = "Y"
)

// Frequency is a fixed time-step: a positive multiple of a Unit.
// The zero value means "unset" and is used to request inference.
type Frequency struct {
	N    int
	Unit Unit
}

// IsZero reports whether the frequency is unset.
func (f Frequency) IsZero() bool {
	return f.N == 0 && f.Unit == ""
}

// IsCalendar reports whether the frequency uses calendar arithmetic
// (months and years) instead of a fixed duration.
func (f Frequency) IsCalendar() bool {
	return f.Unit == UnitMonth || f.Unit == UnitYear
}

// Step returns the fixed duration of one frequency step, or 0 for
// calendar units.
func (f Frequency) Step() time.Duration {
	var base time.Duration
	switch f.Unit {
	case UnitSecond:
		base = time.Second
	case UnitMinute:
		base = time.Minute
	case UnitHour:
		base = time.Hour
	case UnitDay:
		base = 24 * time.Hour
	case UnitWeek:
		base = 7 * 24 * time.Hour
	default:
		return 0
	}
	return time.Duration(f.N) * base
}

// Add returns t advanced by n frequency steps. Negative n steps backwards.
func (f Frequency) Add(t time.Time, n int) time.Time {
	switch f.Unit {
	case UnitMonth:
		return t.AddDate(0, n*f.N, 0)
	case UnitYear:
		return t.AddDate(n*f.N, 0, 0)
	default:
		return t.Add(time.Duration(n) * f.Step())
	}
}

// Align anchors t to the start of its unit boundary: hours lose minutes,
// days lose the time of day, weeks snap back to Monday, months to the first
// of the month, years to January 1. Multiples align to the base unit only.
func (f Frequency) Align(t time.Time) time.Time {
	switch f.Unit {
	case UnitSecond:
		return t.Truncate(time.Second)
	case UnitMinute:
		return t.Truncate(time.Minute)
	case UnitHour:
		return t.Truncate(time.Hour)
	case UnitDay:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	case UnitWeek:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		// back to Monday
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case UnitMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	case UnitYear:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	default:
		return t
	}
}

// String returns the canonical textual form, e.g. "H", "2H", "30min".
func (f Frequency) String() string {
	if f.IsZero() {
		return ""
	}
	if f.N == 1 {
		return string(f.Unit)
	}
	return strconv.Itoa(f.N) + string(f.Unit)
}

// MarshalText implements encoding.TextMarshaler.
func (f Frequency) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Frequency) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Parse parses a frequency string such as "H", "1H", "2h", "30min", "D",
// "W", "M", "Y", "15s". Unit aliases are matched case-insensitively except
// the bare letters "M" (month) and "m" (minute), which follow the usual
// offset-alias convention. An empty string parses to the zero (unset)
// frequency.
func Parse(s string) (Frequency, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Frequency{}, nil
	}

	i := 0
	for i < len(trimmed) && trimmed[i] >= '0' && trimmed[i] <= '9' {
		i++
	}

	n := 1
	if i > 0 {
		parsed, err := strconv.Atoi(trimmed[:i])
		if err != nil || parsed <= 0 {
			return Frequency{}, sferrors.Newf(sferrors.ErrorTypeConfig,
				"invalid frequency multiple in %q", s)
		}
		n = parsed
	}

	unit, ok := parseUnit(trimmed[i:])
	if !ok {
		return Frequency{}, sferrors.Newf(sferrors.ErrorTypeConfig,
			"unknown frequency unit in %q", s)
	}
	return Frequency{N: n, Unit: unit}, nil
}

// MustParse parses a frequency string and panics on failure. Intended for
// tests and package-level defaults.
func MustParse(s string) Frequency {
	f, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return f
}

func parseUnit(token string) (Unit, bool) {
	// bare single letters keep the minute/month distinction
	switch token {
	case "m":
		return UnitMinute, true
	case "M":
		return UnitMonth, true
	}

	switch strings.ToLower(token) {
	case "s", "sec", "second", "seconds":
		return UnitSecond, true
	case "t", "min", "minute", "minutes":
		return UnitMinute, true
	case "h", "hour", "hours":
		return UnitHour, true
	case "d", "day", "days":
		return UnitDay, true
	case "w", "week", "weeks":
		return UnitWeek, true
	case "mo", "month", "months":
		return UnitMonth, true
	case "y", "a", "year", "years":
		return UnitYear, true
	}
	return "", false
}

// Infer determines the single fixed step explaining the spacing of the
// given timestamps. It requires at least two timestamps and fails with a
// frequency-inference error when the spacings cannot be explained by one
// fixed step.
func Infer(timestamps []time.Time) (Frequency, error) {
	if len(timestamps) < 2 {
		return Frequency{}, sferrors.New(sferrors.ErrorTypeData,
			"cannot infer frequency from fewer than two timestamps").
			WithKind(sferrors.KindFrequencyInference).
			WithDetail("timestamps", len(timestamps))
	}

	delta := timestamps[1].Sub(timestamps[0])
	if delta > 0 {
		uniform := true
		for i := 2; i < len(timestamps); i++ {
			if timestamps[i].Sub(timestamps[i-1]) != delta {
				uniform = false
				break
			}
		}
		if uniform {
			if f, ok := fromDuration(delta); ok {
				return f, nil
			}
		}
	}

	// calendar steps: constant-duration deltas cannot represent months or
	// years, so probe calendar arithmetic directly
	if f, ok := inferCalendar(timestamps); ok {
		return f, nil
	}

	first, found := firstInconsistentSpacing(timestamps)
	err := sferrors.New(sferrors.ErrorTypeData,
		"timestamp spacings are not explained by a single fixed step").
		WithKind(sferrors.KindFrequencyInference)
	if found {
		err = err.WithDetail("row", first).
			WithDetail("timestamp", timestamps[first].Format(time.RFC3339))
	}
	return Frequency{}, err
}

// Resolve determines the frequency governing a series. When explicit is set
// it is validated against the observed spacing: if the timestamps are
// regularly spaced but follow a different step, a frequency-mismatch error
// names the first offending timestamp. Irregular spacing is left for the
// grid check so it surfaces as an irregular-timestamps error instead.
// When explicit is unset the frequency is inferred.
func Resolve(explicit Frequency, timestamps []time.Time) (Frequency, error) {
	if explicit.IsZero() {
		return Infer(timestamps)
	}

	for i := 1; i < len(timestamps); i++ {
		if timestamps[i].Equal(explicit.Add(timestamps[i-1], 1)) {
			continue
		}
		// regularly spaced but off-frequency data is a mismatch; anything
		// else is caught by the grid verification
		if observed, err := Infer(timestamps); err == nil {
			return Frequency{}, sferrors.Newf(sferrors.ErrorTypeData,
				"timestamps follow %s, not the configured %s", observed, explicit).
				WithKind(sferrors.KindFrequencyMismatch).
				WithDetail("configured", explicit.String()).
				WithDetail("observed", observed.String()).
				WithDetail("row", i).
				WithDetail("timestamp", timestamps[i].Format(time.RFC3339))
		}
		break
	}
	return explicit, nil
}

// CheckGrid verifies that the timestamps land exactly on the frequency grid
// anchored at the first timestamp, with no duplicates and no gaps. The
// returned error names the first violating row.
func CheckGrid(f Frequency, timestamps []time.Time) error {
	for i := 1; i < len(timestamps); i++ {
		expected := f.Add(timestamps[i-1], 1)
		if timestamps[i].Equal(expected) {
			continue
		}

		err := sferrors.Newf(sferrors.ErrorTypeData,
			"timestamp at row %d is off the %s grid", i, f).
			WithKind(sferrors.KindIrregularTimestamps).
			WithDetail("row", i).
			WithDetail("expected", expected.Format(time.RFC3339)).
			WithDetail("actual", timestamps[i].Format(time.RFC3339))
		if timestamps[i].Equal(timestamps[i-1]) {
			err = err.WithDetail("violation", "duplicate")
		} else if timestamps[i].After(expected) {
			err = err.WithDetail("violation", "gap")
		}
		return err
	}
	return nil
}

// fromDuration converts a uniform spacing into the largest unit that divides
// it evenly. Sub-second spacings are not representable.
func fromDuration(d time.Duration) (Frequency, bool) {
	const (
		day  = 24 * time.Hour
		week = 7 * day
	)
	switch {
	case d%week == 0:
		return Frequency{N: int(d / week), Unit: UnitWeek}, true
	case d%day == 0:
		return Frequency{N: int(d / day), Unit: UnitDay}, true
	case d%time.Hour == 0:
		return Frequency{N: int(d / time.Hour), Unit: UnitHour}, true
	case d%time.Minute == 0:
		return Frequency{N: int(d / time.Minute), Unit: UnitMinute}, true
	case d%time.Second == 0:
		return Frequency{N: int(d / time.Second), Unit: UnitSecond}, true
	}
	return Frequency{}, false
}

// inferCalendar probes month and year steps: the sequence must be exactly
// reproduced by calendar arithmetic with one constant multiple.
func inferCalendar(timestamps []time.Time) (Frequency, bool) {
	for _, unit := range []Unit{UnitYear, UnitMonth} {
		for n := 1; n <= 12; n++ {
			f := Frequency{N: n, Unit: unit}
			ok := true
			for i := 1; i < len(timestamps); i++ {
				if !timestamps[i].Equal(f.Add(timestamps[i-1], 1)) {
					ok = false
					break
				}
			}
			if ok {
				return f, true
			}
		}
	}
	return Frequency{}, false
}

// firstInconsistentSpacing returns the index of the first timestamp whose
// spacing from its predecessor differs from the initial spacing.
func firstInconsistentSpacing(timestamps []time.Time) (int, bool) {
	if len(timestamps) < 2 {
		return 0, false
	}
	delta := timestamps[1].Sub(timestamps[0])
	if delta <= 0 {
		return 1, true
	}
	for i := 2; i < len(timestamps); i++ {
		if timestamps[i].Sub(timestamps[i-1]) != delta {
			return i, true
		}
	}
	return 0, false
}
