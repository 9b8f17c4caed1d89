package valuefmt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qvd-go/qvd"
)

// TestIntervalFormatterFullPattern verifies a pattern naming every unit renders each independently
func TestIntervalFormatterFullPattern(t *testing.T) {
	f := NewIntervalFormatter("D hh:mm:ss")

	// 1 day, 2 hours, 30 minutes exactly.
	got := f.Format(qvd.IntervalValue{Calc: 1 + (2*3600+30*60)/86400.0})
	require.Equal(t, "1 02:30:00", got)
}

// TestIntervalFormatterCascadesIntoMissingLargerUnits verifies a pattern that omits "D" and "hh"
// absorbs the interval's full length into the minutes token instead of wrapping at 60.
func TestIntervalFormatterCascadesIntoMissingLargerUnits(t *testing.T) {
	f := NewIntervalFormatter("mm:ss")

	// 1 day, 2 hours, 30 minutes, 0 seconds -> 1590 total minutes.
	got := f.Format(qvd.IntervalValue{Calc: 1 + (2*3600+30*60)/86400.0})
	require.Equal(t, "1590:00", got)
}

// TestIntervalFormatterCascadesIntoHoursWhenDaysMissing verifies omitting only "D" folds days into hours
func TestIntervalFormatterCascadesIntoHoursWhenDaysMissing(t *testing.T) {
	f := NewIntervalFormatter("hh:mm:ss")

	got := f.Format(qvd.IntervalValue{Calc: 1 + (2*3600+30*60)/86400.0})
	require.Equal(t, "26:30:00", got)
}

// TestIntervalFormatterQvdFormatString verifies the formatter echoes its own pattern
func TestIntervalFormatterQvdFormatString(t *testing.T) {
	f := NewIntervalFormatter("D hh:mm:ss")
	require.Equal(t, "D hh:mm:ss", f.QvdFormatString())
}

// TestIntervalFormatterSubSecondTokens verifies every f-token renders the same
// millisecond count zero-padded to its own width, never truncated to its
// leftmost digits.
func TestIntervalFormatterSubSecondTokens(t *testing.T) {
	// 500 milliseconds.
	v := qvd.IntervalValue{Calc: 0.5 / 86400.0}

	got := NewIntervalFormatter("ffffff").Format(v)
	require.Equal(t, "000500", got)

	got = NewIntervalFormatter("f").Format(v)
	require.Equal(t, "500", got)
}
