package valuefmt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qvd-go/qvd"
)

// TestDateFormatterFormat verifies token substitution against a DateValue
func TestDateFormatterFormat(t *testing.T) {
	f := NewDateFormatter("YYYY-MM-DD")

	got := f.Format(qvd.DateValue{Calc: 44197}) // 2021-01-01
	require.Equal(t, "2021-01-01", got)
	require.Equal(t, "YYYY-MM-DD", f.QvdFormatString())
}

// TestDateFormatterIgnoresOtherVariants verifies Format only handles DateValue
func TestDateFormatterIgnoresOtherVariants(t *testing.T) {
	f := NewDateFormatter("YYYY-MM-DD")
	require.Equal(t, "", f.Format(qvd.IntegerValue(1)))
}

// TestTimeFormatterFormat verifies the time-of-day token set
func TestTimeFormatterFormat(t *testing.T) {
	f := NewTimeFormatter("hh:mm:ss")

	got := f.Format(qvd.TimeValue{Calc: 0.5}) // noon
	require.Equal(t, "12:00:00", got)
}

// TestTimestampFormatterFormat verifies the combined date+time token set
func TestTimestampFormatterFormat(t *testing.T) {
	f := NewTimestampFormatter("YYYY-MM-DD hh:mm:ss")

	got := f.Format(qvd.TimestampValue{Calc: 44197.25}) // 2021-01-01 06:00:00
	require.Equal(t, "2021-01-01 06:00:00", got)
}

// TestTimestampFormatterFractionalSeconds verifies the "fff" millisecond token
func TestTimestampFormatterFractionalSeconds(t *testing.T) {
	f := NewTimestampFormatter("hh:mm:ss.fff")

	got := f.Format(qvd.TimestampValue{Calc: 44197.25})
	require.Equal(t, "06:00:00.000", got)
}
