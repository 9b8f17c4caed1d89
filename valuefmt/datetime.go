package valuefmt

import (
	"time"

	"github.com/qvd-go/qvd"
)

// epoch is the QVD date/time anchor: day 0 is 1899-12-30. TimeValue's
// calculation projection is a bare fraction of a day with no calendar
// date of its own, so this anchor gives it one to run the shared
// token-substitution formatter against.
var epoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Formatter renders a value's display string from its QVD NumberFormat
// pattern (the Fmt element).
type Formatter interface {
	// Format renders v's display string.
	Format(v qvd.Value) string
	// QvdFormatString returns the pattern this formatter was built with,
	// for round-tripping into a field's NumberFormat.Fmt.
	QvdFormatString() string
}

// DateFormatter renders qvd.DateValue using tokens YYYY/YY/MMMM/MMM/MM/DD.
type DateFormatter struct{ pattern string }

func NewDateFormatter(pattern string) DateFormatter { return DateFormatter{pattern: pattern} }

func (f DateFormatter) Format(v qvd.Value) string {
	dv, ok := v.(qvd.DateValue)
	if !ok {
		return ""
	}

	return substituteDatetime(f.pattern, dv.Time())
}

func (f DateFormatter) QvdFormatString() string { return f.pattern }

// TimeFormatter renders qvd.TimeValue using tokens hh/HH/mm/ss/f../tt.
type TimeFormatter struct{ pattern string }

func NewTimeFormatter(pattern string) TimeFormatter { return TimeFormatter{pattern: pattern} }

func (f TimeFormatter) Format(v qvd.Value) string {
	tv, ok := v.(qvd.TimeValue)
	if !ok {
		return ""
	}

	return substituteDatetime(f.pattern, epoch.Add(tv.Duration()))
}

func (f TimeFormatter) QvdFormatString() string { return f.pattern }

// TimestampFormatter renders qvd.TimestampValue with the full datetime
// token set.
type TimestampFormatter struct{ pattern string }

func NewTimestampFormatter(pattern string) TimestampFormatter {
	return TimestampFormatter{pattern: pattern}
}

func (f TimestampFormatter) Format(v qvd.Value) string {
	ts, ok := v.(qvd.TimestampValue)
	if !ok {
		return ""
	}

	return substituteDatetime(f.pattern, ts.Time())
}

func (f TimestampFormatter) QvdFormatString() string { return f.pattern }
