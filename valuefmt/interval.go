package valuefmt

import (
	"fmt"
	"strings"
	"time"

	"github.com/qvd-go/qvd"
)

// IntervalFormatter renders qvd.IntervalValue with the cascading-unit
// rule: a token for a unit whose larger sibling is absent from the
// pattern absorbs that sibling's magnitude instead of wrapping. For
// example with pattern "mm:ss" (no "D" or "hh" token), the minutes token
// carries the interval's full length in minutes, not just 0-59.
type IntervalFormatter struct{ pattern string }

func NewIntervalFormatter(pattern string) IntervalFormatter {
	return IntervalFormatter{pattern: pattern}
}

func (f IntervalFormatter) QvdFormatString() string { return f.pattern }

func (f IntervalFormatter) Format(v qvd.Value) string {
	iv, ok := v.(qvd.IntervalValue)
	if !ok {
		return ""
	}

	total := iv.Duration()

	daysPresent := strings.Contains(f.pattern, "D")
	hoursPresent := strings.Contains(f.pattern, "hh")
	minutesPresent := strings.Contains(f.pattern, "mm")

	days := int64(total / (24 * time.Hour))
	rem := total - time.Duration(days)*24*time.Hour
	hours := int64(rem / time.Hour)
	rem -= time.Duration(hours) * time.Hour
	minutes := int64(rem / time.Minute)
	rem -= time.Duration(minutes) * time.Minute
	seconds := int64(rem / time.Second)
	rem -= time.Duration(seconds) * time.Second
	micros := int64(rem / time.Microsecond)

	result := f.pattern

	result = strings.ReplaceAll(result, "D", fmt.Sprintf("%d", days))

	switch {
	case !daysPresent:
		result = strings.ReplaceAll(result, "hh", fmt.Sprintf("%02d", hours+days*24))
	default:
		result = strings.ReplaceAll(result, "hh", fmt.Sprintf("%02d", hours))
	}

	switch {
	case !hoursPresent && !daysPresent:
		result = strings.ReplaceAll(result, "mm", fmt.Sprintf("%02d", minutes+(hours+days*24)*60))
	case !hoursPresent:
		result = strings.ReplaceAll(result, "mm", fmt.Sprintf("%02d", minutes+hours*60))
	default:
		result = strings.ReplaceAll(result, "mm", fmt.Sprintf("%02d", minutes))
	}

	switch {
	case !minutesPresent && !hoursPresent && !daysPresent:
		result = strings.ReplaceAll(result, "ss", fmt.Sprintf("%02d", seconds+(minutes+(hours+days*24)*60)*60))
	case !minutesPresent && !hoursPresent:
		result = strings.ReplaceAll(result, "ss", fmt.Sprintf("%02d", seconds+(minutes+hours*60)*60))
	case !minutesPresent:
		result = strings.ReplaceAll(result, "ss", fmt.Sprintf("%02d", seconds+minutes*60))
	default:
		result = strings.ReplaceAll(result, "ss", fmt.Sprintf("%02d", seconds))
	}

	millis := micros / 1000

	for _, n := range []int{6, 5, 4, 3, 2, 1} {
		token := strings.Repeat("f", n)
		if !strings.Contains(result, token) {
			continue
		}

		// Every f-token renders the same millisecond count, left-padded with
		// zeros to at least n digits (never truncated), matching the
		// reference formatter's str(milliseconds).zfill(n).
		result = strings.ReplaceAll(result, token, fmt.Sprintf("%0*d", n, millis))
	}

	return result
}
