package qvd

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/qvd-go/qvd/errs"
)

// epoch is the QVD date/time anchor: day 0 is 1899-12-30.
var epoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Value is a single cell of a Table. Every QVD symbol type implements it. A
// nil Value (not a typed zero value) represents a null/missing cell.
//
// Equality between two non-nil Values is defined as identical canonical
// byte encodings (Equal); ordering is defined over the calculation
// projection only (Compare) and is undefined between incompatible variants.
type Value interface {
	fmt.Stringer

	// DisplayValue returns the value as presented to a user: the formatted
	// string for dual/specialized variants, the raw scalar for plain
	// Integer/Double/String.
	DisplayValue() any

	// CalculationValue returns the value used for arithmetic, comparison,
	// and hashing: always an int32, a float64, or a string.
	CalculationValue() any

	// Bytes returns the canonical on-disk symbol-table encoding (tag byte
	// followed by the type's payload), as described for C4.
	Bytes() []byte
}

// Equal reports whether a and b encode to identical canonical bytes. Nil
// values (nulls) are equal only to each other.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return bytes.Equal(a.Bytes(), b.Bytes())
}

// Compare orders a and b by their calculation projection. It returns an
// error if either value is nil or if the two calculation projections are
// not of the same Go type (int32, float64, or string), since QVD does not
// define an ordering across variants.
func Compare(a, b Value) (int, error) {
	if a == nil || b == nil {
		return 0, fmt.Errorf("%w: cannot compare a null value", errs.ErrIncompatibleCalculationTypes)
	}

	switch av := a.CalculationValue().(type) {
	case int32:
		bv, ok := b.CalculationValue().(int32)
		if !ok {
			return 0, fmt.Errorf("%w: int32 vs %T", errs.ErrIncompatibleCalculationTypes, b.CalculationValue())
		}

		switch {
		case av < bv:
			return -1, nil
		case av > bv:
			return 1, nil
		default:
			return 0, nil
		}
	case float64:
		bv, ok := b.CalculationValue().(float64)
		if !ok {
			return 0, fmt.Errorf("%w: float64 vs %T", errs.ErrIncompatibleCalculationTypes, b.CalculationValue())
		}

		switch {
		case av < bv:
			return -1, nil
		case av > bv:
			return 1, nil
		default:
			return 0, nil
		}
	case string:
		bv, ok := b.CalculationValue().(string)
		if !ok {
			return 0, fmt.Errorf("%w: string vs %T", errs.ErrIncompatibleCalculationTypes, b.CalculationValue())
		}

		switch {
		case av < bv:
			return -1, nil
		case av > bv:
			return 1, nil
		default:
			return 0, nil
		}
	default:
		return 0, fmt.Errorf("%w: unsupported calculation type %T", errs.ErrIncompatibleCalculationTypes, av)
	}
}

// Symbol tag bytes, as they appear on the wire immediately before a
// symbol's payload.
const (
	tagInteger = 0x01
	tagDouble  = 0x02
	tagString  = 0x04
	tagDual4   = 0x05
	tagDual8   = 0x06
)

func appendNulString(buf []byte, s string) []byte {
	buf = append(buf, s...)
	return append(buf, 0)
}

// IntegerValue is a plain signed 32-bit integer symbol (tag 0x01).
type IntegerValue int32

func (v IntegerValue) DisplayValue() any     { return int32(v) }
func (v IntegerValue) CalculationValue() any { return int32(v) }
func (v IntegerValue) String() string        { return fmt.Sprintf("%d", int32(v)) }

func (v IntegerValue) Bytes() []byte {
	buf := make([]byte, 0, 5)
	buf = append(buf, tagInteger)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(v)))

	return buf
}

// DoubleValue is a plain 64-bit float symbol (tag 0x02).
type DoubleValue float64

func (v DoubleValue) DisplayValue() any     { return float64(v) }
func (v DoubleValue) CalculationValue() any { return float64(v) }
func (v DoubleValue) String() string        { return fmt.Sprintf("%v", float64(v)) }

func (v DoubleValue) Bytes() []byte {
	buf := make([]byte, 0, 9)
	buf = append(buf, tagDouble)
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(float64(v)))

	return buf
}

// StringValue is a plain UTF-8, NUL-terminated string symbol (tag 0x04).
type StringValue string

func (v StringValue) DisplayValue() any     { return string(v) }
func (v StringValue) CalculationValue() any { return string(v) }
func (v StringValue) String() string        { return string(v) }

func (v StringValue) Bytes() []byte {
	buf := make([]byte, 0, len(v)+2)
	buf = append(buf, tagString)
	buf = appendNulString(buf, string(v))

	return buf
}

// DualIntegerValue carries an integer calculation projection alongside an
// independent display string (tag 0x05).
type DualIntegerValue struct {
	Calc    int32
	Display string
}

func (v DualIntegerValue) DisplayValue() any     { return v.Display }
func (v DualIntegerValue) CalculationValue() any { return v.Calc }
func (v DualIntegerValue) String() string        { return v.Display }

func (v DualIntegerValue) Bytes() []byte {
	buf := make([]byte, 0, len(v.Display)+6)
	buf = append(buf, tagDual4)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(v.Calc))
	buf = appendNulString(buf, v.Display)

	return buf
}

// DualDoubleValue carries a float calculation projection alongside an
// independent display string (tag 0x06).
type DualDoubleValue struct {
	Calc    float64
	Display string
}

func (v DualDoubleValue) DisplayValue() any     { return v.Display }
func (v DualDoubleValue) CalculationValue() any { return v.Calc }
func (v DualDoubleValue) String() string        { return v.Display }

func (v DualDoubleValue) Bytes() []byte {
	buf := make([]byte, 0, len(v.Display)+10)
	buf = append(buf, tagDual8)
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v.Calc))
	buf = appendNulString(buf, v.Display)

	return buf
}

// DateValue is a dual-integer symbol (tag 0x05) whose column carries the
// DATE number format: Calc counts whole days since the 1899-12-30 epoch.
type DateValue struct {
	Calc    int32
	Display string
}

func (v DateValue) DisplayValue() any     { return v.Display }
func (v DateValue) CalculationValue() any { return v.Calc }
func (v DateValue) String() string        { return v.Display }

func (v DateValue) Bytes() []byte {
	return DualIntegerValue(v).Bytes()
}

// Time reconstructs the calendar date represented by v.
func (v DateValue) Time() time.Time {
	return epoch.AddDate(0, 0, int(v.Calc))
}

// TimeValue is a dual-double symbol (tag 0x06) whose column carries the
// TIME number format: Calc is the fraction of a 24-hour day, in [0, 1).
type TimeValue struct {
	Calc    float64
	Display string
}

func (v TimeValue) DisplayValue() any     { return v.Display }
func (v TimeValue) CalculationValue() any { return v.Calc }
func (v TimeValue) String() string        { return v.Display }

func (v TimeValue) Bytes() []byte {
	return DualDoubleValue(v).Bytes()
}

// Duration reconstructs the time-of-day represented by v.
func (v TimeValue) Duration() time.Duration {
	return time.Duration(v.Calc * float64(24*time.Hour))
}

// TimestampValue is a dual-double symbol (tag 0x06) whose column carries
// the TIMESTAMP number format: Calc is whole and fractional days since the
// 1899-12-30 epoch.
type TimestampValue struct {
	Calc    float64
	Display string
}

func (v TimestampValue) DisplayValue() any     { return v.Display }
func (v TimestampValue) CalculationValue() any { return v.Calc }
func (v TimestampValue) String() string        { return v.Display }

func (v TimestampValue) Bytes() []byte {
	return DualDoubleValue(v).Bytes()
}

// Time reconstructs the instant represented by v.
func (v TimestampValue) Time() time.Time {
	days := math.Floor(v.Calc)
	frac := v.Calc - days

	return epoch.AddDate(0, 0, int(days)).Add(time.Duration(frac * float64(24*time.Hour)))
}

// IntervalValue is a dual-double symbol (tag 0x06) whose column carries the
// INTERVAL number format: Calc is a signed duration measured in days.
type IntervalValue struct {
	Calc    float64
	Display string
}

func (v IntervalValue) DisplayValue() any     { return v.Display }
func (v IntervalValue) CalculationValue() any { return v.Calc }
func (v IntervalValue) String() string        { return v.Display }

func (v IntervalValue) Bytes() []byte {
	return DualDoubleValue(v).Bytes()
}

// Duration reconstructs the elapsed time represented by v.
func (v IntervalValue) Duration() time.Duration {
	return time.Duration(v.Calc * float64(24*time.Hour))
}

// MoneyValue is a dual-double symbol (tag 0x06; see Open Questions in
// DESIGN.md for the 0x05 integer-cents variant) whose column carries the
// MONEY number format: Calc is the amount as a decimal float64.
type MoneyValue struct {
	Calc    float64
	Display string
}

func (v MoneyValue) DisplayValue() any     { return v.Display }
func (v MoneyValue) CalculationValue() any { return v.Calc }
func (v MoneyValue) String() string        { return v.Display }

func (v MoneyValue) Bytes() []byte {
	return DualDoubleValue(v).Bytes()
}
