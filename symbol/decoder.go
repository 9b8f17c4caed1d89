package symbol

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/qvd-go/qvd"
	"github.com/qvd-go/qvd/errs"
	"github.com/qvd-go/qvd/section"
)

// Decode parses one field's symbol region (data[field.Offset : field.Offset
// + field.Length]) into its ordered list of distinct values. The field's
// NumberFormat.Type selects how 0x05/0x06-tagged symbols are specialized
// into Date/Time/Timestamp/Interval/Money values; everything else decodes
// as a generic DualInteger/DualDouble.
func Decode(data []byte, field *section.Field) ([]qvd.Value, error) {
	start := field.Offset
	end := field.Offset + field.Length

	if end > int64(len(data)) {
		return nil, fmt.Errorf("%w: field %q symbol region [%d:%d) exceeds buffer of size %d",
			errs.ErrFileTruncated, field.FieldName, start, end, len(data))
	}

	region := data[start:end]

	var symbols []qvd.Value

	pos := 0
	for pos < len(region) {
		tag := region[pos]
		pos++

		switch tag {
		case 0x01:
			if pos+4 > len(region) {
				return nil, fmt.Errorf("%w: field %q truncated Integer symbol", errs.ErrFileTruncated, field.FieldName)
			}

			v := int32(binary.LittleEndian.Uint32(region[pos : pos+4]))
			pos += 4
			symbols = append(symbols, qvd.IntegerValue(v))
		case 0x02:
			if pos+8 > len(region) {
				return nil, fmt.Errorf("%w: field %q truncated Double symbol", errs.ErrFileTruncated, field.FieldName)
			}

			v := math.Float64frombits(binary.LittleEndian.Uint64(region[pos : pos+8]))
			pos += 8
			symbols = append(symbols, qvd.DoubleValue(v))
		case 0x04:
			s, next, err := readNulString(region, pos, field.FieldName)
			if err != nil {
				return nil, err
			}

			pos = next
			symbols = append(symbols, qvd.StringValue(s))
		case 0x05:
			if pos+4 > len(region) {
				return nil, fmt.Errorf("%w: field %q truncated DualInteger symbol", errs.ErrFileTruncated, field.FieldName)
			}

			iv := int32(binary.LittleEndian.Uint32(region[pos : pos+4]))
			pos += 4

			s, next, err := readNulString(region, pos, field.FieldName)
			if err != nil {
				return nil, err
			}

			pos = next

			if field.NumberFormat.Type == section.TypeDate {
				symbols = append(symbols, qvd.DateValue{Calc: iv, Display: s})
			} else {
				symbols = append(symbols, qvd.DualIntegerValue{Calc: iv, Display: s})
			}
		case 0x06:
			if pos+8 > len(region) {
				return nil, fmt.Errorf("%w: field %q truncated DualDouble symbol", errs.ErrFileTruncated, field.FieldName)
			}

			dv := math.Float64frombits(binary.LittleEndian.Uint64(region[pos : pos+8]))
			pos += 8

			s, next, err := readNulString(region, pos, field.FieldName)
			if err != nil {
				return nil, err
			}

			pos = next

			switch field.NumberFormat.Type {
			case section.TypeTimestamp:
				symbols = append(symbols, qvd.TimestampValue{Calc: dv, Display: s})
			case section.TypeTime:
				symbols = append(symbols, qvd.TimeValue{Calc: dv, Display: s})
			case section.TypeInterval:
				symbols = append(symbols, qvd.IntervalValue{Calc: dv, Display: s})
			case section.TypeMoney:
				symbols = append(symbols, qvd.MoneyValue{Calc: dv, Display: s})
			default:
				symbols = append(symbols, qvd.DualDoubleValue{Calc: dv, Display: s})
			}
		default:
			return nil, fmt.Errorf("%w: field %q tag 0x%02x", errs.ErrUnknownSymbolTag, field.FieldName, tag)
		}
	}

	return symbols, nil
}

func readNulString(region []byte, pos int, fieldName string) (string, int, error) {
	start := pos
	for pos < len(region) && region[pos] != 0 {
		pos++
	}

	if pos >= len(region) {
		return "", 0, fmt.Errorf("%w: field %q", errs.ErrSymbolStringUnterminated, fieldName)
	}

	raw := region[start:pos]
	if !utf8.Valid(raw) {
		return "", 0, fmt.Errorf("%w: field %q", errs.ErrInvalidEncoding, fieldName)
	}

	return string(raw), pos + 1, nil
}
