package index

import (
	"fmt"

	"github.com/qvd-go/qvd/errs"
	"github.com/qvd-go/qvd/internal/bits"
	"github.com/qvd-go/qvd/section"
)

// DecodeRecords splits data into recordByteSize-sized records (a trailing
// partial record, as tolerated for the Length+1 byte quirk described in
// DESIGN.md, is silently dropped) and decodes each one into a slice of raw,
// bias-adjusted symbol indices, one per field in fields' order. A negative
// index means the cell is null.
func DecodeRecords(data []byte, recordByteSize int, fields []section.Field) ([][]int32, error) {
	if recordByteSize <= 0 {
		if len(data) == 0 {
			return nil, nil
		}

		return nil, fmt.Errorf("%w: record byte size %d with %d bytes of index data", errs.ErrRecordByteSizeMismatch, recordByteSize, len(data))
	}

	numRecords := len(data) / recordByteSize
	records := make([][]int32, numRecords)

	for r := 0; r < numRecords; r++ {
		chunk := data[r*recordByteSize : (r+1)*recordByteSize]
		mask := bits.DecodeMask(chunk)

		row := make([]int32, len(fields))

		for i, f := range fields {
			var raw uint32
			if f.BitWidth > 0 {
				if f.BitOffset < 0 || f.BitOffset+f.BitWidth > len(mask) {
					return nil, fmt.Errorf("%w: field %q width %d at offset %d exceeds record's %d bits",
						errs.ErrBitWidthOverflow, f.FieldName, f.BitWidth, f.BitOffset, len(mask))
				}

				raw = bits.ExtractUint(mask, f.BitOffset, f.BitWidth)
			}

			row[i] = int32(raw) + int32(f.Bias)
		}

		records[r] = row
	}

	return records, nil
}
