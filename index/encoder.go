package index

import "github.com/qvd-go/qvd/internal/bits"

// Layout is the derived bit-packing metadata for one column: where its
// symbol index sits within an index record, how wide it is, and the bias
// applied to make room for a null sentinel.
type Layout struct {
	BitOffset int
	BitWidth  int
	Bias      int
}

// BuildLayout computes each column's Layout from its raw (unbiased, -1 for
// null) per-row symbol indices: bit width is the narrowest width that fits
// every row's biased index, bit offset is the running sum of prior
// columns' widths, and bias is -2 when the column contains a null, else 0.
func BuildLayout(rawIndicesByColumn [][]int, hasNullByColumn []bool) []Layout {
	layouts := make([]Layout, len(rawIndicesByColumn))

	offset := 0

	for col, raw := range rawIndicesByColumn {
		bias := 0
		if hasNullByColumn[col] {
			bias = -2
		}

		width := 0
		for _, r := range raw {
			symbolIndex := r - bias
			if r < 0 {
				symbolIndex = 0 // null cell: raw == -1, biased symbolIndex == 0
			}

			if w := len(bits.ToBinaryMSBFirst(uint32(symbolIndex))); symbolIndex > 0 && w > width {
				width = w
			}
		}

		layouts[col] = Layout{BitOffset: offset, BitWidth: width, Bias: bias}
		offset += width
	}

	return layouts
}

// RecordByteSize is the number of bytes needed to hold every column's bit
// range.
func RecordByteSize(layouts []Layout) int {
	total := 0
	for _, l := range layouts {
		total += l.BitWidth
	}

	return (total + 7) / 8
}

// EncodeRecords packs, for each row, every column's biased symbol index
// into one on-disk record per BuildLayout's bit layout.
func EncodeRecords(rawIndicesByColumn [][]int, layouts []Layout) []byte {
	if len(rawIndicesByColumn) == 0 {
		return nil
	}

	numRows := len(rawIndicesByColumn[0])
	recordByteSize := RecordByteSize(layouts)

	out := make([]byte, 0, numRows*recordByteSize)
	fieldBits := make([][]byte, len(layouts))

	for row := 0; row < numRows; row++ {
		for col, l := range layouts {
			symbolIndex := rawIndicesByColumn[col][row] - l.Bias
			if rawIndicesByColumn[col][row] < 0 {
				symbolIndex = 0
			}

			if l.BitWidth == 0 {
				fieldBits[col] = nil // a zero-width field occupies no bits
				continue
			}

			fieldBits[col] = bits.PadLeft(bits.ToBinaryMSBFirst(uint32(symbolIndex)), l.BitWidth)
		}

		out = append(out, bits.EncodeRecord(fieldBits, recordByteSize)...)
	}

	return out
}
