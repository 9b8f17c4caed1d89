package symbol

import "github.com/qvd-go/qvd"

// Table is the result of deduplicating one column's cell values into its
// symbol table: Symbols holds each distinct non-null value in first-seen
// order, RawIndices holds, for every input cell, the index into Symbols (or
// -1 for a null cell). HasNull is true iff any cell was null.
//
// RawIndices are not yet bias-adjusted; that shift is applied by the index
// package, which is the only component that needs to know about bit widths
// and bias.
type Table struct {
	Symbols    []qvd.Value
	RawIndices []int
	HasNull    bool
}

// Dedup builds a column's symbol Table from its cell values, in the same
// first-seen-order, content-addressed way a QVD writer assigns symbol
// indices.
func Dedup(cells []qvd.Value) Table {
	t := Table{RawIndices: make([]int, len(cells))}

	seen := make(map[qvd.Value]int, len(cells))

	for i, cell := range cells {
		if cell == nil {
			t.HasNull = true
			t.RawIndices[i] = -1

			continue
		}

		idx, ok := seen[cell]
		if !ok {
			idx = len(t.Symbols)
			seen[cell] = idx
			t.Symbols = append(t.Symbols, cell)
		}

		t.RawIndices[i] = idx
	}

	return t
}

// Encode concatenates each symbol's canonical byte encoding, in order, to
// produce a field's on-disk symbol region.
func Encode(symbols []qvd.Value) []byte {
	var buf []byte
	for _, v := range symbols {
		buf = append(buf, v.Bytes()...)
	}

	return buf
}
