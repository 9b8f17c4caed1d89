package symbol

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qvd-go/qvd"
)

// TestDedupFirstSeenOrder verifies distinct values are assigned indices in first-seen order
func TestDedupFirstSeenOrder(t *testing.T) {
	cells := []qvd.Value{
		qvd.StringValue("b"),
		qvd.StringValue("a"),
		qvd.StringValue("b"),
		qvd.StringValue("c"),
	}

	table := Dedup(cells)

	require.Equal(t, []qvd.Value{qvd.StringValue("b"), qvd.StringValue("a"), qvd.StringValue("c")}, table.Symbols)
	require.Equal(t, []int{0, 1, 0, 2}, table.RawIndices)
	require.False(t, table.HasNull)
}

// TestDedupNullCells verifies null cells get a -1 raw index and set HasNull
func TestDedupNullCells(t *testing.T) {
	cells := []qvd.Value{qvd.IntegerValue(1), nil, qvd.IntegerValue(1), nil}

	table := Dedup(cells)

	require.Equal(t, []qvd.Value{qvd.IntegerValue(1)}, table.Symbols)
	require.Equal(t, []int{0, -1, 0, -1}, table.RawIndices)
	require.True(t, table.HasNull)
}

// TestDedupAllNull verifies an all-null column has no symbols
func TestDedupAllNull(t *testing.T) {
	table := Dedup([]qvd.Value{nil, nil})

	require.Empty(t, table.Symbols)
	require.Equal(t, []int{-1, -1}, table.RawIndices)
	require.True(t, table.HasNull)
}

// TestEncodeConcatenatesSymbolBytes verifies Encode joins each symbol's canonical encoding in order
func TestEncodeConcatenatesSymbolBytes(t *testing.T) {
	symbols := []qvd.Value{qvd.IntegerValue(1), qvd.StringValue("x")}

	encoded := Encode(symbols)

	var want []byte
	want = append(want, symbols[0].Bytes()...)
	want = append(want, symbols[1].Bytes()...)

	require.Equal(t, want, encoded)
}

// TestEncodeEmpty verifies encoding an empty symbol list yields no bytes
func TestEncodeEmpty(t *testing.T) {
	require.Empty(t, Encode(nil))
}
