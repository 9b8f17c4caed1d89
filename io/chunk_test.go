package io

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qvd-go/qvd"
	"github.com/qvd-go/qvd/errs"
)

func manyRowsQvd(t *testing.T, numRows int) []byte {
	t.Helper()

	rows := make([][]qvd.Value, numRows)
	for i := range rows {
		rows[i] = []qvd.Value{qvd.IntegerValue(int32(i)), qvd.StringValue("row")}
	}

	tbl, err := qvd.NewTable([]string{"N", "Label"}, rows)
	require.NoError(t, err)

	data, err := NewWriter(WithTableName("Many")).Write(tbl)
	require.NoError(t, err)

	return data
}

// TestOpenChunkedMatchesWholeFileRead verifies chunked reading across several chunks recovers
// the same rows, in the same order, as a single whole-file read.
func TestOpenChunkedMatchesWholeFileRead(t *testing.T) {
	data := manyRowsQvd(t, 23)

	whole, err := NewReader().Read(data)
	require.NoError(t, err)

	it, err := OpenChunked(bytes.NewReader(data), 5)
	require.NoError(t, err)

	require.Equal(t, 5, it.Len()) // ceil(23/5)

	var rowsSeen int

	for {
		chunk, ok, err := it.Next()
		require.NoError(t, err)

		if !ok {
			break
		}

		chunkRows, _ := chunk.Shape()

		for i := 0; i < chunkRows; i++ {
			wantRow, err := whole.Row(rowsSeen)
			require.NoError(t, err)

			gotRow, err := chunk.Row(i)
			require.NoError(t, err)

			require.Equal(t, wantRow[0].CalculationValue(), gotRow[0].CalculationValue())
			require.Equal(t, wantRow[1].CalculationValue(), gotRow[1].CalculationValue())

			rowsSeen++
		}
	}

	require.Equal(t, 23, rowsSeen)
}

// TestChunkRandomAccess verifies Chunk(i) fetches an arbitrary chunk without disturbing Next's cursor
func TestChunkRandomAccess(t *testing.T) {
	data := manyRowsQvd(t, 12)

	it, err := OpenChunked(bytes.NewReader(data), 4)
	require.NoError(t, err)
	defer it.Close()

	last, err := it.Chunk(2)
	require.NoError(t, err)

	row, err := last.Row(0)
	require.NoError(t, err)
	require.Equal(t, int32(8), row[0].CalculationValue())

	_, err = it.Chunk(99)
	require.ErrorIs(t, err, errs.ErrChunkOutOfRange)
}

// TestOpenChunkedRejectsInvalidChunkSize verifies a non-positive chunk size is rejected
func TestOpenChunkedRejectsInvalidChunkSize(t *testing.T) {
	data := manyRowsQvd(t, 1)

	_, err := OpenChunked(bytes.NewReader(data), 0)
	require.ErrorIs(t, err, errs.ErrChunkSizeInvalid)
}

// TestChunkIteratorClosesOnExhaustion verifies the iterator closes its source automatically
// once every chunk has been consumed, so a later Next call is a harmless no-op.
func TestChunkIteratorClosesOnExhaustion(t *testing.T) {
	data := manyRowsQvd(t, 3)

	it, err := OpenChunked(bytes.NewReader(data), 10)
	require.NoError(t, err)

	_, ok, err := it.Next()
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = it.Next()
	require.NoError(t, err)
	require.False(t, ok)
}
