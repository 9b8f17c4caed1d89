package io

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/qvd-go/qvd"
	"github.com/qvd-go/qvd/section"
)

func sampleWriteTable(t *testing.T) *qvd.Table {
	t.Helper()

	tbl, err := qvd.NewTable(
		[]string{"ID", "Name", "Joined"},
		[][]qvd.Value{
			{qvd.IntegerValue(1), qvd.StringValue("Alice"), qvd.DateValue{Calc: 44197}},
			{qvd.IntegerValue(2), qvd.StringValue("Bob"), qvd.DateValue{Calc: 44228}},
			{qvd.IntegerValue(3), nil, qvd.DateValue{Calc: 44256}},
		},
	)
	require.NoError(t, err)

	return tbl
}

// TestWriterWriteProducesParseableHeader verifies the written byte stream starts with a
// valid XML header terminated by the on-disk delimiter.
func TestWriterWriteProducesParseableHeader(t *testing.T) {
	data, err := NewWriter(WithTableName("People")).Write(sampleWriteTable(t))
	require.NoError(t, err)

	idx := bytes.Index(data, section.HeaderDelimiter)
	require.Greater(t, idx, 0)

	header, err := section.Parse(data[:idx])
	require.NoError(t, err)
	require.Equal(t, "People", header.TableName)
	require.Equal(t, 3, header.NoOfRecords)
	require.Equal(t, 3, header.NoOfFields())
}

// TestWriterRegeneratesDateDisplay verifies a caller-supplied Display string is overwritten
// by the configured DateFormatter rather than passed through verbatim.
func TestWriterRegeneratesDateDisplay(t *testing.T) {
	tbl, err := qvd.NewTable(
		[]string{"D"},
		[][]qvd.Value{{qvd.DateValue{Calc: 44197, Display: "stale-value"}}},
	)
	require.NoError(t, err)

	w := NewWriter()

	data, err := w.Write(tbl)
	require.NoError(t, err)

	table, err := NewReader().Read(data)
	require.NoError(t, err)

	v, err := table.At(0, "D")
	require.NoError(t, err)
	require.Equal(t, "2021-01-01", v.DisplayValue())
}

// TestWriterHomogeneousIntegerColumnTagsNumericInteger verifies an all-Integer column is
// tagged $numeric/$integer with its NumberFormat.Type left UNKNOWN.
func TestWriterHomogeneousIntegerColumnTagsNumericInteger(t *testing.T) {
	tbl, err := qvd.NewTable([]string{"N"}, [][]qvd.Value{{qvd.IntegerValue(1)}, {qvd.IntegerValue(2)}})
	require.NoError(t, err)

	data, err := NewWriter().Write(tbl)
	require.NoError(t, err)

	idx := bytes.Index(data, section.HeaderDelimiter)
	header, err := section.Parse(data[:idx])
	require.NoError(t, err)

	field, err := header.FieldByName("N")
	require.NoError(t, err)
	require.Equal(t, section.TypeUnknown, field.NumberFormat.Type)
	require.Equal(t, []string{section.TagNumeric, section.TagInteger}, field.Tags)
}

// TestWriterHomogeneousDateColumnStampsDateType verifies an all-Date column is tagged and
// typed as DATE with the configured date Fmt pattern.
func TestWriterHomogeneousDateColumnStampsDateType(t *testing.T) {
	tbl, err := qvd.NewTable([]string{"D"}, [][]qvd.Value{{qvd.DateValue{Calc: 1}}, {qvd.DateValue{Calc: 2}}})
	require.NoError(t, err)

	data, err := NewWriter().Write(tbl)
	require.NoError(t, err)

	idx := bytes.Index(data, section.HeaderDelimiter)
	header, err := section.Parse(data[:idx])
	require.NoError(t, err)

	field, err := header.FieldByName("D")
	require.NoError(t, err)
	require.Equal(t, section.TypeDate, field.NumberFormat.Type)
	require.Equal(t, "YYYY-MM-DD", field.NumberFormat.Fmt)
	require.Contains(t, field.Tags, section.TagDate)
}

// TestWriterHomogeneousStringColumnTagsTextAscii verifies an all-ASCII string column is
// tagged both $text and $ascii.
func TestWriterHomogeneousStringColumnTagsTextAscii(t *testing.T) {
	tbl, err := qvd.NewTable([]string{"S"}, [][]qvd.Value{{qvd.StringValue("a")}, {qvd.StringValue("b")}})
	require.NoError(t, err)

	data, err := NewWriter().Write(tbl)
	require.NoError(t, err)

	idx := bytes.Index(data, section.HeaderDelimiter)
	header, err := section.Parse(data[:idx])
	require.NoError(t, err)

	field, err := header.FieldByName("S")
	require.NoError(t, err)
	require.Equal(t, []string{section.TagText, section.TagAscii}, field.Tags)
}

// TestWriterMixedColumnNoTags verifies a column mixing incompatible variants (e.g. Integer and
// String) receives no tags and stays NumberFormat.Type UNKNOWN.
func TestWriterMixedColumnNoTags(t *testing.T) {
	tbl, err := qvd.NewTable([]string{"Mixed"}, [][]qvd.Value{{qvd.IntegerValue(1)}, {qvd.StringValue("x")}})
	require.NoError(t, err)

	data, err := NewWriter().Write(tbl)
	require.NoError(t, err)

	idx := bytes.Index(data, section.HeaderDelimiter)
	header, err := section.Parse(data[:idx])
	require.NoError(t, err)

	field, err := header.FieldByName("Mixed")
	require.NoError(t, err)
	require.Empty(t, field.Tags)
	require.Equal(t, section.TypeUnknown, field.NumberFormat.Type)
}

// TestWriterCreatorDocOverride verifies WithCreatorDoc replaces the generated identifier
func TestWriterCreatorDocOverride(t *testing.T) {
	tbl, err := qvd.NewTable([]string{"N"}, [][]qvd.Value{{qvd.IntegerValue(1)}})
	require.NoError(t, err)

	data, err := NewWriter(WithCreatorDoc("fixed-id")).Write(tbl)
	require.NoError(t, err)

	idx := bytes.Index(data, section.HeaderDelimiter)
	header, err := section.Parse(data[:idx])
	require.NoError(t, err)
	require.Equal(t, "fixed-id", header.CreatorDoc)
}

// TestWriterNullCellRoundTrips verifies a null cell survives write-then-read as nil
func TestWriterNullCellRoundTrips(t *testing.T) {
	data, err := NewWriter().Write(sampleWriteTable(t))
	require.NoError(t, err)

	table, err := NewReader().Read(data)
	require.NoError(t, err)

	v, err := table.At(2, "Name")
	require.NoError(t, err)
	require.Nil(t, v)
}

// TestWriterFieldLayoutIsDeterministic verifies two independent writes of the same table
// produce identical field schemas (bit layout, symbol counts, tags): only the header's
// own CreatorDoc/CreateUtcTime vary between writes, never a field's derived schema.
func TestWriterFieldLayoutIsDeterministic(t *testing.T) {
	tbl := sampleWriteTable(t)

	first, err := NewWriter(WithTableName("People")).Write(tbl)
	require.NoError(t, err)

	second, err := NewWriter(WithTableName("People")).Write(tbl)
	require.NoError(t, err)

	idx1 := bytes.Index(first, section.HeaderDelimiter)
	idx2 := bytes.Index(second, section.HeaderDelimiter)

	h1, err := section.Parse(first[:idx1])
	require.NoError(t, err)

	h2, err := section.Parse(second[:idx2])
	require.NoError(t, err)

	if diff := cmp.Diff(h1.Fields, h2.Fields); diff != "" {
		t.Errorf("field schema differs between identical writes (-first +second):\n%s", diff)
	}
}

// TestWriteToWritesToDestination verifies WriteTo mirrors Write's output into an io.Writer
func TestWriteToWritesToDestination(t *testing.T) {
	tbl := sampleWriteTable(t)

	want, err := NewWriter().Write(tbl)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewWriter().WriteTo(&buf, tbl))

	// CreateUtcTime and CreatorDoc both vary per Writer instance, so compare
	// lengths only.
	require.Equal(t, len(want), buf.Len())
}
