// Package io orchestrates the section, symbol, and index packages into the
// full QVD codec: whole-file reads, chunked reads, and writes.
package io

import (
	"bytes"
	"fmt"
	stdio "io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/qvd-go/qvd"
	"github.com/qvd-go/qvd/errs"
	"github.com/qvd-go/qvd/index"
	"github.com/qvd-go/qvd/internal/options"
	"github.com/qvd-go/qvd/section"
	"github.com/qvd-go/qvd/symbol"
)

// ReaderOption configures a Reader.
type ReaderOption = options.Option[*Reader]

// WithLogger overrides the logrus.Logger a Reader reports diagnostic
// events to. The default is logrus.StandardLogger().
func WithLogger(lg *logrus.Logger) ReaderOption {
	return options.NoError[*Reader](func(r *Reader) { r.lg = lg })
}

// Reader decodes a QVD byte stream into a qvd.Table.
//
// A Reader is not safe for concurrent use and is not reusable across
// unrelated files: construct a new one per Read/OpenChunked call.
type Reader struct {
	lg *logrus.Logger
}

// NewReader builds a Reader with the given options applied.
func NewReader(opts ...ReaderOption) *Reader {
	r := &Reader{lg: logrus.StandardLogger()}
	_ = options.Apply[*Reader](r, opts...)

	return r
}

// Read parses data, a complete QVD file image, into a Table.
func (r *Reader) Read(data []byte) (*qvd.Table, error) {
	header, symbolRegion, indexRegion, err := r.parseHeader(data)
	if err != nil {
		return nil, err
	}

	symbolsByField, err := r.parseSymbols(symbolRegion, header)
	if err != nil {
		return nil, err
	}

	records, err := r.parseIndex(indexRegion, header)
	if err != nil {
		return nil, err
	}

	return r.materialize(header, symbolsByField, records)
}

// ReadAll drains src and parses the result as a QVD file.
func (r *Reader) ReadAll(src stdio.Reader) (*qvd.Table, error) {
	data, err := stdio.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("qvd: read source: %w", err)
	}

	if len(data) == 0 {
		return nil, errs.ErrEmptySource
	}

	return r.Read(data)
}

// ReadFile opens path and performs a whole-file read.
func ReadFile(path string, opts ...ReaderOption) (*qvd.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("qvd: read file: %w", err)
	}

	return NewReader(opts...).Read(data)
}

// parseHeader locates the XML header, parses it, and slices out the
// symbol and index regions that follow it. The index region is clipped to
// the file's actual length, tolerating the Length+1 trailing padding byte.
func (r *Reader) parseHeader(data []byte) (header *section.Header, symbolRegion, indexRegion []byte, err error) {
	delimIdx := bytes.Index(data, section.HeaderDelimiter)
	if delimIdx < 0 {
		return nil, nil, nil, errs.ErrHeaderDelimiterNotFound
	}

	header, err = section.Parse(data[:delimIdx])
	if err != nil {
		return nil, nil, nil, err
	}

	bodyStart := delimIdx + len(section.HeaderDelimiter)

	symbolEnd := bodyStart + int(header.Offset)
	if symbolEnd > len(data) {
		return nil, nil, nil, fmt.Errorf("%w: symbol region end %d exceeds file size %d",
			errs.ErrFileTruncated, symbolEnd, len(data))
	}

	indexEnd := symbolEnd + int(header.Length) + 1
	if indexEnd > len(data) {
		indexEnd = len(data)
	}

	r.lg.WithFields(logrus.Fields{
		"table":   header.TableName,
		"fields":  header.NoOfFields(),
		"records": header.NoOfRecords,
	}).Debug("qvd: parsed header")

	return header, data[bodyStart:symbolEnd], data[symbolEnd:indexEnd], nil
}

// parseSymbols decodes every field's symbol table out of symbolRegion.
func (r *Reader) parseSymbols(symbolRegion []byte, header *section.Header) ([][]qvd.Value, error) {
	symbolsByField := make([][]qvd.Value, len(header.Fields))

	for i := range header.Fields {
		field := &header.Fields[i]

		symbols, err := symbol.Decode(symbolRegion, field)
		if err != nil {
			return nil, err
		}

		symbolsByField[i] = symbols
	}

	return symbolsByField, nil
}

// parseIndex decodes every record's bias-adjusted symbol indices. The
// index region itself tolerates one trailing padding byte (see DESIGN.md),
// so records beyond the header's NoOfRecords are discarded, but decoding
// fewer whole records than the header declares means the region was
// genuinely cut short, which is fatal.
func (r *Reader) parseIndex(indexRegion []byte, header *section.Header) ([][]int32, error) {
	if header.RecordByteSize == 0 {
		return constantRecords(header.NoOfRecords, header.Fields), nil
	}

	records, err := index.DecodeRecords(indexRegion, header.RecordByteSize, header.Fields)
	if err != nil {
		return nil, err
	}

	if len(records) > header.NoOfRecords {
		records = records[:header.NoOfRecords]
	}

	if len(records) < header.NoOfRecords {
		return nil, fmt.Errorf("%w: index region holds %d records, header declares %d",
			errs.ErrFileTruncated, len(records), header.NoOfRecords)
	}

	r.lg.WithField("records", len(records)).Debug("qvd: decoded index table")

	return records, nil
}

// constantRecords builds n records for a header whose fields all have
// BitWidth 0 (RecordByteSize 0): every cell decodes to its field's Bias.
func constantRecords(n int, fields []section.Field) [][]int32 {
	records := make([][]int32, n)
	for i := range records {
		row := make([]int32, len(fields))
		for j, f := range fields {
			row[j] = int32(f.Bias)
		}

		records[i] = row
	}

	return records
}

// materialize joins decoded symbols and index records into a Table.
func (r *Reader) materialize(header *section.Header, symbolsByField [][]qvd.Value, records [][]int32) (*qvd.Table, error) {
	columns := make([]string, len(header.Fields))
	for i, f := range header.Fields {
		columns[i] = f.FieldName
	}

	rows := make([][]qvd.Value, len(records))

	for rowIdx, record := range records {
		row := make([]qvd.Value, len(record))

		for col, symbolIndex := range record {
			if symbolIndex < 0 {
				continue
			}

			symbols := symbolsByField[col]
			if int(symbolIndex) >= len(symbols) {
				return nil, fmt.Errorf("%w: field %q row %d symbol index %d (have %d symbols)",
					errs.ErrColumnIndexOutOfRange, header.Fields[col].FieldName, rowIdx, symbolIndex, len(symbols))
			}

			row[col] = symbols[symbolIndex]
		}

		rows[rowIdx] = row
	}

	return qvd.NewTable(columns, rows)
}
