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
	"github.com/qvd-go/qvd/section"
)

// ChunkIterator is the lazy cursor returned by OpenChunked: it owns a
// seekable byte source for its lifetime and exposes a finite sequence of
// record chunks, decoded on demand against a symbol table parsed once up
// front. There is no coroutine or background goroutine behind it; every
// Next call does its own seek-and-decode synchronously.
//
// Dropping the iterator without exhausting it (simply ceasing to call
// Next) does not itself release the source; call Close (or exhaust the
// iterator, which closes it automatically) to do that deterministically.
type ChunkIterator struct {
	lg *logrus.Logger

	src    stdio.ReadSeeker
	header *section.Header

	symbolsByField   [][]qvd.Value
	indexRegionStart int64
	recordByteSize   int
	chunkSize        int
	numChunks        int

	cursor int
	closed bool
}

// OpenChunked parses src's header and full symbol region (symbols are
// shared by every chunk), then returns an iterator over its index region
// in chunkSize-record chunks. src must support Seek, since each chunk is
// fetched by seeking directly to its record range rather than scanning
// forward from the start of the index region.
func OpenChunked(src stdio.ReadSeeker, chunkSize int, opts ...ReaderOption) (*ChunkIterator, error) {
	if chunkSize <= 0 {
		return nil, errs.ErrChunkSizeInvalid
	}

	r := NewReader(opts...)

	if _, err := src.Seek(0, stdio.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrNotSeekable, err)
	}

	buf, delimIdx, err := scanUntilDelimiter(src)
	if err != nil {
		return nil, err
	}

	header, err := section.Parse(buf[:delimIdx])
	if err != nil {
		return nil, err
	}

	bodyStart := delimIdx + len(section.HeaderDelimiter)
	needed := bodyStart + int(header.Offset)

	switch {
	case len(buf) < needed:
		more := make([]byte, needed-len(buf))
		if _, err := stdio.ReadFull(src, more); err != nil {
			return nil, fmt.Errorf("%w: symbol region: %w", errs.ErrFileTruncated, err)
		}

		buf = append(buf, more...)
	case len(buf) > needed:
		// The scan over-read into the index region; seek back to its start
		// rather than try to reuse the extra bytes already in memory.
		if _, err := src.Seek(int64(needed), stdio.SeekStart); err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrNotSeekable, err)
		}
	}

	symbolRegion := buf[bodyStart:needed]

	symbolsByField, err := r.parseSymbols(symbolRegion, header)
	if err != nil {
		return nil, err
	}

	numChunks := (header.NoOfRecords + chunkSize - 1) / chunkSize

	r.lg.WithFields(logrus.Fields{
		"table":      header.TableName,
		"records":    header.NoOfRecords,
		"chunk_size": chunkSize,
		"chunks":     numChunks,
	}).Debug("qvd: opened chunked reader")

	return &ChunkIterator{
		lg:               r.lg,
		src:              src,
		header:           header,
		symbolsByField:   symbolsByField,
		indexRegionStart: int64(needed),
		recordByteSize:   header.RecordByteSize,
		chunkSize:        chunkSize,
		numChunks:        numChunks,
	}, nil
}

// OpenChunkedFile opens path and calls OpenChunked against it. The
// returned iterator's Close call also closes the underlying file.
func OpenChunkedFile(path string, chunkSize int, opts ...ReaderOption) (*ChunkIterator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("qvd: open file: %w", err)
	}

	it, err := OpenChunked(f, chunkSize, opts...)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return it, nil
}

// Len returns the iterator's total chunk count, ceil(no_of_records /
// chunk_size).
func (c *ChunkIterator) Len() int { return c.numChunks }

// Next decodes and returns the next chunk in ascending record-range order.
// The second return value is false once the iterator is exhausted, at
// which point the source has already been closed.
func (c *ChunkIterator) Next() (*qvd.Table, bool, error) {
	if c.closed || c.cursor >= c.numChunks {
		return nil, false, nil
	}

	table, err := c.chunkAt(c.cursor)
	if err != nil {
		_ = c.Close()
		return nil, false, err
	}

	c.cursor++
	if c.cursor >= c.numChunks {
		_ = c.Close()
	}

	return table, true, nil
}

// Chunk decodes and returns chunk i directly, without disturbing Next's
// cursor. i must be within [0, Len()).
func (c *ChunkIterator) Chunk(i int) (*qvd.Table, error) {
	if i < 0 || i >= c.numChunks {
		return nil, fmt.Errorf("%w: %d", errs.ErrChunkOutOfRange, i)
	}

	return c.chunkAt(i)
}

func (c *ChunkIterator) chunkAt(i int) (*qvd.Table, error) {
	recordOffset := int64(i) * int64(c.chunkSize)
	byteOffset := c.indexRegionStart + recordOffset*int64(c.recordByteSize)

	remaining := c.header.NoOfRecords - int(recordOffset)

	n := c.chunkSize
	if n > remaining {
		n = remaining
	}

	buf := make([]byte, n*c.recordByteSize)

	if _, err := c.src.Seek(byteOffset, stdio.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrNotSeekable, err)
	}

	if _, err := stdio.ReadFull(c.src, buf); err != nil {
		return nil, fmt.Errorf("%w: chunk %d: %w", errs.ErrFileTruncated, i, err)
	}

	records, err := index.DecodeRecords(buf, c.recordByteSize, c.header.Fields)
	if err != nil {
		return nil, err
	}

	if c.recordByteSize == 0 {
		records = constantRecords(n, c.header.Fields)
	}

	c.lg.WithFields(logrus.Fields{"chunk": i, "records": len(records)}).Debug("qvd: decoded chunk")

	reader := &Reader{lg: c.lg}

	return reader.materialize(c.header, c.symbolsByField, records)
}

// Close releases the underlying source if it implements io.Closer. It is
// safe to call more than once and is called automatically on exhaustion.
func (c *ChunkIterator) Close() error {
	if c.closed {
		return nil
	}

	c.closed = true

	if closer, ok := c.src.(stdio.Closer); ok {
		return closer.Close()
	}

	return nil
}

// scanUntilDelimiter reads src incrementally until section.HeaderDelimiter
// appears, returning everything read so far and the delimiter's index.
// This lets the header be parsed without first reading the (potentially
// very large) index region that follows the symbol table.
func scanUntilDelimiter(src stdio.Reader) (buf []byte, delimIdx int, err error) {
	window := make([]byte, 4096)

	for {
		n, rerr := src.Read(window)
		if n > 0 {
			buf = append(buf, window[:n]...)

			if idx := bytes.Index(buf, section.HeaderDelimiter); idx >= 0 {
				return buf, idx, nil
			}
		}

		if rerr == stdio.EOF {
			return nil, 0, errs.ErrHeaderDelimiterNotFound
		}

		if rerr != nil {
			return nil, 0, fmt.Errorf("qvd: scan header: %w", rerr)
		}
	}
}
