package section

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/qvd-go/qvd/errs"
)

// NumberFormat describes how a field's symbols should be displayed and
// declares the field's specialized type (DATE, TIME, TIMESTAMP, INTERVAL,
// MONEY, ...).
type NumberFormat struct {
	Type    string `xml:"Type"`
	NDec    int    `xml:"nDec"`
	UseThou int    `xml:"UseThou"`
	Fmt     string `xml:"Fmt"`
	Dec     string `xml:"Dec"`
	Thou    string `xml:"Thou"`
}

// Field is a single column's schema entry: its bit layout within an index
// record, its display/number format, and its symbol-region location.
type Field struct {
	FieldName    string       `xml:"FieldName"`
	BitOffset    int          `xml:"BitOffset"`
	BitWidth     int          `xml:"BitWidth"`
	Bias         int          `xml:"Bias"`
	NumberFormat NumberFormat `xml:"NumberFormat"`
	NoOfSymbols  int          `xml:"NoOfSymbols"`
	Offset       int64        `xml:"Offset"`
	Length       int64        `xml:"Length"`
	Comment      string       `xml:"Comment"`
	Tags         []string     `xml:"Tags>String"`
}

// LineageInfo records one step of a table's ETL provenance.
type LineageInfo struct {
	Discriminator string `xml:"Discriminator"`
	Statement     string `xml:"Statement"`
}

// Header is the fully parsed QvdTableHeader XML document. NoOfFields is
// deliberately not a field here: it is never serialized to disk (see
// DESIGN.md) and is always derived as len(Fields).
type Header struct {
	XMLName             xml.Name      `xml:"QvdTableHeader"`
	QvBuildNo           int           `xml:"QvBuildNo"`
	CreatorDoc          string        `xml:"CreatorDoc"`
	CreateUtcTime       string        `xml:"CreateUtcTime"`
	SourceCreateUtcTime string        `xml:"SourceCreateUtcTime"`
	SourceFileUtcTime   string        `xml:"SourceFileUtcTime"`
	StaleUtcTime        string        `xml:"StaleUtcTime"`
	TableName           string        `xml:"TableName"`
	SourceFileSize      int64         `xml:"SourceFileSize"`
	Fields              []Field       `xml:"Fields>QvdFieldHeader"`
	Compression         string        `xml:"Compression"`
	RecordByteSize      int           `xml:"RecordByteSize"`
	NoOfRecords         int           `xml:"NoOfRecords"`
	Offset              int64         `xml:"Offset"`
	Length              int64         `xml:"Length"`
	Comment             string        `xml:"Comment"`
	Lineage             []LineageInfo `xml:"Lineage>LineageInfo"`
}

// Parse decodes the XML header text that precedes the header delimiter.
// data must not include the trailing "\r\n\0".
func Parse(data []byte) (*Header, error) {
	h := &Header{}
	if err := xml.Unmarshal(data, h); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrHeaderMalformed, err)
	}

	if h.TableName == "" && len(h.Fields) == 0 {
		return nil, fmt.Errorf("%w: empty QvdTableHeader", errs.ErrHeaderMalformed)
	}

	return h, nil
}

// Bytes re-serializes h as pretty-printed XML, terminated with "\r\n" (the
// caller appends the final NUL byte of the on-disk "\r\n\0" delimiter).
func (h *Header) Bytes() ([]byte, error) {
	body, err := xml.MarshalIndent(h, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("qvd: marshal header: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.Write(body)
	buf.WriteString("\r\n")

	return buf.Bytes(), nil
}

// FieldByName returns the field with the given name, or
// errs.ErrFieldNotFound.
func (h *Header) FieldByName(name string) (*Field, error) {
	for i := range h.Fields {
		if h.Fields[i].FieldName == name {
			return &h.Fields[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %q", errs.ErrFieldNotFound, name)
}

// NoOfFields is derived from the field list, never stored on disk (see
// DESIGN.md's Open Question decision).
func (h *Header) NoOfFields() int {
	return len(h.Fields)
}
