// Package section defines the QVD table header schema: the XML document
// that precedes the binary symbol and index regions of a QVD file.
//
// Unlike a fixed-size binary header, a QVD header is a variable-length XML
// tree (QvdTableHeader/QvdFieldHeader/NumberFormat/LineageInfo) parsed once
// with encoding/xml and held as a strongly-typed Go struct for the lifetime
// of a Reader or Writer. Parse decodes the XML text that precedes
// the "\r\n\0" delimiter; Header.Bytes re-serializes it, including that
// trailing "\r\n" (the final NUL byte is written separately by the io
// package, matching where the delimiter is actually found on disk).
package section
