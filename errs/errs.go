// Package errs defines the sentinel errors returned by the qvd module's
// packages. Callers should compare against these with errors.Is; detection
// sites wrap them with additional context via fmt.Errorf("%w: ...", ...).
package errs

import "errors"

var (
	// Header / framing

	ErrHeaderDelimiterNotFound = errors.New("qvd: XML header delimiter (\\r\\n\\0) not found")
	ErrHeaderMalformed         = errors.New("qvd: XML header is malformed or missing a mandatory element")
	ErrFileTruncated           = errors.New("qvd: file is shorter than the header declares")

	// Symbol table

	ErrUnknownSymbolTag         = errors.New("qvd: unrecognized symbol type tag")
	ErrSymbolStringUnterminated = errors.New("qvd: symbol string is not NUL-terminated within its field's symbol region")
	ErrFieldNotFound            = errors.New("qvd: field not found")
	ErrInvalidEncoding          = errors.New("qvd: symbol string is not valid UTF-8")

	// Index table

	ErrBitWidthOverflow       = errors.New("qvd: field's declared bit offset/width exceeds the index record")
	ErrRecordByteSizeMismatch = errors.New("qvd: computed record byte size does not match the header")

	// Table

	ErrColumnCountMismatch   = errors.New("qvd: row has a different number of values than the table has columns")
	ErrRowIndexOutOfRange    = errors.New("qvd: row index out of range")
	ErrColumnIndexOutOfRange = errors.New("qvd: column index out of range")
	ErrNoColumns             = errors.New("qvd: table has no columns")
	ErrDuplicateColumnName   = errors.New("qvd: duplicate column name")

	// Values

	ErrIncompatibleCalculationTypes = errors.New("qvd: values have incompatible calculation projections and cannot be ordered")

	// Reader / Writer

	ErrChunkSizeInvalid = errors.New("qvd: chunk size must be a positive number of records")
	ErrChunkOutOfRange  = errors.New("qvd: chunk index out of range")
	ErrEmptySource      = errors.New("qvd: source produced no bytes")
	ErrNotSeekable      = errors.New("qvd: chunked reading requires a seekable source")
)
