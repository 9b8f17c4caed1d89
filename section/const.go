package section

// HeaderDelimiter marks the end of the XML header section on disk. It is
// the three bytes immediately preceding the symbol table.
var HeaderDelimiter = []byte("\r\n\x00")

// Field number-format types, as they appear in a QvdFieldHeader's
// NumberFormat/Type element. These are free-form strings in the format
// (not a closed enum), but these are the values this module recognizes and
// produces.
const (
	TypeUnknown   = "UNKNOWN"
	TypeAscii     = "ASCII"
	TypeInteger   = "INTEGER"
	TypeReal      = "REAL"
	TypeFix       = "FIX"
	TypeMoney     = "MONEY"
	TypeDate      = "DATE"
	TypeTime      = "TIME"
	TypeTimestamp = "TIMESTAMP"
	TypeInterval  = "INTERVAL"
)

// Standard field tags attached to Fields/QvdFieldHeader/Tags, used by
// consumers (e.g. Qlik) to infer a column's semantic type at a glance.
const (
	TagNumeric   = "$numeric"
	TagInteger   = "$integer"
	TagText      = "$text"
	TagAscii     = "$ascii"
	TagDate      = "$date"
	TagTimestamp = "$timestamp"
)
