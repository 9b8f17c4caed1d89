// Package index implements the QVD index table codec (C5): the bit-packed
// per-row array of symbol-table references.
//
// Each on-disk record is RecordByteSize bytes. To decode a record, its
// bytes are reversed, each byte is expanded most-significant-bit first,
// the expanded bits are concatenated in that (reversed) byte order, and
// the whole bit string is reversed once more; a field's raw symbol index
// is then the bitWidth-bit substring starting at bitOffset, read with its
// first bit as the least-significant bit. Encoding performs the same
// transform in reverse. See internal/bits for the primitive and
// DESIGN.md for why this inverted-twice-reversed layout is replicated
// byte for byte from the reference decoder rather than simplified.
package index
