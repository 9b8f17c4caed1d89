// Package bits implements the sub-byte bit-packing transform used by the
// QVD index table (symbol-table row references packed at arbitrary bit
// widths and offsets, record bytes stored reversed). It has no analogue in
// numeric/text blob indexing, which is always byte- or word-aligned; the
// transform here is derived directly from the reference decoder/encoder
// behavior rather than from a teacher bitfield type.
package bits

// toBitsMSBFirst expands a byte into its 8 bits, most significant first.
func toBitsMSBFirst(b byte) []byte {
	out := make([]byte, 8)
	for i := 0; i < 8; i++ {
		out[i] = (b >> uint(7-i)) & 1
	}

	return out
}

// fromBitsMSBFirst packs up to 8 bits (most significant first) into a byte.
// Fewer than 8 bits are treated as left-padded with zeros.
func fromBitsMSBFirst(bitStr []byte) byte {
	var b byte
	for _, bit := range bitStr {
		b = (b << 1) | (bit & 1)
	}

	return b
}

func reverseBytes(in []byte) []byte {
	out := make([]byte, len(in))
	for i, b := range in {
		out[len(in)-1-i] = b
	}

	return out
}

func reverseBits(in []byte) []byte {
	out := make([]byte, len(in))
	for i, b := range in {
		out[len(in)-1-i] = b
	}

	return out
}

// DecodeMask turns one on-disk index-table record into its "mask": the
// record's bytes are reversed, each byte is expanded most-significant-bit
// first, the per-byte bit strings are concatenated in that (reversed-byte)
// order, and the whole result is reversed once more so that mask[0] is the
// least-significant bit of the first field.
func DecodeMask(record []byte) []byte {
	reversed := reverseBytes(record)

	mask := make([]byte, 0, len(record)*8)
	for _, b := range reversed {
		mask = append(mask, toBitsMSBFirst(b)...)
	}

	return reverseBits(mask)
}

// ExtractUint reads width bits starting at bitOffset out of mask, treating
// mask[bitOffset] as the least-significant bit (weight 2^0).
func ExtractUint(mask []byte, bitOffset, width int) uint32 {
	if width == 0 {
		return 0
	}

	var v uint32
	for i := 0; i < width; i++ {
		if mask[bitOffset+i] != 0 {
			v |= 1 << uint(i)
		}
	}

	return v
}

// ToBinaryMSBFirst renders v as its shortest MSB-first binary digit
// sequence (no leading zeros), matching Python's format(v, "b"): zero
// yields a single "0" bit.
func ToBinaryMSBFirst(v uint32) []byte {
	if v == 0 {
		return []byte{0}
	}

	// Count significant bits.
	n := 0
	for t := v; t != 0; t >>= 1 {
		n++
	}

	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = byte((v >> uint(n-1-i)) & 1)
	}

	return out
}

// PadLeft left-pads bitStr with zero bits until it is exactly width long.
// bitStr must not be longer than width.
func PadLeft(bitStr []byte, width int) []byte {
	if len(bitStr) >= width {
		return bitStr
	}

	out := make([]byte, width)
	copy(out[width-len(bitStr):], bitStr)

	return out
}

// EncodeRecord is the inverse of DecodeMask composed with ExtractUint: given
// the MSB-first, zero-padded bit strings of every field in column order, it
// produces the on-disk record bytes (recordByteSize bytes; the bit strings'
// total length need not be a multiple of 8, it is zero-padded on the left
// before byte-packing, mirroring the reference writer).
func EncodeRecord(fieldBitsInColumnOrder [][]byte, recordByteSize int) []byte {
	// Concatenate fields in reverse column order.
	var bitStr []byte
	for i := len(fieldBitsInColumnOrder) - 1; i >= 0; i-- {
		bitStr = append(bitStr, fieldBitsInColumnOrder[i]...)
	}

	padding := (8 - len(bitStr)%8) % 8
	if padding > 0 {
		padded := make([]byte, padding, padding+len(bitStr))
		bitStr = append(padded, bitStr...)
	}

	forward := make([]byte, len(bitStr)/8)
	for i := range forward {
		forward[i] = fromBitsMSBFirst(bitStr[i*8 : i*8+8])
	}

	record := reverseBytes(forward)

	if len(record) < recordByteSize {
		out := make([]byte, recordByteSize)
		copy(out[recordByteSize-len(record):], record)

		return out
	}

	return record
}
