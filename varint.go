package moqt

import (
	"github.com/quic-go/quic-go/quicvarint"
)

// varIntMax is the largest value representable by RFC 9000 VarInt62
// encoding (2^62 - 1), matching quicvarint.Max.
const varIntMax = quicvarint.Max

// varintLength returns the minimum wire length (1, 2, 4, or 8 bytes)
// needed to encode v, by selecting the smallest bucket whose range covers
// v. Returns ErrValueOutOfRange if v exceeds varIntMax.
func varintLength(v uint64) (int, error) {
	switch {
	case v > varIntMax:
		return 0, ErrValueOutOfRange
	case v <= 63:
		return 1, nil
	case v <= 16383:
		return 2, nil
	case v <= 1073741823:
		return 4, nil
	default:
		return 8, nil
	}
}

// appendVarInt appends the minimum-length VarInt62 encoding of v to buf.
// It fails with ErrValueOutOfRange if v >= 2^62.
func appendVarInt(buf []byte, v uint64) ([]byte, error) {
	if v > varIntMax {
		return buf, ErrValueOutOfRange
	}
	return quicvarint.Append(buf, v), nil
}

// appendVarIntForced appends the VarInt62 encoding of v using exactly
// length bytes (one of 1, 2, 4, 8), which must be at least the minimum
// length required for v. Used by tests and by dataWriter.writeVarIntForced;
// the framer itself always uses the minimum-length encoding.
func appendVarIntForced(buf []byte, v uint64, length int) ([]byte, error) {
	minLen, err := varintLength(v)
	if err != nil {
		return buf, err
	}
	if length < minLen {
		return buf, ErrBufferTooShort
	}
	switch length {
	case 1:
		return append(buf, byte(v)), nil
	case 2:
		return append(buf, 0x40|byte(v>>8), byte(v)), nil
	case 4:
		return append(buf, 0x80|byte(v>>24), byte(v>>16), byte(v>>8), byte(v)), nil
	case 8:
		return append(buf,
			0xc0|byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32),
			byte(v>>24), byte(v>>16), byte(v>>8), byte(v)), nil
	default:
		return buf, ErrBufferTooShort
	}
}

// decodeVarInt reads one VarInt62 from the head of b, returning the value
// and the number of bytes consumed. It fails with ErrTruncated if fewer
// bytes remain than the encoding (as indicated by the leading two bits)
// requires.
func decodeVarInt(b []byte) (uint64, int, error) {
	v, n, err := quicvarint.Parse(b)
	if err != nil {
		return 0, 0, ErrTruncated
	}
	return v, n, nil
}

// peekVarIntLength returns the wire length (1, 2, 4, or 8) implied by the
// two high bits of b's first byte, or 0 if b is empty.
func peekVarIntLength(b []byte) int {
	if len(b) == 0 {
		return 0
	}
	switch b[0] & 0xc0 {
	case 0x00:
		return 1
	case 0x40:
		return 2
	case 0x80:
		return 4
	default:
		return 8
	}
}

// encodeSignedVarInt maps a signed delta (OBJECT_ACK's delta_from_deadline,
// in microseconds) onto an unsigned VarInt62 per spec.md §3.1: the
// least-significant bit is the sign (1 = negative) and the remaining bits
// hold the absolute magnitude.
func encodeSignedVarInt(delta int64) uint64 {
	if delta < 0 {
		return (uint64(-delta) << 1) | 0x01
	}
	return uint64(delta) << 1
}

// decodeSignedVarInt is the inverse of encodeSignedVarInt.
func decodeSignedVarInt(v uint64) int64 {
	if v&0x01 != 0 {
		return -int64(v >> 1)
	}
	return int64(v >> 1)
}
