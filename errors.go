package moqt

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the framer and parsers. These enable callers
// to programmatically distinguish failure modes using errors.Is.
var (
	// ErrValueOutOfRange is returned by the VarInt62 encoder when a value
	// does not fit in 62 bits.
	ErrValueOutOfRange = errors.New("moqt: value out of range for varint62")
	// ErrBufferTooShort is returned by the forced-length VarInt62 encoder
	// when the destination buffer lacks room for the requested length.
	ErrBufferTooShort = errors.New("moqt: buffer too short")
	// ErrTruncated is returned by decoders when fewer bytes remain than the
	// encoding requires.
	ErrTruncated = errors.New("moqt: truncated")
	// ErrProtocolViolation indicates ill-formed wire bytes: a bad
	// content-exists byte, an out-of-range filter type, a FIN mid-message,
	// a length mismatch, or an invalid object range.
	ErrProtocolViolation = errors.New("moqt: protocol violation")
	// ErrParameterLengthMismatch indicates a parameter's declared length
	// disagreed with the varint encoded inside it.
	ErrParameterLengthMismatch = errors.New("moqt: parameter length mismatch")
	// ErrInternal indicates a parser resource bound was exceeded (the
	// buffered message header exceeded kMaxMessageHeaderSize), or, from the
	// framer, that a two-pass serialization wrote a different number of
	// bytes than it had sized.
	ErrInternal = errors.New("moqt: internal error")
	// ErrInvalidInput is returned by the framer when the caller-supplied
	// message cannot be legally encoded.
	ErrInvalidInput = errors.New("moqt: invalid input")
)

// ParseError records which field of a message was being decoded when a
// decode failed. It wraps the underlying error so callers can use
// errors.Is/errors.As against both the field-specific and sentinel forms.
type ParseError struct {
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("moqt: parse %s: %v", e.Field, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FramerError records which field of a message the framer rejected while
// serializing.
type FramerError struct {
	Field string
	Err   error
}

func (e *FramerError) Error() string {
	return fmt.Sprintf("moqt: frame %s: %v", e.Field, e.Err)
}

func (e *FramerError) Unwrap() error {
	return e.Err
}
