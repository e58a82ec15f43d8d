package moqt

// wireType is the combinator interface the framer composes to serialize a
// control message in two passes: first summing lengthOnWire() across every
// field to size the destination buffer exactly, then calling serializeInto
// on the same sequence to fill it. Grounded in the WireType trait of
// original_source/moqt/src/serde/wire_serialization.rs; Go has no macro
// system, so the serialize!/compute_length_on_wire! call-site macros there
// become plain functions (lengthOnWireAll, serializeAll) operating over a
// []wireType.
type wireType interface {
	lengthOnWire() int
	serializeInto(w *dataWriter) error
}

// lengthOnWireAll sums the wire length of a sequence of fields, the Go
// equivalent of compute_length_on_wire! applied to an entire field list.
func lengthOnWireAll(fields []wireType) int {
	total := 0
	for _, f := range fields {
		total += f.lengthOnWire()
	}
	return total
}

// serializeAll writes a sequence of fields in order, stopping at the first
// error.
func serializeAll(w *dataWriter, fields []wireType) error {
	for _, f := range fields {
		if err := f.serializeInto(w); err != nil {
			return err
		}
	}
	return nil
}

// frameFields runs the two-pass length-then-write protocol: it sizes a
// buffer to exactly fit fields, serializes into it, and asserts every byte
// was consumed. This is the Go shape of serialize_into_buffer! — the
// framer's Serialize* methods call it once per message.
func frameFields(fields []wireType) ([]byte, error) {
	buf := make([]byte, lengthOnWireAll(fields))
	w := newDataWriter(buf)
	if err := serializeAll(w, fields); err != nil {
		return nil, err
	}
	if w.bytesWritten() != len(buf) {
		return nil, ErrInternal
	}
	return buf, nil
}

// wireUint8 is a fixed one-byte field.
type wireUint8 uint8

func (v wireUint8) lengthOnWire() int { return 1 }
func (v wireUint8) serializeInto(w *dataWriter) error {
	return w.writeUint8(uint8(v))
}

// wireUint16 is a fixed two-byte big-endian field.
type wireUint16 uint16

func (v wireUint16) lengthOnWire() int { return 2 }
func (v wireUint16) serializeInto(w *dataWriter) error {
	return w.writeUint16(uint16(v))
}

// wireUint32 is a fixed four-byte big-endian field.
type wireUint32 uint32

func (v wireUint32) lengthOnWire() int { return 4 }
func (v wireUint32) serializeInto(w *dataWriter) error {
	return w.writeUint32(uint32(v))
}

// wireUint64 is a fixed eight-byte big-endian field.
type wireUint64 uint64

func (v wireUint64) lengthOnWire() int { return 8 }
func (v wireUint64) serializeInto(w *dataWriter) error {
	return w.writeUint64(uint64(v))
}

// wireVarInt is a VarInt62-encoded field, the Go shape of WireVarInt62.
type wireVarInt uint64

func (v wireVarInt) lengthOnWire() int {
	n, err := varintLength(uint64(v))
	if err != nil {
		return 0
	}
	return n
}

func (v wireVarInt) serializeInto(w *dataWriter) error {
	return w.writeVarInt(uint64(v))
}

// wireBytes is a raw byte span with no length prefix of its own, the Go
// shape of WireBytes — used when an enclosing field already carries the
// length (e.g. a control message's own length prefix covers its payload).
type wireBytes []byte

func (v wireBytes) lengthOnWire() int { return len(v) }
func (v wireBytes) serializeInto(w *dataWriter) error {
	return w.writeBytes(v)
}

// wireVarIntBytes is a byte string preceded by its own VarInt62 length,
// the Go shape of WireStringWithVarInt62Length — used for track names,
// namespace tuple elements, and parameter values.
type wireVarIntBytes []byte

func (v wireVarIntBytes) lengthOnWire() int {
	n, _ := varintLength(uint64(len(v)))
	return n + len(v)
}

func (v wireVarIntBytes) serializeInto(w *dataWriter) error {
	return w.writeVarIntBytes(v)
}

// wireSpan serializes a sequence of same-shaped fields back to back with
// no count or separator of its own, the Go shape of WireSpan. Callers
// that need a count prefix (namespace tuples, parameter lists) combine it
// with a leading wireVarInt for the element count.
type wireSpan []wireType

func (v wireSpan) lengthOnWire() int { return lengthOnWireAll(v) }
func (v wireSpan) serializeInto(w *dataWriter) error {
	return serializeAll(w, v)
}
