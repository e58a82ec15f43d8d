package moqt

// dataWriter is a cursor over a pre-sized, caller-owned byte buffer. The
// framer always allocates the buffer at exactly the length computed by a
// prior call to wireType.lengthOnWire, so writes here never need to grow the
// buffer — an out-of-space write is a codec bug, not a caller error, and
// is reported as ErrBufferTooShort so the framer can surface it rather
// than panic.
type dataWriter struct {
	buf []byte
	off int
}

func newDataWriter(buf []byte) *dataWriter {
	return &dataWriter{buf: buf}
}

// remaining returns the number of unwritten bytes left in the buffer.
func (w *dataWriter) remaining() int {
	return len(w.buf) - w.off
}

func (w *dataWriter) writeUint8(v uint8) error {
	if w.remaining() < 1 {
		return ErrBufferTooShort
	}
	w.buf[w.off] = v
	w.off++
	return nil
}

func (w *dataWriter) writeUint16(v uint16) error {
	if w.remaining() < 2 {
		return ErrBufferTooShort
	}
	w.buf[w.off] = byte(v >> 8)
	w.buf[w.off+1] = byte(v)
	w.off += 2
	return nil
}

func (w *dataWriter) writeUint32(v uint32) error {
	if w.remaining() < 4 {
		return ErrBufferTooShort
	}
	w.buf[w.off] = byte(v >> 24)
	w.buf[w.off+1] = byte(v >> 16)
	w.buf[w.off+2] = byte(v >> 8)
	w.buf[w.off+3] = byte(v)
	w.off += 4
	return nil
}

func (w *dataWriter) writeUint64(v uint64) error {
	if w.remaining() < 8 {
		return ErrBufferTooShort
	}
	for i := 0; i < 8; i++ {
		w.buf[w.off+i] = byte(v >> (56 - 8*i))
	}
	w.off += 8
	return nil
}

func (w *dataWriter) writeBytes(b []byte) error {
	if w.remaining() < len(b) {
		return ErrBufferTooShort
	}
	copy(w.buf[w.off:], b)
	w.off += len(b)
	return nil
}

func (w *dataWriter) writeVarInt(v uint64) error {
	n, err := varintLength(v)
	if err != nil {
		return err
	}
	if w.remaining() < n {
		return ErrBufferTooShort
	}
	encoded, err := appendVarInt(nil, v)
	if err != nil {
		return err
	}
	return w.writeBytes(encoded)
}

// writeVarIntForced writes v using exactly length bytes; see
// appendVarIntForced.
func (w *dataWriter) writeVarIntForced(v uint64, length int) error {
	if w.remaining() < length {
		return ErrBufferTooShort
	}
	encoded, err := appendVarIntForced(nil, v, length)
	if err != nil {
		return err
	}
	return w.writeBytes(encoded)
}

// writeVarIntBytes writes a VarInt62 length prefix followed by data.
func (w *dataWriter) writeVarIntBytes(data []byte) error {
	if err := w.writeVarInt(uint64(len(data))); err != nil {
		return err
	}
	return w.writeBytes(data)
}

// bytesWritten returns the number of bytes written so far, used by the
// framer to assert exact consumption of the pre-allocated buffer.
func (w *dataWriter) bytesWritten() int {
	return w.off
}
