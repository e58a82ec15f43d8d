package moqt

import (
	"errors"
	"fmt"
)

// kMaxMessageHeaderSize bounds how many bytes the control parser will
// buffer without yielding a complete message, guarding parser memory
// against a peer that never completes a message.
const kMaxMessageHeaderSize = 2048

// ParsingError is the terminal event a ControlParser or DataStreamParser
// emits exactly once before latching. Kind is one of the sentinel errors
// in errors.go; Reason is a short human-readable description.
type ParsingError struct {
	Kind   error
	Reason string
}

func (e *ParsingError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Reason)
}

func (e *ParsingError) Unwrap() error {
	return e.Kind
}

// ControlParser buffers bytes from a control stream and emits a sequence
// of typed control messages (or a single terminal ParsingError). It is
// single-threaded cooperative: ProcessData must not be called re-entrantly
// from within the handler consuming DrainEvents, and this parser detects and
// no-ops that case rather than corrupting its staging buffer. Grounded in
// MoqtControlParser::process_data / process_message in
// original_source/moqt/src/moqt_parser.rs, and in the teacher's
// ReadControlMsg loop (internal/moq/control.go).
type ControlParser struct {
	usingWebtrans bool
	buf           []byte
	events        []any
	processing    bool
	noMoreData    bool
	err           *ParsingError
}

// NewControlParser constructs a parser for a session using the given
// transport: usingWebtrans selects whether CLIENT_SETUP's kPath parameter
// is forbidden (true) or required (false).
func NewControlParser(usingWebtrans bool) *ControlParser {
	return &ControlParser{usingWebtrans: usingWebtrans}
}

// DrainEvents returns all events queued since the last call and clears the
// queue. Each event is a pointer to one of the control message structs in
// control_messages.go, or a *ParsingError as the final event.
func (p *ControlParser) DrainEvents() []any {
	events := p.events
	p.events = nil
	return events
}

// Err returns the latched parse error, if any.
func (p *ControlParser) Err() *ParsingError {
	return p.err
}

func (p *ControlParser) latch(kind error, reason string) {
	if p.err != nil {
		return
	}
	p.err = &ParsingError{Kind: kind, Reason: reason}
	p.events = append(p.events, p.err)
	p.noMoreData = true
}

// ProcessData appends data to the staging buffer and parses as many
// complete messages as are available, in order. fin indicates this is the
// last data the transport will ever deliver on this stream.
func (p *ControlParser) ProcessData(data []byte, fin bool) {
	if p.noMoreData {
		p.latch(ErrProtocolViolation, "data after end of stream")
		return
	}
	if p.processing {
		return
	}
	p.processing = true
	defer func() { p.processing = false }()

	p.buf = append(p.buf, data...)
	for {
		consumed, ok, perr := p.tryParseMessage()
		if perr != nil {
			p.latch(perr.Kind, perr.Reason)
			return
		}
		if !ok {
			break
		}
		p.buf = p.buf[consumed:]
	}

	switch {
	case len(p.buf) == 0:
		if fin {
			p.noMoreData = true
		}
	case fin:
		p.latch(ErrProtocolViolation, "FIN after incomplete message")
	case len(p.buf) > kMaxMessageHeaderSize:
		p.latch(ErrInternal, "header too large")
	}
}

// tryParseMessage attempts to decode one complete message from the head of
// the staging buffer. ok is false when insufficient data is buffered (not
// an error); perr is non-nil on a genuine parse failure.
func (p *ControlParser) tryParseMessage() (consumed int, ok bool, perr *ParsingError) {
	r := newDataReader(p.buf)
	msgType, err := r.readVarInt()
	if err != nil {
		return 0, false, nil
	}
	payloadLen, err := r.readVarInt()
	if err != nil {
		return 0, false, nil
	}
	headerLen := r.bytesRead()
	if r.remaining() < int(payloadLen) {
		return 0, false, nil
	}
	payload := p.buf[headerLen : headerLen+int(payloadLen)]
	total := headerLen + int(payloadLen)

	msg, innerConsumed, err := p.decodeMessage(MessageType(msgType), payload)
	if err != nil {
		return 0, false, &ParsingError{Kind: classifyParseErr(err), Reason: err.Error()}
	}
	if innerConsumed != len(payload) {
		return 0, false, &ParsingError{Kind: ErrProtocolViolation, Reason: "length mismatch"}
	}
	p.events = append(p.events, msg)
	return total, true, nil
}

func classifyParseErr(err error) error {
	switch {
	case errors.Is(err, ErrParameterLengthMismatch):
		return ErrParameterLengthMismatch
	case errors.Is(err, ErrInternal):
		return ErrInternal
	default:
		return ErrProtocolViolation
	}
}

func readTrackName(r *dataReader, hasName bool) (FullTrackName, error) {
	count, err := r.readVarInt()
	if err != nil {
		return FullTrackName{}, &ParseError{Field: "track_name.count", Err: err}
	}
	elems := make([]string, count)
	for i := range elems {
		b, err := r.readVarIntBytes()
		if err != nil {
			return FullTrackName{}, &ParseError{Field: "track_name.element", Err: err}
		}
		elems[i] = string(b)
	}
	if hasName {
		if len(elems) == 0 {
			return FullTrackName{}, &ParseError{Field: "track_name", Err: ErrProtocolViolation}
		}
		return FullTrackName{Namespace: elems[:len(elems)-1], Name: elems[len(elems)-1], HasName: true}, nil
	}
	return FullTrackName{Namespace: elems}, nil
}

func readContentExistsByte(r *dataReader) (bool, error) {
	b, err := r.readUint8()
	if err != nil {
		return false, &ParseError{Field: "content_exists", Err: err}
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, &ParseError{Field: "content_exists", Err: ErrProtocolViolation}
	}
}

// unshiftOptional is the inverse of the framer's shiftedOptional: 0 means
// absent, n means the value n-1.
func unshiftOptional(v uint64) *uint64 {
	if v == 0 {
		return nil
	}
	u := v - 1
	return &u
}

func (p *ControlParser) decodeMessage(msgType MessageType, payload []byte) (any, int, error) {
	r := newDataReader(payload)
	var msg any
	var err error

	switch msgType {
	case MessageSubscribeUpdate:
		msg, err = decodeSubscribeUpdate(r)
	case MessageSubscribe:
		msg, err = decodeSubscribe(r)
	case MessageSubscribeOK:
		msg, err = decodeSubscribeOK(r)
	case MessageSubscribeError:
		msg, err = decodeSubscribeError(r)
	case MessageAnnounce:
		msg, err = decodeAnnounce(r)
	case MessageAnnounceOK:
		msg, err = decodeAnnounceOK(r)
	case MessageAnnounceError:
		msg, err = decodeAnnounceError(r)
	case MessageUnannounce:
		msg, err = decodeUnannounce(r)
	case MessageUnsubscribe:
		msg, err = decodeUnsubscribe(r)
	case MessageSubscribeDone:
		msg, err = decodeSubscribeDone(r)
	case MessageAnnounceCancel:
		msg, err = decodeAnnounceCancel(r)
	case MessageTrackStatusRequest:
		msg, err = decodeTrackStatusRequest(r)
	case MessageTrackStatus:
		msg, err = decodeTrackStatus(r)
	case MessageGoAway:
		msg, err = decodeGoAway(r)
	case MessageSubscribeAnnounces:
		msg, err = decodeSubscribeAnnounces(r)
	case MessageSubscribeAnnouncesOK:
		msg, err = decodeSubscribeAnnouncesOK(r)
	case MessageSubscribeAnnouncesError:
		msg, err = decodeSubscribeAnnouncesError(r)
	case MessageUnsubscribeAnnounces:
		msg, err = decodeUnsubscribeAnnounces(r)
	case MessageMaxSubscribeID:
		msg, err = decodeMaxSubscribeID(r)
	case MessageFetch:
		msg, err = decodeFetch(r)
	case MessageFetchCancel:
		msg, err = decodeFetchCancel(r)
	case MessageFetchOK:
		msg, err = decodeFetchOK(r)
	case MessageFetchError:
		msg, err = decodeFetchError(r)
	case MessageClientSetup:
		msg, err = p.decodeClientSetup(r)
	case MessageServerSetup:
		msg, err = decodeServerSetup(r)
	case MessageObjectAck:
		msg, err = decodeObjectAck(r)
	default:
		err = fmt.Errorf("unknown message type 0x%x: %w", uint64(msgType), ErrProtocolViolation)
	}
	if err != nil {
		return nil, 0, err
	}
	return msg, r.bytesRead(), nil
}

func decodeSubscribeUpdate(r *dataReader) (*SubscribeUpdate, error) {
	m := &SubscribeUpdate{}
	var err error
	if m.SubscribeID, err = r.readVarInt(); err != nil {
		return nil, &ParseError{"subscribe_id", err}
	}
	if m.StartGroup, err = r.readVarInt(); err != nil {
		return nil, &ParseError{"start_group", err}
	}
	if m.StartObject, err = r.readVarInt(); err != nil {
		return nil, &ParseError{"start_object", err}
	}
	endGroup, err := r.readVarInt()
	if err != nil {
		return nil, &ParseError{"end_group", err}
	}
	m.EndGroup = unshiftOptional(endGroup)
	endObject, err := r.readVarInt()
	if err != nil {
		return nil, &ParseError{"end_object", err}
	}
	m.EndObject = unshiftOptional(endObject)
	if m.EndGroup == nil && m.EndObject != nil {
		return nil, &ParseError{"end_object", ErrProtocolViolation}
	}
	if m.Priority, err = r.readUint8(); err != nil {
		return nil, &ParseError{"priority", err}
	}
	if m.Params, err = readParamList(r, trackRequestIntParamKeys...); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeSubscribe(r *dataReader) (*Subscribe, error) {
	m := &Subscribe{}
	var err error
	if m.SubscribeID, err = r.readVarInt(); err != nil {
		return nil, &ParseError{"subscribe_id", err}
	}
	if m.TrackAlias, err = r.readVarInt(); err != nil {
		return nil, &ParseError{"track_alias", err}
	}
	if m.TrackName, err = readTrackName(r, true); err != nil {
		return nil, err
	}
	if m.Priority, err = r.readUint8(); err != nil {
		return nil, &ParseError{"priority", err}
	}
	groupOrder, err := r.readUint8()
	if err != nil {
		return nil, &ParseError{"group_order", err}
	}
	m.GroupOrder = GroupOrder(groupOrder)
	if !m.GroupOrder.validRequest() {
		return nil, &ParseError{"group_order", ErrProtocolViolation}
	}
	filterType, err := r.readVarInt()
	if err != nil {
		return nil, &ParseError{"filter_type", err}
	}
	m.FilterType = FilterType(filterType)
	if !m.FilterType.valid() {
		return nil, &ParseError{"filter_type", ErrProtocolViolation}
	}
	switch m.FilterType {
	case FilterAbsoluteStart:
		sg, err := r.readVarInt()
		if err != nil {
			return nil, &ParseError{"start_group", err}
		}
		so, err := r.readVarInt()
		if err != nil {
			return nil, &ParseError{"start_object", err}
		}
		m.StartGroup, m.StartObject = &sg, &so
	case FilterAbsoluteRange:
		sg, err := r.readVarInt()
		if err != nil {
			return nil, &ParseError{"start_group", err}
		}
		so, err := r.readVarInt()
		if err != nil {
			return nil, &ParseError{"start_object", err}
		}
		eg, err := r.readVarInt()
		if err != nil {
			return nil, &ParseError{"end_group", err}
		}
		eo, err := r.readVarInt()
		if err != nil {
			return nil, &ParseError{"end_object", err}
		}
		m.StartGroup, m.StartObject, m.EndGroup = &sg, &so, &eg
		m.EndObject = unshiftOptional(eo)
		if eg < sg {
			return nil, &ParseError{"end_group", ErrProtocolViolation}
		}
		if eg == sg && m.EndObject != nil && *m.EndObject < so {
			return nil, &ParseError{"end_object", ErrProtocolViolation}
		}
	}
	if m.Params, err = readParamList(r, trackRequestIntParamKeys...); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeSubscribeOK(r *dataReader) (*SubscribeOK, error) {
	m := &SubscribeOK{}
	var err error
	if m.SubscribeID, err = r.readVarInt(); err != nil {
		return nil, &ParseError{"subscribe_id", err}
	}
	if m.ExpiresMs, err = r.readVarInt(); err != nil {
		return nil, &ParseError{"expires_ms", err}
	}
	groupOrder, err := r.readUint8()
	if err != nil {
		return nil, &ParseError{"group_order", err}
	}
	m.GroupOrder = GroupOrder(groupOrder)
	if !m.GroupOrder.valid() {
		return nil, &ParseError{"group_order", ErrProtocolViolation}
	}
	if m.ContentExists, err = readContentExistsByte(r); err != nil {
		return nil, err
	}
	if m.ContentExists {
		if m.LargestGroup, err = r.readVarInt(); err != nil {
			return nil, &ParseError{"largest_group", err}
		}
		if m.LargestObject, err = r.readVarInt(); err != nil {
			return nil, &ParseError{"largest_object", err}
		}
	}
	if m.Params, err = readParamList(r, trackRequestIntParamKeys...); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeSubscribeError(r *dataReader) (*SubscribeError, error) {
	m := &SubscribeError{}
	var err error
	if m.SubscribeID, err = readVarIntField(r, "subscribe_id"); err != nil {
		return nil, err
	}
	errCode, err := readVarIntField(r, "error_code")
	if err != nil {
		return nil, err
	}
	m.ErrorCode = SubscribeErrorCode(errCode)
	if m.Reason, err = readReasonField(r); err != nil {
		return nil, err
	}
	if m.TrackAlias, err = readVarIntField(r, "track_alias"); err != nil {
		return nil, err
	}
	return m, nil
}

// readVarIntField is a small helper to read a single varint field with a
// consistent ParseError field name.
func readVarIntField(r *dataReader, field string) (uint64, error) {
	v, err := r.readVarInt()
	if err != nil {
		return 0, &ParseError{field, err}
	}
	return v, nil
}

func readReasonField(r *dataReader) (string, error) {
	b, err := r.readVarIntBytes()
	if err != nil {
		return "", &ParseError{"reason", err}
	}
	return string(b), nil
}
