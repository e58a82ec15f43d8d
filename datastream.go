package moqt

// dataPhase names a position in the per-stream-type field sequence the
// data-stream parser walks, per §4.6:
//
//	StreamType -> TrackAlias -> GroupId -> SubgroupId -> PublisherPriority ->
//	ObjectId -> PayloadLength -> (Status | Data) -> ObjectId -> …
//
// FETCH streams share the same object-field grammar but repeat
// (GroupId, SubgroupId, ObjectId, PublisherPriority) before every object,
// since one FETCH stream can span multiple groups and subgroups.
type dataPhase int

const (
	phaseStreamType dataPhase = iota
	phaseSubgroupTrackAlias
	phaseSubgroupGroupID
	phaseSubgroupSubgroupID
	phaseSubgroupPriority
	phaseFetchSubscribeID
	phaseObjectGroupID   // FETCH only
	phaseObjectSubgroupID // FETCH only
	phaseObjectID
	phaseObjectPriority // FETCH only
	phasePayloadLength
	phaseObjectTail // Status, if payload_length == 0, else raw payload bytes
	phasePadding
	phaseDone
)

// DataStreamParser walks the object-framing state machine of a single
// unidirectional data stream (subgroup, fetch, or padding). Grounded in
// §4.6 of the specification; the original moqt_parser.rs equivalent
// (MoqtDataParser) was not included in the retrieval pack, so the state
// list and rules below are taken directly from the design document.
type DataStreamParser struct {
	buf        []byte
	phase      dataPhase
	streamType DataStreamType

	header      StreamHeader
	fetchSubID  uint64
	curGroup    uint64
	curSubgroup uint64
	curObject   uint64
	curPriority uint8
	payloadLen  uint64

	events     []any
	processing bool
	done       bool
	err        *ParsingError
}

// NewDataStreamParser constructs a parser for one data stream.
func NewDataStreamParser() *DataStreamParser {
	return &DataStreamParser{}
}

// DrainEvents returns and clears all events queued since the last call.
// Each event is a *StreamHeader (subgroup streams only, emitted once),
// a *uint64 fetch subscribe id (fetch streams only, emitted once), an
// *Object, or a *ParsingError as the final event.
func (p *DataStreamParser) DrainEvents() []any {
	events := p.events
	p.events = nil
	return events
}

func (p *DataStreamParser) Err() *ParsingError {
	return p.err
}

func (p *DataStreamParser) latch(kind error, reason string) {
	if p.err != nil {
		return
	}
	p.err = &ParsingError{Kind: kind, Reason: reason}
	p.events = append(p.events, p.err)
	p.done = true
	p.phase = phaseDone
}

// atObjectBoundary reports whether the parser is positioned where a FIN is
// legal: either before any bytes have arrived, between objects, or in the
// terminal padding sink.
func (p *DataStreamParser) atObjectBoundary() bool {
	switch p.phase {
	case phasePadding, phaseDone:
		return true
	case phaseStreamType, phaseObjectGroupID:
		return len(p.buf) == 0
	case phaseObjectID:
		return p.streamType == StreamTypeHeaderSubgroup && len(p.buf) == 0 && p.payloadLen == 0
	}
	return false
}

// ProcessData feeds newly arrived bytes into the parser. fin indicates the
// underlying stream has ended.
func (p *DataStreamParser) ProcessData(data []byte, fin bool) {
	if p.done {
		if len(data) > 0 {
			p.latch(ErrProtocolViolation, "data after end of stream")
		}
		return
	}
	if p.processing {
		return
	}
	p.processing = true
	defer func() { p.processing = false }()

	p.buf = append(p.buf, data...)
	for {
		ok, perr := p.step()
		if perr != nil {
			p.latch(perr.Kind, perr.Reason)
			return
		}
		if !ok {
			break
		}
	}
	if fin {
		if !p.atObjectBoundary() {
			p.latch(ErrProtocolViolation, "FIN mid-object")
			return
		}
		p.done = true
	}
}

// step advances the state machine by exactly one field, consuming from
// p.buf. ok is false when insufficient data is buffered.
func (p *DataStreamParser) step() (ok bool, perr *ParsingError) {
	switch p.phase {
	case phaseStreamType:
		if len(p.buf) == 0 {
			return false, nil
		}
		v, n, err := decodeVarInt(p.buf)
		if err != nil {
			return false, nil
		}
		p.buf = p.buf[n:]
		p.streamType = DataStreamType(v)
		switch p.streamType {
		case StreamTypeHeaderSubgroup:
			p.phase = phaseSubgroupTrackAlias
		case StreamTypeHeaderFetch:
			p.phase = phaseFetchSubscribeID
		case StreamTypePadding:
			p.phase = phasePadding
		default:
			return false, &ParsingError{Kind: ErrProtocolViolation, Reason: "unknown data stream type"}
		}
		return true, nil

	case phaseSubgroupTrackAlias:
		v, ok := p.readVarIntField()
		if !ok {
			return false, nil
		}
		p.header.TrackAlias = v
		p.phase = phaseSubgroupGroupID
		return true, nil

	case phaseSubgroupGroupID:
		v, ok := p.readVarIntField()
		if !ok {
			return false, nil
		}
		p.header.GroupID = v
		p.phase = phaseSubgroupSubgroupID
		return true, nil

	case phaseSubgroupSubgroupID:
		v, ok := p.readVarIntField()
		if !ok {
			return false, nil
		}
		p.header.SubgroupID = v
		p.phase = phaseSubgroupPriority
		return true, nil

	case phaseSubgroupPriority:
		if len(p.buf) < 1 {
			return false, nil
		}
		p.header.PublisherPriority = p.buf[0]
		p.buf = p.buf[1:]
		h := p.header
		p.events = append(p.events, &h)
		p.curGroup, p.curSubgroup = p.header.GroupID, p.header.SubgroupID
		p.phase = phaseObjectID
		return true, nil

	case phaseFetchSubscribeID:
		v, ok := p.readVarIntField()
		if !ok {
			return false, nil
		}
		p.fetchSubID = v
		id := v
		p.events = append(p.events, &id)
		p.phase = phaseObjectGroupID
		return true, nil

	case phaseObjectGroupID:
		v, ok := p.readVarIntField()
		if !ok {
			return false, nil
		}
		p.curGroup = v
		p.phase = phaseObjectSubgroupID
		return true, nil

	case phaseObjectSubgroupID:
		v, ok := p.readVarIntField()
		if !ok {
			return false, nil
		}
		p.curSubgroup = v
		p.phase = phaseObjectID
		return true, nil

	case phaseObjectID:
		v, ok := p.readVarIntField()
		if !ok {
			return false, nil
		}
		p.curObject = v
		if p.streamType == StreamTypeHeaderFetch {
			p.phase = phaseObjectPriority
		} else {
			p.phase = phasePayloadLength
		}
		return true, nil

	case phaseObjectPriority:
		if len(p.buf) < 1 {
			return false, nil
		}
		p.curPriority = p.buf[0]
		p.buf = p.buf[1:]
		p.phase = phasePayloadLength
		return true, nil

	case phasePayloadLength:
		v, ok := p.readVarIntField()
		if !ok {
			return false, nil
		}
		p.payloadLen = v
		p.phase = phaseObjectTail
		return true, nil

	case phaseObjectTail:
		return p.stepObjectTail()

	case phasePadding:
		p.buf = nil
		return false, nil
	}
	return false, nil
}

func (p *DataStreamParser) stepObjectTail() (bool, *ParsingError) {
	if p.payloadLen == 0 {
		if len(p.buf) == 0 {
			return false, nil
		}
		v, n, err := decodeVarInt(p.buf)
		if err != nil {
			return false, nil
		}
		status := ObjectStatus(v)
		if !status.valid() {
			return false, &ParsingError{Kind: ErrProtocolViolation, Reason: "invalid object status"}
		}
		p.buf = p.buf[n:]
		p.emitObject(status, nil)
		return true, nil
	}
	if uint64(len(p.buf)) < p.payloadLen {
		return false, nil
	}
	payload := p.buf[:p.payloadLen]
	p.buf = p.buf[p.payloadLen:]
	p.emitObject(ObjectStatusNormal, payload)
	return true, nil
}

func (p *DataStreamParser) emitObject(status ObjectStatus, payload []byte) {
	var subgroupID *uint64
	if p.streamType == StreamTypeHeaderSubgroup || p.streamType == StreamTypeHeaderFetch {
		sg := p.curSubgroup
		subgroupID = &sg
	}
	payloadCopy := append([]byte(nil), payload...)
	obj := &Object{
		TrackAlias:        p.header.TrackAlias,
		GroupID:           p.curGroup,
		ObjectID:          p.curObject,
		PublisherPriority: p.curPriority,
		ObjectStatus:      status,
		SubgroupID:        subgroupID,
		PayloadLength:     uint64(len(payloadCopy)),
		Payload:           payloadCopy,
	}
	if p.streamType == StreamTypeHeaderSubgroup {
		obj.PublisherPriority = p.header.PublisherPriority
	}
	p.events = append(p.events, obj)
	p.payloadLen = 0
	if p.streamType == StreamTypeHeaderFetch {
		p.phase = phaseObjectGroupID
	} else {
		p.phase = phaseObjectID
	}
}

func (p *DataStreamParser) readVarIntField() (uint64, bool) {
	if len(p.buf) == 0 {
		return 0, false
	}
	v, n, err := decodeVarInt(p.buf)
	if err != nil {
		return 0, false
	}
	p.buf = p.buf[n:]
	return v, true
}

// ParseDatagram parses one complete object datagram. Unlike
// DataStreamParser, a datagram carries its entire payload in one buffer,
// so this is a single pure function rather than a stateful parser.
func ParseDatagram(data []byte) (*Object, error) {
	r := newDataReader(data)
	streamType, err := r.readVarInt()
	if err != nil {
		return nil, &ParseError{"stream_type", err}
	}
	if DataStreamType(streamType) != StreamTypeObjectDatagram {
		return nil, &ParseError{"stream_type", ErrProtocolViolation}
	}
	obj := &Object{}
	if obj.TrackAlias, err = r.readVarInt(); err != nil {
		return nil, &ParseError{"track_alias", err}
	}
	if obj.GroupID, err = r.readVarInt(); err != nil {
		return nil, &ParseError{"group_id", err}
	}
	if obj.ObjectID, err = r.readVarInt(); err != nil {
		return nil, &ParseError{"object_id", err}
	}
	priority, err := r.readUint8()
	if err != nil {
		return nil, &ParseError{"publisher_priority", err}
	}
	obj.PublisherPriority = priority
	payloadLen, err := r.readVarInt()
	if err != nil {
		return nil, &ParseError{"payload_length", err}
	}
	obj.PayloadLength = payloadLen
	if payloadLen == 0 {
		status, err := r.readVarInt()
		if err != nil {
			return nil, &ParseError{"object_status", err}
		}
		obj.ObjectStatus = ObjectStatus(status)
		if !obj.ObjectStatus.valid() {
			return nil, &ParseError{"object_status", ErrProtocolViolation}
		}
	} else {
		payload, err := r.readBytes(int(payloadLen))
		if err != nil {
			return nil, &ParseError{"payload", err}
		}
		obj.ObjectStatus = ObjectStatusNormal
		obj.Payload = append([]byte(nil), payload...)
	}
	if r.remaining() != 0 {
		return nil, &ParseError{"datagram", ErrProtocolViolation}
	}
	return obj, nil
}
