package moqt

// This file holds the per-message decoders dispatched from
// ControlParser.decodeMessage, split out from parser.go purely for
// readability — every function here is part of the same control-parsing
// concern.

func decodeAnnounce(r *dataReader) (*Announce, error) {
	m := &Announce{}
	var err error
	if m.TrackNamespace, err = readTrackName(r, false); err != nil {
		return nil, err
	}
	if m.Params, err = readParamList(r, trackRequestIntParamKeys...); err != nil {
		return nil, err
	}
	if _, ok := findParam(m.Params, uint64(TrackParamDeliveryTimeout)); ok {
		return nil, &ParseError{"delivery_timeout", ErrProtocolViolation}
	}
	return m, nil
}

func decodeAnnounceOK(r *dataReader) (*AnnounceOK, error) {
	ns, err := readTrackName(r, false)
	if err != nil {
		return nil, err
	}
	return &AnnounceOK{TrackNamespace: ns}, nil
}

func decodeAnnounceError(r *dataReader) (*AnnounceError, error) {
	m := &AnnounceError{}
	var err error
	if m.TrackNamespace, err = readTrackName(r, false); err != nil {
		return nil, err
	}
	code, err := readVarIntField(r, "error_code")
	if err != nil {
		return nil, err
	}
	m.ErrorCode = AnnounceErrorCode(code)
	if m.Reason, err = readReasonField(r); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeUnannounce(r *dataReader) (*Unannounce, error) {
	ns, err := readTrackName(r, false)
	if err != nil {
		return nil, err
	}
	return &Unannounce{TrackNamespace: ns}, nil
}

func decodeUnsubscribe(r *dataReader) (*Unsubscribe, error) {
	id, err := readVarIntField(r, "subscribe_id")
	if err != nil {
		return nil, err
	}
	return &Unsubscribe{SubscribeID: id}, nil
}

func decodeSubscribeDone(r *dataReader) (*SubscribeDone, error) {
	m := &SubscribeDone{}
	var err error
	if m.SubscribeID, err = readVarIntField(r, "subscribe_id"); err != nil {
		return nil, err
	}
	status, err := readVarIntField(r, "status_code")
	if err != nil {
		return nil, err
	}
	m.StatusCode = SubscribeDoneCode(status)
	if m.Reason, err = readReasonField(r); err != nil {
		return nil, err
	}
	if m.ContentExists, err = readContentExistsByte(r); err != nil {
		return nil, err
	}
	if m.ContentExists {
		if m.FinalGroup, err = readVarIntField(r, "final_group"); err != nil {
			return nil, err
		}
		if m.FinalObject, err = readVarIntField(r, "final_object"); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func decodeAnnounceCancel(r *dataReader) (*AnnounceCancel, error) {
	m := &AnnounceCancel{}
	var err error
	if m.TrackNamespace, err = readTrackName(r, false); err != nil {
		return nil, err
	}
	code, err := readVarIntField(r, "error_code")
	if err != nil {
		return nil, err
	}
	m.ErrorCode = AnnounceErrorCode(code)
	if m.Reason, err = readReasonField(r); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeTrackStatusRequest(r *dataReader) (*TrackStatusRequest, error) {
	name, err := readTrackName(r, true)
	if err != nil {
		return nil, err
	}
	return &TrackStatusRequest{TrackName: name}, nil
}

func decodeTrackStatus(r *dataReader) (*TrackStatus, error) {
	m := &TrackStatus{}
	var err error
	if m.TrackName, err = readTrackName(r, true); err != nil {
		return nil, err
	}
	status, err := readVarIntField(r, "status_code")
	if err != nil {
		return nil, err
	}
	m.StatusCode = TrackStatusCode(status)
	if m.LastGroup, err = readVarIntField(r, "last_group"); err != nil {
		return nil, err
	}
	if m.LastObject, err = readVarIntField(r, "last_object"); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeGoAway(r *dataReader) (*GoAway, error) {
	b, err := r.readVarIntBytes()
	if err != nil {
		return nil, &ParseError{"new_session_uri", err}
	}
	return &GoAway{NewSessionURI: string(b)}, nil
}

func decodeSubscribeAnnounces(r *dataReader) (*SubscribeAnnounces, error) {
	m := &SubscribeAnnounces{}
	var err error
	if m.TrackNamespace, err = readTrackName(r, false); err != nil {
		return nil, err
	}
	if m.Params, err = readParamList(r, trackRequestIntParamKeys...); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeSubscribeAnnouncesOK(r *dataReader) (*SubscribeAnnouncesOK, error) {
	ns, err := readTrackName(r, false)
	if err != nil {
		return nil, err
	}
	return &SubscribeAnnouncesOK{TrackNamespace: ns}, nil
}

func decodeSubscribeAnnouncesError(r *dataReader) (*SubscribeAnnouncesError, error) {
	m := &SubscribeAnnouncesError{}
	var err error
	if m.TrackNamespace, err = readTrackName(r, false); err != nil {
		return nil, err
	}
	code, err := readVarIntField(r, "error_code")
	if err != nil {
		return nil, err
	}
	m.ErrorCode = AnnounceErrorCode(code)
	if m.Reason, err = readReasonField(r); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeUnsubscribeAnnounces(r *dataReader) (*UnsubscribeAnnounces, error) {
	ns, err := readTrackName(r, false)
	if err != nil {
		return nil, err
	}
	return &UnsubscribeAnnounces{TrackNamespace: ns}, nil
}

func decodeMaxSubscribeID(r *dataReader) (*MaxSubscribeID, error) {
	id, err := readVarIntField(r, "max_subscribe_id")
	if err != nil {
		return nil, err
	}
	return &MaxSubscribeID{MaxSubscribeID: id}, nil
}

func decodeFetch(r *dataReader) (*Fetch, error) {
	m := &Fetch{}
	var err error
	if m.SubscribeID, err = readVarIntField(r, "subscribe_id"); err != nil {
		return nil, err
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
	if m.StartGroup, err = readVarIntField(r, "start_group"); err != nil {
		return nil, err
	}
	if m.StartObject, err = readVarIntField(r, "start_object"); err != nil {
		return nil, err
	}
	if m.EndGroup, err = readVarIntField(r, "end_group"); err != nil {
		return nil, err
	}
	endObject, err := readVarIntField(r, "end_object")
	if err != nil {
		return nil, err
	}
	m.EndObject = unshiftOptional(endObject)
	if m.EndGroup < m.StartGroup {
		return nil, &ParseError{"end_group", ErrProtocolViolation}
	}
	if m.EndGroup == m.StartGroup && m.EndObject != nil && *m.EndObject < m.StartObject {
		return nil, &ParseError{"end_object", ErrProtocolViolation}
	}
	if m.Params, err = readParamList(r, trackRequestIntParamKeys...); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeFetchCancel(r *dataReader) (*FetchCancel, error) {
	id, err := readVarIntField(r, "subscribe_id")
	if err != nil {
		return nil, err
	}
	return &FetchCancel{SubscribeID: id}, nil
}

func decodeFetchOK(r *dataReader) (*FetchOK, error) {
	m := &FetchOK{}
	var err error
	if m.SubscribeID, err = readVarIntField(r, "subscribe_id"); err != nil {
		return nil, err
	}
	groupOrder, err := r.readUint8()
	if err != nil {
		return nil, &ParseError{"group_order", err}
	}
	m.GroupOrder = GroupOrder(groupOrder)
	if !m.GroupOrder.valid() {
		return nil, &ParseError{"group_order", ErrProtocolViolation}
	}
	if m.LargestGroup, err = readVarIntField(r, "largest_group"); err != nil {
		return nil, err
	}
	if m.LargestObject, err = readVarIntField(r, "largest_object"); err != nil {
		return nil, err
	}
	if m.Params, err = readParamList(r, trackRequestIntParamKeys...); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeFetchError(r *dataReader) (*FetchError, error) {
	m := &FetchError{}
	var err error
	if m.SubscribeID, err = readVarIntField(r, "subscribe_id"); err != nil {
		return nil, err
	}
	code, err := readVarIntField(r, "error_code")
	if err != nil {
		return nil, err
	}
	m.ErrorCode = SubscribeErrorCode(code)
	if m.Reason, err = readReasonField(r); err != nil {
		return nil, err
	}
	return m, nil
}

// decodeClientSetup applies the setup-parameter validation rules of §4.5:
// Role is required; Path is required over native QUIC and forbidden over
// WebTransport.
func (p *ControlParser) decodeClientSetup(r *dataReader) (*ClientSetup, error) {
	m := &ClientSetup{}
	count, err := readVarIntField(r, "version_count")
	if err != nil {
		return nil, err
	}
	m.Versions = make([]Version, count)
	for i := range m.Versions {
		v, err := readVarIntField(r, "version")
		if err != nil {
			return nil, err
		}
		m.Versions[i] = Version(v)
	}
	if m.Params, err = readParamList(r, setupIntParamKeys...); err != nil {
		return nil, err
	}
	roleBytes, hasRole := findParam(m.Params, uint64(SetupParamRole))
	if !hasRole {
		return nil, &ParseError{"role", ErrProtocolViolation}
	}
	role, err := decodeParamVarInt(roleBytes)
	if err != nil {
		return nil, &ParseError{"role", err}
	}
	if !Role(role).valid() {
		return nil, &ParseError{"role", ErrProtocolViolation}
	}
	_, hasPath := findParam(m.Params, uint64(SetupParamPath))
	if p.usingWebtrans && hasPath {
		return nil, &ParseError{"path", ErrProtocolViolation}
	}
	if !p.usingWebtrans && !hasPath {
		return nil, &ParseError{"path", ErrProtocolViolation}
	}
	if oackBytes, ok := findParam(m.Params, uint64(SetupParamSupportObjectAcks)); ok {
		flag, err := decodeParamVarInt(oackBytes)
		if err != nil {
			return nil, &ParseError{"support_object_acks", err}
		}
		if flag > 1 {
			return nil, &ParseError{"support_object_acks", ErrProtocolViolation}
		}
	}
	return m, nil
}

// decodeServerSetup applies the SERVER_SETUP setup-parameter rules: Role
// is required, Path is always forbidden.
func decodeServerSetup(r *dataReader) (*ServerSetup, error) {
	m := &ServerSetup{}
	version, err := readVarIntField(r, "selected_version")
	if err != nil {
		return nil, err
	}
	m.SelectedVersion = Version(version)
	if m.Params, err = readParamList(r, setupIntParamKeys...); err != nil {
		return nil, err
	}
	roleBytes, hasRole := findParam(m.Params, uint64(SetupParamRole))
	if !hasRole {
		return nil, &ParseError{"role", ErrProtocolViolation}
	}
	role, err := decodeParamVarInt(roleBytes)
	if err != nil {
		return nil, &ParseError{"role", err}
	}
	if !Role(role).valid() {
		return nil, &ParseError{"role", ErrProtocolViolation}
	}
	if _, hasPath := findParam(m.Params, uint64(SetupParamPath)); hasPath {
		return nil, &ParseError{"path", ErrProtocolViolation}
	}
	return m, nil
}

func decodeObjectAck(r *dataReader) (*ObjectAck, error) {
	m := &ObjectAck{}
	var err error
	if m.SubscribeID, err = readVarIntField(r, "subscribe_id"); err != nil {
		return nil, err
	}
	if m.GroupID, err = readVarIntField(r, "group_id"); err != nil {
		return nil, err
	}
	if m.ObjectID, err = readVarIntField(r, "object_id"); err != nil {
		return nil, err
	}
	delta, err := readVarIntField(r, "delta_from_deadline")
	if err != nil {
		return nil, err
	}
	m.DeltaFromDeadline = decodeSignedVarInt(delta)
	return m, nil
}
