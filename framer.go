package moqt

// Framer serializes in-memory control and data messages to their wire
// images. It is stateless except for usingWebtrans, which suppresses the
// kPath setup parameter on CLIENT_SETUP, mirroring MoqtFramer's single
// using_webtrans field in the original source.
type Framer struct {
	usingWebtrans bool
}

// NewFramer constructs a Framer for a session using the given transport:
// usingWebtrans true means WebTransport (kPath is never emitted), false
// means native QUIC (kPath is emitted on CLIENT_SETUP when Path is set).
func NewFramer(usingWebtrans bool) *Framer {
	return &Framer{usingWebtrans: usingWebtrans}
}

func shiftedOptional(v *uint64) uint64 {
	if v == nil {
		return 0
	}
	return *v + 1
}

func trackNameFields(n FullTrackName) []wireType {
	elems := n.elements()
	fields := make([]wireType, 0, 1+len(elems))
	fields = append(fields, wireVarInt(uint64(len(elems))))
	for _, e := range elems {
		fields = append(fields, wireVarIntBytes([]byte(e)))
	}
	return fields
}

func reasonField(reason string) wireType {
	return wireVarIntBytes([]byte(reason))
}

// payloadTailFields renders [payload_length, (payload | object_status)] per
// §4.4: a zero-length payload is specially encoded as the object_status
// VarInt62 in place of payload bytes. Validity of status/payload is the
// caller's job, via Object.Validate.
func payloadTailFields(payload []byte, status ObjectStatus) []wireType {
	fields := []wireType{wireVarInt(uint64(len(payload)))}
	if len(payload) == 0 {
		fields = append(fields, wireVarInt(uint64(status)))
	} else {
		fields = append(fields, wireBytes(payload))
	}
	return fields
}

func (f *Framer) frame(msgType MessageType, payloadFields []wireType) ([]byte, error) {
	payload, err := frameFields(payloadFields)
	if err != nil {
		return nil, err
	}
	return frameFields([]wireType{wireVarInt(uint64(msgType)), wireVarIntBytes(payload)})
}

// SerializeSubscribeUpdate serializes a SUBSCRIBE_UPDATE message.
func (f *Framer) SerializeSubscribeUpdate(m SubscribeUpdate) ([]byte, error) {
	if m.EndGroup == nil && m.EndObject != nil {
		return nil, &FramerError{Field: "end_object", Err: ErrInvalidInput}
	}
	if _, ok := findParam(m.Params, uint64(TrackParamAuthorizationInfo)); ok {
		return nil, &FramerError{Field: "authorization_info", Err: ErrInvalidInput}
	}
	fields := []wireType{
		wireVarInt(m.SubscribeID),
		wireVarInt(m.StartGroup),
		wireVarInt(m.StartObject),
		wireVarInt(shiftedOptional(m.EndGroup)),
		wireVarInt(shiftedOptional(m.EndObject)),
		wireUint8(m.Priority),
	}
	fields = append(fields, paramFields(m.Params)...)
	return f.frame(MessageSubscribeUpdate, fields)
}

// validateSubscribeFilter checks the §3.4 derivation rule: the declared
// FilterType must be consistent with which range fields are present.
func validateSubscribeFilter(m Subscribe) error {
	if !m.FilterType.valid() {
		return &FramerError{Field: "filter_type", Err: ErrInvalidInput}
	}
	switch m.FilterType {
	case FilterLatestGroup, FilterLatestObject:
		if m.StartGroup != nil || m.StartObject != nil || m.EndGroup != nil || m.EndObject != nil {
			return &FramerError{Field: "filter_type", Err: ErrInvalidInput}
		}
	case FilterAbsoluteStart:
		if m.StartGroup == nil || m.StartObject == nil || m.EndGroup != nil || m.EndObject != nil {
			return &FramerError{Field: "filter_type", Err: ErrInvalidInput}
		}
	case FilterAbsoluteRange:
		if m.StartGroup == nil || m.StartObject == nil || m.EndGroup == nil {
			return &FramerError{Field: "filter_type", Err: ErrInvalidInput}
		}
		if *m.EndGroup < *m.StartGroup {
			return &FramerError{Field: "end_group", Err: ErrInvalidInput}
		}
		if *m.EndGroup == *m.StartGroup && m.EndObject != nil && *m.EndObject < *m.StartObject {
			return &FramerError{Field: "end_object", Err: ErrInvalidInput}
		}
	}
	return nil
}

// SerializeSubscribe serializes a SUBSCRIBE message.
func (f *Framer) SerializeSubscribe(m Subscribe) ([]byte, error) {
	if err := validateSubscribeFilter(m); err != nil {
		return nil, err
	}
	if !m.GroupOrder.validRequest() {
		return nil, &FramerError{Field: "group_order", Err: ErrInvalidInput}
	}
	fields := []wireType{wireVarInt(m.SubscribeID), wireVarInt(m.TrackAlias)}
	fields = append(fields, trackNameFields(m.TrackName)...)
	fields = append(fields,
		wireUint8(m.Priority),
		wireUint8(uint8(m.GroupOrder)),
		wireVarInt(uint64(m.FilterType)),
	)
	switch m.FilterType {
	case FilterAbsoluteStart:
		fields = append(fields, wireVarInt(*m.StartGroup), wireVarInt(*m.StartObject))
	case FilterAbsoluteRange:
		fields = append(fields,
			wireVarInt(*m.StartGroup), wireVarInt(*m.StartObject),
			wireVarInt(*m.EndGroup), wireVarInt(shiftedOptional(m.EndObject)),
		)
	}
	fields = append(fields, paramFields(m.Params)...)
	return f.frame(MessageSubscribe, fields)
}

// SerializeSubscribeOK serializes a SUBSCRIBE_OK message.
func (f *Framer) SerializeSubscribeOK(m SubscribeOK) ([]byte, error) {
	if _, ok := findParam(m.Params, uint64(TrackParamAuthorizationInfo)); ok {
		return nil, &FramerError{Field: "authorization_info", Err: ErrInvalidInput}
	}
	if !m.GroupOrder.valid() {
		return nil, &FramerError{Field: "group_order", Err: ErrInvalidInput}
	}
	contentExists := uint8(0)
	if m.ContentExists {
		contentExists = 1
	}
	fields := []wireType{
		wireVarInt(m.SubscribeID),
		wireVarInt(m.ExpiresMs),
		wireUint8(uint8(m.GroupOrder)),
		wireUint8(contentExists),
	}
	if m.ContentExists {
		fields = append(fields, wireVarInt(m.LargestGroup), wireVarInt(m.LargestObject))
	}
	fields = append(fields, paramFields(m.Params)...)
	return f.frame(MessageSubscribeOK, fields)
}

// SerializeSubscribeError serializes a SUBSCRIBE_ERROR message.
func (f *Framer) SerializeSubscribeError(m SubscribeError) ([]byte, error) {
	fields := []wireType{
		wireVarInt(m.SubscribeID),
		wireVarInt(uint64(m.ErrorCode)),
		reasonField(m.Reason),
		wireVarInt(m.TrackAlias),
	}
	return f.frame(MessageSubscribeError, fields)
}

// SerializeAnnounce serializes an ANNOUNCE message.
func (f *Framer) SerializeAnnounce(m Announce) ([]byte, error) {
	if _, ok := findParam(m.Params, uint64(TrackParamDeliveryTimeout)); ok {
		return nil, &FramerError{Field: "delivery_timeout", Err: ErrInvalidInput}
	}
	fields := trackNameFields(m.TrackNamespace)
	fields = append(fields, paramFields(m.Params)...)
	return f.frame(MessageAnnounce, fields)
}

// SerializeAnnounceOK serializes an ANNOUNCE_OK message.
func (f *Framer) SerializeAnnounceOK(m AnnounceOK) ([]byte, error) {
	return f.frame(MessageAnnounceOK, trackNameFields(m.TrackNamespace))
}

// SerializeAnnounceError serializes an ANNOUNCE_ERROR message.
func (f *Framer) SerializeAnnounceError(m AnnounceError) ([]byte, error) {
	fields := trackNameFields(m.TrackNamespace)
	fields = append(fields, wireVarInt(uint64(m.ErrorCode)), reasonField(m.Reason))
	return f.frame(MessageAnnounceError, fields)
}

// SerializeUnannounce serializes an UNANNOUNCE message.
func (f *Framer) SerializeUnannounce(m Unannounce) ([]byte, error) {
	return f.frame(MessageUnannounce, trackNameFields(m.TrackNamespace))
}

// SerializeUnsubscribe serializes an UNSUBSCRIBE message.
func (f *Framer) SerializeUnsubscribe(m Unsubscribe) ([]byte, error) {
	return f.frame(MessageUnsubscribe, []wireType{wireVarInt(m.SubscribeID)})
}

// SerializeSubscribeDone serializes a SUBSCRIBE_DONE message.
func (f *Framer) SerializeSubscribeDone(m SubscribeDone) ([]byte, error) {
	contentExists := uint8(0)
	if m.ContentExists {
		contentExists = 1
	}
	fields := []wireType{
		wireVarInt(m.SubscribeID),
		wireVarInt(uint64(m.StatusCode)),
		reasonField(m.Reason),
		wireUint8(contentExists),
	}
	if m.ContentExists {
		fields = append(fields, wireVarInt(m.FinalGroup), wireVarInt(m.FinalObject))
	}
	return f.frame(MessageSubscribeDone, fields)
}

// SerializeAnnounceCancel serializes an ANNOUNCE_CANCEL message.
func (f *Framer) SerializeAnnounceCancel(m AnnounceCancel) ([]byte, error) {
	fields := trackNameFields(m.TrackNamespace)
	fields = append(fields, wireVarInt(uint64(m.ErrorCode)), reasonField(m.Reason))
	return f.frame(MessageAnnounceCancel, fields)
}

// SerializeTrackStatusRequest serializes a TRACK_STATUS_REQUEST message.
func (f *Framer) SerializeTrackStatusRequest(m TrackStatusRequest) ([]byte, error) {
	return f.frame(MessageTrackStatusRequest, trackNameFields(m.TrackName))
}

// SerializeTrackStatus serializes a TRACK_STATUS message.
func (f *Framer) SerializeTrackStatus(m TrackStatus) ([]byte, error) {
	fields := trackNameFields(m.TrackName)
	fields = append(fields,
		wireVarInt(uint64(m.StatusCode)),
		wireVarInt(m.LastGroup),
		wireVarInt(m.LastObject),
	)
	return f.frame(MessageTrackStatus, fields)
}

// SerializeGoAway serializes a GOAWAY message.
func (f *Framer) SerializeGoAway(m GoAway) ([]byte, error) {
	return f.frame(MessageGoAway, []wireType{wireVarIntBytes([]byte(m.NewSessionURI))})
}

// SerializeSubscribeAnnounces serializes a SUBSCRIBE_ANNOUNCES message.
func (f *Framer) SerializeSubscribeAnnounces(m SubscribeAnnounces) ([]byte, error) {
	fields := trackNameFields(m.TrackNamespace)
	fields = append(fields, paramFields(m.Params)...)
	return f.frame(MessageSubscribeAnnounces, fields)
}

// SerializeSubscribeAnnouncesOK serializes a SUBSCRIBE_ANNOUNCES_OK message.
func (f *Framer) SerializeSubscribeAnnouncesOK(m SubscribeAnnouncesOK) ([]byte, error) {
	return f.frame(MessageSubscribeAnnouncesOK, trackNameFields(m.TrackNamespace))
}

// SerializeSubscribeAnnouncesError serializes a SUBSCRIBE_ANNOUNCES_ERROR
// message.
func (f *Framer) SerializeSubscribeAnnouncesError(m SubscribeAnnouncesError) ([]byte, error) {
	fields := trackNameFields(m.TrackNamespace)
	fields = append(fields, wireVarInt(uint64(m.ErrorCode)), reasonField(m.Reason))
	return f.frame(MessageSubscribeAnnouncesError, fields)
}

// SerializeUnsubscribeAnnounces serializes an UNSUBSCRIBE_ANNOUNCES message.
func (f *Framer) SerializeUnsubscribeAnnounces(m UnsubscribeAnnounces) ([]byte, error) {
	return f.frame(MessageUnsubscribeAnnounces, trackNameFields(m.TrackNamespace))
}

// SerializeMaxSubscribeID serializes a MAX_SUBSCRIBE_ID message.
func (f *Framer) SerializeMaxSubscribeID(m MaxSubscribeID) ([]byte, error) {
	return f.frame(MessageMaxSubscribeID, []wireType{wireVarInt(m.MaxSubscribeID)})
}

// SerializeFetch serializes a FETCH message.
func (f *Framer) SerializeFetch(m Fetch) ([]byte, error) {
	if m.EndGroup < m.StartGroup {
		return nil, &FramerError{Field: "end_group", Err: ErrInvalidInput}
	}
	if m.EndGroup == m.StartGroup && m.EndObject != nil && *m.EndObject < m.StartObject {
		return nil, &FramerError{Field: "end_object", Err: ErrInvalidInput}
	}
	if !m.GroupOrder.validRequest() {
		return nil, &FramerError{Field: "group_order", Err: ErrInvalidInput}
	}
	fields := []wireType{wireVarInt(m.SubscribeID)}
	fields = append(fields, trackNameFields(m.TrackName)...)
	fields = append(fields,
		wireUint8(m.Priority),
		wireUint8(uint8(m.GroupOrder)),
		wireVarInt(m.StartGroup), wireVarInt(m.StartObject),
		wireVarInt(m.EndGroup), wireVarInt(shiftedOptional(m.EndObject)),
	)
	fields = append(fields, paramFields(m.Params)...)
	return f.frame(MessageFetch, fields)
}

// SerializeFetchCancel serializes a FETCH_CANCEL message.
func (f *Framer) SerializeFetchCancel(m FetchCancel) ([]byte, error) {
	return f.frame(MessageFetchCancel, []wireType{wireVarInt(m.SubscribeID)})
}

// SerializeFetchOK serializes a FETCH_OK message.
func (f *Framer) SerializeFetchOK(m FetchOK) ([]byte, error) {
	if !m.GroupOrder.valid() {
		return nil, &FramerError{Field: "group_order", Err: ErrInvalidInput}
	}
	fields := []wireType{
		wireVarInt(m.SubscribeID),
		wireUint8(uint8(m.GroupOrder)),
		wireVarInt(m.LargestGroup),
		wireVarInt(m.LargestObject),
	}
	fields = append(fields, paramFields(m.Params)...)
	return f.frame(MessageFetchOK, fields)
}

// SerializeFetchError serializes a FETCH_ERROR message.
func (f *Framer) SerializeFetchError(m FetchError) ([]byte, error) {
	fields := []wireType{
		wireVarInt(m.SubscribeID),
		wireVarInt(uint64(m.ErrorCode)),
		reasonField(m.Reason),
	}
	return f.frame(MessageFetchError, fields)
}

// SerializeClientSetup serializes a CLIENT_SETUP message. When f is
// configured for WebTransport, any kPath parameter in m.Params is dropped.
func (f *Framer) SerializeClientSetup(m ClientSetup) ([]byte, error) {
	params := m.Params
	if f.usingWebtrans {
		filtered := make([]Parameter, 0, len(params))
		for _, p := range params {
			if p.Key == uint64(SetupParamPath) {
				continue
			}
			filtered = append(filtered, p)
		}
		params = filtered
	}
	fields := []wireType{wireVarInt(uint64(len(m.Versions)))}
	for _, v := range m.Versions {
		fields = append(fields, wireVarInt(uint64(v)))
	}
	fields = append(fields, paramFields(params)...)
	return f.frame(MessageClientSetup, fields)
}

// SerializeServerSetup serializes a SERVER_SETUP message.
func (f *Framer) SerializeServerSetup(m ServerSetup) ([]byte, error) {
	if _, ok := findParam(m.Params, uint64(SetupParamPath)); ok {
		return nil, &FramerError{Field: "path", Err: ErrInvalidInput}
	}
	fields := []wireType{wireVarInt(uint64(m.SelectedVersion))}
	fields = append(fields, paramFields(m.Params)...)
	return f.frame(MessageServerSetup, fields)
}

// SerializeObjectAck serializes an OBJECT_ACK message.
func (f *Framer) SerializeObjectAck(m ObjectAck) ([]byte, error) {
	fields := []wireType{
		wireVarInt(m.SubscribeID),
		wireVarInt(m.GroupID),
		wireVarInt(m.ObjectID),
		wireVarInt(encodeSignedVarInt(m.DeltaFromDeadline)),
	}
	return f.frame(MessageObjectAck, fields)
}

// StreamHeader is the leading, stream-lifetime metadata emitted once at
// the start of a subgroup stream, before any per-object fields.
type StreamHeader struct {
	TrackAlias        uint64
	GroupID           uint64
	SubgroupID        uint64
	PublisherPriority uint8
}

// SerializeSubgroupStreamHeader serializes the opening header of a subgroup
// stream (stream type kStreamHeaderSubgroup).
func (f *Framer) SerializeSubgroupStreamHeader(h StreamHeader) ([]byte, error) {
	fields := []wireType{
		wireVarInt(uint64(StreamTypeHeaderSubgroup)),
		wireVarInt(h.TrackAlias),
		wireVarInt(h.GroupID),
		wireVarInt(h.SubgroupID),
		wireUint8(h.PublisherPriority),
	}
	return frameFields(fields)
}

// SerializeSubgroupObject serializes one object on an already-headered
// subgroup stream: just the per-object fields.
func (f *Framer) SerializeSubgroupObject(objectID uint64, status ObjectStatus, payload []byte) ([]byte, error) {
	o := Object{ObjectID: objectID, ObjectStatus: status, PayloadLength: uint64(len(payload)), Payload: payload}
	if err := o.Validate(false); err != nil {
		return nil, err
	}
	fields := append([]wireType{wireVarInt(objectID)}, payloadTailFields(payload, status)...)
	return frameFields(fields)
}

// SerializeFetchStreamHeader serializes the opening header of a FETCH
// stream (stream type kStreamHeaderFetch).
func (f *Framer) SerializeFetchStreamHeader(subscribeID uint64) ([]byte, error) {
	fields := []wireType{
		wireVarInt(uint64(StreamTypeHeaderFetch)),
		wireVarInt(subscribeID),
	}
	return frameFields(fields)
}

// SerializeFetchObject serializes one object on a FETCH stream: unlike a
// subgroup stream, each object self-describes its full coordinates since a
// single FETCH stream can span multiple groups and subgroups.
func (f *Framer) SerializeFetchObject(groupID, subgroupID, objectID uint64, publisherPriority uint8, status ObjectStatus, payload []byte) ([]byte, error) {
	o := Object{
		GroupID: groupID, ObjectID: objectID, PublisherPriority: publisherPriority,
		ObjectStatus: status, SubgroupID: &subgroupID,
		PayloadLength: uint64(len(payload)), Payload: payload,
	}
	if err := o.Validate(true); err != nil {
		return nil, err
	}
	fields := []wireType{
		wireVarInt(groupID),
		wireVarInt(subgroupID),
		wireVarInt(objectID),
		wireUint8(publisherPriority),
	}
	fields = append(fields, payloadTailFields(payload, status)...)
	return frameFields(fields)
}

// SerializeDatagram serializes a complete object datagram: header and
// payload in one contiguous buffer.
func (f *Framer) SerializeDatagram(o Object) ([]byte, error) {
	if o.SubgroupID != nil {
		return nil, &FramerError{Field: "subgroup_id", Err: ErrInvalidInput}
	}
	if err := o.Validate(false); err != nil {
		return nil, err
	}
	fields := []wireType{
		wireVarInt(uint64(StreamTypeObjectDatagram)),
		wireVarInt(o.TrackAlias),
		wireVarInt(o.GroupID),
		wireVarInt(o.ObjectID),
		wireUint8(o.PublisherPriority),
	}
	fields = append(fields, payloadTailFields(o.Payload, o.ObjectStatus)...)
	return frameFields(fields)
}
