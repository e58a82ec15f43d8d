package moqt

// Object is the in-memory form of MoqtObject: the metadata and payload of
// one object delivered on a subgroup, fetch, or datagram stream.
type Object struct {
	TrackAlias        uint64
	GroupID           uint64
	ObjectID          uint64
	PublisherPriority uint8
	ObjectStatus      ObjectStatus
	// SubgroupID is present iff the containing stream type is subgroup or
	// fetch (datagrams carry no subgroup id).
	SubgroupID     *uint64
	PayloadLength  uint64
	Payload        []byte
}

// Validate checks the §3.5 validity invariant: a non-normal status implies
// an empty payload, and a subgroup-bearing stream requires SubgroupID.
func (o Object) Validate(requireSubgroup bool) error {
	if !o.ObjectStatus.valid() {
		return &FramerError{Field: "object_status", Err: ErrInvalidInput}
	}
	if o.ObjectStatus != ObjectStatusNormal && o.PayloadLength != 0 {
		return &FramerError{Field: "payload_length", Err: ErrInvalidInput}
	}
	if requireSubgroup && o.SubgroupID == nil {
		return &FramerError{Field: "subgroup_id", Err: ErrInvalidInput}
	}
	if uint64(len(o.Payload)) != o.PayloadLength {
		return &FramerError{Field: "payload_length", Err: ErrInvalidInput}
	}
	return nil
}
