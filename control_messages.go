package moqt

// The structs below are the in-memory form of every control message in the
// §3.3 catalog. Optional range fields use *uint64: nil means "not present
// on the wire" — the framer and parser translate that to/from the shifted
// (+1 / 0-for-open) wire encoding described in §3.4.

// SubscribeUpdate is MessageSubscribeUpdate (0x02).
type SubscribeUpdate struct {
	SubscribeID uint64
	StartGroup  uint64
	StartObject uint64
	EndGroup    *uint64
	EndObject   *uint64
	Priority    uint8
	Params      []Parameter
}

// Subscribe is MessageSubscribe (0x03).
type Subscribe struct {
	SubscribeID uint64
	TrackAlias  uint64
	TrackName   FullTrackName
	Priority    uint8
	GroupOrder  GroupOrder
	FilterType  FilterType
	StartGroup  *uint64
	StartObject *uint64
	EndGroup    *uint64
	EndObject   *uint64
	Params      []Parameter
}

// SubscribeOK is MessageSubscribeOK (0x04).
type SubscribeOK struct {
	SubscribeID   uint64
	ExpiresMs     uint64
	GroupOrder    GroupOrder
	ContentExists bool
	LargestGroup  uint64
	LargestObject uint64
	Params        []Parameter
}

// SubscribeError is MessageSubscribeError (0x05).
type SubscribeError struct {
	SubscribeID uint64
	ErrorCode   SubscribeErrorCode
	Reason      string
	TrackAlias  uint64
}

// Announce is MessageAnnounce (0x06).
type Announce struct {
	TrackNamespace FullTrackName
	Params         []Parameter
}

// AnnounceOK is MessageAnnounceOK (0x07).
type AnnounceOK struct {
	TrackNamespace FullTrackName
}

// AnnounceError is MessageAnnounceError (0x08).
type AnnounceError struct {
	TrackNamespace FullTrackName
	ErrorCode      AnnounceErrorCode
	Reason         string
}

// Unannounce is MessageUnannounce (0x09).
type Unannounce struct {
	TrackNamespace FullTrackName
}

// Unsubscribe is MessageUnsubscribe (0x0a).
type Unsubscribe struct {
	SubscribeID uint64
}

// SubscribeDone is MessageSubscribeDone (0x0b).
type SubscribeDone struct {
	SubscribeID   uint64
	StatusCode    SubscribeDoneCode
	Reason        string
	ContentExists bool
	FinalGroup    uint64
	FinalObject   uint64
}

// AnnounceCancel is MessageAnnounceCancel (0x0c).
type AnnounceCancel struct {
	TrackNamespace FullTrackName
	ErrorCode      AnnounceErrorCode
	Reason         string
}

// TrackStatusRequest is MessageTrackStatusRequest (0x0d).
type TrackStatusRequest struct {
	TrackName FullTrackName
}

// TrackStatus is MessageTrackStatus (0x0e).
type TrackStatus struct {
	TrackName   FullTrackName
	StatusCode  TrackStatusCode
	LastGroup   uint64
	LastObject  uint64
}

// GoAway is MessageGoAway (0x10).
type GoAway struct {
	NewSessionURI string
}

// SubscribeAnnounces is MessageSubscribeAnnounces (0x11).
type SubscribeAnnounces struct {
	TrackNamespace FullTrackName
	Params         []Parameter
}

// SubscribeAnnouncesOK is MessageSubscribeAnnouncesOK (0x12).
type SubscribeAnnouncesOK struct {
	TrackNamespace FullTrackName
}

// SubscribeAnnouncesError is MessageSubscribeAnnouncesError (0x13).
type SubscribeAnnouncesError struct {
	TrackNamespace FullTrackName
	ErrorCode      AnnounceErrorCode
	Reason         string
}

// UnsubscribeAnnounces is MessageUnsubscribeAnnounces (0x14).
type UnsubscribeAnnounces struct {
	TrackNamespace FullTrackName
}

// MaxSubscribeID is MessageMaxSubscribeID (0x15).
type MaxSubscribeID struct {
	MaxSubscribeID uint64
}

// Fetch is MessageFetch (0x16). EndObject nil means the range is open
// ended within EndGroup.
type Fetch struct {
	SubscribeID uint64
	TrackName   FullTrackName
	Priority    uint8
	GroupOrder  GroupOrder
	StartGroup  uint64
	StartObject uint64
	EndGroup    uint64
	EndObject   *uint64
	Params      []Parameter
}

// FetchCancel is MessageFetchCancel (0x17).
type FetchCancel struct {
	SubscribeID uint64
}

// FetchOK is MessageFetchOK (0x18).
type FetchOK struct {
	SubscribeID   uint64
	GroupOrder    GroupOrder
	LargestGroup  uint64
	LargestObject uint64
	Params        []Parameter
}

// FetchError is MessageFetchError (0x19).
type FetchError struct {
	SubscribeID uint64
	ErrorCode   SubscribeErrorCode
	Reason      string
}

// ClientSetup is MessageClientSetup (0x40).
type ClientSetup struct {
	Versions []Version
	Params   []Parameter
}

// ServerSetup is MessageServerSetup (0x41).
type ServerSetup struct {
	SelectedVersion Version
	Params          []Parameter
}

// ObjectAck is MessageObjectAck (0x3184), the QUICHE extension
// acknowledgment. DeltaFromDeadline is in microseconds and may be negative.
type ObjectAck struct {
	SubscribeID       uint64
	GroupID           uint64
	ObjectID          uint64
	DeltaFromDeadline int64
}
