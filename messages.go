package moqt

import "fmt"

// MessageType is the VarInt62 type tag that opens every control message.
// Values are fixed by the wire format; decoders must reject unrecognized
// tags rather than rounding them to a default, per the closed-enum
// discipline observed throughout the original moqt_messages.rs.
type MessageType uint64

const (
	MessageSubscribeUpdate          MessageType = 0x02
	MessageSubscribe                MessageType = 0x03
	MessageSubscribeOK              MessageType = 0x04
	MessageSubscribeError           MessageType = 0x05
	MessageAnnounce                 MessageType = 0x06
	MessageAnnounceOK               MessageType = 0x07
	MessageAnnounceError            MessageType = 0x08
	MessageUnannounce               MessageType = 0x09
	MessageUnsubscribe              MessageType = 0x0a
	MessageSubscribeDone            MessageType = 0x0b
	MessageAnnounceCancel           MessageType = 0x0c
	MessageTrackStatusRequest       MessageType = 0x0d
	MessageTrackStatus              MessageType = 0x0e
	MessageGoAway                   MessageType = 0x10
	MessageSubscribeAnnounces       MessageType = 0x11
	MessageSubscribeAnnouncesOK     MessageType = 0x12
	MessageSubscribeAnnouncesError  MessageType = 0x13
	MessageUnsubscribeAnnounces     MessageType = 0x14
	MessageMaxSubscribeID           MessageType = 0x15
	MessageFetch                    MessageType = 0x16
	MessageFetchCancel              MessageType = 0x17
	MessageFetchOK                  MessageType = 0x18
	MessageFetchError               MessageType = 0x19
	MessageClientSetup              MessageType = 0x40
	MessageServerSetup              MessageType = 0x41
	MessageObjectAck                MessageType = 0x3184
)

func (t MessageType) String() string {
	switch t {
	case MessageSubscribeUpdate:
		return "SUBSCRIBE_UPDATE"
	case MessageSubscribe:
		return "SUBSCRIBE"
	case MessageSubscribeOK:
		return "SUBSCRIBE_OK"
	case MessageSubscribeError:
		return "SUBSCRIBE_ERROR"
	case MessageAnnounce:
		return "ANNOUNCE"
	case MessageAnnounceOK:
		return "ANNOUNCE_OK"
	case MessageAnnounceError:
		return "ANNOUNCE_ERROR"
	case MessageUnannounce:
		return "UNANNOUNCE"
	case MessageUnsubscribe:
		return "UNSUBSCRIBE"
	case MessageSubscribeDone:
		return "SUBSCRIBE_DONE"
	case MessageAnnounceCancel:
		return "ANNOUNCE_CANCEL"
	case MessageTrackStatusRequest:
		return "TRACK_STATUS_REQUEST"
	case MessageTrackStatus:
		return "TRACK_STATUS"
	case MessageGoAway:
		return "GOAWAY"
	case MessageSubscribeAnnounces:
		return "SUBSCRIBE_ANNOUNCES"
	case MessageSubscribeAnnouncesOK:
		return "SUBSCRIBE_ANNOUNCES_OK"
	case MessageSubscribeAnnouncesError:
		return "SUBSCRIBE_ANNOUNCES_ERROR"
	case MessageUnsubscribeAnnounces:
		return "UNSUBSCRIBE_ANNOUNCES"
	case MessageMaxSubscribeID:
		return "MAX_SUBSCRIBE_ID"
	case MessageFetch:
		return "FETCH"
	case MessageFetchCancel:
		return "FETCH_CANCEL"
	case MessageFetchOK:
		return "FETCH_OK"
	case MessageFetchError:
		return "FETCH_ERROR"
	case MessageClientSetup:
		return "CLIENT_SETUP"
	case MessageServerSetup:
		return "SERVER_SETUP"
	case MessageObjectAck:
		return "OBJECT_ACK"
	default:
		return fmt.Sprintf("MessageType(0x%x)", uint64(t))
	}
}

// DataStreamType tags a unidirectional data stream's framing. These share
// numeric space with control message tags but are never parsed on the
// control stream.
type DataStreamType uint64

const (
	StreamTypeObjectDatagram   DataStreamType = 0x01
	StreamTypeHeaderSubgroup   DataStreamType = 0x04
	StreamTypeHeaderFetch      DataStreamType = 0x05
	StreamTypePadding          DataStreamType = 0x26d3
)

// ForwardingPreference reports whether objects framed with this stream
// type belong to a datagram-oriented or subgroup-oriented track, mirroring
// MoqtDataStreamType::get_forwarding_preference in the original source.
func (t DataStreamType) ForwardingPreference() (ForwardingPreference, bool) {
	switch t {
	case StreamTypeObjectDatagram:
		return ForwardingPreferenceDatagram, true
	case StreamTypeHeaderSubgroup, StreamTypeHeaderFetch:
		return ForwardingPreferenceSubgroup, true
	default:
		return 0, false
	}
}

// ForwardingPreference distinguishes tracks delivered as one-object-per-
// datagram from tracks delivered over subgroup/fetch streams.
type ForwardingPreference uint8

const (
	ForwardingPreferenceSubgroup ForwardingPreference = iota
	ForwardingPreferenceDatagram
)

// Version is an MoQT negotiated version identifier.
type Version uint64

// DraftVersion is the draft-07 version id this package implements.
const DraftVersion Version = 0xff000007

// Role is the kRole setup parameter value.
type Role uint64

const (
	RolePublisher Role = 1
	RoleSubscriber Role = 2
	RolePubSub    Role = 3
)

func (r Role) valid() bool {
	return r == RolePublisher || r == RoleSubscriber || r == RolePubSub
}

// GroupOrder selects whether newer or older groups are prioritized for
// delivery, and orients the priority ordering function's group comparison.
type GroupOrder uint8

const (
	// GroupOrderDefault is the request-side "no preference" value: a
	// SUBSCRIBE/FETCH may leave group_order unset, deferring the choice to
	// the publisher. It is never legal on a response.
	GroupOrderDefault    GroupOrder = 0x00
	GroupOrderAscending  GroupOrder = 0x01
	GroupOrderDescending GroupOrder = 0x02
)

// valid reports whether o is a legal response-side group_order, as carried
// by SUBSCRIBE_OK/FETCH_OK (moqt_messages.rs's non-optional
// MoqtDeliveryOrder field, decoded via the stricter try_from).
func (o GroupOrder) valid() bool {
	return o == GroupOrderAscending || o == GroupOrderDescending
}

// validRequest reports whether o is a legal request-side group_order, as
// carried by SUBSCRIBE/FETCH (moqt_messages.rs's Option<MoqtDeliveryOrder>
// field): GroupOrderDefault additionally means "no preference".
func (o GroupOrder) validRequest() bool {
	return o == GroupOrderDefault || o == GroupOrderAscending || o == GroupOrderDescending
}

// FilterType selects how a SUBSCRIBE's requested range is encoded.
type FilterType uint64

const (
	FilterLatestGroup   FilterType = 1
	FilterLatestObject  FilterType = 2
	FilterAbsoluteStart FilterType = 3
	FilterAbsoluteRange FilterType = 4
)

func (f FilterType) valid() bool {
	switch f {
	case FilterLatestGroup, FilterLatestObject, FilterAbsoluteStart, FilterAbsoluteRange:
		return true
	default:
		return false
	}
}

// ObjectStatus is carried on objects whose payload is empty; it reports
// why, or that the payload is a normal (non-empty) object.
type ObjectStatus uint64

const (
	ObjectStatusNormal            ObjectStatus = 0
	ObjectStatusDoesNotExist      ObjectStatus = 1
	ObjectStatusGroupDoesNotExist ObjectStatus = 2
	ObjectStatusEndOfGroup        ObjectStatus = 3
	ObjectStatusEndOfTrack        ObjectStatus = 4
	ObjectStatusEndOfSubgroup     ObjectStatus = 5
)

func (s ObjectStatus) valid() bool {
	return s <= ObjectStatusEndOfSubgroup
}

// SubscribeDoneCode is the status_code field of SUBSCRIBE_DONE.
type SubscribeDoneCode uint64

const (
	SubscribeDoneUnsubscribed       SubscribeDoneCode = 0x0
	SubscribeDoneInternalError      SubscribeDoneCode = 0x1
	SubscribeDoneUnauthorized       SubscribeDoneCode = 0x2
	SubscribeDoneTrackEnded         SubscribeDoneCode = 0x3
	SubscribeDoneSubscriptionEnded  SubscribeDoneCode = 0x4
	SubscribeDoneGoingAway          SubscribeDoneCode = 0x5
	SubscribeDoneExpired            SubscribeDoneCode = 0x6
)

// TrackStatusCode is the status_code field of TRACK_STATUS.
type TrackStatusCode uint64

const (
	TrackStatusInProgress     TrackStatusCode = 0x0
	TrackStatusDoesNotExist   TrackStatusCode = 0x1
	TrackStatusNotStarted     TrackStatusCode = 0x2
	TrackStatusFinished       TrackStatusCode = 0x3
	TrackStatusUnknown        TrackStatusCode = 0x4
)

// ImpliesHavingData reports whether this status implies the publisher has
// at least one object to deliver, mirroring
// does_track_status_imply_having_data in the original source.
func (c TrackStatusCode) ImpliesHavingData() bool {
	return c == TrackStatusInProgress || c == TrackStatusFinished
}

// AnnounceErrorCode is carried by ANNOUNCE_ERROR / ANNOUNCE_CANCEL /
// SUBSCRIBE_ANNOUNCES_ERROR.
type AnnounceErrorCode uint64

const (
	AnnounceErrorInternalError   AnnounceErrorCode = 0x0
	AnnounceErrorUnauthorized    AnnounceErrorCode = 0x1
	AnnounceErrorTimeout         AnnounceErrorCode = 0x2
	AnnounceErrorNotSupported    AnnounceErrorCode = 0x3
	AnnounceErrorUninterested    AnnounceErrorCode = 0x4
)

// SubscribeErrorCode is carried by SUBSCRIBE_ERROR / FETCH_ERROR.
type SubscribeErrorCode uint64

const (
	SubscribeErrorInternalError       SubscribeErrorCode = 0x0
	SubscribeErrorInvalidRange        SubscribeErrorCode = 0x1
	SubscribeErrorRetryTrackAlias     SubscribeErrorCode = 0x2
	SubscribeErrorTrackDoesNotExist   SubscribeErrorCode = 0x3
	SubscribeErrorUnauthorized        SubscribeErrorCode = 0x4
	SubscribeErrorTimeout             SubscribeErrorCode = 0x5
)

// ErrorCode is the protocol-level reset/close code carried on GOAWAY-
// adjacent session teardown, reserved per §7 of the specification; the
// core transports these verbatim without raising them itself.
type ErrorCode uint64

const (
	ErrorCodeInternalError        ErrorCode = 0x0
	ErrorCodeUnauthorized         ErrorCode = 0x1
	ErrorCodeProtocolViolation    ErrorCode = 0x2
	ErrorCodeDuplicateTrackAlias  ErrorCode = 0x3
	ErrorCodeParameterLengthMismatch ErrorCode = 0x4
	ErrorCodeTooManySubscribes    ErrorCode = 0x5
	ErrorCodeGoawayTimeout        ErrorCode = 0x10
)

// FullTrackName is a tuple of name elements: every element but the last is
// a namespace component, and the last (when HasName is true) is the track
// name itself; Name is not serialized when HasName is false. A namespace-only tuple (as
// serialized by ANNOUNCE and friends) carries HasName = false.
type FullTrackName struct {
	Namespace []string
	Name      string
	HasName   bool
}

// NewFullTrackName builds a track name from a namespace tuple and a track
// name, mirroring FullTrackName::new_with_namespace_and_name.
func NewFullTrackName(namespace []string, name string) FullTrackName {
	ns := make([]string, len(namespace))
	copy(ns, namespace)
	return FullTrackName{Namespace: ns, Name: name, HasName: true}
}

// NewNamespace builds a namespace-only tuple, as carried by ANNOUNCE,
// UNANNOUNCE, and SUBSCRIBE_ANNOUNCES.
func NewNamespace(namespace []string) FullTrackName {
	ns := make([]string, len(namespace))
	copy(ns, namespace)
	return FullTrackName{Namespace: ns}
}

// elements returns the tuple exactly as it appears on the wire: the
// namespace components followed by the track name when present.
func (n FullTrackName) elements() []string {
	if !n.HasName {
		return n.Namespace
	}
	elems := make([]string, 0, len(n.Namespace)+1)
	elems = append(elems, n.Namespace...)
	elems = append(elems, n.Name)
	return elems
}

// InNamespace reports whether other's namespace is a prefix of (or equal
// to) this track's namespace, the containment check a caller's ANNOUNCE or
// SUBSCRIBE_ANNOUNCES matching logic needs. Grounded directly in
// FullTrackName::in_namespace of the original Rust source.
func (n FullTrackName) InNamespace(other FullTrackName) bool {
	if len(other.Namespace) > len(n.Namespace) {
		return false
	}
	for i, e := range other.Namespace {
		if n.Namespace[i] != e {
			return false
		}
	}
	return true
}

// FullSequence identifies an object's position within a track: group,
// subgroup, and object id. Comparison for ordering purposes considers only
// group and object, matching the original's PartialOrd impl.
type FullSequence struct {
	Group    uint64
	Subgroup uint64
	Object   uint64
}

// Less reports whether s identifies an earlier position than other,
// comparing group first and then object, ignoring subgroup.
func (s FullSequence) Less(other FullSequence) bool {
	if s.Group != other.Group {
		return s.Group < other.Group
	}
	return s.Object < other.Object
}
