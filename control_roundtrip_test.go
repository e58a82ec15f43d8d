package moqt

import (
	"reflect"
	"testing"
)

func parseOne(t *testing.T, usingWebtrans bool, frame []byte) any {
	t.Helper()
	p := NewControlParser(usingWebtrans)
	p.ProcessData(frame, false)
	if p.Err() != nil {
		t.Fatalf("parse error: %v", p.Err())
	}
	events := p.DrainEvents()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1: %#v", len(events), events)
	}
	return events[0]
}

func TestFramerParserRoundTrip(t *testing.T) {
	t.Parallel()
	f := NewFramer(false)

	t.Run("Unsubscribe", func(t *testing.T) {
		t.Parallel()
		m := Unsubscribe{SubscribeID: 3}
		buf, err := f.SerializeUnsubscribe(m)
		if err != nil {
			t.Fatal(err)
		}
		want := []byte{0x0a, 0x01, 0x03}
		if !reflect.DeepEqual(buf, want) {
			t.Fatalf("got %x want %x", buf, want)
		}
		got := parseOne(t, false, buf).(*Unsubscribe)
		if *got != m {
			t.Errorf("got %+v want %+v", *got, m)
		}
	})

	t.Run("SubscribeDone_noContent", func(t *testing.T) {
		t.Parallel()
		m := SubscribeDone{SubscribeID: 2, StatusCode: SubscribeDoneTrackEnded, Reason: "hi"}
		buf, err := f.SerializeSubscribeDone(m)
		if err != nil {
			t.Fatal(err)
		}
		got := parseOne(t, false, buf).(*SubscribeDone)
		if !reflect.DeepEqual(*got, m) {
			t.Errorf("got %+v want %+v", *got, m)
		}
	})

	t.Run("SubscribeDone_withContent", func(t *testing.T) {
		t.Parallel()
		m := SubscribeDone{
			SubscribeID: 2, StatusCode: SubscribeDoneTrackEnded, Reason: "hi",
			ContentExists: true, FinalGroup: 8, FinalObject: 12,
		}
		buf, err := f.SerializeSubscribeDone(m)
		if err != nil {
			t.Fatal(err)
		}
		got := parseOne(t, false, buf).(*SubscribeDone)
		if !reflect.DeepEqual(*got, m) {
			t.Errorf("got %+v want %+v", *got, m)
		}
	})

	t.Run("ServerSetup", func(t *testing.T) {
		t.Parallel()
		roleParam, err := encodeVarIntParam(uint64(SetupParamRole), uint64(RolePubSub))
		if err != nil {
			t.Fatal(err)
		}
		m := ServerSetup{SelectedVersion: DraftVersion, Params: []Parameter{roleParam}}
		buf, err := f.SerializeServerSetup(m)
		if err != nil {
			t.Fatal(err)
		}
		got := parseOne(t, false, buf).(*ServerSetup)
		if got.SelectedVersion != m.SelectedVersion {
			t.Errorf("version: got %v want %v", got.SelectedVersion, m.SelectedVersion)
		}
		role, ok := findParam(got.Params, uint64(SetupParamRole))
		if !ok {
			t.Fatal("missing role param")
		}
		v, err := decodeParamVarInt(role)
		if err != nil || Role(v) != RolePubSub {
			t.Errorf("role: got %v err %v", v, err)
		}
	})

	t.Run("Subscribe_absoluteRange", func(t *testing.T) {
		t.Parallel()
		sg, so, eg := uint64(5), uint64(0), uint64(9)
		m := Subscribe{
			SubscribeID: 1, TrackAlias: 2,
			TrackName:  NewFullTrackName([]string{"live"}, "cam1"),
			Priority:   10, GroupOrder: GroupOrderAscending,
			FilterType: FilterAbsoluteRange,
			StartGroup: &sg, StartObject: &so, EndGroup: &eg,
		}
		buf, err := f.SerializeSubscribe(m)
		if err != nil {
			t.Fatal(err)
		}
		got := parseOne(t, false, buf).(*Subscribe)
		if got.SubscribeID != m.SubscribeID || got.TrackAlias != m.TrackAlias {
			t.Errorf("ids: got %+v", got)
		}
		if got.TrackName.Name != "cam1" || len(got.TrackName.Namespace) != 1 || got.TrackName.Namespace[0] != "live" {
			t.Errorf("track name: got %+v", got.TrackName)
		}
		if got.FilterType != FilterAbsoluteRange || *got.EndGroup != eg || got.EndObject != nil {
			t.Errorf("filter: got %+v", got)
		}
	})

	t.Run("Announce_namespaceOnly", func(t *testing.T) {
		t.Parallel()
		m := Announce{TrackNamespace: NewNamespace([]string{"a", "b"})}
		buf, err := f.SerializeAnnounce(m)
		if err != nil {
			t.Fatal(err)
		}
		got := parseOne(t, false, buf).(*Announce)
		if got.TrackNamespace.HasName {
			t.Errorf("expected namespace-only, got HasName=true")
		}
		if len(got.TrackNamespace.Namespace) != 2 {
			t.Errorf("got %+v", got.TrackNamespace)
		}
	})
}

func TestAnnounceOKLengthMismatch(t *testing.T) {
	t.Parallel()
	// type 0x07 ANNOUNCE_OK, declared length 5. The namespace tuple declares
	// count 2, and its first element's length prefix (0x66 0x6f, a 2-byte
	// varint) asks for far more bytes than the 5-byte payload holds.
	frame := []byte{0x07, 0x05, 0x02, 0x66, 0x6f, 0x6f, 0x00}
	p := NewControlParser(false)
	p.ProcessData(frame, false)
	if p.Err() == nil {
		t.Fatal("expected a parse error")
	}
}

func TestControlParserConcatenatedMessages(t *testing.T) {
	t.Parallel()
	f := NewFramer(false)
	a, err := f.SerializeUnsubscribe(Unsubscribe{SubscribeID: 1})
	if err != nil {
		t.Fatal(err)
	}
	b, err := f.SerializeFetchCancel(FetchCancel{SubscribeID: 2})
	if err != nil {
		t.Fatal(err)
	}
	p := NewControlParser(false)
	p.ProcessData(append(append([]byte{}, a...), b...), false)
	if p.Err() != nil {
		t.Fatalf("unexpected error: %v", p.Err())
	}
	events := p.DrainEvents()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if _, ok := events[0].(*Unsubscribe); !ok {
		t.Errorf("event 0: got %T", events[0])
	}
	if _, ok := events[1].(*FetchCancel); !ok {
		t.Errorf("event 1: got %T", events[1])
	}
}

func TestControlParserPartialDelivery(t *testing.T) {
	t.Parallel()
	f := NewFramer(false)
	frame, err := f.SerializeUnsubscribe(Unsubscribe{SubscribeID: 42})
	if err != nil {
		t.Fatal(err)
	}
	p := NewControlParser(false)
	for i := 0; i < len(frame); i++ {
		p.ProcessData(frame[i:i+1], false)
	}
	if p.Err() != nil {
		t.Fatalf("unexpected error: %v", p.Err())
	}
	events := p.DrainEvents()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	got, ok := events[0].(*Unsubscribe)
	if !ok || got.SubscribeID != 42 {
		t.Errorf("got %#v", events[0])
	}
}

func TestControlParserFinAfterIncompleteMessage(t *testing.T) {
	t.Parallel()
	p := NewControlParser(false)
	p.ProcessData([]byte{0x0a, 0x05, 0x03}, true)
	if p.Err() == nil {
		t.Fatal("expected a parse error")
	}
}

func TestSubscribeMalformedDeliveryTimeoutRejected(t *testing.T) {
	t.Parallel()
	f := NewFramer(false)
	sg, so := uint64(0), uint64(0)
	m := Subscribe{
		SubscribeID: 1, TrackAlias: 2,
		TrackName:   NewFullTrackName([]string{"live"}, "cam1"),
		GroupOrder:  GroupOrderAscending,
		FilterType:  FilterAbsoluteStart,
		StartGroup:  &sg, StartObject: &so,
		// delivery_timeout declares a 2-byte value but wraps a varint that
		// only consumes 1 byte: malformed per spec.md §9's uniform check.
		Params: []Parameter{{Key: uint64(TrackParamDeliveryTimeout), Value: []byte{0x01, 0x00}}},
	}
	buf, err := f.SerializeSubscribe(m)
	if err != nil {
		t.Fatal(err)
	}
	p := NewControlParser(false)
	p.ProcessData(buf, false)
	if p.Err() == nil {
		t.Fatal("expected a parse error for malformed delivery_timeout")
	}
}

func TestControlParserReentrancyIsNoOp(t *testing.T) {
	t.Parallel()
	f := NewFramer(false)
	frame, err := f.SerializeUnsubscribe(Unsubscribe{SubscribeID: 1})
	if err != nil {
		t.Fatal(err)
	}
	p := NewControlParser(false)
	p.processing = true
	p.ProcessData(frame, false)
	if len(p.buf) != 0 {
		t.Fatalf("re-entrant call grew the buffer: %d bytes", len(p.buf))
	}
	if len(p.events) != 0 {
		t.Fatalf("re-entrant call emitted events")
	}
}
