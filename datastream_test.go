package moqt

import "testing"

func TestDataStreamSubgroupHeaderAndObject(t *testing.T) {
	t.Parallel()
	f := NewFramer(false)
	header, err := f.SerializeSubgroupStreamHeader(StreamHeader{
		TrackAlias: 4, GroupID: 5, SubgroupID: 8, PublisherPriority: 7,
	})
	if err != nil {
		t.Fatal(err)
	}
	obj, err := f.SerializeSubgroupObject(6, ObjectStatusNormal, []byte("bar"))
	if err != nil {
		t.Fatal(err)
	}

	p := NewDataStreamParser()
	p.ProcessData(append(header, obj...), true)
	if p.Err() != nil {
		t.Fatalf("unexpected error: %v", p.Err())
	}
	events := p.DrainEvents()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2: %#v", len(events), events)
	}
	hdr, ok := events[0].(*StreamHeader)
	if !ok || hdr.TrackAlias != 4 || hdr.GroupID != 5 || hdr.SubgroupID != 8 || hdr.PublisherPriority != 7 {
		t.Fatalf("header: got %#v", events[0])
	}
	object, ok := events[1].(*Object)
	if !ok {
		t.Fatalf("object: got %T", events[1])
	}
	if object.GroupID != 5 || object.ObjectID != 6 || string(object.Payload) != "bar" {
		t.Fatalf("object: got %+v", object)
	}
	if object.SubgroupID == nil || *object.SubgroupID != 8 {
		t.Fatalf("object subgroup id: got %+v", object.SubgroupID)
	}
}

func TestDataStreamZeroLengthPayload(t *testing.T) {
	t.Parallel()
	f := NewFramer(false)
	header, err := f.SerializeSubgroupStreamHeader(StreamHeader{TrackAlias: 1, GroupID: 1, SubgroupID: 0, PublisherPriority: 0})
	if err != nil {
		t.Fatal(err)
	}
	obj, err := f.SerializeSubgroupObject(0, ObjectStatusEndOfGroup, nil)
	if err != nil {
		t.Fatal(err)
	}
	p := NewDataStreamParser()
	p.ProcessData(append(header, obj...), true)
	if p.Err() != nil {
		t.Fatalf("unexpected error: %v", p.Err())
	}
	events := p.DrainEvents()
	object := events[1].(*Object)
	if object.ObjectStatus != ObjectStatusEndOfGroup || len(object.Payload) != 0 {
		t.Fatalf("got %+v", object)
	}
}

func TestDataStreamFinMidObjectIsViolation(t *testing.T) {
	t.Parallel()
	f := NewFramer(false)
	header, err := f.SerializeSubgroupStreamHeader(StreamHeader{TrackAlias: 1, GroupID: 1, SubgroupID: 0, PublisherPriority: 0})
	if err != nil {
		t.Fatal(err)
	}
	obj, err := f.SerializeSubgroupObject(0, ObjectStatusNormal, []byte("hello"))
	if err != nil {
		t.Fatal(err)
	}
	partial := append(header, obj[:len(obj)-2]...)
	p := NewDataStreamParser()
	p.ProcessData(partial, true)
	if p.Err() == nil {
		t.Fatal("expected a FIN-mid-object error")
	}
}

func TestParseDatagram(t *testing.T) {
	t.Parallel()
	f := NewFramer(false)
	buf, err := f.SerializeDatagram(Object{
		TrackAlias: 1, GroupID: 2, ObjectID: 3, PublisherPriority: 9,
		ObjectStatus: ObjectStatusNormal, PayloadLength: 3, Payload: []byte("abc"),
	})
	if err != nil {
		t.Fatal(err)
	}
	obj, err := ParseDatagram(buf)
	if err != nil {
		t.Fatal(err)
	}
	if obj.GroupID != 2 || obj.ObjectID != 3 || string(obj.Payload) != "abc" {
		t.Fatalf("got %+v", obj)
	}
}

func TestDataStreamPaddingDiscardsBytes(t *testing.T) {
	t.Parallel()
	p := NewDataStreamParser()
	header, err := appendVarInt(nil, uint64(StreamTypePadding))
	if err != nil {
		t.Fatal(err)
	}
	p.ProcessData(append(header, []byte{1, 2, 3, 4, 5}...), true)
	if p.Err() != nil {
		t.Fatalf("unexpected error: %v", p.Err())
	}
	if len(p.DrainEvents()) != 0 {
		t.Fatal("padding stream should emit no object events")
	}
}
