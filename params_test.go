package moqt

import (
	"errors"
	"testing"
)

func TestParamListRoundTrip(t *testing.T) {
	t.Parallel()
	roleParam, err := encodeVarIntParam(uint64(SetupParamRole), uint64(RoleSubscriber))
	if err != nil {
		t.Fatal(err)
	}
	params := []Parameter{roleParam, {Key: uint64(SetupParamPath), Value: []byte("/moq")}}
	fields := paramFields(params)
	buf, err := frameFields(fields)
	if err != nil {
		t.Fatal(err)
	}
	r := newDataReader(buf)
	got, err := readParamList(r)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d params, want 2", len(got))
	}
	role, ok := findParam(got, uint64(SetupParamRole))
	if !ok {
		t.Fatal("missing role param")
	}
	v, err := decodeParamVarInt(role)
	if err != nil || Role(v) != RoleSubscriber {
		t.Fatalf("role: got %d err %v", v, err)
	}
}

func TestParamListDuplicateKeyRejected(t *testing.T) {
	t.Parallel()
	params := []Parameter{
		{Key: 1, Value: []byte("a")},
		{Key: 1, Value: []byte("b")},
	}
	buf, err := frameFields(paramFields(params))
	if err != nil {
		t.Fatal(err)
	}
	r := newDataReader(buf)
	if _, err := readParamList(r); err == nil {
		t.Fatal("expected duplicate-key error")
	}
}

func TestParamVarIntLengthMismatch(t *testing.T) {
	t.Parallel()
	// A 2-byte value whose inner varint only consumes 1 byte.
	if _, err := decodeParamVarInt([]byte{0x01, 0x00}); err != ErrParameterLengthMismatch {
		t.Fatalf("expected ErrParameterLengthMismatch, got %v", err)
	}
}

func TestReadParamListValidatesNamedIntKeys(t *testing.T) {
	t.Parallel()
	// delivery_timeout's declared length is 2 bytes, but the inner varint
	// it wraps only consumes 1.
	params := []Parameter{
		{Key: uint64(TrackParamDeliveryTimeout), Value: []byte{0x01, 0x00}},
	}
	buf, err := frameFields(paramFields(params))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := readParamList(newDataReader(buf), trackRequestIntParamKeys...); !errors.Is(err, ErrParameterLengthMismatch) {
		t.Fatalf("expected ErrParameterLengthMismatch, got %v", err)
	}
	// The same bytes are accepted when no integer-valued keys are named:
	// every value is then kept as opaque bytes, as for authorization_info.
	if _, err := readParamList(newDataReader(buf)); err != nil {
		t.Fatalf("unexpected error with no int keys: %v", err)
	}
}
