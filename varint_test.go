package moqt

import "testing"

func TestVarIntRoundTrip(t *testing.T) {
	t.Parallel()
	cases := []uint64{0, 1, 63, 64, 16383, 16384, 1073741823, 1073741824, varIntMax}
	for _, v := range cases {
		v := v
		t.Run("", func(t *testing.T) {
			t.Parallel()
			buf, err := appendVarInt(nil, v)
			if err != nil {
				t.Fatalf("appendVarInt(%d): %v", v, err)
			}
			n, err := varintLength(v)
			if err != nil {
				t.Fatalf("varintLength(%d): %v", v, err)
			}
			if len(buf) != n {
				t.Fatalf("encoded length %d != varintLength %d", len(buf), n)
			}
			got, consumed, err := decodeVarInt(buf)
			if err != nil {
				t.Fatalf("decodeVarInt: %v", err)
			}
			if got != v {
				t.Errorf("round trip: got %d want %d", got, v)
			}
			if consumed != n {
				t.Errorf("consumed %d want %d", consumed, n)
			}
		})
	}
}

func TestVarIntOutOfRange(t *testing.T) {
	t.Parallel()
	if _, err := appendVarInt(nil, varIntMax+1); err != ErrValueOutOfRange {
		t.Fatalf("expected ErrValueOutOfRange, got %v", err)
	}
}

func TestVarIntForcedLengthAcceptance(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		v      uint64
		length int
	}{
		{0, 1}, {0, 2}, {0, 4}, {0, 8},
		{63, 2}, {63, 4}, {63, 8},
		{16383, 4}, {16383, 8},
		{1073741823, 8},
	} {
		buf, err := appendVarIntForced(nil, tc.v, tc.length)
		if err != nil {
			t.Fatalf("appendVarIntForced(%d, %d): %v", tc.v, tc.length, err)
		}
		if len(buf) != tc.length {
			t.Fatalf("got length %d want %d", len(buf), tc.length)
		}
		got, consumed, err := decodeVarInt(buf)
		if err != nil {
			t.Fatalf("decodeVarInt: %v", err)
		}
		if got != tc.v || consumed != tc.length {
			t.Errorf("got (%d,%d) want (%d,%d)", got, consumed, tc.v, tc.length)
		}
	}
}

func TestVarIntForcedLengthTooShort(t *testing.T) {
	t.Parallel()
	if _, err := appendVarIntForced(nil, 16384, 1); err != ErrBufferTooShort {
		t.Fatalf("expected ErrBufferTooShort, got %v", err)
	}
}

func TestVarIntTruncated(t *testing.T) {
	t.Parallel()
	if _, _, err := decodeVarInt([]byte{0xc0, 0x01}); err != ErrTruncated {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestSignedVarIntRoundTrip(t *testing.T) {
	t.Parallel()
	for _, v := range []int64{0, 1, -1, 1000, -1000, 1 << 40, -(1 << 40)} {
		got := decodeSignedVarInt(encodeSignedVarInt(v))
		if got != v {
			t.Errorf("round trip: got %d want %d", got, v)
		}
	}
}
