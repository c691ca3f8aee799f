package types_test

import (
	"testing"

	"github.com/nkonev/pgwire/types"
)

func roundTrip(t *testing.T, codec types.Codec, v any, format types.Format) any {
	t.Helper()
	encoded, err := codec.Encode(v, format, nil)
	if err != nil {
		t.Fatalf("Encode(%v, %v): %v", v, format, err)
	}
	decoded, err := codec.Decode(encoded, format)
	if err != nil {
		t.Fatalf("Decode(% x, %v): %v", encoded, format, err)
	}
	return decoded
}

func TestBoolCodecRoundTrip(t *testing.T) {
	t.Parallel()
	for _, format := range []types.Format{types.FormatText, types.FormatBinary} {
		for _, v := range []bool{true, false} {
			got := roundTrip(t, types.BoolCodec, v, format)
			if got != v {
				t.Errorf("format %v: got %v, want %v", format, got, v)
			}
		}
	}
}

func TestIntCodecsRoundTrip(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		codec types.Codec
		value int64
	}{
		{"int2 positive", types.Int2Codec, 1234},
		{"int2 negative", types.Int2Codec, -1234},
		{"int4 positive", types.Int4Codec, 123456789},
		{"int4 negative", types.Int4Codec, -123456789},
		{"int8 large", types.Int8Codec, 9007199254740993},
		{"int8 negative", types.Int8Codec, -9007199254740993},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			for _, format := range []types.Format{types.FormatText, types.FormatBinary} {
				got := roundTrip(t, tt.codec, tt.value, format)
				n, ok := got.(int64)
				if !ok || n != tt.value {
					t.Errorf("format %v: got %v, want %d", format, got, tt.value)
				}
			}
		})
	}
}

func TestFloatCodecsRoundTrip(t *testing.T) {
	t.Parallel()
	for _, format := range []types.Format{types.FormatText, types.FormatBinary} {
		got4 := roundTrip(t, types.Float4Codec, float32(3.5), format)
		if f, ok := got4.(float64); !ok || f != 3.5 {
			t.Errorf("float4 format %v: got %v, want 3.5", format, got4)
		}
		got8 := roundTrip(t, types.Float8Codec, float64(2.71828), format)
		if f, ok := got8.(float64); !ok || f != 2.71828 {
			t.Errorf("float8 format %v: got %v, want 2.71828", format, got8)
		}
	}
}

func TestStringCodecRoundTrip(t *testing.T) {
	t.Parallel()
	got := roundTrip(t, types.TextCodec, "héllo, wörld", types.FormatBinary)
	if got != "héllo, wörld" {
		t.Errorf("got %v, want héllo, wörld", got)
	}
}

func TestByteaCodecRoundTrip(t *testing.T) {
	t.Parallel()
	data := []byte{0x00, 0x01, 0xff, 0xab}

	binGot := roundTrip(t, types.ByteaCodec, data, types.FormatBinary)
	if b, ok := binGot.([]byte); !ok || string(b) != string(data) {
		t.Errorf("binary round trip = %v, want %v", binGot, data)
	}

	textGot := roundTrip(t, types.ByteaCodec, data, types.FormatText)
	if b, ok := textGot.([]byte); !ok || string(b) != string(data) {
		t.Errorf("text round trip = %v, want %v", textGot, data)
	}
}

func TestJsonbCodecVersionByte(t *testing.T) {
	t.Parallel()

	encoded, err := types.JsonbCodec.Encode(`{"a":1}`, types.FormatBinary, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(encoded) == 0 || encoded[0] != 1 {
		t.Fatalf("jsonb encoding must start with version byte 1, got % x", encoded)
	}

	decoded, err := types.JsonbCodec.Decode(encoded, types.FormatBinary)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded != `{"a":1}` {
		t.Errorf("Decode = %v, want {\"a\":1}", decoded)
	}

	if _, err := types.JsonbCodec.Decode([]byte{9, '{', '}'}, types.FormatBinary); err == nil {
		t.Error("Decode with unsupported version byte: expected error, got nil")
	}
}

func TestJsonCodecHasNoVersionByte(t *testing.T) {
	t.Parallel()
	encoded, err := types.JsonCodec.Encode(`{"a":1}`, types.FormatBinary, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(encoded) != `{"a":1}` {
		t.Errorf("plain json encoding = %q, want raw JSON with no version byte", encoded)
	}
}

func TestRegistryLookupAndSupportsBinary(t *testing.T) {
	t.Parallel()
	reg := types.NewDefaultRegistry()

	codec, ok := reg.Lookup(16) // bool
	if !ok || codec == nil {
		t.Fatal("Lookup(16): expected bool codec, got none")
	}
	if !reg.SupportsBinary(16) {
		t.Error("SupportsBinary(16) = false, want true (bool codec supports binary)")
	}

	if _, ok := reg.Lookup(999999); ok {
		t.Error("Lookup(999999): expected unknown OID to miss, got a codec")
	}
	if reg.SupportsBinary(999999) {
		t.Error("SupportsBinary(999999) = true, want false for an unregistered OID")
	}
}

func TestRegistryRegisterOidAndName(t *testing.T) {
	t.Parallel()
	reg := types.NewRegistry()
	reg.RegisterOid(12345, types.TextCodec)
	reg.RegisterName("myenum", 12345)

	codec, ok := reg.Lookup(12345)
	if !ok || codec != types.TextCodec {
		t.Fatalf("Lookup(12345) = (%v, %v), want (TextCodec, true)", codec, ok)
	}
	o, ok := reg.OidByName("myenum")
	if !ok || o != 12345 {
		t.Fatalf("OidByName(myenum) = (%v, %v), want (12345, true)", o, ok)
	}
}
