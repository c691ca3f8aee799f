package types_test

import (
	"reflect"
	"testing"

	"github.com/nkonev/pgwire/types"
)

const (
	int4RangeOid = 3904
	int8RangeOid = 3926
)

func TestRangeCodecBoundedRoundTrip(t *testing.T) {
	t.Parallel()
	reg := types.NewDefaultRegistry()
	codec, ok := reg.Lookup(int4RangeOid)
	if !ok {
		t.Fatal("expected int4range codec to be registered by default")
	}

	v := types.Range{LowerInclusive: true, Lower: int64(1), Upper: int64(10)}
	for _, format := range []types.Format{types.FormatBinary, types.FormatText} {
		encoded, err := codec.Encode(v, format, nil)
		if err != nil {
			t.Fatalf("format %v: Encode: %v", format, err)
		}
		decoded, err := codec.Decode(encoded, format)
		if err != nil {
			t.Fatalf("format %v: Decode(%q): %v", format, encoded, err)
		}
		got, ok := decoded.(types.Range)
		if !ok {
			t.Fatalf("format %v: decoded to %T, want types.Range", format, decoded)
		}
		if got.Empty != v.Empty || got.LowerInclusive != v.LowerInclusive || got.UpperInclusive != v.UpperInclusive {
			t.Errorf("format %v: got %#v, want %#v", format, got, v)
		}
		if !reflect.DeepEqual(got.Lower, v.Lower) {
			t.Errorf("format %v: Lower = %#v, want %#v", format, got.Lower, v.Lower)
		}
		if !reflect.DeepEqual(got.Upper, v.Upper) {
			t.Errorf("format %v: Upper = %#v, want %#v", format, got.Upper, v.Upper)
		}
	}
}

func TestRangeCodecInfiniteBounds(t *testing.T) {
	t.Parallel()
	reg := types.NewDefaultRegistry()
	codec, _ := reg.Lookup(int8RangeOid)

	v := types.Range{LowerInclusive: true, Lower: int64(5), Upper: nil}
	for _, format := range []types.Format{types.FormatBinary, types.FormatText} {
		encoded, err := codec.Encode(v, format, nil)
		if err != nil {
			t.Fatalf("format %v: Encode: %v", format, err)
		}
		decoded, err := codec.Decode(encoded, format)
		if err != nil {
			t.Fatalf("format %v: Decode(%q): %v", format, encoded, err)
		}
		got, ok := decoded.(types.Range)
		if !ok {
			t.Fatalf("format %v: decoded to %T, want types.Range", format, decoded)
		}
		if got.Upper != nil {
			t.Errorf("format %v: Upper = %#v, want nil (infinite)", format, got.Upper)
		}
		if !reflect.DeepEqual(got.Lower, v.Lower) {
			t.Errorf("format %v: Lower = %#v, want %#v", format, got.Lower, v.Lower)
		}
	}
}

func TestRangeCodecEmpty(t *testing.T) {
	t.Parallel()
	reg := types.NewDefaultRegistry()
	codec, _ := reg.Lookup(int4RangeOid)

	v := types.Range{Empty: true}
	for _, format := range []types.Format{types.FormatBinary, types.FormatText} {
		encoded, err := codec.Encode(v, format, nil)
		if err != nil {
			t.Fatalf("format %v: Encode: %v", format, err)
		}
		decoded, err := codec.Decode(encoded, format)
		if err != nil {
			t.Fatalf("format %v: Decode(%q): %v", format, encoded, err)
		}
		got, ok := decoded.(types.Range)
		if !ok || !got.Empty {
			t.Errorf("format %v: got %#v, want Empty range", format, decoded)
		}
	}
}
