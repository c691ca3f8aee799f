package types_test

import (
	"net"
	"testing"

	"github.com/nkonev/pgwire/types"
)

func TestInetCodecHostAddressRoundTrip(t *testing.T) {
	t.Parallel()
	want := net.ParseIP("192.168.1.1").To4()

	for _, format := range []types.Format{types.FormatBinary, types.FormatText} {
		encoded, err := types.InetCodec.Encode(want, format, nil)
		if err != nil {
			t.Fatalf("format %v: Encode: %v", format, err)
		}
		decoded, err := types.InetCodec.Decode(encoded, format)
		if err != nil {
			t.Fatalf("format %v: Decode(%q): %v", format, encoded, err)
		}
		got, ok := decoded.(net.IP)
		if !ok {
			t.Fatalf("format %v: decoded to %T, want net.IP", format, decoded)
		}
		if !got.Equal(want) {
			t.Errorf("format %v: got %v, want %v", format, got, want)
		}
	}
}

func TestInetCodecTextHasNoSuffixForHostAddress(t *testing.T) {
	t.Parallel()
	want := net.ParseIP("10.0.0.5").To4()
	encoded, err := types.InetCodec.Encode(want, types.FormatText, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(encoded) != "10.0.0.5" {
		t.Errorf("encoded = %q, want 10.0.0.5 (no /32 suffix for a host address)", encoded)
	}
}

func TestCidrCodecNetworkRoundTrip(t *testing.T) {
	t.Parallel()
	_, ipNet, err := net.ParseCIDR("10.1.0.0/24")
	if err != nil {
		t.Fatalf("ParseCIDR: %v", err)
	}

	for _, format := range []types.Format{types.FormatBinary, types.FormatText} {
		encoded, err := types.CidrCodec.Encode(ipNet, format, nil)
		if err != nil {
			t.Fatalf("format %v: Encode: %v", format, err)
		}
		decoded, err := types.CidrCodec.Decode(encoded, format)
		if err != nil {
			t.Fatalf("format %v: Decode(%q): %v", format, encoded, err)
		}
		got, ok := decoded.(*net.IPNet)
		if !ok {
			t.Fatalf("format %v: decoded to %T, want *net.IPNet", format, decoded)
		}
		if got.String() != ipNet.String() {
			t.Errorf("format %v: got %v, want %v", format, got, ipNet)
		}
	}
}

func TestInetCodecRejectsUnsupportedType(t *testing.T) {
	t.Parallel()
	if _, err := types.InetCodec.Encode("not-an-ip", types.FormatText, nil); err == nil {
		t.Error("Encode of a non-IP value: expected error, got nil")
	}
}

func TestInetCodecBinaryTruncated(t *testing.T) {
	t.Parallel()
	if _, err := types.InetCodec.Decode([]byte{1, 2}, types.FormatBinary); err == nil {
		t.Error("Decode of a truncated binary inet value: expected error, got nil")
	}
}
