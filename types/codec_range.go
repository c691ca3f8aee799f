package types

import (
	"fmt"
	"strings"
)

// range flag bits (§4.2).
const (
	rangeEmpty         = 0x01
	rangeLowerInclusive = 0x02
	rangeUpperInclusive = 0x04
	rangeLowerInfinite  = 0x08
	rangeUpperInfinite  = 0x10
)

// Range is the native value produced for any registered range OID.
// Lower/Upper are nil when the corresponding bound is infinite.
type Range struct {
	Empty           bool
	LowerInclusive  bool
	UpperInclusive  bool
	Lower           any
	Upper           any
}

// rangeCodec wraps the element codec of a scalar range subtype (§4.2:
// "Ranges of comparable scalar types").
type rangeCodec struct {
	oid     Oid
	element Codec
}

func (c rangeCodec) AcceptsOid(o Oid) bool { return o == c.oid }

func (c rangeCodec) Encode(v any, format Format, out []byte) ([]byte, error) {
	r, ok := v.(Range)
	if !ok {
		return nil, fmt.Errorf("types: range codec cannot encode %T", v)
	}
	if format == FormatText {
		return c.encodeText(r, out)
	}
	return c.encodeBinary(r, out)
}

func (c rangeCodec) encodeBinary(r Range, out []byte) ([]byte, error) {
	if r.Empty {
		return append(out, byte(rangeEmpty)), nil
	}
	var flags byte
	if r.LowerInclusive {
		flags |= rangeLowerInclusive
	}
	if r.UpperInclusive {
		flags |= rangeUpperInclusive
	}
	if r.Lower == nil {
		flags |= rangeLowerInfinite
	}
	if r.Upper == nil {
		flags |= rangeUpperInfinite
	}
	out = append(out, flags)
	if r.Lower != nil {
		elem, err := c.element.Encode(r.Lower, FormatBinary, nil)
		if err != nil {
			return nil, err
		}
		out = appendInt32Bytes(out, int32(len(elem)))
		out = append(out, elem...)
	}
	if r.Upper != nil {
		elem, err := c.element.Encode(r.Upper, FormatBinary, nil)
		if err != nil {
			return nil, err
		}
		out = appendInt32Bytes(out, int32(len(elem)))
		out = append(out, elem...)
	}
	return out, nil
}

func appendInt32Bytes(out []byte, v int32) []byte {
	u := uint32(v)
	return append(out, byte(u>>24), byte(u>>16), byte(u>>8), byte(u))
}

func (c rangeCodec) encodeText(r Range, out []byte) ([]byte, error) {
	if r.Empty {
		return append(out, "empty"...), nil
	}
	if r.LowerInclusive {
		out = append(out, '[')
	} else {
		out = append(out, '(')
	}
	if r.Lower != nil {
		elem, err := c.element.Encode(r.Lower, FormatText, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, elem...)
	}
	out = append(out, ',')
	if r.Upper != nil {
		elem, err := c.element.Encode(r.Upper, FormatText, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, elem...)
	}
	if r.UpperInclusive {
		out = append(out, ']')
	} else {
		out = append(out, ')')
	}
	return out, nil
}

func (c rangeCodec) Decode(data []byte, format Format) (any, error) {
	if format == FormatText {
		return c.decodeText(data)
	}
	return c.decodeBinary(data)
}

func (c rangeCodec) decodeBinary(data []byte) (any, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("types: range binary value truncated")
	}
	flags := data[0]
	if flags&rangeEmpty != 0 {
		return Range{Empty: true}, nil
	}
	r := Range{
		LowerInclusive: flags&rangeLowerInclusive != 0,
		UpperInclusive: flags&rangeUpperInclusive != 0,
	}
	pos := 1
	if flags&rangeLowerInfinite == 0 {
		n, next, err := readLenPrefixed(data, pos)
		if err != nil {
			return nil, err
		}
		v, err := c.element.Decode(n, FormatBinary)
		if err != nil {
			return nil, err
		}
		r.Lower = v
		pos = next
	}
	if flags&rangeUpperInfinite == 0 {
		n, next, err := readLenPrefixed(data, pos)
		if err != nil {
			return nil, err
		}
		v, err := c.element.Decode(n, FormatBinary)
		if err != nil {
			return nil, err
		}
		r.Upper = v
		pos = next
	}
	return r, nil
}

func readLenPrefixed(data []byte, pos int) ([]byte, int, error) {
	if len(data) < pos+4 {
		return nil, 0, fmt.Errorf("types: range binary value truncated (length)")
	}
	n := int(int32(uint32(data[pos])<<24 | uint32(data[pos+1])<<16 | uint32(data[pos+2])<<8 | uint32(data[pos+3])))
	pos += 4
	if n < 0 || len(data) < pos+n {
		return nil, 0, fmt.Errorf("types: range binary value truncated (body)")
	}
	return data[pos : pos+n], pos + n, nil
}

func (c rangeCodec) decodeText(data []byte) (any, error) {
	s := string(data)
	if strings.EqualFold(s, "empty") {
		return Range{Empty: true}, nil
	}
	if len(s) < 3 {
		return nil, fmt.Errorf("types: invalid range text value %q", s)
	}
	r := Range{LowerInclusive: s[0] == '[', UpperInclusive: s[len(s)-1] == ']'}
	body := s[1 : len(s)-1]
	comma := strings.IndexByte(body, ',')
	if comma < 0 {
		return nil, fmt.Errorf("types: invalid range text value %q", s)
	}
	lowerStr, upperStr := body[:comma], body[comma+1:]
	if lowerStr != "" {
		v, err := c.element.Decode([]byte(lowerStr), FormatText)
		if err != nil {
			return nil, err
		}
		r.Lower = v
	}
	if upperStr != "" {
		v, err := c.element.Decode([]byte(upperStr), FormatText)
		if err != nil {
			return nil, err
		}
		r.Upper = v
	}
	return r, nil
}

func newRangeCodec(o Oid, element Codec) Codec {
	return rangeCodec{oid: o, element: element}
}
