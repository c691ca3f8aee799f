package types

import (
	"fmt"
	"strconv"
)

// boolCodec implements the boolean OID family in both formats (§4.2).
type boolCodec struct{}

func (boolCodec) AcceptsOid(o Oid) bool { return o == boolOid }

func (boolCodec) Encode(v any, format Format, out []byte) ([]byte, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, fmt.Errorf("types: bool codec cannot encode %T", v)
	}
	if format == FormatBinary {
		if b {
			return append(out, 1), nil
		}
		return append(out, 0), nil
	}
	if b {
		return append(out, 't'), nil
	}
	return append(out, 'f'), nil
}

func (boolCodec) Decode(data []byte, format Format) (any, error) {
	if format == FormatBinary {
		if len(data) != 1 {
			return nil, fmt.Errorf("types: bool binary value must be 1 byte, got %d", len(data))
		}
		return data[0] != 0, nil
	}
	switch string(data) {
	case "t", "true", "TRUE", "1":
		return true, nil
	case "f", "false", "FALSE", "0":
		return false, nil
	}
	return strconv.ParseBool(string(data))
}

var BoolCodec Codec = boolCodec{}
