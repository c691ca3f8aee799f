package types

import (
	"fmt"
	"strconv"

	"github.com/jackc/pgio"
)

// intCodec covers int2/int4/int8: signed big-endian two's complement on
// the wire (§4.2 "Numeric representations (binary): Integers are
// big-endian two's complement").
type intCodec struct {
	oid  Oid
	bits int
}

func (c intCodec) AcceptsOid(o Oid) bool { return o == c.oid }

func (c intCodec) Encode(v any, format Format, out []byte) ([]byte, error) {
	i64, err := toInt64(v)
	if err != nil {
		return nil, err
	}
	if format == FormatText {
		return append(out, strconv.FormatInt(i64, 10)...), nil
	}
	switch c.bits {
	case 16:
		return pgio.AppendInt16(out, int16(i64)), nil
	case 32:
		return pgio.AppendInt32(out, int32(i64)), nil
	default:
		return pgio.AppendInt64(out, i64), nil
	}
}

func (c intCodec) Decode(data []byte, format Format) (any, error) {
	if format == FormatText {
		return strconv.ParseInt(string(data), 10, 64)
	}
	switch c.bits {
	case 16:
		if len(data) != 2 {
			return nil, fmt.Errorf("types: int2 binary value must be 2 bytes, got %d", len(data))
		}
		return int64(int16(uint16(data[0])<<8 | uint16(data[1]))), nil
	case 32:
		if len(data) != 4 {
			return nil, fmt.Errorf("types: int4 binary value must be 4 bytes, got %d", len(data))
		}
		return int64(int32(uint32(data[0])<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3]))), nil
	default:
		if len(data) != 8 {
			return nil, fmt.Errorf("types: int8 binary value must be 8 bytes, got %d", len(data))
		}
		var u uint64
		for _, b := range data {
			u = u<<8 | uint64(b)
		}
		return int64(u), nil
	}
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("types: int codec cannot encode %T", v)
	}
}

var Int2Codec Codec = intCodec{oid: int2Oid, bits: 16}
var Int4Codec Codec = intCodec{oid: int4Oid, bits: 32}
var Int8Codec Codec = intCodec{oid: int8Oid, bits: 64}
