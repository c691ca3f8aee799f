package types

import (
	"fmt"
	"math"
	"strconv"

	"github.com/jackc/pgio"
)

// floatCodec covers float4/float8, IEEE 754 on the wire.
type floatCodec struct {
	oid  Oid
	bits int
}

func (c floatCodec) AcceptsOid(o Oid) bool { return o == c.oid }

func (c floatCodec) Encode(v any, format Format, out []byte) ([]byte, error) {
	f, err := toFloat64(v)
	if err != nil {
		return nil, err
	}
	if format == FormatText {
		bitSize := 64
		if c.bits == 32 {
			bitSize = 32
		}
		return append(out, strconv.FormatFloat(f, 'g', -1, bitSize)...), nil
	}
	if c.bits == 32 {
		return pgio.AppendUint32(out, math.Float32bits(float32(f))), nil
	}
	return pgio.AppendUint64(out, math.Float64bits(f)), nil
}

func (c floatCodec) Decode(data []byte, format Format) (any, error) {
	if format == FormatText {
		bitSize := 64
		if c.bits == 32 {
			bitSize = 32
		}
		return strconv.ParseFloat(string(data), bitSize)
	}
	if c.bits == 32 {
		if len(data) != 4 {
			return nil, fmt.Errorf("types: float4 binary value must be 4 bytes, got %d", len(data))
		}
		var u uint32
		for _, b := range data {
			u = u<<8 | uint32(b)
		}
		return float64(math.Float32frombits(u)), nil
	}
	if len(data) != 8 {
		return nil, fmt.Errorf("types: float8 binary value must be 8 bytes, got %d", len(data))
	}
	var u uint64
	for _, b := range data {
		u = u<<8 | uint64(b)
	}
	return math.Float64frombits(u), nil
}

func toFloat64(v any) (float64, error) {
	switch f := v.(type) {
	case float32:
		return float64(f), nil
	case float64:
		return f, nil
	default:
		return 0, fmt.Errorf("types: float codec cannot encode %T", v)
	}
}

var Float4Codec Codec = floatCodec{oid: float4Oid, bits: 32}
var Float8Codec Codec = floatCodec{oid: float8Oid, bits: 64}
