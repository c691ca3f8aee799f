package types

import (
	"fmt"
	"math"
	"time"
)

// pgEpoch is the fixed reference point for timestamp binary encoding
// (§4.2: "2000-01-01 00:00:00 UTC").
var pgEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

const timeLayout = "2006-01-02 15:04:05.999999999"

// timestampCodec covers timestamp and timestamptz. withTZ only affects
// text-format rendering/parsing location handling; the binary layout is
// identical (§4.2).
type timestampCodec struct {
	oid              Oid
	withTZ           bool
	integerDatetimes *bool
}

func (c timestampCodec) AcceptsOid(o Oid) bool { return o == c.oid }

func (c timestampCodec) Encode(v any, format Format, out []byte) ([]byte, error) {
	t, ok := v.(time.Time)
	if !ok {
		return nil, fmt.Errorf("types: timestamp codec cannot encode %T", v)
	}
	if format == FormatText {
		if c.withTZ {
			return append(out, t.UTC().Format(timeLayout+"-07")...), nil
		}
		return append(out, t.UTC().Format(timeLayout)...), nil
	}

	d := t.Sub(pgEpoch)
	if *c.integerDatetimes {
		micros := d.Nanoseconds() / 1000
		return appendInt64Bytes(out, micros), nil
	}
	secs := d.Seconds()
	return appendFloat64Bytes(out, secs), nil
}

func (c timestampCodec) Decode(data []byte, format Format) (any, error) {
	if format == FormatText {
		loc := time.UTC
		layout := timeLayout
		if c.withTZ {
			layout = timeLayout + "-07"
		}
		return time.ParseInLocation(layout, string(data), loc)
	}
	if len(data) != 8 {
		return nil, fmt.Errorf("types: timestamp binary value must be 8 bytes, got %d", len(data))
	}
	if *c.integerDatetimes {
		micros := int64BigEndian(data)
		return pgEpoch.Add(time.Duration(micros) * time.Microsecond), nil
	}
	secs := float64BigEndian(data)
	return pgEpoch.Add(time.Duration(secs * float64(time.Second))), nil
}

func appendInt64Bytes(out []byte, v int64) []byte {
	u := uint64(v)
	return append(out, byte(u>>56), byte(u>>48), byte(u>>40), byte(u>>32), byte(u>>24), byte(u>>16), byte(u>>8), byte(u))
}

func appendFloat64Bytes(out []byte, f float64) []byte {
	return appendInt64Bytes(out, int64(math.Float64bits(f)))
}

func int64BigEndian(data []byte) int64 {
	var u uint64
	for _, b := range data {
		u = u<<8 | uint64(b)
	}
	return int64(u)
}

func float64BigEndian(data []byte) float64 {
	var u uint64
	for _, b := range data {
		u = u<<8 | uint64(b)
	}
	return math.Float64frombits(u)
}

func newTimestampCodec(o Oid, withTZ bool, integerDatetimes *bool) Codec {
	return timestampCodec{oid: o, withTZ: withTZ, integerDatetimes: integerDatetimes}
}
