package types

import (
	"fmt"
	"unicode/utf8"
)

// stringCodec covers the UTF-8 string family: varchar, text, char(n),
// bpchar, name (§4.2). Text and binary formats are byte-identical for
// these types — PostgreSQL sends them as raw UTF-8 either way.
type stringCodec struct{ oid Oid }

func (c stringCodec) AcceptsOid(o Oid) bool { return o == c.oid }

func (stringCodec) Encode(v any, _ Format, out []byte) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("types: string codec cannot encode %T", v)
	}
	return append(out, s...), nil
}

func (stringCodec) Decode(data []byte, _ Format) (any, error) {
	return string(data), nil
}

var (
	TextCodec    Codec = stringCodec{oid: textOid}
	VarcharCodec Codec = stringCodec{oid: varcharOid}
	BpcharCodec  Codec = stringCodec{oid: bpcharOid}
	CharCodec    Codec = stringCodec{oid: charOid}
	NameCodec    Codec = stringCodec{oid: nameOid}
)

// byteaCodec covers raw byte arrays. Binary format is the bytes
// themselves; text format is PostgreSQL's `\x`-prefixed hex encoding
// (the modern "hex" bytea_output, used since 9.0).
type byteaCodec struct{}

func (byteaCodec) AcceptsOid(o Oid) bool { return o == byteaOid }

func (byteaCodec) Encode(v any, format Format, out []byte) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("types: bytea codec cannot encode %T", v)
	}
	if format == FormatBinary {
		return append(out, b...), nil
	}
	out = append(out, '\\', 'x')
	const hextable = "0123456789abcdef"
	for _, c := range b {
		out = append(out, hextable[c>>4], hextable[c&0x0f])
	}
	return out, nil
}

func (byteaCodec) Decode(data []byte, format Format) (any, error) {
	if format == FormatBinary {
		cp := make([]byte, len(data))
		copy(cp, data)
		return cp, nil
	}
	if len(data) < 2 || data[0] != '\\' || data[1] != 'x' {
		return nil, fmt.Errorf("types: unsupported bytea text encoding (expected \\x-prefixed hex)")
	}
	hex := data[2:]
	out := make([]byte, len(hex)/2)
	for i := range out {
		hi := fromHexDigit(hex[2*i])
		lo := fromHexDigit(hex[2*i+1])
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func fromHexDigit(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

var ByteaCodec Codec = byteaCodec{}

// jsonCodec covers JSON as a validated UTF-8 string (§4.2). jsonb carries
// one leading version byte (always 1) on the wire in both formats; plain
// json has none.
type jsonCodec struct {
	oid      Oid
	isJsonb  bool
}

func (c jsonCodec) AcceptsOid(o Oid) bool { return o == c.oid }

const jsonbVersion = 1

func (c jsonCodec) Encode(v any, _ Format, out []byte) ([]byte, error) {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case []byte:
		s = string(t)
	default:
		return nil, fmt.Errorf("types: json codec cannot encode %T", v)
	}
	if !utf8.ValidString(s) {
		return nil, fmt.Errorf("types: json value is not valid UTF-8")
	}
	if c.isJsonb {
		out = append(out, jsonbVersion)
	}
	return append(out, s...), nil
}

func (c jsonCodec) Decode(data []byte, _ Format) (any, error) {
	if c.isJsonb {
		if len(data) < 1 {
			return nil, fmt.Errorf("types: jsonb value missing version byte")
		}
		if data[0] != jsonbVersion {
			return nil, fmt.Errorf("types: unsupported jsonb version byte %d", data[0])
		}
		data = data[1:]
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("types: json value is not valid UTF-8")
	}
	return string(data), nil
}

var JsonCodec Codec = jsonCodec{oid: jsonOid}
var JsonbCodec Codec = jsonCodec{oid: jsonbOid, isJsonb: true}
