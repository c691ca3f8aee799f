package types

import (
	"fmt"
	"strings"
)

// hstoreCodec covers hstore, a key-value string map (§4.2). Binary layout:
// {count:int32, then per entry: keyLen:int32, key bytes,
// valLen:int32 (-1 for SQL NULL), value bytes}.
type hstoreCodec struct{}

func (hstoreCodec) AcceptsOid(o Oid) bool { return o == hstoreOid }

func (hstoreCodec) Encode(v any, format Format, out []byte) ([]byte, error) {
	m, ok := v.(map[string]*string)
	if !ok {
		return nil, fmt.Errorf("types: hstore codec cannot encode %T", v)
	}
	if format == FormatText {
		var b strings.Builder
		first := true
		for k, val := range m {
			if !first {
				b.WriteString(", ")
			}
			first = false
			fmt.Fprintf(&b, "%q=>", k)
			if val == nil {
				b.WriteString("NULL")
			} else {
				fmt.Fprintf(&b, "%q", *val)
			}
		}
		return append(out, b.String()...), nil
	}

	out = appendInt32Bytes(out, int32(len(m)))
	for k, val := range m {
		out = appendInt32Bytes(out, int32(len(k)))
		out = append(out, k...)
		if val == nil {
			out = appendInt32Bytes(out, -1)
			continue
		}
		out = appendInt32Bytes(out, int32(len(*val)))
		out = append(out, *val...)
	}
	return out, nil
}

func (hstoreCodec) Decode(data []byte, format Format) (any, error) {
	if format == FormatText {
		return decodeHstoreText(string(data))
	}
	pos := 0
	n, next, err := readLenPrefixed32(data, pos)
	if err != nil {
		return nil, err
	}
	pos = next
	m := make(map[string]*string, n)
	for i := int32(0); i < n; i++ {
		keyLen, kpos, err := readInt32At(data, pos)
		if err != nil {
			return nil, err
		}
		pos = kpos
		if keyLen < 0 || len(data) < pos+int(keyLen) {
			return nil, fmt.Errorf("types: hstore binary value truncated (key)")
		}
		key := string(data[pos : pos+int(keyLen)])
		pos += int(keyLen)

		valLen, vpos, err := readInt32At(data, pos)
		if err != nil {
			return nil, err
		}
		pos = vpos
		if valLen < 0 {
			m[key] = nil
			continue
		}
		if len(data) < pos+int(valLen) {
			return nil, fmt.Errorf("types: hstore binary value truncated (value)")
		}
		val := string(data[pos : pos+int(valLen)])
		pos += int(valLen)
		m[key] = &val
	}
	return m, nil
}

func (hstoreCodec) TextOnly() bool { return false }

func readInt32At(data []byte, pos int) (int32, int, error) {
	if len(data) < pos+4 {
		return 0, 0, fmt.Errorf("types: truncated int32 field")
	}
	v := int32(uint32(data[pos])<<24 | uint32(data[pos+1])<<16 | uint32(data[pos+2])<<8 | uint32(data[pos+3]))
	return v, pos + 4, nil
}

func readLenPrefixed32(data []byte, pos int) (int32, int, error) {
	return readInt32At(data, pos)
}

// decodeHstoreText parses PostgreSQL's "k"=>"v", "k2"=>NULL text output.
// It supports the common case of double-quoted keys/values without
// embedded escaped quotes, which is what the server always emits.
func decodeHstoreText(s string) (map[string]*string, error) {
	m := make(map[string]*string)
	s = strings.TrimSpace(s)
	if s == "" {
		return m, nil
	}
	for _, pair := range strings.Split(s, ", ") {
		eq := strings.Index(pair, "=>")
		if eq < 0 {
			return nil, fmt.Errorf("types: invalid hstore text entry %q", pair)
		}
		key := strings.Trim(pair[:eq], `"`)
		rawVal := strings.TrimSpace(pair[eq+2:])
		if rawVal == "NULL" {
			m[key] = nil
			continue
		}
		val := strings.Trim(rawVal, `"`)
		m[key] = &val
	}
	return m, nil
}

var HstoreCodec Codec = hstoreCodec{}
