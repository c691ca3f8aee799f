// Package jsontype is an optional value-codec plugin (§1, §4.2
// extensibility) mapping encoding/json.RawMessage to PostgreSQL's json and
// jsonb OIDs, validating the payload with encoding/json's json.Valid
// instead of only checking UTF-8 validity as the core
// string-based JSON codec does.
package jsontype

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/nkonev/pgwire/types"
)

const (
	oidJson  types.Oid = 114
	oidJsonb types.Oid = 3802
)

const jsonbVersion = 1

type codec struct {
	oid     types.Oid
	isJsonb bool
}

func (c codec) AcceptsOid(o types.Oid) bool { return o == c.oid }

func (c codec) Encode(v any, _ types.Format, out []byte) ([]byte, error) {
	raw, ok := v.(json.RawMessage)
	if !ok {
		return nil, fmt.Errorf("jsontype: cannot encode %T", v)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("jsontype: value is not valid JSON")
	}
	if c.isJsonb {
		out = append(out, jsonbVersion)
	}
	return append(out, raw...), nil
}

func (c codec) Decode(data []byte, _ types.Format) (any, error) {
	if c.isJsonb {
		if len(data) < 1 {
			return nil, fmt.Errorf("jsontype: jsonb value missing version byte")
		}
		if data[0] != jsonbVersion {
			return nil, fmt.Errorf("jsontype: unsupported jsonb version byte %d", data[0])
		}
		data = data[1:]
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("jsontype: value is not valid JSON")
	}
	out := make(json.RawMessage, len(data))
	copy(out, data)
	return out, nil
}

// Compact returns a compacted copy, handy for callers that want a
// canonical form before comparing two JSON codec round-trips.
func Compact(raw json.RawMessage) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JsonCodec and JsonbCodec are the registerable codec instances.
var (
	JsonCodec  types.Codec = codec{oid: oidJson}
	JsonbCodec types.Codec = codec{oid: oidJsonb, isJsonb: true}
)
