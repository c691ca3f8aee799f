// Package uuidtype is an optional value-codec plugin (§1, §4.2
// extensibility) mapping google/uuid.UUID to PostgreSQL's uuid OID. It is
// not part of the core; callers register it explicitly:
//
//	registry.RegisterOid(types.Oid(2950), uuidtype.Codec)
package uuidtype

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/nkonev/pgwire/types"
)

const oidUuid types.Oid = 2950

type codec struct{}

func (codec) AcceptsOid(o types.Oid) bool { return o == oidUuid }

func (codec) Encode(v any, format types.Format, out []byte) ([]byte, error) {
	id, ok := v.(uuid.UUID)
	if !ok {
		return nil, fmt.Errorf("uuidtype: cannot encode %T", v)
	}
	if format == types.FormatBinary {
		return append(out, id[:]...), nil
	}
	return append(out, id.String()...), nil
}

func (codec) Decode(data []byte, format types.Format) (any, error) {
	if format == types.FormatBinary {
		var id uuid.UUID
		if len(data) != 16 {
			return nil, fmt.Errorf("uuidtype: binary uuid must be 16 bytes, got %d", len(data))
		}
		copy(id[:], data)
		return id, nil
	}
	return uuid.Parse(string(data))
}

// Codec is the registerable codec instance for the uuid OID.
var Codec types.Codec = codec{}
