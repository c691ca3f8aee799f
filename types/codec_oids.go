package types

import "github.com/nkonev/pgwire/internal/oid"

// local aliases so codec files read naturally; all are re-exports of
// internal/oid constants (§3 Type: {oid, name, ...}).
const (
	boolOid        = oid.Bool
	byteaOid       = oid.Bytea
	int2Oid        = oid.Int2
	int4Oid        = oid.Int4
	int8Oid        = oid.Int8
	float4Oid      = oid.Float4
	float8Oid      = oid.Float8
	textOid        = oid.Text
	varcharOid     = oid.Varchar
	bpcharOid      = oid.Bpchar
	charOid        = oid.Char
	nameOid        = oid.Name
	jsonOid        = oid.Json
	jsonbOid       = oid.Jsonb
	inetOid        = oid.Inet
	cidrOid        = oid.Cidr
	timestampOid   = oid.Timestamp
	timestampTzOid = oid.TimestampTz
	int4RangeOid   = oid.Int4Range
	int8RangeOid   = oid.Int8Range
	tsRangeOid     = oid.TsRange
	tsTzRangeOid   = oid.TsTzRange
	hstoreOid      = oid.Hstore
	uuidOid        = oid.Uuid

	boolArrayOid        = oid.BoolArray
	byteaArrayOid       = oid.ByteaArray
	int2ArrayOid        = oid.Int2Array
	int4ArrayOid        = oid.Int4Array
	int8ArrayOid        = oid.Int8Array
	float4ArrayOid      = oid.Float4Array
	float8ArrayOid      = oid.Float8Array
	textArrayOid        = oid.TextArray
	varcharArrayOid     = oid.VarcharArray
	timestampArrayOid   = oid.TimestampArray
	timestampTzArrayOid = oid.TimestampTzArray
	jsonArrayOid        = oid.JsonArray
	jsonbArrayOid       = oid.JsonbArray
	inetArrayOid        = oid.InetArray
	uuidArrayOid        = oid.UuidArray
)
