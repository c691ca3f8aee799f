// Package oid holds the server-assigned type identifiers (§3, §4.2) for the
// built-in types the value codec covers. These numbers are stable across
// PostgreSQL versions; they are catalogue constants, not protocol framing.
package oid

// Oid is a server-assigned type identifier (pg_type.oid).
type Oid uint32

const (
	Bool        Oid = 16
	Bytea       Oid = 17
	Char        Oid = 18
	Name        Oid = 19
	Int8        Oid = 20
	Int2        Oid = 21
	Int4        Oid = 23
	Text        Oid = 25
	Json        Oid = 114
	Float4      Oid = 700
	Float8      Oid = 701
	Inet        Oid = 869
	Bpchar      Oid = 1042
	Varchar     Oid = 1043
	Date        Oid = 1082
	Timestamp   Oid = 1114
	TimestampTz Oid = 1184
	Int4Range   Oid = 3904
	Int8Range   Oid = 3926
	NumRange    Oid = 3906
	TsRange     Oid = 3908
	TsTzRange   Oid = 3910
	DateRange   Oid = 3912
	Jsonb       Oid = 3802
	Uuid        Oid = 2950
	Cidr        Oid = 650
	Hstore      Oid = 33670 // extension type, OID varies; placeholder default

	// array element -> array OID for the built-ins above
	BoolArray        Oid = 1000
	ByteaArray       Oid = 1001
	Int2Array        Oid = 1005
	Int4Array        Oid = 1007
	TextArray        Oid = 1009
	Int8Array        Oid = 1016
	Float4Array      Oid = 1021
	Float8Array      Oid = 1022
	VarcharArray     Oid = 1015
	TimestampArray   Oid = 1115
	TimestampTzArray Oid = 1185
	UuidArray        Oid = 2951
	JsonArray        Oid = 199
	JsonbArray       Oid = 3807
	InetArray        Oid = 1041
)

// ArrayElement maps an array type OID to its element OID, for the
// built-ins registered by default. User-registered array codecs carry
// their own element OID directly (§4.2 extensibility).
var ArrayElement = map[Oid]Oid{
	BoolArray:        Bool,
	ByteaArray:       Bytea,
	Int2Array:        Int2,
	Int4Array:        Int4,
	Int8Array:        Int8,
	Float4Array:      Float4,
	Float8Array:      Float8,
	TextArray:        Text,
	VarcharArray:     Varchar,
	TimestampArray:   Timestamp,
	TimestampTzArray: TimestampTz,
	UuidArray:        Uuid,
	JsonArray:        Json,
	JsonbArray:       Jsonb,
	InetArray:        Inet,
}
