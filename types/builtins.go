package types

// registerBuiltins installs every codec family enumerated in §4.2:
// boolean; signed 8/16/32/64-bit integers; 32/64-bit IEEE floats; UTF-8
// strings; bytea; JSON; inet/cidr; timestamps (with and without zone);
// ranges of comparable scalars; hstore; arrays of any registered element.
func registerBuiltins(r *Registry) {
	r.RegisterOid(boolOid, BoolCodec)
	r.RegisterOid(byteaOid, ByteaCodec)
	r.RegisterOid(int2Oid, Int2Codec)
	r.RegisterOid(int4Oid, Int4Codec)
	r.RegisterOid(int8Oid, Int8Codec)
	r.RegisterOid(float4Oid, Float4Codec)
	r.RegisterOid(float8Oid, Float8Codec)

	r.RegisterOid(textOid, TextCodec)
	r.RegisterOid(varcharOid, VarcharCodec)
	r.RegisterOid(bpcharOid, BpcharCodec)
	r.RegisterOid(charOid, CharCodec)
	r.RegisterOid(nameOid, NameCodec)

	r.RegisterOid(jsonOid, JsonCodec)
	r.RegisterOid(jsonbOid, JsonbCodec)

	r.RegisterOid(inetOid, InetCodec)
	r.RegisterOid(cidrOid, CidrCodec)

	tsCodec := newTimestampCodec(timestampOid, false, r.integerDatetimes)
	tstzCodec := newTimestampCodec(timestampTzOid, true, r.integerDatetimes)
	r.RegisterOid(timestampOid, tsCodec)
	r.RegisterOid(timestampTzOid, tstzCodec)

	r.RegisterOid(int4RangeOid, newRangeCodec(int4RangeOid, Int4Codec))
	r.RegisterOid(int8RangeOid, newRangeCodec(int8RangeOid, Int8Codec))
	r.RegisterOid(tsRangeOid, newRangeCodec(tsRangeOid, tsCodec))
	r.RegisterOid(tsTzRangeOid, newRangeCodec(tsTzRangeOid, tstzCodec))

	r.RegisterOid(hstoreOid, HstoreCodec)
	r.RegisterName("hstore", hstoreOid)

	r.RegisterOid(boolArrayOid, newArrayCodec(boolArrayOid, boolOid, BoolCodec))
	r.RegisterOid(byteaArrayOid, newArrayCodec(byteaArrayOid, byteaOid, ByteaCodec))
	r.RegisterOid(int2ArrayOid, newArrayCodec(int2ArrayOid, int2Oid, Int2Codec))
	r.RegisterOid(int4ArrayOid, newArrayCodec(int4ArrayOid, int4Oid, Int4Codec))
	r.RegisterOid(int8ArrayOid, newArrayCodec(int8ArrayOid, int8Oid, Int8Codec))
	r.RegisterOid(float4ArrayOid, newArrayCodec(float4ArrayOid, float4Oid, Float4Codec))
	r.RegisterOid(float8ArrayOid, newArrayCodec(float8ArrayOid, float8Oid, Float8Codec))
	r.RegisterOid(textArrayOid, newArrayCodec(textArrayOid, textOid, TextCodec))
	r.RegisterOid(varcharArrayOid, newArrayCodec(varcharArrayOid, varcharOid, VarcharCodec))
	r.RegisterOid(timestampArrayOid, newArrayCodec(timestampArrayOid, timestampOid, tsCodec))
	r.RegisterOid(timestampTzArrayOid, newArrayCodec(timestampTzArrayOid, timestampTzOid, tstzCodec))
	r.RegisterOid(jsonArrayOid, newArrayCodec(jsonArrayOid, jsonOid, JsonCodec))
	r.RegisterOid(jsonbArrayOid, newArrayCodec(jsonbArrayOid, jsonbOid, JsonbCodec))
	r.RegisterOid(inetArrayOid, newArrayCodec(inetArrayOid, inetOid, InetCodec))
}
