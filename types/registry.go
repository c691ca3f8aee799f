package types

import "sync"

// Registry is the per-connection type table (§3, §4.2, §9 "no global
// state"). NewDefaultRegistry returns a fresh registry pre-populated with
// the built-in codecs on every call; there is no shared process-wide one.
type Registry struct {
	mu     sync.RWMutex
	byOid  map[Oid]Codec
	byName map[string]Oid

	// integerDatetimes mirrors the connection's integer_datetimes
	// ParameterStatus (§4.2 "Numeric representations (binary)"). It is a
	// heap bool so the timestamp codecs, captured by pointer at
	// registration time, observe updates made after startup.
	integerDatetimes *bool
}

// NewRegistry returns an empty registry; callers typically start from
// NewDefaultRegistry instead.
func NewRegistry() *Registry {
	def := true // PostgreSQL >= 10 always uses integer datetimes
	return &Registry{
		byOid:            make(map[Oid]Codec),
		byName:           make(map[string]Oid),
		integerDatetimes: &def,
	}
}

// SetIntegerDatetimes updates the integer_datetimes flag consulted by the
// registered timestamp codecs. The session engine calls this whenever a
// ParameterStatus message for "integer_datetimes" is absorbed (§4.7).
func (r *Registry) SetIntegerDatetimes(v bool) {
	*r.integerDatetimes = v
}

// NewDefaultRegistry returns a registry pre-populated with every built-in
// codec (§4.2's enumerated OID families).
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	registerBuiltins(r)
	return r
}

// RegisterOid installs or replaces the codec used for a given OID.
func (r *Registry) RegisterOid(o Oid, c Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byOid[o] = c
}

// RegisterName associates a type name with an OID, resolved lazily on
// first use by callers that only know the server's type name (e.g. from
// a CREATE TYPE the application issued itself).
func (r *Registry) RegisterName(name string, o Oid) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[name] = o
}

// Lookup returns the codec registered for o, if any. Unknown OIDs are not
// an error at this layer (§4.2: "Unknown OIDs during prepare do not
// fail") — only field access against an unknown OID fails, with WrongType,
// and only the caller's field-access layer (Row.Get) produces that error,
// not the registry itself.
func (r *Registry) Lookup(o Oid) (Codec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byOid[o]
	return c, ok
}

// OidByName resolves a previously registered type name to its OID.
func (r *Registry) OidByName(name string) (Oid, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.byName[name]
	return o, ok
}

// SupportsBinary reports whether the codec for o, if known, encodes a
// binary form — used by the session engine to pick format codes for
// parameters and requested result columns (§4.4 step 1).
func (r *Registry) SupportsBinary(o Oid) bool {
	c, ok := r.Lookup(o)
	if !ok {
		return false
	}
	if to, implementsTextOnly := c.(textOnlyCodec); implementsTextOnly {
		return !to.TextOnly()
	}
	return true
}

// textOnlyCodec is an optional interface: a codec whose TextOnly returns
// true only ever negotiates the text format. hstore implements it and
// reports false; codecs that do not implement it negotiate binary.
type textOnlyCodec interface {
	TextOnly() bool
}
