// Package types implements the bidirectional mapping between native Go
// values and the server's binary/textual field representations (§4.2),
// keyed by server-assigned type OIDs and extensible by user code.
package types

import (
	"fmt"

	"github.com/nkonev/pgwire/internal/oid"
)

// Oid re-exports the catalogue identifier type so callers need not import
// the internal package directly.
type Oid = oid.Oid

// Format is the wire format a field is encoded in.
type Format int16

const (
	FormatText   Format = 0
	FormatBinary Format = 1
)

// Codec is the capability pair §4.2 requires of every registered type:
// encode a native value to wire bytes, decode wire bytes to a native value,
// and report whether it is the right codec for a given column OID.
type Codec interface {
	// Encode appends the wire representation of v to out, for the given
	// format. The caller is responsible for NULL handling; Encode is never
	// called for NULL parameters.
	Encode(v any, format Format, out []byte) ([]byte, error)
	// Decode produces a native value from field bytes already stripped of
	// their NULL-ness (the caller handles NULL separately).
	Decode(data []byte, format Format) (any, error)
	// AcceptsOid reports whether this codec knows how to handle o.
	AcceptsOid(o Oid) bool
}

// WrongTypeError describes a codec that does not accept a column's
// declared OID (§4.2). Row.Get and Row.GetByName do not return it; they
// report their failures as *pgwire.Error of kind WrongType.
type WrongTypeError struct {
	Oid          Oid
	WantedByName string
}

func (e *WrongTypeError) Error() string {
	return fmt.Sprintf("types: column OID %d is not acceptable for %s", e.Oid, e.WantedByName)
}
