package pgwire

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Kind classifies driver errors per the taxonomy the engine reports to callers.
type Kind int

const (
	// KindConnect: the transport could not be established (DNS, refused, I/O).
	KindConnect Kind = iota
	// KindAuth: authentication was rejected or the challenge kind is unsupported.
	KindAuth
	// KindProtocol: a malformed frame, unexpected message, or length mismatch.
	KindProtocol
	// KindDb: a server-originated ErrorResponse.
	KindDb
	// KindWrongType: the native type requested for a column does not match its OID.
	KindWrongType
	// KindWrongParamCount: the caller supplied N parameters for a statement expecting M.
	KindWrongParamCount
	// KindInvalidState: operation attempted on a closed connection, consumed row,
	// or a failed transaction that forbids it.
	KindInvalidState
	// KindIo: an underlying transport read/write error.
	KindIo
)

func (k Kind) String() string {
	switch k {
	case KindConnect:
		return "connect"
	case KindAuth:
		return "auth"
	case KindProtocol:
		return "protocol"
	case KindDb:
		return "db"
	case KindWrongType:
		return "wrong_type"
	case KindWrongParamCount:
		return "wrong_param_count"
	case KindInvalidState:
		return "invalid_state"
	case KindIo:
		return "io"
	default:
		return "unknown"
	}
}

// Error is the single error type the engine returns to callers. DbFields is
// only populated for KindDb, mirroring the ErrorResponse wire fields.
type Error struct {
	Kind  Kind
	msg   string
	cause error

	// DbFields, set only when Kind == KindDb.
	Severity string
	Code     string // 5-char SQLSTATE
	Message  string
	Detail   string
	Hint     string
	Position string
	File     string
	Line     string
	Routine  string
}

func (e *Error) Error() string {
	if e.Kind == KindDb {
		return fmt.Sprintf("pgwire: db error: %s (%s): %s", e.Severity, e.Code, e.Message)
	}
	if e.cause != nil {
		return fmt.Sprintf("pgwire: %s: %s: %v", e.Kind, e.msg, e.cause)
	}
	return fmt.Sprintf("pgwire: %s: %s", e.Kind, e.msg)
}

func (e *Error) Unwrap() error { return e.cause }

// SQLStateClass returns the first two characters of Code, grouping related
// SQLSTATEs (e.g. class "22" is data exceptions such as division by zero).
func (e *Error) SQLStateClass() string {
	if len(e.Code) < 2 {
		return ""
	}
	return e.Code[:2]
}

func newErr(kind Kind, msg string) *Error {
	return &Error{Kind: kind, msg: msg}
}

func wrapErr(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, msg: msg, cause: errors.Wrap(cause, msg)}
}

// dbErrorFromFields builds a KindDb *Error from the parsed fields of an
// ErrorResponse or NoticeResponse message (see §4 message field codes).
func dbErrorFromFields(fields map[byte]string) *Error {
	return &Error{
		Kind:     KindDb,
		Severity: fields['S'],
		Code:     fields['C'],
		Message:  fields['M'],
		Detail:   fields['D'],
		Hint:     fields['H'],
		Position: fields['P'],
		File:     fields['F'],
		Line:     fields['L'],
		Routine:  fields['R'],
	}
}

var (
	// ErrInvalidConn is returned whenever the connection has entered a
	// terminal (closed/broken) state and an operation other than Close is
	// attempted on it.
	ErrInvalidConn = newErr(KindInvalidState, "connection is closed or broken")

	// ErrBusyConnection signals a caller tried to start a second in-flight
	// request cycle on a connection while one was already active: a new
	// Query/Prepare/ExecuteSimple/Begin while a previous Rows portal is
	// still unexhausted, a Statement.Close while a Rows portal is open, or
	// a Transaction.Commit/Rollback called out of nesting order while a
	// nested Transaction handle is still live (§4.6, §5, §9).
	ErrBusyConnection = newErr(KindInvalidState, "connection already has an active request in flight")

	// ErrInFailedTransaction is returned by Prepare/Query/ExecuteSimple when
	// the connection's last-observed ReadyForQuery status is 'E': the
	// transaction is aborted and the server will reject any command other
	// than ROLLBACK/ROLLBACK TO/RELEASE until the controller finishes the
	// failed scope (§3 invariants, §4.6, §7, §8 scenario 4). Checked before
	// any bytes are written, the same way WrongParamCount is.
	ErrInFailedTransaction = newErr(KindInvalidState, "current transaction is aborted, commands ignored until end of transaction block")
)
