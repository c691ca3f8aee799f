package pgwire

import (
	"fmt"

	"github.com/nkonev/pgwire/types"
)

// Row is one DataRow: an ordered sequence of optional byte slices, each
// either NULL or the raw field bytes in the negotiated format (§3 Row).
// Fields are decoded lazily by the value codec on access.
type Row struct {
	stmt    *Statement
	formats []types.Format
	values  [][]byte // nil entry means SQL NULL
}

// Len is the row's field count, always equal to the statement's column
// count (§3 invariants).
func (r *Row) Len() int { return len(r.values) }

func (r *Row) indexByName(name string) (int, bool) {
	for i, col := range r.stmt.columns {
		if col.Name == name {
			return i, true
		}
	}
	return 0, false
}

// IsNull reports whether field i is SQL NULL.
func (r *Row) IsNull(i int) bool { return r.values[i] == nil }

// RawBytes returns the raw wire bytes for field i, or nil if NULL.
func (r *Row) RawBytes(i int) []byte { return r.values[i] }

// Get decodes field i using reg's codec for the column's declared OID. It
// fails with an *Error of KindWrongType when the index is out of range, no
// codec is registered for that OID, or the codec fails to decode the
// bytes; the codec's AcceptsOid is not consulted.
func (r *Row) Get(i int, reg *types.Registry) (any, error) {
	if i < 0 || i >= len(r.values) {
		return nil, newErr(KindWrongType, "column index out of range")
	}
	col := r.stmt.columns[i]
	if r.values[i] == nil {
		return nil, nil
	}
	codec, ok := reg.Lookup(col.TypeOid)
	if !ok {
		return nil, &Error{Kind: KindWrongType, msg: fmt.Sprintf("column %q has unregistered OID %d", col.Name, col.TypeOid)}
	}
	v, err := codec.Decode(r.values[i], r.formats[i])
	if err != nil {
		return nil, wrapErr(KindWrongType, fmt.Sprintf("decoding column %q", col.Name), err)
	}
	return v, nil
}

// GetByName is Get, looking the column index up by name first.
func (r *Row) GetByName(name string, reg *types.Registry) (any, error) {
	i, ok := r.indexByName(name)
	if !ok {
		return nil, newErr(KindWrongType, fmt.Sprintf("no column named %q", name))
	}
	return r.Get(i, reg)
}

// checkOid applies the §4.2 type-checking rule for a given codec before
// any bytes are examined; no accessor in this package calls it.
func (r *Row) checkOid(i int, codec types.Codec, wantedByName string) error {
	col := r.stmt.columns[i]
	if !codec.AcceptsOid(col.TypeOid) {
		return &types.WrongTypeError{Oid: col.TypeOid, WantedByName: wantedByName}
	}
	return nil
}

// Rows is a lazy row iterator bound to a server-side portal (§4.4). It
// must be exhausted or explicitly closed; on drop before exhaustion, the
// engine sends Close(portal) then Sync to discard server-side state
// (§4.4, §5, §9 open question: "emit it, ignore Db errors, observe
// ReadyForQuery").
type Rows struct {
	conn       *Connection
	stmt       *Statement
	portalName string
	formats    []types.Format

	done      bool // CommandComplete/EmptyQueryResponse observed, no more rows this batch
	suspended bool // PortalSuspended observed; call Fetch for the next batch
	exhausted bool // portal fully drained and closed

	cmd      string
	affected int64
	err      *Error

	pending *Row // the next row, fetched by Next and returned by this field
}

// Next advances the iterator. It returns false at end of data or on
// error; callers should check Err after a false return.
func (r *Rows) Next() bool {
	if r.exhausted || r.err != nil {
		return false
	}
	for {
		msg, err := r.conn.codec.read()
		if err != nil {
			r.conn.fatal(err)
			r.err = wrapErr(KindIo, "reading row data", err)
			r.release()
			return false
		}
		switch msg.Tag {
		case tagDataRow:
			row, err := r.decodeDataRow(msg.Body)
			if err != nil {
				r.err = err.(*Error)
				r.conn.fatal(r.err)
				r.release()
				return false
			}
			r.pending = row
			return true
		case tagCommandComplete:
			r.cmd, r.affected = parseCommandTag(string(trimCString(msg.Body)))
			r.done = true
		case tagEmptyQueryResp:
			r.done = true
		case tagPortalSuspended:
			r.suspended = true
			r.done = true
		case tagErrorResponse:
			if r.err == nil {
				r.err = errorFromResponseBody(msg.Body)
			}
			r.done = true
		case tagNoticeResponse:
			r.conn.logNotice(msg.Body)
		case tagParameterStatus:
			r.conn.absorbParameterStatus(msg.Body)
		case tagNotificationResp:
			r.conn.absorbNotification(msg.Body)
		case tagReadyForQuery:
			fr := newFieldReader(msg.Body)
			status, _ := fr.byte()
			r.conn.txStatus = status
			r.exhausted = true
			if !r.suspended {
				r.release()
			}
			return false
		default:
			// ignore unexpected tags rather than abort a live row stream
		}
	}
}

func (r *Rows) decodeDataRow(body []byte) (*Row, error) {
	fr := newFieldReader(body)
	n, err := fr.int16()
	if err != nil {
		return nil, err
	}
	if int(n) != r.stmt.NumColumns() {
		return nil, newErr(KindProtocol, "DataRow field count does not match statement column count")
	}
	values := make([][]byte, n)
	for i := range values {
		data, ok, err := fr.lenPrefixedBytes()
		if err != nil {
			return nil, err
		}
		if ok {
			cp := make([]byte, len(data))
			copy(cp, data)
			values[i] = cp
		}
	}
	return &Row{stmt: r.stmt, formats: r.formats, values: values}, nil
}

// release clears the connection's busy marker once this Rows is no longer
// consuming the request cycle (§5). A suspended portal stays busy across
// Fetch calls, so only a non-suspended end of batch or an explicit Close
// may release it.
func (r *Rows) release() {
	if r.conn.openRows == r {
		r.conn.openRows = nil
	}
}

// Row returns the row most recently produced by Next.
func (r *Rows) Row() *Row { return r.pending }

// Err returns the first Db/Io/Protocol error observed, if any.
func (r *Rows) Err() error {
	if r.err == nil {
		return nil
	}
	return r.err
}

// CommandTag and RowsAffected report the CommandComplete summary once the
// current batch is drained (§4.4 step 3).
func (r *Rows) CommandTag() string  { return r.cmd }
func (r *Rows) RowsAffected() int64 { return r.affected }

// Suspended reports whether the server stopped at the row limit passed to
// Execute and more rows may be available via Fetch (§4.4 step 3,
// PortalSuspended).
func (r *Rows) Suspended() bool { return r.suspended }

// Fetch requests the next batch of up to maxRows rows from a suspended
// portal by sending another Execute/Sync pair (§4.4 step 3).
func (r *Rows) Fetch(maxRows int32) error {
	if !r.suspended {
		return newErr(KindInvalidState, "Fetch called on a portal that is not suspended")
	}
	r.suspended = false
	r.done = false
	r.exhausted = false

	body := make([]byte, 0, len(r.portalName)+8)
	body = appendCString(body, r.portalName)
	body = appendInt32(body, maxRows)
	if err := r.conn.codec.write(tagExecute, body); err != nil {
		return err
	}
	return r.conn.codec.write(tagSync, nil)
}

// Close discards any unread rows and server-side portal state. Safe to
// call more than once and after full exhaustion.
func (r *Rows) Close() error {
	if r.exhausted {
		r.release()
		return nil
	}
	conn := r.conn
	if conn.isClosed() {
		r.exhausted = true
		r.release()
		return nil
	}
	// drain any rows still buffered in this batch without surfacing them;
	// Next already consumes the ReadyForQuery for the original Sync once
	// the batch ends, leaving the connection at a clean request boundary.
	for r.Next() {
	}
	if r.err != nil && r.err.Kind != KindDb {
		// connection-level failure already observed; nothing left to close
		r.release()
		return r.err
	}
	body := appendCString(nil, r.portalName)
	closeBody := append([]byte{targetPortal}, body...)
	if err := conn.codec.write(tagClose, closeBody); err != nil {
		r.release()
		return err
	}
	if err := conn.codec.write(tagSync, nil); err != nil {
		r.release()
		return err
	}
	// per §9 open question: emit Close+Sync, ignore Db errors, observe RFQ
	err := conn.drainToReady(nil)
	r.exhausted = true
	r.release()
	if dbErr, ok := err.(*Error); ok && dbErr.Kind == KindDb {
		return nil
	}
	return err
}

func trimCString(body []byte) []byte {
	for i, b := range body {
		if b == 0 {
			return body[:i]
		}
	}
	return body
}
