package pgwire

import (
	"fmt"

	"github.com/nkonev/pgwire/types"
)

// Query runs stmt with params via the extended query sub-protocol
// (parse was already done by Prepare; this does bind/execute/sync) and
// returns a lazy row iterator (§4.4). maxRows bounds each Execute batch;
// 0 requests all rows in one round trip.
func (c *Connection) Query(stmt *Statement, params []any, maxRows int32) (*Rows, error) {
	if err := c.checkUsable(); err != nil {
		return nil, err
	}
	if len(params) != stmt.NumParams() {
		return nil, newErr(KindWrongParamCount, fmt.Sprintf("statement expects %d parameters, got %d", stmt.NumParams(), len(params)))
	}

	formats, err := c.encodeAndBind(stmt, params, maxRows)
	if err != nil {
		return nil, err
	}

	rows := &Rows{conn: c, stmt: stmt, portalName: "", formats: formats}
	if err := c.awaitBindComplete(); err != nil {
		return nil, err
	}
	c.openRows = rows
	return rows, nil
}

// Execute runs stmt with params and blocks until the command completes,
// discarding any row payload (used for INSERT/UPDATE/DELETE/DDL, §4.4).
func (c *Connection) Execute(stmt *Statement, params []any) (commandTag string, rowsAffected int64, err error) {
	rows, err := c.Query(stmt, params, 0)
	if err != nil {
		return "", 0, err
	}
	for rows.Next() {
	}
	if err := rows.Err(); err != nil {
		return "", 0, err
	}
	return rows.CommandTag(), rows.RowsAffected(), nil
}

// encodeAndBind validates arity (already done by caller), encodes
// parameters, and sends Bind + Execute + Sync (§4.4 step 1-2).
func (c *Connection) encodeAndBind(stmt *Statement, params []any, maxRows int32) ([]types.Format, error) {
	paramFormats := make([]types.Format, len(params))
	encoded := make([][]byte, len(params))
	for i, p := range params {
		oid := types.Oid(0)
		if i < len(stmt.paramOids) {
			oid = stmt.paramOids[i]
		}
		if p == nil {
			encoded[i] = nil
			continue
		}
		codec, ok := c.registry.Lookup(oid)
		if !ok {
			return nil, &Error{Kind: KindWrongType, msg: fmt.Sprintf("parameter %d has unregistered OID %d", i+1, oid)}
		}
		format := types.FormatText
		if c.registry.SupportsBinary(oid) {
			format = types.FormatBinary
		}
		paramFormats[i] = format
		buf, err := codec.Encode(p, format, nil)
		if err != nil {
			return nil, wrapErr(KindWrongType, fmt.Sprintf("encoding parameter %d", i+1), err)
		}
		encoded[i] = buf
	}

	resultFormats := make([]types.Format, stmt.NumColumns())
	for i, col := range stmt.columns {
		if c.registry.SupportsBinary(col.TypeOid) {
			resultFormats[i] = types.FormatBinary
		} else {
			resultFormats[i] = types.FormatText
		}
	}

	body := make([]byte, 0, 64+len(params)*8)
	body = appendCString(body, "") // destination portal
	body = appendCString(body, stmt.name)
	body = appendInt16(body, int16(len(params)))
	for _, f := range paramFormats {
		body = appendInt16(body, int16(f))
	}
	body = appendInt16(body, int16(len(params)))
	for _, enc := range encoded {
		body = appendLenPrefixedBytes(body, enc)
	}
	body = appendInt16(body, int16(len(resultFormats)))
	for _, f := range resultFormats {
		body = appendInt16(body, int16(f))
	}

	if err := c.codec.write(tagBind, body); err != nil {
		return nil, err
	}

	execBody := make([]byte, 0, 8)
	execBody = appendCString(execBody, "")
	execBody = appendInt32(execBody, maxRows)
	if err := c.codec.write(tagExecute, execBody); err != nil {
		return nil, err
	}
	if err := c.codec.write(tagSync, nil); err != nil {
		return nil, err
	}
	return resultFormats, nil
}

// awaitBindComplete reads messages up to and including BindComplete,
// routing side channels and failing fast (after draining to ReadyForQuery)
// on ErrorResponse (§4.4 "Sync boundary rule").
func (c *Connection) awaitBindComplete() error {
	for {
		msg, err := c.codec.read()
		if err != nil {
			c.fatal(err)
			return err
		}
		switch msg.Tag {
		case tagBindComplete:
			return nil
		case tagErrorResponse:
			dbErr := errorFromResponseBody(msg.Body)
			return c.drainToReady(dbErr)
		case tagNoticeResponse:
			c.logNotice(msg.Body)
		case tagParameterStatus:
			c.absorbParameterStatus(msg.Body)
		case tagNotificationResp:
			c.absorbNotification(msg.Body)
		default:
			err := newErr(KindProtocol, "unexpected message before BindComplete")
			c.fatal(err)
			return err
		}
	}
}

// ExecuteSimple runs sql with no parameters over the simple-query path
// (§4.5): Query(sql) -> RowDescription?/DataRow*/CommandComplete ->
// ReadyForQuery. It is not cached and has no prepared Statement behind
// it, so results are described fresh each time.
func (c *Connection) ExecuteSimple(sql string) (*SimpleResult, error) {
	if err := c.checkUsable(); err != nil {
		return nil, err
	}
	return c.executeSimpleUnchecked(sql)
}

// executeSimpleUnchecked runs the simple-query path without checkUsable's
// failed-transaction guard. The transaction controller (tx.go) calls this
// directly: ROLLBACK/ROLLBACK TO/RELEASE are exactly the commands that must
// still reach the wire while the connection is in FailedTxn(n), since
// finish() is the only transition out of that state (§4.6).
func (c *Connection) executeSimpleUnchecked(sql string) (*SimpleResult, error) {
	body := appendCString(nil, sql)
	if err := c.codec.write(tagQuery, body); err != nil {
		return nil, err
	}

	res := &SimpleResult{}
	var cols []ColumnDescriptor
	var firstErr *Error

	for {
		msg, err := c.codec.read()
		if err != nil {
			c.fatal(err)
			return nil, err
		}
		switch msg.Tag {
		case tagRowDescription:
			cols, err = parseRowDescription(msg.Body)
			if err != nil {
				c.fatal(err)
				return nil, err
			}
		case tagDataRow:
			values, err := decodeSimpleDataRow(msg.Body, len(cols))
			if err != nil {
				c.fatal(err)
				return nil, err
			}
			res.Rows = append(res.Rows, values)
		case tagCommandComplete:
			cmd, n := parseCommandTag(string(trimCString(msg.Body)))
			res.CommandTag = cmd
			res.RowsAffected = n
		case tagEmptyQueryResp:
			// no-op
		case tagErrorResponse:
			if firstErr == nil {
				firstErr = errorFromResponseBody(msg.Body)
			}
		case tagNoticeResponse:
			c.logNotice(msg.Body)
		case tagParameterStatus:
			c.absorbParameterStatus(msg.Body)
		case tagNotificationResp:
			c.absorbNotification(msg.Body)
		case tagReadyForQuery:
			r := newFieldReader(msg.Body)
			status, _ := r.byte()
			c.txStatus = status
			res.Columns = cols
			if firstErr != nil {
				return nil, firstErr
			}
			return res, nil
		default:
			// ignore
		}
	}
}

// SimpleResult is the outcome of the simple-query path (§4.5). All rows
// are buffered (simple query has no server-side cursor/portal to stream
// lazily from), each row's fields already decoded to text-format bytes.
type SimpleResult struct {
	Columns      []ColumnDescriptor
	Rows         [][][]byte
	CommandTag   string
	RowsAffected int64
}

func decodeSimpleDataRow(body []byte, numCols int) ([][]byte, error) {
	r := newFieldReader(body)
	n, err := r.int16()
	if err != nil {
		return nil, err
	}
	values := make([][]byte, n)
	for i := range values {
		data, ok, err := r.lenPrefixedBytes()
		if err != nil {
			return nil, err
		}
		if ok {
			cp := make([]byte, len(data))
			copy(cp, data)
			values[i] = cp
		}
	}
	return values, nil
}
