package pgwire

import "github.com/nkonev/pgwire/types"

// ColumnDescriptor mirrors one RowDescription field (§3 Statement).
type ColumnDescriptor struct {
	Name         string
	TableOid     uint32
	ColumnIndex  int16
	TypeOid      types.Oid
	TypeSize     int16
	TypeModifier int32
	FormatCode   int16
}

// Statement is an immutable handle to a parsed, described prepared
// statement (§3). It is invalidated when its connection closes or a
// containing transaction rolls back past its creation point; the engine
// does not track that rollback boundary itself (callers that need strict
// invalidation should re-prepare after a rollback).
type Statement struct {
	conn      *Connection
	name      string
	sql       string
	paramOids []types.Oid
	columns   []ColumnDescriptor
	closed    bool
}

func (s *Statement) Name() string                    { return s.name }
func (s *Statement) SQL() string                     { return s.sql }
func (s *Statement) ParamOids() []types.Oid          { return s.paramOids }
func (s *Statement) Columns() []ColumnDescriptor     { return s.columns }
func (s *Statement) NumParams() int                  { return len(s.paramOids) }
func (s *Statement) NumColumns() int                 { return len(s.columns) }

// Prepare sends Parse/Describe/Sync for sql and blocks until the server
// has described it (§4.3). Identical SQL text may be served from the
// per-connection cache; this is an optimization, not a correctness
// requirement (§4.3: "not required for correctness").
func (c *Connection) Prepare(sql string) (*Statement, error) {
	if err := c.checkUsable(); err != nil {
		return nil, err
	}
	if cached, ok := c.stmtCache[sql]; ok && !cached.closed {
		return cached, nil
	}

	name := c.nextStatementName()

	parseBody := make([]byte, 0, len(sql)+16)
	parseBody = appendCString(parseBody, name)
	parseBody = appendCString(parseBody, sql)
	parseBody = appendInt16(parseBody, 0) // no prespecified param types

	describeBody := make([]byte, 0, len(name)+2)
	describeBody = appendByte(describeBody, targetStatement)
	describeBody = appendCString(describeBody, name)

	if err := c.codec.write(tagParse, parseBody); err != nil {
		return nil, err
	}
	if err := c.codec.write(tagDescribe, describeBody); err != nil {
		return nil, err
	}
	if err := c.codec.write(tagSync, nil); err != nil {
		return nil, err
	}

	stmt := &Statement{conn: c, name: name, sql: sql}
	var firstErr *Error

	for {
		msg, err := c.codec.read()
		if err != nil {
			c.fatal(err)
			return nil, err
		}
		switch msg.Tag {
		case tagParseComplete:
			// expected, nothing to record
		case tagParameterDesc:
			oids, err := parseParameterDescription(msg.Body)
			if err != nil {
				c.fatal(err)
				return nil, err
			}
			stmt.paramOids = oids
		case tagRowDescription:
			cols, err := parseRowDescription(msg.Body)
			if err != nil {
				c.fatal(err)
				return nil, err
			}
			stmt.columns = cols
		case tagNoData:
			stmt.columns = nil
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
			if firstErr != nil {
				return nil, firstErr
			}
			c.stmtCache[sql] = stmt
			return stmt, nil
		default:
			err := newErr(KindProtocol, "unexpected message during prepare")
			c.fatal(err)
			return nil, err
		}
	}
}

func parseParameterDescription(body []byte) ([]types.Oid, error) {
	r := newFieldReader(body)
	n, err := r.int16()
	if err != nil {
		return nil, err
	}
	oids := make([]types.Oid, n)
	for i := range oids {
		v, err := r.int32()
		if err != nil {
			return nil, err
		}
		oids[i] = types.Oid(uint32(v))
	}
	return oids, nil
}

func parseRowDescription(body []byte) ([]ColumnDescriptor, error) {
	r := newFieldReader(body)
	n, err := r.int16()
	if err != nil {
		return nil, err
	}
	cols := make([]ColumnDescriptor, n)
	for i := range cols {
		name, err := r.cstring()
		if err != nil {
			return nil, err
		}
		tableOid, err := r.int32()
		if err != nil {
			return nil, err
		}
		colIdx, err := r.int16()
		if err != nil {
			return nil, err
		}
		typeOid, err := r.int32()
		if err != nil {
			return nil, err
		}
		typeSize, err := r.int16()
		if err != nil {
			return nil, err
		}
		typeMod, err := r.int32()
		if err != nil {
			return nil, err
		}
		formatCode, err := r.int16()
		if err != nil {
			return nil, err
		}
		cols[i] = ColumnDescriptor{
			Name:         name,
			TableOid:     uint32(tableOid),
			ColumnIndex:  colIdx,
			TypeOid:      types.Oid(uint32(typeOid)),
			TypeSize:     typeSize,
			TypeModifier: typeMod,
			FormatCode:   formatCode,
		}
	}
	return cols, nil
}

// Close sends Close(statement) followed by Sync (§3 Statement lifecycle)
// and drains the response. It is safe to call more than once.
func (s *Statement) Close() error {
	if s.closed {
		return nil
	}
	c := s.conn
	if c.isClosed() {
		s.closed = true
		return nil
	}
	if c.openRows != nil {
		return ErrBusyConnection
	}
	s.closed = true
	delete(c.stmtCache, s.sql)

	body := make([]byte, 0, len(s.name)+2)
	body = appendByte(body, targetStatement)
	body = appendCString(body, s.name)
	if err := c.codec.write(tagClose, body); err != nil {
		return err
	}
	if err := c.codec.write(tagSync, nil); err != nil {
		return err
	}
	return c.drainToReady(nil)
}

// absorbNotification queues a NotificationResponse and, if a handler is
// installed, invokes it in-line (§3.1).
func (c *Connection) absorbNotification(body []byte) {
	r := newFieldReader(body)
	pid, err := r.int32()
	if err != nil {
		return
	}
	channel, err := r.cstring()
	if err != nil {
		return
	}
	payload, err := r.cstring()
	if err != nil {
		return
	}
	n := Notification{Pid: pid, Channel: channel, Payload: payload}
	if c.notifyHandler != nil {
		c.notifyHandler(n)
		return
	}
	c.notifications = append(c.notifications, n)
}

// fatal marks the connection broken on a Protocol/Io error (§7
// propagation policy: "Protocol and Io errors are fatal for the
// connection; subsequent operations return InvalidState").
func (c *Connection) fatal(err error) {
	if e, ok := err.(*Error); ok && (e.Kind == KindProtocol || e.Kind == KindIo) {
		c.closed.Store(true)
	}
}

// drainToReady consumes messages until ReadyForQuery, routing side-channel
// messages and recording the first Db error encountered, then returns it
// (§4.4 "Sync boundary rule", §7). If a pre-existing error is passed in,
// it takes priority over any encountered during the drain.
func (c *Connection) drainToReady(preErr *Error) error {
	firstErr := preErr
	for {
		msg, err := c.codec.read()
		if err != nil {
			c.fatal(err)
			return err
		}
		switch msg.Tag {
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
			if firstErr != nil {
				return firstErr
			}
			return nil
		default:
			// CloseComplete, CommandComplete, DataRow, etc: discarded
		}
	}
}
