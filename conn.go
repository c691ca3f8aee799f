package pgwire

import (
	"context"
	"fmt"
	"net"
	"sync/atomic"

	"github.com/nkonev/pgwire/types"
)

// Connection owns a single duplex transport and the protocol state
// machine layered on top of it (§3). It is not safe for concurrent use
// (§5): at most one request cycle may be in flight at a time.
type Connection struct {
	cfg     ConnConfig
	netConn net.Conn
	codec   *codec

	registry *types.Registry

	stmtCounter uint64

	txDepth      int
	txSavepoints []string
	txStatus     byte
	// txStack holds the live Transaction handles in open order; its last
	// element is the only one allowed to finish next (§4.6: a nested
	// handle must be closed before the scope it nests inside).
	txStack []*Transaction

	pid       int32
	secretKey int32
	params    map[string]string

	stmtCache map[string]*Statement

	// openRows is the Rows currently consuming the connection's single
	// request cycle, if any (§5: "at most one request cycle is in flight
	// on a connection at any time"). Query sets it once the portal is
	// open; Rows clears it via release once the portal is fully drained
	// or explicitly closed. While set, Prepare/Query/ExecuteSimple/Begin
	// refuse to write another request to the wire.
	openRows *Rows

	notifications    []Notification
	notifyHandler    func(Notification)

	logger Logger
	closed atomic.Bool
}

// Registry exposes the connection's per-connection type registry so
// callers can register additional codecs (§4.2 extensibility, §9 "no
// global state").
func (c *Connection) Registry() *types.Registry { return c.registry }

// ParameterStatus returns a cached server-reported parameter (e.g.
// "server_version", "client_encoding"), and whether it has been seen.
func (c *Connection) ParameterStatus(name string) (string, bool) {
	v, ok := c.params[name]
	return v, ok
}

// BackendPID and BackendSecretKey identify this connection for an
// out-of-band CancelRequest (§3, §5).
func (c *Connection) BackendPID() int32     { return c.pid }
func (c *Connection) BackendSecretKey() int32 { return c.secretKey }

// TxStatus is the most recently observed ReadyForQuery status byte
// ('I' idle, 'T' in transaction, 'E' failed transaction) (§4.4 step 4).
func (c *Connection) TxStatus() byte { return c.txStatus }

// SetNotificationHandler installs a callback invoked in-line whenever a
// NotificationResponse is absorbed between expected messages (§3.1).
// Pass nil to go back to queuing only.
func (c *Connection) SetNotificationHandler(fn func(Notification)) {
	c.notifyHandler = fn
}

// Notifications drains and returns any NotificationResponse messages
// queued since the last call (§3.1).
func (c *Connection) Notifications() []Notification {
	n := c.notifications
	c.notifications = nil
	return n
}

func (c *Connection) isClosed() bool { return c.closed.Load() }

// checkUsable enforces §5's single-consumer rule and §3's failed-
// transaction invariant before any operation that would write a new
// request to the wire: the connection must be open, must not already
// have a Rows iterator mid-stream (§9: "either is acceptable; both must
// forbid concurrent use of two live cursors on one connection"), and
// must not be sitting in FailedTxn (§7, §8 scenario 4).
func (c *Connection) checkUsable() error {
	if c.isClosed() {
		return ErrInvalidConn
	}
	if c.openRows != nil {
		return ErrBusyConnection
	}
	if c.txStatus == txStatusFailed {
		return ErrInFailedTransaction
	}
	return nil
}

// nextStatementName generates a fresh prepared-statement name (§3
// Statement, §4.3: "s<counter>").
func (c *Connection) nextStatementName() string {
	n := atomic.AddUint64(&c.stmtCounter, 1)
	return fmt.Sprintf("s%d", n)
}

// Close sends a best-effort Terminate and closes the transport (§3, §5).
// It is safe to call more than once.
func (c *Connection) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	_ = c.codec.write(tagTerminate, nil)
	return c.netConn.Close()
}

// Cancel opens a separate transport and sends CancelRequest(pid, secret)
// (§5). It must never be issued on the connection's own transport, which
// is why it dials independently rather than reusing c.netConn.
func (c *Connection) Cancel(ctx context.Context) error {
	netConn, err := dial(ctx, c.cfg)
	if err != nil {
		return wrapErr(KindConnect, "dialing cancel transport", err)
	}
	defer netConn.Close()

	const cancelRequestCode = 80877102
	body := make([]byte, 0, 16)
	body = appendInt32(body, cancelRequestCode)
	body = appendInt32(body, c.pid)
	body = appendInt32(body, c.secretKey)

	frame := make([]byte, 0, len(body)+4)
	frame = appendInt32(frame, int32(len(body)+4))
	frame = append(frame, body...)
	if _, err := netConn.Write(frame); err != nil {
		return wrapErr(KindIo, "sending CancelRequest", err)
	}
	return nil
}
