package pgwire

import (
	"net"
	"testing"

	"github.com/nkonev/pgwire/types"
)

// fakeServer replies to every simple-query message it receives with a
// scripted CommandComplete + ReadyForQuery pair, letting tx.go's behavior
// be exercised without a real PostgreSQL instance.
type fakeServer struct {
	t       *testing.T
	codec   *codec
	queries chan string
}

func newFakeServer(t *testing.T, conn net.Conn) *fakeServer {
	return &fakeServer{t: t, codec: newCodec(conn, 64), queries: make(chan string, 16)}
}

// respond reads one Query message and writes back tag/status.
func (f *fakeServer) respond(tag string, status byte) {
	msg, err := f.codec.read()
	if err != nil {
		f.t.Fatalf("fakeServer read: %v", err)
	}
	if msg.Tag != tagQuery {
		f.t.Fatalf("fakeServer got tag %q, want %q", msg.Tag, tagQuery)
	}
	f.queries <- string(trimCString(msg.Body))

	if err := f.codec.write(tagCommandComplete, appendCString(nil, tag)); err != nil {
		f.t.Fatalf("fakeServer write CommandComplete: %v", err)
	}
	rfq := appendByte(nil, status)
	if err := f.codec.write(tagReadyForQuery, rfq); err != nil {
		f.t.Fatalf("fakeServer write ReadyForQuery: %v", err)
	}
}

func newTestConnection(t *testing.T) (*Connection, *fakeServer) {
	t.Helper()
	serverConn, clientConn := net.Pipe()
	t.Cleanup(func() { serverConn.Close(); clientConn.Close() })

	conn := &Connection{
		netConn:   clientConn,
		codec:     newCodec(clientConn, 64),
		registry:  types.NewDefaultRegistry(),
		params:    make(map[string]string),
		stmtCache: make(map[string]*Statement),
		logger:    newDefaultLogger(),
		txStatus:  txStatusIdle,
	}
	return conn, newFakeServer(t, serverConn)
}

func TestBeginCommitTopLevel(t *testing.T) {
	t.Parallel()
	conn, srv := newTestConnection(t)

	go srv.respond("BEGIN", txStatusInBlock)
	tx, err := conn.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if q := <-srv.queries; q != "BEGIN" {
		t.Fatalf("query = %q, want BEGIN", q)
	}
	if tx.Depth() != 1 {
		t.Fatalf("Depth() = %d, want 1", tx.Depth())
	}
	if conn.txDepth != 1 {
		t.Fatalf("conn.txDepth = %d, want 1", conn.txDepth)
	}

	go srv.respond("COMMIT", txStatusIdle)
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if q := <-srv.queries; q != "COMMIT" {
		t.Fatalf("query = %q, want COMMIT", q)
	}
	if conn.txDepth != 0 {
		t.Fatalf("conn.txDepth after commit = %d, want 0", conn.txDepth)
	}

	// Commit/Rollback are idempotent past the first call.
	if err := tx.Commit(); err != nil {
		t.Fatalf("second Commit: %v", err)
	}
}

func TestRollbackTopLevel(t *testing.T) {
	t.Parallel()
	conn, srv := newTestConnection(t)

	go srv.respond("BEGIN", txStatusInBlock)
	tx, err := conn.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	<-srv.queries

	go srv.respond("ROLLBACK", txStatusIdle)
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	if q := <-srv.queries; q != "ROLLBACK" {
		t.Fatalf("query = %q, want ROLLBACK", q)
	}
}

func TestNestedSavepoints(t *testing.T) {
	t.Parallel()
	conn, srv := newTestConnection(t)

	go srv.respond("BEGIN", txStatusInBlock)
	outer, err := conn.Begin()
	if err != nil {
		t.Fatalf("Begin outer: %v", err)
	}
	<-srv.queries

	go srv.respond("SAVEPOINT", txStatusInBlock)
	inner, err := conn.Begin()
	if err != nil {
		t.Fatalf("Begin inner: %v", err)
	}
	if q := <-srv.queries; q != "SAVEPOINT sp2" {
		t.Fatalf("query = %q, want SAVEPOINT sp2", q)
	}
	if inner.Depth() != 2 {
		t.Fatalf("inner Depth() = %d, want 2", inner.Depth())
	}

	go srv.respond("ROLLBACK", txStatusInBlock)
	if err := inner.Rollback(); err != nil {
		t.Fatalf("Rollback inner: %v", err)
	}
	if q := <-srv.queries; q != "ROLLBACK TO sp2; RELEASE sp2" {
		t.Fatalf("query = %q, want ROLLBACK TO sp2; RELEASE sp2", q)
	}
	if conn.txDepth != 1 {
		t.Fatalf("conn.txDepth after inner rollback = %d, want 1", conn.txDepth)
	}

	go srv.respond("COMMIT", txStatusIdle)
	if err := outer.Commit(); err != nil {
		t.Fatalf("Commit outer: %v", err)
	}
	<-srv.queries
}

// TestFailedTxnFinishIsAlwaysRollback covers spec.md's FailedTxn(n) table:
// once the server reports the transaction as failed, Commit must behave
// like Rollback rather than erroring out or attempting to COMMIT.
func TestFailedTxnFinishIsAlwaysRollback(t *testing.T) {
	t.Parallel()
	conn, srv := newTestConnection(t)

	go srv.respond("BEGIN", txStatusInBlock)
	tx, err := conn.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	<-srv.queries

	// Simulate a failed statement inside the transaction, as ExecuteSimple
	// would after observing ReadyForQuery('E').
	conn.txStatus = txStatusFailed

	go srv.respond("ROLLBACK", txStatusIdle)
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit on failed txn: %v", err)
	}
	if q := <-srv.queries; q != "ROLLBACK" {
		t.Fatalf("query = %q, want ROLLBACK even though Commit was called", q)
	}
}

// TestOuterCommitRejectedWhileInnerStillOpen covers §4.6: a nested
// Transaction handle must be finished before the scope it nests inside, so
// finishing the outer one first must fail with ErrBusyConnection rather
// than silently RELEASE/ROLLBACK a savepoint that is not innermost.
func TestOuterCommitRejectedWhileInnerStillOpen(t *testing.T) {
	t.Parallel()
	conn, srv := newTestConnection(t)

	go srv.respond("BEGIN", txStatusInBlock)
	outer, err := conn.Begin()
	if err != nil {
		t.Fatalf("Begin outer: %v", err)
	}
	<-srv.queries

	go srv.respond("SAVEPOINT", txStatusInBlock)
	inner, err := conn.Begin()
	if err != nil {
		t.Fatalf("Begin inner: %v", err)
	}
	<-srv.queries

	if err := outer.Commit(); err != ErrBusyConnection {
		t.Fatalf("outer.Commit() while inner open: err = %v, want ErrBusyConnection", err)
	}

	go srv.respond("RELEASE sp2", txStatusInBlock)
	if err := inner.Commit(); err != nil {
		t.Fatalf("inner.Commit(): %v", err)
	}
	<-srv.queries

	go srv.respond("COMMIT", txStatusIdle)
	if err := outer.Commit(); err != nil {
		t.Fatalf("outer.Commit() after inner finished: %v", err)
	}
}

func TestBeginOnClosedConnection(t *testing.T) {
	t.Parallel()
	conn, _ := newTestConnection(t)
	conn.closed.Store(true)

	if _, err := conn.Begin(); err == nil {
		t.Fatal("Begin on closed connection: expected error, got nil")
	}
}
