package pgwire

import (
	"testing"

	"github.com/nkonev/pgwire/types"
)

// TestRowsCloseBeforeExhaustionObservesBothReadyForQuery exercises the §4.4
// Sync boundary rule across an early Close: abandoning a Rows before its
// CommandComplete must still consume the ReadyForQuery for the original
// Sync before the portal-Close request is sent, and the ReadyForQuery for
// the Close's own Sync before the connection is handed back, so a later
// request on the same connection never desyncs against a stale reply.
func TestRowsCloseBeforeExhaustionObservesBothReadyForQuery(t *testing.T) {
	t.Parallel()
	conn, srv := newTestConnection(t)

	cols := []ColumnDescriptor{{Name: "id", TypeOid: types.Oid(23)}}
	go srv.respondPrepare(nil, cols)
	stmt, err := conn.Prepare("SELECT id FROM t")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	id1, _ := types.Int4Codec.Encode(int64(1), types.FormatText, nil)
	id2, _ := types.Int4Codec.Encode(int64(2), types.FormatText, nil)
	go srv.respondBindExecute([][][]byte{{id1}, {id2}}, "SELECT 2", txStatusIdle)

	rows, err := conn.Query(stmt, nil, 0)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !rows.Next() {
		t.Fatalf("Next() = false, want true; Err() = %v", rows.Err())
	}

	// Close without reading the second row: must drain the remaining
	// DataRow, CommandComplete and the first ReadyForQuery, then issue
	// Close(portal)+Sync and observe the second ReadyForQuery.
	closeDone := make(chan struct{})
	go func() {
		defer close(closeDone)
		msg, err := srv.codec.read()
		if err != nil {
			t.Errorf("fakeServer read Close: %v", err)
			return
		}
		if msg.Tag != tagClose {
			t.Errorf("tag = %q, want Close", msg.Tag)
			return
		}
		if _, err := srv.codec.read(); err != nil { // Sync
			t.Errorf("fakeServer read Sync: %v", err)
			return
		}
		if err := srv.codec.write(tagCloseComplete, nil); err != nil {
			t.Errorf("write CloseComplete: %v", err)
		}
		if err := srv.codec.write(tagReadyForQuery, appendByte(nil, txStatusIdle)); err != nil {
			t.Errorf("write second ReadyForQuery: %v", err)
		}
	}()

	if err := rows.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	<-closeDone

	// The connection must be left at a clean request boundary: a further
	// simple query must not trip over a stale ReadyForQuery.
	go srv.respond("SELECT 1", txStatusIdle)
	if _, err := conn.ExecuteSimple("SELECT 1"); err != nil {
		t.Fatalf("ExecuteSimple after Close: %v", err)
	}
}

// TestRowsFullyIteratedClosesWithoutExtraRoundTrip confirms the normal path
// (Next called to exhaustion) leaves the connection ready for a subsequent
// request without requiring a separate Close call.
func TestRowsFullyIteratedClosesWithoutExtraRoundTrip(t *testing.T) {
	t.Parallel()
	conn, srv := newTestConnection(t)

	go srv.respondPrepare(nil, nil)
	stmt, err := conn.Prepare("DELETE FROM t")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	go srv.respondBindExecute(nil, "DELETE 0", txStatusIdle)
	if _, _, err := conn.Execute(stmt, nil); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	go srv.respond("SELECT 1", txStatusIdle)
	if _, err := conn.ExecuteSimple("SELECT 1"); err != nil {
		t.Fatalf("ExecuteSimple after Execute: %v", err)
	}
}
