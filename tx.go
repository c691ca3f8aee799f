package pgwire

import "fmt"

// Transaction is a scoped marker tying BEGIN/SAVEPOINT to a later
// RELEASE/ROLLBACK (§3, §4.6). depth 1 is the top-level transaction;
// depth > 1 is a savepoint-backed nested transaction. The commit-intent
// flag defaults to false (rollback) until Commit is called.
type Transaction struct {
	conn      *Connection
	depth     int
	savepoint string // only set when depth > 1
	commit    bool
	finished  bool
}

// Begin opens a transaction scope: BEGIN at depth 1, or SAVEPOINT sp<n+1>
// when nesting inside an already-open transaction (§4.6).
func (c *Connection) Begin() (*Transaction, error) {
	if err := c.checkUsable(); err != nil {
		return nil, err
	}

	depth := c.txDepth + 1
	var sql string
	var savepoint string
	if c.txDepth == 0 {
		sql = "BEGIN"
	} else {
		savepoint = fmt.Sprintf("sp%d", depth)
		sql = "SAVEPOINT " + savepoint
	}

	if _, err := c.ExecuteSimple(sql); err != nil {
		return nil, err
	}
	c.txDepth = depth
	c.txSavepoints = append(c.txSavepoints, savepoint)
	t := &Transaction{conn: c, depth: depth, savepoint: savepoint}
	c.txStack = append(c.txStack, t)
	return t, nil
}

// Commit sets the commit-intent flag and finishes the scope.
func (t *Transaction) Commit() error { return t.finish(true) }

// Rollback finishes the scope without committing (the default intent).
func (t *Transaction) Rollback() error { return t.finish(false) }

// Depth reports this scope's nesting depth (1 = top-level).
func (t *Transaction) Depth() int { return t.depth }

func (t *Transaction) finish(commit bool) error {
	if t.finished {
		return nil
	}
	c := t.conn

	if c.isClosed() {
		t.finished = true
		t.commit = commit
		return nil
	}

	// §4.6: a nested handle must be closed before the scope it nests
	// inside; committing/rolling back out of order would send RELEASE/
	// ROLLBACK for a savepoint that is no longer the innermost one open.
	if len(c.txStack) == 0 || c.txStack[len(c.txStack)-1] != t {
		return ErrBusyConnection
	}
	if c.openRows != nil {
		return ErrBusyConnection
	}

	t.finished = true
	t.commit = commit

	// FailedTxn(n): any finish acts like rollback for that depth,
	// regardless of the caller's commit intent (§4.6 table).
	failed := c.txStatus == txStatusFailed
	effectiveCommit := commit && !failed

	var sql string
	if t.depth == 1 {
		if effectiveCommit {
			sql = "COMMIT"
		} else {
			sql = "ROLLBACK"
		}
	} else {
		if effectiveCommit {
			sql = "RELEASE " + t.savepoint
		} else {
			sql = "ROLLBACK TO " + t.savepoint + "; RELEASE " + t.savepoint
		}
	}

	_, err := c.executeSimpleUnchecked(sql)

	c.txStack = c.txStack[:len(c.txStack)-1]
	c.txDepth = t.depth - 1
	if len(c.txSavepoints) > 0 {
		c.txSavepoints = c.txSavepoints[:len(c.txSavepoints)-1]
	}
	return err
}
