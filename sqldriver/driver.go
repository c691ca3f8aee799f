// Package sqldriver adapts pgwire's native Connection/Statement/Rows to
// database/sql/driver, the way the teacher driver layers driver.Conn over
// its own mysqlConn, for programs that prefer the standard library's
// interfaces over pgwire's own richer API. Importing this package for its
// side effect registers the "pgwire" database/sql driver name.
package sqldriver

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"

	"github.com/nkonev/pgwire"
	"github.com/nkonev/pgwire/dsn"
)

type Driver struct{}

func init() {
	sql.Register("pgwire", &Driver{})
}

func (d *Driver) Open(name string) (driver.Conn, error) {
	connector, err := d.OpenConnector(name)
	if err != nil {
		return nil, err
	}
	return connector.Connect(context.Background())
}

func (d *Driver) OpenConnector(name string) (driver.Connector, error) {
	cfg, err := dsn.Parse(name)
	if err != nil {
		return nil, err
	}
	return &sqlConnector{cfg: cfg}, nil
}

type sqlConnector struct {
	cfg pgwire.ConnConfig
}

func (c *sqlConnector) Connect(ctx context.Context) (driver.Conn, error) {
	conn, err := pgwire.Connect(ctx, c.cfg)
	if err != nil {
		return nil, err
	}
	return &sqlConn{conn: conn}, nil
}

func (c *sqlConnector) Driver() driver.Driver { return &Driver{} }

// sqlConn wraps Connection for database/sql. Only one in-flight request
// per connection is ever issued, matching the engine's scheduling model,
// so no extra synchronization is needed beyond what Connection already does.
type sqlConn struct {
	conn *pgwire.Connection
}

func (s *sqlConn) Prepare(query string) (driver.Stmt, error) {
	stmt, err := s.conn.Prepare(query)
	if err != nil {
		return nil, err
	}
	return &sqlStmt{conn: s.conn, stmt: stmt}, nil
}

func (s *sqlConn) Close() error { return s.conn.Close() }

func (s *sqlConn) Begin() (driver.Tx, error) {
	tx, err := s.conn.Begin()
	if err != nil {
		return nil, err
	}
	return &sqlTx{tx: tx}, nil
}

func (s *sqlConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	if sql.IsolationLevel(opts.Isolation) != sql.LevelDefault {
		return nil, errors.New("sqldriver: isolation levels are set via SET TRANSACTION, not BeginTx options")
	}
	return s.Begin()
}

func (s *sqlConn) Ping(ctx context.Context) error {
	_, err := s.conn.ExecuteSimple("SELECT 1")
	return err
}

func (s *sqlConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	stmt, err := s.conn.Prepare(query)
	if err != nil {
		return nil, err
	}
	params, err := namedValuesToParams(args)
	if err != nil {
		return nil, err
	}
	rows, err := s.conn.Query(stmt, params, 0)
	if err != nil {
		return nil, err
	}
	return &sqlRows{rows: rows, stmt: stmt}, nil
}

func (s *sqlConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	stmt, err := s.conn.Prepare(query)
	if err != nil {
		return nil, err
	}
	params, err := namedValuesToParams(args)
	if err != nil {
		return nil, err
	}
	tag, affected, err := s.conn.Execute(stmt, params)
	if err != nil {
		return nil, err
	}
	return sqlResult{tag: tag, affected: affected}, nil
}

type sqlStmt struct {
	conn *pgwire.Connection
	stmt *pgwire.Statement
}

func (s *sqlStmt) Close() error  { return s.stmt.Close() }
func (s *sqlStmt) NumInput() int { return s.stmt.NumParams() }

func (s *sqlStmt) Exec(args []driver.Value) (driver.Result, error) {
	tag, affected, err := s.conn.Execute(s.stmt, valuesToParams(args))
	if err != nil {
		return nil, err
	}
	return sqlResult{tag: tag, affected: affected}, nil
}

func (s *sqlStmt) Query(args []driver.Value) (driver.Rows, error) {
	rows, err := s.conn.Query(s.stmt, valuesToParams(args), 0)
	if err != nil {
		return nil, err
	}
	return &sqlRows{rows: rows, stmt: s.stmt}, nil
}

func (s *sqlStmt) ExecContext(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	params, err := namedValuesToParams(args)
	if err != nil {
		return nil, err
	}
	tag, affected, err := s.conn.Execute(s.stmt, params)
	if err != nil {
		return nil, err
	}
	return sqlResult{tag: tag, affected: affected}, nil
}

func (s *sqlStmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	params, err := namedValuesToParams(args)
	if err != nil {
		return nil, err
	}
	rows, err := s.conn.Query(s.stmt, params, 0)
	if err != nil {
		return nil, err
	}
	return &sqlRows{rows: rows, stmt: s.stmt}, nil
}

type sqlRows struct {
	rows *pgwire.Rows
	stmt *pgwire.Statement
}

func (r *sqlRows) Columns() []string {
	cols := r.stmt.Columns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

func (r *sqlRows) Close() error { return r.rows.Close() }

// Next surfaces raw wire bytes rather than decoded Go values: database/sql
// callers scan into *[]byte/*sql.RawBytes or rely on driver.Value's
// []byte passthrough, keeping decoding policy with the registry-backed
// codecs rather than duplicating it here.
func (r *sqlRows) Next(dest []driver.Value) error {
	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			return err
		}
		return io.EOF
	}
	row := r.rows.Row()
	for i := range dest {
		if row.IsNull(i) {
			dest[i] = nil
			continue
		}
		dest[i] = row.RawBytes(i)
	}
	return nil
}

type sqlResult struct {
	tag      string
	affected int64
}

func (r sqlResult) LastInsertId() (int64, error) {
	return 0, errors.New("sqldriver: LastInsertId is not supported, PostgreSQL has no auto-increment return value here")
}

func (r sqlResult) RowsAffected() (int64, error) { return r.affected, nil }

type sqlTx struct{ tx *pgwire.Transaction }

func (t *sqlTx) Commit() error   { return t.tx.Commit() }
func (t *sqlTx) Rollback() error { return t.tx.Rollback() }

func namedValuesToParams(args []driver.NamedValue) ([]any, error) {
	out := make([]any, len(args))
	for i, a := range args {
		if a.Name != "" {
			return nil, errors.New("sqldriver: named parameters are not supported")
		}
		out[i] = a.Value
	}
	return out, nil
}

func valuesToParams(args []driver.Value) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = a
	}
	return out
}
