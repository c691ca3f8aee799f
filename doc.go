// Package pgwire is a native driver for PostgreSQL's frontend/backend wire
// protocol (protocol version 3, supported by the server since 7.4).
//
// It does not depend on database/sql/driver for its own API, though a thin
// compatibility layer is provided in sqldriver/driver.go for programs that
// prefer the standard library's interfaces. Connections, statements, rows,
// and transactions follow the extended query sub-protocol (parse/bind/
// describe/execute/sync) described in the PostgreSQL protocol documentation.
package pgwire
