package esodbc

import (
	"context"
	"database/sql/driver"
	"sync"
)

// Conn implements driver.Conn over a Transport instead of a native ODBC
// connection handle. One Conn corresponds to one server-side session; since
// Elasticsearch SQL has no connection-scoped state beyond the cursor token
// carried on each Rows, Conn itself stays small -- Transport/registry/cfg
// are shared read-only across every Stmt/Rows it creates.
type Conn struct {
	transport Transport
	registry  *typeRegistry
	cfg       Config

	mu     sync.Mutex
	closed bool

	diag Diagnostics
}

// Diagnostics returns the connection's queued diagnostic records, the
// multi-record equivalent of SQLGetDiagRec against a connection handle.
func (c *Conn) Diagnostics() []DiagRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.diag.Records()
}

// Prepare prepares a statement for execution.
func (c *Conn) Prepare(query string) (driver.Stmt, error) {
	return c.PrepareContext(context.Background(), query)
}

// PrepareContext parses named parameters and escape clauses up front; there
// is no server-side prepare call to make (ES SQL has no PREPARE statement),
// so "preparing" is purely client-side text processing, same cost whether
// the statement is executed once or reused.
func (c *Conn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, driver.ErrBadConn
	}
	c.diag.Clear()

	translated := translateEscapes(query)
	named := ParseNamedParams(translated)

	stmt := &Stmt{conn: c, query: translated}
	if named != nil {
		stmt.query = named.Query
		stmt.named = named
		stmt.numInput = len(named.Names)
	} else {
		stmt.numInput = -1
	}
	return stmt, nil
}

// Close releases the connection. There is no native handle to free; a
// Transport may hold a pooled HTTP client, which outlives any single Conn
// by design (see RestyTransport), so Close is just a state flag.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Begin starts a new transaction (deprecated, use BeginTx).
func (c *Conn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

// BeginTx is a no-op that always succeeds: Elasticsearch SQL has no
// transactions (spec Non-goals), but database/sql callers that wrap work in
// db.Begin()/tx.Commit() shouldn't have to special-case this driver.
func (c *Conn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, driver.ErrBadConn
	}
	return &Tx{}, nil
}

// Ping verifies the connection is still alive via Transport.Ping.
func (c *Conn) Ping(ctx context.Context) error {
	c.mu.Lock()
	closed := c.closed
	transport := c.transport
	c.mu.Unlock()

	if closed {
		return driver.ErrBadConn
	}
	if err := transport.Ping(ctx); err != nil {
		c.mu.Lock()
		c.diag.record(err)
		c.mu.Unlock()
		if IsConnectionError(err) {
			return driver.ErrBadConn
		}
		return err
	}
	return nil
}

// ExecContext executes a query without returning rows. Elasticsearch SQL
// has no DML (Non-goals), so Result.RowsAffected is always 0; ExecContext
// still runs the query and drains its cursor so a caller using Exec for a
// side-effect-free statement (or a CREATE/DROP-style admin command the
// server accepts outside SQL proper) observes any error synchronously.
func (c *Conn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	stmt, err := c.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()
	res, err := stmt.(*Stmt).ExecContext(ctx, args)
	if err != nil {
		c.mu.Lock()
		c.diag.record(err)
		c.mu.Unlock()
	}
	return res, err
}

// QueryContext executes a query that returns rows.
func (c *Conn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	stmt, err := c.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.(*Stmt).QueryContext(ctx, args)
	if err != nil {
		stmt.Close()
		c.mu.Lock()
		c.diag.record(err)
		c.mu.Unlock()
		return nil, err
	}
	rows.(*Rows).closeStmt = true
	return rows, nil
}

// ResetSession is called before a pooled connection is reused.
func (c *Conn) ResetSession(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return driver.ErrBadConn
	}
	return nil
}

// IsValid reports whether the connection is still usable.
func (c *Conn) IsValid() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

// CheckNamedValue accepts the driver's enhanced bind types (GUID, Decimal,
// Timestamp/TimestampTZ, WideString, IntervalYearMonth/IntervalDaySecond) in
// addition to database/sql's default set, so callers can pass them straight
// to Exec/Query without a manual driver.Valuer wrapper. Everything else
// falls through to the default converter.
func (c *Conn) CheckNamedValue(nv *driver.NamedValue) error {
	switch nv.Value.(type) {
	case GUID, Decimal, Timestamp, TimestampTZ, WideString, IntervalYearMonth, IntervalDaySecond:
		return checkBindCompatible(nv.Value)
	}
	v, err := driver.DefaultParameterConverter.ConvertValue(nv.Value)
	if err != nil {
		return err
	}
	nv.Value = v
	return nil
}

// Ensure Conn implements the required interfaces.
var (
	_ driver.Conn               = (*Conn)(nil)
	_ driver.ConnPrepareContext = (*Conn)(nil)
	_ driver.ConnBeginTx        = (*Conn)(nil)
	_ driver.Pinger             = (*Conn)(nil)
	_ driver.ExecerContext      = (*Conn)(nil)
	_ driver.QueryerContext     = (*Conn)(nil)
	_ driver.SessionResetter    = (*Conn)(nil)
	_ driver.Validator          = (*Conn)(nil)
)
