package esodbc

import (
	"context"
	"database/sql/driver"
	"io"
	"sync"
)

// Stmt implements driver.Stmt over a prepared query string. Unlike the
// teacher's Stmt (a thin wrapper around an SQLHSTMT, with most of its state
// devoted to output-parameter buffers and array-binding setup for stored
// procedures and batch DML), ES SQL has no stored procedures and no batch
// DML (spec Non-goals), so those concerns are dropped entirely -- see
// DESIGN.md for the justification. What remains is exactly what ES SQL
// needs: the translated query text, its named-parameter position map, and
// the Conn it runs against.
type Stmt struct {
	conn     *Conn
	query    string
	numInput int
	named    *NamedParams

	mu     sync.Mutex
	closed bool

	diag Diagnostics
}

// Diagnostics returns the statement's queued diagnostic records.
func (s *Stmt) Diagnostics() []DiagRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.diag.Records()
}

// Close releases the statement. There is no server-side prepared handle to
// free (ES SQL has no PREPARE), so this only flips the closed flag.
func (s *Stmt) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// NumInput returns the number of distinct parameters the statement expects,
// or -1 if the query had no parameters recognized by ParseNamedParams.
func (s *Stmt) NumInput() int {
	return s.numInput
}

// Exec executes a prepared statement without returning rows.
// Deprecated: use ExecContext.
func (s *Stmt) Exec(args []driver.Value) (driver.Result, error) {
	return s.ExecContext(context.Background(), valuesToNamed(args))
}

// ExecContext runs the statement and discards any rows it returns. ES SQL
// has no DML, so RowsAffected is always 0 (spec Non-goals); ExecContext
// still exists so database/sql.Exec works for a side-effect-free statement,
// and it fully drains the cursor so any mid-page server error surfaces to
// the caller instead of being silently dropped.
func (s *Stmt) ExecContext(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	cursor, err := s.runQuery(ctx, args)
	if err != nil {
		s.recordDiag(err)
		return nil, err
	}
	defer cursor.Close(ctx)

	for {
		_, err := cursor.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			s.recordDiag(err)
			return nil, err
		}
	}
	return &Result{}, nil
}

// recordDiag queues err onto the statement's diagnostics, matching
// SQLExecute/SQLExecDirect posting a diagnostic record on failure.
func (s *Stmt) recordDiag(err error) {
	s.mu.Lock()
	s.diag.record(err)
	s.mu.Unlock()
}

// Query executes a prepared statement that returns rows.
// Deprecated: use QueryContext.
func (s *Stmt) Query(args []driver.Value) (driver.Rows, error) {
	return s.QueryContext(context.Background(), valuesToNamed(args))
}

// QueryContext runs the statement and returns its result set as a driver.Rows.
func (s *Stmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	cursor, err := s.runQuery(ctx, args)
	if err != nil {
		s.recordDiag(err)
		return nil, err
	}
	return newRows(cursor), nil
}

// runQuery binds args into the `_sql` request's params array (C5) and opens
// a cursor (C7) for it.
func (s *Stmt) runQuery(ctx context.Context, args []driver.NamedValue) (*Cursor, error) {
	s.mu.Lock()
	closed := s.closed
	conn := s.conn
	s.mu.Unlock()

	if closed {
		return nil, driver.ErrBadConn
	}
	s.mu.Lock()
	s.diag.Clear()
	s.mu.Unlock()

	params, err := s.buildParams(args)
	if err != nil {
		return nil, err
	}

	req := &queryRequest{
		Query:     s.query,
		Params:    params,
		FetchSize: conn.cfg.FetchSize,
		TimeZone:  conn.cfg.ApplyTZ,
	}
	cursor, err := openCursor(ctx, conn.transport, conn.registry, req)
	if err != nil {
		return nil, err
	}

	desc := cursor.Descriptor()
	if isCatalogQuery(s.query) {
		updateVarcharDefs(desc, conn.cfg.VarcharLimit)
	}
	applyVarcharLimit(desc, conn.cfg.VarcharLimit)
	return cursor, nil
}

func (s *Stmt) buildParams(args []driver.NamedValue) ([]wireParam, error) {
	if s.named != nil {
		return s.buildNamedParams(args)
	}

	params := make([]wireParam, 0, len(args))
	for _, a := range args {
		if a.Ordinal < 1 {
			continue
		}
		idx := a.Ordinal - 1
		for len(params) <= idx {
			params = append(params, wireParam{})
		}
		if err := checkBindCompatible(a.Value); err != nil {
			return nil, err
		}
		p, err := convertToWireParam(a.Value)
		if err != nil {
			return nil, err
		}
		params[idx] = p
	}
	return params, nil
}

// buildNamedParams fills the params array at every position a named
// parameter occupies (a single :name may appear more than once in the
// original query text), matching how PrepareContext/ParseNamedParams
// recorded those positions before rewriting the query to plain '?'.
func (s *Stmt) buildNamedParams(args []driver.NamedValue) ([]wireParam, error) {
	total := 0
	for _, positions := range s.named.Positions {
		if last := positions[len(positions)-1]; last > total {
			total = last
		}
	}
	params := make([]wireParam, total)

	valueByName := make(map[string]interface{})
	valueByOrdinal := make(map[int]interface{})
	for _, a := range args {
		if a.Name != "" {
			valueByName[a.Name] = a.Value
		} else if a.Ordinal > 0 {
			valueByOrdinal[a.Ordinal] = a.Value
		}
	}

	for name, positions := range s.named.Positions {
		value, ok := valueByName[name]
		if !ok {
			for idx, n := range s.named.Names {
				if n == name {
					if v, exists := valueByOrdinal[idx+1]; exists {
						value, ok = v, true
					}
					break
				}
			}
		}
		if !ok {
			return nil, &ParameterError{Name: name, Message: "missing value for named parameter"}
		}
		if err := checkBindCompatible(value); err != nil {
			return nil, err
		}
		wp, err := convertToWireParam(value)
		if err != nil {
			return nil, err
		}
		for _, pos := range positions {
			params[pos-1] = wp
		}
	}
	return params, nil
}

func valuesToNamed(args []driver.Value) []driver.NamedValue {
	named := make([]driver.NamedValue, len(args))
	for i, v := range args {
		named[i] = driver.NamedValue{Ordinal: i + 1, Value: v}
	}
	return named
}

// Ensure Stmt implements the required interfaces.
var (
	_ driver.Stmt             = (*Stmt)(nil)
	_ driver.StmtExecContext  = (*Stmt)(nil)
	_ driver.StmtQueryContext = (*Stmt)(nil)
)
