package esodbc

import (
	"context"
	"io"
)

// Cursor owns a result set's paging state: the current page of rows, the
// server-issued continuation token, and the column descriptor. Grounded on
// the teacher's Rows struct (which owns column metadata and drives
// iteration via repeated Fetch+GetData calls against one driver manager
// handle) and on attach_columns/clear_resultset in the original driver's
// queries.c, which the descriptor-rebuild-on-new-page logic below mirrors.
type Cursor struct {
	transport Transport
	registry  *typeRegistry
	desc      *Descriptor
	page      [][]interface{}
	pos       int
	token     string
	done      bool
	closed    bool
}

// openCursor issues the first page for a query and builds the IRD from its
// columns array.
func openCursor(ctx context.Context, transport Transport, reg *typeRegistry, req *queryRequest) (*Cursor, error) {
	resp, err := transport.Query(ctx, req)
	if err != nil {
		return nil, err
	}
	c := &Cursor{
		transport: transport,
		registry:  reg,
		desc:      FromColumns(resp.Columns, reg),
		page:      resp.Rows,
		token:     resp.Cursor,
	}
	if c.token == "" {
		c.done = true
	}
	return c, nil
}

// Descriptor returns the cursor's IRD (column metadata).
func (c *Cursor) Descriptor() *Descriptor { return c.desc }

// Next advances to the next row, transparently fetching the next page via
// the cursor token when the current page is exhausted. Returns io.EOF once
// the server reports no further cursor.
func (c *Cursor) Next(ctx context.Context) ([]interface{}, error) {
	if c.closed {
		return nil, io.EOF
	}
	for c.pos >= len(c.page) {
		if c.done {
			return nil, io.EOF
		}
		resp, err := c.transport.Query(ctx, &queryRequest{Cursor: c.token})
		if err != nil {
			return nil, err
		}
		c.page = resp.Rows
		c.pos = 0
		c.token = resp.Cursor
		if c.token == "" {
			c.done = true
		}
		if len(resp.Columns) > 0 {
			c.desc = FromColumns(resp.Columns, c.registry)
		}
		if len(c.page) == 0 && c.done {
			return nil, io.EOF
		}
	}
	row := c.page[c.pos]
	c.pos++
	return row, nil
}

// Close releases the server-side cursor if one is still open. It is safe to
// call multiple times.
func (c *Cursor) Close(ctx context.Context) error {
	if c.closed {
		return nil
	}
	c.closed = true
	if c.done || c.token == "" {
		return nil
	}
	return c.transport.CloseCursor(ctx, c.token)
}
