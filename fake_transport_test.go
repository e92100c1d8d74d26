package esodbc

import (
	"context"
	"io"
)

// fakeTransport is an in-memory Transport double, standing in for the
// RestyTransport/live server pairing the way the teacher's odbc_test.go used
// a mock ODBC driver manager instead of a real database.
type fakeTransport struct {
	pages      []*queryResponse
	pingErr    error
	queryErr   error
	closed     []string
	queryCalls []*queryRequest
}

func (f *fakeTransport) Query(ctx context.Context, req *queryRequest) (*queryResponse, error) {
	f.queryCalls = append(f.queryCalls, req)
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if len(f.pages) == 0 {
		return nil, io.EOF
	}
	resp := f.pages[0]
	f.pages = f.pages[1:]
	return resp, nil
}

func (f *fakeTransport) CloseCursor(ctx context.Context, cursor string) error {
	f.closed = append(f.closed, cursor)
	return nil
}

// Ping mirrors RestyTransport.Ping, which is a "SELECT 1" query: it records
// that query and consumes one queued page, if any, before returning pingErr.
func (f *fakeTransport) Ping(ctx context.Context) error {
	f.queryCalls = append(f.queryCalls, &queryRequest{Query: "SELECT 1", FetchSize: 1})
	if len(f.pages) > 0 {
		f.pages = f.pages[1:]
	}
	return f.pingErr
}

var _ Transport = (*fakeTransport)(nil)
