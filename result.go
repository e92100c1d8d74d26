package esodbc

import (
	"database/sql/driver"
)

// Result implements driver.Result. Elasticsearch SQL has no DML (spec
// Non-goals: no INSERT/UPDATE/DELETE, no identity columns, no stored
// procedures), so both methods report the only honest answer for a
// read-only query engine -- unlike the teacher's Result, there is nothing
// here to populate from a server response.
type Result struct{}

// LastInsertId always returns an error: there is no identity concept for a
// query engine with no INSERT.
func (r *Result) LastInsertId() (int64, error) {
	return 0, &Error{SQLState: SQLStateDriverNotCapable, Message: "LastInsertId is not supported: Elasticsearch SQL has no DML"}
}

// RowsAffected always returns 0: Elasticsearch SQL queries never affect rows.
func (r *Result) RowsAffected() (int64, error) {
	return 0, nil
}

// Ensure Result implements driver.Result.
var _ driver.Result = (*Result)(nil)
