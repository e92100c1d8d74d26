package esodbc

import (
	"database/sql/driver"
)

// Tx implements driver.Tx as a no-op. Elasticsearch SQL has no transactions
// (spec Non-goals), so Commit/Rollback have nothing to do on the server --
// they exist only so database/sql callers that wrap work in
// db.Begin()/tx.Commit() don't need a special code path for this driver.
type Tx struct{}

// Commit is a no-op.
func (t *Tx) Commit() error {
	return nil
}

// Rollback is a no-op.
func (t *Tx) Rollback() error {
	return nil
}

// Ensure Tx implements driver.Tx.
var _ driver.Tx = (*Tx)(nil)
