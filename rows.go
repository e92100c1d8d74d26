package esodbc

import (
	"context"
	"database/sql/driver"
	"io"
	"reflect"
	"time"
)

// Rows implements driver.Rows over a Cursor (C7). The teacher's Rows drove
// iteration with repeated Fetch+GetData calls against one statement handle
// and cached column metadata from DescribeCol; here the Cursor already owns
// paging and its Descriptor already owns column metadata (C3), so Rows is
// reduced to adapting that onto the database/sql/driver.Rows interface.
type Rows struct {
	cursor    *Cursor
	closeStmt bool
	closed    bool

	// curRow and gdChunks/gdOffsets back GetData's chunked-read contract
	// (spec's gd_offset[col] per-column state); reset on every Next call
	// since a chunked read is only ever defined relative to the current row.
	curRow    []interface{}
	gdChunks  map[int][]byte
	gdOffsets map[int]int
}

func newRows(cursor *Cursor) *Rows {
	return &Rows{cursor: cursor}
}

// Columns returns the column names.
func (r *Rows) Columns() []string {
	recs := r.cursor.Descriptor().Records
	names := make([]string, len(recs))
	for i, rec := range recs {
		names[i] = rec.Name
	}
	return names
}

// Close closes the rows iterator and releases the cursor's server-side
// resources.
func (r *Rows) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.cursor.Close(context.Background())
}

// Next fetches the next row, converting each wire value through C4.
func (r *Rows) Next(dest []driver.Value) error {
	if r.closed {
		return io.EOF
	}

	row, err := r.cursor.Next(context.Background())
	if err != nil {
		return err
	}
	r.curRow = row
	r.gdChunks = nil
	r.gdOffsets = nil

	recs := r.cursor.Descriptor().Records
	for i := range dest {
		var raw interface{}
		if i < len(row) {
			raw = row[i]
		}
		var rec DescRecord
		if i < len(recs) {
			rec = recs[i]
		}
		v, err := convertFromWire(raw, rec)
		if err != nil {
			return err
		}
		dest[i] = v
	}
	return nil
}

// ColumnTypeScanType returns the Go type suitable for scanning into.
func (r *Rows) ColumnTypeScanType(index int) reflect.Type {
	recs := r.cursor.Descriptor().Records
	if index < 0 || index >= len(recs) {
		return reflect.TypeOf(new(interface{})).Elem()
	}

	switch recs[index].SQLType {
	case SQL_BIT:
		return reflect.TypeOf(false)
	case SQL_TINYINT, SQL_SMALLINT, SQL_INTEGER, SQL_BIGINT:
		return reflect.TypeOf(int64(0))
	case SQL_REAL:
		return reflect.TypeOf(float32(0))
	case SQL_FLOAT, SQL_DOUBLE:
		return reflect.TypeOf(float64(0))
	case SQL_NUMERIC, SQL_DECIMAL:
		return reflect.TypeOf("")
	case SQL_CHAR, SQL_VARCHAR, SQL_LONGVARCHAR, SQL_WCHAR, SQL_WVARCHAR, SQL_WLONGVARCHAR, SQL_GUID:
		return reflect.TypeOf("")
	case SQL_BINARY, SQL_VARBINARY, SQL_LONGVARBINARY:
		return reflect.TypeOf([]byte{})
	case SQL_TYPE_DATE, SQL_TYPE_TIME, SQL_TYPE_TIMESTAMP, SQL_DATETIME:
		return reflect.TypeOf(time.Time{})
	default:
		return reflect.TypeOf(new(interface{})).Elem()
	}
}

// ColumnTypeDatabaseTypeName returns the database type name.
func (r *Rows) ColumnTypeDatabaseTypeName(index int) string {
	recs := r.cursor.Descriptor().Records
	if index < 0 || index >= len(recs) {
		return ""
	}
	return SQLTypeName(recs[index].SQLType)
}

// ColumnTypeLength returns the declared length of a variable-length column.
func (r *Rows) ColumnTypeLength(index int) (length int64, ok bool) {
	recs := r.cursor.Descriptor().Records
	if index < 0 || index >= len(recs) {
		return 0, false
	}
	switch recs[index].SQLType {
	case SQL_CHAR, SQL_VARCHAR, SQL_LONGVARCHAR, SQL_WCHAR, SQL_WVARCHAR, SQL_WLONGVARCHAR,
		SQL_BINARY, SQL_VARBINARY, SQL_LONGVARBINARY:
		return int64(recs[index].ColumnSize), true
	}
	return 0, false
}

// ColumnTypeNullable returns whether a column is nullable. Elasticsearch SQL
// doesn't report per-column nullability (any field can be absent from a
// sparse document), so this always reports "unknown" -- SQL_NULLABLE_UNKNOWN,
// as FromColumns (C3) sets on every record.
func (r *Rows) ColumnTypeNullable(index int) (nullable, ok bool) {
	recs := r.cursor.Descriptor().Records
	if index < 0 || index >= len(recs) {
		return false, false
	}
	switch recs[index].Nullable {
	case SQL_NO_NULLS:
		return false, true
	case SQL_NULLABLE:
		return true, true
	default:
		return false, false
	}
}

// ColumnTypePrecisionScale returns precision/scale for NUMERIC/DECIMAL columns.
func (r *Rows) ColumnTypePrecisionScale(index int) (precision, scale int64, ok bool) {
	recs := r.cursor.Descriptor().Records
	if index < 0 || index >= len(recs) {
		return 0, 0, false
	}
	switch recs[index].SQLType {
	case SQL_NUMERIC, SQL_DECIMAL:
		return int64(recs[index].ColumnSize), int64(recs[index].DecimalDigits), true
	default:
		return 0, 0, false
	}
}

// HasNextResultSet always reports false: the `_sql` endpoint returns exactly
// one result set per query.
func (r *Rows) HasNextResultSet() bool { return false }

// NextResultSet always returns io.EOF, for the same reason.
func (r *Rows) NextResultSet() error { return io.EOF }

// Ensure Rows implements the required interfaces.
var (
	_ driver.Rows                           = (*Rows)(nil)
	_ driver.RowsColumnTypeScanType         = (*Rows)(nil)
	_ driver.RowsColumnTypeDatabaseTypeName = (*Rows)(nil)
	_ driver.RowsColumnTypeLength           = (*Rows)(nil)
	_ driver.RowsColumnTypeNullable         = (*Rows)(nil)
	_ driver.RowsColumnTypePrecisionScale   = (*Rows)(nil)
	_ driver.RowsNextResultSet              = (*Rows)(nil)
)
