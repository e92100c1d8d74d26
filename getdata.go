package esodbc

import (
	"fmt"
	"io"
	"time"
)

// GetData implements chunked retrieval of a single column's value from the
// most recently fetched row, mirroring SQLGetData: repeated calls with a
// real buffer drain the value in pieces, while a zero-length buffer call
// only reports the remaining size without consuming any of it (the
// TYPE_INFO/metadata probe database/sql itself never issues, but an ODBC-
// style caller reaching past the generic driver.Rows contract can). This is
// reached by type-asserting a driver.Rows back to *Rows -- database/sql's
// own Scan always wants the whole value at once, so chunked reads exist
// purely for callers that want the ODBC-style contract directly.
func (r *Rows) GetData(col int, buf []byte) (n int, remaining int, err error) {
	if r.closed || r.curRow == nil {
		return 0, 0, io.EOF
	}
	if col < 0 || col >= len(r.curRow) {
		return 0, 0, &Error{SQLState: SQLStateInvalidDescIndex07, Message: "column index out of range"}
	}

	chunk, ok := r.gdChunks[col]
	if !ok {
		recs := r.cursor.Descriptor().Records
		var rec DescRecord
		if col < len(recs) {
			rec = recs[col]
		}
		v, convErr := convertFromWire(r.curRow[col], rec)
		if convErr != nil {
			return 0, 0, convErr
		}
		chunk = valueToChunkBytes(v)
		if r.gdChunks == nil {
			r.gdChunks = make(map[int][]byte)
			r.gdOffsets = make(map[int]int)
		}
		r.gdChunks[col] = chunk
	}

	offset := r.gdOffsets[col]
	total := len(chunk)
	remaining = total - offset

	if len(buf) == 0 {
		return 0, remaining, nil
	}
	if remaining <= 0 {
		return 0, 0, io.EOF
	}

	n = copy(buf, chunk[offset:])
	r.gdOffsets[col] = offset + n
	remaining = total - (offset + n)
	if remaining > 0 {
		return n, remaining, &Error{SQLState: SQLStateStringDataRightTruncation, Message: "value truncated, more data available"}
	}
	return n, 0, nil
}

// valueToChunkBytes renders a converted driver.Value as the byte sequence
// GetData chunks through buf, the same textual rendering C5 would have sent
// had the value instead been bound as a character parameter.
func valueToChunkBytes(v interface{}) []byte {
	switch t := v.(type) {
	case nil:
		return nil
	case []byte:
		return t
	case string:
		return []byte(t)
	case time.Time:
		return []byte(t.Format(time.RFC3339Nano))
	default:
		return []byte(fmt.Sprintf("%v", t))
	}
}
