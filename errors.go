package esodbc

import (
	"fmt"
	"strings"
)

// Error is a single SQLSTATE-classified driver error, the same shape the
// teacher's Error carried (SQLState/NativeError/Message) but sourced from
// the converter, cursor, or transport instead of SQLGetDiagRec against a
// native handle.
type Error struct {
	SQLState    string
	NativeError int32
	Message     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s (native error: %d)", e.SQLState, e.Message, e.NativeError)
}

// Errors represents multiple diagnostics raised by a single call, mirroring
// the teacher's multi-record Errors aggregate.
type Errors []Error

func (e Errors) Error() string {
	if len(e) == 0 {
		return "unknown esodbc error"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	for i, err := range e {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// DiagRecord is one diagnostic record in a handle's Diagnostics queue.
type DiagRecord struct {
	SQLState    string
	NativeError int32
	Message     string
	ReturnCode  SQLRETURN
}

// String renders a diagnostic record for logging/inspection, using
// FormatReturnCode the way the teacher's diagnostic dump paired a return
// code with its SQLSTATE and message.
func (r DiagRecord) String() string {
	return fmt.Sprintf("%s [%s] %s (native error: %d)", FormatReturnCode(r.ReturnCode), r.SQLState, r.Message, r.NativeError)
}

// Diagnostics is an unbounded FIFO of DiagRecord (Push never drops a
// record; Clear empties it), replacing SQLGetDiagRec's
// per-handle record list (there is no native handle here to query).
type Diagnostics struct {
	records []DiagRecord
}

// Push appends a diagnostic record.
func (d *Diagnostics) Push(r DiagRecord) { d.records = append(d.records, r) }

// Records returns all queued diagnostic records in order.
func (d *Diagnostics) Records() []DiagRecord { return d.records }

// Clear empties the queue, called at the start of each new statement
// execution the way SQLExecute resets a handle's diagnostic records.
func (d *Diagnostics) Clear() { d.records = nil }

// record converts err into a DiagRecord and pushes it, classifying the
// return code the same way a real ODBC call site would choose between
// SQL_ERROR and SQL_SUCCESS_WITH_INFO before posting a diagnostic.
func (d *Diagnostics) record(err error) {
	ret := SQL_ERROR
	var rec DiagRecord
	switch e := err.(type) {
	case *Error:
		rec = DiagRecord{SQLState: e.SQLState, NativeError: e.NativeError, Message: e.Message}
		if IsDataTruncation(e) {
			ret = SQL_SUCCESS_WITH_INFO
		}
	case Errors:
		if len(e) == 0 {
			return
		}
		rec = DiagRecord{SQLState: e[0].SQLState, NativeError: e[0].NativeError, Message: e.Error()}
	default:
		rec = DiagRecord{SQLState: SQLStateGeneralError, Message: err.Error()}
	}
	rec.ReturnCode = ret
	d.Push(rec)
}

// SQLState constants, expanded to the full taxonomy spec §7 names.
const (
	SQLStateStringDataRightTruncation = "01004"
	SQLStateFractionalTruncation      = "01S07"
	SQLStateCountFieldIncorrect       = "07002"
	SQLStateInvalidDescIndex07        = "07009"
	SQLStateConnectionNotOpen         = "08003"
	SQLStateConnectionError           = "08S01"
	SQLStateStringDataTruncated22     = "22001"
	SQLStateIndicatorVariableRequired = "22002"
	SQLStateNumericOutOfRange         = "22003"
	SQLStateDatetimeFieldOverflow     = "22008"
	SQLStateIntervalFieldOverflow     = "22015"
	SQLStateInvalidCharValue          = "22018"
	SQLStateInvalidDatetimeFormat     = "22018"
	SQLStateGeneralError              = "HY000"
	SQLStateMemoryAllocationError     = "HY001"
	SQLStateInvalidColumnNumber       = "HY003"
	SQLStateInvalidNullPointer        = "HY009"
	SQLStateFunctionSequenceError     = "HY010"
	SQLStateInvalidStringLength       = "HY021"
	SQLStateInvalidStringLength90     = "HY090"
	SQLStateInvalidDescIndex91        = "HY091"
	SQLStateInvalidAttrValue          = "HY092"
	SQLStateInvalidPrecisionValue     = "HY104"
	SQLStateDriverNotCapable          = "HYC00"
	SQLStateInvalidConnStringAttr     = "HY090"
	SQLStateRestrictedDataType        = "07006"

	// kept for callers expecting the teacher's original names
	SQLStateDataTruncation = SQLStateStringDataRightTruncation
)

// IsConnectionError reports whether err is a connection-class (class "08")
// error.
func IsConnectionError(err error) bool {
	switch e := err.(type) {
	case *Error:
		return strings.HasPrefix(e.SQLState, "08")
	case Errors:
		return len(e) > 0 && strings.HasPrefix(e[0].SQLState, "08")
	}
	return false
}

// IsDataTruncation reports whether err signals string/numeric truncation.
func IsDataTruncation(err error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	return e.SQLState == SQLStateStringDataRightTruncation || e.SQLState == SQLStateStringDataTruncated22
}

// classifyHTTPStatus maps a bare HTTP status (no parseable error body) to
// the closest SQLSTATE, used as a fallback when the server's JSON/CBOR
// error envelope itself failed to decode.
func classifyHTTPStatus(status int) string {
	switch {
	case status == 401 || status == 403:
		return "28000" // invalid authorization
	case status == 408:
		return SQLStateConnectionError
	case status >= 500:
		return SQLStateGeneralError
	case status == 400:
		return SQLStateInvalidCharValue
	default:
		return SQLStateGeneralError
	}
}

// classifyServerError maps an Elasticsearch error `type` field (e.g.
// "parsing_exception", "verification_exception", "resource_not_found_exception")
// to a SQLSTATE, grounded on the error taxonomy table in spec §7 and
// error.h's message-to-state mapping style in original_source.
func classifyServerError(esType string, status int) string {
	switch esType {
	case "parsing_exception", "verification_exception":
		return SQLStateInvalidCharValue
	case "resource_not_found_exception":
		return "42S02" // table/index not found
	case "security_exception":
		return "28000"
	case "timeout_exception":
		return SQLStateConnectionError
	default:
		return classifyHTTPStatus(status)
	}
}

// FormatReturnCode renders an SQLRETURN-equivalent code for diagnostics and
// logging, kept for parity with the teacher's FormatReturnCode helper; used
// by DiagRecord.String() to render the queued Conn/Stmt diagnostics Push
// populates.
func FormatReturnCode(ret SQLRETURN) string {
	switch ret {
	case SQL_SUCCESS:
		return "SQL_SUCCESS"
	case SQL_SUCCESS_WITH_INFO:
		return "SQL_SUCCESS_WITH_INFO"
	case SQL_ERROR:
		return "SQL_ERROR"
	case SQL_NO_DATA:
		return "SQL_NO_DATA"
	default:
		return fmt.Sprintf("SQLRETURN(%d)", ret)
	}
}
