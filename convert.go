package esodbc

import (
	"encoding/base64"
	"fmt"
	"time"
)

// truncateFraction truncates nanoseconds to the bound precision, used when
// binding a Timestamp/TimestampTZ parameter so the wire value matches what
// the caller asked for rather than Go's native nanosecond resolution.
func truncateFraction(nanos int, precision TimestampPrecision) int {
	switch precision {
	case TimestampPrecisionSeconds:
		return 0
	case TimestampPrecisionMilliseconds:
		return (nanos / 1_000_000) * 1_000_000
	case TimestampPrecisionMicroseconds:
		return (nanos / 1_000) * 1_000
	case TimestampPrecisionNanoseconds:
		return nanos
	default:
		return (nanos / 1_000_000) * 1_000_000
	}
}

// timestampColumnSize returns the display size for a timestamp of the given
// precision: "YYYY-MM-DD HH:MM:SS[.fffffffff]".
func timestampColumnSize(precision TimestampPrecision) SQLULEN {
	if precision == 0 {
		return 19
	}
	return SQLULEN(20 + int(precision))
}

// boolToIntervalSign converts a Go negative flag to the ODBC interval sign
// convention (0 = positive, 1 = negative).
func boolToIntervalSign(negative bool) SQLSMALLINT {
	if negative {
		return 1
	}
	return 0
}

// convertToWireParam is C5: it turns a bound Go value into the {type, value}
// pair the `_sql` endpoint's params array expects (spec §6). This replaces
// the teacher's convertToODBC, which filled an ODBC bind buffer with a C
// type/SQL type/column size/length-indicator tuple for SQLBindParameter --
// there is no bind buffer here, only a JSON/CBOR scalar, so the five-value
// return collapses to a single wireParam. Type is left empty for values
// JSON/CBOR already carries unambiguously (numbers, strings, booleans); it
// is set explicitly only when the server would otherwise have to guess how
// to parse a string (binary, dates, times, intervals), mirroring how the original
// driver only special-cased SQL_TYPE_DATE/TIME/TIMESTAMP and the interval
// family in convertToODBC's switch.
func convertToWireParam(value interface{}) (wireParam, error) {
	if value == nil {
		return wireParam{}, nil
	}

	switch v := value.(type) {
	case bool:
		return wireParam{Value: v}, nil

	case int:
		return wireParam{Value: int64(v)}, nil
	case int8:
		return wireParam{Value: int64(v)}, nil
	case int16:
		return wireParam{Value: int64(v)}, nil
	case int32:
		return wireParam{Value: int64(v)}, nil
	case int64:
		return wireParam{Value: v}, nil
	case uint:
		return wireParam{Value: int64(v)}, nil
	case uint8:
		return wireParam{Value: int64(v)}, nil
	case uint16:
		return wireParam{Value: int64(v)}, nil
	case uint32:
		return wireParam{Value: int64(v)}, nil
	case uint64:
		if v > 1<<63-1 {
			return wireParam{}, &Error{SQLState: SQLStateNumericOutOfRange, Message: "uint64 parameter exceeds signed 64-bit range"}
		}
		return wireParam{Value: int64(v)}, nil

	case float32:
		return wireParam{Value: float64(v)}, nil
	case float64:
		return wireParam{Value: v}, nil

	case string:
		return wireParam{Value: v}, nil
	case WideString:
		return wireParam{Value: string(v)}, nil

	case []byte:
		return wireParam{Type: "binary", Value: base64.StdEncoding.EncodeToString(v)}, nil

	case GUID:
		return wireParam{Value: v.String()}, nil

	case time.Time:
		return wireParam{Type: "datetime", Value: v.UTC().Format(time.RFC3339Nano)}, nil

	case Timestamp:
		t := v.Time.UTC()
		t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(),
			truncateFraction(t.Nanosecond(), v.Precision), time.UTC)
		return wireParam{Type: "datetime", Value: t.Format(time.RFC3339Nano)}, nil

	case TimestampTZ:
		t := v.Time
		if v.TZ != nil {
			t = t.In(v.TZ)
		}
		t = t.UTC()
		t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(),
			truncateFraction(t.Nanosecond(), v.Precision), time.UTC)
		return wireParam{Type: "datetime", Value: t.Format(time.RFC3339Nano)}, nil

	case Decimal:
		// ES SQL has no arbitrary-precision bind type; the decimal text is
		// sent as a numeric literal for the server to parse, but first
		// round-tripped through packNumeric/unpackNumeric so an
		// out-of-range value is rejected here rather than on the server.
		text, err := decimalToWire(v.Value)
		if err != nil {
			return wireParam{}, err
		}
		return wireParam{Value: text}, nil

	case IntervalYearMonth:
		s, err := PrintInterval(v)
		if err != nil {
			return wireParam{}, err
		}
		return wireParam{Type: SQLTypeName(SQL_INTERVAL_YEAR_TO_MONTH), Value: s}, nil

	case IntervalDaySecond:
		s, err := PrintInterval(v)
		if err != nil {
			return wireParam{}, err
		}
		return wireParam{Type: SQLTypeName(SQL_INTERVAL_DAY_TO_SECOND), Value: s}, nil

	default:
		return wireParam{Value: fmt.Sprintf("%v", v)}, nil
	}
}

// SQLTypeName returns a human-readable name for an SQL type, used in
// diagnostics and as the wire type hint for interval parameters above.
func SQLTypeName(sqlType SQLSMALLINT) string {
	switch sqlType {
	case SQL_CHAR:
		return "CHAR"
	case SQL_VARCHAR:
		return "VARCHAR"
	case SQL_LONGVARCHAR:
		return "LONGVARCHAR"
	case SQL_WCHAR:
		return "WCHAR"
	case SQL_WVARCHAR:
		return "WVARCHAR"
	case SQL_WLONGVARCHAR:
		return "WLONGVARCHAR"
	case SQL_DECIMAL:
		return "DECIMAL"
	case SQL_NUMERIC:
		return "NUMERIC"
	case SQL_SMALLINT:
		return "SMALLINT"
	case SQL_INTEGER:
		return "INTEGER"
	case SQL_REAL:
		return "REAL"
	case SQL_FLOAT:
		return "FLOAT"
	case SQL_DOUBLE:
		return "DOUBLE"
	case SQL_BIT:
		return "BIT"
	case SQL_TINYINT:
		return "TINYINT"
	case SQL_BIGINT:
		return "BIGINT"
	case SQL_BINARY:
		return "BINARY"
	case SQL_VARBINARY:
		return "VARBINARY"
	case SQL_LONGVARBINARY:
		return "LONGVARBINARY"
	case SQL_TYPE_DATE:
		return "DATE"
	case SQL_TYPE_TIME:
		return "TIME"
	case SQL_TYPE_TIMESTAMP:
		return "TIMESTAMP"
	case SQL_DATETIME:
		return "DATETIME"
	case SQL_GUID:
		return "GUID"
	case SQL_INTERVAL_YEAR:
		return "INTERVAL YEAR"
	case SQL_INTERVAL_MONTH:
		return "INTERVAL MONTH"
	case SQL_INTERVAL_DAY:
		return "INTERVAL DAY"
	case SQL_INTERVAL_HOUR:
		return "INTERVAL HOUR"
	case SQL_INTERVAL_MINUTE:
		return "INTERVAL MINUTE"
	case SQL_INTERVAL_SECOND:
		return "INTERVAL SECOND"
	case SQL_INTERVAL_YEAR_TO_MONTH:
		return "INTERVAL YEAR TO MONTH"
	case SQL_INTERVAL_DAY_TO_HOUR:
		return "INTERVAL DAY TO HOUR"
	case SQL_INTERVAL_DAY_TO_MINUTE:
		return "INTERVAL DAY TO MINUTE"
	case SQL_INTERVAL_DAY_TO_SECOND:
		return "INTERVAL DAY TO SECOND"
	case SQL_INTERVAL_HOUR_TO_MINUTE:
		return "INTERVAL HOUR TO MINUTE"
	case SQL_INTERVAL_HOUR_TO_SECOND:
		return "INTERVAL HOUR TO SECOND"
	case SQL_INTERVAL_MINUTE_TO_SECOND:
		return "INTERVAL MINUTE TO SECOND"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", sqlType)
	}
}
