package esodbc

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"time"
)

// wireTimeLayouts are the date/time text formats Elasticsearch SQL emits
// for date/datetime columns, tried in order; grounded on the original
// driver's timestamp parsing in convert.c, which likewise tries a
// millisecond-precision layout before falling back to a second-precision
// one.
var wireTimeLayouts = []string{
	"2006-01-02T15:04:05.000Z",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
}

// convertFromWire is C4: it converts one JSON/CBOR-decoded response value
// into the driver.Value Rows.Next hands to database/sql, using the
// resolved column descriptor (from the C1 type registry via C3's
// FromColumns) to pick the right interpretation. This replaces the
// teacher's per-type GetData family (getBool/getInt32/getString/...), which
// pulled typed buffers out of an ODBC handle one column at a time -- here
// the whole row already arrived decoded, so conversion is a single type
// switch on the column's resolved SQLType.
func convertFromWire(raw interface{}, rec DescRecord) (interface{}, error) {
	if raw == nil {
		return nil, nil
	}

	if !IsCompatible(rec.SQLType, rec.CType) {
		return nil, &Error{SQLState: SQLStateDriverNotCapable, Message: fmt.Sprintf(
			"column %q: fetch not implemented for SQL type %s bound to C type %d", rec.Name, SQLTypeName(rec.SQLType), rec.CType)}
	}

	switch rec.SQLType {
	case SQL_BIT:
		if b, ok := raw.(bool); ok {
			return b, nil
		}
		return raw, nil

	case SQL_TINYINT, SQL_SMALLINT, SQL_INTEGER, SQL_BIGINT:
		n, err := asInt64(raw)
		if err != nil {
			return nil, &Error{SQLState: SQLStateInvalidCharValue, Message: err.Error()}
		}
		return n, nil

	case SQL_REAL, SQL_FLOAT, SQL_DOUBLE:
		f, err := asFloat64(raw)
		if err != nil {
			return nil, &Error{SQLState: SQLStateInvalidCharValue, Message: err.Error()}
		}
		return f, nil

	case SQL_NUMERIC, SQL_DECIMAL:
		// Preserve full precision as text rather than round-tripping through
		// float64, matching ParseDecimal's string-based representation, but
		// validate it through packNumeric/unpackNumeric so an out-of-range
		// value surfaces SQLStateNumericOutOfRange instead of passing
		// through unchecked.
		s, err := decimalFromWire(raw)
		if err != nil {
			return nil, err
		}
		return s, nil

	case SQL_VARBINARY, SQL_BINARY, SQL_LONGVARBINARY:
		s, ok := raw.(string)
		if !ok {
			return nil, &Error{SQLState: SQLStateInvalidCharValue, Message: "binary column did not decode to a string"}
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, &Error{SQLState: SQLStateInvalidCharValue, Message: "invalid base64 in binary column: " + err.Error()}
		}
		return b, nil

	case SQL_TYPE_DATE, SQL_TYPE_TIME, SQL_TYPE_TIMESTAMP, SQL_DATETIME:
		s, ok := raw.(string)
		if !ok {
			return raw, nil
		}
		t, err := parseWireTime(s)
		if err != nil {
			return nil, &Error{SQLState: SQLStateDatetimeFieldOverflow, Message: err.Error()}
		}
		return t, nil

	case SQL_GUID:
		// GUID pass-through: the server reports these as plain keyword text,
		// and the driver returns them as-is rather than forcing a binding
		// through SQL_GUID_STRUCT (spec §4.1's "GUID pairs only with GUID").
		return raw, nil

	default:
		if _, isInterval := intervalCodeOf[rec.SQLType]; isInterval {
			s, ok := raw.(string)
			if !ok {
				return raw, nil
			}
			return ParseISO8601Interval(s)
		}
		return raw, nil
	}
}

func parseWireTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range wireTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}

func asInt64(raw interface{}) (int64, error) {
	switch v := raw.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("cannot convert %T to integer", raw)
	}
}

func asFloat64(raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(v, 64)
	default:
		return 0, fmt.Errorf("cannot convert %T to float", raw)
	}
}
