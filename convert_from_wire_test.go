package esodbc

import (
	"testing"
	"time"
)

func TestConvertFromWire_Nil(t *testing.T) {
	v, err := convertFromWire(nil, DescRecord{SQLType: SQL_INTEGER, CType: SQL_C_SLONG})
	if err != nil || v != nil {
		t.Errorf("expected nil, nil; got %v, %v", v, err)
	}
}

func TestConvertFromWire_Integers(t *testing.T) {
	tests := []interface{}{int64(42), int(42), float64(42)}
	for _, raw := range tests {
		v, err := convertFromWire(raw, DescRecord{SQLType: SQL_BIGINT, CType: SQL_C_SBIGINT})
		if err != nil {
			t.Fatalf("input %T: unexpected error: %v", raw, err)
		}
		if v != int64(42) {
			t.Errorf("input %T: expected int64(42), got %v (%T)", raw, v, v)
		}
	}

	v, err := convertFromWire("42", DescRecord{SQLType: SQL_INTEGER, CType: SQL_C_SLONG})
	if err != nil || v != int64(42) {
		t.Errorf("expected string-to-int64, got %v, %v", v, err)
	}
}

func TestConvertFromWire_InvalidInteger(t *testing.T) {
	_, err := convertFromWire("not-a-number", DescRecord{SQLType: SQL_INTEGER, CType: SQL_C_SLONG})
	if err == nil {
		t.Fatal("expected error for unparsable integer")
	}
}

func TestConvertFromWire_Floats(t *testing.T) {
	v, err := convertFromWire(float64(3.14), DescRecord{SQLType: SQL_DOUBLE, CType: SQL_C_DOUBLE})
	if err != nil || v != 3.14 {
		t.Errorf("expected 3.14, got %v, %v", v, err)
	}
}

func TestConvertFromWire_Decimal(t *testing.T) {
	v, err := convertFromWire("123.450", DescRecord{SQLType: SQL_DECIMAL, CType: SQL_C_CHAR})
	if err != nil || v != "123.450" {
		t.Errorf("expected decimal text preserved, got %v, %v", v, err)
	}
}

func TestConvertFromWire_Binary(t *testing.T) {
	v, err := convertFromWire("3q2+7w==", DescRecord{SQLType: SQL_VARBINARY, CType: SQL_C_BINARY})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, ok := v.([]byte)
	if !ok {
		t.Fatalf("expected []byte, got %T", v)
	}
	want := []byte{0xde, 0xad, 0xbe, 0xef}
	if len(b) != len(want) {
		t.Fatalf("expected %d bytes, got %d", len(want), len(b))
	}
	for i := range want {
		if b[i] != want[i] {
			t.Errorf("byte %d: expected %x, got %x", i, want[i], b[i])
		}
	}
}

func TestConvertFromWire_BinaryInvalidBase64(t *testing.T) {
	_, err := convertFromWire("not base64!!", DescRecord{SQLType: SQL_VARBINARY, CType: SQL_C_BINARY})
	if err == nil {
		t.Fatal("expected error for invalid base64")
	}
}

func TestConvertFromWire_Timestamp(t *testing.T) {
	v, err := convertFromWire("2024-01-02T03:04:05.000Z", DescRecord{SQLType: SQL_TYPE_TIMESTAMP, CType: SQL_C_TIMESTAMP})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tm, ok := v.(time.Time)
	if !ok {
		t.Fatalf("expected time.Time, got %T", v)
	}
	if tm.Year() != 2024 || tm.Month() != 1 || tm.Day() != 2 {
		t.Errorf("unexpected parsed date: %v", tm)
	}
}

func TestConvertFromWire_TimestampInvalidFormat(t *testing.T) {
	_, err := convertFromWire("not-a-date", DescRecord{SQLType: SQL_TYPE_TIMESTAMP, CType: SQL_C_TIMESTAMP})
	if err == nil {
		t.Fatal("expected error for unparsable timestamp")
	}
	e, ok := err.(*Error)
	if !ok || e.SQLState != SQLStateDatetimeFieldOverflow {
		t.Errorf("expected SQLStateDatetimeFieldOverflow, got %v", err)
	}
}

func TestConvertFromWire_GUID(t *testing.T) {
	v, err := convertFromWire("01234567-89ab-cdef-0123-456789abcdef", DescRecord{SQLType: SQL_GUID, CType: SQL_C_GUID})
	if err != nil || v != "01234567-89ab-cdef-0123-456789abcdef" {
		t.Errorf("expected GUID text passthrough, got %v, %v", v, err)
	}
}

func TestConvertFromWire_Interval(t *testing.T) {
	v, err := convertFromWire("P1Y6M", DescRecord{SQLType: SQL_INTERVAL_YEAR_TO_MONTH, CType: SQL_INTERVAL_YEAR_TO_MONTH})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	iv, ok := v.(IntervalYearMonth)
	if !ok {
		t.Fatalf("expected IntervalYearMonth, got %T", v)
	}
	if iv.Years != 1 || iv.Months != 6 {
		t.Errorf("expected 1y6m, got %+v", iv)
	}
}

func TestConvertFromWire_Bit(t *testing.T) {
	v, err := convertFromWire(true, DescRecord{SQLType: SQL_BIT, CType: SQL_C_BIT})
	if err != nil || v != true {
		t.Errorf("expected true, got %v, %v", v, err)
	}
}

func TestParseWireTime_FallbackLayouts(t *testing.T) {
	tests := []string{
		"2024-01-02T03:04:05.000Z",
		"2024-01-02T03:04:05Z",
		"2024-01-02",
	}
	for _, s := range tests {
		if _, err := parseWireTime(s); err != nil {
			t.Errorf("layout for %q failed: %v", s, err)
		}
	}
}
