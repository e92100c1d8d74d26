package esodbc

import (
	"testing"
	"time"
)

func TestConvertToWireParam_Nil(t *testing.T) {
	p, err := convertToWireParam(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Value != nil || p.Type != "" {
		t.Errorf("expected zero wireParam, got %+v", p)
	}
}

func TestConvertToWireParam_Integers(t *testing.T) {
	tests := []interface{}{int(1), int8(2), int16(3), int32(4), int64(5), uint(6), uint8(7), uint16(8), uint32(9)}
	for _, v := range tests {
		p, err := convertToWireParam(v)
		if err != nil {
			t.Fatalf("input %T: unexpected error: %v", v, err)
		}
		if _, ok := p.Value.(int64); !ok {
			t.Errorf("input %T: expected int64 value, got %T", v, p.Value)
		}
	}
}

func TestConvertToWireParam_Uint64Overflow(t *testing.T) {
	_, err := convertToWireParam(uint64(1) << 63)
	if err == nil {
		t.Fatal("expected error for uint64 exceeding signed 64-bit range")
	}
	e, ok := err.(*Error)
	if !ok || e.SQLState != SQLStateNumericOutOfRange {
		t.Errorf("expected SQLStateNumericOutOfRange, got %v", err)
	}
}

func TestConvertToWireParam_Uint64InRange(t *testing.T) {
	p, err := convertToWireParam(uint64(42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Value != int64(42) {
		t.Errorf("expected 42, got %v", p.Value)
	}
}

func TestConvertToWireParam_Strings(t *testing.T) {
	p, err := convertToWireParam("hello")
	if err != nil || p.Value != "hello" {
		t.Errorf("expected plain string passthrough, got %+v, err=%v", p, err)
	}

	p, err = convertToWireParam(WideString("wide"))
	if err != nil || p.Value != "wide" {
		t.Errorf("expected WideString unwrapped to string, got %+v, err=%v", p, err)
	}
}

func TestConvertToWireParam_Binary(t *testing.T) {
	p, err := convertToWireParam([]byte{0xde, 0xad, 0xbe, 0xef})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Type != "binary" {
		t.Errorf("expected binary type hint, got %q", p.Type)
	}
	if p.Value != "3q2+7w==" {
		t.Errorf("expected base64-encoded value, got %v", p.Value)
	}
}

func TestConvertToWireParam_GUID(t *testing.T) {
	g, err := ParseGUID("01234567-89ab-cdef-0123-456789abcdef")
	if err != nil {
		t.Fatalf("unexpected ParseGUID error: %v", err)
	}
	p, err := convertToWireParam(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Value != g.String() {
		t.Errorf("expected GUID rendered as string %q, got %v", g.String(), p.Value)
	}
}

func TestConvertToWireParam_Timestamp(t *testing.T) {
	loc := time.FixedZone("test", -5*3600)
	tm := time.Date(2024, 1, 2, 3, 4, 5, 123456789, loc)

	p, err := convertToWireParam(NewTimestamp(tm, TimestampPrecisionMilliseconds))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Type != "datetime" {
		t.Errorf("expected datetime type hint, got %q", p.Type)
	}
	s, ok := p.Value.(string)
	if !ok {
		t.Fatalf("expected string value, got %T", p.Value)
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t.Fatalf("value did not parse as RFC3339Nano: %v", err)
	}
	if parsed.Nanosecond() != 123000000 {
		t.Errorf("expected truncation to millisecond precision, got %d ns", parsed.Nanosecond())
	}
	if parsed.Location() != time.UTC {
		t.Errorf("expected UTC conversion, got %v", parsed.Location())
	}
}

func TestConvertToWireParam_TimestampTZ(t *testing.T) {
	tz := time.FixedZone("fixed", 3600)
	tm := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	p, err := convertToWireParam(NewTimestampTZ(tm, TimestampPrecisionSeconds, tz))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := p.Value.(string)
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t.Fatalf("value did not parse: %v", err)
	}
	want := tm.In(tz).UTC()
	if !parsed.Equal(want) {
		t.Errorf("expected %v, got %v", want, parsed)
	}
}

func TestConvertToWireParam_Decimal(t *testing.T) {
	d, err := NewDecimal("123.450", 6, 3)
	if err != nil {
		t.Fatalf("unexpected NewDecimal error: %v", err)
	}
	p, err := convertToWireParam(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Value != "123.450" {
		t.Errorf("expected decimal text passthrough, got %v", p.Value)
	}
}

func TestConvertToWireParam_Intervals(t *testing.T) {
	p, err := convertToWireParam(IntervalYearMonth{Years: 1, Months: 6})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Type != SQLTypeName(SQL_INTERVAL_YEAR_TO_MONTH) {
		t.Errorf("expected year-to-month type hint, got %q", p.Type)
	}
	if p.Value != "P1Y6M" {
		t.Errorf("expected P1Y6M, got %v", p.Value)
	}

	p, err = convertToWireParam(IntervalDaySecond{Days: 1, Hours: 2, Minutes: 3, Seconds: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Type != SQLTypeName(SQL_INTERVAL_DAY_TO_SECOND) {
		t.Errorf("expected day-to-second type hint, got %q", p.Type)
	}
}

func TestConvertToWireParam_Default(t *testing.T) {
	type custom struct{ X int }
	p, err := convertToWireParam(custom{X: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Value != "{5}" {
		t.Errorf("expected fmt.Sprintf fallback, got %v", p.Value)
	}
}

func TestTruncateFraction(t *testing.T) {
	tests := []struct {
		nanos     int
		precision TimestampPrecision
		want      int
	}{
		{123456789, TimestampPrecisionSeconds, 0},
		{123456789, TimestampPrecisionMilliseconds, 123000000},
		{123456789, TimestampPrecisionMicroseconds, 123456000},
		{123456789, TimestampPrecisionNanoseconds, 123456789},
	}
	for _, tt := range tests {
		got := truncateFraction(tt.nanos, tt.precision)
		if got != tt.want {
			t.Errorf("precision %d: expected %d, got %d", tt.precision, tt.want, got)
		}
	}
}

func TestSQLTypeName(t *testing.T) {
	if SQLTypeName(SQL_VARCHAR) != "VARCHAR" {
		t.Errorf("expected VARCHAR")
	}
	if SQLTypeName(SQLSMALLINT(9999)) != "UNKNOWN(9999)" {
		t.Errorf("expected UNKNOWN(9999) fallback, got %q", SQLTypeName(SQLSMALLINT(9999)))
	}
}
