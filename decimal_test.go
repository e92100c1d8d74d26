package esodbc

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPackUnpackNumeric_RoundTrip(t *testing.T) {
	d, err := decimal.NewFromString("12345.6789")
	if err != nil {
		t.Fatalf("unexpected decimal parse error: %v", err)
	}
	packed, err := packNumeric(d)
	if err != nil {
		t.Fatalf("unexpected packNumeric error: %v", err)
	}
	got := unpackNumeric(packed)
	if !got.Equal(d) {
		t.Errorf("round trip mismatch: expected %s, got %s", d, got)
	}
}

func TestPackNumeric_Negative(t *testing.T) {
	d, _ := decimal.NewFromString("-42.5")
	packed, err := packNumeric(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if packed.Sign != 0 {
		t.Errorf("expected sign byte 0 for negative, got %d", packed.Sign)
	}
	got := unpackNumeric(packed)
	if !got.Equal(d) {
		t.Errorf("expected %s, got %s", d, got)
	}
}

func TestPackNumeric_ScaleTooLarge(t *testing.T) {
	d := decimal.New(1, -39)
	_, err := packNumeric(d)
	if err == nil {
		t.Fatal("expected error for scale exceeding 38")
	}
}

func TestDecimalFromWire_RoundTrip(t *testing.T) {
	v, err := decimalFromWire("123.450")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "123.450" {
		t.Errorf("expected 123.450, got %s", v)
	}
}

func TestDecimalFromWire_Overflow(t *testing.T) {
	huge := "123456789012345678901234567890123456789" // 39 digits
	_, err := decimalFromWire(huge)
	if err == nil {
		t.Fatal("expected overflow error for a 39-digit value")
	}
	e, ok := err.(*Error)
	if !ok || e.SQLState != SQLStateNumericOutOfRange {
		t.Errorf("expected SQLStateNumericOutOfRange, got %v", err)
	}
}

func TestDecimalToWire_RoundTrip(t *testing.T) {
	v, err := decimalToWire("-42.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "-42.5" {
		t.Errorf("expected -42.5, got %s", v)
	}
}

func TestDecimalToWire_InvalidText(t *testing.T) {
	_, err := decimalToWire("not-a-decimal")
	if err == nil {
		t.Fatal("expected error for unparsable decimal text")
	}
}

func TestParseScaledFloat(t *testing.T) {
	d := ParseScaledFloat(123.45, 100)
	if !d.Equal(decimal.NewFromFloat(123.45)) {
		t.Errorf("expected 123.45, got %s", d)
	}
	// zero scaling factor falls back to 1 rather than dividing by zero
	d2 := ParseScaledFloat(7, 0)
	if !d2.Equal(decimal.NewFromFloat(7)) {
		t.Errorf("expected 7, got %s", d2)
	}
}
