package esodbc

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// packNumeric converts a shopspring/decimal value into the ODBC
// SQL_NUMERIC_STRUCT wire shape (sign, scale, 16-byte little-endian
// magnitude). decimalToWire and decimalFromWire round-trip every
// NUMERIC/DECIMAL value through it to enforce its precision/scale limits;
// the packed struct itself is not sent on the wire. This is the one conversion path that doesn't reuse the teacher's plain
// int64/float64 casts: NUMERIC/DECIMAL needs arbitrary-precision, scale-
// exact arithmetic that float64 cannot represent without rounding error,
// and shopspring/decimal is the library the rest of the retrieval pack
// already reaches for to do it.
func packNumeric(d decimal.Decimal) (SQL_NUMERIC_STRUCT, error) {
	var out SQL_NUMERIC_STRUCT

	coeff := d.Coefficient()
	negative := coeff.Sign() < 0
	if negative {
		coeff.Neg(coeff)
	}

	scale := -d.Exponent()
	if scale < 0 {
		scale = 0
	}
	if scale > 38 {
		return out, &Error{SQLState: SQLStateNumericOutOfRange, Message: "scale exceeds 38"}
	}
	out.Scale = SQLSCHAR(scale)

	if negative {
		out.Sign = 0
	} else {
		out.Sign = 1
	}

	digits := coeff.Text(10)
	out.Precision = SQLCHAR(len(digits))
	if len(digits) > 38 {
		return out, &Error{SQLState: SQLStateNumericOutOfRange, Message: "precision exceeds 38 digits"}
	}

	bytes := coeff.Bytes()
	if len(bytes) > 16 {
		return out, &Error{SQLState: SQLStateNumericOutOfRange, Message: "value too large for SQL_NUMERIC_STRUCT"}
	}
	for i, b := range bytes {
		out.Val[len(bytes)-1-i] = SQLCHAR(b)
	}
	return out, nil
}

// unpackNumeric is the inverse of packNumeric, used by C4 (via
// decimalFromWire) for every result column whose descriptor reports
// SQL_NUMERIC/SQL_DECIMAL, and by C5 (via decimalToWire).
func unpackNumeric(n SQL_NUMERIC_STRUCT) decimal.Decimal {
	magnitude := make([]byte, 16)
	for i, b := range n.Val {
		magnitude[15-i] = byte(b)
	}
	coeff := new(big.Int).SetBytes(magnitude)
	d := decimal.NewFromBigInt(coeff, -int32(n.Scale))
	if n.Sign == 0 {
		d = d.Neg()
	}
	return d
}

// decimalFromWire stringifies a decoded NUMERIC/DECIMAL wire value and
// round-trips it through packNumeric/unpackNumeric, so a value too wide for
// SQL_NUMERIC_STRUCT surfaces SQLStateNumericOutOfRange instead of silently
// passing through as unvalidated text.
func decimalFromWire(raw interface{}) (string, error) {
	var s string
	switch v := raw.(type) {
	case string:
		s = v
	default:
		s = fmt.Sprintf("%v", v)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "", &Error{SQLState: SQLStateInvalidCharValue, Message: "invalid NUMERIC/DECIMAL value: " + err.Error()}
	}
	packed, err := packNumeric(d)
	if err != nil {
		return "", err
	}
	return unpackNumeric(packed).StringFixed(int32(packed.Scale)), nil
}

// decimalToWire validates a bound Decimal/numeric-like parameter value by
// round-tripping it through packNumeric/unpackNumeric before it's sent as a
// wire parameter, enforcing the same precision/scale/overflow limits the
// fetch path does.
func decimalToWire(value string) (string, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return "", &DecimalError{Message: "invalid NUMERIC/DECIMAL value: " + err.Error()}
	}
	packed, err := packNumeric(d)
	if err != nil {
		return "", err
	}
	return unpackNumeric(packed).StringFixed(int32(packed.Scale)), nil
}

// ParseScaledFloat parses an ES `scaled_float` value (already the server's
// unscaled double) into a decimal.Decimal at the given scaling factor,
// matching the field's mapping semantics rather than ODBC NUMERIC packing.
func ParseScaledFloat(value float64, scalingFactor float64) decimal.Decimal {
	if scalingFactor == 0 {
		scalingFactor = 1
	}
	f := decimal.NewFromFloat(scalingFactor)
	return decimal.NewFromFloat(value).Mul(f).Round(0).Div(f)
}
