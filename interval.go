package esodbc

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseISO8601Interval parses an ISO-8601 duration ("P1Y2M", "PT3H4M5.5S",
// "P1DT2H") into the matching ODBC interval type. Per original_source's
// interval handling (the C driver accepts a looser per-field sign than it
// ever emits), a leading '-' before any individual field is tolerated on
// parse -- but mixed signs across fields fail with 22018 (invalid datetime
// format), and PrintInterval below never produces one. A single '-' before
// the P (the form PrintInterval emits) negates the whole value; combining it
// with per-field signs is rejected the same way as mixed signs.
func ParseISO8601Interval(s string) (interface{}, error) {
	leadingNeg := false
	if len(s) > 0 && s[0] == '-' {
		leadingNeg = true
		s = s[1:]
	}
	if len(s) == 0 || s[0] != 'P' {
		return nil, &Error{SQLState: SQLStateInvalidDatetimeFormat, Message: "interval must start with P"}
	}
	s = s[1:]

	datePart, timePart, hasTime := s, "", false
	if idx := strings.IndexByte(s, 'T'); idx >= 0 {
		datePart, timePart, hasTime = s[:idx], s[idx+1:], true
	}

	var years, months, days int
	var hours, minutes int
	var seconds float64
	var sawDate, sawTime bool
	negSeen := map[bool]bool{}

	consume := func(buf string, units string) (map[byte]float64, error) {
		vals := map[byte]float64{}
		i := 0
		for i < len(buf) {
			start := i
			neg := false
			if buf[i] == '-' {
				neg = true
				i++
				start = i
			}
			for i < len(buf) && (buf[i] == '.' || (buf[i] >= '0' && buf[i] <= '9')) {
				i++
			}
			if i >= len(buf) || i == start {
				return nil, &Error{SQLState: SQLStateInvalidDatetimeFormat, Message: "malformed interval field"}
			}
			numStr := buf[start:i]
			unit := buf[i]
			i++
			if !strings.ContainsRune(units, rune(unit)) {
				return nil, &Error{SQLState: SQLStateInvalidDatetimeFormat, Message: "unexpected interval unit " + string(unit)}
			}
			f, err := strconv.ParseFloat(numStr, 64)
			if err != nil {
				return nil, &Error{SQLState: SQLStateInvalidDatetimeFormat, Message: "invalid interval number " + numStr}
			}
			if neg {
				f = -f
			}
			negSeen[f < 0] = true
			vals[unit] = f
		}
		return vals, nil
	}

	if datePart != "" {
		sawDate = true
		vals, err := consume(datePart, "YMD")
		if err != nil {
			return nil, err
		}
		years, months, days = int(vals['Y']), int(vals['M']), int(vals['D'])
	}
	if hasTime && timePart != "" {
		sawTime = true
		vals, err := consume(timePart, "HMS")
		if err != nil {
			return nil, err
		}
		hours, minutes, seconds = int(vals['H']), int(vals['M']), vals['S']
	}

	if len(negSeen) > 1 {
		return nil, &Error{SQLState: SQLStateInvalidDatetimeFormat, Message: "interval fields have mixed signs"}
	}
	negative := negSeen[true]
	if leadingNeg {
		if negative {
			return nil, &Error{SQLState: SQLStateInvalidDatetimeFormat, Message: "interval fields have mixed signs"}
		}
		negative = true
	}

	switch {
	case sawDate && !sawTime:
		return IntervalYearMonth{Years: abs(years), Months: abs(months), Negative: negative}, nil
	case sawTime && !sawDate:
		whole := int(seconds)
		frac := int((seconds - float64(whole)) * 1e9)
		return IntervalDaySecond{Hours: abs(hours), Minutes: abs(minutes), Seconds: abs(whole), Nanoseconds: abs(frac), Negative: negative}, nil
	default:
		whole := int(seconds)
		frac := int((seconds - float64(whole)) * 1e9)
		return IntervalDaySecond{Days: abs(days), Hours: abs(hours), Minutes: abs(minutes), Seconds: abs(whole), Nanoseconds: abs(frac), Negative: negative}, nil
	}
}

// PrintInterval renders an interval value as canonical, uniformly-signed
// ISO-8601 text -- the sign always applies to the whole designator, never
// per-field, so round-tripping through ParseISO8601Interval never produces
// the mixed-sign form that parse rejects.
func PrintInterval(v interface{}) (string, error) {
	switch iv := v.(type) {
	case IntervalYearMonth:
		sign := ""
		if iv.Negative {
			sign = "-"
		}
		return fmt.Sprintf("%sP%dY%dM", sign, iv.Years, iv.Months), nil
	case IntervalDaySecond:
		sign := ""
		if iv.Negative {
			sign = "-"
		}
		secs := float64(iv.Seconds) + float64(iv.Nanoseconds)/1e9
		return fmt.Sprintf("%sP%dDT%dH%dM%gS", sign, iv.Days, iv.Hours, iv.Minutes, secs), nil
	default:
		return "", &Error{SQLState: SQLStateRestrictedDataType, Message: "not an interval value"}
	}
}

// reconstructDayFromHourOverflow normalizes an IntervalDaySecond whose Hours
// (or Minutes/Seconds) field the server rendered larger than its natural
// range -- e.g. "PT36H" rather than "P1DT12H". Grounded on the original
// driver's day-from-hour-overflow handling in convert.c: an ODBC
// DAY_TO_SECOND interval always carries its fields in canonical range, so
// the overflow must be folded into Days before the struct is handed to a
// caller bound to SQL_C_INTERVAL_DAY_TO_SECOND.
func reconstructDayFromHourOverflow(iv IntervalDaySecond) IntervalDaySecond {
	iv.Minutes += iv.Seconds / 60
	iv.Seconds %= 60
	iv.Hours += iv.Minutes / 60
	iv.Minutes %= 60
	iv.Days += iv.Hours / 24
	iv.Hours %= 24
	return iv
}

// ToTimeOffset converts an IntervalYearMonth into a calendar-aware offset
// applied to t -- months don't have a fixed duration, so this cannot be
// expressed as a time.Duration the way IntervalDaySecond.ToDuration is.
func (i IntervalYearMonth) ToTimeOffset(t time.Time) time.Time {
	months := i.Years*12 + i.Months
	if i.Negative {
		months = -months
	}
	return t.AddDate(0, months, 0)
}
