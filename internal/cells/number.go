// Package cells turns raw spreadsheet cell text into typed values.
//
// Every value read from a worksheet passes through this package exactly once.
// Text that cannot be interpreted becomes an undefined value instead of an
// error, so the analytics code only ever sees typed data.
package cells

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a float that may be undefined.
// The zero value is undefined.
type Number struct {
	Value float64
	Valid bool
}

// Some returns a defined Number. Non-finite inputs yield an undefined Number.
func Some(v float64) Number {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Number{}
	}
	return Number{Value: v, Valid: true}
}

// None returns an undefined Number.
func None() Number {
	return Number{}
}

// ParseNumber parses raw cell text. Thousands separators and surrounding
// whitespace are ignored; anything else unparseable is undefined.
func ParseNumber(raw string) Number {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Number{}
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Number{}
	}
	return Some(v)
}

// Or returns the value, or fallback when undefined.
func (n Number) Or(fallback float64) float64 {
	if !n.Valid {
		return fallback
	}
	return n.Value
}

// Positive reports whether n is defined and strictly greater than zero.
func (n Number) Positive() bool {
	return n.Valid && n.Value > 0
}

// Sub returns n - o, undefined when either side is undefined.
func (n Number) Sub(o Number) Number {
	if !n.Valid || !o.Valid {
		return Number{}
	}
	return Some(n.Value - o.Value)
}

// Div returns n / o. Division by zero, by an undefined operand, or any other
// non-finite result yields an undefined Number.
func (n Number) Div(o Number) Number {
	if !n.Valid || !o.Valid || o.Value == 0 {
		return Number{}
	}
	return Some(n.Value / o.Value)
}

// String renders the number for a worksheet cell; undefined renders empty.
func (n Number) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// MarshalJSON encodes undefined as null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// UnmarshalJSON accepts a number, a numeric string or null.
func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == "" {
		*n = Number{}
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var raw string
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		*n = ParseNumber(raw)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = Some(v)
	return nil
}
