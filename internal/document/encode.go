package document

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Encode renders the canonical byte form used for fingerprinting.
//
// Structured nodes (objects, arrays) serialize as compact JSON with object
// keys sorted bytewise at every level, so two trees that are equal up to key
// order always produce identical bytes. Any other top-level value encodes as
// its plain string form — the fallback for payloads that could not be parsed
// as structured data.
func (v Value) Encode() ([]byte, error) {
	switch v.kind {
	case Object, Array:
		return v.appendJSON(nil)
	case Number:
		if !isFinite(v.num) {
			return nil, fmt.Errorf("%w: non-finite number", ErrUnencodable)
		}
		return appendNumber(nil, v.num), nil
	default:
		return []byte(v.CoerceString()), nil
	}
}

// CoerceString is the single string form used for term matching: null→"null",
// booleans→"true"/"false", numbers in canonical float form (300 → "300"),
// strings verbatim, and composites as their canonical JSON. It is applied to
// both stored and query values so a stored numeric 300 matches a query "300".
func (v Value) CoerceString() string {
	switch v.kind {
	case Null:
		return "null"
	case Bool:
		if v.b {
			return "true"
		}
		return "false"
	case Number:
		return string(appendNumber(nil, v.num))
	case String:
		return v.str
	default:
		b, err := v.appendJSON(nil)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func (v Value) appendJSON(dst []byte) ([]byte, error) {
	switch v.kind {
	case Null:
		return append(dst, "null"...), nil
	case Bool:
		if v.b {
			return append(dst, "true"...), nil
		}
		return append(dst, "false"...), nil
	case Number:
		if !isFinite(v.num) {
			return nil, fmt.Errorf("%w: non-finite number", ErrUnencodable)
		}
		return appendNumber(dst, v.num), nil
	case String:
		return appendString(dst, v.str), nil
	case Array:
		dst = append(dst, '[')
		for i, el := range v.arr {
			if i > 0 {
				dst = append(dst, ',')
			}
			var err error
			dst, err = el.appendJSON(dst)
			if err != nil {
				return nil, err
			}
		}
		return append(dst, ']'), nil
	case Object:
		keys := make([]string, 0, len(v.obj))
		for k := range v.obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		dst = append(dst, '{')
		for i, k := range keys {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = appendString(dst, k)
			dst = append(dst, ':')
			var err error
			dst, err = v.obj[k].appendJSON(dst)
			if err != nil {
				return nil, err
			}
		}
		return append(dst, '}'), nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %d", ErrUnencodable, v.kind)
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// appendNumber writes one canonical textual form per numeric value: fixed
// notation inside [1e-6, 1e21), exponent notation outside, shortest digits
// that round-trip. Integral floats therefore print without a fraction.
func appendNumber(dst []byte, f float64) []byte {
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	return strconv.AppendFloat(dst, f, format, -1, 64)
}

const hexDigits = "0123456789abcdef"

// appendString writes a JSON string with minimal escaping: quote, backslash,
// and control characters only. UTF-8 passes through unescaped.
func appendString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			dst = append(dst, '\\', '"')
		case c == '\\':
			dst = append(dst, '\\', '\\')
		case c == '\n':
			dst = append(dst, '\\', 'n')
		case c == '\r':
			dst = append(dst, '\\', 'r')
		case c == '\t':
			dst = append(dst, '\\', 't')
		case c < 0x20:
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
		default:
			dst = append(dst, c)
		}
	}
	return append(dst, '"')
}
