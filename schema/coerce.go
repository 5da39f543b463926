package schema

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"unicode/utf8"
)

const (
	twoTo63 = 9223372036854775808.0
	twoTo64 = 18446744073709551616.0
)

// coerceUnsigned handles YAML, JSON and CBOR decoded numbers as well as
// numeric strings such as JSON object keys.
func coerceUnsigned(value any, limit uint64) (uint64, bool) {
	var u uint64
	switch v := value.(type) {
	case uint8:
		u = uint64(v)
	case uint16:
		u = uint64(v)
	case uint32:
		u = uint64(v)
	case uint64:
		u = v
	case uint:
		u = uint64(v)
	case int8, int16, int32, int64, int:
		i := reflect.ValueOf(v).Int()
		if i < 0 {
			return 0, false
		}
		u = uint64(i)
	case float64:
		if v < 0 || v >= twoTo64 || v != math.Trunc(v) {
			return 0, false
		}
		u = uint64(v)
	case float32:
		return coerceUnsigned(float64(v), limit)
	case json.Number:
		return coerceUnsigned(string(v), limit)
	case string:
		parsed, err := strconv.ParseUint(v, 0, 64)
		if err != nil {
			return 0, false
		}
		u = parsed
	default:
		return 0, false
	}
	return u, u <= limit
}

func coerceSigned(value any, lo, hi int64) (int64, bool) {
	var i int64
	switch v := value.(type) {
	case int8:
		i = int64(v)
	case int16:
		i = int64(v)
	case int32:
		i = int64(v)
	case int64:
		i = v
	case int:
		i = int64(v)
	case uint8, uint16, uint32, uint64, uint:
		u := reflect.ValueOf(v).Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		i = int64(u)
	case float64:
		if v < -twoTo63 || v >= twoTo63 || v != math.Trunc(v) {
			return 0, false
		}
		i = int64(v)
	case float32:
		return coerceSigned(float64(v), lo, hi)
	case json.Number:
		return coerceSigned(string(v), lo, hi)
	case string:
		parsed, err := strconv.ParseInt(v, 0, 64)
		if err != nil {
			return 0, false
		}
		i = parsed
	default:
		return 0, false
	}
	return i, i >= lo && i <= hi
}

func coerceFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int8, int16, int32, int64, int:
		return float64(reflect.ValueOf(v).Int()), true
	case uint8, uint16, uint32, uint64, uint:
		return float64(reflect.ValueOf(v).Uint()), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}

// coerceChar accepts a one-character string or a code point number.
func coerceChar(value any) (rune, bool) {
	if s, ok := value.(string); ok {
		r, size := utf8.DecodeRuneInString(s)
		if size == 0 || size != len(s) || (r == utf8.RuneError && size == 1) {
			return 0, false
		}
		return r, true
	}
	i, ok := coerceSigned(value, 0, math.MaxInt32)
	return rune(i), ok
}
