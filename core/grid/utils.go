// Package grid utility helpers for operand coercion.
package grid

import "strconv"

// ToFloat64 converts a value of various numeric types to a float64. It returns
// the converted float64 and a boolean indicating whether the conversion was
// successful. Numeric strings convert too, since filter operands arrive as
// loosely-typed JSON.
func ToFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case float32:
		return float64(val), true
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
