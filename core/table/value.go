// Package table defines the in-memory representation of a materialized query
// result. Cells are tagged-variant scalars so comparisons and formatting are
// exhaustive over the supported kinds, and type mismatches surface when a
// value is constructed rather than deep inside filter evaluation.
package table

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Kind enumerates the scalar kinds a cell can hold.
type Kind string

// Supported scalar kinds.
const (
	KindNull  Kind = "null"
	KindText  Kind = "text"
	KindInt   Kind = "integer"
	KindFloat Kind = "float"
	KindBool  Kind = "boolean"
	KindTime  Kind = "timestamp"
)

// TimeLayout is the canonical serialization layout for timestamp cells. It is
// what the grid client and the export adapter both see, keeping sort order
// predictable on either side.
const TimeLayout = "2006-01-02T15:04:05"

// timeParseLayouts are the layouts accepted when coercing external operands
// (filter bounds, raw strings) into timestamp values.
var timeParseLayouts = []string{
	TimeLayout,
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
}

// Value is a single tagged scalar cell. The zero value is the null cell.
type Value struct {
	kind Kind
	str  string
	i    int64
	f    float64
	b    bool
	t    time.Time
}

// Null returns the null cell.
func Null() Value {
	return Value{kind: KindNull}
}

// Text returns a text cell.
func Text(s string) Value {
	return Value{kind: KindText, str: s}
}

// Int returns an integer cell.
func Int(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// Float returns a float cell.
func Float(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// Bool returns a boolean cell.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Time returns a timestamp cell.
func Time(t time.Time) Value {
	return Value{kind: KindTime, t: t}
}

// FromAny converts a raw value, typically as produced by a database/sql scan,
// into a tagged cell. Unrecognized types fall back to their formatted string
// form rather than failing, since a report column may carry driver-specific
// types the engine has no business rejecting.
func FromAny(v any) Value {
	switch val := v.(type) {
	case nil:
		return Null()
	case Value:
		return val
	case string:
		return Text(val)
	case []byte:
		return Text(string(val))
	case bool:
		return Bool(val)
	case int:
		return Int(int64(val))
	case int8:
		return Int(int64(val))
	case int16:
		return Int(int64(val))
	case int32:
		return Int(int64(val))
	case int64:
		return Int(val)
	case uint:
		return Int(int64(val))
	case uint32:
		return Int(int64(val))
	case uint64:
		return Int(int64(val))
	case float32:
		return Float(float64(val))
	case float64:
		return Float(val)
	case time.Time:
		return Time(val)
	default:
		return Text(fmt.Sprintf("%v", val))
	}
}

// ParseTime coerces a string operand into a timestamp, trying the canonical
// layout first and then the common interchange layouts.
func ParseTime(s string) (time.Time, bool) {
	for _, layout := range timeParseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Kind returns the cell's kind tag.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the cell is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// String returns the canonical string form of the cell. This form is what
// global search, text predicates, set membership, and export all operate on.
// The null cell renders as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindText:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindTime:
		return v.t.Format(TimeLayout)
	default:
		return ""
	}
}

// AsFloat returns the cell's numeric value. It succeeds for integer and float
// cells only; textual digits are not silently promoted here.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// AsTime returns the cell's timestamp value.
func (v Value) AsTime() (time.Time, bool) {
	if v.kind == KindTime {
		return v.t, true
	}
	return time.Time{}, false
}

// AsBool returns the cell's boolean value.
func (v Value) AsBool() (bool, bool) {
	if v.kind == KindBool {
		return v.b, true
	}
	return false, false
}

// Native returns the cell's value as a plain Go scalar: nil, string, int64,
// float64, bool, or time.Time. Useful for handing cells to encoders that
// understand those types directly.
func (v Value) Native() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindText:
		return v.str
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	case KindTime:
		return v.t
	default:
		return nil
	}
}

// Compare orders two cells of compatible kinds. Numeric kinds compare
// numerically across the int/float split, timestamps temporally, booleans
// false-before-true, and text lexicographically. Comparing a null or two
// incompatible kinds reports ok=false; ordering of nulls is a policy decision
// that belongs to the caller.
func (v Value) Compare(other Value) (int, bool) {
	if v.IsNull() || other.IsNull() {
		return 0, false
	}

	if a, okA := v.AsFloat(); okA {
		if b, okB := other.AsFloat(); okB {
			switch {
			case a < b:
				return -1, true
			case a > b:
				return 1, true
			default:
				return 0, true
			}
		}
		return 0, false
	}

	switch v.kind {
	case KindTime:
		b, ok := other.AsTime()
		if !ok {
			return 0, false
		}
		switch {
		case v.t.Before(b):
			return -1, true
		case v.t.After(b):
			return 1, true
		default:
			return 0, true
		}
	case KindBool:
		b, ok := other.AsBool()
		if !ok {
			return 0, false
		}
		switch {
		case !v.b && b:
			return -1, true
		case v.b && !b:
			return 1, true
		default:
			return 0, true
		}
	case KindText:
		if other.kind != KindText {
			return 0, false
		}
		switch {
		case v.str < other.str:
			return -1, true
		case v.str > other.str:
			return 1, true
		default:
			return 0, true
		}
	default:
		return 0, false
	}
}

// Equal reports whether two cells hold the same value. Numeric cells compare
// across the int/float split; everything else requires matching kinds.
func (v Value) Equal(other Value) bool {
	if v.IsNull() && other.IsNull() {
		return true
	}
	cmp, ok := v.Compare(other)
	return ok && cmp == 0
}

// MarshalJSON renders the cell as the corresponding JSON scalar. Timestamps
// serialize using TimeLayout.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindTime:
		return json.Marshal(v.t.Format(TimeLayout))
	default:
		return json.Marshal(v.Native())
	}
}
