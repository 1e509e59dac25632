// Package entitlement implements the feature entitlement model: a typed
// feature catalog, plan entitlement sets, tenant override sets with expiry,
// and the precedence resolution that yields a tenant's effective value for a
// feature at a point in time. Everything in this package is a pure computation
// over in-memory snapshots; persistence lives in the feature, plan and tenant
// services.
package entitlement

import (
	"encoding/json"
	"fmt"
	"math"
)

// DataType identifies the value type a feature carries.
type DataType string

const (
	DataTypeBool   DataType = "bool"
	DataTypeInt    DataType = "int"
	DataTypeString DataType = "string"
)

func (t DataType) Valid() bool {
	switch t {
	case DataTypeBool, DataTypeInt, DataTypeString:
		return true
	default:
		return false
	}
}

// Default returns the zero value for the type: false, 0 or "".
func (t DataType) Default() Value {
	switch t {
	case DataTypeInt:
		return IntValue(0)
	case DataTypeString:
		return StringValue("")
	default:
		return BoolValue(false)
	}
}

// Value is a tagged union over bool, int64 and string. The tag must match the
// referenced feature's data type; Registry validation enforces that at every
// construction site since the JSON wire format carries bare scalars.
type Value struct {
	typ DataType
	b   bool
	i   int64
	s   string
}

func BoolValue(v bool) Value     { return Value{typ: DataTypeBool, b: v} }
func IntValue(v int64) Value     { return Value{typ: DataTypeInt, i: v} }
func StringValue(v string) Value { return Value{typ: DataTypeString, s: v} }

func (v Value) Type() DataType { return v.typ }
func (v Value) Bool() bool     { return v.b }
func (v Value) Int() int64     { return v.i }
func (v Value) Str() string    { return v.s }

func (v Value) String() string {
	switch v.typ {
	case DataTypeBool:
		return fmt.Sprintf("%t", v.b)
	case DataTypeInt:
		return fmt.Sprintf("%d", v.i)
	case DataTypeString:
		return v.s
	default:
		return ""
	}
}

// Scalar returns the untyped form crossing the API boundary.
func (v Value) Scalar() any {
	switch v.typ {
	case DataTypeBool:
		return v.b
	case DataTypeInt:
		return v.i
	case DataTypeString:
		return v.s
	default:
		return nil
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Scalar())
}

// ParseValue decodes a JSON scalar into a Value of the expected type. The wire
// format does not enforce the tag, so decoding re-validates it.
func ParseValue(want DataType, raw []byte) (Value, error) {
	switch want {
	case DataTypeBool:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return Value{}, fmt.Errorf("%w: expected %s scalar", ErrTypeMismatch, want)
		}
		return BoolValue(b), nil
	case DataTypeInt:
		var i int64
		if err := json.Unmarshal(raw, &i); err != nil {
			return Value{}, fmt.Errorf("%w: expected %s scalar", ErrTypeMismatch, want)
		}
		return IntValue(i), nil
	case DataTypeString:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Value{}, fmt.Errorf("%w: expected %s scalar", ErrTypeMismatch, want)
		}
		return StringValue(s), nil
	default:
		return Value{}, fmt.Errorf("%w: unsupported data type %q", ErrTypeMismatch, want)
	}
}

// ValueFromAny infers the tag from a decoded JSON scalar. JSON numbers arrive
// as float64; only integral values are accepted for int features.
func ValueFromAny(raw any) (Value, error) {
	switch v := raw.(type) {
	case bool:
		return BoolValue(v), nil
	case string:
		return StringValue(v), nil
	case int64:
		return IntValue(v), nil
	case int:
		return IntValue(int64(v)), nil
	case float64:
		if v != math.Trunc(v) {
			return Value{}, fmt.Errorf("%w: non-integral number %v", ErrTypeMismatch, v)
		}
		return IntValue(int64(v)), nil
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return Value{}, fmt.Errorf("%w: non-integral number %s", ErrTypeMismatch, v.String())
		}
		return IntValue(i), nil
	default:
		return Value{}, fmt.Errorf("%w: unsupported scalar %T", ErrTypeMismatch, raw)
	}
}
