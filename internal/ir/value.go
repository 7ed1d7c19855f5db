package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"unicode/utf16"
)

// Value is a sealed interface for property and runtime values.
// Only Null, String, Int, Bool, Addr, Array, and Object implement it.
// There is NO float variant: graphs are content-addressed and float
// formatting is not deterministic across platforms.
type Value interface {
	value() // sealed
}

// Null is an explicit JSON null. Using an explicit type keeps every slot
// in an Object a valid Value.
type Null struct{}

func (Null) value() {}

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// String is a string value.
type String string

func (String) value() {}

// Int is an integer value. Always int64, never float64.
type Int int64

func (Int) value() {}

// Bool is a boolean value.
type Bool bool

func (Bool) value() {}

// Addr is a byte address in the runtime's flat memory space.
// It only appears in runtime value bindings, never in decoded graph
// properties; when serialized it becomes a plain JSON number, so a
// persisted snapshot round-trips an Addr as an Int.
type Addr uint64

func (Addr) value() {}

// Array is an ordered sequence of values.
type Array []Value

func (Array) value() {}

// Object is a string-keyed map of values. Iterate with SortedKeys for
// deterministic order.
type Object map[string]Value

func (Object) value() {}

// GetString returns the string property under key, or "" if absent or not
// a String.
func (obj Object) GetString(key string) string {
	if s, ok := obj[key].(String); ok {
		return string(s)
	}
	return ""
}

// GetInt returns the integer property under key. The second result is
// false if the key is absent or not an Int.
func (obj Object) GetInt(key string) (int64, bool) {
	if n, ok := obj[key].(Int); ok {
		return int64(n), true
	}
	return 0, false
}

// Clone returns a deep copy of the object. Lowering copies node properties
// into ExecNodes so the execution DAG holds no references into the Graph.
func (obj Object) Clone() Object {
	if obj == nil {
		return nil
	}
	out := make(Object, len(obj))
	for k, v := range obj {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v Value) Value {
	switch val := v.(type) {
	case Array:
		out := make(Array, len(val))
		for i, elem := range val {
			out[i] = cloneValue(elem)
		}
		return out
	case Object:
		return val.Clone()
	default:
		// Null, String, Int, Bool, Addr are value types.
		return v
	}
}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// NOTE: Go's sort.Strings compares UTF-8 bytes, which produces a DIFFERENT
// order for strings outside the BMP.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings by UTF-16 code units as required by
// RFC 8785 (Canonical JSON).
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := min(len(a16), len(b16))
	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}
	return len(a16) - len(b16)
}

// MarshalJSON implements json.Marshaler for Object with RFC 8785 key order.
func (obj Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, k := range obj.SortedKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valBytes, err := MarshalValue(obj[k])
		if err != nil {
			return nil, fmt.Errorf("marshal value for key %q: %w", k, err)
		}
		buf.Write(valBytes)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalValue marshals a Value to JSON bytes.
func MarshalValue(v Value) ([]byte, error) {
	switch val := v.(type) {
	case nil, Null:
		return []byte("null"), nil
	case String:
		return json.Marshal(string(val))
	case Int:
		return json.Marshal(int64(val))
	case Bool:
		return json.Marshal(bool(val))
	case Addr:
		return json.Marshal(uint64(val))
	case Array:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			elemBytes, err := MarshalValue(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			buf.Write(elemBytes)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case Object:
		return val.MarshalJSON()
	default:
		return nil, fmt.Errorf("unknown Value type: %T", v)
	}
}

// UnmarshalJSON implements json.Unmarshaler for Object.
func (obj *Object) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*obj = make(Object, len(raw))
	for k, v := range raw {
		val, err := UnmarshalValue(v)
		if err != nil {
			return fmt.Errorf("object key %q: %w", k, err)
		}
		(*obj)[k] = val
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler for Array.
func (arr *Array) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*arr = make(Array, len(raw))
	for i, v := range raw {
		val, err := UnmarshalValue(v)
		if err != nil {
			return fmt.Errorf("array index %d: %w", i, err)
		}
		(*arr)[i] = val
	}
	return nil
}

// UnmarshalValue decodes a JSON value into a Value. Numbers are decoded
// with json.Number so large integers keep full precision; any fractional
// or exponent form is rejected.
func UnmarshalValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return FromGo(raw)
}

// FromGo converts a decoded JSON value (string, bool, json.Number, nil,
// []any, map[string]any) to a Value. Floats are rejected.
func FromGo(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case json.Number:
		if strings.ContainsAny(string(val), ".eE") {
			return nil, fmt.Errorf("floats are forbidden in graph values: %s", val)
		}
		n, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("number out of int64 range: %s", val)
		}
		return Int(n), nil
	case int:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case float64, float32:
		return nil, fmt.Errorf("floats are forbidden in graph values: %v", val)
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			converted, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = converted
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			converted, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			obj[k] = converted
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported value type: %T", v)
	}
}
