package document

import (
	"bytes"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
)

// ErrUnencodable marks a value that has no canonical byte form, such as a
// non-finite number or an unsupported Go type.
var ErrUnencodable = errors.New("document: value cannot be canonically encoded")

var errTrailingData = errors.New("document: trailing data after JSON value")

// Kind tags the variants of a Value.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

// Value is one node of a schema-less JSON-like tree: null, bool, number,
// string, array, or object. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	num  float64
	str  string
	arr  []Value
	obj  map[string]Value
}

// BoolValue returns a boolean node.
func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

// NumberValue returns a numeric node. All numbers are carried as float64,
// matching their JSON representation.
func NumberValue(f float64) Value { return Value{kind: Number, num: f} }

// StringValue returns a string node.
func StringValue(s string) Value { return Value{kind: String, str: s} }

// ArrayValue returns an array node with the given elements, in order.
func ArrayValue(items ...Value) Value { return Value{kind: Array, arr: items} }

// ObjectValue returns an object node over the given fields. A nil map is a
// valid empty object.
func ObjectValue(fields map[string]Value) Value { return Value{kind: Object, obj: fields} }

// Kind reports which variant this node holds.
func (v Value) Kind() Kind { return v.kind }

// IsObject reports whether the node is an object.
func (v Value) IsObject() bool { return v.kind == Object }

// Field looks up a top-level key of an object node. It reports false for any
// non-object node.
func (v Value) Field(key string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	val, ok := v.obj[key]
	return val, ok
}

// Fields returns the underlying field map of an object node, or nil for any
// other kind. Callers must treat the map as read-only.
func (v Value) Fields() map[string]Value {
	if v.kind != Object {
		return nil
	}
	return v.obj
}

// Parse decodes a JSON payload into a Value. Numbers are decoded via
// json.Number so their float64 form is taken from the literal text rather
// than the decoder's default interface{} handling.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, err
	}
	if dec.More() {
		return Value{}, errTrailingData
	}
	return FromAny(raw)
}

// FromAny converts a decoded interface{} tree (or plain Go scalars) into a
// Value. Unsupported types surface as ErrUnencodable.
func FromAny(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Value{}, nil
	case Value:
		return t, nil
	case bool:
		return BoolValue(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("%w: bad number literal %q", ErrUnencodable, t.String())
		}
		return NumberValue(f), nil
	case float64:
		return NumberValue(t), nil
	case int:
		return NumberValue(float64(t)), nil
	case int64:
		return NumberValue(float64(t)), nil
	case string:
		return StringValue(t), nil
	case []any:
		items := make([]Value, 0, len(t))
		for _, el := range t {
			val, err := FromAny(el)
			if err != nil {
				return Value{}, err
			}
			items = append(items, val)
		}
		return Value{kind: Array, arr: items}, nil
	case map[string]any:
		fields := make(map[string]Value, len(t))
		for k, el := range t {
			val, err := FromAny(el)
			if err != nil {
				return Value{}, err
			}
			fields[k] = val
		}
		return ObjectValue(fields), nil
	default:
		return Value{}, fmt.Errorf("%w: unsupported type %T", ErrUnencodable, v)
	}
}

// MarshalJSON renders the node as canonical compact JSON (object keys sorted
// bytewise), so serialized documents are deterministic everywhere they are
// written.
func (v Value) MarshalJSON() ([]byte, error) {
	return v.appendJSON(nil)
}

// UnmarshalJSON replaces the node with the parsed payload.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
