// Package jsondoc decodes JSON text into a generic value tree.
//
// The decoder is a single forward scan with one character of look-ahead.
// It knows nothing about boards or pipes; its only contract is "JSON text in,
// structural tree out, or an error tagged with the line and column of the
// first character it could not accept".
package jsondoc

import (
	"strconv"
	"strings"
)

// Kind identifies the type held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the JSON name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is one node of a decoded document. The zero Value is null.
type Value struct {
	kind  Kind
	b     bool
	n     float64
	s     string
	items []Value
	obj   *Object
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a number.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array wraps a list of values.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, items: items}
}

// ObjectValue wraps an object.
func ObjectValue(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindObject, obj: o}
}

// Kind returns the type of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean and whether the value is one.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the number and whether the value is one.
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }

// AsString returns the string and whether the value is one.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsArray returns the items and whether the value is an array.
func (v Value) AsArray() ([]Value, bool) { return v.items, v.kind == KindArray }

// AsObject returns the object and whether the value is one.
func (v Value) AsObject() (*Object, bool) { return v.obj, v.kind == KindObject }

// Equal reports whether two values have the same structure and contents.
// Object keys are compared in insertion order.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.n == other.n
	case KindString:
		return v.s == other.s
	case KindArray:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return v.obj.equal(other.obj)
	default:
		return false
	}
}

// String renders the value as compact JSON-like text for diagnostics.
func (v Value) String() string {
	var sb strings.Builder
	v.write(&sb)
	return sb.String()
}

func (v Value) write(sb *strings.Builder) {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		sb.WriteString(strconv.FormatFloat(v.n, 'g', -1, 64))
	case KindString:
		sb.WriteString(strconv.Quote(v.s))
	case KindArray:
		sb.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				sb.WriteByte(',')
			}
			item.write(sb)
		}
		sb.WriteByte(']')
	case KindObject:
		sb.WriteByte('{')
		for i, k := range v.obj.keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Quote(k))
			sb.WriteByte(':')
			v.obj.fields[k].write(sb)
		}
		sb.WriteByte('}')
	}
}

// Object is a JSON object that remembers key insertion order.
// Setting an existing key replaces its value in place.
type Object struct {
	keys   []string
	fields map[string]Value
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{fields: make(map[string]Value)}
}

// Set stores a value under key.
func (o *Object) Set(key string, v Value) {
	if _, exists := o.fields[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.fields[key] = v
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.fields[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.fields[key]
	return ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	return append([]string(nil), o.keys...)
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}

func (o *Object) equal(other *Object) bool {
	if len(o.keys) != len(other.keys) {
		return false
	}
	for i, k := range o.keys {
		if other.keys[i] != k {
			return false
		}
		if !o.fields[k].Equal(other.fields[k]) {
			return false
		}
	}
	return true
}
