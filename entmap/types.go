package entmap

import (
	"fmt"
)

// Kind represents entity map value types.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindStr
	KindObject // Ordered key/value fields: { a = 1; b = "x"; }
	KindLayers // Layer name list, only valid for the "layers" key
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindStr:
		return "str"
	case KindObject:
		return "object"
	case KindLayers:
		return "layers"
	default:
		return "unknown"
	}
}

// Value represents an entity map value.
type Value struct {
	kind Kind

	// Scalar values (only one valid based on kind)
	boolVal  bool
	intVal   int64
	floatVal float64
	strVal   string

	// Container values
	fields []Field  // object
	layers []string // layer list
}

// Field represents a key-value pair in an object.
type Field struct {
	Key   string
	Value *Value
}

// Position represents a source location.
type Position struct {
	Line   int
	Column int
	Offset int
}

// String returns position as "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// ============================================================
// Constructors
// ============================================================

// Null creates a null value.
func Null() *Value {
	return &Value{kind: KindNull}
}

// Bool creates a boolean value.
func Bool(v bool) *Value {
	return &Value{kind: KindBool, boolVal: v}
}

// Int creates an integer value.
func Int(v int64) *Value {
	return &Value{kind: KindInt, intVal: v}
}

// Float creates a float value.
func Float(v float64) *Value {
	return &Value{kind: KindFloat, floatVal: v}
}

// Str creates a string value.
func Str(v string) *Value {
	return &Value{kind: KindStr, strVal: v}
}

// Object creates an object value from key-value fields.
func Object(fields ...Field) *Value {
	return &Value{kind: KindObject, fields: fields}
}

// Layers creates a layer list value.
func Layers(names ...string) *Value {
	return &Value{kind: KindLayers, layers: names}
}

// FieldOf creates a Field for use in Object construction.
func FieldOf(key string, value *Value) Field {
	return Field{Key: key, Value: value}
}

// ============================================================
// Accessors
// ============================================================

// Kind returns the value kind.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull returns true if this is a null value.
func (v *Value) IsNull() bool {
	return v == nil || v.kind == KindNull
}

// AsBool returns the boolean value.
func (v *Value) AsBool() (bool, error) {
	if v == nil {
		return false, fmt.Errorf("entmap: nil value")
	}
	if v.kind != KindBool {
		return false, fmt.Errorf("entmap: expected bool, got %s", v.kind)
	}
	return v.boolVal, nil
}

// AsInt returns the integer value.
func (v *Value) AsInt() (int64, error) {
	if v == nil {
		return 0, fmt.Errorf("entmap: nil value")
	}
	if v.kind != KindInt {
		return 0, fmt.Errorf("entmap: expected int, got %s", v.kind)
	}
	return v.intVal, nil
}

// AsFloat returns the float value.
func (v *Value) AsFloat() (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("entmap: nil value")
	}
	if v.kind != KindFloat {
		return 0, fmt.Errorf("entmap: expected float, got %s", v.kind)
	}
	return v.floatVal, nil
}

// AsStr returns the string value.
func (v *Value) AsStr() (string, error) {
	if v == nil {
		return "", fmt.Errorf("entmap: nil value")
	}
	if v.kind != KindStr {
		return "", fmt.Errorf("entmap: expected str, got %s", v.kind)
	}
	return v.strVal, nil
}

// AsObject returns the object fields.
func (v *Value) AsObject() ([]Field, error) {
	if v == nil {
		return nil, fmt.Errorf("entmap: nil value")
	}
	if v.kind != KindObject {
		return nil, fmt.Errorf("entmap: expected object, got %s", v.kind)
	}
	return v.fields, nil
}

// AsLayers returns the layer names.
func (v *Value) AsLayers() ([]string, error) {
	if v == nil {
		return nil, fmt.Errorf("entmap: nil value")
	}
	if v.kind != KindLayers {
		return nil, fmt.Errorf("entmap: expected layers, got %s", v.kind)
	}
	return v.layers, nil
}

// Fields returns the object fields, or nil for non-objects.
func (v *Value) Fields() []Field {
	if v == nil || v.kind != KindObject {
		return nil
	}
	return v.fields
}

// LayerNames returns the layer names, or nil for non-layer values.
func (v *Value) LayerNames() []string {
	if v == nil || v.kind != KindLayers {
		return nil
	}
	return v.layers
}

// Len returns the length of an object or layer list.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.kind {
	case KindObject:
		return len(v.fields)
	case KindLayers:
		return len(v.layers)
	default:
		return 0
	}
}

// Get returns a field value by key from an object, or nil when absent.
func (v *Value) Get(key string) *Value {
	if v == nil || v.kind != KindObject {
		return nil
	}
	for _, f := range v.fields {
		if f.Key == key {
			return f.Value
		}
	}
	return nil
}

// ============================================================
// Mutators
// ============================================================

// Set sets a field value on an object, appending when the key is new.
func (v *Value) Set(key string, val *Value) {
	if v.kind != KindObject {
		panic("entmap: cannot set on non-object")
	}
	for i := range v.fields {
		if v.fields[i].Key == key {
			v.fields[i].Value = val
			return
		}
	}
	v.fields = append(v.fields, Field{Key: key, Value: val})
}

// ============================================================
// Comparison and Copying
// ============================================================

// Equal reports deep structural equality. Object fields must match in
// key order, not just content, since field order is semantic for the
// writer.
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a.IsNull() && b.IsNull()
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.boolVal == b.boolVal
	case KindInt:
		return a.intVal == b.intVal
	case KindFloat:
		return a.floatVal == b.floatVal
	case KindStr:
		return a.strVal == b.strVal
	case KindLayers:
		if len(a.layers) != len(b.layers) {
			return false
		}
		for i := range a.layers {
			if a.layers[i] != b.layers[i] {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.fields) != len(b.fields) {
			return false
		}
		for i := range a.fields {
			if a.fields[i].Key != b.fields[i].Key {
				return false
			}
			if !Equal(a.fields[i].Value, b.fields[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Clone returns a deep copy of the value.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	c := &Value{
		kind:     v.kind,
		boolVal:  v.boolVal,
		intVal:   v.intVal,
		floatVal: v.floatVal,
		strVal:   v.strVal,
	}
	if v.layers != nil {
		c.layers = append([]string(nil), v.layers...)
	}
	if v.fields != nil {
		c.fields = make([]Field, len(v.fields))
		for i, f := range v.fields {
			c.fields[i] = Field{Key: f.Key, Value: f.Value.Clone()}
		}
	}
	return c
}

// Number returns a numeric value as float64 if int or float.
func (v *Value) Number() (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch v.kind {
	case KindInt:
		return float64(v.intVal), true
	case KindFloat:
		return v.floatVal, true
	default:
		return 0, false
	}
}
