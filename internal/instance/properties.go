package instance

import (
	"fmt"
	"maps"
	"slices"
	"time"
)

// PrimitiveKind is the primitive type of a PrimitiveValue.
type PrimitiveKind string

const (
	PrimitiveString  PrimitiveKind = "string"
	PrimitiveInt     PrimitiveKind = "int"
	PrimitiveLong    PrimitiveKind = "long"
	PrimitiveFloat   PrimitiveKind = "float"
	PrimitiveDouble  PrimitiveKind = "double"
	PrimitiveBoolean PrimitiveKind = "boolean"
	PrimitiveDate    PrimitiveKind = "date"
)

// PropertyValue is the closed set of values that can be stored in a property bag:
// PrimitiveValue, EnumValue, MapValue and ArrayValue.
type PropertyValue interface {
	// Category returns a short name of the value's category, for error messages.
	Category() string
	clone() PropertyValue
}

// PrimitiveValue holds a single primitive value. The dynamic type of Value
// depends on Kind: string, int, int64, float32, float64, bool, or time.Time.
type PrimitiveValue struct {
	Kind  PrimitiveKind
	Value any
}

func (v PrimitiveValue) Category() string { return string(v.Kind) }
func (v PrimitiveValue) clone() PropertyValue { return v }

// EnumValue holds one element of an enum type.
type EnumValue struct {
	Ordinal      int    `yaml:"ordinal"`
	SymbolicName string `yaml:"symbolicName,omitempty"`
	Description  string `yaml:"description,omitempty"`
}

func (v EnumValue) Category() string { return "enum" }
func (v EnumValue) clone() PropertyValue { return v }

func (v EnumValue) String() string {
	if v.SymbolicName != "" {
		return v.SymbolicName
	}
	return fmt.Sprintf("enum(%d)", v.Ordinal)
}

// MapValue holds a nested property bag.
type MapValue struct {
	Properties *Properties
}

func (v MapValue) Category() string { return "map" }
func (v MapValue) clone() PropertyValue { return MapValue{Properties: v.Properties.Clone()} }

// ArrayValue holds an ordered list of values.
type ArrayValue struct {
	Values []PropertyValue
}

func (v ArrayValue) Category() string { return "array" }
func (v ArrayValue) clone() PropertyValue {
	vs := make([]PropertyValue, len(v.Values))
	for i, e := range v.Values {
		vs[i] = e.clone()
	}
	return ArrayValue{Values: vs}
}

func String(s string) PrimitiveValue { return PrimitiveValue{Kind: PrimitiveString, Value: s} }
func Int(i int) PrimitiveValue { return PrimitiveValue{Kind: PrimitiveInt, Value: i} }
func Long(i int64) PrimitiveValue { return PrimitiveValue{Kind: PrimitiveLong, Value: i} }
func Float(f float32) PrimitiveValue { return PrimitiveValue{Kind: PrimitiveFloat, Value: f} }
func Double(f float64) PrimitiveValue { return PrimitiveValue{Kind: PrimitiveDouble, Value: f} }
func Bool(b bool) PrimitiveValue { return PrimitiveValue{Kind: PrimitiveBoolean, Value: b} }
func Date(t time.Time) PrimitiveValue { return PrimitiveValue{Kind: PrimitiveDate, Value: t} }
func Enum(ordinal int, name string) EnumValue {
	return EnumValue{Ordinal: ordinal, SymbolicName: name}
}

// Properties is a property bag: a mapping from property name to value,
// plus an optional effectivity window.
//
// A nil *Properties behaves like an empty bag for all read operations.
type Properties struct {
	Values        map[string]PropertyValue
	EffectiveFrom *time.Time
	EffectiveTo   *time.Time
}

// NewProperties returns an empty property bag.
func NewProperties() *Properties {
	return &Properties{Values: make(map[string]PropertyValue)}
}

func (p *Properties) Get(name string) (PropertyValue, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.Values[name]
	return v, ok
}

// Set stores v under name. A nil v removes the property.
func (p *Properties) Set(name string, v PropertyValue) {
	if v == nil {
		p.Delete(name)
		return
	}
	if p.Values == nil {
		p.Values = make(map[string]PropertyValue)
	}
	p.Values[name] = v
}

func (p *Properties) Delete(name string) {
	if p == nil {
		return
	}
	delete(p.Values, name)
}

func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Values)
}

// Names returns the property names in p in lexicographical order.
func (p *Properties) Names() []string {
	if p == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(p.Values))
}

// Clone returns a deep copy of p.
func (p *Properties) Clone() *Properties {
	if p == nil {
		return nil
	}
	c := &Properties{
		Values:        make(map[string]PropertyValue, len(p.Values)),
		EffectiveFrom: cloneTime(p.EffectiveFrom),
		EffectiveTo:   cloneTime(p.EffectiveTo),
	}
	for k, v := range p.Values {
		c.Values[k] = v.clone()
	}
	return c
}

// Partition splits p into the properties whose names are in declared and
// the remainder. p itself is not modified. The effectivity window is not
// carried over to either result.
func (p *Properties) Partition(declared map[string]bool) (known, rest *Properties) {
	known, rest = NewProperties(), NewProperties()
	if p == nil {
		return known, rest
	}
	for k, v := range p.Values {
		if declared[k] {
			known.Values[k] = v
		} else {
			rest.Values[k] = v
		}
	}
	return known, rest
}

// Map returns the unwrapped values of p as plain Go values (see Unwrap).
func (p *Properties) Map() map[string]any {
	if p == nil {
		return nil
	}
	m := make(map[string]any, len(p.Values))
	for k, v := range p.Values {
		m[k] = Unwrap(v)
	}
	return m
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// Unwrap converts a property value into a plain Go value.
// Maps are represented by map[string]any and arrays by []any.
// Enum values have no plain representation and are returned as EnumValue.
func Unwrap(v PropertyValue) any {
	switch x := v.(type) {
	case PrimitiveValue:
		return x.Value
	case EnumValue:
		return x
	case MapValue:
		return x.Properties.Map()
	case ArrayValue:
		vs := make([]any, len(x.Values))
		for i, e := range x.Values {
			vs[i] = Unwrap(e)
		}
		return vs
	}
	return nil
}

// Wrap converts a plain Go value into a property value. It is the inverse of Unwrap.
func Wrap(v any) (PropertyValue, error) {
	switch x := v.(type) {
	case PropertyValue:
		return x, nil
	case string:
		return String(x), nil
	case int:
		return Int(x), nil
	case int32:
		return Int(int(x)), nil
	case int64:
		return Long(x), nil
	case float32:
		return Float(x), nil
	case float64:
		return Double(x), nil
	case bool:
		return Bool(x), nil
	case time.Time:
		return Date(x), nil
	case map[string]string:
		props := NewProperties()
		for k, s := range x {
			props.Values[k] = String(s)
		}
		return MapValue{Properties: props}, nil
	case map[string]any:
		props := NewProperties()
		for k, e := range x {
			w, err := Wrap(e)
			if err != nil {
				return nil, fmt.Errorf("map entry %q: %w", k, err)
			}
			props.Values[k] = w
		}
		return MapValue{Properties: props}, nil
	case []string:
		vs := make([]PropertyValue, len(x))
		for i, s := range x {
			vs[i] = String(s)
		}
		return ArrayValue{Values: vs}, nil
	case []any:
		vs := make([]PropertyValue, len(x))
		for i, e := range x {
			w, err := Wrap(e)
			if err != nil {
				return nil, fmt.Errorf("array element %d: %w", i, err)
			}
			vs[i] = w
		}
		return ArrayValue{Values: vs}, nil
	}
	return nil, fmt.Errorf("unsupported property value type %T", v)
}
