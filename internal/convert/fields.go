package convert

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dnswlt/metamap/internal/instance"
	"github.com/dnswlt/metamap/internal/typedef"
)

// Field maps one named property of a property bag to one field of a properties struct P.
// Fields are created with the constructors in this file and combined into
// field tables, which are decoded and encoded in declaration order.
type Field[P any] struct {
	Name string
	// decode assigns v to the field. Returned errors explain why v does not fit.
	decode func(types *typedef.Registry, p *P, v instance.PropertyValue) error
	// encode returns the value of the field, or nil if the field should be omitted.
	encode func(types *typedef.Registry, p *P) (instance.PropertyValue, error)
}

func mismatch(v instance.PropertyValue, want string) error {
	return fmt.Errorf("expected %s value, got %s", want, v.Category())
}

func primitive[T any](v instance.PropertyValue, want string) (T, error) {
	var zero T
	pv, ok := v.(instance.PrimitiveValue)
	if !ok {
		return zero, mismatch(v, want)
	}
	x, ok := pv.Value.(T)
	if !ok {
		return zero, mismatch(v, want)
	}
	return x, nil
}

// String declares a string field. Empty strings are not encoded.
func String[P any](name string, at func(*P) *string) Field[P] {
	return Field[P]{
		Name: name,
		decode: func(_ *typedef.Registry, p *P, v instance.PropertyValue) error {
			s, err := primitive[string](v, "string")
			if err != nil {
				return err
			}
			*at(p) = s
			return nil
		},
		encode: func(_ *typedef.Registry, p *P) (instance.PropertyValue, error) {
			if s := *at(p); s != "" {
				return instance.String(s), nil
			}
			return nil, nil
		},
	}
}

// Int declares an int field. Long values are accepted on decode if they fit into an int32.
func Int[P any](name string, at func(*P) *int) Field[P] {
	return Field[P]{
		Name: name,
		decode: func(_ *typedef.Registry, p *P, v instance.PropertyValue) error {
			pv, ok := v.(instance.PrimitiveValue)
			if !ok {
				return mismatch(v, "int")
			}
			switch x := pv.Value.(type) {
			case int:
				*at(p) = x
			case int64:
				if x < math.MinInt32 || x > math.MaxInt32 {
					return fmt.Errorf("value %d out of int range", x)
				}
				*at(p) = int(x)
			default:
				return mismatch(v, "int")
			}
			return nil
		},
		encode: func(_ *typedef.Registry, p *P) (instance.PropertyValue, error) {
			return instance.Int(*at(p)), nil
		},
	}
}

func Bool[P any](name string, at func(*P) *bool) Field[P] {
	return Field[P]{
		Name: name,
		decode: func(_ *typedef.Registry, p *P, v instance.PropertyValue) error {
			b, err := primitive[bool](v, "boolean")
			if err != nil {
				return err
			}
			*at(p) = b
			return nil
		},
		encode: func(_ *typedef.Registry, p *P) (instance.PropertyValue, error) {
			return instance.Bool(*at(p)), nil
		},
	}
}

// Date declares a date field. The zero time is not encoded.
func Date[P any](name string, at func(*P) *time.Time) Field[P] {
	return Field[P]{
		Name: name,
		decode: func(_ *typedef.Registry, p *P, v instance.PropertyValue) error {
			t, err := primitive[time.Time](v, "date")
			if err != nil {
				return err
			}
			*at(p) = t
			return nil
		},
		encode: func(_ *typedef.Registry, p *P) (instance.PropertyValue, error) {
			if t := *at(p); !t.IsZero() {
				return instance.Date(t), nil
			}
			return nil, nil
		},
	}
}

// errUnknownOrdinal is returned by decodeEnum for ordinals the enum definition does not list.
var errUnknownOrdinal = errors.New("unknown ordinal")

func decodeEnum(types *typedef.Registry, enumType string, v instance.PropertyValue) (*typedef.EnumElement, error) {
	ev, ok := v.(instance.EnumValue)
	if !ok {
		return nil, mismatch(v, "enum")
	}
	def, ok := types.Enum(enumType)
	if !ok {
		return nil, fmt.Errorf("unknown enum type %s", enumType)
	}
	el := def.Element(ev.Ordinal)
	if el == nil {
		return nil, fmt.Errorf("%w %d: not a valid %s", errUnknownOrdinal, ev.Ordinal, enumType)
	}
	return el, nil
}

func encodeEnum(types *typedef.Registry, enumType string, ordinal int) (instance.PropertyValue, error) {
	def, ok := types.Enum(enumType)
	if !ok {
		return nil, fmt.Errorf("unsupported enum type %s", enumType)
	}
	el := def.Element(ordinal)
	if el == nil {
		return nil, fmt.Errorf("ordinal %d is not a valid %s", ordinal, enumType)
	}
	return instance.EnumValue{Ordinal: el.Ordinal, SymbolicName: el.Value, Description: el.Description}, nil
}

// Enum declares a field of an enum type, identified by the name of its enum definition
// in the type registry. Ordinals that the definition does not know fail on decode and encode.
func Enum[P any, E ~int](name, enumType string, at func(*P) *E) Field[P] {
	return Field[P]{
		Name: name,
		decode: func(types *typedef.Registry, p *P, v instance.PropertyValue) error {
			el, err := decodeEnum(types, enumType, v)
			if err != nil {
				return err
			}
			*at(p) = E(el.Ordinal)
			return nil
		},
		encode: func(types *typedef.Registry, p *P) (instance.PropertyValue, error) {
			return encodeEnum(types, enumType, int(*at(p)))
		},
	}
}

// EnumOrDefault is like Enum, but decodes unknown ordinals as def instead of failing.
// Values that are not enums at all, and enum types missing from the registry, still fail.
func EnumOrDefault[P any, E ~int](name, enumType string, def E, at func(*P) *E) Field[P] {
	return Field[P]{
		Name: name,
		decode: func(types *typedef.Registry, p *P, v instance.PropertyValue) error {
			el, err := decodeEnum(types, enumType, v)
			if errors.Is(err, errUnknownOrdinal) {
				*at(p) = def
				return nil
			}
			if err != nil {
				return err
			}
			*at(p) = E(el.Ordinal)
			return nil
		},
		encode: func(types *typedef.Registry, p *P) (instance.PropertyValue, error) {
			return encodeEnum(types, enumType, int(*at(p)))
		},
	}
}

// StringMap declares a map field with string values. Empty maps are not encoded.
func StringMap[P any](name string, at func(*P) *map[string]string) Field[P] {
	return Field[P]{
		Name: name,
		decode: func(_ *typedef.Registry, p *P, v instance.PropertyValue) error {
			mv, ok := v.(instance.MapValue)
			if !ok {
				return mismatch(v, "map")
			}
			m := make(map[string]string, mv.Properties.Len())
			for _, k := range mv.Properties.Names() {
				e, _ := mv.Properties.Get(k)
				s, err := primitive[string](e, "string")
				if err != nil {
					return fmt.Errorf("map entry %q: %v", k, err)
				}
				m[k] = s
			}
			*at(p) = m
			return nil
		},
		encode: func(_ *typedef.Registry, p *P) (instance.PropertyValue, error) {
			m := *at(p)
			if len(m) == 0 {
				return nil, nil
			}
			return instance.Wrap(m)
		},
	}
}

// AnyMap declares a map field with values of any type (see instance.Unwrap).
// Empty maps are not encoded.
func AnyMap[P any](name string, at func(*P) *map[string]any) Field[P] {
	return Field[P]{
		Name: name,
		decode: func(_ *typedef.Registry, p *P, v instance.PropertyValue) error {
			mv, ok := v.(instance.MapValue)
			if !ok {
				return mismatch(v, "map")
			}
			m := mv.Properties.Map()
			if m == nil {
				m = make(map[string]any)
			}
			*at(p) = m
			return nil
		},
		encode: func(_ *typedef.Registry, p *P) (instance.PropertyValue, error) {
			m := *at(p)
			if len(m) == 0 {
				return nil, nil
			}
			return instance.Wrap(m)
		},
	}
}

// StringArray declares an array field with string elements. Empty arrays are not encoded.
func StringArray[P any](name string, at func(*P) *[]string) Field[P] {
	return Field[P]{
		Name: name,
		decode: func(_ *typedef.Registry, p *P, v instance.PropertyValue) error {
			av, ok := v.(instance.ArrayValue)
			if !ok {
				return mismatch(v, "array")
			}
			ss := make([]string, len(av.Values))
			for i, e := range av.Values {
				s, err := primitive[string](e, "string")
				if err != nil {
					return fmt.Errorf("array element %d: %v", i, err)
				}
				ss[i] = s
			}
			*at(p) = ss
			return nil
		},
		encode: func(_ *typedef.Registry, p *P) (instance.PropertyValue, error) {
			ss := *at(p)
			if len(ss) == 0 {
				return nil, nil
			}
			return instance.Wrap(ss)
		},
	}
}

// Embed lifts the field table of a base properties struct Q into a table for P,
// which contains Q. get returns the embedded Q of a P.
//
// Field tables of subtypes are built by embedding the base table first and
// appending the subtype's own fields.
func Embed[P, Q any](fields []Field[Q], get func(*P) *Q) []Field[P] {
	result := make([]Field[P], len(fields))
	for i, f := range fields {
		result[i] = Field[P]{
			Name: f.Name,
			decode: func(types *typedef.Registry, p *P, v instance.PropertyValue) error {
				return f.decode(types, get(p), v)
			},
			encode: func(types *typedef.Registry, p *P) (instance.PropertyValue, error) {
				return f.encode(types, get(p))
			},
		}
	}
	return result
}
