package convert

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/dnswlt/metamap/internal/beans"
	"github.com/dnswlt/metamap/internal/instance"
	"github.com/dnswlt/metamap/internal/typedef"
)

// table is a validated field table together with its set of declared names.
type table[P any] struct {
	fields []Field[P]
	names  map[string]bool
}

func newTable[P any](fields []Field[P]) (*table[P], error) {
	names := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return nil, errors.New("field without name")
		}
		if f.decode == nil || f.encode == nil {
			return nil, fmt.Errorf("field %q was not created by a field constructor", f.Name)
		}
		if names[f.Name] {
			return nil, fmt.Errorf("duplicate field %q", f.Name)
		}
		names[f.Name] = true
	}
	return &table[P]{fields: fields, names: names}, nil
}

func (t *table[P]) fieldNames() []string {
	names := make([]string, len(t.fields))
	for i, f := range t.fields {
		names[i] = f.Name
	}
	return names
}

// decode assigns the declared properties of props to p and returns the remaining ones.
// props is not modified.
func (t *table[P]) decode(kind string, types *typedef.Registry, props *instance.Properties, p *P) (*instance.Properties, error) {
	known, rest := props.Partition(t.names)
	for _, f := range t.fields {
		v, ok := known.Get(f.Name)
		if !ok || v == nil {
			continue
		}
		if err := f.decode(types, p, v); err != nil {
			return nil, &TypeMismatchError{Kind: kind, Field: f.Name, Reason: err.Error()}
		}
	}
	return rest, nil
}

// encode adds the fields of p to props, in declaration order.
func (t *table[P]) encode(kind string, types *typedef.Registry, p *P, props *instance.Properties) error {
	for _, f := range t.fields {
		v, err := f.encode(types, p)
		if err != nil {
			return &InvalidParameterError{Kind: kind, Field: f.Name, Reason: err.Error()}
		}
		if v != nil {
			props.Set(f.Name, v)
		}
	}
	return nil
}

// decodeExtensions fills ext from the instance's type, the properties left over
// after decoding the declared fields, and the effectivity window.
func decodeExtensions(ext *beans.Extensions, typeName string, props, rest *instance.Properties) {
	ext.TypeName = typeName
	if rest.Len() > 0 {
		ext.ExtendedProperties = rest.Map()
	}
	if props != nil {
		ext.EffectiveFrom = cloneTime(props.EffectiveFrom)
		ext.EffectiveTo = cloneTime(props.EffectiveTo)
	}
}

// encodeExtensions adds the extended properties and the effectivity window of ext to props.
// Extended properties must not use the name of a declared property.
func encodeExtensions(kind string, names map[string]bool, ext *beans.Extensions, props *instance.Properties) error {
	for _, k := range slices.Sorted(maps.Keys(ext.ExtendedProperties)) {
		if names[k] {
			return &InvalidParameterError{Kind: kind, Field: k, Reason: "extended property has the name of a declared property"}
		}
		v, err := instance.Wrap(ext.ExtendedProperties[k])
		if err != nil {
			return &InvalidParameterError{Kind: kind, Field: k, Reason: err.Error()}
		}
		props.Set(k, v)
	}
	props.EffectiveFrom = cloneTime(ext.EffectiveFrom)
	props.EffectiveTo = cloneTime(ext.EffectiveTo)
	return nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
