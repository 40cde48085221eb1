// Package convert implements the generic mapping between repository instances
// (see package instance) and typed beans (see package beans).
//
// Each bean type is described by a kind: a declarative table of the properties it
// has fields for, plus an optional hook that derives further fields from the
// relationships of an entity. Kinds are registered with a Mapper under a kind tag,
// and callers select the kind explicitly when decoding or encoding.
package convert

import (
	"cmp"
	"fmt"
	"log"
	"maps"
	"slices"

	"github.com/dnswlt/metamap/internal/beans"
	"github.com/dnswlt/metamap/internal/instance"
	"github.com/dnswlt/metamap/internal/typedef"
)

// Converter is implemented by EntityKind and RelationshipKind.
type Converter interface {
	// Name returns the kind tag under which the converter is registered.
	Name() string
	// BaseType returns the open metadata type that instances must be of (or a subtype of).
	BaseType() string
	Category() typedef.Category
	// FieldNames returns the names of the declared properties, in declaration order.
	FieldNames() []string

	compile() error
	extensions(b beans.Bean) (*beans.Extensions, error)
	decodeEntity(m *Mapper, e *instance.Entity, rels []*instance.Relationship) (beans.Bean, error)
	decodeRelationship(m *Mapper, r *instance.Relationship) (beans.Bean, error)
	encode(m *Mapper, b beans.Bean) (*instance.Properties, error)
}

// Mapper decodes instances into beans and encodes beans into property bags,
// using the converters registered with it.
//
// Registration is not synchronized. Once all converters are registered,
// a Mapper is safe for concurrent use.
type Mapper struct {
	types *typedef.Registry
	kinds map[string]Converter
	// Kind tags by base type name.
	byType map[string]string
	logger *log.Logger
}

type Option func(*Mapper)

// WithLogger makes the mapper log the relationships it derives fields from.
func WithLogger(l *log.Logger) Option {
	return func(m *Mapper) {
		m.logger = l
	}
}

func NewMapper(types *typedef.Registry, opts ...Option) *Mapper {
	m := &Mapper{
		types:  types,
		kinds:  make(map[string]Converter),
		byType: make(map[string]string),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Mapper) logf(format string, args ...any) {
	if m.logger != nil {
		m.logger.Printf(format, args...)
	}
}

// Types returns the type registry of the mapper.
func (m *Mapper) Types() *typedef.Registry {
	return m.types
}

// Register adds converters to the mapper. Kind tags and base types must be unique.
func (m *Mapper) Register(cs ...Converter) error {
	for _, c := range cs {
		name := c.Name()
		if name == "" {
			return fmt.Errorf("converter for type %s has no kind tag", c.BaseType())
		}
		if _, ok := m.kinds[name]; ok {
			return fmt.Errorf("kind %s is already registered", name)
		}
		if c.BaseType() == "" {
			return fmt.Errorf("kind %s has no type name", name)
		}
		if other, ok := m.byType[c.BaseType()]; ok {
			return fmt.Errorf("kind %s: type %s is already handled by kind %s", name, c.BaseType(), other)
		}
		if td, ok := m.types.Lookup(c.BaseType()); ok && td.Category != c.Category() {
			return fmt.Errorf("kind %s: type %s is a %s type, not %s", name, c.BaseType(), td.Category, c.Category())
		}
		if err := c.compile(); err != nil {
			return fmt.Errorf("kind %s: %v", name, err)
		}
		m.kinds[name] = c
		m.byType[c.BaseType()] = name
	}
	return nil
}

// Kinds returns the tags of all registered kinds in lexicographical order.
func (m *Mapper) Kinds() []string {
	return slices.Sorted(maps.Keys(m.kinds))
}

// Converter returns the converter registered under the given kind tag.
func (m *Mapper) Converter(kind string) (Converter, bool) {
	c, ok := m.kinds[kind]
	return c, ok
}

// Converters returns all registered converters, ordered by kind tag.
func (m *Mapper) Converters() []Converter {
	cs := slices.Collect(maps.Values(m.kinds))
	slices.SortFunc(cs, func(a, b Converter) int { return cmp.Compare(a.Name(), b.Name()) })
	return cs
}

// ResolveKind returns the kind tag of the converter for the given instance type:
// the converter of the type itself or, failing that, of its nearest supertype.
func (m *Mapper) ResolveKind(t *instance.InstanceType) (string, bool) {
	if t == nil {
		return "", false
	}
	if kind, ok := m.byType[t.TypeDefName]; ok {
		return kind, true
	}
	for _, s := range m.superTypes(t) {
		if kind, ok := m.byType[s]; ok {
			return kind, true
		}
	}
	return "", false
}

func (m *Mapper) superTypes(t *instance.InstanceType) []string {
	if m.types.Known(t.TypeDefName) {
		return m.types.SuperTypes(t.TypeDefName)
	}
	return t.SuperTypes
}

// IsInstanceOf reports whether an instance of type t is of type superName.
// Types unknown to the registry are resolved using the supertypes carried by t.
func (m *Mapper) IsInstanceOf(t *instance.InstanceType, superName string) bool {
	if t == nil || t.TypeDefName == "" {
		return false
	}
	if m.types.Known(t.TypeDefName) {
		return m.types.IsTypeOf(t.TypeDefName, superName)
	}
	return t.TypeDefName == superName || slices.Contains(t.SuperTypes, superName)
}

func (m *Mapper) converter(kind string, category typedef.Category) (Converter, error) {
	c, ok := m.kinds[kind]
	if !ok {
		return nil, &InvalidBeanClassError{Kind: kind, Reason: "no converter registered"}
	}
	if c.Category() != category {
		return nil, &InvalidBeanClassError{Kind: kind, Reason: fmt.Sprintf("kind maps %s instances, not %s instances", c.Category(), category)}
	}
	return c, nil
}

func (m *Mapper) checkType(kind, base string, h *instance.InstanceHeader) error {
	if h.TypeName() == "" {
		return &BadInstanceError{Kind: kind, GUID: h.GUID, Reason: "instance has no type"}
	}
	if !m.IsInstanceOf(h.Type, base) {
		return &BadInstanceError{Kind: kind, GUID: h.GUID, Reason: fmt.Sprintf("type %s is not a %s", h.TypeName(), base)}
	}
	return nil
}

func checkRelationship(kind string, r *instance.Relationship) error {
	if r == nil {
		return &BadInstanceError{Kind: kind, Reason: "nil relationship"}
	}
	if r.TypeName() == "" {
		return &BadInstanceError{Kind: kind, GUID: r.GUID, Reason: "relationship has no type"}
	}
	if r.End1 == nil || r.End1.GUID == "" || r.End2 == nil || r.End2.GUID == "" {
		return &BadInstanceError{Kind: kind, GUID: r.GUID, Reason: "relationship does not have two ends"}
	}
	return nil
}

// DecodeEntity decodes e into a new bean of the given kind. The relationships, if any,
// are used to derive fields that are not stored in the entity's properties.
func (m *Mapper) DecodeEntity(kind string, e *instance.Entity, rels ...*instance.Relationship) (beans.Bean, error) {
	if e == nil {
		return nil, &MissingInstanceError{Kind: kind, What: "entity"}
	}
	if e.Properties == nil {
		return nil, &MissingInstanceError{Kind: kind, What: "properties"}
	}
	c, err := m.converter(kind, typedef.CategoryEntity)
	if err != nil {
		return nil, err
	}
	if err := m.checkType(kind, c.BaseType(), &e.InstanceHeader); err != nil {
		return nil, err
	}
	for _, r := range rels {
		if err := checkRelationship(kind, r); err != nil {
			return nil, err
		}
	}
	return c.decodeEntity(m, e, rels)
}

// DecodeRelationship decodes r into a new bean of the given kind.
// Relationships without properties are valid.
func (m *Mapper) DecodeRelationship(kind string, r *instance.Relationship) (beans.Bean, error) {
	if r == nil {
		return nil, &MissingInstanceError{Kind: kind, What: "relationship"}
	}
	c, err := m.converter(kind, typedef.CategoryRelationship)
	if err != nil {
		return nil, err
	}
	if err := checkRelationship(kind, r); err != nil {
		return nil, err
	}
	if err := m.checkType(kind, c.BaseType(), &r.InstanceHeader); err != nil {
		return nil, err
	}
	return c.decodeRelationship(m, r)
}

// Encode returns the property bag for bean b of the given kind.
func (m *Mapper) Encode(kind string, b beans.Bean) (*instance.Properties, error) {
	c, ok := m.kinds[kind]
	if !ok {
		return nil, &InvalidBeanClassError{Kind: kind, Reason: "no converter registered"}
	}
	if b == nil {
		return nil, &MissingInstanceError{Kind: kind, What: "bean"}
	}
	return c.encode(m, b)
}

// DecodeEntityAs is like Mapper.DecodeEntity, but returns the concrete bean type.
func DecodeEntityAs[B any](m *Mapper, kind string, e *instance.Entity, rels ...*instance.Relationship) (*B, error) {
	b, err := m.DecodeEntity(kind, e, rels...)
	if err != nil {
		return nil, err
	}
	return as[B](kind, b)
}

// DecodeRelationshipAs is like Mapper.DecodeRelationship, but returns the concrete bean type.
func DecodeRelationshipAs[B any](m *Mapper, kind string, r *instance.Relationship) (*B, error) {
	b, err := m.DecodeRelationship(kind, r)
	if err != nil {
		return nil, err
	}
	return as[B](kind, b)
}

func as[B any](kind string, b beans.Bean) (*B, error) {
	t, ok := any(b).(*B)
	if !ok {
		return nil, &InvalidBeanClassError{Kind: kind, Reason: fmt.Sprintf("kind decodes to %T, not %T", b, t)}
	}
	return t, nil
}

// DecodeFields decodes the declared properties of props into p and ignores all others.
// It is used for property bags that have no kind of their own, such as those of classifications.
func DecodeFields[P any](m *Mapper, kind string, fields []Field[P], props *instance.Properties, p *P) error {
	t, err := newTable(fields)
	if err != nil {
		return fmt.Errorf("%s: %v", kind, err)
	}
	_, err = t.decode(kind, m.types, props, p)
	return err
}
