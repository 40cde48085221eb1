package convert

import (
	"errors"
	"fmt"

	"github.com/dnswlt/metamap/internal/beans"
	"github.com/dnswlt/metamap/internal/instance"
	"github.com/dnswlt/metamap/internal/typedef"
)

// EntityKind describes how entities of type TypeName (and its subtypes) map to beans of type B,
// whose properties are held in a struct of type P.
//
// *B must implement beans.Bean and *P must implement beans.Extensible.
type EntityKind[B, P any] struct {
	// Kind is the tag under which the kind is registered.
	Kind     string
	TypeName string
	// Properties returns the properties struct of a bean.
	Properties func(*B) *P
	Fields     []Field[P]
	// Derive, if set, is called after the entity's properties have been decoded.
	// It sets the fields of the bean that are derived from the entity's classifications
	// or relationships.
	Derive func(c *Context, b *B) error

	table *table[P]
}

var _ Converter = (*EntityKind[beans.Asset, beans.AssetProperties])(nil)

// RelationshipKind is the relationship counterpart of EntityKind.
// *B must implement beans.RelationshipBean.
type RelationshipKind[B, P any] struct {
	Kind       string
	TypeName   string
	Properties func(*B) *P
	Fields     []Field[P]

	table *table[P]
}

var _ Converter = (*RelationshipKind[beans.ForeignKey, beans.ForeignKeyProperties])(nil)

// compileKind validates the types B and P and compiles the field table.
func compileKind[B, P any](props func(*B) *P, fields []Field[P]) (*table[P], error) {
	if props == nil {
		return nil, errors.New("no properties accessor")
	}
	b := new(B)
	if _, ok := any(b).(beans.Bean); !ok {
		return nil, fmt.Errorf("%T does not implement beans.Bean", b)
	}
	if _, ok := any(props(b)).(beans.Extensible); !ok {
		return nil, fmt.Errorf("%T does not implement beans.Extensible", props(b))
	}
	return newTable(fields)
}

// beanOf returns b as a *B and its properties.
func beanOf[B, P any](kind string, props func(*B) *P, b beans.Bean) (*B, *P, error) {
	t, ok := any(b).(*B)
	if !ok {
		return nil, nil, &InvalidBeanClassError{Kind: kind, Reason: fmt.Sprintf("expected bean of type %T, got %T", t, b)}
	}
	if t == nil {
		return nil, nil, &MissingInstanceError{Kind: kind, What: "bean"}
	}
	return t, props(t), nil
}

func encodeBean[P any](m *Mapper, kind string, t *table[P], p *P) (*instance.Properties, error) {
	props := instance.NewProperties()
	if err := t.encode(kind, m.types, p, props); err != nil {
		return nil, err
	}
	ext := any(p).(beans.Extensible).GetExtensions()
	if err := encodeExtensions(kind, t.names, ext, props); err != nil {
		return nil, err
	}
	return props, nil
}

func (k *EntityKind[B, P]) Name() string { return k.Kind }
func (k *EntityKind[B, P]) BaseType() string { return k.TypeName }
func (k *EntityKind[B, P]) Category() typedef.Category { return typedef.CategoryEntity }

func (k *EntityKind[B, P]) FieldNames() []string {
	if k.table == nil {
		return nil
	}
	return k.table.fieldNames()
}

func (k *EntityKind[B, P]) compile() error {
	t, err := compileKind(k.Properties, k.Fields)
	if err != nil {
		return err
	}
	k.table = t
	return nil
}

func (k *EntityKind[B, P]) extensions(b beans.Bean) (*beans.Extensions, error) {
	_, p, err := beanOf(k.Kind, k.Properties, b)
	if err != nil {
		return nil, err
	}
	return any(p).(beans.Extensible).GetExtensions(), nil
}

func (k *EntityKind[B, P]) decodeEntity(m *Mapper, e *instance.Entity, rels []*instance.Relationship) (beans.Bean, error) {
	b := new(B)
	bean := any(b).(beans.Bean)
	*bean.GetElementHeader() = m.elementHeader(&e.InstanceHeader, e.Classifications)

	p := k.Properties(b)
	rest, err := k.table.decode(k.Kind, m.types, e.Properties, p)
	if err != nil {
		return nil, err
	}
	decodeExtensions(any(p).(beans.Extensible).GetExtensions(), e.TypeName(), e.Properties, rest)

	if k.Derive != nil {
		c := &Context{Mapper: m, Kind: k.Kind, Entity: e, Relationships: rels}
		if err := k.Derive(c, b); err != nil {
			return nil, err
		}
	}
	return bean, nil
}

func (k *EntityKind[B, P]) decodeRelationship(m *Mapper, r *instance.Relationship) (beans.Bean, error) {
	return nil, &InvalidBeanClassError{Kind: k.Kind, Reason: "not a relationship kind"}
}

func (k *EntityKind[B, P]) encode(m *Mapper, b beans.Bean) (*instance.Properties, error) {
	_, p, err := beanOf(k.Kind, k.Properties, b)
	if err != nil {
		return nil, err
	}
	return encodeBean(m, k.Kind, k.table, p)
}

func (k *RelationshipKind[B, P]) Name() string { return k.Kind }
func (k *RelationshipKind[B, P]) BaseType() string { return k.TypeName }
func (k *RelationshipKind[B, P]) Category() typedef.Category { return typedef.CategoryRelationship }

func (k *RelationshipKind[B, P]) FieldNames() []string {
	if k.table == nil {
		return nil
	}
	return k.table.fieldNames()
}

func (k *RelationshipKind[B, P]) compile() error {
	if _, ok := any(new(B)).(beans.RelationshipBean); !ok {
		return fmt.Errorf("%T does not implement beans.RelationshipBean", new(B))
	}
	t, err := compileKind(k.Properties, k.Fields)
	if err != nil {
		return err
	}
	k.table = t
	return nil
}

func (k *RelationshipKind[B, P]) extensions(b beans.Bean) (*beans.Extensions, error) {
	_, p, err := beanOf(k.Kind, k.Properties, b)
	if err != nil {
		return nil, err
	}
	return any(p).(beans.Extensible).GetExtensions(), nil
}

func elementStub(p *instance.EntityProxy) beans.ElementStub {
	s := beans.ElementStub{GUID: p.GUID, UniqueName: p.UniqueName()}
	if p.Type != nil {
		s.TypeName = p.Type.TypeDefName
	}
	return s
}

func (k *RelationshipKind[B, P]) decodeEntity(m *Mapper, e *instance.Entity, rels []*instance.Relationship) (beans.Bean, error) {
	return nil, &InvalidBeanClassError{Kind: k.Kind, Reason: "not an entity kind"}
}

func (k *RelationshipKind[B, P]) decodeRelationship(m *Mapper, r *instance.Relationship) (beans.Bean, error) {
	b := new(B)
	bean := any(b).(beans.RelationshipBean)
	*bean.GetElementHeader() = m.elementHeader(&r.InstanceHeader, nil)
	end1, end2 := bean.GetEnds()
	*end1 = elementStub(r.End1)
	*end2 = elementStub(r.End2)

	p := k.Properties(b)
	rest, err := k.table.decode(k.Kind, m.types, r.Properties, p)
	if err != nil {
		return nil, err
	}
	// r.Properties may be nil, which reads as an empty bag.
	decodeExtensions(any(p).(beans.Extensible).GetExtensions(), r.TypeName(), r.Properties, rest)
	return bean, nil
}

func (k *RelationshipKind[B, P]) encode(m *Mapper, b beans.Bean) (*instance.Properties, error) {
	_, p, err := beanOf(k.Kind, k.Properties, b)
	if err != nil {
		return nil, err
	}
	return encodeBean(m, k.Kind, k.table, p)
}
