package convert

import (
	"github.com/dnswlt/metamap/internal/beans"
	"github.com/dnswlt/metamap/internal/instance"
	"github.com/dnswlt/metamap/internal/typedef"
)

// BuildEntity returns a new entity for bean b of the given kind: its encoded properties
// plus a header built from the bean's header. An entity without GUID gets a new one.
// The entity's type is the bean's TypeName if set, and the kind's type otherwise.
func (m *Mapper) BuildEntity(kind string, b beans.Bean) (*instance.Entity, error) {
	c, err := m.converter(kind, typedef.CategoryEntity)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, &MissingInstanceError{Kind: kind, What: "bean"}
	}
	props, err := c.encode(m, b)
	if err != nil {
		return nil, err
	}
	ext, err := c.extensions(b)
	if err != nil {
		return nil, err
	}
	h, cs, err := m.instanceHeader(kind, c.BaseType(), ext.TypeName, b.GetElementHeader())
	if err != nil {
		return nil, err
	}
	return &instance.Entity{
		InstanceHeader:  h,
		Classifications: cs,
		Properties:      props,
	}, nil
}

func entityProxy(s *beans.ElementStub) *instance.EntityProxy {
	p := &instance.EntityProxy{GUID: s.GUID}
	if s.TypeName != "" {
		p.Type = &instance.InstanceType{TypeDefName: s.TypeName}
	}
	if s.UniqueName != "" {
		p.UniqueProperties = instance.NewProperties()
		p.UniqueProperties.Set("qualifiedName", instance.String(s.UniqueName))
	}
	return p
}

// BuildRelationship is the relationship counterpart of BuildEntity.
// Both ends of the relationship bean must have a GUID.
func (m *Mapper) BuildRelationship(kind string, b beans.Bean) (*instance.Relationship, error) {
	c, err := m.converter(kind, typedef.CategoryRelationship)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, &MissingInstanceError{Kind: kind, What: "bean"}
	}
	rb, ok := b.(beans.RelationshipBean)
	if !ok {
		return nil, &InvalidBeanClassError{Kind: kind, Reason: "bean is not a relationship bean"}
	}
	props, err := c.encode(m, b)
	if err != nil {
		return nil, err
	}
	ext, err := c.extensions(b)
	if err != nil {
		return nil, err
	}
	h, _, err := m.instanceHeader(kind, c.BaseType(), ext.TypeName, b.GetElementHeader())
	if err != nil {
		return nil, err
	}
	end1, end2 := rb.GetEnds()
	if end1.GUID == "" || end2.GUID == "" {
		return nil, &BadInstanceError{Kind: kind, GUID: h.GUID, Reason: "relationship does not have two ends"}
	}
	return &instance.Relationship{
		InstanceHeader: h,
		End1:           entityProxy(end1),
		End2:           entityProxy(end2),
		Properties:     props,
	}, nil
}
