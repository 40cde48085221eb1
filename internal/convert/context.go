package convert

import (
	"github.com/dnswlt/metamap/internal/instance"
)

// TypeChecker decides whether an instance type is a given type or one of its subtypes.
// It is implemented by *Mapper.
type TypeChecker interface {
	IsInstanceOf(t *instance.InstanceType, superName string) bool
}

var _ TypeChecker = (*Mapper)(nil)

// Context is passed to the Derive hook of an entity kind.
type Context struct {
	Mapper *Mapper
	Kind   string
	// The entity being decoded.
	Entity *instance.Entity
	// The relationships supplied by the caller, in input order.
	// All of them have a type and two ends.
	Relationships []*instance.Relationship
}

// Matching returns the supplied relationships of type typeName (or a subtype) in input order.
func (c *Context) Matching(typeName string) []*instance.Relationship {
	var rels []*instance.Relationship
	for _, r := range c.Relationships {
		if c.Mapper.IsInstanceOf(r.Type, typeName) {
			rels = append(rels, r)
		}
	}
	if len(rels) > 0 {
		c.Mapper.logf("%s %s: %d of %d relationships are of type %s", c.Kind, c.Entity.GUID, len(rels), len(c.Relationships), typeName)
	}
	return rels
}

// EndPosition returns the end (1 or 2) at which the entity being decoded is attached to r,
// or 0 if it is at neither end.
func (c *Context) EndPosition(r *instance.Relationship) int {
	return EndPosition(r, c.Entity.GUID)
}

// CountRelationships returns the number of relationships in rels of type typeName or a subtype.
func CountRelationships(tc TypeChecker, rels []*instance.Relationship, typeName string) int {
	n := 0
	for _, r := range rels {
		if r != nil && tc.IsInstanceOf(r.Type, typeName) {
			n++
		}
	}
	return n
}

// FirstRelationship returns the first relationship in rels of type typeName or a subtype, or nil.
func FirstRelationship(tc TypeChecker, rels []*instance.Relationship, typeName string) *instance.Relationship {
	for _, r := range rels {
		if r != nil && tc.IsInstanceOf(r.Type, typeName) {
			return r
		}
	}
	return nil
}

// EndPosition returns 1 or 2 if the entity with the given GUID is at end 1 or end 2 of r,
// and 0 otherwise.
func EndPosition(r *instance.Relationship, guid string) int {
	switch {
	case r.End1 != nil && r.End1.GUID == guid:
		return 1
	case r.End2 != nil && r.End2.GUID == guid:
		return 2
	}
	return 0
}

// OtherEnd returns the end of r that is not the entity with the given GUID,
// or nil if the entity is at neither end.
func OtherEnd(r *instance.Relationship, guid string) *instance.EntityProxy {
	switch EndPosition(r, guid) {
	case 1:
		return r.End2
	case 2:
		return r.End1
	}
	return nil
}
