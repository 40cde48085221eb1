// Package beans defines the strongly-typed metadata elements ("beans") that the
// convert package decodes from repository instances.
// See the instance package for the generic repository representation.
package beans

import (
	"time"
)

// Bean is the interface implemented by all entity and relationship beans.
type Bean interface {
	GetElementHeader() *ElementHeader
}

// RelationshipBean is the interface implemented by all relationship beans.
type RelationshipBean interface {
	Bean
	GetEnds() (end1, end2 *ElementStub)
}

// Extensible is implemented by all bean properties structs. It gives the mapper
// access to the parts that every properties struct shares.
type Extensible interface {
	GetExtensions() *Extensions
}

type ElementType struct {
	TypeID   string `yaml:"typeId,omitempty"`
	TypeName string `yaml:"typeName"`
	// Names of all supertypes, nearest first.
	SuperTypeNames []string `yaml:"superTypeNames,omitempty"`
}

type ElementOrigin struct {
	MetadataCollectionID   string `yaml:"metadataCollectionId,omitempty"`
	MetadataCollectionName string `yaml:"metadataCollectionName,omitempty"`
	Provenance             string `yaml:"provenance,omitempty"`
}

type ElementVersions struct {
	CreatedBy  string    `yaml:"createdBy,omitempty"`
	UpdatedBy  string    `yaml:"updatedBy,omitempty"`
	CreateTime time.Time `yaml:"createTime,omitempty"`
	UpdateTime time.Time `yaml:"updateTime,omitempty"`
	Version    int64     `yaml:"version,omitempty"`
}

type ElementClassification struct {
	Name       string         `yaml:"name"`
	Origin     ElementOrigin  `yaml:"origin,omitempty"`
	Properties map[string]any `yaml:"properties,omitempty"`
}

// ElementHeader is the bean counterpart of an instance header.
type ElementHeader struct {
	GUID            string                  `yaml:"guid"`
	Type            ElementType             `yaml:"type"`
	Origin          ElementOrigin           `yaml:"origin,omitempty"`
	Status          string                  `yaml:"status,omitempty"`
	Versions        ElementVersions         `yaml:"versions,omitempty"`
	Classifications []ElementClassification `yaml:"classifications,omitempty"`
}

func (h *ElementHeader) GetElementHeader() *ElementHeader {
	return h
}

// Classification returns the classification with the given name, or nil.
func (h *ElementHeader) Classification(name string) *ElementClassification {
	for i := range h.Classifications {
		if h.Classifications[i].Name == name {
			return &h.Classifications[i]
		}
	}
	return nil
}

// ElementStub identifies the entity at one end of a relationship.
type ElementStub struct {
	GUID       string `yaml:"guid"`
	TypeName   string `yaml:"typeName,omitempty"`
	UniqueName string `yaml:"uniqueName,omitempty"`
}

// Extensions holds the parts shared by all properties structs: the open metadata
// type of the element, properties not known to the bean, and the effectivity window.
type Extensions struct {
	// TypeName is the name of the element's open metadata type. On encode, it may name
	// a subtype of the bean's default type.
	TypeName string `yaml:"typeName,omitempty"`
	// Properties of the instance that the bean has no field for.
	ExtendedProperties map[string]any `yaml:"extendedProperties,omitempty"`
	EffectiveFrom      *time.Time     `yaml:"effectiveFrom,omitempty"`
	EffectiveTo        *time.Time     `yaml:"effectiveTo,omitempty"`
}

func (e *Extensions) GetExtensions() *Extensions {
	return e
}

// ReferenceableProperties are the properties of every element with a unique qualified name.
type ReferenceableProperties struct {
	Extensions           `yaml:",inline"`
	QualifiedName        string            `yaml:"qualifiedName"`
	AdditionalProperties map[string]string `yaml:"additionalProperties,omitempty"`
}

// RelationshipElement is embedded by all relationship beans.
type RelationshipElement struct {
	ElementHeader `yaml:"header"`
	End1          ElementStub `yaml:"end1"`
	End2          ElementStub `yaml:"end2"`
}

func (r *RelationshipElement) GetEnds() (end1, end2 *ElementStub) {
	return &r.End1, &r.End2
}
