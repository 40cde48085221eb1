// Package instance defines the repository-level representation of metadata
// instances: entities, relationships and classifications, each carrying an
// untyped property bag and a header.
//
// The types in this package are what the metadata repository hands out. They are
// decoded from (and encoded to) YAML archive files, see ReadArchive.
// See the beans package for the strongly-typed counterparts.
package instance

import (
	"time"

	"github.com/google/uuid"
)

// Well-known instance status values.
const (
	StatusActive  = "ACTIVE"
	StatusDeleted = "DELETED"
)

// Provenance of an instance, i.e. which kind of metadata collection it originates from.
const (
	ProvenanceLocalCohort    = "LOCAL_COHORT"
	ProvenanceExportArchive  = "EXPORT_ARCHIVE"
	ProvenanceContentPack    = "CONTENT_PACK"
	ProvenanceExternalSource = "EXTERNAL_SOURCE"
)

// InstanceType identifies the type definition of an instance.
type InstanceType struct {
	TypeDefName string `yaml:"name"`
	TypeDefGUID string `yaml:"guid,omitempty"`
	// Names of all supertypes, nearest first.
	// Only used if the type registry does not know TypeDefName.
	SuperTypes []string `yaml:"superTypes,omitempty"`
}

// InstanceHeader holds the bookkeeping data shared by entities and relationships.
type InstanceHeader struct {
	GUID                   string        `yaml:"guid"`
	Type                   *InstanceType `yaml:"type"`
	MetadataCollectionID   string        `yaml:"metadataCollectionId,omitempty"`
	MetadataCollectionName string        `yaml:"metadataCollectionName,omitempty"`
	Provenance             string        `yaml:"provenance,omitempty"`
	Status                 string        `yaml:"status,omitempty"`
	Version                int64         `yaml:"version,omitempty"`
	CreatedBy              string        `yaml:"createdBy,omitempty"`
	UpdatedBy              string        `yaml:"updatedBy,omitempty"`
	CreateTime             *time.Time    `yaml:"createTime,omitempty"`
	UpdateTime             *time.Time    `yaml:"updateTime,omitempty"`
}

// TypeName returns the name of the instance's type, or "" if the header carries no type.
func (h *InstanceHeader) TypeName() string {
	if h == nil || h.Type == nil {
		return ""
	}
	return h.Type.TypeDefName
}

// Classification is a named set of properties attached to an entity.
type Classification struct {
	Name                   string      `yaml:"name"`
	MetadataCollectionID   string      `yaml:"metadataCollectionId,omitempty"`
	MetadataCollectionName string      `yaml:"metadataCollectionName,omitempty"`
	Provenance             string      `yaml:"provenance,omitempty"`
	Properties             *Properties `yaml:"properties,omitempty"`
}

// Entity is a repository record describing one real-world object.
type Entity struct {
	InstanceHeader  `yaml:"header"`
	Classifications []*Classification `yaml:"classifications,omitempty"`
	Properties      *Properties       `yaml:"properties,omitempty"`
}

// Classification returns the classification with the given name, or nil.
func (e *Entity) Classification(name string) *Classification {
	for _, c := range e.Classifications {
		if c != nil && c.Name == name {
			return c
		}
	}
	return nil
}

// EntityProxy is the stub of an entity found at either end of a relationship.
type EntityProxy struct {
	GUID string        `yaml:"guid"`
	Type *InstanceType `yaml:"type,omitempty"`
	// The subset of the entity's properties that uniquely identify it (usually the qualifiedName).
	UniqueProperties *Properties `yaml:"uniqueProperties,omitempty"`
}

// UniqueName returns the qualifiedName unique property of the proxy, if present.
func (p *EntityProxy) UniqueName() string {
	if p == nil {
		return ""
	}
	v, ok := p.UniqueProperties.Get("qualifiedName")
	if !ok {
		return ""
	}
	if s, ok := Unwrap(v).(string); ok {
		return s
	}
	return ""
}

// Relationship links two entities. Its property bag is optional.
type Relationship struct {
	InstanceHeader `yaml:"header"`
	End1           *EntityProxy `yaml:"end1"`
	End2           *EntityProxy `yaml:"end2"`
	Properties     *Properties  `yaml:"properties,omitempty"`
}

// NewGUID returns a new random GUID for a metadata instance.
func NewGUID() string {
	return uuid.NewString()
}
