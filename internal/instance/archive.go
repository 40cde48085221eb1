package instance

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// Values of the "kind" field of archive documents.
	KindEntity       = "Entity"
	KindRelationship = "Relationship"

	YAMLIndent = 2
)

// Archive is an in-memory collection of entities and relationships,
// typically read from one or more YAML archive files.
type Archive struct {
	Entities      []*Entity
	Relationships []*Relationship

	// Source files of the instances, keyed by GUID. Used in error messages.
	sources map[string]string
}

type entityDoc struct {
	Kind          string     `yaml:"kind"`
	Entity        `yaml:",inline"`
	EffectiveFrom *time.Time `yaml:"effectiveFrom,omitempty"`
	EffectiveTo   *time.Time `yaml:"effectiveTo,omitempty"`
}

type relationshipDoc struct {
	Kind          string     `yaml:"kind"`
	Relationship  `yaml:",inline"`
	EffectiveFrom *time.Time `yaml:"effectiveFrom,omitempty"`
	EffectiveTo   *time.Time `yaml:"effectiveTo,omitempty"`
}

// withWindow returns props with the given effectivity window applied.
// An empty bag is created if a window is present but props is nil.
func withWindow(props *Properties, from, to *time.Time) *Properties {
	if from == nil && to == nil {
		return props
	}
	if props == nil {
		props = NewProperties()
	}
	props.EffectiveFrom = from
	props.EffectiveTo = to
	return props
}

// Source returns the path of the file from which the instance with the given GUID was read.
func (a *Archive) Source(guid string) string {
	return a.sources[guid]
}

// Entity returns the entity with the given GUID, or nil.
func (a *Archive) Entity(guid string) *Entity {
	for _, e := range a.Entities {
		if e.GUID == guid {
			return e
		}
	}
	return nil
}

// RelationshipsOf returns all relationships with the given entity at either end,
// in archive order.
func (a *Archive) RelationshipsOf(guid string) []*Relationship {
	var rels []*Relationship
	for _, r := range a.Relationships {
		if (r.End1 != nil && r.End1.GUID == guid) || (r.End2 != nil && r.End2.GUID == guid) {
			rels = append(rels, r)
		}
	}
	return rels
}

// Size returns the total number of instances in the archive.
func (a *Archive) Size() int {
	return len(a.Entities) + len(a.Relationships)
}

func (a *Archive) register(guid, path string) error {
	if guid == "" {
		return errors.New("instance has no guid")
	}
	if a.sources == nil {
		a.sources = make(map[string]string)
	}
	if prev, ok := a.sources[guid]; ok {
		return fmt.Errorf("duplicate guid %s (previously defined in %q)", guid, prev)
	}
	a.sources[guid] = path
	return nil
}

// Merge adds all instances of other to a. GUIDs must be unique across both archives.
func (a *Archive) Merge(other *Archive) error {
	for _, e := range other.Entities {
		if err := a.register(e.GUID, other.Source(e.GUID)); err != nil {
			return err
		}
		a.Entities = append(a.Entities, e)
	}
	for _, r := range other.Relationships {
		if err := a.register(r.GUID, other.Source(r.GUID)); err != nil {
			return err
		}
		a.Relationships = append(a.Relationships, r)
	}
	return nil
}

// FindKindInNode is a helper to extract the 'kind' value from a yaml.Node
func FindKindInNode(doc *yaml.Node) (string, error) {
	// The top-level node is a DocumentNode, its content is a MappingNode
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return "", errors.New("expected a YAML document with a top-level map")
	}

	nodes := doc.Content[0].Content
	for i := 0; i+1 < len(nodes); i += 2 {
		if nodes[i].Value == "kind" {
			valueNode := nodes[i+1]
			if valueNode.Kind != yaml.ScalarNode {
				return "", fmt.Errorf("'kind' field is not a string (type: %v)", valueNode.Tag)
			}
			return valueNode.Value, nil
		}
	}
	return "", errors.New("no 'kind' field found")
}

// decodeStrict decodes node into v, rejecting unknown fields.
func decodeStrict(node *yaml.Node, v any) error {
	// There is no strict mode when decoding a yaml.Node directly,
	// so re-encode the node and decode it again with KnownFields.
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if err := enc.Encode(node); err != nil {
		return fmt.Errorf("failed to re-encode node: %v", err)
	}
	dec := yaml.NewDecoder(&buf)
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("line %d: %v", node.Line, err)
	}
	return nil
}

// ReadArchive decodes all entity and relationship documents in data.
// path is only used in error messages and for Source lookups.
func ReadArchive(data []byte, path string) (*Archive, error) {
	a := &Archive{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode YAML node in %q: %w", path, err)
		}
		// node.Content will be empty for blank documents (e.g., just "---")
		if len(node.Content) == 0 {
			continue
		}
		if err := a.addNode(&node, path); err != nil {
			return nil, fmt.Errorf("error in document %q starting at line %d: %v", path, node.Line, err)
		}
	}
	return a, nil
}

func (a *Archive) addNode(node *yaml.Node, path string) error {
	kind, err := FindKindInNode(node)
	if err != nil {
		return err
	}
	switch kind {
	case KindEntity:
		var doc entityDoc
		if err := decodeStrict(node, &doc); err != nil {
			return err
		}
		e := &doc.Entity
		e.Properties = withWindow(e.Properties, doc.EffectiveFrom, doc.EffectiveTo)
		if err := a.register(e.GUID, path); err != nil {
			return err
		}
		a.Entities = append(a.Entities, e)
	case KindRelationship:
		var doc relationshipDoc
		if err := decodeStrict(node, &doc); err != nil {
			return err
		}
		r := &doc.Relationship
		r.Properties = withWindow(r.Properties, doc.EffectiveFrom, doc.EffectiveTo)
		if err := a.register(r.GUID, path); err != nil {
			return err
		}
		a.Relationships = append(a.Relationships, r)
	default:
		return fmt.Errorf("invalid kind %q", kind)
	}
	return nil
}

// WriteArchive writes all instances of a as a multi-document YAML stream.
func WriteArchive(w io.Writer, a *Archive) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(YAMLIndent)
	for _, e := range a.Entities {
		doc := entityDoc{Kind: KindEntity, Entity: *e}
		if e.Properties != nil {
			doc.EffectiveFrom, doc.EffectiveTo = e.Properties.EffectiveFrom, e.Properties.EffectiveTo
		}
		if err := enc.Encode(&doc); err != nil {
			return fmt.Errorf("failed to encode entity %s: %w", e.GUID, err)
		}
	}
	for _, r := range a.Relationships {
		doc := relationshipDoc{Kind: KindRelationship, Relationship: *r}
		if r.Properties != nil {
			doc.EffectiveFrom, doc.EffectiveTo = r.Properties.EffectiveFrom, r.Properties.EffectiveTo
		}
		if err := enc.Encode(&doc); err != nil {
			return fmt.Errorf("failed to encode relationship %s: %w", r.GUID, err)
		}
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to close encoder: %w", err)
	}
	return nil
}
