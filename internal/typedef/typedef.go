// Package typedef implements the registry of open metadata type and enum definitions.
//
// The registry answers two questions for the mapping layer: whether one type is a
// subtype of another, and which elements an enum type has.
package typedef

import (
	"bytes"
	"cmp"
	_ "embed"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

type Category string

const (
	CategoryEntity         Category = "entity"
	CategoryRelationship   Category = "relationship"
	CategoryClassification Category = "classification"
)

const (
	// Max. number of memoized IsTypeOf results.
	isaCacheSize = 4096
	// Upper bound for supertype chains. Longer chains indicate a cycle.
	maxTypeDepth = 64
)

//go:embed base_model.yml
var baseModel []byte

type TypeDef struct {
	Name        string   `yaml:"name"`
	GUID        string   `yaml:"guid"`
	Category    Category `yaml:"category"`
	SuperType   string   `yaml:"superType,omitempty"`
	Version     string   `yaml:"version,omitempty"`
	Description string   `yaml:"description,omitempty"`
}

type EnumElement struct {
	Ordinal     int    `yaml:"ordinal"`
	Value       string `yaml:"value"`
	Description string `yaml:"description,omitempty"`
	Default     bool   `yaml:"default,omitempty"`
}

type EnumDef struct {
	Name        string         `yaml:"name"`
	GUID        string         `yaml:"guid"`
	Version     string         `yaml:"version,omitempty"`
	Description string         `yaml:"description,omitempty"`
	Elements    []*EnumElement `yaml:"elements"`
}

// Element returns the element with the given ordinal, or nil.
func (e *EnumDef) Element(ordinal int) *EnumElement {
	for _, el := range e.Elements {
		if el.Ordinal == ordinal {
			return el
		}
	}
	return nil
}

// Definitions is the top-level YAML node of a type definition file.
type Definitions struct {
	Types []*TypeDef `yaml:"types"`
	Enums []*EnumDef `yaml:"enums"`
}

// Registry holds type and enum definitions. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*TypeDef
	enums map[string]*EnumDef
	// Memoized IsTypeOf results, keyed by "<type>\x00<supertype>".
	isa *lru.Cache[string, bool]
}

func NewRegistry() *Registry {
	isa, err := lru.New[string, bool](isaCacheSize)
	if err != nil {
		// Only fails for non-positive sizes.
		panic(fmt.Sprintf("cannot create type cache: %v", err))
	}
	return &Registry{
		types: make(map[string]*TypeDef),
		enums: make(map[string]*EnumDef),
		isa:   isa,
	}
}

// Default returns a registry populated with the built-in base model.
func Default() *Registry {
	r := NewRegistry()
	if err := r.Load(baseModel, "base_model.yml"); err != nil {
		panic(fmt.Sprintf("invalid built-in type definitions: %v", err))
	}
	return r
}

// normalizeVersion turns a version such as "1.2" into the "v1.2" form expected by semver.
// The empty version sorts lowest.
func normalizeVersion(v string) (string, error) {
	if v == "" {
		return "v0.0.0", nil
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", fmt.Errorf("invalid version %q", v)
	}
	return v, nil
}

// supersedes reports whether a definition with version newV should replace one with oldV.
func supersedes(newV, oldV string) (bool, error) {
	n, err := normalizeVersion(newV)
	if err != nil {
		return false, err
	}
	o, err := normalizeVersion(oldV)
	if err != nil {
		return false, err
	}
	return semver.Compare(n, o) > 0, nil
}

// AddType adds t to the registry. If a definition with the same name exists,
// t replaces it only if t has a higher version. The result reports whether t was added.
func (r *Registry) AddType(t *TypeDef) (bool, error) {
	if t.Name == "" {
		return false, fmt.Errorf("type definition without name")
	}
	switch t.Category {
	case CategoryEntity, CategoryRelationship, CategoryClassification:
	default:
		return false, fmt.Errorf("type %s: invalid category %q", t.Name, t.Category)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.types[t.Name]; ok {
		newer, err := supersedes(t.Version, old.Version)
		if err != nil {
			return false, fmt.Errorf("type %s: %v", t.Name, err)
		}
		if !newer {
			return false, nil
		}
	} else if _, err := normalizeVersion(t.Version); err != nil {
		return false, fmt.Errorf("type %s: %v", t.Name, err)
	}
	r.types[t.Name] = t
	// Supertype chains may have changed.
	r.isa.Purge()
	return true, nil
}

// AddEnum adds e to the registry, with the same versioning rules as AddType.
func (r *Registry) AddEnum(e *EnumDef) (bool, error) {
	if e.Name == "" {
		return false, fmt.Errorf("enum definition without name")
	}
	seen := make(map[int]bool)
	for _, el := range e.Elements {
		if seen[el.Ordinal] {
			return false, fmt.Errorf("enum %s: duplicate ordinal %d", e.Name, el.Ordinal)
		}
		seen[el.Ordinal] = true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.enums[e.Name]; ok {
		newer, err := supersedes(e.Version, old.Version)
		if err != nil {
			return false, fmt.Errorf("enum %s: %v", e.Name, err)
		}
		if !newer {
			return false, nil
		}
	} else if _, err := normalizeVersion(e.Version); err != nil {
		return false, fmt.Errorf("enum %s: %v", e.Name, err)
	}
	r.enums[e.Name] = e
	return true, nil
}

// Load reads type and enum definitions from YAML data and adds them to the registry.
// path is only used in error messages.
func (r *Registry) Load(data []byte, path string) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var defs Definitions
	if err := dec.Decode(&defs); err != nil {
		return fmt.Errorf("invalid type definitions in %q: %v", path, err)
	}
	for _, t := range defs.Types {
		added, err := r.AddType(t)
		if err != nil {
			return fmt.Errorf("%s: %v", path, err)
		}
		if !added {
			log.Printf("Ignoring type %s from %s: registry already has a newer version", t.Name, path)
		}
	}
	for _, e := range defs.Enums {
		added, err := r.AddEnum(e)
		if err != nil {
			return fmt.Errorf("%s: %v", path, err)
		}
		if !added {
			log.Printf("Ignoring enum %s from %s: registry already has a newer version", e.Name, path)
		}
	}
	return nil
}

// Lookup returns the type definition with the given name.
func (r *Registry) Lookup(name string) (*TypeDef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// Enum returns the enum definition with the given name.
func (r *Registry) Enum(name string) (*EnumDef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.enums[name]
	return e, ok
}

// EnumElement returns the element of enum type enumName with the given ordinal.
func (r *Registry) EnumElement(enumName string, ordinal int) (*EnumElement, bool) {
	e, ok := r.Enum(enumName)
	if !ok {
		return nil, false
	}
	el := e.Element(ordinal)
	return el, el != nil
}

// SuperTypes returns the names of all supertypes of the given type, nearest first.
// Unknown types have no supertypes.
func (r *Registry) SuperTypes(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.superTypes(name)
}

// superTypes is SuperTypes for callers holding r.mu.
func (r *Registry) superTypes(name string) []string {
	var result []string
	t, ok := r.types[name]
	for depth := 0; ok && t.SuperType != "" && depth < maxTypeDepth; depth++ {
		result = append(result, t.SuperType)
		t, ok = r.types[t.SuperType]
	}
	return result
}

// IsTypeOf reports whether typeName is superName or one of its (transitive) subtypes.
func (r *Registry) IsTypeOf(typeName, superName string) bool {
	if typeName == superName {
		return true
	}
	// Results are computed and cached under the read lock, so AddType cannot purge
	// the cache between computing a result and adding it.
	r.mu.RLock()
	defer r.mu.RUnlock()
	key := typeName + "\x00" + superName
	if v, ok := r.isa.Get(key); ok {
		return v
	}
	result := slices.Contains(r.superTypes(typeName), superName)
	r.isa.Add(key, result)
	return result
}

// Known reports whether the registry has a definition for the given type.
func (r *Registry) Known(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Types returns all type definitions of the given category, ordered by name.
// An empty category returns all types.
func (r *Registry) Types(c Category) []*TypeDef {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*TypeDef
	for _, t := range r.types {
		if c == "" || t.Category == c {
			result = append(result, t)
		}
	}
	slices.SortFunc(result, func(a, b *TypeDef) int { return cmp.Compare(a.Name, b.Name) })
	return result
}

// Enums returns all enum definitions, ordered by name.
func (r *Registry) Enums() []*EnumDef {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*EnumDef, 0, len(r.enums))
	for _, e := range r.enums {
		result = append(result, e)
	}
	slices.SortFunc(result, func(a, b *EnumDef) int { return cmp.Compare(a.Name, b.Name) })
	return result
}
