package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dnswlt/metamap/internal/instance"
	"github.com/dnswlt/metamap/internal/typedef"
	"github.com/google/go-cmp/cmp"
)

const assetsArchive = `
kind: Entity
header:
  guid: asset-1
  type: {name: DataSet}
properties:
  qualifiedName: sales.orders
  name: Orders
---
kind: Relationship
header:
  guid: tag-rel-1
  type: {name: AttachedTag}
end1: {guid: asset-1}
end2: {guid: tag-1}
`

const tagsArchive = `
kind: Entity
header:
  guid: tag-1
  type: {name: InformalTag}
properties:
  tagName: pii
`

const kafkaTypes = `
types:
  - name: KafkaTopic
    category: entity
    version: "1.0"
    superType: DataSet
`

// writeFiles writes files (path -> content) into a new temp dir and returns a store for it.
func writeFiles(t *testing.T, files map[string]string) *DiskStore {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatalf("Failed to create dir: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return NewDiskStore(dir)
}

func TestLoadArchive(t *testing.T) {
	st := writeFiles(t, map[string]string{
		"archive/assets.yml":    assetsArchive,
		"archive/tags/tags.yml": tagsArchive,
		"archive/README.md":     "not an archive",
	})
	a, err := LoadArchive(st, "archive")
	if err != nil {
		t.Fatalf("LoadArchive() failed: %v", err)
	}
	if len(a.Entities) != 2 || len(a.Relationships) != 1 {
		t.Fatalf("got %d entities and %d relationships, want 2 and 1", len(a.Entities), len(a.Relationships))
	}
	want := filepath.Join("archive", "tags", "tags.yml")
	if got := a.Source("tag-1"); got != want {
		t.Errorf("Source(tag-1) = %q, want %q", got, want)
	}
	if rels := a.RelationshipsOf("tag-1"); len(rels) != 1 || rels[0].GUID != "tag-rel-1" {
		t.Errorf("RelationshipsOf(tag-1) = %v, want [tag-rel-1]", rels)
	}
}

func TestLoadArchiveErrors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{
			name: "duplicate guid",
			files: map[string]string{
				"archive/a.yml": tagsArchive,
				"archive/b.yml": tagsArchive,
			},
		},
		{
			name:  "invalid kind",
			files: map[string]string{"archive/a.yml": "kind: Component\nheader: {guid: x}\n"},
		},
		{
			name:  "unknown field",
			files: map[string]string{"archive/a.yml": "kind: Entity\nheader: {guid: x}\nspec: {}\n"},
		},
		{
			name:  "invalid yaml",
			files: map[string]string{"archive/a.yml": "invalid: yaml: here\n"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := writeFiles(t, tc.files)
			if _, err := LoadArchive(st, "archive"); err == nil {
				t.Error("LoadArchive() succeeded, want error")
			}
		})
	}

	t.Run("missing dir", func(t *testing.T) {
		st := writeFiles(t, nil)
		if _, err := LoadArchive(st, "archive"); err == nil {
			t.Error("LoadArchive() succeeded, want error")
		}
	})
}

func TestLoadTypes(t *testing.T) {
	st := writeFiles(t, map[string]string{
		"types/kafka.yml":   kafkaTypes,
		"more/kafka2.yaml":  "types:\n  - {name: KafkaSchema, category: entity, version: \"1.0\", superType: ComplexSchemaType}\n",
		"more/notes.txt":    "ignored",
		"broken/broken.yml": "types: [{name: X, category: nonsense, version: \"1.0\"}]\n",
	})
	types := typedef.Default()
	if err := LoadTypes(st, types, "types/kafka.yml", "more"); err != nil {
		t.Fatalf("LoadTypes() failed: %v", err)
	}
	if !types.IsTypeOf("KafkaTopic", "Asset") {
		t.Error("KafkaTopic is not an Asset after loading")
	}
	if !types.IsTypeOf("KafkaSchema", "SchemaType") {
		t.Error("KafkaSchema is not a SchemaType after loading")
	}
	if err := LoadTypes(st, types, "broken"); err == nil {
		t.Error("LoadTypes() with invalid category succeeded, want error")
	}
	if err := LoadTypes(st, types, "types/missing.yml"); err == nil {
		t.Error("LoadTypes() with missing file succeeded, want error")
	}
}

func TestWriteArchiveRoundTrip(t *testing.T) {
	st := writeFiles(t, map[string]string{"archive/assets.yml": assetsArchive})
	a, err := LoadArchive(st, "archive")
	if err != nil {
		t.Fatalf("LoadArchive() failed: %v", err)
	}
	if err := WriteArchive(st, "out/assets.yml", a); err != nil {
		t.Fatalf("WriteArchive() failed: %v", err)
	}
	b, err := LoadArchive(st, "out")
	if err != nil {
		t.Fatalf("LoadArchive() of written archive failed: %v", err)
	}
	if diff := cmp.Diff(a.Entities, b.Entities); diff != "" {
		t.Errorf("Entities mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(a.Relationships, b.Relationships); diff != "" {
		t.Errorf("Relationships mismatch (-want +got):\n%s", diff)
	}
}

func TestDiskStore(t *testing.T) {
	st := writeFiles(t, map[string]string{"a/b.yml": "b"})

	t.Run("Store", func(t *testing.T) {
		if _, err := st.Store(""); err != nil {
			t.Errorf("Store(\"\") failed: %v", err)
		}
		if _, err := st.Store("main"); !errors.Is(err, ErrNoSuchRef) {
			t.Errorf("Store(\"main\") error = %v, want ErrNoSuchRef", err)
		}
	})

	t.Run("escaping paths", func(t *testing.T) {
		if _, err := st.ReadFile("../secret.yml"); err == nil {
			t.Error("ReadFile(../secret.yml) succeeded, want error")
		}
		if err := st.WriteFile("../../x.yml", []byte("x")); err == nil {
			t.Error("WriteFile(../../x.yml) succeeded, want error")
		}
		if _, err := st.ListFiles(".."); err == nil {
			t.Error("ListFiles(..) succeeded, want error")
		}
	})

	t.Run("write and read", func(t *testing.T) {
		if err := st.WriteFile("c/d/e.yml", []byte("e")); err != nil {
			t.Fatalf("WriteFile() failed: %v", err)
		}
		got, err := st.ReadFile("c/d/e.yml")
		if err != nil {
			t.Fatalf("ReadFile() failed: %v", err)
		}
		if string(got) != "e" {
			t.Errorf("ReadFile() = %q, want %q", got, "e")
		}
	})
}

func TestWriteArchiveReadOnly(t *testing.T) {
	var st Store = &gitStore{}
	err := WriteArchive(st, "a.yml", &instance.Archive{})
	if !errors.Is(err, ErrReadOnly) {
		t.Errorf("WriteArchive() to git store: error = %v, want ErrReadOnly", err)
	}
}
