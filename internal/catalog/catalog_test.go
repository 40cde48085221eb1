package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dnswlt/metamap/internal/beans"
	"github.com/dnswlt/metamap/internal/convert"
	"github.com/dnswlt/metamap/internal/converters"
	"github.com/dnswlt/metamap/internal/filter"
	"github.com/dnswlt/metamap/internal/instance"
	"github.com/dnswlt/metamap/internal/typedef"
	"github.com/google/go-cmp/cmp"
)

const testArchive = `
kind: Entity
header:
  guid: asset-1
  type: {name: DataSet}
  status: ACTIVE
properties:
  qualifiedName: sales.orders
  name: Orders
---
kind: Entity
header:
  guid: tag-1
  type: {name: InformalTag}
  status: ACTIVE
properties:
  tagName: pii
  isPrivateTag: true
---
kind: Entity
header:
  guid: other-1
  type: {name: Unmapped}
  status: ACTIVE
properties:
  x: y
---
kind: Relationship
header:
  guid: tag-rel-1
  type: {name: AttachedTag}
  status: ACTIVE
end1: {guid: asset-1}
end2: {guid: tag-1}
---
kind: Relationship
header:
  guid: tag-rel-2
  type: {name: AttachedTag}
  status: ACTIVE
end1: {guid: other-1}
end2: {guid: tag-1}
`

func setup(t *testing.T, archive string) (*convert.Mapper, *instance.Archive) {
	t.Helper()
	m, err := converters.NewMapper(typedef.Default(), nil)
	if err != nil {
		t.Fatalf("NewMapper() failed: %v", err)
	}
	a, err := instance.ReadArchive([]byte(archive), "test.yml")
	if err != nil {
		t.Fatalf("ReadArchive() failed: %v", err)
	}
	return m, a
}

func guidsOf(items []*Item) []string {
	var guids []string
	for _, it := range items {
		guids = append(guids, it.Entity.GUID)
	}
	return guids
}

func TestDecode(t *testing.T) {
	m, a := setup(t, testArchive)
	items, err := Decode(context.Background(), m, a, Options{Workers: 2})
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if diff := cmp.Diff([]string{"asset-1", "tag-1"}, guidsOf(items)); diff != "" {
		t.Fatalf("Decode() guids mismatch (-want +got):\n%s", diff)
	}

	asset, ok := items[0].Bean.(*beans.Asset)
	if !ok {
		t.Fatalf("asset-1 decoded as %T, want *beans.Asset", items[0].Bean)
	}
	if items[0].Kind != converters.KindAsset || asset.Properties.Name != "Orders" {
		t.Errorf("asset-1: kind %q, name %q; want %q, %q", items[0].Kind, asset.Properties.Name, converters.KindAsset, "Orders")
	}

	tag, ok := items[1].Bean.(*beans.InformalTag)
	if !ok {
		t.Fatalf("tag-1 decoded as %T, want *beans.InformalTag", items[1].Bean)
	}
	if !tag.Properties.IsPrivateTag || len(items[1].Relationships) != 2 {
		t.Errorf("tag-1: isPrivateTag %v with %d relationships, want true with 2", tag.Properties.IsPrivateTag, len(items[1].Relationships))
	}
}

func TestDecodeSelection(t *testing.T) {
	tests := []struct {
		name   string
		kinds  []string
		filter string
		want   []string
	}{
		{name: "kinds", kinds: []string{converters.KindInformalTag}, want: []string{"tag-1"}},
		{name: "filter", filter: `typeName == "DataSet"`, want: []string{"asset-1"}},
		{name: "supertype filter", filter: `"Referenceable" in superTypes`, want: []string{"asset-1"}},
		{name: "property filter", filter: `has(properties.tagName) && properties.tagName == "pii"`, want: []string{"tag-1"}},
		{name: "no match", kinds: []string{converters.KindAsset}, filter: `kind == "InformalTag"`, want: nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, a := setup(t, testArchive)
			f, err := filter.Compile(tc.filter)
			if err != nil {
				t.Fatalf("Compile() failed: %v", err)
			}
			items, err := Decode(context.Background(), m, a, Options{Kinds: tc.kinds, Filter: f})
			if err != nil {
				t.Fatalf("Decode() failed: %v", err)
			}
			if diff := cmp.Diff(tc.want, guidsOf(items)); diff != "" {
				t.Errorf("Decode() guids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeError(t *testing.T) {
	m, a := setup(t, `
kind: Entity
header:
  guid: tag-1
  type: {name: InformalTag}
properties:
  tagName: pii
  isPrivateTag: {string: "yes"}
`)
	_, err := Decode(context.Background(), m, a, Options{})
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("Decode() error = %v, want *DecodeError", err)
	}
	if de.GUID != "tag-1" || de.Source != "test.yml" || de.Kind != converters.KindInformalTag {
		t.Errorf("DecodeError = %+v, want tag-1 from test.yml", de)
	}
	var tm *convert.TypeMismatchError
	if !errors.As(err, &tm) {
		t.Errorf("Decode() error = %v, want it to wrap *convert.TypeMismatchError", err)
	}
}

func TestDecodeCanceled(t *testing.T) {
	m, a := setup(t, testArchive)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Decode(ctx, m, a, Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Decode() error = %v, want context.Canceled", err)
	}
}

func TestCheck(t *testing.T) {
	m, a := setup(t, testArchive)
	items, err := Decode(context.Background(), m, a, Options{})
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	mismatches, err := Check(m, items)
	if err != nil {
		t.Fatalf("Check() failed: %v", err)
	}
	if len(mismatches) != 0 {
		t.Errorf("Check() found mismatches for decoded archive: %+v", mismatches)
	}
}

func TestCheckStatusless(t *testing.T) {
	m, a := setup(t, `
kind: Entity
header:
  guid: asset-1
  type: {name: Asset}
properties:
  qualifiedName: sales.orders
`)
	items, err := Decode(context.Background(), m, a, Options{})
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if got := items[0].Bean.GetElementHeader().Status; got != instance.StatusActive {
		t.Errorf("Status = %q, want %q", got, instance.StatusActive)
	}
	mismatches, err := Check(m, items)
	if err != nil {
		t.Fatalf("Check() failed: %v", err)
	}
	if len(mismatches) != 0 {
		t.Errorf("Check() found mismatches for entity without status: %+v", mismatches)
	}
}

func TestCheckMismatch(t *testing.T) {
	m, a := setup(t, testArchive)
	// Supertypes of known types always come from the registry.
	item := &Item{
		Kind:   converters.KindAsset,
		Entity: a.Entity("asset-1"),
		Bean: &beans.Asset{
			ElementHeader: beans.ElementHeader{
				GUID:   "asset-1",
				Type:   beans.ElementType{TypeName: "Asset", SuperTypeNames: []string{"Bogus"}},
				Status: instance.StatusActive,
			},
			Properties: beans.AssetProperties{Name: "Orders"},
		},
	}
	mismatches, err := Check(m, []*Item{item})
	if err != nil {
		t.Fatalf("Check() failed: %v", err)
	}
	if len(mismatches) != 1 || mismatches[0].GUID != "asset-1" || !strings.Contains(mismatches[0].Diff, "Bogus") {
		t.Errorf("Check() = %+v, want one supertype mismatch for asset-1", mismatches)
	}

	item.Bean = nil
	if _, err := Check(m, []*Item{item}); err == nil {
		t.Error("Check() of undecoded item succeeded, want error")
	}
}

func TestExport(t *testing.T) {
	m, a := setup(t, testArchive)
	items, err := Decode(context.Background(), m, a, Options{})
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	got := Export(a, items)
	var entities, rels []string
	for _, e := range got.Entities {
		entities = append(entities, e.GUID)
	}
	for _, r := range got.Relationships {
		rels = append(rels, r.GUID)
	}
	if diff := cmp.Diff([]string{"asset-1", "tag-1"}, entities); diff != "" {
		t.Errorf("Export() entities mismatch (-want +got):\n%s", diff)
	}
	// tag-rel-2 ends at other-1, which is not exported.
	if diff := cmp.Diff([]string{"tag-rel-1"}, rels); diff != "" {
		t.Errorf("Export() relationships mismatch (-want +got):\n%s", diff)
	}
}
