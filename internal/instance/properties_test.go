package instance

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestPartition(t *testing.T) {
	p := &Properties{Values: map[string]PropertyValue{
		"qualifiedName": String("q"),
		"position":      Int(3),
		"custom":        Bool(true),
	}}
	known, rest := p.Partition(map[string]bool{"qualifiedName": true, "position": true, "unused": true})

	if diff := cmp.Diff([]string{"position", "qualifiedName"}, known.Names()); diff != "" {
		t.Errorf("known names mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"custom"}, rest.Names()); diff != "" {
		t.Errorf("rest names mismatch (-want +got):\n%s", diff)
	}
	if p.Len() != 3 {
		t.Errorf("Partition modified its receiver: Len() = %d, want 3", p.Len())
	}
}

func TestPartitionNil(t *testing.T) {
	var p *Properties
	known, rest := p.Partition(map[string]bool{"a": true})
	if known.Len() != 0 || rest.Len() != 0 {
		t.Errorf("Partition of nil bag returned %d/%d properties, want 0/0", known.Len(), rest.Len())
	}
}

func TestCloneIsDeep(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &Properties{
		Values: map[string]PropertyValue{
			"m": MapValue{Properties: &Properties{Values: map[string]PropertyValue{"k": String("v")}}},
		},
		EffectiveFrom: &from,
	}
	c := p.Clone()
	if diff := cmp.Diff(p, c); diff != "" {
		t.Fatalf("Clone() mismatch (-want +got):\n%s", diff)
	}
	c.Values["m"].(MapValue).Properties.Set("k", String("changed"))
	*c.EffectiveFrom = from.Add(time.Hour)

	v, _ := p.Values["m"].(MapValue).Properties.Get("k")
	if v != String("v") {
		t.Errorf("original nested value changed to %v", v)
	}
	if !p.EffectiveFrom.Equal(from) {
		t.Errorf("original EffectiveFrom changed to %v", p.EffectiveFrom)
	}
}

func TestWrapUnwrap(t *testing.T) {
	date := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	tests := []struct {
		name  string
		value any
		want  PropertyValue
	}{
		{"string", "x", String("x")},
		{"int", 7, Int(7)},
		{"long", int64(7), Long(7)},
		{"double", 1.5, Double(1.5)},
		{"bool", true, Bool(true)},
		{"date", date, Date(date)},
		{"strings", []string{"a", "b"}, ArrayValue{Values: []PropertyValue{String("a"), String("b")}}},
		{"map", map[string]any{"n": 1}, MapValue{Properties: &Properties{Values: map[string]PropertyValue{"n": Int(1)}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Wrap(tc.value)
			if err != nil {
				t.Fatalf("Wrap(%v) failed: %v", tc.value, err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Wrap() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := Wrap(struct{}{}); err == nil {
		t.Error("Wrap(struct{}{}) succeeded, want error")
	}
	enum := EnumValue{Ordinal: 2, SymbolicName: "TWO"}
	if got := Unwrap(enum); got != enum {
		t.Errorf("Unwrap(enum) = %v, want %v", got, enum)
	}
	if got, _ := Wrap(Unwrap(enum)); got != enum {
		t.Errorf("Wrap(Unwrap(enum)) = %v, want %v", got, enum)
	}
	arr := Unwrap(ArrayValue{Values: []PropertyValue{Int(1), String("a")}})
	if diff := cmp.Diff([]any{1, "a"}, arr); diff != "" {
		t.Errorf("Unwrap(array) mismatch (-want +got):\n%s", diff)
	}
}
