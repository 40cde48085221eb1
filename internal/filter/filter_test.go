package filter

import (
	"testing"

	"github.com/dnswlt/metamap/internal/instance"
	"github.com/dnswlt/metamap/internal/typedef"
)

func testEntity() *instance.Entity {
	return &instance.Entity{
		InstanceHeader: instance.InstanceHeader{
			GUID:   "col-1",
			Type:   &instance.InstanceType{TypeDefName: "RelationalColumn"},
			Status: instance.StatusActive,
		},
		Properties: &instance.Properties{Values: map[string]instance.PropertyValue{
			"qualifiedName": instance.String("db.sales.orders.id"),
			"position":      instance.Int(3),
			"length":        instance.Long(12345678901),
			"isNullable":    instance.Bool(false),
			"sortOrder":     instance.Enum(1, "ASCENDING"),
			"aliases":       instance.ArrayValue{Values: []instance.PropertyValue{instance.String("oid")}},
			"additionalProperties": instance.MapValue{Properties: &instance.Properties{Values: map[string]instance.PropertyValue{
				"owner": instance.String("sales"),
			}}},
		}},
	}
}

func TestMatchEntity(t *testing.T) {
	types := typedef.Default()
	tests := []struct {
		expr string
		want bool
	}{
		{`typeName == "RelationalColumn"`, true},
		{`guid == "col-2"`, false},
		{`"SchemaAttribute" in superTypes`, true},
		{`"Asset" in superTypes`, false},
		{`kind == "RelationalColumn" && status == "ACTIVE"`, true},
		{`properties.qualifiedName.startsWith("db.sales.")`, true},
		{`properties.position > 2 && properties.length > 10000000000`, true},
		{`!properties.isNullable`, true},
		{`properties.sortOrder == "ASCENDING"`, true},
		{`"oid" in properties.aliases`, true},
		{`properties.additionalProperties.owner == "finance"`, false},
		{`has(properties.description)`, false},
	}
	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			f, err := Compile(tc.expr)
			if err != nil {
				t.Fatalf("Compile() failed: %v", err)
			}
			got, err := f.MatchEntity(types, "RelationalColumn", testEntity())
			if err != nil {
				t.Fatalf("MatchEntity() failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("MatchEntity() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMatchUnknownTypeUsesHeaderSuperTypes(t *testing.T) {
	f, err := Compile(`"DataSet" in superTypes`)
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}
	e := testEntity()
	e.Type = &instance.InstanceType{TypeDefName: "KafkaTopic", SuperTypes: []string{"DataSet", "Asset"}}
	got, err := f.MatchEntity(typedef.Default(), "", e)
	if err != nil {
		t.Fatalf("MatchEntity() failed: %v", err)
	}
	if !got {
		t.Error("MatchEntity() = false, want true")
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []string{
		`typeName ==`,
		`typeName`,
		`unknownVar == 1`,
		`guid + 1 == 2`,
	}
	for _, expr := range tests {
		t.Run(expr, func(t *testing.T) {
			if _, err := Compile(expr); err == nil {
				t.Errorf("Compile(%q) succeeded, want error", expr)
			}
		})
	}
}

func TestNilFilter(t *testing.T) {
	f, err := Compile("")
	if err != nil {
		t.Fatalf("Compile(\"\") failed: %v", err)
	}
	if f != nil {
		t.Fatalf("Compile(\"\") = %v, want nil", f)
	}
	got, err := f.Match(Input{})
	if err != nil || !got {
		t.Errorf("nil filter Match() = %v, %v, want true, nil", got, err)
	}
	if f.String() != "true" {
		t.Errorf("nil filter String() = %q, want %q", f.String(), "true")
	}
}

func TestMatchMissingProperty(t *testing.T) {
	f, err := Compile(`properties.description == "x"`)
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}
	if _, err := f.Match(Input{TypeName: "Asset"}); err == nil {
		t.Error("Match() on missing property succeeded, want error")
	}
}

func TestMatchEnumRepresentation(t *testing.T) {
	props := &instance.Properties{Values: map[string]instance.PropertyValue{
		"sortOrder":  instance.Enum(2, "DESCENDING"),
		"keyPattern": instance.EnumValue{Ordinal: 3},
	}}
	tests := []struct {
		expr string
		want bool
	}{
		{`properties.sortOrder == "DESCENDING"`, true},
		{`properties.keyPattern == "enum(3)"`, true},
		{`properties.keyPattern == "NATURAL_KEY"`, false},
	}
	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			f, err := Compile(tc.expr)
			if err != nil {
				t.Fatalf("Compile() failed: %v", err)
			}
			got, err := f.Match(Input{TypeName: "RelationalColumn", Properties: props})
			if err != nil {
				t.Fatalf("Match() failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("Match() = %v, want %v", got, tc.want)
			}
		})
	}
}
