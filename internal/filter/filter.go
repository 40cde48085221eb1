// Package filter selects the archive instances a command works on, using CEL expressions such as
//
//	typeName == "RelationalColumn" && properties.qualifiedName.startsWith("db.sales.")
//
// The following variables are available in expressions:
//
//	guid        string
//	typeName    string
//	superTypes  list(string), nearest first
//	kind        string, the kind the instance is decoded as ("" if none)
//	status      string
//	properties  map(string, dyn)
//
// Enum properties are represented by the symbolic name stored with the value, or by
// "enum(<ordinal>)" for values stored without one. Dates are timestamps.
package filter

import (
	"fmt"

	"github.com/dnswlt/metamap/internal/instance"
	"github.com/dnswlt/metamap/internal/typedef"
	"github.com/google/cel-go/cel"
)

// Filter is a compiled filter expression. It is safe for concurrent use.
// A nil *Filter matches everything.
type Filter struct {
	expr string
	prg  cel.Program
}

// Input holds the values of an instance that expressions can refer to.
type Input struct {
	GUID       string
	TypeName   string
	SuperTypes []string
	Kind       string
	Status     string
	Properties *instance.Properties
}

func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("guid", cel.StringType),
		cel.Variable("typeName", cel.StringType),
		cel.Variable("superTypes", cel.ListType(cel.StringType)),
		cel.Variable("kind", cel.StringType),
		cel.Variable("status", cel.StringType),
		cel.Variable("properties", cel.MapType(cel.StringType, cel.DynType)),
	)
}

// Compile parses and type-checks expr, which must evaluate to a bool.
// An empty expr yields a nil filter.
func Compile(expr string) (*Filter, error) {
	if expr == "" {
		return nil, nil
	}
	env, err := newEnv()
	if err != nil {
		return nil, fmt.Errorf("cannot create CEL environment: %v", err)
	}
	ast, iss := env.Compile(expr)
	if iss.Err() != nil {
		return nil, fmt.Errorf("invalid filter %q: %v", expr, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("invalid filter %q: result type is %s, not bool", expr, ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %v", expr, err)
	}
	return &Filter{expr: expr, prg: prg}, nil
}

func (f *Filter) String() string {
	if f == nil {
		return "true"
	}
	return f.expr
}

// Match evaluates the filter for in. Expressions that fail at runtime, for example
// because they access a property the instance does not have, are errors.
func (f *Filter) Match(in Input) (bool, error) {
	if f == nil {
		return true, nil
	}
	superTypes := in.SuperTypes
	if superTypes == nil {
		superTypes = []string{}
	}
	out, _, err := f.prg.Eval(map[string]any{
		"guid":       in.GUID,
		"typeName":   in.TypeName,
		"superTypes": superTypes,
		"kind":       in.Kind,
		"status":     in.Status,
		"properties": properties(in.Properties),
	})
	if err != nil {
		return false, fmt.Errorf("filter %q: %v", f.expr, err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("filter %q: result %v is not a bool", f.expr, out.Value())
	}
	return b, nil
}

// MatchEntity evaluates the filter for entity e decoded as kind.
// Supertypes come from types if it knows the entity's type, and from the entity's header otherwise.
func (f *Filter) MatchEntity(types *typedef.Registry, kind string, e *instance.Entity) (bool, error) {
	if f == nil {
		return true, nil
	}
	in := Input{
		GUID:       e.GUID,
		TypeName:   e.TypeName(),
		Kind:       kind,
		Status:     e.Status,
		Properties: e.Properties,
	}
	if types.Known(in.TypeName) {
		in.SuperTypes = types.SuperTypes(in.TypeName)
	} else if e.Type != nil {
		in.SuperTypes = e.Type.SuperTypes
	}
	return f.Match(in)
}

func properties(p *instance.Properties) map[string]any {
	m := make(map[string]any)
	if p == nil {
		return m
	}
	for k, v := range p.Values {
		m[k] = value(v)
	}
	return m
}

// value converts v into a value the CEL runtime understands.
func value(v instance.PropertyValue) any {
	switch x := v.(type) {
	case instance.EnumValue:
		return x.String()
	case instance.MapValue:
		return properties(x.Properties)
	case instance.ArrayValue:
		vs := make([]any, len(x.Values))
		for i, e := range x.Values {
			vs[i] = value(e)
		}
		return vs
	case instance.PrimitiveValue:
		switch y := x.Value.(type) {
		case int:
			return int64(y)
		case float32:
			return float64(y)
		}
		return x.Value
	}
	return nil
}
