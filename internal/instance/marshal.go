package instance

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Keys of the single-entry mappings used to spell out typed values in YAML, e.g.
//
//	position: {int: 3}
//	sortOrder: {enum: {ordinal: 1, symbolicName: ASCENDING}}
//	aliases: {array: [a, b]}
//
// Plain scalars are also accepted and typed by their YAML tag.
const (
	yamlKeyEnum  = "enum"
	yamlKeyMap   = "map"
	yamlKeyArray = "array"
)

// UnmarshalYAML implements the yaml.Unmarshaler interface for property bags.
func (p *Properties) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: properties must be a map, got %s", node.Line, node.ShortTag())
	}
	p.Values = make(map[string]PropertyValue, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		if _, dup := p.Values[name]; dup {
			return fmt.Errorf("line %d: duplicate property %q", node.Content[i].Line, name)
		}
		v, err := decodeValue(node.Content[i+1])
		if err != nil {
			return fmt.Errorf("property %q: %w", name, err)
		}
		p.Values[name] = v
	}
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface for property bags.
// Properties are written in lexicographical order.
func (p *Properties) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range p.Names() {
		v, err := encodeValue(p.Values[name])
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: name},
			v,
		)
	}
	return node, nil
}

func decodeValue(n *yaml.Node) (PropertyValue, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return decodeScalar(n)
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return nil, fmt.Errorf("line %d: typed value must have exactly one key", n.Line)
		}
		return decodeTyped(n.Content[0].Value, n.Content[1])
	case yaml.AliasNode:
		return decodeValue(n.Alias)
	}
	return nil, fmt.Errorf("line %d: unsupported property value", n.Line)
}

func decodeScalar(n *yaml.Node) (PropertyValue, error) {
	switch n.ShortTag() {
	case "!!str":
		return String(n.Value), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, err
		}
		if i >= math.MinInt32 && i <= math.MaxInt32 {
			return Int(int(i)), nil
		}
		return Long(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return Double(f), nil
	case "!!timestamp":
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return nil, err
		}
		return Date(t), nil
	}
	return nil, fmt.Errorf("line %d: unsupported scalar %s", n.Line, n.ShortTag())
}

func decodeTyped(key string, n *yaml.Node) (PropertyValue, error) {
	switch key {
	case string(PrimitiveString):
		var s string
		err := n.Decode(&s)
		return String(s), err
	case string(PrimitiveInt):
		var i int32
		err := n.Decode(&i)
		return Int(int(i)), err
	case string(PrimitiveLong):
		var i int64
		err := n.Decode(&i)
		return Long(i), err
	case string(PrimitiveFloat):
		var f float32
		err := n.Decode(&f)
		return Float(f), err
	case string(PrimitiveDouble):
		var f float64
		err := n.Decode(&f)
		return Double(f), err
	case string(PrimitiveBoolean):
		var b bool
		err := n.Decode(&b)
		return Bool(b), err
	case string(PrimitiveDate):
		var s string
		if err := n.Decode(&s); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid date: %w", n.Line, err)
		}
		return Date(t), nil
	case yamlKeyEnum:
		return decodeEnum(n)
	case yamlKeyMap:
		props := NewProperties()
		if err := props.UnmarshalYAML(n); err != nil {
			return nil, err
		}
		return MapValue{Properties: props}, nil
	case yamlKeyArray:
		if n.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("line %d: array value must be a sequence", n.Line)
		}
		vs := make([]PropertyValue, len(n.Content))
		for i, c := range n.Content {
			v, err := decodeValue(c)
			if err != nil {
				return nil, fmt.Errorf("array element %d: %w", i, err)
			}
			vs[i] = v
		}
		return ArrayValue{Values: vs}, nil
	}
	return nil, fmt.Errorf("line %d: unknown value type %q", n.Line, key)
}

func decodeEnum(n *yaml.Node) (PropertyValue, error) {
	if n.Kind == yaml.ScalarNode {
		ordinal, err := strconv.Atoi(n.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: enum ordinal must be an integer: %v", n.Line, err)
		}
		return EnumValue{Ordinal: ordinal}, nil
	}
	var e struct {
		Ordinal      *int   `yaml:"ordinal"`
		SymbolicName string `yaml:"symbolicName"`
		Description  string `yaml:"description"`
	}
	if err := decodeStrict(n, &e); err != nil {
		return nil, err
	}
	if e.Ordinal == nil {
		return nil, fmt.Errorf("line %d: enum value without ordinal", n.Line)
	}
	return EnumValue{Ordinal: *e.Ordinal, SymbolicName: e.SymbolicName, Description: e.Description}, nil
}

func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func typedNode(key string, value *yaml.Node) *yaml.Node {
	return &yaml.Node{
		Kind:    yaml.MappingNode,
		Style:   yaml.FlowStyle,
		Content: []*yaml.Node{scalarNode("!!str", key), value},
	}
}

func encodeValue(v PropertyValue) (*yaml.Node, error) {
	switch x := v.(type) {
	case PrimitiveValue:
		return encodePrimitive(x)
	case EnumValue:
		e := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
		e.Content = append(e.Content,
			scalarNode("!!str", "ordinal"), scalarNode("!!int", strconv.Itoa(x.Ordinal)))
		if x.SymbolicName != "" {
			e.Content = append(e.Content,
				scalarNode("!!str", "symbolicName"), scalarNode("!!str", x.SymbolicName))
		}
		return typedNode(yamlKeyEnum, e), nil
	case MapValue:
		m, err := x.Properties.MarshalYAML()
		if err != nil {
			return nil, err
		}
		return typedNode(yamlKeyMap, m.(*yaml.Node)), nil
	case ArrayValue:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for i, e := range x.Values {
			c, err := encodeValue(e)
			if err != nil {
				return nil, fmt.Errorf("array element %d: %w", i, err)
			}
			seq.Content = append(seq.Content, c)
		}
		return typedNode(yamlKeyArray, seq), nil
	}
	return nil, fmt.Errorf("unsupported property value %T", v)
}

func encodePrimitive(v PrimitiveValue) (*yaml.Node, error) {
	switch x := v.Value.(type) {
	case string:
		return scalarNode("!!str", x), nil
	case bool:
		return scalarNode("!!bool", strconv.FormatBool(x)), nil
	case int:
		if v.Kind == PrimitiveInt {
			return scalarNode("!!int", strconv.Itoa(x)), nil
		}
	case int64:
		return typedNode(string(PrimitiveLong), scalarNode("!!int", strconv.FormatInt(x, 10))), nil
	case float32:
		return typedNode(string(PrimitiveFloat), scalarNode("!!float", strconv.FormatFloat(float64(x), 'g', -1, 32))), nil
	case float64:
		return typedNode(string(PrimitiveDouble), scalarNode("!!float", strconv.FormatFloat(x, 'g', -1, 64))), nil
	case time.Time:
		return typedNode(string(PrimitiveDate), scalarNode("!!str", x.Format(time.RFC3339Nano))), nil
	}
	return nil, fmt.Errorf("primitive %s has unexpected value type %T", v.Kind, v.Value)
}
