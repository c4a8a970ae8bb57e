package declfile

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"typereflect/builder"
	"typereflect/schema"
)

var keywords = map[string]bool{
	"string": true, "number": true, "boolean": true, "object": true,
	"void": true, "undefined": true, "any": true,
}

// File is the decoded form of a descriptor file.
type File struct {
	Imports []Import `yaml:"imports,omitempty"`
	Decls   []Decl   `yaml:"decls,omitempty"`
}

// Import brings names of another descriptor into scope.
type Import struct {
	From  string       `yaml:"from"`
	Names []ImportName `yaml:"names"`
}

// ImportName is written either as a bare name or as {name, as}.
type ImportName builder.ImportSpec

// UnmarshalYAML implements custom YAML unmarshaling for ImportName.
func (n *ImportName) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		n.Name, n.As = node.Value, ""
		return nil

	case yaml.MappingNode:
		var raw struct {
			Name string `yaml:"name"`
			As   string `yaml:"as"`
		}

		if err := node.Decode(&raw); err != nil {
			return err
		}

		if raw.Name == "" {
			return fmt.Errorf("line %d: import without a name", node.Line)
		}

		n.Name, n.As = raw.Name, raw.As

		return nil

	default:
		return fmt.Errorf("line %d: expected name or {name, as}, got %v", node.Line, node.Kind)
	}
}

// body holds the attributes shared by every declaration form.
type body struct {
	Exported bool        `yaml:"exported"`
	Comment  string      `yaml:"comment"`
	Extends  []TypeExpr  `yaml:"extends"`
	Props    []propDoc   `yaml:"props"`
	Methods  []methodDoc `yaml:"methods"`
	Params   []paramDoc  `yaml:"params"`
	Results  []TypeExpr  `yaml:"results"`
	Type     TypeExpr    `yaml:"type"`
}

type propDoc struct {
	Name     string   `yaml:"name"`
	Type     TypeExpr `yaml:"type"`
	Optional bool     `yaml:"optional"`
	Access   string   `yaml:"access"`
	Comment  string   `yaml:"comment"`
}

type methodDoc struct {
	Name     string     `yaml:"name"`
	Optional bool       `yaml:"optional"`
	Access   string     `yaml:"access"`
	Comment  string     `yaml:"comment"`
	Params   []paramDoc `yaml:"params"`
	Results  []TypeExpr `yaml:"results"`
}

type paramDoc struct {
	Name string   `yaml:"name"`
	Type TypeExpr `yaml:"type"`
	Rest bool     `yaml:"rest"`
}

// Decl is one top-level declaration. The first key of the mapping selects
// the form (struct, interface, class, func or alias) and holds the name.
// Unknown forms decode to builder.Unsupported.
type Decl struct {
	Node builder.Node
}

// UnmarshalYAML implements custom YAML unmarshaling for Decl.
func (d *Decl) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode || len(node.Content) < 2 {
		return fmt.Errorf("line %d: expected a declaration mapping", node.Line)
	}

	form, name := node.Content[0].Value, node.Content[1].Value

	var b body
	if err := node.Decode(&b); err != nil {
		return fmt.Errorf("line %d: invalid %s %s: %w", node.Line, form, name, err)
	}

	switch form {
	case "struct", "interface", "class":
		s := b.structNode()
		s.Name, s.Exported, s.Comment = name, b.Exported, b.Comment
		d.Node = s

	case "func":
		fn := funcNode(b.Params, b.Results)
		fn.Name, fn.Exported, fn.Comment = name, b.Exported, b.Comment
		d.Node = fn

	case "alias":
		if b.Type.Node == nil {
			return fmt.Errorf("line %d: alias %s has no type", node.Line, name)
		}

		d.Node = &builder.Alias{Name: name, Exported: b.Exported, Type: b.Type.Node, Comment: b.Comment}

	default:
		d.Node = &builder.Unsupported{Kind: form, Name: name}
	}

	return nil
}

func (b *body) structNode() *builder.Struct {
	s := &builder.Struct{}

	for _, e := range b.Extends {
		s.Extends = append(s.Extends, e.Node)
	}

	for _, p := range b.Props {
		s.Props = append(s.Props, builder.Prop{
			Name:     p.Name,
			Type:     p.Type.Node,
			Optional: p.Optional,
			Access:   schema.Visibility(p.Access),
			Comment:  p.Comment,
		})
	}

	for _, m := range b.Methods {
		s.Methods = append(s.Methods, builder.Method{
			Name:      m.Name,
			Optional:  m.Optional,
			Access:    schema.Visibility(m.Access),
			Signature: funcNode(m.Params, m.Results),
			Comment:   m.Comment,
		})
	}

	return s
}

func funcNode(params []paramDoc, results []TypeExpr) *builder.Func {
	fn := &builder.Func{}

	for _, p := range params {
		fn.Params = append(fn.Params, builder.Param{Name: p.Name, Type: p.Type.Node, Rest: p.Rest})
	}

	for _, r := range results {
		fn.Results = append(fn.Results, r.Node)
	}

	return fn
}

// TypeExpr is a type expression.
type TypeExpr struct {
	Node builder.Node
}

// UnmarshalYAML implements custom YAML unmarshaling for TypeExpr.
func (t *TypeExpr) UnmarshalYAML(node *yaml.Node) error {
	n, err := parseType(node)
	if err != nil {
		return err
	}

	t.Node = n

	return nil
}

func parseType(node *yaml.Node) (builder.Node, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return parseScalar(node), nil

	case yaml.MappingNode:
		if len(node.Content) == 0 {
			return nil, fmt.Errorf("line %d: empty type expression", node.Line)
		}

		return parseCompound(node)

	default:
		return nil, fmt.Errorf("line %d: expected type name or mapping, got %v", node.Line, node.Kind)
	}
}

func parseScalar(node *yaml.Node) builder.Node {
	if node.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
		return &builder.Literal{Text: fmt.Sprintf("%q", node.Value)}
	}

	switch node.ShortTag() {
	case "!!null":
		return &builder.Literal{Text: "null"}
	case "!!bool", "!!int", "!!float":
		return &builder.Literal{Text: node.Value}
	}

	if keywords[node.Value] {
		return &builder.Keyword{Name: node.Value}
	}

	return &builder.Ref{Name: node.Value}
}

// parseCompound decodes a mapping whose first key selects the form.
func parseCompound(node *yaml.Node) (builder.Node, error) {
	key, val := node.Content[0].Value, node.Content[1]

	switch key {
	case "array":
		elem, err := parseType(val)
		if err != nil {
			return nil, err
		}

		a := &builder.Array{Elem: elem}
		if err := optionalInt(node, "len", &a.Len); err != nil {
			return nil, err
		}

		return a, nil

	case "map":
		kv, err := parseList(val)
		if err != nil {
			return nil, err
		}

		if len(kv) != 2 {
			return nil, fmt.Errorf("line %d: map expects [key, value]", val.Line)
		}

		return &builder.Map{Key: kv[0], Elem: kv[1]}, nil

	case "union", "intersection":
		members, err := parseList(val)
		if err != nil {
			return nil, err
		}

		if key == "union" {
			return &builder.Union{Types: members}, nil
		}

		return &builder.Intersection{Types: members}, nil

	case "ref":
		r := &builder.Ref{Name: val.Value}

		for i := 2; i+1 < len(node.Content); i += 2 {
			switch node.Content[i].Value {
			case "from":
				r.From = node.Content[i+1].Value
			case "args":
				args, err := parseList(node.Content[i+1])
				if err != nil {
					return nil, err
				}

				r.Args = args
			}
		}

		return r, nil

	case "ident":
		return &builder.Ident{Name: val.Value}, nil

	case "literal":
		return &builder.Literal{Text: val.Value}, nil

	case "struct", "func":
		var b body
		if err := val.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: invalid %s literal: %w", val.Line, key, err)
		}

		if key == "struct" {
			return b.structNode(), nil
		}

		return funcNode(b.Params, b.Results), nil

	default:
		return &builder.Unsupported{Kind: key}, nil
	}
}

func parseList(node *yaml.Node) ([]builder.Node, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a list of types", node.Line)
	}

	out := make([]builder.Node, 0, len(node.Content))

	for _, item := range node.Content {
		n, err := parseType(item)
		if err != nil {
			return nil, err
		}

		out = append(out, n)
	}

	return out, nil
}

func optionalInt(node *yaml.Node, key string, dst *int) error {
	for i := 2; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != key {
			continue
		}

		if err := node.Content[i+1].Decode(dst); err != nil {
			return fmt.Errorf("line %d: invalid %s: %w", node.Content[i+1].Line, key, err)
		}

		return nil
	}

	return nil
}
