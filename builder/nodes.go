package builder

import (
	"typereflect/schema"
)

// Node is a declaration or type descriptor produced by a front-end.
// The set of node kinds is closed.
type Node interface {
	node()
}

// Struct describes a class, interface or object literal.
// An empty Name marks an anonymous literal.
type Struct struct {
	Name     string
	Exported bool
	Comment  string
	Props    []Prop
	Methods  []Method
	// Extends holds heritage references, usually *Ref.
	Extends []Node
}

// Prop is a struct property.
type Prop struct {
	Name     string
	Type     Node
	Optional bool
	Access   schema.Visibility
	Comment  string
}

// Method is a struct method.
type Method struct {
	Name      string
	Optional  bool
	Access    schema.Visibility
	Signature *Func
	Comment   string
}

// Func describes a function declaration or a function type.
type Func struct {
	Name     string
	Exported bool
	Params   []Param
	Results  []Node
	Comment  string
}

// Param is a function parameter. Rest marks a trailing variadic parameter.
type Param struct {
	Name string
	Type Node
	Rest bool
}

// Alias declares Name as another type.
type Alias struct {
	Name     string
	Exported bool
	Type     Node
	Comment  string
}

// Union lists the alternatives of a union type.
type Union struct {
	Types []Node
}

// Intersection lists the members of an intersection type.
type Intersection struct {
	Types []Node
}

// Array is a list type. Len is set for fixed-size arrays.
type Array struct {
	Elem Node
	Len  int
}

// Map is a keyed collection type.
type Map struct {
	Key  Node
	Elem Node
}

// Keyword is a builtin type such as string or number.
type Keyword struct {
	Name string
}

// Literal is a literal type token such as null, true or "red".
type Literal struct {
	Text string
}

// Ref references a named type. From names the unit declaring it when the
// type lives elsewhere; Args holds generic arguments. A Ref with an empty
// Name refers to the alias being declared.
type Ref struct {
	Name string
	From string
	Args []Node
}

// Ident references a name in scope without generic arguments.
type Ident struct {
	Name string
}

// Import brings names declared in another unit into scope.
type Import struct {
	From  string
	Names []ImportSpec
}

// ImportSpec is one imported name, optionally renamed.
type ImportSpec struct {
	Name string
	As   string
}

// Local returns the name the import is visible under.
func (s ImportSpec) Local() string {
	if s.As != "" {
		return s.As
	}

	return s.Name
}

// Unsupported stands for a construct the front-end recognized but the type
// graph cannot model.
type Unsupported struct {
	Kind string
	Name string
}

func (*Struct) node()       {}
func (*Func) node()         {}
func (*Alias) node()        {}
func (*Union) node()        {}
func (*Intersection) node() {}
func (*Array) node()        {}
func (*Map) node()          {}
func (*Keyword) node()      {}
func (*Literal) node()      {}
func (*Ref) node()          {}
func (*Ident) node()        {}
func (*Import) node()       {}
func (*Unsupported) node()  {}

// DeclName returns the declared name of a top-level node, or "".
func DeclName(n Node) string {
	switch d := n.(type) {
	case *Struct:
		return d.Name
	case *Func:
		return d.Name
	case *Alias:
		return d.Name
	default:
		return ""
	}
}

// KindName returns a short name for the node kind, used in diagnostics.
func KindName(n Node) string {
	switch d := n.(type) {
	case nil:
		return "nil"
	case *Struct:
		return "struct"
	case *Func:
		return "func"
	case *Alias:
		return "alias"
	case *Union:
		return "union"
	case *Intersection:
		return "intersection"
	case *Array:
		return "array"
	case *Map:
		return "map"
	case *Keyword:
		return "keyword"
	case *Literal:
		return "literal"
	case *Ref:
		return "ref"
	case *Ident:
		return "ident"
	case *Import:
		return "import"
	case *Unsupported:
		if d.Kind != "" {
			return d.Kind
		}

		return "unsupported"
	default:
		return "unknown"
	}
}
