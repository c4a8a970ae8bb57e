package schema

// Kind represents the kind of a type.
type Kind string

const (
	KindStruct       Kind = "struct"
	KindFunction     Kind = "function"
	KindArray        Kind = "array"
	KindMap          Kind = "map"
	KindUnion        Kind = "union"
	KindIntersection Kind = "intersection"
	KindAlias        Kind = "alias"
	KindType         Kind = "type" // builtin or literal
	KindRef          Kind = "ref"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindStruct, KindFunction, KindArray, KindMap, KindUnion,
		KindIntersection, KindAlias, KindType, KindRef:
		return true
	default:
		return false
	}
}

// String returns the kind name.
func (k Kind) String() string {
	return string(k)
}

// Visibility is the export state of a Type or the access modifier of a Field.
type Visibility string

const (
	VisibilityNone      Visibility = ""
	VisibilityExported  Visibility = "exported"
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
	VisibilityReadonly  Visibility = "readonly"
)

// Origin sentinels used as PkgPath for types that do not come from a unit.
const (
	OriginInternal = "<internal>"
	OriginUnknown  = "<unknown>"
	OriginRef      = "<ref>"
	OriginInferred = "<inferred>"
)

// AnonymousName is assigned to unnamed types when they need an FQN.
const AnonymousName = "Anonymous"

// IsSentinel reports whether pkgPath is one of the origin sentinels.
func IsSentinel(pkgPath string) bool {
	switch pkgPath {
	case OriginInternal, OriginUnknown, OriginRef, OriginInferred:
		return true
	default:
		return false
	}
}

// Type describes a node in the type graph.
//
// A Type with only Ref set is a placeholder standing in for the Type
// registered under that FQN.
type Type struct {
	Ref        string     `json:"$type,omitempty" yaml:"$type,omitempty" msgpack:"$type,omitempty"`
	Name       string     `json:"Name,omitempty" yaml:"Name,omitempty" msgpack:"Name,omitempty"`
	PkgPath    string     `json:"PkgPath,omitempty" yaml:"PkgPath,omitempty" msgpack:"PkgPath,omitempty"`
	Kind       Kind       `json:"Kind,omitempty" yaml:"Kind,omitempty" msgpack:"Kind,omitempty"`
	Fields     []Field    `json:"Fields,omitempty" yaml:"Fields,omitempty" msgpack:"Fields,omitempty"`
	Methods    []Field    `json:"Methods,omitempty" yaml:"Methods,omitempty" msgpack:"Methods,omitempty"`
	Extends    []*Type    `json:"Extends,omitempty" yaml:"Extends,omitempty" msgpack:"Extends,omitempty"`
	IsVariadic bool       `json:"IsVariadic,omitempty" yaml:"IsVariadic,omitempty" msgpack:"IsVariadic,omitempty"`
	Ins        []Argument `json:"Ins,omitempty" yaml:"Ins,omitempty" msgpack:"Ins,omitempty"`
	Outs       []*Type    `json:"Outs,omitempty" yaml:"Outs,omitempty" msgpack:"Outs,omitempty"`
	Key        *Type      `json:"Key,omitempty" yaml:"Key,omitempty" msgpack:"Key,omitempty"`
	Len        int        `json:"Len,omitempty" yaml:"Len,omitempty" msgpack:"Len,omitempty"`
	Elem       *Type      `json:"Elem,omitempty" yaml:"Elem,omitempty" msgpack:"Elem,omitempty"`
	Types      []*Type    `json:"Types,omitempty" yaml:"Types,omitempty" msgpack:"Types,omitempty"`
	Visibility Visibility `json:"Visibility,omitempty" yaml:"Visibility,omitempty" msgpack:"Visibility,omitempty"`
	Comment    string     `json:"Comment,omitempty" yaml:"Comment,omitempty" msgpack:"Comment,omitempty"`
}

// Field describes a struct property or method.
type Field struct {
	Name       string     `json:"Name,omitempty" yaml:"Name,omitempty" msgpack:"Name,omitempty"`
	Type       *Type      `json:"Type,omitempty" yaml:"Type,omitempty" msgpack:"Type,omitempty"`
	Optional   bool       `json:"Optional,omitempty" yaml:"Optional,omitempty" msgpack:"Optional,omitempty"`
	Anonymous  bool       `json:"Anonymous,omitempty" yaml:"Anonymous,omitempty" msgpack:"Anonymous,omitempty"`
	Visibility Visibility `json:"Visibility,omitempty" yaml:"Visibility,omitempty" msgpack:"Visibility,omitempty"`
	// Self is the struct owning a method. It does not own the struct.
	Self    *Type  `json:"Self,omitempty" yaml:"Self,omitempty" msgpack:"Self,omitempty"`
	Comment string `json:"Comment,omitempty" yaml:"Comment,omitempty" msgpack:"Comment,omitempty"`
}

// Argument describes a function parameter.
type Argument struct {
	Name    string `json:"Name,omitempty" yaml:"Name,omitempty" msgpack:"Name,omitempty"`
	Type    *Type  `json:"Type,omitempty" yaml:"Type,omitempty" msgpack:"Type,omitempty"`
	Comment string `json:"Comment,omitempty" yaml:"Comment,omitempty" msgpack:"Comment,omitempty"`
}

// Placeholder returns a placeholder referencing fqn.
func Placeholder(fqn string) *Type {
	return &Type{Ref: fqn}
}

// IsPlaceholder returns true if t stands in for another Type.
func (t *Type) IsPlaceholder() bool {
	return t != nil && t.Ref != ""
}

// IsNamed returns true if the type has a name.
func (t *Type) IsNamed() bool {
	return t.Name != ""
}

// IsBuiltin returns true if t is the builtin or literal type with the given name.
func (t *Type) IsBuiltin(name string) bool {
	return t != nil && t.Kind == KindType && t.PkgPath == OriginInternal && t.Name == name
}

// FQN returns the fully-qualified name of the type.
func (t *Type) FQN() string {
	if t.IsPlaceholder() {
		return t.Ref
	}

	return ToFQN(t.Name, t.PkgPath)
}

// Method returns the method with the given name, or nil.
func (t *Type) Method(name string) *Field {
	for i := range t.Methods {
		if t.Methods[i].Name == name {
			return &t.Methods[i]
		}
	}

	return nil
}

// Field returns the field with the given name, or nil.
func (t *Type) Field(name string) *Field {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i]
		}
	}

	return nil
}

// shallowClone copies t. Slices are copied so the clone can be rewritten
// without touching the original.
func (t *Type) shallowClone() *Type {
	c := *t
	c.Fields = append([]Field(nil), t.Fields...)
	c.Methods = append([]Field(nil), t.Methods...)
	c.Extends = append([]*Type(nil), t.Extends...)
	c.Ins = append([]Argument(nil), t.Ins...)
	c.Outs = append([]*Type(nil), t.Outs...)
	c.Types = append([]*Type(nil), t.Types...)

	return &c
}
