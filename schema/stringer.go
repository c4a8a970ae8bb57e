package schema

import (
	"strconv"
	"strings"
)

// maxStringDepth bounds TypeString on deeply nested anonymous types.
const maxStringDepth = 8

// TypeString returns a human-readable representation of t.
// Named types print as their name; anonymous types print structurally:
//   - "string[]" for arrays
//   - "Record<string, number>" for maps
//   - "A | B" and "A & B" for unions and intersections
//   - "(name: string, ...rest: number[]) => boolean" for functions
func TypeString(t *Type) string {
	return typeString(t, 0)
}

func typeString(t *Type, depth int) string {
	if t == nil {
		return "<nil>"
	}

	if t.IsPlaceholder() {
		return t.Ref
	}

	if t.IsNamed() {
		return t.Name
	}

	if depth >= maxStringDepth {
		return "..."
	}

	switch t.Kind {
	case KindArray:
		elem := typeString(t.Elem, depth+1)
		if t.Len > 0 {
			return elem + "[" + strconv.Itoa(t.Len) + "]"
		}

		return elem + "[]"

	case KindMap:
		return "Record<" + typeString(t.Key, depth+1) + ", " + typeString(t.Elem, depth+1) + ">"

	case KindUnion:
		return joinTypes(t.Types, " | ", depth)

	case KindIntersection:
		return joinTypes(t.Types, " & ", depth)

	case KindAlias:
		return typeString(first(t.Types), depth+1)

	case KindFunction:
		return funcString(t, depth)

	case KindStruct:
		return "{...}"

	default:
		return "<" + t.Kind.String() + ">"
	}
}

func joinTypes(types []*Type, sep string, depth int) string {
	parts := make([]string, 0, len(types))
	for _, m := range types {
		parts = append(parts, typeString(m, depth+1))
	}

	return strings.Join(parts, sep)
}

func funcString(t *Type, depth int) string {
	var b strings.Builder

	b.WriteByte('(')

	for i, in := range t.Ins {
		if i > 0 {
			b.WriteString(", ")
		}

		if i == len(t.Ins)-1 && t.IsVariadic {
			b.WriteString("...")
		}

		b.WriteString(in.Name)
		b.WriteString(": ")
		b.WriteString(typeString(in.Type, depth+1))
	}

	b.WriteString(") => ")

	switch len(t.Outs) {
	case 0:
		b.WriteString("void")
	case 1:
		b.WriteString(typeString(t.Outs[0], depth+1))
	default:
		b.WriteByte('[')
		b.WriteString(joinTypes(t.Outs, ", ", depth))
		b.WriteByte(']')
	}

	return b.String()
}

// FieldPaths returns every field reachable from root keyed by a dotted path
// such as "Guild.Members[].Name". Array elements add "[]" to the path.
// Recursion stops at maxDepth.
func FieldPaths(root *Type, maxDepth int) map[string]*Field {
	out := make(map[string]*Field)
	if root == nil || root.Kind != KindStruct {
		return out
	}

	name := root.Name
	if name == "" {
		name = "root"
	}

	fieldPaths(root, name, out, 0, maxDepth)

	return out
}

func fieldPaths(t *Type, path string, out map[string]*Field, depth, maxDepth int) {
	if t == nil || depth > maxDepth {
		return
	}

	switch t.Kind {
	case KindStruct:
		for i := range t.Fields {
			f := &t.Fields[i]
			p := path + "." + f.Name
			out[p] = f

			fieldPaths(f.Type, p, out, depth+1, maxDepth)
		}

	case KindArray:
		fieldPaths(t.Elem, path+"[]", out, depth, maxDepth)

	case KindAlias:
		fieldPaths(first(t.Types), path, out, depth, maxDepth)
	}
}
