package gosrc

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"reflect"
	"strings"

	"golang.org/x/tools/go/packages"

	"typereflect/builder"
	"typereflect/schema"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Load loads the packages matching patterns from dir and converts every
// source file into a unit. Unit paths are file paths relative to dir,
// separated by forward slashes.
func Load(dir string, patterns ...string) (builder.StaticFrontend, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory %s: %w", dir, err)
	}

	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  root,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	c := &converter{
		root:  root,
		files: make(map[*types.TypeName]string),
	}

	for _, pkg := range pkgs {
		c.index(pkg)
	}

	var units []*builder.Unit
	for _, pkg := range pkgs {
		units = append(units, c.convert(pkg)...)
	}

	return builder.NewStaticFrontend(units...), nil
}

// converter turns type-checked files into declaration nodes.
type converter struct {
	root string
	// files maps every package-level type name of the load set to the
	// unit declaring it.
	files map[*types.TypeName]string
	// unit is the path of the file being converted.
	unit string
}

func (c *converter) unitPath(pkg *packages.Package, f *ast.File) string {
	name := pkg.Fset.File(f.Pos()).Name()

	rel, err := filepath.Rel(c.root, name)
	if err != nil {
		return filepath.ToSlash(name)
	}

	return filepath.ToSlash(rel)
}

func (c *converter) index(pkg *packages.Package) {
	for _, f := range pkg.Syntax {
		unit := c.unitPath(pkg, f)

		for _, decl := range f.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}

			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				if obj, ok := pkg.TypesInfo.Defs[ts.Name].(*types.TypeName); ok {
					c.files[obj] = unit
				}
			}
		}
	}
}

func (c *converter) convert(pkg *packages.Package) []*builder.Unit {
	units := make([]*builder.Unit, 0, len(pkg.Syntax))

	for _, f := range pkg.Syntax {
		c.unit = c.unitPath(pkg, f)
		u := &builder.Unit{Path: c.unit}

		for _, decl := range f.Decls {
			switch d := decl.(type) {
			case *ast.GenDecl:
				if d.Tok != token.TYPE {
					continue
				}

				for _, spec := range d.Specs {
					ts := spec.(*ast.TypeSpec)

					obj, ok := pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
					if !ok {
						continue
					}

					doc := ts.Doc
					if doc == nil && !d.Lparen.IsValid() {
						doc = d.Doc
					}

					u.Decls = append(u.Decls, c.typeDecl(obj, commentText(doc)))
				}

			case *ast.FuncDecl:
				if d.Recv != nil || d.Name.Name == "init" || d.Name.Name == "_" {
					continue
				}

				obj, ok := pkg.TypesInfo.Defs[d.Name].(*types.Func)
				if !ok {
					continue
				}

				fn := c.signature(obj.Type().(*types.Signature))
				fn.Name = obj.Name()
				fn.Exported = obj.Exported()
				fn.Comment = commentText(d.Doc)
				u.Decls = append(u.Decls, fn)
			}
		}

		units = append(units, u)
	}

	return units
}

// typeDecl converts a package-level type declaration.
func (c *converter) typeDecl(obj *types.TypeName, comment string) builder.Node {
	name, exported := obj.Name(), obj.Exported()

	named, ok := obj.Type().(*types.Named)
	if obj.IsAlias() || !ok {
		return &builder.Alias{Name: name, Exported: exported, Type: c.typeNode(types.Unalias(obj.Type())), Comment: comment}
	}

	switch u := named.Underlying().(type) {
	case *types.Struct:
		s := c.structNode(u)
		s.Name, s.Exported, s.Comment = name, exported, comment
		s.Methods = c.methods(named)

		return s

	case *types.Interface:
		if u.NumMethods() == 0 {
			if set := c.typeSet(u); set != nil {
				return &builder.Alias{Name: name, Exported: exported, Type: set, Comment: comment}
			}
		}

		s := c.interfaceNode(u)
		s.Name, s.Exported, s.Comment = name, exported, comment

		return s

	case *types.Chan:
		return &builder.Unsupported{Kind: "chan", Name: name}

	default:
		return &builder.Alias{Name: name, Exported: exported, Type: c.typeNode(u), Comment: comment}
	}
}

func (c *converter) structNode(st *types.Struct) *builder.Struct {
	s := &builder.Struct{}

	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)

		if f.Embedded() {
			s.Extends = append(s.Extends, c.typeNode(deref(f.Type())))
			continue
		}

		s.Props = append(s.Props, builder.Prop{
			Name:     f.Name(),
			Type:     c.typeNode(f.Type()),
			Optional: optional(f, st.Tag(i)),
			Access:   access(f.Exported()),
		})
	}

	return s
}

func (c *converter) interfaceNode(it *types.Interface) *builder.Struct {
	s := &builder.Struct{}

	for i := 0; i < it.NumEmbeddeds(); i++ {
		if e, ok := it.EmbeddedType(i).(*types.Named); ok {
			s.Extends = append(s.Extends, c.typeNode(e))
		}
	}

	for i := 0; i < it.NumExplicitMethods(); i++ {
		m := it.ExplicitMethod(i)
		s.Methods = append(s.Methods, builder.Method{
			Name:      m.Name(),
			Access:    access(m.Exported()),
			Signature: c.signature(m.Type().(*types.Signature)),
		})
	}

	return s
}

// typeSet returns the union of a constraint interface's terms, or nil when
// the interface embeds no union.
func (c *converter) typeSet(it *types.Interface) builder.Node {
	for i := 0; i < it.NumEmbeddeds(); i++ {
		if u, ok := it.EmbeddedType(i).(*types.Union); ok {
			return c.typeNode(u)
		}
	}

	return nil
}

func (c *converter) methods(named *types.Named) []builder.Method {
	out := make([]builder.Method, 0, named.NumMethods())

	for i := 0; i < named.NumMethods(); i++ {
		m := named.Method(i)
		out = append(out, builder.Method{
			Name:      m.Name(),
			Access:    access(m.Exported()),
			Signature: c.signature(m.Type().(*types.Signature)),
		})
	}

	return out
}

func (c *converter) signature(sig *types.Signature) *builder.Func {
	fn := &builder.Func{}

	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		v := params.At(i)
		fn.Params = append(fn.Params, builder.Param{
			Name: v.Name(),
			Type: c.typeNode(v.Type()),
			Rest: sig.Variadic() && i == params.Len()-1,
		})
	}

	results := sig.Results()
	for i := 0; i < results.Len(); i++ {
		fn.Results = append(fn.Results, c.typeNode(results.At(i).Type()))
	}

	return fn
}

// typeNode converts a type expression.
func (c *converter) typeNode(t types.Type) builder.Node {
	switch t := t.(type) {
	case *types.Alias:
		obj := t.Obj()
		if obj.Pkg() == nil && obj.Name() == "any" {
			return &builder.Keyword{Name: "any"}
		}

		if _, ok := c.files[obj]; ok {
			return c.named(obj)
		}

		return c.typeNode(types.Unalias(t))

	case *types.Named:
		return c.named(t.Obj())

	case *types.Basic:
		return basic(t)

	case *types.Pointer:
		return c.typeNode(t.Elem())

	case *types.Slice:
		return &builder.Array{Elem: c.typeNode(t.Elem())}

	case *types.Array:
		return &builder.Array{Elem: c.typeNode(t.Elem()), Len: int(t.Len())}

	case *types.Map:
		return &builder.Map{Key: c.typeNode(t.Key()), Elem: c.typeNode(t.Elem())}

	case *types.Struct:
		return c.structNode(t)

	case *types.Interface:
		if t.Empty() {
			return &builder.Keyword{Name: "any"}
		}

		return c.interfaceNode(t)

	case *types.Signature:
		return c.signature(t)

	case *types.Union:
		u := &builder.Union{}
		for i := 0; i < t.Len(); i++ {
			u.Types = append(u.Types, c.typeNode(t.Term(i).Type()))
		}

		return u

	case *types.TypeParam:
		return &builder.Ref{Name: t.Obj().Name()}

	case *types.Chan:
		return &builder.Unsupported{Kind: "chan"}

	default:
		return &builder.Unsupported{Kind: fmt.Sprintf("%T", t)}
	}
}

// named references a declared type: by name inside its own unit, through
// the declaring unit inside the load set, and as an opaque qualified name
// otherwise.
func (c *converter) named(obj *types.TypeName) builder.Node {
	if obj.Pkg() == nil {
		return &builder.Ref{Name: obj.Name()}
	}

	unit, ok := c.files[obj]
	switch {
	case !ok:
		return &builder.Ref{Name: obj.Pkg().Name() + "." + obj.Name()}
	case unit == c.unit:
		return &builder.Ref{Name: obj.Name()}
	default:
		return &builder.Ref{Name: obj.Name(), From: unit}
	}
}

func basic(b *types.Basic) builder.Node {
	info := b.Info()

	switch {
	case info&types.IsBoolean != 0:
		return &builder.Keyword{Name: "boolean"}
	case info&types.IsString != 0:
		return &builder.Keyword{Name: "string"}
	case info&types.IsNumeric != 0:
		return &builder.Keyword{Name: "number"}
	case b.Kind() == types.UntypedNil:
		return &builder.Literal{Text: "null"}
	case b.Kind() == types.UnsafePointer:
		return &builder.Unsupported{Kind: "unsafe.Pointer"}
	default:
		return &builder.Unsupported{Kind: b.Name()}
	}
}

func deref(t types.Type) types.Type {
	if p, ok := t.(*types.Pointer); ok {
		return p.Elem()
	}

	return t
}

// optional reports whether a field may be absent: pointers and fields
// tagged omitempty or omitzero.
func optional(f *types.Var, tag string) bool {
	if _, ok := f.Type().(*types.Pointer); ok {
		return true
	}

	opts := strings.Split(reflect.StructTag(tag).Get("json"), ",")
	for _, o := range opts[1:] {
		if o == "omitempty" || o == "omitzero" {
			return true
		}
	}

	return false
}

func access(exported bool) schema.Visibility {
	if exported {
		return schema.VisibilityPublic
	}

	return schema.VisibilityPrivate
}

func commentText(cg *ast.CommentGroup) string {
	if cg == nil {
		return ""
	}

	return strings.TrimSpace(cg.Text())
}
