package builder

import (
	"fmt"
	"strings"

	"typereflect/internal/diagnostic"
	"typereflect/internal/match"
	"typereflect/schema"
)

// Builtin type names mapped to <internal> singletons.
var builtinNames = map[string]bool{
	"string":    true,
	"number":    true,
	"boolean":   true,
	"object":    true,
	"void":      true,
	"undefined": true,
	"any":       true,
}

// Literal tokens mapped to <internal> singletons; other literals are <unknown>.
var internalLiterals = map[string]bool{
	"null":  true,
	"true":  true,
	"false": true,
}

const maxSuggestions = 3

// unitBuilder populates the schema of one unit.
type unitBuilder struct {
	ctx    *BuildContext
	path   string
	unit   *Unit
	schema *schema.Schema

	// decls indexes named top-level declarations so they can be built on
	// first reference, ahead of their position in the unit.
	decls map[string]Node
	// declared holds the Type of each declaration built or in progress.
	declared map[string]*schema.Type
	// shells are aliases registered before their target is built.
	shells map[string]*aliasShell
	// imports indexes imported names so they resolve before their Import
	// declaration is processed, which import cycles require.
	imports map[string]importedName
}

type importedName struct {
	unit string
	name string
}

// aliasShell tracks an alias under construction.
type aliasShell struct {
	typ        *schema.Type
	referenced bool
}

func newUnitBuilder(ctx *BuildContext, path string, u *Unit) *unitBuilder {
	b := &unitBuilder{
		ctx:      ctx,
		path:     path,
		unit:     u,
		schema:   schema.New(),
		decls:    make(map[string]Node),
		declared: make(map[string]*schema.Type),
		shells:   make(map[string]*aliasShell),
		imports:  make(map[string]importedName),
	}

	for _, d := range u.Decls {
		if name := DeclName(d); name != "" {
			b.decls[name] = d
		}

		if imp, ok := d.(*Import); ok {
			target := resolvePath(path, imp.From)
			for _, spec := range imp.Names {
				b.imports[spec.Local()] = importedName{unit: target, name: spec.Name}
			}
		}
	}

	return b
}

func (b *unitBuilder) build() {
	for _, d := range b.unit.Decls {
		switch n := d.(type) {
		case *Import:
			b.importDecl(n)

		case *Struct, *Func, *Alias:
			name := DeclName(n)
			if name == "" {
				b.diag(diagnostic.SeverityWarning, diagnostic.CodeUnhandledKind,
					"top-level "+KindName(n)+" has no name", "")

				continue
			}

			t := b.declare(name)
			if t == nil {
				continue
			}

			if exported(n) {
				t.Visibility = schema.VisibilityExported
			}

			b.schema.Put(name, t)

		default:
			b.diag(diagnostic.SeverityWarning, diagnostic.CodeUnhandledKind,
				"unhandled declaration kind "+KindName(d), unsupportedName(d))
		}
	}
}

// declare returns the Type of the named top-level declaration, building it
// on first use.
func (b *unitBuilder) declare(name string) *schema.Type {
	if t, ok := b.declared[name]; ok {
		if shell, ok := b.shells[name]; ok {
			shell.referenced = true
		}

		return t
	}

	d, ok := b.decls[name]
	if !ok {
		return nil
	}

	switch n := d.(type) {
	case *Struct:
		t := &schema.Type{Name: n.Name, PkgPath: b.path, Kind: schema.KindStruct, Comment: n.Comment}
		b.declared[name] = t
		b.fillStruct(t, n)

		return t

	case *Func:
		t := &schema.Type{Name: n.Name, PkgPath: b.path, Kind: schema.KindFunction, Comment: n.Comment}
		b.declared[name] = t
		b.fillFunc(t, n)

		return t

	case *Alias:
		return b.alias(n)
	}

	return nil
}

// alias builds an alias declaration. Aliases of builtin or unknown types,
// and of types that refer back to the alias itself, are wrapped in an alias
// Type. Any other target is registered directly under the alias name, so
// both names share one node; an anonymous target also takes the alias name.
func (b *unitBuilder) alias(n *Alias) *schema.Type {
	shell := &aliasShell{
		typ: &schema.Type{Name: n.Name, PkgPath: b.path, Kind: schema.KindAlias, Comment: n.Comment},
	}
	b.declared[n.Name] = shell.typ
	b.shells[n.Name] = shell

	defer delete(b.shells, n.Name)

	nested := b.typeOf(n.Type, n.Name)
	if nested == nil {
		// Remembered as failed so later references do not rebuild it.
		b.declared[n.Name] = nil
		return nil
	}

	wrap := shell.referenced ||
		nested.PkgPath == schema.OriginInternal ||
		nested.PkgPath == schema.OriginUnknown

	result := nested

	switch {
	case wrap:
		shell.typ.Types = []*schema.Type{nested}
		result = shell.typ

	case !nested.IsNamed():
		nested.Name = n.Name
		if nested.Comment == "" {
			nested.Comment = n.Comment
		}
	}

	b.declared[n.Name] = result
	b.schema.Put(n.Name, result)

	return result
}

func (b *unitBuilder) fillStruct(t *schema.Type, n *Struct) {
	for _, p := range n.Props {
		t.Fields = append(t.Fields, schema.Field{
			Name:       p.Name,
			Type:       b.typeOf(p.Type, ""),
			Optional:   p.Optional,
			Anonymous:  strings.HasPrefix(p.Name, "_"),
			Visibility: p.Access,
			Comment:    p.Comment,
		})
	}

	for _, m := range n.Methods {
		var sig *schema.Type
		if m.Signature != nil {
			sig = &schema.Type{PkgPath: b.path, Kind: schema.KindFunction}
			b.fillFunc(sig, m.Signature)
		}

		t.Methods = append(t.Methods, schema.Field{
			Name:       m.Name,
			Type:       sig,
			Optional:   m.Optional,
			Anonymous:  strings.HasPrefix(m.Name, "_"),
			Visibility: m.Access,
			Self:       t,
			Comment:    m.Comment,
		})
	}

	for _, e := range n.Extends {
		if base := b.heritage(e); base != nil {
			t.Extends = append(t.Extends, base)
		}
	}
}

func (b *unitBuilder) fillFunc(t *schema.Type, n *Func) {
	for _, p := range n.Params {
		pt := b.typeOf(p.Type, "")

		if p.Rest {
			t.IsVariadic = true

			// Named nodes are shared; only an unnamed parameter type is marked.
			if pt != nil && !pt.IsNamed() {
				pt.IsVariadic = true
			}
		}

		t.Ins = append(t.Ins, schema.Argument{Name: p.Name, Type: pt})
	}

	for _, r := range n.Results {
		if rt := b.typeOf(r, ""); rt != nil {
			t.Outs = append(t.Outs, rt)
		}
	}
}

// typeOf builds the Type described by n. parent names the alias being
// declared, if any. It returns nil for nodes it cannot build.
func (b *unitBuilder) typeOf(n Node, parent string) *schema.Type {
	switch n := n.(type) {
	case nil:
		return nil

	case *Struct:
		if n.Name != "" && b.decls[n.Name] == Node(n) {
			return b.declare(n.Name)
		}

		t := &schema.Type{Name: n.Name, PkgPath: b.path, Kind: schema.KindStruct, Comment: n.Comment}
		b.fillStruct(t, n)

		return t

	case *Func:
		t := &schema.Type{Name: n.Name, PkgPath: b.path, Kind: schema.KindFunction, Comment: n.Comment}
		b.fillFunc(t, n)

		return t

	case *Union:
		return &schema.Type{PkgPath: b.path, Kind: schema.KindUnion, Types: b.typesOf(n.Types, parent)}

	case *Intersection:
		return &schema.Type{PkgPath: b.path, Kind: schema.KindIntersection, Types: b.typesOf(n.Types, parent)}

	case *Array:
		return &schema.Type{PkgPath: b.path, Kind: schema.KindArray, Elem: b.typeOf(n.Elem, parent), Len: n.Len}

	case *Map:
		return &schema.Type{PkgPath: b.path, Kind: schema.KindMap, Key: b.typeOf(n.Key, parent), Elem: b.typeOf(n.Elem, parent)}

	case *Keyword:
		if builtinNames[n.Name] {
			return b.memo(n.Name, schema.OriginInternal)
		}

		return b.memo(n.Name, schema.OriginUnknown)

	case *Literal:
		if internalLiterals[n.Text] {
			return b.memo(n.Text, schema.OriginInternal)
		}

		return b.memo(n.Text, schema.OriginUnknown)

	case *Ref:
		return b.ref(n, parent)

	case *Ident:
		if t := b.lookup(n.Name); t != nil {
			return t
		}

		b.unresolved(n.Name, b.knownNames())

		return nil

	default:
		b.diag(diagnostic.SeverityWarning, diagnostic.CodeUnhandledKind,
			"unhandled type kind "+KindName(n), unsupportedName(n))

		return nil
	}
}

func (b *unitBuilder) typesOf(nodes []Node, parent string) []*schema.Type {
	var out []*schema.Type

	for _, n := range nodes {
		if t := b.typeOf(n, parent); t != nil {
			out = append(out, t)
		}
	}

	return out
}

// ref resolves a type reference. Unknown names become <unknown> literals.
func (b *unitBuilder) ref(n *Ref, parent string) *schema.Type {
	if n.Name == "" {
		if parent == "" {
			b.diag(diagnostic.SeverityWarning, diagnostic.CodeMissingParent,
				"bare type reference outside an alias declaration", "")

			return nil
		}

		return b.lookup(parent)
	}

	if t := b.generic(n, parent); t != nil {
		return t
	}

	if n.From != "" {
		if t := b.foreign(n); t != nil {
			return t
		}

		return b.memo(n.Name, schema.OriginUnknown)
	}

	if t := b.lookup(n.Name); t != nil {
		return t
	}

	b.ctx.log.V(1).Info("unresolved reference kept as literal", "unit", b.path, "name", n.Name)

	return b.memo(n.Name, schema.OriginUnknown)
}

// heritage resolves an extends entry. Unlike plain references, an unknown
// base is reported and dropped.
func (b *unitBuilder) heritage(n Node) *schema.Type {
	r, ok := n.(*Ref)
	if !ok {
		return b.typeOf(n, "")
	}

	if t := b.generic(r, ""); t != nil {
		return t
	}

	if r.From != "" {
		return b.foreign(r)
	}

	if t := b.lookup(r.Name); t != nil {
		return t
	}

	b.unresolved(r.Name, b.knownNames())

	return nil
}

// generic wraps the Array and Record generics.
func (b *unitBuilder) generic(n *Ref, parent string) *schema.Type {
	arg := func(i int) *schema.Type {
		if i < len(n.Args) {
			return b.typeOf(n.Args[i], parent)
		}

		return nil
	}

	switch n.Name {
	case "Array":
		return &schema.Type{PkgPath: b.path, Kind: schema.KindArray, Elem: arg(0)}
	case "Record":
		return &schema.Type{PkgPath: b.path, Kind: schema.KindMap, Key: arg(0), Elem: arg(1)}
	default:
		return nil
	}
}

// foreign resolves a reference to a declaration of another unit.
func (b *unitBuilder) foreign(n *Ref) *schema.Type {
	target := resolvePath(b.path, n.From)

	other, err := b.ctx.load(target)
	if err != nil {
		b.diag(diagnostic.SeverityWarning, diagnostic.CodeUnresolvedUnit,
			fmt.Sprintf("unit %s referenced by %s is not available: %v", target, n.Name, err), n.Name)

		return nil
	}

	if t := other.export(n.Name); t != nil {
		return t
	}

	b.unresolved(n.Name, other.knownNames())

	return nil
}

func (b *unitBuilder) importDecl(n *Import) {
	target := resolvePath(b.path, n.From)

	other, err := b.ctx.load(target)
	if err != nil {
		b.diag(diagnostic.SeverityWarning, diagnostic.CodeUnresolvedImport,
			fmt.Sprintf("import %s could not be loaded: %v", n.From, err), "")

		return
	}

	b.ctx.log.V(1).Info("import resolved", "unit", b.path, "from", target, "names", len(n.Names))

	for _, spec := range n.Names {
		t := other.export(spec.Name)
		if t == nil {
			b.diag(diagnostic.SeverityWarning, diagnostic.CodeUnresolvedImport,
				fmt.Sprintf("symbol %s not found in %s", spec.Name, target), spec.Name,
				match.Suggest(spec.Name, other.knownNames(), maxSuggestions)...)

			continue
		}

		b.schema.Put(spec.Local(), t)
	}
}

// export returns the Type another unit sees under name.
func (b *unitBuilder) export(name string) *schema.Type {
	return b.lookup(name)
}

// lookup finds a name in unit scope: declarations (built on demand), then
// registered imports and memoized types, then imports not processed yet.
func (b *unitBuilder) lookup(name string) *schema.Type {
	if t := b.declare(name); t != nil {
		return t
	}

	if t := b.schema.Lookup(name); t != nil {
		return t
	}

	imp, ok := b.imports[name]
	if !ok {
		return nil
	}

	// Failures are reported when the Import declaration itself is processed.
	other, err := b.ctx.load(imp.unit)
	if err != nil || other == b {
		return nil
	}

	t := other.export(imp.name)
	if t != nil {
		b.schema.Put(name, t)
	}

	return t
}

// memo returns the per-schema singleton for a builtin or literal type.
func (b *unitBuilder) memo(name, origin string) *schema.Type {
	if t := b.schema.Lookup(name); t != nil && t.Kind == schema.KindType && t.PkgPath == origin {
		return t
	}

	t := &schema.Type{Name: name, PkgPath: origin, Kind: schema.KindType}

	// Declarations and imports keep their keys.
	if !b.schema.Has(name) && b.decls[name] == nil {
		b.schema.Put(name, t)
	}

	return t
}

func (b *unitBuilder) unresolved(name string, candidates []string) {
	b.diag(diagnostic.SeverityWarning, diagnostic.CodeUnresolvedIdentifier,
		"unresolved identifier "+name, name,
		match.Suggest(name, candidates, maxSuggestions)...)
}

func (b *unitBuilder) knownNames() []string {
	names := b.schema.Keys()
	for name := range b.decls {
		if !b.schema.Has(name) {
			names = append(names, name)
		}
	}

	return names
}

func (b *unitBuilder) diag(sev diagnostic.Severity, code, message, name string, suggestions ...string) {
	b.ctx.report(diagnostic.Diagnostic{
		Severity:    sev,
		Code:        code,
		Message:     message,
		Unit:        b.path,
		Name:        name,
		Suggestions: suggestions,
	})
}

func exported(n Node) bool {
	switch d := n.(type) {
	case *Struct:
		return d.Exported
	case *Func:
		return d.Exported
	case *Alias:
		return d.Exported
	default:
		return false
	}
}

func unsupportedName(n Node) string {
	if u, ok := n.(*Unsupported); ok {
		return u.Name
	}

	return DeclName(n)
}
