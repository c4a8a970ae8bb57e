package schema

import (
	"strconv"
)

// Flatten returns a Schema in which every Type-valued slot holds a
// placeholder for the Type registered under the referenced FQN. The result
// is acyclic and safe for tree-shaped encoders; the input is not modified.
//
// Every reachable Type is registered under its FQN. Unnamed types are given
// the name "Anonymous" (and origin "<unknown>" when they have none) before
// their FQN is computed; distinct unnamed nodes that would collide in one
// pass are numbered "Anonymous2", "Anonymous3", ...
//
// Flattening an already flat Schema returns an equivalent Schema.
func Flatten(s *Schema) *Schema {
	f := &flattener{
		out:     New(),
		seen:    make(map[*Type]string),
		claimed: make(map[string]*Type),
	}

	s.Range(func(_ string, t *Type) bool {
		if t != nil && !t.IsPlaceholder() {
			f.ref(t)
		}

		return true
	})

	return f.out
}

type flattener struct {
	out *Schema
	// seen maps original nodes to the FQN they were registered under.
	seen map[*Type]string
	// claimed maps FQNs to the original node that claimed them in this pass.
	claimed map[string]*Type
}

// ref registers t (once) and returns a placeholder for it.
func (f *flattener) ref(t *Type) *Type {
	if t == nil {
		return nil
	}

	if t.IsPlaceholder() {
		return Placeholder(t.Ref)
	}

	if fqn, ok := f.seen[t]; ok {
		return Placeholder(fqn)
	}

	name, pkgPath, fqn := f.identify(t)
	f.seen[t] = fqn

	c := t.shallowClone()
	c.Name = name
	c.PkgPath = pkgPath

	// Registered before descending so cycles see the slot.
	f.out.Put(fqn, c)

	c.Elem = f.ref(t.Elem)
	c.Key = f.ref(t.Key)
	c.Types = f.refs(t.Types)
	c.Extends = f.refs(t.Extends)
	c.Methods = f.fields(t.Methods)
	c.Fields = f.fields(t.Fields)

	for i := range c.Ins {
		c.Ins[i].Type = f.ref(t.Ins[i].Type)
	}

	c.Outs = f.refs(t.Outs)

	return Placeholder(fqn)
}

func (f *flattener) refs(types []*Type) []*Type {
	if len(types) == 0 {
		return nil
	}

	out := make([]*Type, 0, len(types))
	for _, t := range types {
		out = append(out, f.ref(t))
	}

	return out
}

func (f *flattener) fields(fields []Field) []Field {
	if len(fields) == 0 {
		return nil
	}

	out := make([]Field, len(fields))
	for i, field := range fields {
		out[i] = field
		out[i].Type = f.ref(field.Type)
		out[i].Self = f.ref(field.Self)
	}

	return out
}

// identify returns the name, origin and FQN t is registered under.
func (f *flattener) identify(t *Type) (name, pkgPath, fqn string) {
	pkgPath = t.PkgPath
	if pkgPath == "" {
		pkgPath = OriginUnknown
	}

	if t.Name != "" {
		fqn = ToFQN(t.Name, pkgPath)
		// Named collisions are last-write-wins.
		f.claimed[fqn] = t

		return t.Name, pkgPath, fqn
	}

	name = AnonymousName
	fqn = ToFQN(name, pkgPath)

	for n := 2; ; n++ {
		owner, taken := f.claimed[fqn]
		if !taken || owner == t {
			break
		}

		name = AnonymousName + strconv.Itoa(n)
		fqn = ToFQN(name, pkgPath)
	}

	f.claimed[fqn] = t

	return name, pkgPath, fqn
}
