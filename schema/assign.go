package schema

import "typereflect/internal/common"

// Assignability is the verdict of a structural assignability check.
type Assignability int

const (
	// AssignIncompatible means src cannot be used where dest is expected.
	AssignIncompatible Assignability = iota
	// AssignIncomplete means the check does not model the pair; treated as not assignable.
	AssignIncomplete
	// AssignStructural means a structural rule accepted the pair.
	AssignStructural
	// AssignIdentical means src and dest are the same node.
	AssignIdentical
)

const (
	VerdictIdentical    = "identical"
	VerdictStructural   = "structural"
	VerdictIncomplete   = "incomplete"
	VerdictIncompatible = "incompatible"
)

// String returns a human-readable name for the verdict.
func (a Assignability) String() string {
	switch a {
	case AssignIdentical:
		return VerdictIdentical
	case AssignStructural:
		return VerdictStructural
	case AssignIncomplete:
		return VerdictIncomplete
	case AssignIncompatible:
		return VerdictIncompatible
	default:
		return "unknown"
	}
}

// Score returns a numeric score for sorting (higher is better).
func (a Assignability) Score() int {
	return int(a)
}

// AssignabilityResult explains an assignability verdict.
type AssignabilityResult struct {
	Assignability Assignability
	Reason        string // Human-readable explanation
	Source        string // String representation of the source type
	Target        string // String representation of the target type
	// Provisional is set when the verdict relies on the struct-target rule,
	// which accepts any source without union members.
	Provisional bool
}

// Assignable reports whether the verdict accepts the pair.
func (r AssignabilityResult) Assignable() bool {
	return r.Assignability >= AssignStructural
}

// AssignableTo reports whether a value of type src may be used where dest
// is expected. The check is shallow and structural; see Explain.
func AssignableTo(src, dest *Type) bool {
	return Explain(src, dest).Assignable()
}

// Explain checks src against dest and reports the rule that decided.
//
// Rules, first match wins: nil operands are incompatible; the same node is
// identical; aliases on either side are unwrapped; a struct is assignable to
// the builtin object; a source with member types is assignable when any
// member is (union) or every member is (otherwise); a union target accepts a
// source assignable to any member; a struct target accepts a source when all
// of the source's member types are assignable to it. Everything else is
// rejected, and plain struct pairs are reported as incomplete.
func Explain(src, dest *Type) AssignabilityResult {
	a := &assigner{active: make(map[[2]*Type]bool)}
	return a.explain(src, dest)
}

type assigner struct {
	active map[[2]*Type]bool
}

func (a *assigner) explain(src, dest *Type) AssignabilityResult {
	res := AssignabilityResult{
		Source: TypeString(src),
		Target: TypeString(dest),
	}

	verdict := func(v Assignability, reason string) AssignabilityResult {
		res.Assignability = v
		res.Reason = reason

		return res
	}

	if src == nil || dest == nil {
		return verdict(AssignIncompatible, "source or target is missing")
	}

	if src == dest || (src.IsPlaceholder() && dest.IsPlaceholder() && src.Ref == dest.Ref) {
		return verdict(AssignIdentical, "types are identical")
	}

	pair := [2]*Type{src, dest}
	if a.active[pair] {
		return verdict(AssignIncompatible, "cyclic alias chain")
	}

	a.active[pair] = true
	defer delete(a.active, pair)

	if src.Kind == KindAlias {
		return a.through(res, a.explain(first(src.Types), dest))
	}

	if dest.Kind == KindAlias {
		return a.through(res, a.explain(src, first(dest.Types)))
	}

	if src.Kind == KindStruct && dest.IsBuiltin("object") {
		return verdict(AssignStructural, "struct is assignable to object")
	}

	if len(src.Types) > 0 {
		if src.Kind == KindUnion {
			for _, member := range src.Types {
				if r := a.explain(member, dest); r.Assignable() {
					return a.through(res, r)
				}
			}

			return verdict(AssignIncompatible, "no member of the source union is assignable")
		}

		provisional := false

		for _, member := range src.Types {
			r := a.explain(member, dest)
			if !r.Assignable() {
				return verdict(AssignIncompatible, "member "+r.Source+" is not assignable: "+r.Reason)
			}

			provisional = provisional || r.Provisional
		}

		res.Provisional = provisional

		return verdict(AssignStructural, "every source member is assignable")
	}

	if len(dest.Types) > 0 {
		if dest.Kind == KindUnion {
			for _, member := range dest.Types {
				if r := a.explain(src, member); r.Assignable() {
					return a.through(res, r)
				}
			}

			return verdict(AssignIncompatible, "source is not assignable to any member of the target union")
		}

		if dest.Kind == KindStruct {
			// src has no member types here, so the rule holds vacuously.
			res.Provisional = true
			return verdict(AssignStructural, "struct target accepts a source without member types")
		}
	}

	if src.Kind == KindStruct && dest.Kind == KindStruct {
		return verdict(AssignIncomplete, "field-by-field struct matching is not implemented")
	}

	return verdict(AssignIncompatible, "types are not compatible")
}

// through reports an inner verdict against the outer pair.
func (a *assigner) through(outer, inner AssignabilityResult) AssignabilityResult {
	outer.Assignability = inner.Assignability
	if inner.Assignability == AssignIdentical {
		outer.Assignability = AssignStructural
	}

	outer.Reason = inner.Reason
	outer.Provisional = inner.Provisional

	return outer
}

func first(types []*Type) *Type {
	t, _ := common.First(types)
	return t
}
