package schema

import (
	"sort"
)

// Resolve replaces every placeholder reachable from the schema with the
// Type registered under its reference. Forward references are supported.
// Placeholders whose target is missing stay in place; see Unresolved.
//
// Resolve mutates s and returns it for chaining.
func Resolve(s *Schema) *Schema {
	Walk(s, func(t *Type, _ Slot) *Type {
		if !t.IsPlaceholder() {
			return t
		}

		if target := s.Lookup(t.Ref); target != nil && !target.IsPlaceholder() {
			return target
		}

		return t
	})

	return s
}

// Unresolved returns the sorted set of placeholder references that remain
// reachable from the schema.
func Unresolved(s *Schema) []string {
	set := make(map[string]struct{})

	Walk(s, func(t *Type, _ Slot) *Type {
		if t.IsPlaceholder() {
			set[t.Ref] = struct{}{}
		}

		return t
	})

	out := make([]string, 0, len(set))
	for ref := range set {
		out = append(out, ref)
	}

	sort.Strings(out)

	return out
}
