package schema

import (
	"strings"
)

// Relativize strips prefix from every mapping key, every placeholder
// reference and every non-sentinel PkgPath, in place. A trailing "/" is
// appended to prefix when missing so that only whole path segments are
// removed. Key order is preserved.
//
// Relativize is meant for flat schemas; on a resolved graph it rewrites the
// PkgPath of every reachable Type, which changes their FQNs consistently.
func (s *Schema) Relativize(prefix string) {
	prefix = NormalizePath(prefix)
	if prefix == "" {
		return
	}

	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	types := make(map[string]*Type, len(s.types))
	keys := make([]string, 0, len(s.keys))

	for _, k := range s.keys {
		rk := RelativeName(prefix, k)
		if _, dup := types[rk]; !dup {
			keys = append(keys, rk)
		}

		types[rk] = s.types[k]
	}

	s.types = types
	s.keys = keys

	strip := func(t *Type) {
		if t.IsPlaceholder() {
			t.Ref = RelativeName(prefix, t.Ref)
			return
		}

		if !IsSentinel(t.PkgPath) {
			t.PkgPath = RelativeName(prefix, NormalizePath(t.PkgPath))
		}
	}

	done := make(map[*Type]bool)

	Walk(s, func(t *Type, _ Slot) *Type {
		if !done[t] {
			done[t] = true
			strip(t)
		}

		return t
	})
}
