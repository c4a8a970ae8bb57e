package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"typereflect/internal/match"
	"typereflect/schema"
)

const maxSuggestions = 3

// findType resolves a user-supplied type name: exact key, then the name
// with leading segments dropped, then keys ending in the name, then bare
// type name.
func findType(s *schema.Schema, name string) (*schema.Type, error) {
	if t := s.LookupSuffix(name); t != nil {
		return t, nil
	}

	for _, key := range s.Keys() {
		if strings.HasSuffix(key, "/"+name) {
			return s.Lookup(key), nil
		}
	}

	if t := s.GetTypeByName(name); t != nil {
		return t, nil
	}

	err := fmt.Errorf("type %s not found", name)
	if hints := match.Suggest(match.LastSegment(name), typeNames(s), maxSuggestions); len(hints) > 0 {
		err = fmt.Errorf("%w (did you mean %s?)", err, strings.Join(hints, ", "))
	}

	return nil, err
}

func typeNames(s *schema.Schema) []string {
	var out []string

	s.Range(func(_ string, t *schema.Type) bool {
		if t.Name != "" {
			out = append(out, t.Name)
		}

		return true
	})

	return out
}

// writeList prints one line per entry: key, kind and structure.
func writeList(w io.Writer, s *schema.Schema, all bool) {
	s.Range(func(key string, t *schema.Type) bool {
		if !all && t.Visibility != schema.VisibilityExported {
			return true
		}

		fmt.Fprintf(w, "%-40s %-12s %s\n", key, t.Kind, describe(t))

		return true
	})
}

// describe shows named types by their structure rather than their name.
func describe(t *schema.Type) string {
	if !t.IsNamed() {
		return schema.TypeString(t)
	}

	switch t.Kind {
	case schema.KindAlias, schema.KindUnion, schema.KindIntersection, schema.KindArray, schema.KindMap, schema.KindFunction:
		anon := *t
		anon.Name = ""

		return schema.TypeString(&anon)
	default:
		return t.Name
	}
}

// writeType prints the members of one type.
func writeType(w io.Writer, t *schema.Type, paths int) {
	fmt.Fprintf(w, "%s (%s", t.FQN(), t.Kind)
	if t.Visibility != "" {
		fmt.Fprintf(w, ", %s", t.Visibility)
	}
	fmt.Fprintln(w, ")")

	if t.Comment != "" {
		fmt.Fprintf(w, "  // %s\n", strings.ReplaceAll(t.Comment, "\n", "\n  // "))
	}

	if len(t.Extends) > 0 {
		names := make([]string, 0, len(t.Extends))
		for _, e := range t.Extends {
			names = append(names, schema.TypeString(e))
		}

		fmt.Fprintf(w, "  extends %s\n", strings.Join(names, ", "))
	}

	if t.Kind != schema.KindStruct {
		fmt.Fprintf(w, "  = %s\n", describe(t))
	}

	for _, f := range t.Fields {
		fmt.Fprintf(w, "  %s%s: %s%s\n", f.Name, optionalMark(f), schema.TypeString(f.Type), visibilityNote(f))
	}

	for _, m := range t.Methods {
		fmt.Fprintf(w, "  %s%s%s%s\n", m.Name, optionalMark(m), schema.TypeString(m.Type), visibilityNote(m))
	}

	if paths <= 0 {
		return
	}

	fps := schema.FieldPaths(t, paths)
	keys := make([]string, 0, len(fps))
	for k := range fps {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintln(w, "  paths:")
	for _, k := range keys {
		fmt.Fprintf(w, "    %s: %s\n", k, schema.TypeString(fps[k].Type))
	}
}

func optionalMark(f schema.Field) string {
	if f.Optional {
		return "?"
	}

	return ""
}

func visibilityNote(f schema.Field) string {
	switch f.Visibility {
	case schema.VisibilityNone, schema.VisibilityPublic:
		return ""
	default:
		return "  [" + string(f.Visibility) + "]"
	}
}
