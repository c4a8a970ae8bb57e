package builder

import (
	"errors"
	"fmt"
	"path"
	"sort"

	"typereflect/schema"
)

// ErrUnitNotFound is returned by front-ends that have no unit for a path.
var ErrUnitNotFound = errors.New("unit not found")

// Unit is one compilation unit: a source path and its top-level declarations.
type Unit struct {
	Path  string
	Decls []Node
}

// Imports returns the unit paths referenced by Import declarations,
// resolved against the unit's own path.
func (u *Unit) Imports() []string {
	var out []string

	for _, d := range u.Decls {
		if imp, ok := d.(*Import); ok {
			out = append(out, resolvePath(u.Path, imp.From))
		}
	}

	return out
}

// Frontend produces units on demand.
type Frontend interface {
	// Unit returns the unit stored at path. It wraps ErrUnitNotFound when
	// the path is unknown.
	Unit(path string) (*Unit, error)
}

// StaticFrontend serves units from memory, keyed by normalized path.
type StaticFrontend map[string]*Unit

// NewStaticFrontend indexes units by their paths.
func NewStaticFrontend(units ...*Unit) StaticFrontend {
	fe := make(StaticFrontend, len(units))
	for _, u := range units {
		fe[normalizeUnitPath(u.Path)] = u
	}

	return fe
}

// Unit implements Frontend.
func (fe StaticFrontend) Unit(p string) (*Unit, error) {
	if u, ok := fe[normalizeUnitPath(p)]; ok {
		return u, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnitNotFound, p)
}

// Paths returns the unit paths in sorted order.
func (fe StaticFrontend) Paths() []string {
	out := make([]string, 0, len(fe))
	for p := range fe {
		out = append(out, p)
	}

	sort.Strings(out)

	return out
}

func normalizeUnitPath(p string) string {
	if p == "" {
		return ""
	}

	return path.Clean(schema.NormalizePath(p))
}
