package declfile

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"typereflect/builder"
	"typereflect/internal/common"
)

// Extensions tried, in order, when a unit path has no descriptor of its own.
var Extensions = []string{".yaml", ".yml"}

// Frontend serves descriptor files from a file system.
type Frontend struct {
	fsys fs.FS
}

// New creates a Frontend reading descriptors from fsys.
func New(fsys fs.FS) *Frontend {
	return &Frontend{fsys: fsys}
}

// Unit implements builder.Frontend. The path is tried as given and then
// with each of Extensions appended, so import specifiers may omit them.
func (f *Frontend) Unit(p string) (*builder.Unit, error) {
	p = cleanPath(p)

	for _, candidate := range candidates(p) {
		data, err := fs.ReadFile(f.fsys, candidate)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read descriptor %s: %w", candidate, err)
		}

		return Parse(candidate, data)
	}

	return nil, fmt.Errorf("%w: %s", builder.ErrUnitNotFound, p)
}

// Parse decodes a descriptor into a unit stored at path. Imports precede
// declarations.
func Parse(p string, data []byte) (*builder.Unit, error) {
	var file File

	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse descriptor %s: %w", p, err)
	}

	u := &builder.Unit{Path: p}

	for _, imp := range file.Imports {
		n := &builder.Import{From: imp.From}
		for _, name := range imp.Names {
			n.Names = append(n.Names, builder.ImportSpec(name))
		}

		u.Decls = append(u.Decls, n)
	}

	for _, d := range file.Decls {
		u.Decls = append(u.Decls, d.Node)
	}

	return u, nil
}

// Discover returns the descriptor paths matching any of the glob patterns,
// sorted and without duplicates.
func Discover(fsys fs.FS, patterns ...string) ([]string, error) {
	var out []string

	for _, pattern := range patterns {
		matches, err := fs.Glob(fsys, cleanPath(pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}

		out = append(out, matches...)
	}

	sort.Strings(out)

	return common.Unique(out), nil
}

func candidates(p string) []string {
	out := []string{p}
	for _, ext := range Extensions {
		if !strings.HasSuffix(p, ext) {
			out = append(out, p+ext)
		}
	}

	return out
}

// cleanPath turns a unit path into an fs.FS path.
func cleanPath(p string) string {
	p = path.Clean(strings.ReplaceAll(p, `\`, "/"))

	return strings.TrimPrefix(p, "/")
}
