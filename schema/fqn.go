package schema

import (
	"strings"
)

// NormalizePath converts Windows separators to forward slashes.
func NormalizePath(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// TrimExt strips the extension of the last path element.
// Sentinel origins such as "<internal>" have no extension and are returned as is.
func TrimExt(p string) string {
	slash := strings.LastIndexByte(p, '/')
	dot := strings.LastIndexByte(p, '.')
	if dot <= slash+1 {
		// No dot in the last element, or a dot file like ".env".
		return p
	}

	return p[:dot]
}

// ToFQN returns the fully-qualified name for a type name declared in pkgPath:
// "<pkgPath-without-extension>.<name>".
// A name already qualified with that prefix is returned unchanged; the
// prefix only counts when a "." follows it.
func ToFQN(name, pkgPath string) string {
	prefix := TrimExt(NormalizePath(pkgPath))
	if prefix == "" || strings.HasPrefix(name, prefix+".") {
		return name
	}

	return prefix + "." + name
}

// RelativeName strips prefix from an FQN when present.
func RelativeName(prefix, fqn string) string {
	if prefix == "" {
		return fqn
	}

	return strings.TrimPrefix(fqn, prefix)
}

// suffixes returns the progressively shorter forms of fqn obtained by
// dropping leading path segments, longest first.
// "a/b/c.T" yields "b/c.T" and "c.T".
func suffixes(fqn string) []string {
	var out []string

	for i := strings.IndexByte(fqn, '/'); i >= 0; {
		out = append(out, fqn[i+1:])

		next := strings.IndexByte(fqn[i+1:], '/')
		if next < 0 {
			break
		}

		i += next + 1
	}

	return out
}
