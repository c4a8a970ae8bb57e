package common

import (
	"path"
	"strings"
)

// IsRelative reports whether an import specifier is relative to the importing unit.
func IsRelative(spec string) bool {
	return spec == "." || spec == ".." ||
		strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../")
}

// ResolveUnitPath resolves an import specifier against the path of the
// importing unit. Non-relative specifiers are returned cleaned but otherwise
// unchanged.
func ResolveUnitPath(from, spec string) string {
	spec = strings.ReplaceAll(spec, `\`, "/")
	if !IsRelative(spec) {
		return path.Clean(spec)
	}

	return path.Join(path.Dir(strings.ReplaceAll(from, `\`, "/")), spec)
}
