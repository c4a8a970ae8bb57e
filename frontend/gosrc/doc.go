// Package gosrc is a front-end that reads Go packages with
// golang.org/x/tools/go/packages and hands their declarations to the
// builder, one unit per source file.
//
// Mapping:
//   - struct types become structs; embedded fields become Extends
//   - interfaces become structs holding method signatures; embedded
//     interfaces become Extends and pure type-set constraints become unions
//   - defined basic types become aliases of builtins
//   - numeric kinds map to number, bool to boolean, string to string and
//     the empty interface to any
//   - pointers are unwrapped; slices and arrays become arrays; maps become maps
//   - types declared in another file of the load set are cross-unit
//     references; types of other packages stay opaque
//   - channels and unsafe pointers are reported as unsupported
package gosrc
