// Package diagnostic collects structured problems found while building
// schemas from source units.
//
// Builders keep going after a problem: an unresolved name or an unsupported
// declaration is recorded here and the offending node is skipped.
//
// Key types:
//   - Diagnostics: the sink, split by severity
//   - Diagnostic: one problem with a stable code, unit and name
package diagnostic
