// Package match ranks identifier names by similarity.
//
// It backs the "did you mean" suggestions attached to unresolved-name
// diagnostics and to CLI lookups of unknown types.
//
// Key functions:
//   - NormalizeIdent: case-folds an identifier and strips separators
//   - Levenshtein: computes edit distance between strings
//   - Suggest: ranks candidate names against a misspelled one
package match
