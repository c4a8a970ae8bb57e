// Package builder turns front-end declaration streams into schemas.
//
// A front-end hands out Units: a path and its top-level declaration nodes.
// A BuildContext builds each unit once, resolving references inside the
// unit, across imports and to builtins, and records problems as
// diagnostics instead of failing.
//
// Key types:
//   - Node: the closed set of declaration and type descriptors
//   - Unit: one compilation unit
//   - Frontend: the source of units
//   - BuildContext: unit cache, diagnostics and logger for one build
//
// Resolution rules:
//   - builtins (string, number, boolean, object, void, undefined, any) and
//     the literals null, true and false are <internal> singletons per schema
//   - other literals and unknown references are <unknown> singletons
//   - Array<T> and Record<K, V> references become array and map types
//   - declarations may be referenced before they appear in the unit
//   - structs are registered before their members are built, so recursive
//     and mutually recursive types terminate
package builder
