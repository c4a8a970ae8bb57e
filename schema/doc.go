// Package schema provides the type graph model extracted from source units.
//
// A Schema maps fully-qualified names (FQNs) to Type nodes. Types reference
// each other directly, including the one intentional back edge from a method
// Field to the struct that owns it. Flatten breaks those references into
// placeholders so a Schema can be persisted; Resolve restores them.
//
// Key types:
//   - Type: one declared or synthesized type (struct, function, array, map, ...)
//   - Field: a struct property or method
//   - Argument: a function parameter
//   - Schema: the ordered FQN -> Type mapping
package schema
