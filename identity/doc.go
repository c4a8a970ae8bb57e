// Package identity binds live Go values to schema entries.
//
// A binding maps a Go type to the FQN of the schema Type that describes it.
// FQNs are given explicitly or derived from the source file that declares
// the binding, so a type bound in game/player.go as Player resolves to the
// schema key "game/player.Player".
//
// Key types:
//   - Registry: concurrency-safe reflect.Type -> FQN bindings
//   - Tagged: values carrying their own FQN
package identity
