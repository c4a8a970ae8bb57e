// Package store persists flattened schemas in SQLite.
//
// Each saved schema is kept whole, MessagePack encoded, next to one index
// row per type so types can be searched across schemas without decoding.
package store
