// Package models defines persistent entities and persistence interfaces for
// the ytshift playlist toolkit.
//
// The package contains one persistent entity:
//   - [Match] : Cached catalog resolutions keyed by normalized (title,
//     artist, album) lookups, so repeated migrations skip search round trips
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
//
// Transient wire types (playlists, entries, search candidates) live in the
// services package next to the proxy client that decodes them.
package models
