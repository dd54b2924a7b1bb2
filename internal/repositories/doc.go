// Package repositories implements SQLite persistence for the match cache.
//
// [MatchRepository] handles CRUD with atomic sequence generation for human-readable ordering.
// Rows are soft-deleted via deleted_at timestamps and excluded from queries by default;
// [MatchRepository.Upsert] revives a soft-deleted row when its lookup key resolves again.
//
// [MatchCacheAdapter] adapts the repository to the migration engine's cache
// interface, normalizing lookups with [CacheKey] and swallowing storage
// failures so a broken cache never fails a migration.
//
// Sequence numbers provide stable, human-readable ordering independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
