// Package store provides the SQLite-backed content.Backend.
//
// The store keeps one row per backend key (one per content namespace) and
// an append-only revision log of every write:
//   - items: current value per key
//   - item_revisions: (seq, key, size, removed) for each SetItem/RemoveItem
//
// # Ordering
//
// Revisions are ordered by seq INTEGER, a logical counter allocated inside
// the write transaction, never by timestamps. Queries always include
// ORDER BY seq so results are identical across runs.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Two processes writing the same namespace race; the last write wins.
package store
