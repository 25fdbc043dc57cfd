// Package store provides a SQLite-backed cache of compiled predicates.
//
// Each entry is keyed by the predicate hash, a SHA-256 over the dialect
// name and the canonical form of the expression tree (see ir.PredicateHash).
// Writing the same hash twice keeps the first entry.
//
// # Ordering
//
// Entries carry a logical sequence number assigned on insert. Listings
// order by seq, never by wall time, with id as a tiebreaker.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Warnings are stored as a msgpack-encoded string array.
package store
