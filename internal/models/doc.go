// Package models defines the core domain models for Warikan.
//
// # Models
//
//   - Transaction: one recorded instance of one person covering a payment
//     on behalf of another
//   - UserRef: an opaque user id plus a display label
//
// # Design Principles
//
//  1. **Opaque identity**: the engine compares and aggregates on UserRef.ID
//     only; DisplayName exists purely for message rendering and is never
//     interpreted.
//  2. **Positional ids**: transactions carry no persisted identifier. A row
//     is referenced by its 1-based position in current ledger order, which
//     is recomputed on every read and is only valid within a single
//     read/response cycle.
//  3. **Append-only growth**: a ledger grows via insert and shrinks only via
//     explicit delete-by-position; settlement is itself just another
//     appended transaction.
package models
