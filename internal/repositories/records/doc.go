// Package records is the local key/value persistence layer of MJ36.
//
// # Overview
//
// Everything the app keeps lives in a handful of keyed records (see the Key
// constants): the main document, the session snapshot and the lock marker.
// Values are opaque bytes; callers own the encoding.
//
// Two implementations satisfy Repository:
//
//   - SQLiteRepository persists into the `records` table created by the
//     embedded goose migrations (see internal/database).
//   - MemoryRepository keeps values in a map; it backs tests and throwaway
//     sessions.
//
// # Atomic updates
//
// Update runs a read-modify-write of one key atomically: in SQLite inside a
// single transaction, in memory under the repository mutex. The store uses it
// to reject writes based on a stale document version.
//
// Typical usage
//
//	repo := records.NewSQLiteRepository(db)
//	_ = repo.Set(ctx, records.KeySession, b)
//	v, _ := repo.Get(ctx, records.KeySession) // nil, nil when absent
package records
