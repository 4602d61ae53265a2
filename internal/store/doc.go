// Package store provides the collection store layered on a kv.Store.
//
// The whole application database is one serialized Database value kept
// under a single key. Every mutation re-serializes the entire database;
// there are no partial writes and no transactions across collections.
//
// # Lifecycle
//
// Open moves the store from uninitialized to ready:
//   - a stored blob is decoded and merged against Names, so collections
//     missing from an older blob default to empty
//   - a missing, unreadable or corrupted blob is replaced by the seed
//     fixtures, which are persisted immediately
//
// The medium failing is never fatal to the caller; it is logged and the
// store continues from the seed.
//
// # Mutation
//
// Update is the only mutation primitive domain services use. It runs the
// caller's transform under the store lock and persists the result, so every
// write goes through the medium.
//
// # Session
//
// The current session user lives under a separate key from the database and
// is always stored without its password.
package store
