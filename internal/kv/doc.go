// Package kv provides the key-value medium that holds the serialized database.
//
// The contract is deliberately small: a blob is loaded or saved whole under
// a key. There are no partial reads, no partial writes and no transactions
// spanning keys. The collection store keeps the entire database under one
// key and the current session under another.
//
// # Backends
//
//   - SQLite: a single kv table in a local file (default)
//   - Redis: GET/SET against a shared server
//   - Memory: a process-local map, used by tests and throwaway runs
//
// # SQLite configuration
//
//   - WAL mode: readers never block the single writer
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
package kv
