// Package domain provides the record types persisted by the listing store.
//
// This package contains type definitions and pure helpers only. Every other
// internal package imports domain; domain imports nothing internal.
//
// Key design constraints:
//   - JSON and YAML tags use camelCase, matching the persisted database blob
//   - Prices are whole currency units (int64); areas are square metres (float64)
//   - User.Password exists only inside the store; User.Public strips it
//   - All timestamps are UTC time.Time values
package domain
