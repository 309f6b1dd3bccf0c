// Package kv persists the ledger document as a single value under a fixed
// key. The whole document is written on every mutation; there are no
// partial writes for a reader to observe.
package kv

import "context"

// DocumentKey is the storage key of the one persisted ledger document.
const DocumentKey = "finnova_db_v1"

// DocumentStore is the injectable backing of the ledger: an in-memory map
// for tests, SQLite or Postgres for real runs.
type DocumentStore interface {
	// Load returns the raw document and whether one exists.
	Load(ctx context.Context) ([]byte, bool, error)

	// Save writes the full document, replacing any previous value.
	Save(ctx context.Context, data []byte) error

	Close() error
}
