// Package backend selects and opens the document store the ledger
// persists into.
package backend

import (
	"fmt"

	"finnova/internal/config"
	"finnova/internal/kv"
	"finnova/internal/log"
)

// Open returns the document store named by cfg.DataBackend. The caller
// owns the returned store and must Close it on shutdown.
func Open(cfg *config.Config, logger *log.Logger) (kv.DocumentStore, error) {
	logger = logger.WithComponent(log.ComponentBackend)

	switch cfg.DataBackend {
	case "memory":
		logger.Info("Using in-memory backend, data will not survive restarts")
		return kv.NewMemoryStore(), nil

	case "sqlite":
		store, err := kv.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		logger.Info("Using SQLite backend", "db_path", cfg.SQLiteDBPath)
		return store, nil

	case "postgres":
		store, err := kv.NewPostgresStore(cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres backend: %w", err)
		}
		logger.Info("Using Postgres backend")
		return store, nil

	default:
		return nil, fmt.Errorf("unknown data backend: %s", cfg.DataBackend)
	}
}

// Shared reports whether the backend stores documents somewhere other
// processes can reach. The memory backend is process-local: a worker
// opening it gets a fresh copy, not the server's ledger.
func Shared(backendName string) bool {
	switch backendName {
	case "sqlite", "postgres":
		return true
	}
	return false
}
