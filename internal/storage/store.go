// Package storage provides persistent document storage with file and
// Redis backends. Each collection holds one document, typically a map of
// records owned by a single module.
package storage

import "context"

// Store is the interface for document storage backends.
type Store interface {
	// Load reads the document for a collection into out. It reports
	// whether the collection exists; a missing collection is not an
	// error.
	Load(ctx context.Context, collection string, out any) (bool, error)

	// Save replaces the document for a collection.
	Save(ctx context.Context, collection string, doc any) error

	// Delete removes a collection and its document.
	Delete(ctx context.Context, collection string) error

	// Close releases backend resources.
	Close() error
}

// Open selects a backend from configuration: Redis when an address is
// configured, flat files under dataDir otherwise.
func Open(dataDir, redisAddr string) (Store, error) {
	if redisAddr != "" {
		return NewRedisStore(redisAddr)
	}
	return NewFileStore(dataDir)
}
