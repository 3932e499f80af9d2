package store

import (
	"context"
	"strings"

	"github.com/rvasily/incident-capture-service/internal/document"
	"github.com/rvasily/incident-capture-service/internal/models"
)

// Store is the persistence capability required by the service: append one
// incident, read them all back in insertion order, and look up by
// fingerprint. Implementations own their concurrency discipline.
type Store interface {
	// Insert persists one incident and returns its assigned id.
	Insert(ctx context.Context, headers, body document.Value, fingerprint string) (int64, error)

	// ListAll returns every incident ordered by ascending id.
	ListAll(ctx context.Context) ([]models.Incident, error)

	// FindByFingerprint returns incidents whose fingerprint is exactly equal
	// to the given string, ordered by ascending id.
	FindByFingerprint(ctx context.Context, fingerprint string) ([]models.Incident, error)

	// EnsureSchema creates tables/indexes if missing. Safe to run repeatedly.
	EnsureSchema() error

	// Ping validates connectivity; used by the readiness endpoint.
	Ping(ctx context.Context) error

	// Close releases the underlying connections.
	Close()
}

// Open selects a backend from the URL: Postgres for postgres:// URLs, a local
// SQLite file otherwise. Production deployments point DB_URL at Postgres;
// everything else gets a self-contained file database.
func Open(dbURL string) (Store, error) {
	if strings.HasPrefix(dbURL, "postgres://") || strings.HasPrefix(dbURL, "postgresql://") {
		return NewPostgresStore(dbURL)
	}
	return NewSQLiteStore(strings.TrimPrefix(dbURL, "sqlite://"))
}
