package store

import (
	"context"
	"sync"

	"github.com/rvasily/incident-capture-service/internal/document"
	"github.com/rvasily/incident-capture-service/internal/models"
)

// MemoryStore keeps incidents in an append-only slice. It exists for unit
// tests and satisfies the same ordering guarantees as the SQL backends.
type MemoryStore struct {
	mu        sync.RWMutex
	incidents []models.Incident
	nextID    int64
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (m *MemoryStore) Insert(_ context.Context, headers, body document.Value, fingerprint string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.incidents = append(m.incidents, models.Incident{
		ID:          id,
		Headers:     headers,
		Body:        body,
		Fingerprint: fingerprint,
	})
	return id, nil
}

func (m *MemoryStore) ListAll(_ context.Context) ([]models.Incident, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Incident, len(m.incidents))
	copy(out, m.incidents)
	return out, nil
}

func (m *MemoryStore) FindByFingerprint(_ context.Context, fingerprint string) ([]models.Incident, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Incident, 0)
	for _, inc := range m.incidents {
		if inc.Fingerprint == fingerprint {
			out = append(out, inc)
		}
	}
	return out, nil
}

func (m *MemoryStore) EnsureSchema() error { return nil }

func (m *MemoryStore) Ping(_ context.Context) error { return nil }

func (m *MemoryStore) Close() {}
