package incident

import (
	"context"

	"github.com/rvasily/incident-capture-service/internal/document"
	"github.com/rvasily/incident-capture-service/internal/models"
	"github.com/rvasily/incident-capture-service/internal/store"
)

// Service orchestrates capture and retrieval over an injected store. It holds
// no state of its own; every method is safe for concurrent use.
type Service struct {
	store store.Store
}

// NewService builds a Service over the given store.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// Record fingerprints the document pair and persists the incident. Nothing is
// written when encoding fails, so an incident is either fully stored with a
// valid fingerprint or not stored at all.
func (s *Service) Record(ctx context.Context, headers, body document.Value) (models.Incident, error) {
	fp, err := Fingerprint(headers, body)
	if err != nil {
		return models.Incident{}, err
	}

	id, err := s.store.Insert(ctx, headers, body, fp)
	if err != nil {
		return models.Incident{}, err
	}

	return models.Incident{
		ID:          id,
		Headers:     headers,
		Body:        body,
		Fingerprint: fp,
	}, nil
}

// Search scans every stored incident and keeps the ones matching the terms,
// preserving store retrieval order (insertion order). Empty terms short-
// circuit to an empty result set without touching the store.
func (s *Service) Search(ctx context.Context, terms map[string]document.Value) ([]models.Incident, error) {
	if len(terms) == 0 {
		return []models.Incident{}, nil
	}

	all, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]models.Incident, 0)
	for _, inc := range all {
		if Matches(inc.Headers, inc.Body, terms) {
			matched = append(matched, inc)
		}
	}
	return matched, nil
}

// Lookup returns all incidents whose fingerprint equals the given one
// exactly. An unknown fingerprint is an empty result, not an error.
func (s *Service) Lookup(ctx context.Context, fingerprint string) ([]models.Incident, error) {
	return s.store.FindByFingerprint(ctx, fingerprint)
}
