package store

import (
	"context"
	_ "embed"
	"time"

	json "github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rvasily/incident-capture-service/internal/document"
	"github.com/rvasily/incident-capture-service/internal/models"
)

// schemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

// PostgresStore is the production persistence backend, storing documents in
// JSONB columns.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a connection pool and fails fast if DB is unreachable.
func NewPostgresStore(dbURL string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresStore) EnsureSchema() error {
	_, err := p.pool.Exec(context.Background(), schemaSQL)
	return err
}

// Ping is used by the readiness endpoint to validate DB connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}

// Insert persists one incident as a single statement; there is no partial
// write to roll back.
func (p *PostgresStore) Insert(ctx context.Context, headers, body document.Value, fingerprint string) (int64, error) {
	headersJSON, err := json.Marshal(headers)
	if err != nil {
		return 0, err
	}
	bodyJSON, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}

	var id int64
	err = p.pool.QueryRow(ctx, `
		INSERT INTO incidents(headers, body, fingerprint)
		VALUES ($1,$2,$3)
		RETURNING id
	`, headersJSON, bodyJSON, fingerprint).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ListAll returns every incident in insertion order. Search is a client-side
// scan over this list, so the ordering here fixes the result ordering.
func (p *PostgresStore) ListAll(ctx context.Context) ([]models.Incident, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, headers, body, fingerprint
		FROM incidents
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	return scanIncidents(rows)
}

// FindByFingerprint returns exact fingerprint matches in insertion order,
// served by the fingerprint index.
func (p *PostgresStore) FindByFingerprint(ctx context.Context, fingerprint string) ([]models.Incident, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, headers, body, fingerprint
		FROM incidents
		WHERE fingerprint=$1
		ORDER BY id
	`, fingerprint)
	if err != nil {
		return nil, err
	}
	return scanIncidents(rows)
}

func scanIncidents(rows pgx.Rows) ([]models.Incident, error) {
	defer rows.Close()

	incidents := make([]models.Incident, 0)
	for rows.Next() {
		var (
			inc         models.Incident
			headersJSON []byte
			bodyJSON    []byte
		)
		if err := rows.Scan(&inc.ID, &headersJSON, &bodyJSON, &inc.Fingerprint); err != nil {
			return nil, err
		}

		var err error
		if inc.Headers, err = document.Parse(headersJSON); err != nil {
			return nil, err
		}
		if inc.Body, err = document.Parse(bodyJSON); err != nil {
			return nil, err
		}
		incidents = append(incidents, inc)
	}
	return incidents, rows.Err()
}
