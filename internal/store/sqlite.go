package store

import (
	"context"
	"database/sql"
	_ "embed"

	json "github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3"

	"github.com/rvasily/incident-capture-service/internal/document"
	"github.com/rvasily/incident-capture-service/internal/models"
)

//go:embed schema_sqlite.sql
var sqliteSchemaSQL string

// SQLiteStore is the file-backed default backend, used when no Postgres URL
// is configured. Documents are stored as serialized JSON text; the contract
// is identical to the Postgres backend.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database file at path. An empty path
// defaults to incidents.db in the working directory.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		path = "incidents.db"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// EnsureSchema applies schema_sqlite.sql. Safe to run multiple times.
func (s *SQLiteStore) EnsureSchema() error {
	_, err := s.db.Exec(sqliteSchemaSQL)
	return err
}

// Ping is used by the readiness endpoint.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close shuts down the database handle.
func (s *SQLiteStore) Close() {
	s.db.Close()
}

// Insert persists one incident and returns the auto-assigned rowid.
func (s *SQLiteStore) Insert(ctx context.Context, headers, body document.Value, fingerprint string) (int64, error) {
	headersJSON, err := json.Marshal(headers)
	if err != nil {
		return 0, err
	}
	bodyJSON, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO incidents(headers, body, fingerprint)
		VALUES (?,?,?)
	`, string(headersJSON), string(bodyJSON), fingerprint)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListAll returns every incident in insertion order.
func (s *SQLiteStore) ListAll(ctx context.Context) ([]models.Incident, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, headers, body, fingerprint
		FROM incidents
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	return scanIncidentRows(rows)
}

// FindByFingerprint returns exact fingerprint matches in insertion order.
func (s *SQLiteStore) FindByFingerprint(ctx context.Context, fingerprint string) ([]models.Incident, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, headers, body, fingerprint
		FROM incidents
		WHERE fingerprint=?
		ORDER BY id
	`, fingerprint)
	if err != nil {
		return nil, err
	}
	return scanIncidentRows(rows)
}

func scanIncidentRows(rows *sql.Rows) ([]models.Incident, error) {
	defer rows.Close()

	incidents := make([]models.Incident, 0)
	for rows.Next() {
		var (
			inc         models.Incident
			headersJSON string
			bodyJSON    string
		)
		if err := rows.Scan(&inc.ID, &headersJSON, &bodyJSON, &inc.Fingerprint); err != nil {
			return nil, err
		}

		var err error
		if inc.Headers, err = document.Parse([]byte(headersJSON)); err != nil {
			return nil, err
		}
		if inc.Body, err = document.Parse([]byte(bodyJSON)); err != nil {
			return nil, err
		}
		incidents = append(incidents, inc)
	}
	return incidents, rows.Err()
}
