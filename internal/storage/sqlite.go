/**
 * SQLite result sink
 *
 * CGO-free SQLite backend for single-node and development deployments.
 * Same upsert contract as the PostgreSQL sink; the schema is created on
 * first open.
 */

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	xerrors "github.com/opengovlk/docintel-worker/internal/errors"
	"github.com/opengovlk/docintel-worker/internal/job"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS extraction_outcomes (
	document_id        TEXT PRIMARY KEY,
	document_type      TEXT NOT NULL,
	detected_type      TEXT NOT NULL,
	confidence         REAL NOT NULL,
	fields             TEXT NOT NULL,
	is_authentic       INTEGER NOT NULL,
	authenticity_score REAL NOT NULL,
	is_suspicious      INTEGER NOT NULL,
	outcome            TEXT NOT NULL,
	created_at         TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at         TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// SQLiteSink persists pipeline outcomes to a local SQLite file
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink opens (and if needed initializes) the database file
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// the sqlite driver serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent workers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteSink{db: db}, nil
}

// Persist upserts the outcome for a document record
func (s *SQLiteSink) Persist(ctx context.Context, documentID string, outcome *job.PipelineOutcome) error {
	if documentID == "" {
		return xerrors.NewPersistenceError(documentID, fmt.Errorf("document ID is required"))
	}

	outcomeJSON, err := json.Marshal(outcome)
	if err != nil {
		return xerrors.NewPersistenceError(documentID, fmt.Errorf("failed to marshal outcome: %w", err))
	}
	fieldsJSON, err := json.Marshal(outcome.Fields)
	if err != nil {
		return xerrors.NewPersistenceError(documentID, fmt.Errorf("failed to marshal fields: %w", err))
	}

	confidence := 0.0
	if outcome.Extraction != nil {
		confidence = sanitizeConfidence(outcome.Extraction.Confidence)
	}

	query := `
		INSERT INTO extraction_outcomes (
			document_id, document_type, detected_type,
			confidence, fields, is_authentic, authenticity_score,
			is_suspicious, outcome
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (document_id) DO UPDATE SET
			document_type = excluded.document_type,
			detected_type = excluded.detected_type,
			confidence = excluded.confidence,
			fields = excluded.fields,
			is_authentic = excluded.is_authentic,
			authenticity_score = excluded.authenticity_score,
			is_suspicious = excluded.is_suspicious,
			outcome = excluded.outcome,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err = s.db.ExecContext(
		ctx,
		query,
		documentID,
		outcome.DocumentType,
		outcome.Classification.DetectedType,
		confidence,
		string(fieldsJSON),
		outcome.Authenticity.IsAuthentic,
		sanitizeConfidence(outcome.Authenticity.Score),
		outcome.Suspicion.IsSuspicious,
		string(outcomeJSON),
	)
	if err != nil {
		return xerrors.NewPersistenceError(documentID, err)
	}

	return nil
}

// Close closes the database
func (s *SQLiteSink) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
