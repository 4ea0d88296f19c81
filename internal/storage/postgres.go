/**
 * PostgreSQL result sink
 *
 * Stores one row per document record, upserted on document_id. A few
 * columns are promoted out of the outcome payload for querying; the full
 * outcome is kept as JSONB for audit.
 */

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	xerrors "github.com/opengovlk/docintel-worker/internal/errors"
	"github.com/opengovlk/docintel-worker/internal/job"
)

// PostgresSink persists pipeline outcomes to PostgreSQL
type PostgresSink struct {
	db *sql.DB
}

// NewPostgresSink connects to the database and verifies connectivity
func NewPostgresSink(databaseURL string) (*PostgresSink, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresSink{db: db}, nil
}

// Persist upserts the outcome for a document record
func (p *PostgresSink) Persist(ctx context.Context, documentID string, outcome *job.PipelineOutcome) error {
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
		INSERT INTO docintel.extraction_outcomes (
			document_id, document_type, detected_type,
			confidence, fields, is_authentic, authenticity_score,
			is_suspicious, outcome, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4::NUMERIC(5,4), $5::jsonb, $6, $7::NUMERIC(5,4),
			$8, $9::jsonb, NOW(), NOW()
		)
		ON CONFLICT (document_id) DO UPDATE SET
			document_type = EXCLUDED.document_type,
			detected_type = EXCLUDED.detected_type,
			confidence = EXCLUDED.confidence,
			fields = EXCLUDED.fields,
			is_authentic = EXCLUDED.is_authentic,
			authenticity_score = EXCLUDED.authenticity_score,
			is_suspicious = EXCLUDED.is_suspicious,
			outcome = EXCLUDED.outcome,
			updated_at = NOW()
	`

	_, err = p.db.ExecContext(
		ctx,
		query,
		documentID,
		outcome.DocumentType,
		outcome.Classification.DetectedType,
		confidence,
		fieldsJSON,
		outcome.Authenticity.IsAuthentic,
		sanitizeConfidence(outcome.Authenticity.Score),
		outcome.Suspicion.IsSuspicious,
		outcomeJSON,
	)
	if err != nil {
		return xerrors.NewPersistenceError(documentID, err)
	}

	return nil
}

// Ping checks database connectivity
func (p *PostgresSink) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close closes the database connection
func (p *PostgresSink) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}
