// Package store persists reconciliation batches to SQLite so runs can
// be inspected and re-exported later.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nomina-io/nomina/pkg/entities"
)

// Store manages reconciliation persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// BatchSummary describes one persisted batch.
type BatchSummary struct {
	ID          string
	CreatedAt   time.Time
	EntityCount int
}

// Open initializes or connects to the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	s := &Store{db: db, path: path}
	if err := s.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveBatch persists a batch and all of its results atomically.
func (s *Store) SaveBatch(ctx context.Context, batchID string, results []entities.ReconciliationResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO batches (id, created_at, entity_count) VALUES (?, ?, ?)",
		batchID, time.Now().UTC().Format(time.RFC3339), len(results))
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}

	for _, r := range results {
		var contextJSON string
		if len(r.Entity.Context) > 0 {
			raw, err := json.Marshal(r.Entity.Context)
			if err != nil {
				return fmt.Errorf("marshal entity context: %w", err)
			}
			contextJSON = string(raw)
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO results (
				batch_id, entity_id, entity_name, entity_type, entity_context,
				fingerprint, overall_confidence, sources_queried, from_cache,
				elapsed_seconds, error
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			batchID, r.Entity.ID, r.Entity.Name, r.Entity.Type.String(), contextJSON,
			r.Entity.Fingerprint(), r.OverallConfidence.String(),
			strings.Join(r.SourcesQueried, ";"), r.FromCache,
			r.ElapsedSeconds, r.Error)
		if err != nil {
			return fmt.Errorf("insert result: %w", err)
		}

		resultID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("result id: %w", err)
		}

		for rank, c := range r.Candidates {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO candidates (
					result_id, position, external_id, label, description, source, score, tier
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				resultID, rank, c.ExternalID, c.Label, c.Description,
				c.Source, c.Score, c.Tier.String())
			if err != nil {
				return fmt.Errorf("insert candidate: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// Batches lists persisted batches, newest first.
func (s *Store) Batches(ctx context.Context) ([]BatchSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, created_at, entity_count FROM batches ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()

	var out []BatchSummary
	for rows.Next() {
		var b BatchSummary
		var created string
		if err := rows.Scan(&b.ID, &created, &b.EntityCount); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		b.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, b)
	}
	return out, rows.Err()
}

// Results loads all results of a batch in insertion order, with their
// candidates ranked as originally stored.
func (s *Store) Results(ctx context.Context, batchID string) ([]entities.ReconciliationResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, entity_id, entity_name, entity_type, entity_context,
		       overall_confidence, sources_queried, from_cache, elapsed_seconds, error
		FROM results WHERE batch_id = ? ORDER BY id`, batchID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []entities.ReconciliationResult
	var resultIDs []int64
	for rows.Next() {
		var (
			resultID    int64
			entityID    string
			name        string
			typ         string
			contextJSON string
			confidence  string
			queried     string
			fromCache   bool
			elapsed     float64
			errNote     string
		)
		if err := rows.Scan(&resultID, &entityID, &name, &typ, &contextJSON,
			&confidence, &queried, &fromCache, &elapsed, &errNote); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}

		var entityContext map[string]string
		if contextJSON != "" {
			if err := json.Unmarshal([]byte(contextJSON), &entityContext); err != nil {
				return nil, fmt.Errorf("unmarshal entity context: %w", err)
			}
		}

		e, err := entities.New(entityID, name, entities.Type(typ), entityContext)
		if err != nil {
			return nil, fmt.Errorf("rebuild entity %q: %w", entityID, err)
		}

		r := entities.ReconciliationResult{
			Entity:            e,
			OverallConfidence: entities.Confidence(confidence),
			FromCache:         fromCache,
			ElapsedSeconds:    elapsed,
			Error:             errNote,
		}
		if queried != "" {
			r.SourcesQueried = strings.Split(queried, ";")
		}
		out = append(out, r)
		resultIDs = append(resultIDs, resultID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, resultID := range resultIDs {
		candidates, err := s.candidates(ctx, resultID)
		if err != nil {
			return nil, err
		}
		out[i].Candidates = candidates
	}
	return out, nil
}

func (s *Store) candidates(ctx context.Context, resultID int64) ([]entities.MatchCandidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT external_id, label, description, source, score, tier
		FROM candidates WHERE result_id = ? ORDER BY position`, resultID)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var out []entities.MatchCandidate
	for rows.Next() {
		var c entities.MatchCandidate
		var tier string
		if err := rows.Scan(&c.ExternalID, &c.Label, &c.Description, &c.Source, &c.Score, &tier); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		c.Tier = entities.ConfidenceTier(tier)
		out = append(out, c)
	}
	return out, rows.Err()
}
