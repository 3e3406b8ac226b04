package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/NomadCrew/vacation-recommender/internal/store"
	"github.com/NomadCrew/vacation-recommender/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of *pgxpool.Pool the store needs. pgxmock pools satisfy it.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
}

// AttemptStore implements store.AttemptStore on PostgreSQL.
type AttemptStore struct {
	db DBTX
}

var _ store.AttemptStore = (*AttemptStore)(nil)

func NewAttemptStore(db DBTX) *AttemptStore {
	return &AttemptStore{db: db}
}

// SaveAttempt inserts one attempt record.
func (s *AttemptStore) SaveAttempt(ctx context.Context, a types.GenerationAttempt) error {
	query := `
		INSERT INTO generation_attempts (
			run_id, attempt, outcome, error_message, violation_count,
			raw_excerpt, sanitized_head, temperature, latency_ms, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := s.db.Exec(ctx, query,
		a.RunID,
		a.Attempt,
		a.Outcome,
		a.ErrorMessage,
		a.ViolationCount,
		a.RawExcerpt,
		a.SanitizedHead,
		a.Temperature,
		a.Latency.Milliseconds(),
		a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save attempt %d of run %s: %w", a.Attempt, a.RunID, err)
	}
	return nil
}

// ListRunAttempts returns a run's attempts in order. It returns
// store.ErrNotFound when the run has none.
func (s *AttemptStore) ListRunAttempts(ctx context.Context, runID string) ([]types.GenerationAttempt, error) {
	query := `
		SELECT run_id, attempt, outcome, error_message, violation_count,
			raw_excerpt, sanitized_head, temperature, latency_ms, created_at
		FROM generation_attempts
		WHERE run_id = $1
		ORDER BY attempt ASC`

	rows, err := s.db.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts for run %s: %w", runID, err)
	}
	defer rows.Close()

	var attempts []types.GenerationAttempt
	for rows.Next() {
		var (
			a         types.GenerationAttempt
			latencyMs int64
		)
		if err := rows.Scan(
			&a.RunID,
			&a.Attempt,
			&a.Outcome,
			&a.ErrorMessage,
			&a.ViolationCount,
			&a.RawExcerpt,
			&a.SanitizedHead,
			&a.Temperature,
			&latencyMs,
			&a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attempt row: %w", err)
		}
		a.Latency = time.Duration(latencyMs) * time.Millisecond
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attempt rows: %w", err)
	}

	if len(attempts) == 0 {
		return nil, store.ErrNotFound
	}
	return attempts, nil
}

func (s *AttemptStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
