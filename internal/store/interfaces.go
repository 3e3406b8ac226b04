package store

import (
	"context"

	"github.com/NomadCrew/vacation-recommender/types"
)

// AttemptStore persists the diagnostic record of every generation attempt.
type AttemptStore interface {
	SaveAttempt(ctx context.Context, attempt types.GenerationAttempt) error
	ListRunAttempts(ctx context.Context, runID string) ([]types.GenerationAttempt, error)
	Ping(ctx context.Context) error
}
