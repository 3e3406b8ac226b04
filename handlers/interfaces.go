package handlers

import (
	"context"

	"github.com/NomadCrew/vacation-recommender/types"
)

// RecommendationServiceInterface defines the recommendation operations needed by handlers.
type RecommendationServiceInterface interface {
	GenerateRecommendations(ctx context.Context, prefs types.UserPreferences) (*types.RecommendationsResponse, error)
	Geocode(ctx context.Context, req types.GeocodeRequest) (*types.GeocodeResponse, error)
	DestinationImage(ctx context.Context, query string) (*types.DestinationImageResponse, error)
	GetRunAttempts(ctx context.Context, runID string) ([]types.GenerationAttempt, error)
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	CheckHealth(ctx context.Context) types.HealthCheck
}
