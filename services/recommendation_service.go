package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/NomadCrew/vacation-recommender/errors"
	"github.com/NomadCrew/vacation-recommender/internal/recommendation"
	"github.com/NomadCrew/vacation-recommender/internal/store"
	"github.com/NomadCrew/vacation-recommender/logger"
	"github.com/NomadCrew/vacation-recommender/pkg/mapbox"
	"github.com/NomadCrew/vacation-recommender/pkg/pexels"
	"github.com/NomadCrew/vacation-recommender/pkg/valueobjects"
	"github.com/NomadCrew/vacation-recommender/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecommendationRunner produces one validated batch per call.
type RecommendationRunner interface {
	Run(ctx context.Context, runID string, prefs types.UserPreferences) (*recommendation.Result, error)
}

// CoordinateEnricher attaches coordinates to a batch in place.
type CoordinateEnricher interface {
	Enrich(ctx context.Context, recs []types.VacationRecommendation) int
}

// RecommendationService is the entry point for the UI: it validates the
// questionnaire, runs the generation pipeline and enriches the result.
type RecommendationService struct {
	runner   RecommendationRunner
	enricher CoordinateEnricher
	geocoder mapbox.ClientInterface
	images   pexels.ClientInterface
	attempts store.AttemptStore
	newRunID func() string
	log      *zap.SugaredLogger
}

// NewRecommendationService wires the pipeline. geocoder, images and attempts
// may be nil; the matching operations then return empty results.
func NewRecommendationService(
	runner RecommendationRunner,
	enricher CoordinateEnricher,
	geocoder mapbox.ClientInterface,
	images pexels.ClientInterface,
	attempts store.AttemptStore,
) *RecommendationService {
	return &RecommendationService{
		runner:   runner,
		enricher: enricher,
		geocoder: geocoder,
		images:   images,
		attempts: attempts,
		newRunID: func() string { return uuid.NewString() },
		log:      logger.GetLogger().Named("recommendation-service"),
	}
}

// GenerateRecommendations validates prefs and returns a full batch. The run is
// detached from ctx cancellation: a client that goes away lets the in-flight
// completion finish and the result is discarded by the caller.
func (s *RecommendationService) GenerateRecommendations(ctx context.Context, prefs types.UserPreferences) (*types.RecommendationsResponse, error) {
	if err := prefs.Validate(); err != nil {
		return nil, apperrors.ValidationFailed("Invalid preferences", err.Error())
	}
	if !valueobjects.IsSupportedCurrency(prefs.Budget.Currency) {
		return nil, apperrors.ValidationFailed("Invalid preferences",
			fmt.Sprintf("unsupported currency %q", prefs.Budget.Currency))
	}

	runID := s.newRunID()
	runCtx := context.WithoutCancel(ctx)
	start := time.Now()

	result, err := s.runner.Run(runCtx, runID, prefs)
	if err != nil {
		var exhausted *recommendation.ExhaustedRetriesError
		if errors.As(err, &exhausted) {
			if exhausted.RunID == "" {
				exhausted.RunID = runID
			}
			return nil, exhausted.AppError()
		}
		return nil, err
	}

	resolved := 0
	if s.enricher != nil {
		resolved = s.enricher.Enrich(runCtx, result.Recommendations)
	}

	s.log.Infow("Recommendations generated",
		"runId", runID,
		"attempts", result.Attempts,
		"count", len(result.Recommendations),
		"geocoded", resolved,
		"elapsed", time.Since(start))

	return &types.RecommendationsResponse{
		RunID:           runID,
		Recommendations: result.Recommendations,
		Count:           len(result.Recommendations),
	}, nil
}

// Geocode resolves one destination. Lookup failures are logged and reported
// as "no coordinates", never as errors.
func (s *RecommendationService) Geocode(ctx context.Context, req types.GeocodeRequest) (*types.GeocodeResponse, error) {
	if strings.TrimSpace(req.Destination) == "" {
		return nil, apperrors.ValidationFailed("Invalid geocode request", "destination is required")
	}
	if s.geocoder == nil {
		return &types.GeocodeResponse{}, nil
	}

	coords, err := s.geocoder.Geocode(ctx, req.Destination, req.Country)
	if err != nil {
		s.log.Warnw("Geocoding failed",
			"destination", req.Destination,
			"country", req.Country,
			"kind", apperrors.KindOf(err),
			"error", err)
		return &types.GeocodeResponse{}, nil
	}
	return &types.GeocodeResponse{Coordinates: coords}, nil
}

// DestinationImage looks up a landscape photo for records that came back
// without one. An empty URL means no image is available.
func (s *RecommendationService) DestinationImage(ctx context.Context, query string) (*types.DestinationImageResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.ValidationFailed("Invalid image query", "query is required")
	}
	if s.images == nil {
		return &types.DestinationImageResponse{}, nil
	}

	imageURL, err := s.images.SearchDestinationImage(ctx, query)
	if err != nil {
		s.log.Warnw("Destination image lookup failed", "query", query, "error", err)
		return &types.DestinationImageResponse{}, nil
	}
	return &types.DestinationImageResponse{ImageURL: imageURL}, nil
}

// GetRunAttempts returns the persisted attempt log of one run.
func (s *RecommendationService) GetRunAttempts(ctx context.Context, runID string) ([]types.GenerationAttempt, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return nil, apperrors.ValidationFailed("Invalid run ID", "run ID must be a UUID")
	}
	if s.attempts == nil {
		return nil, apperrors.NotFound("Run", runID)
	}

	attempts, err := s.attempts.ListRunAttempts(ctx, runID)
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrStoreDisabled):
		return nil, apperrors.NotFound("Run", runID)
	case err != nil:
		return nil, apperrors.NewDatabaseError(err)
	}
	return attempts, nil
}
