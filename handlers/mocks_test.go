package handlers

import (
	"context"

	"github.com/NomadCrew/vacation-recommender/types"
	"github.com/stretchr/testify/mock"
)

type MockRecommendationService struct {
	mock.Mock
}

func (m *MockRecommendationService) GenerateRecommendations(ctx context.Context, prefs types.UserPreferences) (*types.RecommendationsResponse, error) {
	args := m.Called(ctx, prefs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecommendationsResponse), args.Error(1)
}

func (m *MockRecommendationService) Geocode(ctx context.Context, req types.GeocodeRequest) (*types.GeocodeResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.GeocodeResponse), args.Error(1)
}

func (m *MockRecommendationService) DestinationImage(ctx context.Context, query string) (*types.DestinationImageResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.DestinationImageResponse), args.Error(1)
}

func (m *MockRecommendationService) GetRunAttempts(ctx context.Context, runID string) ([]types.GenerationAttempt, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.GenerationAttempt), args.Error(1)
}

type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) CheckHealth(ctx context.Context) types.HealthCheck {
	return m.Called(ctx).Get(0).(types.HealthCheck)
}
