package services

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/NomadCrew/vacation-recommender/errors"
	"github.com/NomadCrew/vacation-recommender/internal/recommendation"
	"github.com/NomadCrew/vacation-recommender/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context, runID string, prefs types.UserPreferences) (*recommendation.Result, error) {
	args := m.Called(ctx, runID, prefs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recommendation.Result), args.Error(1)
}

type MockEnricher struct {
	mock.Mock
}

func (m *MockEnricher) Enrich(ctx context.Context, recs []types.VacationRecommendation) int {
	args := m.Called(ctx, recs)
	return args.Int(0)
}

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, destination, country string) (*types.Coordinates, error) {
	args := m.Called(ctx, destination, country)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Coordinates), args.Error(1)
}

type MockImageSearcher struct {
	mock.Mock
}

func (m *MockImageSearcher) SearchDestinationImage(ctx context.Context, query string) (string, error) {
	args := m.Called(ctx, query)
	return args.String(0), args.Error(1)
}

func servicePreferences() types.UserPreferences {
	return types.UserPreferences{
		Budget: types.Budget{
			Min:      decimal.NewFromInt(1000),
			Max:      decimal.NewFromInt(5000),
			Currency: "USD",
		},
		Duration:          types.TripDuration{Days: 7},
		TripType:          types.TripTypeCouple,
		AccommodationType: types.AccommodationHotel,
		Activities:        []string{"museums"},
		Pace:              types.PaceRelaxed,
		Climate:           types.ClimateAny,
		Sustainability:    types.SustainabilityMedium,
	}
}

const testRunID = "0b6a4f0e-3c1d-4b8e-9f2a-7d5c6e8f9a01"

func newTestRecommendationService(runner RecommendationRunner, enricher CoordinateEnricher, geo *MockGeocoder, images *MockImageSearcher, attempts *memoryAttemptStore) *RecommendationService {
	s := NewRecommendationService(runner, enricher, nil, nil, nil)
	if geo != nil {
		s.geocoder = geo
	}
	if images != nil {
		s.images = images
	}
	if attempts != nil {
		s.attempts = attempts
	}
	s.newRunID = func() string { return testRunID }
	return s
}

func TestRecommendationService_GenerateRecommendations(t *testing.T) {
	prefs := servicePreferences()
	recs := []types.VacationRecommendation{{ID: "1", Destination: "Lisbon"}, {ID: "2", Destination: "Kyoto"}}

	runner := new(MockRunner)
	enricher := new(MockEnricher)
	runner.On("Run", mock.Anything, testRunID, prefs).
		Return(&recommendation.Result{RunID: testRunID, Attempts: 2, Recommendations: recs}, nil)
	enricher.On("Enrich", mock.Anything, recs).Return(1)

	resp, err := newTestRecommendationService(runner, enricher, nil, nil, nil).
		GenerateRecommendations(context.Background(), prefs)

	require.NoError(t, err)
	assert.Equal(t, testRunID, resp.RunID)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, recs, resp.Recommendations)
	runner.AssertExpectations(t)
	enricher.AssertExpectations(t)
}

func TestRecommendationService_RunIsDetachedFromCancellation(t *testing.T) {
	prefs := servicePreferences()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := new(MockRunner)
	runner.On("Run", mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil }), testRunID, prefs).
		Return(&recommendation.Result{RunID: testRunID, Attempts: 1}, nil)

	_, err := newTestRecommendationService(runner, nil, nil, nil, nil).GenerateRecommendations(ctx, prefs)

	require.NoError(t, err)
	runner.AssertExpectations(t)
}

func TestRecommendationService_InvalidPreferences(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *types.UserPreferences)
	}{
		{"inverted budget", func(p *types.UserPreferences) { p.Budget.Min = decimal.NewFromInt(9000) }},
		{"zero days", func(p *types.UserPreferences) { p.Duration.Days = 0 }},
		{"unsupported currency", func(p *types.UserPreferences) { p.Budget.Currency = "XYZ" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefs := servicePreferences()
			tt.mutate(&prefs)
			runner := new(MockRunner)

			_, err := newTestRecommendationService(runner, nil, nil, nil, nil).
				GenerateRecommendations(context.Background(), prefs)

			assert.Equal(t, apperrors.ValidationError, apperrors.KindOf(err))
			runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestRecommendationService_ExhaustedRetriesCarryRunID(t *testing.T) {
	prefs := servicePreferences()
	exhausted := &recommendation.ExhaustedRetriesError{
		RunID:    testRunID,
		Attempts: 3,
		LastKind: apperrors.DecodeError,
		Last:     apperrors.Decode(errors.New("unexpected end")),
	}
	runner := new(MockRunner)
	enricher := new(MockEnricher)
	runner.On("Run", mock.Anything, testRunID, prefs).Return(nil, exhausted)

	_, err := newTestRecommendationService(runner, enricher, nil, nil, nil).
		GenerateRecommendations(context.Background(), prefs)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.RetriesExhaustedError, appErr.Type)
	assert.Equal(t, testRunID, appErr.RunID)
	assert.Empty(t, appErr.Detail)

	var target *recommendation.ExhaustedRetriesError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, 3, target.Attempts)
	enricher.AssertNotCalled(t, "Enrich", mock.Anything, mock.Anything)
}

func TestRecommendationService_Geocode(t *testing.T) {
	t.Run("match", func(t *testing.T) {
		geo := new(MockGeocoder)
		geo.On("Geocode", mock.Anything, "Lisbon", "Portugal").
			Return(&types.Coordinates{Latitude: 38.72, Longitude: -9.14}, nil)

		resp, err := newTestRecommendationService(nil, nil, geo, nil, nil).
			Geocode(context.Background(), types.GeocodeRequest{Destination: "Lisbon", Country: "Portugal"})

		require.NoError(t, err)
		require.NotNil(t, resp.Coordinates)
		assert.Equal(t, 38.72, resp.Coordinates.Latitude)
	})

	t.Run("lookup failure is swallowed", func(t *testing.T) {
		geo := new(MockGeocoder)
		geo.On("Geocode", mock.Anything, "Kyoto", "Japan").
			Return(nil, apperrors.Upstream("mapbox", 500, "boom"))

		resp, err := newTestRecommendationService(nil, nil, geo, nil, nil).
			Geocode(context.Background(), types.GeocodeRequest{Destination: "Kyoto", Country: "Japan"})

		require.NoError(t, err)
		assert.Nil(t, resp.Coordinates)
	})

	t.Run("no geocoder", func(t *testing.T) {
		resp, err := newTestRecommendationService(nil, nil, nil, nil, nil).
			Geocode(context.Background(), types.GeocodeRequest{Destination: "Kyoto", Country: "Japan"})

		require.NoError(t, err)
		assert.Nil(t, resp.Coordinates)
	})

	t.Run("blank destination", func(t *testing.T) {
		_, err := newTestRecommendationService(nil, nil, nil, nil, nil).
			Geocode(context.Background(), types.GeocodeRequest{Destination: "  ", Country: "Japan"})

		assert.Equal(t, apperrors.ValidationError, apperrors.KindOf(err))
	})
}

func TestRecommendationService_DestinationImage(t *testing.T) {
	images := new(MockImageSearcher)
	images.On("SearchDestinationImage", mock.Anything, "Lisbon Portugal landscape").
		Return("https://images.pexels.com/photos/1/lisbon.jpeg", nil)
	images.On("SearchDestinationImage", mock.Anything, "Nowhere").
		Return("", errors.New("pexels API returned status 500"))

	s := newTestRecommendationService(nil, nil, nil, images, nil)

	resp, err := s.DestinationImage(context.Background(), " Lisbon Portugal landscape ")
	require.NoError(t, err)
	assert.Equal(t, "https://images.pexels.com/photos/1/lisbon.jpeg", resp.ImageURL)

	resp, err = s.DestinationImage(context.Background(), "Nowhere")
	require.NoError(t, err)
	assert.Empty(t, resp.ImageURL)

	_, err = s.DestinationImage(context.Background(), "")
	assert.Equal(t, apperrors.ValidationError, apperrors.KindOf(err))
}

func TestRecommendationService_GetRunAttempts(t *testing.T) {
	attempts := &memoryAttemptStore{}
	require.NoError(t, attempts.SaveAttempt(context.Background(), testAttempt(testRunID, 1)))
	require.NoError(t, attempts.SaveAttempt(context.Background(), testAttempt(testRunID, 2)))

	s := newTestRecommendationService(nil, nil, nil, nil, attempts)

	got, err := s.GetRunAttempts(context.Background(), testRunID)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = s.GetRunAttempts(context.Background(), "5d9c1f1e-0000-4000-8000-000000000000")
	assert.Equal(t, apperrors.NotFoundError, apperrors.KindOf(err))

	_, err = s.GetRunAttempts(context.Background(), "not-a-uuid")
	assert.Equal(t, apperrors.ValidationError, apperrors.KindOf(err))

	_, err = newTestRecommendationService(nil, nil, nil, nil, nil).GetRunAttempts(context.Background(), testRunID)
	assert.Equal(t, apperrors.NotFoundError, apperrors.KindOf(err))
}
