package services

import (
	"context"
	"errors"
	"testing"

	"github.com/NomadCrew/vacation-recommender/internal/store/postgres"
	"github.com/NomadCrew/vacation-recommender/logger"
	"github.com/NomadCrew/vacation-recommender/types"
	"github.com/go-redis/redismock/v9"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

func TestHealthService_CheckHealth(t *testing.T) {
	tests := []struct {
		name           string
		completion     bool
		geocoding      bool
		setupMocks     func(db pgxmock.PgxPoolIface, redisMock redismock.ClientMock)
		expectedStatus types.HealthStatus
		expectedComps  map[string]types.HealthStatus
	}{
		{
			name:       "all dependencies healthy",
			completion: true,
			geocoding:  true,
			setupMocks: func(db pgxmock.PgxPoolIface, redisMock redismock.ClientMock) {
				db.ExpectPing()
				redisMock.ExpectPing().SetVal("PONG")
			},
			expectedStatus: types.HealthStatusUp,
			expectedComps: map[string]types.HealthStatus{
				"completion":    types.HealthStatusUp,
				"geocoding":     types.HealthStatusUp,
				"redis":         types.HealthStatusUp,
				"attempt_store": types.HealthStatusUp,
			},
		},
		{
			name:       "geocoding disabled degrades",
			completion: true,
			setupMocks: func(db pgxmock.PgxPoolIface, redisMock redismock.ClientMock) {
				db.ExpectPing()
				redisMock.ExpectPing().SetVal("PONG")
			},
			expectedStatus: types.HealthStatusDegraded,
			expectedComps: map[string]types.HealthStatus{
				"geocoding": types.HealthStatusDegraded,
			},
		},
		{
			name:       "redis and database down only degrade",
			completion: true,
			geocoding:  true,
			setupMocks: func(db pgxmock.PgxPoolIface, redisMock redismock.ClientMock) {
				db.ExpectPing().WillReturnError(errors.New("connection refused"))
				redisMock.ExpectPing().SetErr(errors.New("redis connection failed"))
			},
			expectedStatus: types.HealthStatusDegraded,
			expectedComps: map[string]types.HealthStatus{
				"redis":         types.HealthStatusDown,
				"attempt_store": types.HealthStatusDown,
			},
		},
		{
			name:      "missing completion key is down",
			geocoding: true,
			setupMocks: func(db pgxmock.PgxPoolIface, redisMock redismock.ClientMock) {
				db.ExpectPing()
				redisMock.ExpectPing().SetErr(errors.New("redis connection failed"))
			},
			expectedStatus: types.HealthStatusDown,
			expectedComps: map[string]types.HealthStatus{
				"completion": types.HealthStatusDown,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mockDB.Close()

			redisClient, redisMock := redismock.NewClientMock()
			tt.setupMocks(mockDB, redisMock)

			service := NewHealthService(HealthDependencies{
				Redis:                redisClient,
				AttemptStore:         postgres.NewAttemptStore(mockDB),
				CompletionConfigured: tt.completion,
				GeocodingEnabled:     tt.geocoding,
			}, "1.2.3")

			result := service.CheckHealth(context.Background())

			assert.Equal(t, tt.expectedStatus, result.Status)
			assert.Equal(t, "1.2.3", result.Version)
			assert.NotEmpty(t, result.Timestamp)
			assert.NotEmpty(t, result.Uptime)
			for comp, status := range tt.expectedComps {
				assert.Equal(t, status, result.Components[comp].Status, comp)
			}
			require.NoError(t, mockDB.ExpectationsWereMet())
			require.NoError(t, redisMock.ExpectationsWereMet())
		})
	}
}

func TestHealthService_OptionalDependenciesOmitted(t *testing.T) {
	result := NewHealthService(HealthDependencies{CompletionConfigured: true, GeocodingEnabled: true}, "dev").
		CheckHealth(context.Background())

	assert.Equal(t, types.HealthStatusUp, result.Status)
	assert.NotContains(t, result.Components, "redis")
	assert.NotContains(t, result.Components, "attempt_store")
}
