package config

import (
	"testing"
	"time"

	"github.com/NomadCrew/vacation-recommender/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		expectError bool
	}{
		{
			name: "valid configuration",
			envVars: map[string]string{
				"PERPLEXITY_API_KEY":  "pplx-test-key",
				"MAPBOX_ACCESS_TOKEN": "pk.test",
				"PORT":                "9090",
			},
		},
		{
			name: "missing completion key",
			envVars: map[string]string{
				"PERPLEXITY_API_KEY": "",
				"PORT":               "9090",
			},
			expectError: true,
		},
		{
			name: "placeholder mapbox token is degraded, not fatal",
			envVars: map[string]string{
				"PERPLEXITY_API_KEY":  "pplx-test-key",
				"MAPBOX_ACCESS_TOKEN": PlaceholderMapboxToken,
			},
		},
		{
			name: "invalid batch size",
			envVars: map[string]string{
				"PERPLEXITY_API_KEY":  "pplx-test-key",
				"PIPELINE_BATCH_SIZE": "0",
			},
			expectError: true,
		},
		{
			name: "max delay below base delay",
			envVars: map[string]string{
				"PERPLEXITY_API_KEY":     "pplx-test-key",
				"PIPELINE_BASE_DELAY_MS": "5000",
				"PIPELINE_MAX_DELAY_MS":  "1000",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			cfg, err := LoadConfig()

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			assert.Equal(t, tt.envVars["PERPLEXITY_API_KEY"], cfg.Completion.APIKey)
			if port, ok := tt.envVars["PORT"]; ok {
				assert.Equal(t, port, cfg.Server.Port)
			}
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PERPLEXITY_API_KEY", "pplx-test-key")
	t.Setenv("MAPBOX_ACCESS_TOKEN", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://api.perplexity.ai", cfg.Completion.BaseURL)
	assert.Equal(t, "sonar-pro", cfg.Completion.Model)
	assert.Equal(t, 20000, cfg.Completion.MaxTokens)
	assert.Equal(t, 90*time.Second, cfg.Completion.Timeout())
	assert.Equal(t, 10, cfg.Pipeline.BatchSize)
	assert.Equal(t, 3, cfg.Pipeline.MaxAttempts)
	assert.Equal(t, 1000, cfg.Pipeline.BaseDelayMs)
	assert.Equal(t, 3000, cfg.Pipeline.MaxDelayMs)
	assert.False(t, cfg.Geocoding.Enabled())
	assert.False(t, cfg.Database.Enabled())
	assert.True(t, cfg.IsDevelopment())
}

func TestGeocodingConfigEnabled(t *testing.T) {
	assert.False(t, GeocodingConfig{}.Enabled())
	assert.False(t, GeocodingConfig{AccessToken: PlaceholderMapboxToken}.Enabled())
	assert.True(t, GeocodingConfig{AccessToken: "pk.eyJ1"}.Enabled())
}

func TestValidatePipeline(t *testing.T) {
	assert.NoError(t, validatePipeline(&PipelineConfig{BatchSize: 10, MaxAttempts: 3, BaseDelayMs: 1000, MaxDelayMs: 3000}))
	assert.Error(t, validatePipeline(&PipelineConfig{BatchSize: 10, MaxAttempts: 0, BaseDelayMs: 1000, MaxDelayMs: 3000}))
	assert.Error(t, validatePipeline(&PipelineConfig{BatchSize: 10, MaxAttempts: 3, BaseDelayMs: -1, MaxDelayMs: 3000}))
}

func TestContainsWildcard(t *testing.T) {
	assert.True(t, containsWildcard([]string{"https://a.example", "*"}))
	assert.False(t, containsWildcard([]string{"https://a.example"}))
}
