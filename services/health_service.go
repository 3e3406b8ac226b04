package services

import (
	"context"
	"time"

	"github.com/NomadCrew/vacation-recommender/logger"
	"github.com/NomadCrew/vacation-recommender/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is anything whose connectivity can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthDependencies lists what the service reports on. Nil clients are
// omitted from the report.
type HealthDependencies struct {
	Redis                *redis.Client
	AttemptStore         Pinger
	CompletionConfigured bool
	GeocodingEnabled     bool
}

type HealthService struct {
	deps      HealthDependencies
	version   string
	startTime time.Time
	log       *zap.SugaredLogger
}

func NewHealthService(deps HealthDependencies, version string) *HealthService {
	return &HealthService{
		deps:      deps,
		version:   version,
		startTime: time.Now(),
		log:       logger.GetLogger(),
	}
}

// CheckHealth reports DOWN only when recommendations cannot be generated at
// all. Redis, the attempt store and geocoding are optional and degrade the
// status instead.
func (h *HealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	components := make(map[string]types.HealthComponent)
	overall := types.HealthStatusUp

	degrade := func(name string, comp types.HealthComponent) {
		components[name] = comp
		if comp.Status != types.HealthStatusUp && overall == types.HealthStatusUp {
			overall = types.HealthStatusDegraded
		}
	}

	if h.deps.CompletionConfigured {
		components["completion"] = types.HealthComponent{Status: types.HealthStatusUp}
	} else {
		components["completion"] = types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Completion API key not configured",
		}
		overall = types.HealthStatusDown
	}

	if h.deps.GeocodingEnabled {
		degrade("geocoding", types.HealthComponent{Status: types.HealthStatusUp})
	} else {
		degrade("geocoding", types.HealthComponent{
			Status:  types.HealthStatusDegraded,
			Details: "Mapbox token not configured, coordinates disabled",
		})
	}

	if h.deps.Redis != nil {
		degrade("redis", h.checkRedis(ctx))
	}
	if h.deps.AttemptStore != nil {
		degrade("attempt_store", h.checkAttemptStore(ctx))
	}

	return types.HealthCheck{
		Status:     overall,
		Components: components,
		Version:    h.version,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
	}
}

func (h *HealthService) checkRedis(ctx context.Context) types.HealthComponent {
	if err := h.deps.Redis.Ping(ctx).Err(); err != nil {
		h.log.Errorw("Redis health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Redis connection failed, rate limiting disabled",
		}
	}
	return types.HealthComponent{Status: types.HealthStatusUp}
}

func (h *HealthService) checkAttemptStore(ctx context.Context) types.HealthComponent {
	if err := h.deps.AttemptStore.Ping(ctx); err != nil {
		h.log.Errorw("Attempt store health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Database connection failed",
		}
	}
	return types.HealthComponent{Status: types.HealthStatusUp}
}
