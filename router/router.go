package router

import (
	"time"

	"github.com/NomadCrew/vacation-recommender/config"
	"github.com/NomadCrew/vacation-recommender/docs"
	"github.com/NomadCrew/vacation-recommender/handlers"
	"github.com/NomadCrew/vacation-recommender/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies holds everything needed to build the routes.
type Dependencies struct {
	Config                *config.Config
	HealthHandler         *handlers.HealthHandler
	RecommendationHandler *handlers.RecommendationHandler
	// RateLimiter may be nil, in which case generation is not rate limited.
	RateLimiter middleware.RateLimiter
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if err := r.SetTrustedProxies(deps.Config.Server.TrustedProxies); err != nil {
		// An invalid proxy list falls back to trusting none.
		_ = r.SetTrustedProxies(nil)
	}

	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))

	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	docs.SwaggerInfo.Version = deps.Config.Server.Version
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	window := time.Duration(deps.Config.RateLimit.WindowSeconds) * time.Second
	generateLimiter := middleware.GenerateRateLimiter(
		deps.RateLimiter,
		deps.Config.RateLimit.GenerateRequestsPerMinute,
		window,
	)

	v1 := r.Group("/v1")
	{
		v1.POST("/recommendations", generateLimiter, deps.RecommendationHandler.GenerateRecommendationsHandler)
		v1.POST("/geocode", deps.RecommendationHandler.GeocodeHandler)
		v1.GET("/destinations/image", deps.RecommendationHandler.DestinationImageHandler)
		v1.GET("/runs/:runId/attempts", deps.RecommendationHandler.GetRunAttemptsHandler)
	}

	return r
}
