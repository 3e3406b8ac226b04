package handlers

import (
	"net/http"

	apperrors "github.com/NomadCrew/vacation-recommender/errors"
	"github.com/NomadCrew/vacation-recommender/types"
	"github.com/gin-gonic/gin"
)

// RecommendationHandler exposes the recommendation pipeline to the questionnaire UI.
type RecommendationHandler struct {
	service RecommendationServiceInterface
}

func NewRecommendationHandler(service RecommendationServiceInterface) *RecommendationHandler {
	return &RecommendationHandler{service: service}
}

// GenerateRecommendationsHandler godoc
// @Summary Generate vacation recommendations
// @Description Runs the generation pipeline for a completed questionnaire and returns a full batch of destinations.
// @Tags recommendations
// @Accept json
// @Produce json
// @Param request body types.UserPreferences true "Questionnaire answers"
// @Success 200 {object} types.RecommendationsResponse
// @Failure 400 {object} middleware.ErrorResponse "Invalid preferences"
// @Failure 429 {object} middleware.ErrorResponse "Too many generate requests"
// @Failure 503 {object} middleware.ErrorResponse "Generation failed after all attempts, retry later"
// @Router /v1/recommendations [post]
func (h *RecommendationHandler) GenerateRecommendationsHandler(c *gin.Context) {
	var prefs types.UserPreferences
	if !bindJSONOrError(c, &prefs) {
		return
	}

	resp, err := h.service.GenerateRecommendations(c.Request.Context(), prefs)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GeocodeHandler godoc
// @Summary Geocode a destination
// @Description Resolves a destination to coordinates. Lookup failures return null coordinates, not an error.
// @Tags recommendations
// @Accept json
// @Produce json
// @Param request body types.GeocodeRequest true "Destination and country"
// @Success 200 {object} types.GeocodeResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /v1/geocode [post]
func (h *RecommendationHandler) GeocodeHandler(c *gin.Context) {
	var req types.GeocodeRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	resp, err := h.service.Geocode(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DestinationImageHandler godoc
// @Summary Destination image fallback
// @Description Looks up a landscape photo for a record without an image. imageUrl is empty when none is available.
// @Tags recommendations
// @Produce json
// @Param query query string true "Search text, e.g. destination and country"
// @Success 200 {object} types.DestinationImageResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /v1/destinations/image [get]
func (h *RecommendationHandler) DestinationImageHandler(c *gin.Context) {
	resp, err := h.service.DestinationImage(c.Request.Context(), c.Query("query"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetRunAttemptsHandler godoc
// @Summary Generation attempt log
// @Description Returns the diagnostic attempt records of one generation run. Requires the attempt store.
// @Tags diagnostics
// @Produce json
// @Param runId path string true "Run ID"
// @Success 200 {array} types.GenerationAttempt
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /v1/runs/{runId}/attempts [get]
func (h *RecommendationHandler) GetRunAttemptsHandler(c *gin.Context) {
	attempts, err := h.service.GetRunAttempts(c.Request.Context(), c.Param("runId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, attempts)
}

func bindJSONOrError(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		_ = c.Error(apperrors.ValidationFailed("invalid_request_payload", err.Error()))
		return false
	}
	return true
}
