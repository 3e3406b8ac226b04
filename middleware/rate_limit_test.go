package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRateLimiter struct {
	mock.Mock
}

func (m *MockRateLimiter) CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, int, time.Duration, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Int(1), args.Get(2).(time.Duration), args.Error(3)
}

func newRateLimitedRouter(limiter RateLimiter) *gin.Engine {
	router := gin.New()
	router.Use(ErrorHandler())
	router.POST("/v1/recommendations", GenerateRateLimiter(limiter, 5, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestGenerateRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name            string
		allowed         bool
		remaining       int
		retryAfter      time.Duration
		err             error
		expectedStatus  int
		expectRemaining string
		expectRetry     string
	}{
		{
			name:            "within limit",
			allowed:         true,
			remaining:       3,
			expectedStatus:  http.StatusOK,
			expectRemaining: "3",
		},
		{
			name:            "over limit",
			retryAfter:      42 * time.Second,
			expectedStatus:  http.StatusTooManyRequests,
			expectRemaining: "0",
			expectRetry:     "42",
		},
		{
			name:           "backend failure fails open",
			err:            errors.New("redis: connection refused"),
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := new(MockRateLimiter)
			limiter.On("CheckLimit", mock.Anything, "generate:192.0.2.1", 5, time.Minute).
				Return(tt.allowed, tt.remaining, tt.retryAfter, tt.err)

			req := httptest.NewRequest(http.MethodPost, "/v1/recommendations", nil)
			req.RemoteAddr = "192.0.2.1:5555"
			w := httptest.NewRecorder()
			newRateLimitedRouter(limiter).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectRemaining, w.Header().Get("X-RateLimit-Remaining"))
			assert.Equal(t, tt.expectRetry, w.Header().Get("Retry-After"))
			limiter.AssertExpectations(t)
		})
	}
}

func TestGenerateRateLimiter_NilLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	newRateLimitedRouter(nil).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/recommendations", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
