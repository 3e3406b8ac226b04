package middleware

import (
	"strings"

	"github.com/NomadCrew/vacation-recommender/config"
	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware sets the response headers expected of a JSON API.
// The swagger UI serves HTML and scripts, so it skips the restrictive CSP.
func SecurityHeadersMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if !strings.HasPrefix(c.Request.URL.Path, "/swagger/") {
			c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			// Generated recommendations are per-request and must not be cached.
			c.Header("Cache-Control", "no-store")
		}

		if cfg.IsProduction() {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
