package http

import (
	"log/slog"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	customValidation "github.com/allisson/codepool/internal/validation"
)

// createCORSMiddleware returns nil when CORS is disabled, when no origins are configured,
// or when the list contains "*". The storefront backend normally calls the API
// server-to-server; CORS is only for a browser checkout that calls the claim route
// directly. API keys travel in headers, so credentials are not allowed.
func createCORSMiddleware(enabled bool, allowOrigins string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	origins := customValidation.SplitList(allowOrigins)
	if len(origins) == 0 {
		logger.Warn("CORS enabled but no origins configured, CORS will not be applied")
		return nil
	}
	if slices.Contains(origins, "*") {
		logger.Warn("CORS wildcard origin refused, CORS will not be applied")
		return nil
	}

	logger.Info("CORS enabled",
		slog.Int("origin_count", len(origins)),
		slog.Any("origins", origins))

	return cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "POST", "DELETE"},
		AllowHeaders:  []string{"Authorization", "Content-Type", "X-API-Key"},
		ExposeHeaders: []string{"X-Request-Id"},
		MaxAge:        12 * time.Hour,
	})
}
