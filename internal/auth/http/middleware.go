package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/codepool/internal/auth/domain"
	authService "github.com/allisson/codepool/internal/auth/service"
	"github.com/allisson/codepool/internal/httputil"
)

// APIKeyHeader is the alternative header carrying the API key.
const APIKeyHeader = "X-API-Key"

// AuthenticationMiddleware resolves the caller's role from the API key and stores it in the
// request context.
//
// The key is read from "Authorization: Bearer <key>" (case-insensitive scheme) or from the
// X-API-Key header. Missing, malformed or unknown keys produce 401 Unauthorized.
func AuthenticationMiddleware(
	authenticator authService.Authenticator,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		plainKey, ok := extractAPIKey(c)
		if !ok {
			logger.Debug("authentication failed: missing or malformed api key")
			httputil.HandleErrorGin(c, authDomain.ErrInvalidAPIKey, logger)
			c.Abort()
			return
		}

		role, err := authenticator.Authenticate(c.Request.Context(), plainKey)
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithRole(c.Request.Context(), role))

		logger.Debug("authentication successful", slog.String("role", string(role)))

		c.Next()
	}
}

// AuthorizationMiddleware rejects callers whose role does not allow the required role.
// It must run after AuthenticationMiddleware. Admin keys pass every check.
func AuthorizationMiddleware(required authDomain.Role, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c.Request.Context())
		if !ok {
			logger.Debug("authorization failed: no authenticated role in context")
			httputil.HandleErrorGin(c, authDomain.ErrInvalidAPIKey, logger)
			c.Abort()
			return
		}

		if !role.Allows(required) {
			logger.Debug("authorization failed: insufficient role",
				slog.String("role", string(role)),
				slog.String("required", string(required)),
				slog.String("path", c.Request.URL.Path))
			httputil.HandleErrorGin(c, authDomain.ErrInsufficientRole, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

func extractAPIKey(c *gin.Context) (string, bool) {
	if key := c.GetHeader(APIKeyHeader); key != "" {
		return key, true
	}

	authHeader := c.GetHeader("Authorization")
	const bearerPrefix = "bearer "
	if len(authHeader) <= len(bearerPrefix) ||
		!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}

	key := strings.TrimSpace(authHeader[len(bearerPrefix):])
	return key, key != ""
}
