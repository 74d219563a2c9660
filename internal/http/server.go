// Package http provides the gin HTTP server, its router and shared middleware.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/allisson/codepool/internal/auth/domain"
	authHTTP "github.com/allisson/codepool/internal/auth/http"
	authService "github.com/allisson/codepool/internal/auth/service"
	codesHTTP "github.com/allisson/codepool/internal/codes/http"
	"github.com/allisson/codepool/internal/config"
	"github.com/allisson/codepool/internal/metrics"
)

// Pinger reports whether the backing store is reachable. *sql.DB and the memory store
// both satisfy it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server represents the API HTTP server.
type Server struct {
	db     Pinger
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// NewServer creates a new HTTP server. SetupRouter must be called before Start.
func NewServer(
	db Pinger,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter registers middleware and routes.
//
// Admin routes: POST /v1/codes, DELETE /v1/plans/:plan_id, GET /v1/plans,
// GET /v1/plans/:plan_id/codes and GET /v1/redemptions. Storefront routes:
// POST /v1/plans/:plan_id/claims and GET /v1/plans/:plan_id/availability.
// ctx bounds background work started by middleware.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	codeHandler *codesHTTP.CodeHandler,
	planHandler *codesHTTP.PlanHandler,
	authenticator authService.Authenticator,
	metricsProvider *metrics.Provider,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	authn := authHTTP.AuthenticationMiddleware(authenticator, s.logger)
	admin := authHTTP.AuthorizationMiddleware(authDomain.RoleAdmin, s.logger)
	storefront := authHTTP.AuthorizationMiddleware(authDomain.RoleStorefront, s.logger)

	v1 := router.Group("/v1")
	v1.Use(RequestTimeoutMiddleware(cfg.RequestTimeout))
	v1.Use(authn)
	{
		v1.POST("/codes", admin, codeHandler.IssueHandler)

		claimChain := []gin.HandlerFunc{storefront}
		if cfg.RateLimitClaimEnabled {
			claimChain = append(claimChain, authHTTP.ClaimRateLimitMiddleware(
				ctx,
				cfg.RateLimitClaimRequestsPerSec,
				cfg.RateLimitClaimBurst,
				s.logger,
			))
		}
		claimChain = append(claimChain, codeHandler.ClaimHandler)

		plans := v1.Group("/plans")
		{
			plans.GET("", admin, planHandler.ListHandler)
			plans.DELETE("/:plan_id", admin, planHandler.DeleteHandler)
			plans.GET("/:plan_id/codes", admin, planHandler.ListCodesHandler)
			plans.GET("/:plan_id/availability", storefront, planHandler.AvailabilityHandler)
			plans.POST("/:plan_id/claims", claimChain...)
		}

		v1.GET("/redemptions", admin, planHandler.ListRedemptionsHandler)
	}

	s.router = router
	s.server.Handler = router
}

// GetHandler returns the configured http.Handler.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server and blocks until it is shut down.
func (s *Server) Start(ctx context.Context) error {
	if s.server.Handler == nil {
		s.server.Handler = s.router
	}

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if s.db == nil || s.db.PingContext(ctx) != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}
