package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func newClaimRouter(t *testing.T, rps float64, burst int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	router := gin.New()
	router.Use(ClaimRateLimitMiddleware(ctx, rps, burst, slog.Default()))
	router.POST("/v1/plans/:plan_id/claims", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func sendClaim(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/plans/p/claims", nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	router.ServeHTTP(w, req)
	return w
}

func TestClaimRateLimitMiddleware_AllowsRequestsWithinLimit(t *testing.T) {
	router := newClaimRouter(t, 10.0, 20)

	for range 5 {
		assert.Equal(t, http.StatusOK, sendClaim(router, "").Code)
	}
}

func TestClaimRateLimitMiddleware_BlocksRequestsExceedingLimit(t *testing.T) {
	router := newClaimRouter(t, 1.0, 2)

	for range 2 {
		assert.Equal(t, http.StatusOK, sendClaim(router, "").Code)
	}

	w := sendClaim(router, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
	assert.Contains(t, w.Body.String(), "Too many claim requests from this IP")
}

func TestClaimRateLimitMiddleware_IndependentLimitsPerIP(t *testing.T) {
	router := newClaimRouter(t, 1.0, 1)

	assert.Equal(t, http.StatusOK, sendClaim(router, "192.168.1.100:12345").Code)
	assert.Equal(t, http.StatusTooManyRequests, sendClaim(router, "192.168.1.100:12346").Code)
	assert.Equal(t, http.StatusOK, sendClaim(router, "192.168.1.101:12345").Code)
}

func TestClaimRateLimitMiddleware_HandlesXForwardedFor(t *testing.T) {
	router := newClaimRouter(t, 1.0, 1)

	send := func(ip string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/plans/p/claims", nil)
		req.Header.Set("X-Forwarded-For", ip)
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.1"))
	assert.Equal(t, http.StatusOK, send("203.0.113.2"))
}

func TestClaimRateLimitMiddleware_RespectsConfiguredLimits(t *testing.T) {
	tests := []struct {
		name              string
		rps               float64
		burst             int
		requestsToSend    int
		expectedSuccesses int
	}{
		{name: "Conservative limits", rps: 1.0, burst: 2, requestsToSend: 6, expectedSuccesses: 2},
		{name: "Moderate limits", rps: 2.0, burst: 5, requestsToSend: 10, expectedSuccesses: 5},
		{name: "Permissive limits", rps: 5.0, burst: 10, requestsToSend: 15, expectedSuccesses: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newClaimRouter(t, tt.rps, tt.burst)

			successes := 0
			for range tt.requestsToSend {
				if sendClaim(router, "192.168.1.50:12345").Code == http.StatusOK {
					successes++
				}
			}

			assert.Equal(t, tt.expectedSuccesses, successes)
		})
	}
}

func TestClaimRateLimiterStore_Sweep(t *testing.T) {
	store := &claimRateLimiterStore{rps: 10.0, burst: 20}

	store.getLimiter("192.168.1.100")
	store.getLimiter("192.168.1.101")

	val, ok := store.limiters.Load("192.168.1.100")
	assert.True(t, ok)
	entry := val.(*claimRateLimiterEntry)
	entry.mu.Lock()
	entry.lastAccess = time.Now().Add(-2 * time.Hour)
	entry.mu.Unlock()

	store.sweep(time.Now().Add(-claimLimiterIdleTTL))

	_, ok = store.limiters.Load("192.168.1.100")
	assert.False(t, ok)
	_, ok = store.limiters.Load("192.168.1.101")
	assert.True(t, ok)
}

func TestClaimRateLimiterStore_CleanupStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := &claimRateLimiterStore{rps: 1, burst: 1}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.cleanupStale(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	<-done
}
