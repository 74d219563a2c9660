package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	provider, err := NewProvider("codepool_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "codepool_test"))
	router.POST("/v1/plans/:plan_id/claims", func(c *gin.Context) {
		if c.Param("plan_id") == "empty" {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": "redacted"})
	})

	for _, path := range []string{
		"/v1/plans/0190a8a0-0000-7000-8000-000000000001/claims",
		"/v1/plans/0190a8a0-0000-7000-8000-000000000002/claims",
		"/v1/plans/empty/claims",
		"/v1/unknown",
	} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, path, nil))
	}

	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	output := w.Body.String()

	// Both plans share one series keyed by the route pattern.
	assertBizMetricLine(t, output, `codepool_test_http_requests_total`,
		`path="/v1/plans/:plan_id/claims".*status_code="200"`, `2`)
	assertBizMetricLine(t, output, `codepool_test_http_requests_total`,
		`path="/v1/plans/:plan_id/claims".*status_code="404"`, `1`)
	assertBizMetricLine(t, output, `codepool_test_http_requests_total`,
		`path="unknown".*status_code="404"`, `1`)
	assertBizMetricLine(t, output, `codepool_test_http_request_duration_seconds_bucket`,
		`path="/v1/plans/:plan_id/claims".*le="0.005"`, ``)
	assertBizMetricLine(t, output, `codepool_test_http_requests_in_flight`,
		`path="/v1/plans/:plan_id/claims"`, `0`)
	assert.False(t, strings.Contains(output, "0190a8a0-0000-7000-8000-000000000001"))
}

func TestSanitizePath(t *testing.T) {
	assert.Equal(t, "/v1/plans/:plan_id/claims", sanitizePath("/v1/plans/:plan_id/claims"))
	assert.Equal(t, "/", sanitizePath("/"))
	assert.Equal(t, "unknown", sanitizePath(""))
}
