package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMeteredRouter(t *testing.T) (*gin.Engine, *Provider) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	provider := newTestProvider(t)
	httpMetrics, err := NewHTTPMetrics(provider.MeterProvider(), "test_app")
	require.NoError(t, err)

	router := gin.New()
	router.Use(httpMetrics.Middleware())
	router.GET("/api/vault/:imageHash", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"exists": false})
	})
	router.POST("/api/vault", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return router, provider
}

func TestHTTPMetrics_Middleware(t *testing.T) {
	t.Run("route-pattern-hides-image-hash", func(t *testing.T) {
		router, provider := newMeteredRouter(t)

		hashes := []string{strings.Repeat("a", 64), strings.Repeat("b", 64)}
		for _, hash := range hashes {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/vault/"+hash, nil))
			assert.Equal(t, http.StatusOK, w.Code)
		}

		output := scrape(t, provider)
		assert.Contains(t, output, "test_app_http_requests_total")
		assert.Contains(t, output, `route="/api/vault/:imageHash"`)
		assert.Contains(t, output, `status_code="200"`)
		for _, hash := range hashes {
			assert.NotContains(t, output, hash)
		}
	})

	t.Run("request-size-recorded-for-bodies", func(t *testing.T) {
		router, provider := newMeteredRouter(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/vault", strings.NewReader(`{"imageHash":"x"}`))
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)

		output := scrape(t, provider)
		assert.Contains(t, output, "test_app_http_request_size_bytes")
		assert.Contains(t, output, `method="POST"`)
	})

	t.Run("unmatched-route", func(t *testing.T) {
		router, provider := newMeteredRouter(t)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/no/such/path", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)

		output := scrape(t, provider)
		assert.Contains(t, output, `route="unmatched"`)
		assert.NotContains(t, output, "/no/such/path")
	})
}
