package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"only-separators", " , ,", nil},
		{"single", "https://app.example.com", []string{"https://app.example.com"}},
		{
			"trims-space-and-trailing-slash",
			" https://app.example.com/ , https://admin.example.com ",
			[]string{"https://app.example.com", "https://admin.example.com"},
		},
		{"drops-duplicates", "https://a.example.com,https://a.example.com/", []string{"https://a.example.com"}},
		{"wildcard", "*", []string{"*"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseOrigins(tt.raw))
		})
	}
}

func TestCORSConfig(t *testing.T) {
	t.Run("explicit-origins", func(t *testing.T) {
		cfg := corsConfig([]string{"https://app.example.com"})
		assert.False(t, cfg.AllowAllOrigins)
		assert.Equal(t, []string{"https://app.example.com"}, cfg.AllowOrigins)
		assert.False(t, cfg.AllowCredentials)
		require.NoError(t, cfg.Validate())
	})

	t.Run("wildcard-allows-all", func(t *testing.T) {
		cfg := corsConfig([]string{"https://app.example.com", "*"})
		assert.True(t, cfg.AllowAllOrigins)
		assert.Empty(t, cfg.AllowOrigins)
		require.NoError(t, cfg.Validate())
	})
}

func corsRouter(t *testing.T, enabled bool, origins string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if middleware := createCORSMiddleware(enabled, origins, logger); middleware != nil {
		router.Use(middleware)
	}
	router.GET("/api/vault/:imageHash", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"exists": true})
	})
	router.POST("/api/vault/unlock", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})
	return router
}

func TestCreateCORSMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	assert.Nil(t, createCORSMiddleware(false, "https://app.example.com", logger))
	assert.Nil(t, createCORSMiddleware(true, "", logger))
	assert.Nil(t, createCORSMiddleware(true, " , ", logger))
	assert.NotNil(t, createCORSMiddleware(true, "https://app.example.com", logger))
}

func TestCORS_Requests(t *testing.T) {
	tests := []struct {
		name       string
		enabled    bool
		origins    string
		origin     string
		wantOrigin string
		wantStatus int
	}{
		{"allowed-origin", true, "https://app.example.com", "https://app.example.com", "https://app.example.com", http.StatusOK},
		{"disabled", false, "https://app.example.com", "https://app.example.com", "", http.StatusOK},
		{"unknown-origin-rejected", true, "https://app.example.com", "https://evil.example.com", "", http.StatusForbidden},
		{"wildcard", true, "*", "https://anything.example.com", "*", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := corsRouter(t, tt.enabled, tt.origins)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/vault/abc", nil)
			req.Header.Set("Origin", tt.origin)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	router := corsRouter(t, true, "https://app.example.com")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/vault/unlock", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.Equal(t, "43200", w.Header().Get("Access-Control-Max-Age"))
}
