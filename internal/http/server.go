// Package http provides the HTTP server, router and shared middleware of the
// vault API.
package http

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/imageguard/internal/metrics"
	vaultHTTP "github.com/allisson/imageguard/internal/vault/http"
)

// RouterConfig holds the settings SetupRouter needs.
type RouterConfig struct {
	MaxRequestBodyBytes int64
	CORSEnabled         bool
	CORSAllowOrigins    string
	MetricsNamespace    string
}

// Vault bodies can approach the request body limit, so reads and writes get
// more time than the metrics server.
const (
	apiReadTimeout  = 60 * time.Second
	apiWriteTimeout = 60 * time.Second
)

// Server is the vault API server.
type Server struct {
	listener
	db     *sql.DB
	router *gin.Engine
}

// NewServer creates the API server. SetupRouter must be called before Start.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		listener: newListener("http server", host, port, apiReadTimeout, apiWriteTimeout, logger),
		db:       db,
	}
}

// SetupRouter builds the Gin router with middleware, health endpoints and the
// vault API. metricsProvider may be nil when metrics are disabled.
func (s *Server) SetupRouter(
	cfg RouterConfig,
	vaultHandler *vaultHTTP.VaultHandler,
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
		httpMetrics, err := metrics.NewHTTPMetrics(metricsProvider.MeterProvider(), cfg.MetricsNamespace)
		if err != nil {
			s.logger.Warn("http metrics disabled", slog.Any("error", err))
		} else {
			router.Use(httpMetrics.Middleware())
		}
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	api := router.Group("/api/vault")
	api.Use(BodyLimitMiddleware(cfg.MaxRequestBodyBytes))
	vaultHandler.RegisterRoutes(api)

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start serves the router until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	return s.serve(s.router)
}

// Shutdown waits for in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.shutdown(ctx)
}

// healthHandler reports liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports readiness; the server is ready once the database answers a ping.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
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
