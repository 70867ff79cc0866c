// Package httpapi exposes the lookup pipeline over HTTP, plus health,
// readiness, and metrics endpoints.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/river-quality-service/internal/domain"
	"github.com/couchcryptid/river-quality-service/internal/service"
)

// LookupService is the slice of the orchestrator the API needs.
type LookupService interface {
	Lookup(ctx context.Context, query string) (domain.Result, error)
	CheckReadiness(ctx context.Context) error
}

// Server wires the gin router and the underlying http.Server.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	svc        LookupService
	logger     *slog.Logger
}

// NewServer creates the API server with routes and middleware registered.
func NewServer(addr string, svc LookupService, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(corsMiddleware())

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      engine,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		engine: engine,
		svc:    svc,
		logger: logger,
	}

	// Programming faults anywhere below the handler surface as a generic
	// error body, never a dropped connection.
	engine.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic in request handler", "path", c.Request.URL.Path, "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, domain.Result{
			Status: domain.StatusError,
			Error:  fmt.Sprintf("internal error: %v", recovered),
		})
	}))

	engine.GET("/v1/rwqi", s.handleLookup)
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	engine.GET("/readyz", s.handleReady)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the router, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

func (s *Server) handleLookup(c *gin.Context) {
	query := strings.TrimSpace(c.Query("river"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "river query parameter is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	result, err := s.svc.Lookup(ctx, query)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, result)
	case errors.Is(err, service.ErrEmptyQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrRiverNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		s.logger.Error("lookup failed", "river", query, "error", err)
		c.JSON(http.StatusInternalServerError, domain.Result{
			River:  query,
			Status: domain.StatusError,
			Error:  err.Error(),
		})
	}
}

func (s *Server) handleReady(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.svc.CheckReadiness(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
