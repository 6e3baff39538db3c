// Package server exposes the retrieval pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	talentsift "github.com/talentsift/talentsift"
	"github.com/talentsift/talentsift/pkg/config"
	"github.com/talentsift/talentsift/pkg/server/handlers"
	"github.com/talentsift/talentsift/pkg/telemetry"
)

// Server is the HTTP front of the pipeline.
type Server struct {
	config *config.Config
	client *talentsift.Client
	router *gin.Engine
	server *http.Server
	ready  func() error
}

// New creates a server over the pipeline facade. The ready callback backs
// the readiness probe and may be nil.
func New(cfg *config.Config, client *talentsift.Client, ready func() error) *Server {
	return &Server{config: cfg, client: client, ready: ready}
}

// Setup builds the router and the underlying http.Server.
func (s *Server) Setup() {
	gin.SetMode(s.config.Server.Mode)

	s.router = gin.New()
	s.router.Use(gin.Logger())
	s.router.Use(gin.Recovery())
	s.router.Use(corsMiddleware())
	s.router.Use(contextMiddleware())

	s.setupRoutes()

	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port),
		Handler: s.router,
	}
}

func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler(s.ready)
	jobsHandler := handlers.NewJobsHandler(s.client, s.client, s.client)

	s.router.GET("/health", healthHandler.HealthCheck)
	s.router.GET("/ready", healthHandler.ReadinessCheck)
	s.router.GET("/live", healthHandler.LivenessCheck)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/analyze", jobsHandler.Analyze)
		v1.POST("/chat", jobsHandler.Chat)
		v1.GET("/jobs/:job_id", jobsHandler.GetJobContext)
		v1.DELETE("/jobs/:job_id", jobsHandler.DeleteJobContext)
	}
}

// Start starts the server and blocks until it exits.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the server gracefully.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// corsMiddleware adds CORS headers.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// contextMiddleware tags the request context for the telemetry sink.
func contextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := telemetry.WithRequestID(c.Request.Context(), uuid.New().String())
		if jobID := c.GetHeader("X-Job-ID"); jobID != "" {
			ctx = telemetry.WithJobID(ctx, jobID)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
