// Package http provides the HTTP adapter for the application layer.
// Handlers translate requests into application service calls; no
// business rule lives here.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mjvanrooyen/claimflow/internal/application/service"
	"github.com/mjvanrooyen/claimflow/internal/domain/workflow"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	JWTSecret    string
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	logger     Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(
	config ServerConfig,
	claimService service.ClaimService,
	workflowService service.WorkflowService,
	documentService service.DocumentService,
	summaryService service.SummaryService,
	logger Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	server := &Server{
		config: config,
		router: router,
		logger: logger,
	}

	router.Use(gin.Recovery())
	router.Use(server.loggingMiddleware())

	handlers := NewHandlers(claimService, workflowService, documentService, summaryService, logger)

	router.GET("/health", handlers.HealthCheck)

	api := router.Group("/api", AuthMiddleware(config.JWTSecret))
	{
		claims := api.Group("/claims")
		{
			claims.POST("", handlers.CreateClaim)
			claims.GET("", handlers.ListClaims)
			claims.GET("/review", RequireAnyRole(workflow.RoleCoordinator, workflow.RoleManager), handlers.ReviewQueue)
			claims.GET("/:id", handlers.GetClaim)
			claims.DELETE("/:id", RequireAnyRole(workflow.RoleManager), handlers.DeleteClaim)
			claims.GET("/:id/history", handlers.ClaimHistory)
			claims.POST("/:id/items", handlers.AddLineItem)
			claims.POST("/:id/documents", handlers.UploadDocument)
			claims.POST("/:id/status", handlers.SetStatus)
			claims.POST("/:id/coordinator-decision", RequireAnyRole(workflow.RoleCoordinator), handlers.CoordinatorDecision)
			claims.POST("/:id/manager-decision", RequireAnyRole(workflow.RoleManager), handlers.ManagerDecision)
		}

		hr := api.Group("/hr", RequireAnyRole(workflow.RoleManager))
		{
			hr.GET("/summary", handlers.Summary)
			hr.GET("/summary/detail", handlers.SummaryDetail)
			hr.GET("/summary/export", handlers.ExportSummary)
		}
	}

	return server
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// Start begins serving requests; it blocks until the server stops
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("HTTP server starting", "addr", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the gin engine for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}
