package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Server is the ambient listener: health/readiness endpoints plus whatever
// the caller mounts on Router() (the signed secrets API, in production).
type Server struct {
	server   *http.Server
	router   *gin.Engine
	db       *sql.DB
	logger   *slog.Logger
	useHTTPS bool
	certPath string
	keyPath  string
}

// NewServer builds the ambient router (recovery, request id, logging,
// healthz/readyz) and wraps it in an *http.Server bound to addr.
func NewServer(db *sql.DB, addr string, useHTTPS bool, certPath, keyPath string, logger *slog.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(logger))

	s := &Server{
		router:   router,
		db:       db,
		logger:   logger,
		useHTTPS: useHTTPS,
		certPath: certPath,
		keyPath:  keyPath,
	}

	router.GET("/healthz", s.healthHandler)
	router.GET("/readyz", s.readinessHandler)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Router exposes the underlying engine so the caller can mount the signed
// API route alongside the health endpoints.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start starts the HTTP server, serving TLS when configured.
func (s *Server) Start() error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr), slog.Bool("tls", s.useHTTPS))

	var err error
	if s.useHTTPS {
		err = s.server.ListenAndServeTLS(s.certPath, s.keyPath)
	} else {
		err = s.server.ListenAndServe()
	}
	if err != nil && err != http.ErrServerClosed {
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
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	if err := s.db.PingContext(c.Request.Context()); err != nil {
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
