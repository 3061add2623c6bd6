package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/suykerbuyk/examnotes/internal/logger"
	"github.com/suykerbuyk/examnotes/internal/pipeline"
)

// Options configures the HTTP surface.
type Options struct {
	// APIKeyConfigured gates generation; requests fail fast without a key.
	APIKeyConfigured bool
	RequestTimeout   time.Duration
}

// Server exposes the notes pipeline over HTTP.
type Server struct {
	driver *pipeline.Driver
	opts   Options
	log    *logger.Logger
}

// New creates a Server around driver.
func New(driver *pipeline.Driver, opts Options, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}
	return &Server{driver: driver, opts: opts, log: log}
}

// Routes builds the gin engine.
func (s *Server) Routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/api/notes", s.handleNotes)
	return router
}

func (s *Server) handleNotes(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, pipeline.ErrorBody{Error: "Invalid request body: " + err.Error()})
		return
	}

	req, err := pipeline.Decode(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, pipeline.ErrorBody{Error: pipeline.Message(err)})
		return
	}

	if !s.opts.APIKeyConfigured {
		c.JSON(http.StatusInternalServerError, pipeline.ErrorBody{Error: "API key not configured."})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.opts.RequestTimeout)
	defer cancel()

	n, err := s.driver.WithRunID(c.GetHeader("X-Request-Id")).Generate(ctx, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, pipeline.ErrorBody{Error: pipeline.Message(err)})
		return
	}
	c.JSON(http.StatusOK, n)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds())
	}
}
