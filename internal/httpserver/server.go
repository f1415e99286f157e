// Package httpserver exposes one finished analysis over a small read-only
// HTTP API. The handlers serve the same Result struct the JSON export
// writes, so both surfaces always agree.
package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mediascribe/loglens/internal/model"
)

// Server serves the analysis result of one completed run.
type Server struct {
	addr      string
	result    *model.Result
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates an HTTP API server over a finished result.
func NewServer(addr string, result *model.Result) *Server {
	if addr == "" {
		addr = "127.0.0.1:3000"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:   addr,
		result: result,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Handler builds the gin router. Exposed for tests.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/health", s.handleHealth)
	r.GET("/api/analysis", s.handleAnalysis)
	r.GET("/api/predictions", s.handlePredictions)
	r.GET("/api/integrity", s.handleIntegrity)

	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.startTime = time.Now()

	go s.server.Serve(listener)
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"uptime":        time.Since(s.startTime).String(),
		"total_entries": s.result.Statistics.TotalEntries,
		"unique_errors": s.result.Errors.UniqueCount,
	})
}

func (s *Server) handleAnalysis(c *gin.Context) {
	c.JSON(http.StatusOK, s.result)
}

func (s *Server) handlePredictions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"predictions": s.result.Predictions})
}

func (s *Server) handleIntegrity(c *gin.Context) {
	c.JSON(http.StatusOK, s.result.DataIntegrity)
}
