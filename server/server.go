// Package server exposes a session's resolved style tables to the
// renderer-binding layer over HTTP and WebSocket.
//
// The server never touches presentation objects: it hands out style
// records and pushes a "changed" notification (the full table) to
// WebSocket subscribers after every completed pass.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/halo-viz/halo-go/internal/session"
)

// Server bridges one session to the renderer integration.
type Server struct {
	sess   *session.Session
	active *session.ActiveState
	log    *logrus.Logger
	engine *gin.Engine
	hub    *hub
}

// New creates a server around a session and wires the session's
// refresh notification to the WebSocket broadcast.
func New(sess *session.Session, active *session.ActiveState, log *logrus.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		sess:   sess,
		active: active,
		log:    log,
		engine: gin.New(),
		hub:    newHub(log),
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(requestLogger(log))
	s.registerRoutes()

	sess.OnRefresh(s.broadcast)
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the context is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.log.WithField("addr", addr).Info("serving styles")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.hub.closeAll()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)

	api := s.engine.Group("/api/v1")
	api.GET("/styles", s.handleStyles)
	api.GET("/graph", s.handleGraph)
	api.POST("/active", s.handleSetActive)

	s.engine.GET("/ws", s.handleWS)
}

func (s *Server) handleHealth(c *gin.Context) {
	nodes, edges := s.sess.Counts()
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"nodes":       nodes,
		"edges":       edges,
		"subscribers": s.hub.count(),
	})
}

func (s *Server) handleStyles(c *gin.Context) {
	c.JSON(http.StatusOK, s.sess.Table())
}

func (s *Server) handleGraph(c *gin.Context) {
	nodes, edges := s.sess.Counts()
	activeID, _ := s.active.Get()
	c.JSON(http.StatusOK, gin.H{
		"nodes":     nodes,
		"edges":     edges,
		"active":    activeID,
		"hops":      s.sess.HopLevels(),
		"connected": s.sess.ConnectedSet(),
	})
}

// setActiveRequest is the body of POST /api/v1/active. An empty or
// absent identifier clears the focus.
type setActiveRequest struct {
	ID string `json:"id"`
}

func (s *Server) handleSetActive(c *gin.Context) {
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	s.active.Set(req.ID)
	s.sess.Refresh()

	activeID, _ := s.active.Get()
	c.JSON(http.StatusOK, gin.H{"active": activeID})
}

// broadcast pushes the current style table to every subscriber. Runs
// after every completed pass.
func (s *Server) broadcast() {
	s.hub.broadcast(s.sess.Table())
}

// requestLogger logs one line per request at debug level.
func requestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start),
		}).Debug("request")
	}
}
