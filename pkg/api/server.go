// Package api exposes the assistant over HTTP: a streaming chat endpoint
// plus session management and health.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/driveline-ai/driveline/pkg/models"
	"github.com/driveline-ai/driveline/pkg/session"
)

const sweepInterval = time.Minute

// TurnRunner drives one conversation turn, streaming snapshots.
type TurnRunner interface {
	Run(ctx context.Context, userInput string, history []models.Message) <-chan models.AgentResponse
}

// Sweeper drops expired booking sessions; Sweep returns how many.
type Sweeper interface {
	Sweep() int
}

// Server is the HTTP API server.
type Server struct {
	engine   *gin.Engine
	sessions *session.Manager
	runner   TurnRunner
	sweeper  Sweeper
	logger   *slog.Logger

	httpSrv *http.Server
	done    chan struct{}
}

// NewServer wires routes onto a gin engine. sweeper may be nil.
func NewServer(runner TurnRunner, sessions *session.Manager, sweeper Sweeper) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(), securityHeaders())

	s := &Server{
		engine:   engine,
		sessions: sessions,
		runner:   runner,
		sweeper:  sweeper,
		logger:   slog.Default().With("component", "api"),
		done:     make(chan struct{}),
	}

	engine.GET("/healthz", s.healthHandler)

	v1 := engine.Group("/api/v1")
	v1.POST("/chat", s.chatHandler)
	v1.POST("/sessions", s.createSessionHandler)
	v1.GET("/sessions", s.listSessionsHandler)
	v1.GET("/sessions/:id", s.getSessionHandler)
	v1.DELETE("/sessions/:id", s.deleteSessionHandler)
	v1.POST("/sessions/:id/cancel", s.cancelSessionHandler)

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Start serves until Shutdown. Blocks.
func (s *Server) Start(addr string) error {
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.sweeper != nil {
		go s.sweepLoop()
	}

	s.logger.Info("listening", "addr", addr)
	if err := s.httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	close(s.done)
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// sweepLoop periodically drops expired booking OTPs.
func (s *Server) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := s.sweeper.Sweep(); n > 0 {
				s.logger.Info("swept expired booking sessions", "count", n)
			}
		case <-s.done:
			return
		}
	}
}
