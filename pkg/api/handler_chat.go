package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/driveline-ai/driveline/pkg/models"
)

const maxMessageLength = 10_000

// ChatRequest is the body for POST /api/v1/chat. An empty session_id
// starts a new conversation; the assigned ID rides on every event.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// chatHandler handles POST /api/v1/chat. The response is an SSE stream
// of ChatEvent snapshots; the last event carries done=true with either
// the final message or an error.
func (s *Server) chatHandler(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	if len(req.Message) > maxMessageLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("message exceeds maximum length of %d characters", maxMessageLength)})
		return
	}

	sess, err := s.sessions.GetOrCreate(req.SessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if !sess.TryBeginTurn() {
		c.JSON(http.StatusConflict, gin.H{"error": "a response is already being generated for this session"})
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	sess.SetCancelFunc(cancel)

	history := sess.History()
	stream := s.runner.Run(ctx, req.Message, history)

	h := c.Writer.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	var last models.AgentResponse
	for resp := range stream {
		last = resp
		if !s.writeEvent(c, toChatEvent(sess.ID, resp)) {
			break
		}
	}

	switch {
	case last.FinalMessage != nil:
		sess.AppendTurn(models.NewUserMessage(req.Message), last.TurnMessages, last.FinalMessage)
	case last.Err != nil:
		sess.SetError(last.Err.Error())
	case ctx.Err() != nil:
		// Client went away or the turn was cancelled; Cancel already set
		// the status when it was an explicit cancel.
		sess.Cancel()
	default:
		sess.SetError("turn ended without a final message")
	}
}

// writeEvent sends one SSE data frame. Returns false when the client
// connection is gone.
func (s *Server) writeEvent(c *gin.Context, ev ChatEvent) bool {
	payload, err := json.Marshal(ev)
	if err != nil {
		s.logger.Error("failed to marshal chat event", "error", err)
		return false
	}
	if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", payload); err != nil {
		return false
	}
	c.Writer.Flush()
	return true
}
