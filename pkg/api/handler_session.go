package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// createSessionHandler handles POST /api/v1/sessions.
func (s *Server) createSessionHandler(c *gin.Context) {
	sess := s.sessions.Create()
	c.JSON(http.StatusCreated, toSessionView(sess, false))
}

// listSessionsHandler handles GET /api/v1/sessions.
func (s *Server) listSessionsHandler(c *gin.Context) {
	clones := s.sessions.List()
	views := make([]SessionView, len(clones))
	for i := range clones {
		views[i] = toSessionView(&clones[i], false)
	}
	c.JSON(http.StatusOK, gin.H{"sessions": views})
}

// getSessionHandler handles GET /api/v1/sessions/:id, including history.
func (s *Server) getSessionHandler(c *gin.Context) {
	sess, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toSessionView(sess, true))
}

// deleteSessionHandler handles DELETE /api/v1/sessions/:id.
func (s *Server) deleteSessionHandler(c *gin.Context) {
	if err := s.sessions.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// cancelSessionHandler handles POST /api/v1/sessions/:id/cancel.
func (s *Server) cancelSessionHandler(c *gin.Context) {
	sess, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if !sess.Cancel() {
		c.JSON(http.StatusConflict, gin.H{"error": "no turn is in flight for this session"})
		return
	}
	c.JSON(http.StatusOK, toSessionView(sess, false))
}
