package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// healthHandler handles GET /healthz.
// Returns a minimal response suitable for unauthenticated access. External
// dependencies (LLM and embedding providers) are deliberately not probed so
// an upstream outage does not get this process restarted.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"sessions": len(s.sessions.List()),
	})
}
