package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/contact-backend/internal/response"
)

// Health godoc
// GET /api/health
func Health(c *gin.Context) {
	response.Send(c, http.StatusOK, response.Response{
		Message:   "Server is running",
		Timestamp: response.Now(),
	})
}

// NotFound answers every unmatched route.
func NotFound(c *gin.Context) {
	response.Fail(c, http.StatusNotFound, response.ErrRouteNotFound)
}
