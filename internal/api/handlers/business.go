package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-media-organizer/internal/api/middleware"
)

// GetBusiness returns a business with its images and registered folders.
func (h *Handler) GetBusiness(c *gin.Context) {
	b, err := h.media.GetBusiness(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to fetch business")
		return
	}
	respondData(c, http.StatusOK, b)
}

// Health reports liveness.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
