package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restaurant-media-organizer/internal/library"
)

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": true, "message": message})
}

func respondFail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": message})
}

// respondError maps library errors onto status codes. Unexpected errors are
// logged and hidden behind fallback.
func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, library.ErrNotFound):
		respondFail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, library.ErrInvalidPath), errors.Is(err, library.ErrInvalidInput):
		respondFail(c, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(fallback,
			zap.String("path", c.FullPath()),
			zap.String("business_id", c.Param("id")),
			zap.Error(err),
		)
		respondFail(c, http.StatusInternalServerError, fallback)
	}
}
