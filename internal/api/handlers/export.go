package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"restaurant-media-organizer/internal/api/middleware"
	"restaurant-media-organizer/internal/library"
)

func (h *Handler) exportRows(c *gin.Context) ([]library.ExportRow, bool) {
	rows, err := h.media.Export(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to fetch media")
		return nil, false
	}
	return rows, true
}

func (h *Handler) ExportCSV(c *gin.Context) {
	rows, ok := h.exportRows(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment;filename=media_%s.csv", c.Param("id")))

	writer := csv.NewWriter(c.Writer)
	if err := writer.Write([]string{"ID", "Filename", "Folder", "Format", "Size", "Width", "Height", "URL", "Uploaded At"}); err != nil {
		respondFail(c, http.StatusInternalServerError, "Failed to write CSV header")
		return
	}

	for _, r := range rows {
		if err := writer.Write([]string{
			r.ID,
			r.Filename,
			r.Folder,
			r.Format,
			strconv.FormatInt(r.FileSize, 10),
			strconv.Itoa(r.Width),
			strconv.Itoa(r.Height),
			r.URL,
			r.UploadedAt.Format(time.RFC3339),
		}); err != nil {
			respondFail(c, http.StatusInternalServerError, "Failed to write CSV data")
			return
		}
	}

	writer.Flush()
}

func (h *Handler) ExportJSON(c *gin.Context) {
	rows, ok := h.exportRows(c)
	if !ok {
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment;filename=media_%s.json", c.Param("id")))

	jsonData, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		respondFail(c, http.StatusInternalServerError, "Failed to marshal JSON")
		return
	}

	c.Data(http.StatusOK, "application/json", jsonData)
}
