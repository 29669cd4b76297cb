package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-media-organizer/internal/api/middleware"
)

// CreateFolder handles folder creation
func (h *Handler) CreateFolder(c *gin.Context) {
	var input struct {
		FolderPath string `json:"folderPath" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondFail(c, http.StatusBadRequest, "Folder path is required")
		return
	}

	if err := h.media.CreateFolder(c.Request.Context(), middleware.UserID(c), c.Param("id"), input.FolderPath); err != nil {
		h.respondError(c, err, "Failed to create folder")
		return
	}
	respondMessage(c, http.StatusCreated, "Folder created")
}

// RenameFolder renames a folder and everything below it.
func (h *Handler) RenameFolder(c *gin.Context) {
	var input struct {
		OldFolderPath string `json:"oldFolderPath" binding:"required"`
		NewFolderPath string `json:"newFolderPath" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondFail(c, http.StatusBadRequest, "Old and new folder paths are required")
		return
	}

	b, err := h.media.RenameFolder(c.Request.Context(), middleware.UserID(c), c.Param("id"), input.OldFolderPath, input.NewFolderPath)
	if err != nil {
		h.respondError(c, err, "Failed to rename folder")
		return
	}
	respondData(c, http.StatusOK, b)
}

// DeleteFolder deletes a folder with all media below it.
func (h *Handler) DeleteFolder(c *gin.Context) {
	folderPath := c.Query("folderPath")
	if folderPath == "" {
		respondFail(c, http.StatusBadRequest, "Folder path is required")
		return
	}

	b, err := h.media.DeleteFolder(c.Request.Context(), middleware.UserID(c), c.Param("id"), folderPath)
	if err != nil {
		h.respondError(c, err, "Failed to delete folder")
		return
	}
	respondData(c, http.StatusOK, b)
}
