package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-media-organizer/internal/api/middleware"
	"restaurant-media-organizer/internal/library"
)

const maxFilesPerUpload = 20

// UploadImages stores the multipart "images" files under "category".
func (h *Handler) UploadImages(c *gin.Context) {
	if h.maxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize*maxFilesPerUpload)
	}

	form, err := c.MultipartForm()
	if err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	headers := form.File["images"]
	if len(headers) == 0 {
		respondFail(c, http.StatusBadRequest, "No images provided")
		return
	}
	if len(headers) > maxFilesPerUpload {
		respondFail(c, http.StatusBadRequest, fmt.Sprintf("At most %d images per upload", maxFilesPerUpload))
		return
	}

	files := make([]library.UploadFile, 0, len(headers))
	for _, fh := range headers {
		if h.maxUploadSize > 0 && fh.Size > h.maxUploadSize {
			respondFail(c, http.StatusBadRequest, fmt.Sprintf("%s exceeds the maximum upload size", fh.Filename))
			return
		}
		data, err := readFormFile(fh)
		if err != nil {
			respondFail(c, http.StatusBadRequest, fmt.Sprintf("Failed to read %s", fh.Filename))
			return
		}
		files = append(files, library.UploadFile{Filename: fh.Filename, Data: data})
	}

	category := c.DefaultPostForm("category", "uncategorized")
	uploaded, err := h.media.UploadImages(c.Request.Context(), middleware.UserID(c), c.Param("id"), category, files)
	if err != nil {
		h.respondError(c, err, "Failed to upload images")
		return
	}

	respondData(c, http.StatusCreated, gin.H{
		"uploaded": uploaded,
		"count":    len(uploaded),
	})
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// DeleteImage deletes one image of a business.
func (h *Handler) DeleteImage(c *gin.Context) {
	err := h.media.DeleteImage(c.Request.Context(), middleware.UserID(c), c.Param("id"), c.Param("imageId"))
	if err != nil {
		h.respondError(c, err, "Failed to delete image")
		return
	}
	respondMessage(c, http.StatusOK, "Image deleted")
}

// MoveImages moves images into a folder and returns the updated business.
func (h *Handler) MoveImages(c *gin.Context) {
	var input struct {
		ImageIDs         []string `json:"imageIds" binding:"required,min=1"`
		TargetFolderPath string   `json:"targetFolderPath" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondFail(c, http.StatusBadRequest, "Image IDs and target folder path are required")
		return
	}

	b, err := h.media.MoveImages(c.Request.Context(), middleware.UserID(c), c.Param("id"), input.ImageIDs, input.TargetFolderPath)
	if err != nil {
		h.respondError(c, err, "Failed to move images")
		return
	}
	respondData(c, http.StatusOK, b)
}
