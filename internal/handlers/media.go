package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rentamaq/api/internal/service"
)

// UploadHero receives the marketing site's hero image. The 5MB limit is
// checked against the multipart header before anything touches disk.
func (h HandlerSet) UploadHero(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "se requiere un archivo"})
		return
	}
	defer file.Close()

	result, err := h.uploadService.Upload(c.Request.Context(), service.UploadInput{
		File:   file,
		Header: header,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":       result.URL,
		"mime":      result.MIME,
		"sizeBytes": result.Size,
	})
}
