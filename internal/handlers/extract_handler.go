package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aidenmac0822-glitch/Intense-Notes/internal/pdf"
)

// ExtractPDF pulls plain text out of an uploaded PDF.
func (h *Handler) ExtractPDF(c *gin.Context) {
	if currentUser(c) == nil {
		return
	}
	if err := c.Request.ParseMultipartForm(pdf.MaxUploadBytes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing form data"})
		return
	}
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "PDF file is required"})
		return
	}
	defer file.Close()

	text, err := pdf.ExtractText(file)
	if err != nil {
		log.Printf("[ExtractHandler] extraction of %s failed: %v", header.Filename, err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Could not extract text from PDF"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}
