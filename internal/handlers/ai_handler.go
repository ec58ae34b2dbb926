package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type textPayload struct {
	Text string `json:"text" binding:"required"`
}

// Summarize runs the note text through the summarization model.
func (h *Handler) Summarize(c *gin.Context) {
	if currentUser(c) == nil {
		return
	}
	var payload textPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if strings.TrimSpace(payload.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
		return
	}

	summary, err := h.AI.Summarize(c.Request.Context(), payload.Text)
	if err != nil {
		log.Printf("[AIHandler] summarize failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to summarize note"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GenerateFlashcards asks the model for question/answer pairs over the text.
// Bounding to the batch and length caps happens client-side as well; the
// server response is the model output after blank filtering.
func (h *Handler) GenerateFlashcards(c *gin.Context) {
	if currentUser(c) == nil {
		return
	}
	var payload textPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if strings.TrimSpace(payload.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
		return
	}

	cards, err := h.AI.GenerateCards(c.Request.Context(), payload.Text)
	if err != nil {
		log.Printf("[AIHandler] card generation failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to generate flashcards"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cards": cards})
}
