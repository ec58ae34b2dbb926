package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/models"
)

// AddFlashcardsPayload is a batch of cards linked to one note. NoteTitle is
// snapshotted onto every card at creation time.
type AddFlashcardsPayload struct {
	NoteID    string `json:"noteId" binding:"required"`
	NoteTitle string `json:"noteTitle" binding:"required"`
	Cards     []struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	} `json:"cards" binding:"required"`
}

// AddFlashcards persists a bounded batch: at most MaxCardsPerBatch cards,
// questions and answers clipped to their limits, blanks dropped.
func (h *Handler) AddFlashcards(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	var payload AddFlashcardsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	batch := make([]models.Flashcard, 0, models.MaxCardsPerBatch)
	for _, card := range payload.Cards {
		q := models.ClipRunes(strings.TrimSpace(card.Question), models.MaxQuestionLen)
		ans := models.ClipRunes(strings.TrimSpace(card.Answer), models.MaxAnswerLen)
		if q == "" || ans == "" {
			continue
		}
		batch = append(batch, models.Flashcard{
			NoteID:    payload.NoteID,
			NoteTitle: payload.NoteTitle,
			Question:  q,
			Answer:    ans,
		})
		if len(batch) == models.MaxCardsPerBatch {
			break
		}
	}
	if len(batch) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No usable cards in batch"})
		return
	}

	n, err := h.Store.AddFlashcards(c.Request.Context(), user.UID, batch)
	if err != nil {
		log.Printf("[FlashcardHandler] Failed to save batch: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save flashcards"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"saved": n})
}

func (h *Handler) ListFlashcards(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	cards, err := h.Store.ListFlashcards(c.Request.Context(), user.UID)
	if err != nil {
		log.Printf("[FlashcardHandler] Failed to list cards: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch flashcards"})
		return
	}
	c.JSON(http.StatusOK, cards)
}
