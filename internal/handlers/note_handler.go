package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/models"
	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/store"
)

// CreateNotePayload defines the expected JSON for creating a note.
type CreateNotePayload struct {
	Title     string `json:"title"`
	ClassName string `json:"className"`
	Body      string `json:"body"`
}

func (h *Handler) CreateNote(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	var payload CreateNotePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}
	newNote := models.Note{
		Title:     payload.Title,
		ClassName: payload.ClassName,
		Body:      payload.Body,
	}
	id, err := h.Store.CreateNote(c.Request.Context(), user.UID, newNote)
	if err != nil {
		log.Printf("[NoteHandler] Failed to create note: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save note"})
		return
	}
	newNote.ID = id
	c.JSON(http.StatusCreated, newNote)
}

func (h *Handler) ListNotes(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	notes, err := h.Store.ListNotes(c.Request.Context(), user.UID)
	if err != nil {
		log.Printf("[NoteHandler] Failed to list notes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notes"})
		return
	}
	c.JSON(http.StatusOK, notes)
}

// UpdateNotePayload is a merge-write: only the fields present are touched.
type UpdateNotePayload struct {
	Title     *string `json:"title"`
	ClassName *string `json:"className"`
	Body      *string `json:"body"`
	Pinned    *bool   `json:"pinned"`
}

func (h *Handler) UpdateNote(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	var payload UpdateNotePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}
	fields := store.Fields{}
	if payload.Title != nil {
		fields[store.FieldTitle] = *payload.Title
	}
	if payload.ClassName != nil {
		fields[store.FieldClassName] = *payload.ClassName
	}
	if payload.Body != nil {
		fields[store.FieldBody] = *payload.Body
	}
	if payload.Pinned != nil {
		fields[store.FieldPinned] = *payload.Pinned
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}
	fields[store.FieldUpdatedAt] = store.ServerTimestamp

	if err := h.Store.SaveNoteFields(c.Request.Context(), user.UID, c.Param("id"), fields); err != nil {
		log.Printf("[NoteHandler] Failed to update note %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update note"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Note updated successfully"})
}

func (h *Handler) DeleteNote(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	if err := h.Store.DeleteNote(c.Request.Context(), user.UID, c.Param("id")); err != nil {
		log.Printf("[NoteHandler] Failed to delete note %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete note"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Note deleted successfully"})
}
