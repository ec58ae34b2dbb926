// Package handlers exposes the HTTP surface: AI delegation, PDF extraction,
// per-user preferences, and REST CRUD over the document store.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aidenmac0822-glitch/Intense-Notes/internal/ai"
	"github.com/aidenmac0822-glitch/Intense-Notes/internal/middleware"
	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/store"
)

// Handler carries the dependencies shared by all routes.
type Handler struct {
	Store  store.Store
	AI     ai.Generator
	Themes ThemeStore

	// SpeechWSURL is advertised to clients for live transcription; empty
	// means the feature is unavailable.
	SpeechWSURL string
}

// HealthCheck reports process liveness.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ClientConfig tells clients which optional capabilities this deployment has.
func (h *Handler) ClientConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"speechWsUrl": h.SpeechWSURL})
}

// RegisterRoutes wires every route onto the router. All routes except the
// health check require a verified ID token.
func (h *Handler) RegisterRoutes(router *gin.Engine, verifier middleware.TokenVerifier) {
	router.GET("/health", h.HealthCheck)

	api := router.Group("/api").Use(middleware.AuthMiddleware(verifier))
	{
		// AI DELEGATES
		api.POST("/summarize", h.Summarize)
		api.POST("/flashcards", h.GenerateFlashcards)
		api.POST("/extract", h.ExtractPDF)

		// PREFERENCES
		api.GET("/prefs/theme", h.GetTheme)
		api.PUT("/prefs/theme", h.PutTheme)

		// CLIENT CAPABILITIES
		api.GET("/client-config", h.ClientConfig)
	}

	v1 := router.Group("/api/v1").Use(middleware.AuthMiddleware(verifier))
	{
		// NOTE ROUTES
		v1.POST("/notes", h.CreateNote)
		v1.GET("/notes", h.ListNotes)
		v1.PUT("/notes/:id", h.UpdateNote)
		v1.DELETE("/notes/:id", h.DeleteNote)

		// TASK ROUTES
		v1.POST("/tasks", h.CreateTask)
		v1.GET("/tasks", h.ListTasks)
		v1.PUT("/tasks/:id", h.UpdateTask)
		v1.DELETE("/tasks/:id", h.DeleteTask)

		// FLASHCARD ROUTES
		v1.POST("/cards", h.AddFlashcards)
		v1.GET("/cards", h.ListFlashcards)

		// SEARCH ROUTE
		v1.GET("/search", h.SearchItems)
	}
}

// currentUser pulls the verified user off the request, writing the 401 when
// it is missing.
func currentUser(c *gin.Context) *middleware.User {
	user := middleware.ForContext(c.Request.Context())
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return user
}
