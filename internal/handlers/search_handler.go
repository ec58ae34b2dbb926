package handlers

import (
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// SearchResultItem defines a generic structure for search results.
type SearchResultItem struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ClassName string    `json:"className,omitempty"`
	Due       string    `json:"due,omitempty"` // For tasks
	CreatedAt time.Time `json:"createdAt"`
}

// SearchItems searches notes and tasks matching a query, case-insensitively,
// over title, class name and note body.
func (h *Handler) SearchItems(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("q")))
	if query == "" {
		c.JSON(http.StatusOK, []SearchResultItem{})
		return
	}

	user := currentUser(c)
	if user == nil {
		return
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	results := []SearchResultItem{}

	ctx := c.Request.Context()

	// Search notes
	wg.Add(1)
	go func() {
		defer wg.Done()
		notes, err := h.Store.ListNotes(ctx, user.UID)
		if err != nil {
			log.Printf("[SearchHandler] Error searching notes: %v", err)
			return
		}
		for _, n := range notes {
			haystack := strings.ToLower(n.Title + " " + n.ClassName + " " + n.Body)
			if !strings.Contains(haystack, query) {
				continue
			}
			mu.Lock()
			results = append(results, SearchResultItem{
				Type:      "note",
				ID:        n.ID,
				Title:     n.Title,
				ClassName: n.ClassName,
				CreatedAt: n.CreatedAt,
			})
			mu.Unlock()
		}
	}()

	// Search tasks
	wg.Add(1)
	go func() {
		defer wg.Done()
		tasks, err := h.Store.ListTasks(ctx, user.UID)
		if err != nil {
			log.Printf("[SearchHandler] Error searching tasks: %v", err)
			return
		}
		for _, t := range tasks {
			haystack := strings.ToLower(t.Title + " " + t.ClassName)
			if !strings.Contains(haystack, query) {
				continue
			}
			mu.Lock()
			results = append(results, SearchResultItem{
				Type:      "task",
				ID:        t.ID,
				Title:     t.Title,
				ClassName: t.ClassName,
				Due:       t.Due,
				CreatedAt: t.CreatedAt,
			})
			mu.Unlock()
		}
	}()

	wg.Wait()
	c.JSON(http.StatusOK, results)
}
