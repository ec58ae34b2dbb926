package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/prefs"
)

// ThemeStore persists the per-user theme preference server-side, so a user
// keeps their theme across devices.
type ThemeStore interface {
	Theme(ctx context.Context, uid string) (string, error)
	SetTheme(ctx context.Context, uid, theme string) error
}

// RedisThemeStore keeps themes under prefs:theme:{uid}.
type RedisThemeStore struct {
	client *redis.Client
}

func NewRedisThemeStore(client *redis.Client) *RedisThemeStore {
	return &RedisThemeStore{client: client}
}

func themeKey(uid string) string { return "prefs:theme:" + uid }

func (s *RedisThemeStore) Theme(ctx context.Context, uid string) (string, error) {
	v, err := s.client.Get(ctx, themeKey(uid)).Result()
	if errors.Is(err, redis.Nil) {
		return prefs.ThemeLight, nil
	}
	if err != nil {
		return "", err
	}
	if v != prefs.ThemeDark {
		return prefs.ThemeLight, nil
	}
	return v, nil
}

func (s *RedisThemeStore) SetTheme(ctx context.Context, uid, theme string) error {
	return s.client.Set(ctx, themeKey(uid), theme, 0).Err()
}

// MemoryThemeStore is the fallback when no Redis is configured; themes last
// for the process lifetime only.
type MemoryThemeStore struct {
	mu     sync.Mutex
	themes map[string]string
}

func NewMemoryThemeStore() *MemoryThemeStore {
	return &MemoryThemeStore{themes: make(map[string]string)}
}

func (s *MemoryThemeStore) Theme(ctx context.Context, uid string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.themes[uid]; ok {
		return v, nil
	}
	return prefs.ThemeLight, nil
}

func (s *MemoryThemeStore) SetTheme(ctx context.Context, uid, theme string) error {
	s.mu.Lock()
	s.themes[uid] = theme
	s.mu.Unlock()
	return nil
}

// GetTheme returns the caller's stored theme, defaulting to light.
func (h *Handler) GetTheme(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	theme, err := h.Themes.Theme(c.Request.Context(), user.UID)
	if err != nil {
		log.Printf("[PrefsHandler] reading theme for %s: %v", user.UID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read preferences"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

type themePayload struct {
	Theme string `json:"theme" binding:"required"`
}

// PutTheme stores the caller's theme choice.
func (h *Handler) PutTheme(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	var payload themePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if payload.Theme != prefs.ThemeLight && payload.Theme != prefs.ThemeDark {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Theme must be light or dark"})
		return
	}
	if err := h.Themes.SetTheme(c.Request.Context(), user.UID, payload.Theme); err != nil {
		log.Printf("[PrefsHandler] storing theme for %s: %v", user.UID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store preferences"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": payload.Theme})
}
