// Package identity wraps sign-in/sign-out against the external identity
// provider and exposes the current authenticated user, or none. Everything
// else in the client core is gated on this.
package identity

import (
	"context"
	"log"
	"sync"
	"time"
)

// User is the authenticated identity plus the tokens needed to talk to the
// backing services on its behalf.
type User struct {
	UID          string
	Email        string
	DisplayName  string
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
}

// Provider performs the actual authentication flows. SignIn is the
// interactive flow; Resume redeems a refresh token stashed by a previous
// session, the fallback used when the interactive flow fails.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*User, error)
	Resume(ctx context.Context, refreshToken string) (*User, error)
}

// TokenStash persists the refresh token between sessions so a blocked
// interactive flow can be recovered on next load.
type TokenStash interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Session holds the live "current user or none" value. Transitions are
// broadcast to watchers: none→user starts the collection mirror, user→none
// tears it down.
type Session struct {
	provider Provider
	stash    TokenStash

	mu       sync.Mutex
	user     *User
	watchers []func(*User)
}

func NewSession(provider Provider, stash TokenStash) *Session {
	return &Session{provider: provider, stash: stash}
}

// OnChange registers a watcher called with the new user (or nil) after every
// transition.
func (s *Session) OnChange(fn func(*User)) {
	s.mu.Lock()
	s.watchers = append(s.watchers, fn)
	s.mu.Unlock()
}

// Current returns the signed-in user, or nil.
func (s *Session) Current() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// IDToken returns the current bearer token, or empty when signed out.
func (s *Session) IDToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ""
	}
	return s.user.IDToken
}

// Restore collects the result of a previous session at startup: if a refresh
// token was stashed, it is redeemed without user interaction. Returns false
// when there is nothing to restore.
func (s *Session) Restore(ctx context.Context) (bool, error) {
	if s.stash == nil {
		return false, nil
	}
	token, err := s.stash.Load()
	if err != nil || token == "" {
		return false, err
	}
	user, err := s.provider.Resume(ctx, token)
	if err != nil {
		return false, err
	}
	s.adopt(user)
	return true, nil
}

// SignIn runs the interactive flow. If it fails and a stashed refresh token
// exists, the session falls back to resuming it; otherwise the original
// failure is returned. No further retry classification is attempted.
func (s *Session) SignIn(ctx context.Context, email, password string) error {
	user, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		log.Printf("[Identity] interactive sign-in failed: %v", err)
		if s.stash != nil {
			if token, loadErr := s.stash.Load(); loadErr == nil && token != "" {
				if resumed, resumeErr := s.provider.Resume(ctx, token); resumeErr == nil {
					s.adopt(resumed)
					return nil
				}
			}
		}
		return err
	}
	s.adopt(user)
	return nil
}

// SignOut clears the session and the stashed token.
func (s *Session) SignOut() {
	s.mu.Lock()
	s.user = nil
	watchers := append([]func(*User){}, s.watchers...)
	s.mu.Unlock()
	if s.stash != nil {
		if err := s.stash.Clear(); err != nil {
			log.Printf("[Identity] clearing stashed token: %v", err)
		}
	}
	for _, fn := range watchers {
		fn(nil)
	}
}

func (s *Session) adopt(user *User) {
	s.mu.Lock()
	s.user = user
	watchers := append([]func(*User){}, s.watchers...)
	s.mu.Unlock()
	if s.stash != nil && user.RefreshToken != "" {
		if err := s.stash.Save(user.RefreshToken); err != nil {
			log.Printf("[Identity] stashing refresh token: %v", err)
		}
	}
	for _, fn := range watchers {
		fn(user)
	}
}
