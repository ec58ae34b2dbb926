package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

// A private key for context access
type contextKey string

const userContextKey = contextKey("user")

// User is the verified identity attached to the request context.
type User struct {
	UID string
}

// TokenVerifier is satisfied by *auth.Client; tests substitute a fake.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthMiddleware creates a middleware that verifies Firebase ID tokens.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.Request.Header.Get("Authorization")

		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString := strings.Replace(authHeader, "Bearer ", "", 1)
		token, err := verifier.VerifyIDToken(c.Request.Context(), tokenString)
		if err != nil {
			log.Printf("Error verifying Firebase ID token: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid auth token"})
			return
		}

		// Store the verified user in the context for handlers to use
		ctx := context.WithValue(c.Request.Context(), userContextKey, &User{UID: token.UID})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// ForContext finds the user from the context.
func ForContext(ctx context.Context) *User {
	raw, _ := ctx.Value(userContextKey).(*User)
	return raw
}
