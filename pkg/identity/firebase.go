package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultSignInBaseURL = "https://identitytoolkit.googleapis.com/v1"
	defaultTokenBaseURL  = "https://securetoken.googleapis.com/v1"
)

// FirebaseProvider authenticates against the Firebase Identity Toolkit REST
// API. Base URLs are overridable for tests.
type FirebaseProvider struct {
	apiKey     string
	httpClient *http.Client

	SignInBaseURL string
	TokenBaseURL  string
}

func NewFirebaseProvider(apiKey string) *FirebaseProvider {
	return &FirebaseProvider{
		apiKey:        apiKey,
		httpClient:    &http.Client{Timeout: 15 * time.Second},
		SignInBaseURL: defaultSignInBaseURL,
		TokenBaseURL:  defaultTokenBaseURL,
	}
}

type signInResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	ExpiresIn    string `json:"expiresIn"`
}

func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (*User, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal sign-in payload: %w", err)
	}

	endpoint := p.SignInBaseURL + "/accounts:signInWithPassword?key=" + url.QueryEscape(p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sign-in request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read sign-in response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sign-in failed (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed signInResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse sign-in response: %w", err)
	}
	return &User{
		UID:          parsed.LocalID,
		Email:        parsed.Email,
		DisplayName:  parsed.DisplayName,
		IDToken:      parsed.IDToken,
		RefreshToken: parsed.RefreshToken,
		ExpiresAt:    expiry(parsed.ExpiresIn),
	}, nil
}

type refreshResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
	ExpiresIn    string `json:"expires_in"`
}

func (p *FirebaseProvider) Resume(ctx context.Context, refreshToken string) (*User, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	endpoint := p.TokenBaseURL + "/token?key=" + url.QueryEscape(p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("refresh request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read refresh response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("refresh failed (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed refreshResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse refresh response: %w", err)
	}
	return &User{
		UID:          parsed.UserID,
		IDToken:      parsed.IDToken,
		RefreshToken: parsed.RefreshToken,
		ExpiresAt:    expiry(parsed.ExpiresIn),
	}, nil
}

func expiry(expiresIn string) time.Time {
	secs, err := strconv.Atoi(expiresIn)
	if err != nil || secs <= 0 {
		secs = 3600
	}
	return time.Now().Add(time.Duration(secs) * time.Second)
}

var _ Provider = (*FirebaseProvider)(nil)
