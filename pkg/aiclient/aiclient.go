// Package aiclient calls the backend's AI and extraction endpoints so the
// OpenAI key never leaves the server.
package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// TokenSource yields the bearer token attached to every request. It is
// usually an identity.Session.
type TokenSource interface {
	IDToken() string
}

// Card is one generated question/answer pair as the backend returns it.
type Card struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Client struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
}

func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Summarize sends note text to the backend and returns the summary.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	var out struct {
		Summary string `json:"summary"`
	}
	if err := c.postJSON(ctx, "/api/summarize", map[string]string{"text": text}, &out); err != nil {
		return "", err
	}
	return out.Summary, nil
}

// GenerateCards asks the backend for flashcards covering the given text.
func (c *Client) GenerateCards(ctx context.Context, text string) ([]Card, error) {
	var out struct {
		Cards []Card `json:"cards"`
	}
	if err := c.postJSON(ctx, "/api/flashcards", map[string]string{"text": text}, &out); err != nil {
		return nil, err
	}
	return out.Cards, nil
}

// ExtractPDF uploads a PDF and returns its extracted text.
func (c *Client) ExtractPDF(ctx context.Context, filename string, pdf io.Reader) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("building upload: %w", err)
	}
	if _, err := io.Copy(part, pdf); err != nil {
		return "", fmt.Errorf("building upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("building upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/extract", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		Text string `json:"text"`
	}
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.Text, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	if tok := c.tokens.IDToken(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s returned %d: %s", req.URL.Path, resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", req.URL.Path, err)
	}
	return nil
}
