// Package ai produces note summaries and flashcards with a chat-completion
// model. Handlers depend on the Generator interface; the OpenAI client is the
// production implementation.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/models"
)

// Card is one generated question/answer pair.
type Card struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Generator turns note text into study material.
type Generator interface {
	Summarize(ctx context.Context, text string) (string, error)
	GenerateCards(ctx context.Context, text string) ([]Card, error)
}

const summaryPrompt = `You are a study assistant. Summarize the following lecture notes in a few short paragraphs, keeping key terms and definitions. Respond with the summary only, no preamble.

NOTES:
%s`

const cardsPrompt = `You are a study assistant. Create flashcards from the following lecture notes. Respond with ONLY a JSON array, no prose, in this exact shape:
[{"question": "...", "answer": "..."}]
Create at most %d cards. Keep each question under %d characters and each answer under %d characters.

NOTES:
%s`

func buildSummaryPrompt(text string) string {
	return fmt.Sprintf(summaryPrompt, text)
}

func buildCardsPrompt(text string) string {
	return fmt.Sprintf(cardsPrompt, models.MaxCardsPerBatch, models.MaxQuestionLen, models.MaxAnswerLen, text)
}

// cleanJSON strips markdown code fences that models wrap around JSON output.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

// parseCards decodes the model's JSON array and drops unusable entries.
// An empty result after filtering is an error so callers never persist air.
func parseCards(raw string) ([]Card, error) {
	var cards []Card
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &cards); err != nil {
		return nil, fmt.Errorf("model returned malformed card JSON: %w", err)
	}
	out := cards[:0]
	for _, c := range cards {
		c.Question = strings.TrimSpace(c.Question)
		c.Answer = strings.TrimSpace(c.Answer)
		if c.Question == "" || c.Answer == "" {
			continue
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("model returned no usable cards")
	}
	return out, nil
}
