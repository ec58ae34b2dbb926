package ai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIGenerator drives chat completions against the OpenAI API.
type OpenAIGenerator struct {
	client openai.Client
	model  openai.ChatModel
}

// NewOpenAI builds a generator for the given API key. Extra request options
// (tests pass option.WithBaseURL) are forwarded to the client.
func NewOpenAI(apiKey string, opts ...option.RequestOption) *OpenAIGenerator {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAIGenerator{
		client: openai.NewClient(opts...),
		model:  openai.ChatModelGPT4oMini,
	}
}

func (g *OpenAIGenerator) Summarize(ctx context.Context, text string) (string, error) {
	out, err := g.complete(ctx, buildSummaryPrompt(text))
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	return out, nil
}

func (g *OpenAIGenerator) GenerateCards(ctx context.Context, text string) ([]Card, error) {
	out, err := g.complete(ctx, buildCardsPrompt(text))
	if err != nil {
		return nil, fmt.Errorf("generate cards: %w", err)
	}
	return parseCards(out)
}

func (g *OpenAIGenerator) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: g.model,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

var _ Generator = (*OpenAIGenerator)(nil)
