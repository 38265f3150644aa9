package oracle

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/docstruct/docstruct/internal/document"
)

// OpenAIOracle calls an OpenAI-compatible chat-completion endpoint.
// BaseURL may point at any compatible backend.
type OpenAIOracle struct {
	client *openai.Client
	model  string
	stats  *Stats
}

func NewOpenAIOracle(apiKey, baseURL, model string, stats *Stats) *OpenAIOracle {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIOracle{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		stats:  stats,
	}
}

// Extract submits the blocks and returns the raw response text.
func (o *OpenAIOracle) Extract(ctx context.Context, blocks []document.Block) (string, error) {
	prompt, err := BuildPrompt(blocks)
	if err != nil {
		return "", err
	}

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if o.stats != nil {
		o.stats.Record(time.Since(start).Milliseconds())
	}
	if err != nil {
		return "", fmt.Errorf("openai api: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
