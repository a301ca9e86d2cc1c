package openai

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/reviewlens/reviewlens/internal/config"
	"github.com/reviewlens/reviewlens/pkg/models"
)

// Provider implements models.AIProvider using the OpenAI chat completion API.
type Provider struct {
	cfg    config.OpenAIConfig
	client *goopenai.Client
}

func NewProvider(cfg config.OpenAIConfig) *Provider {
	if cfg.BaseURL != "" {
		cc := goopenai.DefaultConfig(cfg.APIKey)
		cc.BaseURL = cfg.BaseURL
		return &Provider{cfg: cfg, client: goopenai.NewClientWithConfig(cc)}
	}
	return &Provider{cfg: cfg, client: goopenai.NewClient(cfg.APIKey)}
}

func (p *Provider) Name() string { return "openai" }

// Complete performs a single chat completion call. No retry here; the
// orchestrator owns that policy.
func (p *Provider) Complete(ctx context.Context, req models.CompletionRequest) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: p.cfg.Model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: req.System},
			{Role: goopenai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in openai response")
	}
	return resp.Choices[0].Message.Content, nil
}

var _ models.AIProvider = (*Provider)(nil)
