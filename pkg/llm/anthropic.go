package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicMaxTokens = 512

type AnthropicClient struct {
	client       *anthropic.Client
	defaultModel string
}

func NewAnthropicClient(apiKey string, opts ...option.RequestOption) *AnthropicClient {
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	client := anthropic.NewClient(append(base, opts...)...)
	return &AnthropicClient{
		client:       &client,
		defaultModel: string(anthropic.ModelClaudeHaiku4_5),
	}
}

func (c *AnthropicClient) Name() string {
	return ProviderAnthropic
}

func (c *AnthropicClient) DefaultModel() string {
	return c.defaultModel
}

func (c *AnthropicClient) Generate(ctx context.Context, model, prompt string) (*Generation, error) {
	return c.message(ctx, model, nil, prompt)
}

func (c *AnthropicClient) Model(name string) GenerativeModel {
	if name == "" {
		name = c.defaultModel
	}
	return &anthropicModel{
		client: c,
		model:  name,
		system: []anthropic.TextBlockParam{{Text: keyPointSystemPrompt}},
	}
}

type anthropicModel struct {
	client *AnthropicClient
	model  string
	system []anthropic.TextBlockParam
}

func (m *anthropicModel) GenerateContent(ctx context.Context, prompt string) (*Generation, error) {
	return m.client.message(ctx, m.model, m.system, prompt)
}

func (c *AnthropicClient) message(ctx context.Context, model string, system []anthropic.TextBlockParam, prompt string) (*Generation, error) {
	if model == "" {
		model = c.defaultModel
	}

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: anthropicMaxTokens,
		System:    system,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic API error: %w", err)
	}

	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("no response from anthropic")
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		sb.WriteString(block.Text)
	}

	gen := &Generation{
		Text:      cleanGeneratedText(sb.String()),
		Raw:       resp.RawJSON(),
		ModelUsed: model,
	}
	if gen.String() == "" {
		return nil, fmt.Errorf("anthropic: %w", ErrEmptyGeneration)
	}

	return gen, nil
}
