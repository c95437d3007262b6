package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

var (
	ErrEmptyGeneration = errors.New("empty generation")
	ErrUnknownProvider = errors.New("unknown generation provider")
)

// Generation is what a provider returned for a prompt. Text holds the
// extracted text field when the provider exposed one; Raw keeps the whole
// response for callers that need to stringify it instead.
type Generation struct {
	Text      string
	Raw       any
	ModelUsed string
}

func (g *Generation) String() string {
	if g == nil {
		return ""
	}
	if g.Text != "" {
		return g.Text
	}
	if g.Raw == nil {
		return ""
	}
	return fmt.Sprint(g.Raw)
}

// Generator exposes the two call shapes a provider supports: a direct
// prompt call and a model handle that is bound first and then generates.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (*Generation, error)
	Model(name string) GenerativeModel
	Name() string
	DefaultModel() string
}

type GenerativeModel interface {
	GenerateContent(ctx context.Context, prompt string) (*Generation, error)
}

// NewGenerator builds the client for the named provider.
func NewGenerator(provider, apiKey string) (Generator, error) {
	switch strings.ToLower(provider) {
	case ProviderGemini, "":
		return NewGeminiClient(apiKey), nil
	case ProviderOpenAI:
		return NewOpenAIClient(apiKey), nil
	case ProviderAnthropic:
		return NewAnthropicClient(apiKey), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
}

func cleanGeneratedText(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```markdown")
	content = strings.TrimPrefix(content, "```text")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
