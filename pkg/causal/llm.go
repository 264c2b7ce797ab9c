package causal

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// LLM is a single-shot text-completion backend; both the Anthropic and
// OpenAI-via-langchaingo implementations satisfy it.
type LLM interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// AnthropicLLM is the primary causal-extraction backend (spec §4.J).
type AnthropicLLM struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropicLLM builds a backend bound to apiKey and model (e.g.
// anthropic.ModelClaude3_5HaikuLatest).
func NewAnthropicLLM(apiKey, model string) *AnthropicLLM {
	return &AnthropicLLM{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  anthropic.Model(model),
	}
}

func (a *AnthropicLLM) Complete(ctx context.Context, prompt string) (string, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic completion: %w", err)
	}
	var out string
	for _, block := range msg.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	return out, nil
}

// LangchainOpenAILLM is the secondary causal-extraction backend, used when
// the primary Anthropic call fails or times out (spec §4.J).
type LangchainOpenAILLM struct {
	model llms.Model
}

// NewLangchainOpenAILLM builds a backend bound to apiKey and model.
func NewLangchainOpenAILLM(apiKey, model string) (*LangchainOpenAILLM, error) {
	m, err := openai.New(openai.WithToken(apiKey), openai.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("langchaingo openai backend: %w", err)
	}
	return &LangchainOpenAILLM{model: m}, nil
}

func (l *LangchainOpenAILLM) Complete(ctx context.Context, prompt string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, l.model, prompt)
	if err != nil {
		return "", fmt.Errorf("langchaingo completion: %w", err)
	}
	return out, nil
}
