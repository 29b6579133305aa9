package llm

import (
	"context"
	"fmt"
	"time"
)

// Provider identifies a text-generation backend.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
	ProviderGemini    Provider = "gemini"
)

// Options holds the resolved provider settings used to construct a client.
type Options struct {
	Provider Provider
	APIKey   string
	Model    string // optional model override
	BaseURL  string // optional endpoint override (OpenAI-compatible proxies)
	Timeout  time.Duration
}

// NewClient constructs the Client for the configured provider.
func NewClient(ctx context.Context, opts Options) (Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %q", opts.Provider)
	}

	switch opts.Provider {
	case ProviderAnthropic:
		cfg := DefaultAnthropicConfig(opts.APIKey)
		if opts.Model != "" {
			cfg.Model = opts.Model
		}
		if opts.BaseURL != "" {
			cfg.BaseURL = opts.BaseURL
		}
		if opts.Timeout > 0 {
			cfg.Timeout = opts.Timeout
		}
		return NewAnthropicClientWithConfig(cfg), nil

	case ProviderOpenAI:
		cfg := DefaultOpenAIConfig(opts.APIKey)
		if opts.Model != "" {
			cfg.Model = opts.Model
		}
		if opts.BaseURL != "" {
			cfg.BaseURL = opts.BaseURL
		}
		if opts.Timeout > 0 {
			cfg.Timeout = opts.Timeout
		}
		return NewOpenAIClientWithConfig(cfg), nil

	case ProviderGemini:
		return NewGeminiClient(ctx, opts.APIKey, opts.Model)

	default:
		return nil, fmt.Errorf("unknown provider: %q", opts.Provider)
	}
}
