// Package llm talks to generative language model providers.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Backend turns a prompt into raw free text.
type Backend interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Options configures a provider client.
type Options struct {
	Provider string
	BaseURL  string
	APIKey   string
	Model    string
	// Timeout bounds the HTTP client; callers usually pass a shorter context deadline.
	Timeout time.Duration
}

// New returns the configured backend, or nil when no API key is set (generation not configured).
func New(opts Options) (Backend, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, nil
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	httpClient := &http.Client{Timeout: opts.Timeout}

	switch strings.ToLower(opts.Provider) {
	case "", ProviderGemini:
		return NewGeminiClient(httpClient, opts.BaseURL, opts.APIKey, opts.Model), nil
	case ProviderOpenAI:
		return NewChatClient(httpClient, opts.BaseURL, opts.APIKey, opts.Model), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", opts.Provider)
	}
}

func cleanContent(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```text")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

func snippet(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
