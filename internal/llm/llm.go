// Package llm wraps the hosted language models used for fridge scanning and
// recipe suggestions behind one small interface.
package llm

import (
	"context"
	"fmt"
	"strings"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Image is a photo passed to a vision-capable model. URL, when set, must be
// reachable by the provider; otherwise Data is sent inline.
type Image struct {
	Data     []byte
	MIMEType string
	URL      string
}

// Prompt is a single-turn request.
type Prompt struct {
	System    string
	User      string
	MaxTokens int
}

// Client generates text from a prompt.
type Client interface {
	GenerateContent(ctx context.Context, p Prompt) (string, error)
	Close() error
}

// VisionClient also accepts an image alongside the prompt.
type VisionClient interface {
	Client
	DescribeImage(ctx context.Context, p Prompt, img Image) (string, error)
}

// Config selects and configures a provider.
type Config struct {
	Provider      string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	GeminiAPIKey  string
	GeminiModel   string
}

// New returns the VisionClient for cfg.Provider.
func New(ctx context.Context, cfg Config) (VisionClient, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai provider selected but no API key configured")
		}
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel), nil
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini provider selected but no API key configured")
		}
		return NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}

// imageFormat turns a MIME type into the short format name, defaulting to jpeg.
func imageFormat(mimeType string) string {
	format := strings.TrimPrefix(strings.ToLower(mimeType), "image/")
	switch format {
	case "jpg", "":
		return "jpeg"
	}
	return format
}
