package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-1.5-flash"

// GeminiClient is a client for the Google Gemini API.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

var _ VisionClient = (*GeminiClient)(nil)

// NewGeminiClient creates a new Gemini API client.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiClient{client: client, modelName: model}, nil
}

// model builds a per-call model so concurrent requests never share settings.
func (c *GeminiClient) model(p Prompt) *genai.GenerativeModel {
	m := c.client.GenerativeModel(c.modelName)
	if p.System != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(p.System)}}
	}
	maxTokens := p.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	m.SetMaxOutputTokens(int32(maxTokens))
	return m
}

func (c *GeminiClient) GenerateContent(ctx context.Context, p Prompt) (string, error) {
	resp, err := c.model(p).GenerateContent(ctx, genai.Text(p.User))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return responseText(resp), nil
}

// DescribeImage sends the image bytes inline. Gemini cannot fetch arbitrary
// URLs, so Image.Data is required.
func (c *GeminiClient) DescribeImage(ctx context.Context, p Prompt, img Image) (string, error) {
	if len(img.Data) == 0 {
		return "", fmt.Errorf("gemini requires inline image data")
	}
	resp, err := c.model(p).GenerateContent(ctx,
		genai.ImageData(imageFormat(img.MIMEType), img.Data),
		genai.Text(p.User),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return responseText(resp), nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}

// Close closes the underlying Gemini client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}
