package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"github.com/nexable/smartcookly/backend/internal/httpclient"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o-mini"
	defaultMaxTokens     = 2000
)

type chatRequest struct {
	Model               string        `json:"model"`
	Messages            []chatMessage `json:"messages"`
	MaxCompletionTokens int           `json:"max_completion_tokens,omitempty"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// OpenAIClient talks to an OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	apiKey  string
	baseURL string
	model   string
	http    *httpclient.Client
}

var _ VisionClient = (*OpenAIClient)(nil)

// NewOpenAIClient creates a client. Empty baseURL and model use the defaults.
func NewOpenAIClient(apiKey, baseURL, model string) *OpenAIClient {
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		http:    httpclient.New(0),
	}
}

// GenerateContent sends a text-only prompt.
func (c *OpenAIClient) GenerateContent(ctx context.Context, p Prompt) (string, error) {
	return c.complete(ctx, p, []contentPart{{Type: "text", Text: p.User}})
}

// DescribeImage sends the prompt together with an image part. Inline images
// are encoded as a data URL.
func (c *OpenAIClient) DescribeImage(ctx context.Context, p Prompt, img Image) (string, error) {
	url := img.URL
	if url == "" {
		if len(img.Data) == 0 {
			return "", fmt.Errorf("image has neither URL nor data")
		}
		url = fmt.Sprintf("data:image/%s;base64,%s", imageFormat(img.MIMEType), base64.StdEncoding.EncodeToString(img.Data))
	}
	return c.complete(ctx, p, []contentPart{
		{Type: "text", Text: p.User},
		{Type: "image_url", ImageURL: &imageURL{URL: url}},
	})
}

func (c *OpenAIClient) complete(ctx context.Context, p Prompt, user []contentPart) (string, error) {
	maxTokens := p.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	req := chatRequest{
		Model:               c.model,
		MaxCompletionTokens: maxTokens,
	}
	if p.System != "" {
		req.Messages = append(req.Messages, chatMessage{
			Role:    "system",
			Content: []contentPart{{Type: "text", Text: p.System}},
		})
	}
	req.Messages = append(req.Messages, chatMessage{Role: "user", Content: user})

	var resp chatResponse
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
	if err := c.http.PostJSON(ctx, c.baseURL+"/chat/completions", headers, req, &resp); err != nil {
		log.Printf("[OpenAI] chat completion failed: %v", err)
		return "", fmt.Errorf("openai chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	log.Printf("[OpenAI] model=%s prompt_tokens=%d completion_tokens=%d", c.model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) Close() error {
	return nil
}
