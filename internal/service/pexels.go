package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nexable/smartcookly/backend/internal/httpclient"
)

const (
	defaultPexelsURL = "https://api.pexels.com/v1"
	pexelsCacheTTL   = 24 * time.Hour
	pexelsTimeout    = 10 * time.Second
)

type pexelsSearchResponse struct {
	Photos []struct {
		Src struct {
			Medium string `json:"medium"`
		} `json:"src"`
	} `json:"photos"`
}

// PexelsClient looks up a representative photo for a dish. Answers,
// including "nothing found", are cached in Redis when a client is given.
type PexelsClient struct {
	apiKey  string
	baseURL string
	http    *httpclient.Client
	cache   *redis.Client
}

func NewPexelsClient(apiKey string, cache *redis.Client) *PexelsClient {
	return &PexelsClient{
		apiKey:  apiKey,
		baseURL: defaultPexelsURL,
		http:    httpclient.New(pexelsTimeout),
		cache:   cache,
	}
}

// WithBaseURL points the client at another endpoint.
func (p *PexelsClient) WithBaseURL(baseURL string) *PexelsClient {
	p.baseURL = strings.TrimRight(baseURL, "/")
	return p
}

// SearchImage returns the medium-size URL of the best match for query, or ""
// when there is none or no API key is configured.
func (p *PexelsClient) SearchImage(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if p.apiKey == "" || query == "" {
		return "", nil
	}

	key := "pexels:" + strings.ToLower(query)
	if p.cache != nil {
		cached, err := p.cache.Get(ctx, key).Result()
		switch {
		case err == nil:
			return cached, nil
		case !errors.Is(err, redis.Nil):
			log.Printf("[Pexels] cache read failed for %q: %v", query, err)
		}
	}

	params := url.Values{}
	params.Set("query", query+" food dish")
	params.Set("per_page", "1")
	params.Set("orientation", "landscape")

	var resp pexelsSearchResponse
	headers := map[string]string{"Authorization": p.apiKey}
	if err := p.http.GetJSON(ctx, p.baseURL+"/search?"+params.Encode(), headers, &resp); err != nil {
		return "", fmt.Errorf("pexels search %q: %w", query, err)
	}

	image := ""
	if len(resp.Photos) > 0 {
		image = resp.Photos[0].Src.Medium
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, key, image, pexelsCacheTTL).Err(); err != nil {
			log.Printf("[Pexels] cache write failed for %q: %v", query, err)
		}
	}
	return image, nil
}
