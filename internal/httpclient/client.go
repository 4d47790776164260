package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const maxErrorBody = 512

// DefaultTimeout matches the timeout used for model calls.
const DefaultTimeout = 60 * time.Second

// Client performs JSON calls and classifies failures as NetworkError values.
type Client struct {
	HTTP *http.Client
}

// New returns a Client with the given timeout. Zero means DefaultTimeout.
func New(timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{HTTP: &http.Client{Timeout: timeout}}
}

// PostJSON marshals body, posts it to url with headers and decodes the
// response into out.
func (c *Client) PostJSON(ctx context.Context, url string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: encode request: %v", ErrSerialization, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.Do(req, out)
}

// GetJSON issues a GET with headers and decodes the response into out.
func (c *Client) GetJSON(ctx context.Context, url string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.Do(req, out)
}

// Do sends req and decodes a 2xx JSON body into out. Non-2xx responses become
// a *StatusError, transport failures wrap ErrNoInternet or ErrRequestTimeout.
func (c *Client) Do(req *http.Request, out any) error {
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return fmt.Errorf("%w: %v", ErrRequestTimeout, ctxErr)
		}
		if isTimeout(err) {
			return fmt.Errorf("%w: %v", ErrRequestTimeout, err)
		}
		return fmt.Errorf("%w: %v", ErrNoInternet, err)
	}
	defer resp.Body.Close()

	if kind := FromStatus(resp.StatusCode); kind != nil {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Kind:       kind.(NetworkError),
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrSerialization, err)
	}
	return nil
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
