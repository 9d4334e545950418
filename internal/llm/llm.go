// ABOUTME: Minimal client for the OpenAI Responses API
// ABOUTME: Sends one prompt per call, optionally with the web-search tool enabled

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrMissingAPIKey is returned before any network I/O when no key is configured.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not configured")

// WebSearchTool enables the hosted web-search tool for a request.
var WebSearchTool = Tool{Type: "web_search_preview"}

// Responder issues a single model call. *Client implements it; tests supply fakes.
type Responder interface {
	CreateResponse(ctx context.Context, req Request) (*Response, error)
}

// Request is the body of POST /responses.
type Request struct {
	Model string `json:"model"`
	Input string `json:"input"`
	Tools []Tool `json:"tools,omitempty"`
}

// Tool enables a hosted tool.
type Tool struct {
	Type string `json:"type"`
}

// Response is the subset of the Responses API payload the app reads.
type Response struct {
	ID     string       `json:"id"`
	Model  string       `json:"model"`
	Output []OutputItem `json:"output"`
}

// OutputItem is one typed item in a response's output sequence.
type OutputItem struct {
	Type    string        `json:"type"`
	Role    string        `json:"role,omitempty"`
	Content []ContentPart `json:"content,omitempty"`
}

// ContentPart is one typed part of a message item.
type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// APIError is a non-2xx answer from the provider.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llm api error (status %d): %s", e.Status, e.Message)
}

// Client talks to the Responses API.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a client. The key is checked lazily on each call so a
// missing key only fails the operations that need the model.
func NewClient(apiKey, model, baseURL string, opts ...Option) *Client {
	c := &Client{
		apiKey:  strings.TrimSpace(apiKey),
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		// No client timeout; cancellation comes from the request context
		http: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile-time check that Client implements Responder.
var _ Responder = (*Client)(nil)

// CreateResponse sends req. An empty req.Model uses the client's model.
func (c *Client) CreateResponse(ctx context.Context, req Request) (*Response, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if req.Model == "" {
		req.Model = c.model
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call llm: %w", err)
	}
	defer resp.Body.Close()

	log.Debug().
		Str("model", req.Model).
		Bool("web_search", len(req.Tools) > 0).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("llm response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

func newAPIError(resp *http.Response) *APIError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	msg := strings.TrimSpace(string(raw))
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		msg = envelope.Error.Message
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}
