// ABOUTME: HTTP client for the service surface, used by the MCP server
// ABOUTME: Sends the shared secret on every call and acts on behalf of a named user

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/harper/oneblog/internal/auth"
	"github.com/harper/oneblog/internal/blog"
	"github.com/harper/oneblog/internal/models"
	"github.com/harper/oneblog/internal/writer"
)

// Error is a non-2xx response from the service surface.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend error (status %d): %s", e.Status, e.Message)
}

// Unwrap maps guard and ownership failures back to their sentinels.
func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return auth.ErrUnauthorized
	case http.StatusNotFound:
		return blog.ErrNotFound
	case http.StatusNotImplemented:
		return writer.ErrProviderNotConfigured
	default:
		return nil
	}
}

// Client calls /service/v1 on a oneblog server.
type Client struct {
	baseURL string
	secret  string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL, secret string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  secret,
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WhoAmI is the identity the backend resolved.
type WhoAmI struct {
	UserID   string `json:"userId"`
	AuthType string `json:"authType"`
}

// ListPostsRequest pages a user's posts.
type ListPostsRequest struct {
	Status string `json:"status,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Cursor string `json:"cursor,omitempty"`
}

// CreatePostRequest describes an agent-written post.
type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Status  string `json:"status,omitempty"`
	Domain  string `json:"domain"`
	Topic   string `json:"topic"`
}

// UpdatePostRequest patches a post. Nil fields are left alone.
type UpdatePostRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
	Status  *string `json:"status,omitempty"`
}

// WhoAmI confirms the backend accepts calls for userID.
func (c *Client) WhoAmI(ctx context.Context, userID string) (*WhoAmI, error) {
	var out WhoAmI
	if err := c.call(ctx, "/auth/whoami", userID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecentDomains returns the user's recently searched domains.
func (c *Client) RecentDomains(ctx context.Context, userID string) ([]string, error) {
	var out struct {
		Domains []string `json:"domains"`
	}
	if err := c.call(ctx, "/topics/recent-domains", userID, nil, &out); err != nil {
		return nil, err
	}
	if out.Domains == nil {
		out.Domains = []string{}
	}
	return out.Domains, nil
}

// FindTrendingTopics runs the trending-topic orchestrator for userID.
func (c *Client) FindTrendingTopics(ctx context.Context, userID, domain string, limit int, provider string) ([]models.TopicCandidate, error) {
	body := map[string]interface{}{"domain": domain}
	if limit != 0 {
		body["limit"] = limit
	}
	if provider != "" {
		body["provider"] = provider
	}

	var out struct {
		Topics []models.TopicCandidate `json:"topics"`
	}
	if err := c.call(ctx, "/topics/trending", userID, body, &out); err != nil {
		return nil, err
	}
	return out.Topics, nil
}

// GeneratePost runs the post-generation orchestrator for userID.
func (c *Client) GeneratePost(ctx context.Context, userID, topic, domain, provider string) (*writer.GeneratedPost, error) {
	body := map[string]interface{}{"topic": topic, "domain": domain}
	if provider != "" {
		body["provider"] = provider
	}

	var out writer.GeneratedPost
	if err := c.call(ctx, "/posts/generate", userID, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPosts returns one page of post summaries.
func (c *Client) ListPosts(ctx context.Context, userID string, req ListPostsRequest) (*blog.PostPage, error) {
	var out blog.PostPage
	if err := c.call(ctx, "/posts/list", userID, req, &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []models.PostSummary{}
	}
	return &out, nil
}

// GetPost returns the post, or nil when it is missing or not the user's.
func (c *Client) GetPost(ctx context.Context, userID, postID string) (*models.Post, error) {
	var out struct {
		Post *models.Post `json:"post"`
	}
	if err := c.call(ctx, "/posts/get", userID, map[string]string{"postId": postID}, &out); err != nil {
		return nil, err
	}
	return out.Post, nil
}

// CreatePost stores an agent-written post.
func (c *Client) CreatePost(ctx context.Context, userID string, req CreatePostRequest) (*blog.CreateResult, error) {
	body := struct {
		CreatePostRequest
		GeneratedBy string `json:"generatedBy"`
	}{req, models.GeneratedByMCP}

	var out blog.CreateResult
	if err := c.call(ctx, "/posts/create", userID, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePost patches one of the user's posts.
func (c *Client) UpdatePost(ctx context.Context, userID, postID string, req UpdatePostRequest) error {
	body := struct {
		PostID string `json:"postId"`
		UpdatePostRequest
	}{postID, req}
	return c.call(ctx, "/posts/update", userID, body, nil)
}

// DeletePost removes one of the user's posts.
func (c *Client) DeletePost(ctx context.Context, userID, postID string) error {
	return c.call(ctx, "/posts/delete", userID, map[string]string{"postId": postID}, nil)
}

// call POSTs body merged with userId to path and decodes the response into out.
func (c *Client) call(ctx context.Context, path, userID string, body interface{}, out interface{}) error {
	payload, err := withUserID(userID, body)
	if err != nil {
		return err
	}

	url := c.baseURL + "/service/v1" + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.ServiceSecretHeader, c.secret)

	log.Debug().Str("path", path).Str("user_id", userID).Msg("calling backend")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// withUserID encodes body as a JSON object with userId set.
func withUserID(userID string, body interface{}) ([]byte, error) {
	fields := map[string]json.RawMessage{}
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
	}
	id, err := json.Marshal(userID)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	fields["userId"] = id
	return json.Marshal(fields)
}

func newError(status int, data []byte) *Error {
	var body struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(data))
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		msg = body.Error
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &Error{Status: status, Message: msg}
}
