// ABOUTME: MCP tool definitions and handlers for topics and posts
// ABOUTME: Each tool validates input, resolves the operator, and calls the backend as that user

package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/oneblog/internal/backend"
	"github.com/harper/oneblog/internal/blog"
	"github.com/harper/oneblog/internal/models"
	"github.com/harper/oneblog/internal/writer"
)

// Type definitions for input/output structures

type WhoAmIOutput struct {
	UserID   string `json:"userId"`
	AuthType string `json:"authType"`
}

type FindTrendingInput struct {
	Domain   string `json:"domain"`
	Limit    *int   `json:"limit,omitempty"`
	Provider string `json:"provider,omitempty"`
}

func (in FindTrendingInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Domain, validation.Required),
		validation.Field(&in.Limit, validation.By(intRange(1, writer.MaxTopicLimit))),
		validation.Field(&in.Provider, providerRule),
	)
}

type FindTrendingOutput struct {
	Topics       []models.TopicCandidate `json:"topics"`
	ProviderUsed string                  `json:"providerUsed"`
	DataScope    string                  `json:"dataScope"`
	FetchedAt    time.Time               `json:"fetchedAt"`
}

type GeneratePostInput struct {
	Topic    string `json:"topic"`
	Domain   string `json:"domain"`
	Provider string `json:"provider,omitempty"`
}

func (in GeneratePostInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Topic, validation.Required),
		validation.Field(&in.Domain, validation.Required),
		validation.Field(&in.Provider, providerRule),
	)
}

type GeneratePostOutput struct {
	PostID       string            `json:"postId"`
	Title        string            `json:"title"`
	Content      string            `json:"content"`
	WordCount    int               `json:"wordCount"`
	Status       models.PostStatus `json:"status"`
	ProviderUsed string            `json:"providerUsed"`
	DataScope    string            `json:"dataScope"`
}

type CreatePostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Domain  string `json:"domain"`
	Topic   string `json:"topic"`
	Status  string `json:"status,omitempty"`
}

func (in CreatePostInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.Content, validation.Required),
		validation.Field(&in.Domain, validation.Required),
		validation.Field(&in.Topic, validation.Required),
		validation.Field(&in.Status, statusRule),
	)
}

type PostIDInput struct {
	PostID string `json:"postId"`
}

func (in PostIDInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.PostID, validation.Required),
	)
}

type ListPostsInput struct {
	Status string `json:"status,omitempty"`
	Limit  *int   `json:"limit,omitempty"`
	Cursor string `json:"cursor,omitempty"`
}

func (in ListPostsInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Status, statusRule),
		validation.Field(&in.Limit, validation.By(intRange(1, blog.MaxListLimit))),
	)
}

type UpdatePostInput struct {
	PostID  string  `json:"postId"`
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
	Status  *string `json:"status,omitempty"`
}

// ErrEmptyUpdate is returned when posts_update names no field to change.
var ErrEmptyUpdate = errors.New("at least one of title, content, or status is required")

func (in UpdatePostInput) Validate() error {
	if in.Title == nil && in.Content == nil && in.Status == nil {
		return ErrEmptyUpdate
	}
	return validation.ValidateStruct(&in,
		validation.Field(&in.PostID, validation.Required),
		validation.Field(&in.Title, validation.NilOrNotEmpty),
		validation.Field(&in.Content, validation.NilOrNotEmpty),
		validation.Field(&in.Status, statusRule),
	)
}

type SuccessOutput struct {
	Success bool `json:"success"`
}

type RecentDomainsOutput struct {
	Domains []string `json:"domains"`
}

var (
	statusRule   = validation.In(stringsToAny(models.PostStatuses)...)
	providerRule = validation.In(stringsToAny(writer.KnownProviders)...)
)

func stringsToAny[T ~string](values []T) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// intRange rejects an explicitly supplied integer outside [lo, hi].
func intRange(lo, hi int) validation.RuleFunc {
	return func(value interface{}) error {
		n, ok := value.(*int)
		if !ok || n == nil {
			return nil
		}
		if *n < lo || *n > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}

// bindInput decodes and validates tool arguments.
func bindInput(req mcp.CallToolRequest, input validation.Validatable) error {
	if err := req.BindArguments(input); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	if err := input.Validate(); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	return nil
}

func providerOrDefault(provider string) string {
	if provider == "" {
		return writer.DefaultProvider
	}
	return provider
}

// Tool registration

func (s *Server) registerTools() {
	s.registerWhoAmITool()
	s.registerFindTrendingTool()
	s.registerGeneratePostTool()
	s.registerCreatePostTool()
	s.registerGetPostTool()
	s.registerListPostsTool()
	s.registerUpdatePostTool()
	s.registerDeletePostTool()
	s.registerRecentDomainsTool()
}

var (
	statusSchema = map[string]interface{}{
		"type":        "string",
		"enum":        stringsToAny(models.PostStatuses),
		"description": "Post status: draft, generating or published",
	}
	providerSchema = map[string]interface{}{
		"type":        "string",
		"enum":        stringsToAny(writer.KnownProviders),
		"description": "Research provider. Defaults to openai_web; gsc is not configured yet.",
	}
	postIDSchema = map[string]interface{}{
		"type":        "string",
		"description": "The post ID returned by posts_list or posts_create",
	}
)

func (s *Server) registerWhoAmITool() {
	tool := mcp.Tool{
		Name:        "auth_whoami",
		Description: "Return the authenticated MCP user identity.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
		Annotations: annotations(true, true, false),
	}
	s.mcpServer.AddTool(tool, s.handleWhoAmI)
}

func (s *Server) registerFindTrendingTool() {
	tool := mcp.Tool{
		Name:        "topics_find_trending",
		Description: "Find trending blog topics for a domain using web search and save them to the user's topic history. Returns the topics with search volume, trend and reason.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"domain": map[string]interface{}{
					"type":        "string",
					"description": "The website or subject domain. Example: 'golang.org'",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"minimum":     1,
					"maximum":     writer.MaxTopicLimit,
					"description": "How many topics to return (1-10, default 5)",
				},
				"provider": providerSchema,
			},
			Required: []string{"domain"},
		},
		Annotations: annotations(false, false, false),
	}
	s.mcpServer.AddTool(tool, s.handleFindTrending)
}

func (s *Server) registerGeneratePostTool() {
	tool := mcp.Tool{
		Name:        "post_generate_from_topic",
		Description: "Research and write a full blog post for a domain and topic, then save it as published. Makes three model calls and can take a few minutes.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"topic": map[string]interface{}{
					"type":        "string",
					"description": "The topic to write about, usually a name from topics_find_trending",
				},
				"domain": map[string]interface{}{
					"type":        "string",
					"description": "The domain the post is for",
				},
				"provider": providerSchema,
			},
			Required: []string{"topic", "domain"},
		},
		Annotations: annotations(false, false, false),
	}
	s.mcpServer.AddTool(tool, s.handleGeneratePost)
}

func (s *Server) registerCreatePostTool() {
	tool := mcp.Tool{
		Name:        "posts_create",
		Description: "Create a post for the authenticated user. Status defaults to draft. Returns the new post ID and word count.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"title":   map[string]interface{}{"type": "string", "description": "Post title"},
				"content": map[string]interface{}{"type": "string", "description": "Post body in markdown"},
				"domain":  map[string]interface{}{"type": "string", "description": "Domain the post belongs to"},
				"topic":   map[string]interface{}{"type": "string", "description": "Topic the post covers"},
				"status":  statusSchema,
			},
			Required: []string{"title", "content", "domain", "topic"},
		},
		Annotations: annotations(false, false, false),
	}
	s.mcpServer.AddTool(tool, s.handleCreatePost)
}

func (s *Server) registerGetPostTool() {
	tool := mcp.Tool{
		Name:        "posts_get",
		Description: "Get a single post, including its content, by ID for the authenticated user.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"postId": postIDSchema},
			Required:   []string{"postId"},
		},
		Annotations: annotations(true, true, false),
	}
	s.mcpServer.AddTool(tool, s.handleGetPost)
}

func (s *Server) registerListPostsTool() {
	tool := mcp.Tool{
		Name:        "posts_list",
		Description: "List the authenticated user's posts, newest first, without content. Pass nextCursor back as cursor to get the next page.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"status": statusSchema,
				"limit": map[string]interface{}{
					"type":        "integer",
					"minimum":     1,
					"maximum":     blog.MaxListLimit,
					"description": "Page size (1-100, default 20)",
				},
				"cursor": map[string]interface{}{
					"type":        "string",
					"description": "nextCursor from a previous page",
				},
			},
		},
		Annotations: annotations(true, true, false),
	}
	s.mcpServer.AddTool(tool, s.handleListPosts)
}

func (s *Server) registerUpdatePostTool() {
	tool := mcp.Tool{
		Name:        "posts_update",
		Description: "Update a post's title, content or status. At least one field is required. Word count is recomputed when content changes.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"postId":  postIDSchema,
				"title":   map[string]interface{}{"type": "string", "description": "New title"},
				"content": map[string]interface{}{"type": "string", "description": "New markdown body"},
				"status":  statusSchema,
			},
			Required: []string{"postId"},
		},
		Annotations: annotations(false, false, false),
	}
	s.mcpServer.AddTool(tool, s.handleUpdatePost)
}

func (s *Server) registerDeletePostTool() {
	tool := mcp.Tool{
		Name:        "posts_delete",
		Description: "Permanently delete a post for the authenticated user.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"postId": postIDSchema},
			Required:   []string{"postId"},
		},
		Annotations: annotations(false, true, true),
	}
	s.mcpServer.AddTool(tool, s.handleDeletePost)
}

func (s *Server) registerRecentDomainsTool() {
	tool := mcp.Tool{
		Name:        "topics_list_recent_domains",
		Description: "List the authenticated user's most recently searched domains (up to five, newest first).",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
		Annotations: annotations(true, true, false),
	}
	s.mcpServer.AddTool(tool, s.handleRecentDomains)
}

// Tool handlers

func (s *Server) handleWhoAmI(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := s.sessions.UserID()
	if err != nil {
		return nil, err
	}

	identity, err := s.backend.WhoAmI(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve identity: %w", err)
	}

	return toolResult(WhoAmIOutput{UserID: identity.UserID, AuthType: identity.AuthType}, "Authenticated user resolved.")
}

func (s *Server) handleFindTrending(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input FindTrendingInput
	if err := bindInput(req, &input); err != nil {
		return nil, err
	}
	userID, err := s.sessions.UserID()
	if err != nil {
		return nil, err
	}

	limit := 0
	if input.Limit != nil {
		limit = *input.Limit
	}
	topics, err := s.backend.FindTrendingTopics(ctx, userID, input.Domain, limit, input.Provider)
	if err != nil {
		return nil, fmt.Errorf("failed to find trending topics: %w", err)
	}

	output := FindTrendingOutput{
		Topics:       topics,
		ProviderUsed: providerOrDefault(input.Provider),
		DataScope:    DataScope,
		FetchedAt:    s.now().UTC(),
	}
	return toolResult(output, fmt.Sprintf("Found %d trending topic(s) for %q.", len(topics), input.Domain))
}

func (s *Server) handleGeneratePost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input GeneratePostInput
	if err := bindInput(req, &input); err != nil {
		return nil, err
	}
	userID, err := s.sessions.UserID()
	if err != nil {
		return nil, err
	}

	post, err := s.backend.GeneratePost(ctx, userID, input.Topic, input.Domain, input.Provider)
	if err != nil {
		return nil, fmt.Errorf("failed to generate post: %w", err)
	}

	output := GeneratePostOutput{
		PostID:       post.ID,
		Title:        post.Title,
		Content:      post.Content,
		WordCount:    post.WordCount,
		Status:       models.StatusPublished,
		ProviderUsed: providerOrDefault(input.Provider),
		DataScope:    DataScope,
	}
	return toolResult(output, "Post generated successfully: "+post.Title)
}

func (s *Server) handleCreatePost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input CreatePostInput
	if err := bindInput(req, &input); err != nil {
		return nil, err
	}
	userID, err := s.sessions.UserID()
	if err != nil {
		return nil, err
	}

	created, err := s.backend.CreatePost(ctx, userID, backend.CreatePostRequest{
		Title:   input.Title,
		Content: input.Content,
		Status:  input.Status,
		Domain:  input.Domain,
		Topic:   input.Topic,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return toolResult(created, "Created post: "+input.Title+".")
}

func (s *Server) handleGetPost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input PostIDInput
	if err := bindInput(req, &input); err != nil {
		return nil, err
	}
	userID, err := s.sessions.UserID()
	if err != nil {
		return nil, err
	}

	post, err := s.backend.GetPost(ctx, userID, input.PostID)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if post == nil {
		return nil, blog.ErrNotFound
	}

	return toolResult(post, "Loaded post: "+post.Title)
}

func (s *Server) handleListPosts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ListPostsInput
	if err := bindInput(req, &input); err != nil {
		return nil, err
	}
	userID, err := s.sessions.UserID()
	if err != nil {
		return nil, err
	}

	listReq := backend.ListPostsRequest{Status: input.Status, Cursor: input.Cursor}
	if input.Limit != nil {
		listReq.Limit = *input.Limit
	}
	page, err := s.backend.ListPosts(ctx, userID, listReq)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return toolResult(page, fmt.Sprintf("Loaded %d post(s).", len(page.Items)))
}

func (s *Server) handleUpdatePost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input UpdatePostInput
	if err := bindInput(req, &input); err != nil {
		return nil, err
	}
	userID, err := s.sessions.UserID()
	if err != nil {
		return nil, err
	}

	err = s.backend.UpdatePost(ctx, userID, input.PostID, backend.UpdatePostRequest{
		Title:   input.Title,
		Content: input.Content,
		Status:  input.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return toolResult(SuccessOutput{Success: true}, "Updated post: "+input.PostID+".")
}

func (s *Server) handleDeletePost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input PostIDInput
	if err := bindInput(req, &input); err != nil {
		return nil, err
	}
	userID, err := s.sessions.UserID()
	if err != nil {
		return nil, err
	}

	if err := s.backend.DeletePost(ctx, userID, input.PostID); err != nil {
		return nil, fmt.Errorf("failed to delete post: %w", err)
	}

	return toolResult(SuccessOutput{Success: true}, "Deleted post: "+input.PostID+".")
}

func (s *Server) handleRecentDomains(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := s.sessions.UserID()
	if err != nil {
		return nil, err
	}

	domains, err := s.backend.RecentDomains(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent domains: %w", err)
	}

	return toolResult(RecentDomainsOutput{Domains: domains}, fmt.Sprintf("Loaded %d recent domain(s).", len(domains)))
}
