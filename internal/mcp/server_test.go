// ABOUTME: Tests for MCP resources, prompts and backend error propagation
// ABOUTME: Uses a fake Backend where the real service surface is not needed

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/oneblog/internal/backend"
	"github.com/harper/oneblog/internal/blog"
	"github.com/harper/oneblog/internal/models"
	"github.com/harper/oneblog/internal/writer"
)

// fakeBackend records the last list request and returns canned data.
type fakeBackend struct {
	domains  []string
	page     *blog.PostPage
	err      error
	lastList backend.ListPostsRequest
	lastUser string
}

func (f *fakeBackend) WhoAmI(_ context.Context, userID string) (*backend.WhoAmI, error) {
	f.lastUser = userID
	return &backend.WhoAmI{UserID: userID, AuthType: "jwt"}, f.err
}

func (f *fakeBackend) RecentDomains(_ context.Context, userID string) ([]string, error) {
	f.lastUser = userID
	return f.domains, f.err
}

func (f *fakeBackend) FindTrendingTopics(_ context.Context, userID, _ string, _ int, _ string) ([]models.TopicCandidate, error) {
	f.lastUser = userID
	return nil, f.err
}

func (f *fakeBackend) GeneratePost(_ context.Context, userID, _, _, _ string) (*writer.GeneratedPost, error) {
	f.lastUser = userID
	return nil, f.err
}

func (f *fakeBackend) ListPosts(_ context.Context, userID string, req backend.ListPostsRequest) (*blog.PostPage, error) {
	f.lastUser = userID
	f.lastList = req
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func (f *fakeBackend) GetPost(_ context.Context, userID, _ string) (*models.Post, error) {
	f.lastUser = userID
	return nil, f.err
}

func (f *fakeBackend) CreatePost(_ context.Context, userID string, _ backend.CreatePostRequest) (*blog.CreateResult, error) {
	f.lastUser = userID
	return nil, f.err
}

func (f *fakeBackend) UpdatePost(_ context.Context, userID, _ string, _ backend.UpdatePostRequest) error {
	f.lastUser = userID
	return f.err
}

func (f *fakeBackend) DeletePost(_ context.Context, userID, _ string) error {
	f.lastUser = userID
	return f.err
}

func setupFakeServer(t *testing.T, fb *fakeBackend) *Server {
	t.Helper()
	s := NewServer(fb, NewSessionResolver(testOperatorSecret, operatorToken(t, testOperatorSecret, "carol")), "test")
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return s
}

func readResource(t *testing.T, handler func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error), uri string) ResourceData {
	t.Helper()
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri

	contents, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("resource %s failed: %v", uri, err)
	}
	if len(contents) != 1 {
		t.Fatalf("got %d contents, want 1", len(contents))
	}
	text, ok := contents[0].(*mcp.TextResourceContents)
	if !ok {
		t.Fatalf("contents is %T, want *TextResourceContents", contents[0])
	}
	if text.URI != uri || text.MIMEType != "application/json" {
		t.Errorf("resource header = %s %s", text.URI, text.MIMEType)
	}

	var data ResourceData
	if err := json.Unmarshal([]byte(text.Text), &data); err != nil {
		t.Fatalf("resource body is not JSON: %v", err)
	}
	return data
}

func TestRecentDomainsResource(t *testing.T) {
	fb := &fakeBackend{domains: []string{"go.dev", "rust-lang.org"}}
	s := setupFakeServer(t, fb)

	data := readResource(t, s.handleRecentDomainsResource, RecentDomainsURI)

	if data.Metadata.Count != 2 || data.Metadata.DataScope != "app" {
		t.Errorf("metadata = %+v", data.Metadata)
	}
	if data.Metadata.ResourceURI != RecentDomainsURI {
		t.Errorf("ResourceURI = %q", data.Metadata.ResourceURI)
	}
	if !data.Metadata.Timestamp.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Errorf("Timestamp = %v", data.Metadata.Timestamp)
	}
	if data.Links["recent_posts"] != RecentPostsURI {
		t.Errorf("links = %v", data.Links)
	}
	if fb.lastUser != "carol" {
		t.Errorf("backend called as %q, want carol", fb.lastUser)
	}
}

func TestRecentPostsResource(t *testing.T) {
	fb := &fakeBackend{page: &blog.PostPage{
		Items: []models.PostSummary{
			{ID: "p1", Title: "First", Status: models.StatusDraft},
			{ID: "p2", Title: "Second", Status: models.StatusPublished},
		},
		NextCursor: "2",
	}}
	s := setupFakeServer(t, fb)

	data := readResource(t, s.handleRecentPostsResource, RecentPostsURI)

	if data.Metadata.Count != 2 {
		t.Errorf("Count = %d, want 2", data.Metadata.Count)
	}
	items, ok := data.Data.([]interface{})
	if !ok || len(items) != 2 {
		t.Fatalf("data = %#v", data.Data)
	}
	if (fb.lastList != backend.ListPostsRequest{}) {
		t.Errorf("resource should request the default page, got %+v", fb.lastList)
	}
	if data.Links["recent_domains"] != RecentDomainsURI {
		t.Errorf("links = %v", data.Links)
	}
}

func TestResourcesRequireSession(t *testing.T) {
	fb := &fakeBackend{domains: []string{"go.dev"}}
	s := NewServer(fb, NewSessionResolver(testOperatorSecret, ""), "test")

	req := mcp.ReadResourceRequest{}
	req.Params.URI = RecentDomainsURI
	if _, err := s.handleRecentDomainsResource(context.Background(), req); !errors.Is(err, ErrNoSession) {
		t.Errorf("got %v, want ErrNoSession", err)
	}
	if fb.lastUser != "" {
		t.Error("backend should not be called without a session")
	}
}

func TestListPostsPassesPaging(t *testing.T) {
	fb := &fakeBackend{page: &blog.PostPage{Items: []models.PostSummary{}}}
	s := setupFakeServer(t, fb)

	_, err := s.handleListPosts(context.Background(), callTool(map[string]interface{}{
		"status": "draft",
		"limit":  5,
		"cursor": "10",
	}))
	if err != nil {
		t.Fatalf("handleListPosts failed: %v", err)
	}
	want := backend.ListPostsRequest{Status: "draft", Limit: 5, Cursor: "10"}
	if fb.lastList != want {
		t.Errorf("list request = %+v, want %+v", fb.lastList, want)
	}
}

func TestBackendErrorsAreWrapped(t *testing.T) {
	fb := &fakeBackend{err: &backend.Error{Status: 404, Message: "post not found"}}
	s := setupFakeServer(t, fb)

	_, err := s.handleDeletePost(context.Background(), callTool(map[string]interface{}{"postId": "p1"}))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(err.Error(), "failed to delete post: ") {
		t.Errorf("error = %q", err)
	}
	if !errors.Is(err, blog.ErrNotFound) {
		t.Errorf("backend 404 should unwrap to ErrNotFound, got %v", err)
	}
}

func TestWritePostPrompt(t *testing.T) {
	s := setupFakeServer(t, &fakeBackend{})

	tests := []struct {
		name     string
		args     map[string]string
		contains []string
	}{
		{
			name:     "with domain",
			args:     map[string]string{"domain": "go.dev"},
			contains: []string{`Use the domain "go.dev".`, "topics_find_trending", "post_generate_from_topic"},
		},
		{
			name:     "without domain",
			args:     nil,
			contains: []string{"topics_list_recent_domains", "the chosen domain"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := mcp.GetPromptRequest{}
			req.Params.Arguments = tt.args

			result, err := s.handleWritePost(context.Background(), req)
			if err != nil {
				t.Fatalf("handleWritePost failed: %v", err)
			}
			if len(result.Messages) != 1 || result.Messages[0].Role != mcp.RoleUser {
				t.Fatalf("messages = %+v", result.Messages)
			}
			text := result.Messages[0].Content.(mcp.TextContent).Text
			for _, want := range tt.contains {
				if !strings.Contains(text, want) {
					t.Errorf("prompt missing %q", want)
				}
			}
		})
	}
}

func TestReviewDraftsPrompt(t *testing.T) {
	s := setupFakeServer(t, &fakeBackend{})

	result, err := s.handleReviewDrafts(context.Background(), mcp.GetPromptRequest{})
	if err != nil {
		t.Fatalf("handleReviewDrafts failed: %v", err)
	}
	text := result.Messages[0].Content.(mcp.TextContent).Text
	for _, tool := range []string{"posts_list", "posts_get", "posts_update", "posts_delete"} {
		if !strings.Contains(text, tool) {
			t.Errorf("prompt should mention %s", tool)
		}
	}
}

func TestResourceData(t *testing.T) {
	data := ResourceData{
		Metadata: ResourceMetadata{
			Timestamp:   time.Now(),
			Count:       1,
			ResourceURI: RecentDomainsURI,
			DataScope:   DataScope,
		},
		Data:  []string{"go.dev"},
		Links: map[string]string{"recent_posts": RecentPostsURI},
	}

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("failed to marshal ResourceData: %v", err)
	}
	for _, key := range []string{`"resource_uri"`, `"data_scope":"app"`, `"links"`} {
		if !strings.Contains(string(jsonBytes), key) {
			t.Errorf("marshaled data missing %s", key)
		}
	}
}
