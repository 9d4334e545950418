// ABOUTME: MCP server implementation for oneblog
// ABOUTME: Provides tools, resources, and prompts that act on the operator's blog through the backend

package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/harper/oneblog/internal/backend"
	"github.com/harper/oneblog/internal/blog"
	"github.com/harper/oneblog/internal/models"
	"github.com/harper/oneblog/internal/writer"
)

// Backend is the service surface the tools call.
type Backend interface {
	WhoAmI(ctx context.Context, userID string) (*backend.WhoAmI, error)
	RecentDomains(ctx context.Context, userID string) ([]string, error)
	FindTrendingTopics(ctx context.Context, userID, domain string, limit int, provider string) ([]models.TopicCandidate, error)
	GeneratePost(ctx context.Context, userID, topic, domain, provider string) (*writer.GeneratedPost, error)
	ListPosts(ctx context.Context, userID string, req backend.ListPostsRequest) (*blog.PostPage, error)
	GetPost(ctx context.Context, userID, postID string) (*models.Post, error)
	CreatePost(ctx context.Context, userID string, req backend.CreatePostRequest) (*blog.CreateResult, error)
	UpdatePost(ctx context.Context, userID, postID string, req backend.UpdatePostRequest) error
	DeletePost(ctx context.Context, userID, postID string) error
}

var _ Backend = (*backend.Client)(nil)

// Server wraps the MCP server with oneblog-specific context
type Server struct {
	mcpServer *server.MCPServer
	backend   Backend
	sessions  *SessionResolver
	now       func() time.Time
}

// NewServer creates a new MCP server instance
func NewServer(b Backend, sessions *SessionResolver, version string) *Server {
	s := &Server{
		backend:  b,
		sessions: sessions,
		now:      time.Now,
	}

	s.mcpServer = server.NewMCPServer(
		"oneblog",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdio
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// HandleMessage processes a single JSON-RPC message for transports other than stdio.
func (s *Server) HandleMessage(ctx context.Context, message json.RawMessage) mcp.JSONRPCMessage {
	return s.mcpServer.HandleMessage(ctx, message)
}
