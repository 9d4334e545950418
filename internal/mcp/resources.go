// ABOUTME: MCP resource providers for oneblog
// ABOUTME: Exposes read-only views of the operator's recent domains and posts

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/oneblog/internal/backend"
)

// Resource URIs
const (
	RecentDomainsURI = "oneblog://domains/recent"
	RecentPostsURI   = "oneblog://posts/recent"
)

// ResourceData is the standard response format for all resources.
type ResourceData struct {
	Metadata ResourceMetadata  `json:"metadata"`
	Data     interface{}       `json:"data"`
	Links    map[string]string `json:"links"`
}

// ResourceMetadata contains metadata about the resource response.
type ResourceMetadata struct {
	Timestamp   time.Time `json:"timestamp"`
	Count       int       `json:"count"`
	ResourceURI string    `json:"resource_uri"`
	DataScope   string    `json:"data_scope"`
}

func (s *Server) registerResources() {
	s.registerRecentDomainsResource()
	s.registerRecentPostsResource()
}

func (s *Server) registerRecentDomainsResource() {
	s.mcpServer.AddResource(
		mcp.Resource{
			URI:         RecentDomainsURI,
			Name:        "Recent Domains",
			Description: "Up to five domains the user most recently searched for trending topics, newest first",
			MIMEType:    "application/json",
		},
		s.handleRecentDomainsResource,
	)
}

func (s *Server) handleRecentDomainsResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	userID, err := s.sessions.UserID()
	if err != nil {
		return nil, err
	}

	domains, err := s.backend.RecentDomains(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent domains: %w", err)
	}

	return s.resourceContents(request.Params.URI, len(domains), domains, map[string]string{
		"recent_posts": RecentPostsURI,
	})
}

func (s *Server) registerRecentPostsResource() {
	s.mcpServer.AddResource(
		mcp.Resource{
			URI:         RecentPostsURI,
			Name:        "Recent Posts",
			Description: "The user's 20 newest posts as summaries (title, status, domain, topic, word count), without content",
			MIMEType:    "application/json",
		},
		s.handleRecentPostsResource,
	)
}

func (s *Server) handleRecentPostsResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	userID, err := s.sessions.UserID()
	if err != nil {
		return nil, err
	}

	page, err := s.backend.ListPosts(ctx, userID, backend.ListPostsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return s.resourceContents(request.Params.URI, len(page.Items), page.Items, map[string]string{
		"recent_domains": RecentDomainsURI,
	})
}

func (s *Server) resourceContents(uri string, count int, data interface{}, links map[string]string) ([]mcp.ResourceContents, error) {
	resourceData := ResourceData{
		Metadata: ResourceMetadata{
			Timestamp:   s.now().UTC(),
			Count:       count,
			ResourceURI: uri,
			DataScope:   DataScope,
		},
		Data:  data,
		Links: links,
	}

	jsonBytes, err := json.MarshalIndent(resourceData, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource data: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
