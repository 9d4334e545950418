// ABOUTME: MCP prompt definitions and handlers
// ABOUTME: Provides workflow templates for researching, writing and tidying blog posts

package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.registerWritePostPrompt()
	s.registerReviewDraftsPrompt()
}

func (s *Server) registerWritePostPrompt() {
	s.mcpServer.AddPrompt(
		mcp.Prompt{
			Name:        "write-post",
			Description: "Find a trending topic for a domain and turn it into a published post",
			Arguments: []mcp.PromptArgument{
				{
					Name:        "domain",
					Description: "Domain to research (default: the most recent domain from topics_list_recent_domains)",
					Required:    false,
				},
			},
		},
		s.handleWritePost,
	)
}

//nolint:funlen // Prompt handlers contain large template strings
func (s *Server) handleWritePost(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	domain := ""
	if req.Params.Arguments != nil {
		domain = strings.TrimSpace(req.Params.Arguments["domain"])
	}

	step1 := "Call topics_list_recent_domains and pick the first domain. If the list is empty, ask the user which domain to write for."
	target := "the chosen domain"
	if domain != "" {
		step1 = fmt.Sprintf("Use the domain %q.", domain)
		target = fmt.Sprintf("%q", domain)
	}

	template := fmt.Sprintf(`# Write a Post

## Overview
Research what people are searching for around %s and publish one well-researched post about it.

## Workflow Steps

### Step 1: Choose the Domain
%s

### Step 2: Find Trending Topics
Call topics_find_trending with the domain and a limit of 5.
- Each topic has a search volume, a trend and a reason
- The topics are saved to the user's history automatically

### Step 3: Pick One Topic
Prefer topics with a rising trend and high search volume.
Skip topics the user already covered: call posts_list and compare titles and topics.

### Step 4: Generate the Post
Call post_generate_from_topic with the topic name and domain.
- Generation runs research, drafting and titling, and can take a few minutes
- The post is saved as published

### Step 5: Report Back
Summarise the title, word count and post ID.
Offer to adjust the title with posts_update or move the post back to draft.
`, target, step1)

	return &mcp.GetPromptResult{
		Description: "Research and publish a post for " + target,
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: template,
				},
			},
		},
	}, nil
}

func (s *Server) registerReviewDraftsPrompt() {
	s.mcpServer.AddPrompt(
		mcp.Prompt{
			Name:        "review-drafts",
			Description: "Walk through unpublished drafts and decide what to publish, edit or delete",
			Arguments:   []mcp.PromptArgument{},
		},
		s.handleReviewDrafts,
	)
}

func (s *Server) handleReviewDrafts(_ context.Context, _ mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	template := `# Review Drafts

## Workflow Steps

### Step 1: List Drafts
Call posts_list with status "draft". Follow nextCursor until it is absent.

### Step 2: Read Each Draft
Call posts_get for each draft. Note the word count and whether the content is finished.

### Step 3: Decide
- **Publish:** complete drafts. Call posts_update with status "published".
- **Edit:** drafts that need work. Suggest changes and apply them with posts_update.
- **Delete:** abandoned or duplicate drafts. Confirm with the user before calling posts_delete.

### Step 4: Summarise
List what was published, edited and deleted.
`

	return &mcp.GetPromptResult{
		Description: "Draft review workflow",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: template,
				},
			},
		},
	}, nil
}
