// ABOUTME: Post model representing a persisted blog article with lifecycle status
// ABOUTME: Provides constructors, status parsing, patch application and word counting

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PostStatus is the lifecycle state of a post.
type PostStatus string

const (
	StatusDraft      PostStatus = "draft"
	StatusGenerating PostStatus = "generating"
	StatusPublished  PostStatus = "published"
)

// PostStatuses lists every valid status in display order.
var PostStatuses = []PostStatus{StatusDraft, StatusGenerating, StatusPublished}

// Provenance tags recorded in GeneratedBy.
const (
	GeneratedByAI   = "ai"
	GeneratedByMCP  = "mcp"
	GeneratedByUser = "user"
)

// ParsePostStatus validates a status string.
func ParsePostStatus(s string) (PostStatus, error) {
	for _, status := range PostStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", fmt.Errorf("invalid post status %q: must be one of draft, generating, published", s)
}

// Post represents a blog article owned by a single user
type Post struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Status      PostStatus `json:"status"`
	GeneratedBy string     `json:"generatedBy"`
	Domain      string     `json:"domain"`
	Topic       string     `json:"topic"`
	WordCount   int        `json:"wordCount"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewPost creates a Post with a generated ID, matching timestamps and a word
// count derived from content.
func NewPost(userID, title, content string, status PostStatus, generatedBy, domain, topic string) *Post {
	now := time.Now().UTC()
	return &Post{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       title,
		Content:     content,
		Status:      status,
		GeneratedBy: generatedBy,
		Domain:      domain,
		Topic:       topic,
		WordCount:   CountWords(content),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// PostPatch holds the independently patchable fields of a post.
// Nil fields are left untouched.
type PostPatch struct {
	Title   *string
	Content *string
	Status  *PostStatus
}

// IsEmpty reports whether the patch changes nothing.
func (p PostPatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Status == nil
}

// Apply patches the post in place. WordCount follows Content; UpdatedAt is
// always bumped.
func (p *Post) Apply(patch PostPatch, now time.Time) {
	if patch.Title != nil {
		p.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Content != nil {
		p.Content = *patch.Content
		p.WordCount = CountWords(p.Content)
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	p.UpdatedAt = now
}

// PostSummary is a Post without its content, used for listings.
type PostSummary struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Status      PostStatus `json:"status"`
	Domain      string     `json:"domain"`
	Topic       string     `json:"topic"`
	WordCount   int        `json:"wordCount"`
	GeneratedBy string     `json:"generatedBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Summary returns the listing view of the post.
func (p *Post) Summary() PostSummary {
	return PostSummary{
		ID:          p.ID,
		Title:       p.Title,
		Status:      p.Status,
		Domain:      p.Domain,
		Topic:       p.Topic,
		WordCount:   p.WordCount,
		GeneratedBy: p.GeneratedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// CountWords returns the number of whitespace-delimited tokens in content.
func CountWords(content string) int {
	return len(strings.Fields(content))
}
