// ABOUTME: Ownership-scoped post and topic operations for both HTTP surfaces
// ABOUTME: Every call takes an auth.Caller and never exposes another user's records

package blog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/harper/oneblog/internal/auth"
	"github.com/harper/oneblog/internal/content"
	"github.com/harper/oneblog/internal/models"
	"github.com/harper/oneblog/internal/storage"
)

// Listing limits.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

var (
	// ErrNotFound is returned by reads of missing or foreign posts.
	ErrNotFound = errors.New("post not found")

	// ErrInvalidInput is returned for missing or malformed fields.
	ErrInvalidInput = errors.New("invalid input")
)

// Service implements post and topic CRUD on top of a Store.
type Service struct {
	store storage.Store
	now   func() time.Time
}

// NewService creates a Service backed by store.
func NewService(store storage.Store) *Service {
	return &Service{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// ListOptions filters and pages a post listing.
type ListOptions struct {
	Status *models.PostStatus
	Limit  int
	// Cursor is the decimal offset returned as NextCursor by the previous page.
	Cursor string
}

// PostPage is one page of post summaries.
type PostPage struct {
	Items      []models.PostSummary `json:"items"`
	NextCursor string               `json:"nextCursor,omitempty"`
}

// ClampListLimit maps 0 to the default and clamps everything else to [1,100].
func ClampListLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultListLimit
	case limit < 1:
		return 1
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}

// parseCursor reads an offset cursor. Invalid or negative values restart at 0.
func parseCursor(cursor string) int {
	if cursor == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(cursor))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ListPosts returns a page of the caller's posts, newest first.
func (s *Service) ListPosts(ctx context.Context, caller auth.Caller, opts ListOptions) (*PostPage, error) {
	userID, err := caller.Require()
	if err != nil {
		return nil, err
	}

	posts, err := s.store.ListPostsByUser(ctx, userID, opts.Status)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	limit := ClampListLimit(opts.Limit)
	offset := parseCursor(opts.Cursor)

	page := &PostPage{Items: []models.PostSummary{}}
	if offset < len(posts) {
		end := offset + limit
		if end > len(posts) {
			end = len(posts)
		}
		for _, p := range posts[offset:end] {
			page.Items = append(page.Items, p.Summary())
		}
	}
	if next := offset + limit; next < len(posts) {
		page.NextCursor = strconv.Itoa(next)
	}
	return page, nil
}

// AllPosts returns every post the caller owns, newest first, with content.
func (s *Service) AllPosts(ctx context.Context, caller auth.Caller) ([]*models.Post, error) {
	userID, err := caller.Require()
	if err != nil {
		return nil, err
	}
	posts, err := s.store.ListPostsByUser(ctx, userID, nil)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// GetPost returns one of the caller's posts. Missing and foreign posts are
// both ErrNotFound.
func (s *Service) GetPost(ctx context.Context, caller auth.Caller, id string) (*models.Post, error) {
	userID, err := caller.Require()
	if err != nil {
		return nil, err
	}
	return s.owned(ctx, userID, id, ErrNotFound)
}

// owned loads a post and hides it behind denied unless userID owns it.
func (s *Service) owned(ctx context.Context, userID, id string, denied error) (*models.Post, error) {
	post, err := s.store.GetPost(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, denied
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	if post.UserID != userID {
		return nil, denied
	}
	return post, nil
}

// CreateInput describes a post written by a user or an agent.
type CreateInput struct {
	Title       string
	Content     string
	Format      content.Format
	Status      models.PostStatus
	GeneratedBy string
	Domain      string
	Topic       string
}

// CreateResult reports the stored post.
type CreateResult struct {
	PostID    string            `json:"postId"`
	Status    models.PostStatus `json:"status"`
	WordCount int               `json:"wordCount"`
}

// CreatePost stores a new post owned by the caller. Status defaults to draft;
// provenance defaults to mcp for service callers and user otherwise.
func (s *Service) CreatePost(ctx context.Context, caller auth.Caller, in CreateInput) (*CreateResult, error) {
	userID, err := caller.Require()
	if err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = models.StatusDraft
	}
	if _, err := models.ParsePostStatus(string(status)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	generatedBy := strings.TrimSpace(in.GeneratedBy)
	if generatedBy == "" {
		generatedBy = models.GeneratedByUser
		if caller.Channel() == auth.ChannelService {
			generatedBy = models.GeneratedByMCP
		}
	}

	body, err := content.Normalize(in.Content, in.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	post := models.NewPost(
		userID,
		strings.TrimSpace(in.Title),
		body,
		status,
		generatedBy,
		strings.TrimSpace(in.Domain),
		strings.TrimSpace(in.Topic),
	)
	post.CreatedAt = s.now()
	post.UpdatedAt = post.CreatedAt

	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &CreateResult{PostID: post.ID, Status: post.Status, WordCount: post.WordCount}, nil
}

// UpdatePost applies patch to one of the caller's posts. Missing and foreign
// posts are both auth.ErrUnauthorized.
func (s *Service) UpdatePost(ctx context.Context, caller auth.Caller, id string, patch models.PostPatch, format content.Format) (*models.Post, error) {
	userID, err := caller.Require()
	if err != nil {
		return nil, err
	}
	if patch.Status != nil {
		if _, err := models.ParsePostStatus(string(*patch.Status)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	if patch.Content != nil {
		body, err := content.Normalize(*patch.Content, format)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		patch.Content = &body
	}

	post, err := s.owned(ctx, userID, id, auth.ErrUnauthorized)
	if err != nil {
		return nil, err
	}

	post.Apply(patch, s.now())
	if err := s.store.UpdatePost(ctx, post); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, auth.ErrUnauthorized
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return post, nil
}

// DeletePost removes one of the caller's posts. Missing and foreign posts are
// both auth.ErrUnauthorized.
func (s *Service) DeletePost(ctx context.Context, caller auth.Caller, id string) error {
	userID, err := caller.Require()
	if err != nil {
		return err
	}
	if _, err := s.owned(ctx, userID, id, auth.ErrUnauthorized); err != nil {
		return err
	}
	if err := s.store.DeletePost(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return auth.ErrUnauthorized
		}
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// ListTopics returns the caller's topics newest first, optionally for one domain.
func (s *Service) ListTopics(ctx context.Context, caller auth.Caller, domain string) ([]*models.Topic, error) {
	userID, err := caller.Require()
	if err != nil {
		return nil, err
	}

	var topics []*models.Topic
	if domain = strings.TrimSpace(domain); domain != "" {
		topics, err = s.store.ListTopicsByDomain(ctx, userID, domain)
	} else {
		topics, err = s.store.ListTopicsByUser(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	if topics == nil {
		topics = []*models.Topic{}
	}
	return topics, nil
}

// RecentDomains returns up to five distinct domains from the caller's topic
// history, most recent first.
func (s *Service) RecentDomains(ctx context.Context, caller auth.Caller) ([]string, error) {
	userID, err := caller.Require()
	if err != nil {
		return nil, err
	}
	topics, err := s.store.ListTopicsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	return storage.RecentDomains(topics, storage.MaxRecentDomains), nil
}

// InsertTopics stores a batch of candidates for the caller under one timestamp.
func (s *Service) InsertTopics(ctx context.Context, caller auth.Caller, domain string, candidates []models.TopicCandidate) error {
	userID, err := caller.Require()
	if err != nil {
		return err
	}
	if domain = strings.TrimSpace(domain); domain == "" {
		return fmt.Errorf("%w: domain is required", ErrInvalidInput)
	}
	if err := s.store.InsertTopicBatch(ctx, userID, domain, candidates, s.now()); err != nil {
		return fmt.Errorf("insert topics: %w", err)
	}
	return nil
}
