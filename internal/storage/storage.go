// ABOUTME: Storage interface and types for oneblog data persistence
// ABOUTME: Defines the contract for post and topic storage operations

package storage

import (
	"context"
	"errors"
	"time"

	"github.com/harper/oneblog/internal/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// MaxRecentDomains caps the recent-domains listing.
const MaxRecentDomains = 5

// Store defines the storage interface for oneblog data.
// Every listing is scoped to a single owning user.
type Store interface {
	// Close closes the store and releases resources.
	Close() error

	// Post Operations

	// CreatePost stores a new post.
	CreatePost(ctx context.Context, post *models.Post) error

	// GetPost retrieves a post by ID regardless of owner.
	GetPost(ctx context.Context, id string) (*models.Post, error)

	// UpdatePost overwrites the mutable fields of an existing post.
	UpdatePost(ctx context.Context, post *models.Post) error

	// DeletePost removes a post.
	DeletePost(ctx context.Context, id string) error

	// ListPostsByUser returns a user's posts, newest first, optionally
	// filtered by status.
	ListPostsByUser(ctx context.Context, userID string, status *models.PostStatus) ([]*models.Post, error)

	// Topic Operations

	// InsertTopicBatch inserts each candidate as its own record sharing one
	// timestamp. The inserts are independent; a failure part way through
	// leaves the earlier records in place.
	InsertTopicBatch(ctx context.Context, userID, domain string, candidates []models.TopicCandidate, createdAt time.Time) error

	// ListTopicsByUser returns a user's topics, newest first.
	ListTopicsByUser(ctx context.Context, userID string) ([]*models.Topic, error)

	// ListTopicsByDomain returns a user's topics for one domain, newest first.
	ListTopicsByDomain(ctx context.Context, userID, domain string) ([]*models.Topic, error)

	// Bulk Operations (used by migrate)

	// AllPosts returns every post across users in insertion order.
	AllPosts(ctx context.Context) ([]*models.Post, error)

	// AllTopics returns every topic across users in insertion order.
	AllTopics(ctx context.Context) ([]*models.Topic, error)

	// CreateTopic stores a single topic, keeping its ID and timestamp.
	CreateTopic(ctx context.Context, topic *models.Topic) error
}

// RecentDomains returns up to max distinct domains from topics ordered newest
// first, keeping the first occurrence of each.
func RecentDomains(topics []*models.Topic, max int) []string {
	seen := make(map[string]bool)
	domains := make([]string, 0, max)
	for _, t := range topics {
		if seen[t.Domain] {
			continue
		}
		seen[t.Domain] = true
		domains = append(domains, t.Domain)
		if len(domains) >= max {
			break
		}
	}
	return domains
}
