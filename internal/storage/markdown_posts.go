// ABOUTME: Post CRUD operations for MarkdownStore
// ABOUTME: Persists posts as markdown files with YAML frontmatter keyed by post ID

package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/harper/oneblog/internal/models"
)

// postFrontmatter holds the YAML frontmatter of a post markdown file.
type postFrontmatter struct {
	ID          string `yaml:"id"`
	UserID      string `yaml:"user_id"`
	Title       string `yaml:"title"`
	Status      string `yaml:"status"`
	GeneratedBy string `yaml:"generated_by"`
	Domain      string `yaml:"domain"`
	Topic       string `yaml:"topic"`
	WordCount   int    `yaml:"word_count"`
	CreatedAt   string `yaml:"created_at"`
	UpdatedAt   string `yaml:"updated_at"`
}

func fromPostModel(p *models.Post) postFrontmatter {
	return postFrontmatter{
		ID:          p.ID,
		UserID:      p.UserID,
		Title:       p.Title,
		Status:      string(p.Status),
		GeneratedBy: p.GeneratedBy,
		Domain:      p.Domain,
		Topic:       p.Topic,
		WordCount:   p.WordCount,
		CreatedAt:   formatTime(p.CreatedAt),
		UpdatedAt:   formatTime(p.UpdatedAt),
	}
}

func (fm *postFrontmatter) toModel(content string) (*models.Post, error) {
	createdAt, err := parseTime(fm.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse post created_at %q: %w", fm.CreatedAt, err)
	}
	updatedAt, err := parseTime(fm.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse post updated_at %q: %w", fm.UpdatedAt, err)
	}
	return &models.Post{
		ID:          fm.ID,
		UserID:      fm.UserID,
		Title:       fm.Title,
		Content:     content,
		Status:      models.PostStatus(fm.Status),
		GeneratedBy: fm.GeneratedBy,
		Domain:      fm.Domain,
		Topic:       fm.Topic,
		WordCount:   fm.WordCount,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// postFilePath returns the file for a post ID. IDs that are not UUIDs are
// rejected so caller-supplied IDs can never escape the posts directory.
func (s *MarkdownStore) postFilePath(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("post %s: %w", id, ErrNotFound)
	}
	return filepath.Join(s.postsDir(), id+".md"), nil
}

func readPostFile(path string) (*models.Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	yamlStr, body := parseFrontmatter(string(data))
	if yamlStr == "" {
		return nil, fmt.Errorf("no frontmatter found in %s", path)
	}

	var fm postFrontmatter
	if err := yaml.Unmarshal([]byte(yamlStr), &fm); err != nil {
		return nil, fmt.Errorf("parse post frontmatter in %s: %w", path, err)
	}
	return fm.toModel(body)
}

func writePostFile(path string, p *models.Post) error {
	fm := fromPostModel(p)
	data, err := renderFrontmatter(&fm, p.Content)
	if err != nil {
		return fmt.Errorf("render post frontmatter: %w", err)
	}
	return atomicWrite(path, data)
}

// CreatePost stores a new post.
func (s *MarkdownStore) CreatePost(_ context.Context, post *models.Post) error {
	path, err := s.postFilePath(post.ID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("post already exists: %s", post.ID)
	}
	return writePostFile(path, post)
}

// GetPost retrieves a post by ID.
func (s *MarkdownStore) GetPost(_ context.Context, id string) (*models.Post, error) {
	path, err := s.postFilePath(id)
	if err != nil {
		return nil, ErrNotFound
	}
	post, err := readPostFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return post, nil
}

// UpdatePost overwrites the mutable fields of an existing post.
func (s *MarkdownStore) UpdatePost(_ context.Context, post *models.Post) error {
	path, err := s.postFilePath(post.ID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := readPostFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("post %s: %w", post.ID, ErrNotFound)
		}
		return err
	}

	existing.Title = post.Title
	existing.Content = post.Content
	existing.Status = post.Status
	existing.WordCount = post.WordCount
	existing.UpdatedAt = post.UpdatedAt
	return writePostFile(path, existing)
}

// DeletePost removes a post.
func (s *MarkdownStore) DeletePost(_ context.Context, id string) error {
	path, err := s.postFilePath(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("post %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// ListPostsByUser returns a user's posts, newest first.
func (s *MarkdownStore) ListPostsByUser(_ context.Context, userID string, status *models.PostStatus) ([]*models.Post, error) {
	dirEntries, err := os.ReadDir(s.postsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read posts directory: %w", err)
	}

	var posts []*models.Post
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".md") {
			continue
		}
		post, err := readPostFile(filepath.Join(s.postsDir(), de.Name()))
		if err != nil {
			// Skip malformed files
			continue
		}
		if post.UserID != userID {
			continue
		}
		if status != nil && post.Status != *status {
			continue
		}
		posts = append(posts, post)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

// AllPosts returns every post ordered by creation time, oldest first.
func (s *MarkdownStore) AllPosts(_ context.Context) ([]*models.Post, error) {
	dirEntries, err := os.ReadDir(s.postsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read posts directory: %w", err)
	}

	var posts []*models.Post
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".md") {
			continue
		}
		post, err := readPostFile(filepath.Join(s.postsDir(), de.Name()))
		if err != nil {
			continue
		}
		posts = append(posts, post)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.Before(posts[j].CreatedAt)
	})
	return posts, nil
}
