// ABOUTME: SQLite storage implementation using modernc.org/sqlite (pure Go)
// ABOUTME: Provides post and topic persistence with per-user indexes

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/harper/oneblog/internal/models"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// Compile-time check that SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite storage instance.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	// WAL mode lets the HTTP server read while a write is in flight
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the database tables if they don't exist.
func (s *SQLiteStore) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS posts (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT UNIQUE NOT NULL,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			status TEXT NOT NULL,
			generated_by TEXT NOT NULL,
			domain TEXT NOT NULL,
			topic TEXT NOT NULL,
			word_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_posts_user ON posts(user_id, created_at);
		CREATE INDEX IF NOT EXISTS idx_posts_status ON posts(status);

		CREATE TABLE IF NOT EXISTS topics (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT UNIQUE NOT NULL,
			user_id TEXT NOT NULL,
			domain TEXT NOT NULL,
			name TEXT NOT NULL,
			search_volume TEXT NOT NULL,
			trend TEXT NOT NULL,
			reason TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_topics_user ON topics(user_id, created_at);
		CREATE INDEX IF NOT EXISTS idx_topics_user_domain ON topics(user_id, domain);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Post Operations

const postColumns = `id, user_id, title, content, status, generated_by, domain, topic, word_count, created_at, updated_at`

// CreatePost stores a new post.
func (s *SQLiteStore) CreatePost(ctx context.Context, post *models.Post) error {
	query := `INSERT INTO posts (` + postColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		post.ID, post.UserID, post.Title, post.Content, string(post.Status),
		post.GeneratedBy, post.Domain, post.Topic, post.WordCount,
		post.CreatedAt.UTC(), post.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

// GetPost retrieves a post by ID.
func (s *SQLiteStore) GetPost(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = ?`
	return scanPost(s.db.QueryRowContext(ctx, query, id))
}

// UpdatePost overwrites the mutable fields of an existing post.
func (s *SQLiteStore) UpdatePost(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts SET
			title = ?, content = ?, status = ?, word_count = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		post.Title, post.Content, string(post.Status), post.WordCount, post.UpdatedAt.UTC(),
		post.ID,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("post %s: %w", post.ID, ErrNotFound)
	}
	return nil
}

// DeletePost removes a post.
func (s *SQLiteStore) DeletePost(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("post %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListPostsByUser returns a user's posts, newest first.
func (s *SQLiteStore) ListPostsByUser(ctx context.Context, userID string, status *models.PostStatus) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE user_id = ?`
	args := []interface{}{userID}
	if status != nil {
		query += ` AND status = ?`
		args = append(args, string(*status))
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// Topic Operations

// InsertTopicBatch inserts each candidate as an independent record.
func (s *SQLiteStore) InsertTopicBatch(ctx context.Context, userID, domain string, candidates []models.TopicCandidate, createdAt time.Time) error {
	query := `
		INSERT INTO topics (id, user_id, domain, name, search_volume, trend, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, c := range candidates {
		_, err := s.db.ExecContext(ctx, query,
			uuid.New().String(), userID, domain,
			c.Name, c.SearchVolume, c.Trend, c.Reason, createdAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("insert topic %q: %w", c.Name, err)
		}
	}
	return nil
}

const topicColumns = `id, user_id, domain, name, search_volume, trend, reason, created_at`

// ListTopicsByUser returns a user's topics, newest first.
func (s *SQLiteStore) ListTopicsByUser(ctx context.Context, userID string) ([]*models.Topic, error) {
	query := `SELECT ` + topicColumns + ` FROM topics WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`
	return s.queryTopics(ctx, query, userID)
}

// ListTopicsByDomain returns a user's topics for one domain, newest first.
func (s *SQLiteStore) ListTopicsByDomain(ctx context.Context, userID, domain string) ([]*models.Topic, error) {
	query := `SELECT ` + topicColumns + ` FROM topics WHERE user_id = ? AND domain = ? ORDER BY created_at DESC, rowid DESC`
	return s.queryTopics(ctx, query, userID, domain)
}

func (s *SQLiteStore) queryTopics(ctx context.Context, query string, args ...interface{}) ([]*models.Topic, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query topics: %w", err)
	}
	defer rows.Close()

	var topics []*models.Topic
	for rows.Next() {
		var t models.Topic
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Domain,
			&t.Name, &t.SearchVolume, &t.Trend, &t.Reason, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, &t)
	}
	return topics, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var post models.Post
	var status string
	if err := row.Scan(
		&post.ID, &post.UserID, &post.Title, &post.Content, &status,
		&post.GeneratedBy, &post.Domain, &post.Topic, &post.WordCount,
		&post.CreatedAt, &post.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}
	post.Status = models.PostStatus(status)
	return &post, nil
}

// Bulk Operations

// AllPosts returns every post in insertion order.
func (s *SQLiteStore) AllPosts(ctx context.Context) ([]*models.Post, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+postColumns+` FROM posts ORDER BY rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// AllTopics returns every topic in insertion order.
func (s *SQLiteStore) AllTopics(ctx context.Context) ([]*models.Topic, error) {
	return s.queryTopics(ctx, `SELECT `+topicColumns+` FROM topics ORDER BY rowid ASC`)
}

// CreateTopic stores a single topic record.
func (s *SQLiteStore) CreateTopic(ctx context.Context, t *models.Topic) error {
	query := `INSERT INTO topics (` + topicColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		t.ID, t.UserID, t.Domain, t.Name, t.SearchVolume, t.Trend, t.Reason, t.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert topic: %w", err)
	}
	return nil
}
