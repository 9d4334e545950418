// ABOUTME: PostgreSQL storage implementation using pgx connection pooling
// ABOUTME: Mirrors the SQLite schema with a serial sequence column for stable ordering

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harper/oneblog/internal/models"
)

// PostgresStore implements the Store interface using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Compile-time check that PostgresStore implements Store.
var _ Store = (*PostgresStore)(nil)

// NewPostgresStore connects to the database at connString and ensures the schema exists.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.initSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS posts (
			seq BIGSERIAL,
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			status TEXT NOT NULL,
			generated_by TEXT NOT NULL,
			domain TEXT NOT NULL,
			topic TEXT NOT NULL,
			word_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_user ON posts(user_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS topics (
			seq BIGSERIAL,
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			domain TEXT NOT NULL,
			name TEXT NOT NULL,
			search_volume TEXT NOT NULL,
			trend TEXT NOT NULL,
			reason TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_topics_user ON topics(user_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_topics_user_domain ON topics(user_id, domain)`,
	}

	for _, q := range queries {
		if _, err := s.pool.Exec(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// CreatePost stores a new post.
func (s *PostgresStore) CreatePost(ctx context.Context, post *models.Post) error {
	query := `INSERT INTO posts (` + postColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := s.pool.Exec(ctx, query,
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
func (s *PostgresStore) GetPost(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	post, err := scanPgPost(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost overwrites the mutable fields of an existing post.
func (s *PostgresStore) UpdatePost(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts SET title = $1, content = $2, status = $3, word_count = $4, updated_at = $5
		WHERE id = $6
	`
	tag, err := s.pool.Exec(ctx, query,
		post.Title, post.Content, string(post.Status), post.WordCount, post.UpdatedAt.UTC(), post.ID,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("post %s: %w", post.ID, ErrNotFound)
	}
	return nil
}

// DeletePost removes a post.
func (s *PostgresStore) DeletePost(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("post %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListPostsByUser returns a user's posts, newest first.
func (s *PostgresStore) ListPostsByUser(ctx context.Context, userID string, status *models.PostStatus) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE user_id = $1`
	args := []any{userID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, string(*status))
	}
	query += ` ORDER BY created_at DESC, seq DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPgPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// InsertTopicBatch inserts each candidate as an independent record.
func (s *PostgresStore) InsertTopicBatch(ctx context.Context, userID, domain string, candidates []models.TopicCandidate, createdAt time.Time) error {
	query := `
		INSERT INTO topics (id, user_id, domain, name, search_volume, trend, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, c := range candidates {
		if _, err := s.pool.Exec(ctx, query,
			uuid.New().String(), userID, domain,
			c.Name, c.SearchVolume, c.Trend, c.Reason, createdAt.UTC(),
		); err != nil {
			return fmt.Errorf("insert topic %q: %w", c.Name, err)
		}
	}
	return nil
}

// ListTopicsByUser returns a user's topics, newest first.
func (s *PostgresStore) ListTopicsByUser(ctx context.Context, userID string) ([]*models.Topic, error) {
	query := `SELECT ` + topicColumns + ` FROM topics WHERE user_id = $1 ORDER BY created_at DESC, seq DESC`
	return s.queryTopics(ctx, query, userID)
}

// ListTopicsByDomain returns a user's topics for one domain, newest first.
func (s *PostgresStore) ListTopicsByDomain(ctx context.Context, userID, domain string) ([]*models.Topic, error) {
	query := `SELECT ` + topicColumns + ` FROM topics WHERE user_id = $1 AND domain = $2 ORDER BY created_at DESC, seq DESC`
	return s.queryTopics(ctx, query, userID, domain)
}

func (s *PostgresStore) queryTopics(ctx context.Context, query string, args ...any) ([]*models.Topic, error) {
	rows, err := s.pool.Query(ctx, query, args...)
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

func scanPgPost(row pgx.Row) (*models.Post, error) {
	var post models.Post
	var status string
	if err := row.Scan(
		&post.ID, &post.UserID, &post.Title, &post.Content, &status,
		&post.GeneratedBy, &post.Domain, &post.Topic, &post.WordCount,
		&post.CreatedAt, &post.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}
	post.Status = models.PostStatus(status)
	return &post, nil
}

// AllPosts returns every post in insertion order.
func (s *PostgresStore) AllPosts(ctx context.Context) ([]*models.Post, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+postColumns+` FROM posts ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPgPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// AllTopics returns every topic in insertion order.
func (s *PostgresStore) AllTopics(ctx context.Context) ([]*models.Topic, error) {
	return s.queryTopics(ctx, `SELECT `+topicColumns+` FROM topics ORDER BY seq ASC`)
}

// CreateTopic stores a single topic record.
func (s *PostgresStore) CreateTopic(ctx context.Context, t *models.Topic) error {
	query := `INSERT INTO topics (` + topicColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := s.pool.Exec(ctx, query,
		t.ID, t.UserID, t.Domain, t.Name, t.SearchVolume, t.Trend, t.Reason, t.CreatedAt.UTC(),
	); err != nil {
		return fmt.Errorf("insert topic: %w", err)
	}
	return nil
}
