// ABOUTME: Data migration between oneblog storage backends
// ABOUTME: Copies posts and topics from source to destination store

package storage

import (
	"context"
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Posts  int
	Topics int
}

// MigrateData copies all data from src to dst storage.
// Posts and topics are created in source insertion order so the destination
// lists them identically. The destination should be empty before calling
// this function.
func MigrateData(ctx context.Context, src, dst Store) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	posts, err := src.AllPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source posts: %w", err)
	}
	for _, post := range posts {
		if err := dst.CreatePost(ctx, post); err != nil {
			return nil, fmt.Errorf("create post %s: %w", post.ID, err)
		}
		summary.Posts++
	}

	topics, err := src.AllTopics(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source topics: %w", err)
	}
	for _, topic := range topics {
		if err := dst.CreateTopic(ctx, topic); err != nil {
			return nil, fmt.Errorf("create topic %s: %w", topic.ID, err)
		}
		summary.Topics++
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
