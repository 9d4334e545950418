// ABOUTME: Tests for storage migration between backends
// ABOUTME: Covers sqlite-to-markdown, markdown-to-sqlite, and round-trip integrity

package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harper/oneblog/internal/models"
)

// seedBlogTestData populates a storage backend with a representative data set.
func seedBlogTestData(t *testing.T, src Store) ([]*models.Post, []*models.Topic) {
	t.Helper()
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second).Add(-2 * time.Hour)

	p1 := models.NewPost("alice", "Go generics", "Generics arrived in Go.", models.StatusPublished, models.GeneratedByAI, "go.dev", "generics")
	p1.CreatedAt, p1.UpdatedAt = base, base
	p2 := models.NewPost("bob", "Draft", "Work in progress", models.StatusDraft, models.GeneratedByMCP, "bob.dev", "drafts")
	p2.CreatedAt, p2.UpdatedAt = base.Add(time.Minute), base.Add(time.Minute)
	mustNoErr(t, src.CreatePost(ctx, p1))
	mustNoErr(t, src.CreatePost(ctx, p2))

	mustNoErr(t, src.InsertTopicBatch(ctx, "alice", "go.dev", []models.TopicCandidate{
		{Name: "Iterators", SearchVolume: "high", Trend: "rising", Reason: "new in 1.23"},
		{Name: "Fuzzing", SearchVolume: "medium", Trend: "stable", Reason: "steady interest"},
	}, base))

	topics, err := src.AllTopics(ctx)
	mustNoErr(t, err)
	return []*models.Post{p1, p2}, topics
}

func verifyMigrated(t *testing.T, dst Store, posts []*models.Post, topics []*models.Topic) {
	t.Helper()
	ctx := context.Background()

	for _, want := range posts {
		got, err := dst.GetPost(ctx, want.ID)
		if err != nil {
			t.Fatalf("GetPost(%s) in destination: %v", want.ID, err)
		}
		if got.Title != want.Title || got.Content != want.Content || got.UserID != want.UserID {
			t.Errorf("post %s mismatch: got %+v", want.ID, got)
		}
		if got.Status != want.Status || got.WordCount != want.WordCount {
			t.Errorf("post %s status/wordcount mismatch: got %+v", want.ID, got)
		}
		if !got.CreatedAt.Equal(want.CreatedAt) {
			t.Errorf("post %s CreatedAt = %v, want %v", want.ID, got.CreatedAt, want.CreatedAt)
		}
	}

	gotTopics, err := dst.ListTopicsByUser(ctx, "alice")
	mustNoErr(t, err)
	if len(gotTopics) != len(topics) {
		t.Fatalf("got %d topics, want %d", len(gotTopics), len(topics))
	}
	// Newest first with insertion order preserved as the tie-break
	if gotTopics[0].Name != "Fuzzing" || gotTopics[1].Name != "Iterators" {
		t.Errorf("topic order = [%s %s], want [Fuzzing Iterators]", gotTopics[0].Name, gotTopics[1].Name)
	}
}

func TestMigrateData_SqliteToMarkdown(t *testing.T) {
	src := newTestStore(t)
	defer src.Close()
	dst := newTestMarkdownStore(t)

	posts, topics := seedBlogTestData(t, src)

	summary, err := MigrateData(context.Background(), src, dst)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if summary.Posts != 2 || summary.Topics != 2 {
		t.Errorf("summary = %+v, want 2 posts and 2 topics", summary)
	}
	verifyMigrated(t, dst, posts, topics)
}

func TestMigrateData_MarkdownToSqlite(t *testing.T) {
	src := newTestMarkdownStore(t)
	dst := newTestStore(t)
	defer dst.Close()

	posts, topics := seedBlogTestData(t, src)

	if _, err := MigrateData(context.Background(), src, dst); err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	verifyMigrated(t, dst, posts, topics)
}

func TestMigrateData_EmptySource(t *testing.T) {
	src := newTestStore(t)
	defer src.Close()
	dst := newTestMarkdownStore(t)

	summary, err := MigrateData(context.Background(), src, dst)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if summary.Posts != 0 || summary.Topics != 0 {
		t.Errorf("summary = %+v, want zero counts", summary)
	}
}

func TestMigrateRoundTrip_SqliteToMarkdownToSqlite(t *testing.T) {
	src := newTestStore(t)
	defer src.Close()
	mid := newTestMarkdownStore(t)
	dst := newTestStore(t)
	defer dst.Close()

	posts, topics := seedBlogTestData(t, src)

	ctx := context.Background()
	if _, err := MigrateData(ctx, src, mid); err != nil {
		t.Fatalf("first hop failed: %v", err)
	}
	if _, err := MigrateData(ctx, mid, dst); err != nil {
		t.Fatalf("second hop failed: %v", err)
	}
	verifyMigrated(t, dst, posts, topics)
}

func TestIsDirNonEmpty(t *testing.T) {
	// Empty directory
	emptyDir := t.TempDir()
	nonEmpty, err := IsDirNonEmpty(emptyDir)
	if err != nil {
		t.Fatalf("IsDirNonEmpty on empty dir: %v", err)
	}
	if nonEmpty {
		t.Error("expected empty dir to be reported as empty")
	}

	// Non-empty directory
	nonEmptyDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(nonEmptyDir, "file.txt"), []byte("data"), 0644); err != nil {
		t.Fatalf("create file: %v", err)
	}
	nonEmpty, err = IsDirNonEmpty(nonEmptyDir)
	if err != nil {
		t.Fatalf("IsDirNonEmpty on non-empty dir: %v", err)
	}
	if !nonEmpty {
		t.Error("expected non-empty dir to be reported as non-empty")
	}

	// Non-existent directory
	nonEmpty, err = IsDirNonEmpty(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("IsDirNonEmpty on non-existent dir: %v", err)
	}
	if nonEmpty {
		t.Error("expected non-existent dir to be reported as empty")
	}
}
