// ABOUTME: Tests for SQLite storage implementation
// ABOUTME: Runs the shared store suite plus SQLite-specific file and ordering checks

package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harper/oneblog/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	return store
}

func TestNewSQLiteStore(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()

	// Verify database file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestSQLiteStoreSuite(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store { return newTestStore(t) })
}

func TestSQLiteBatchOrderingWithSharedTimestamp(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()
	ctx := context.Background()
	now := time.Now().UTC()

	mustNoErr(t, store.InsertTopicBatch(ctx, "alice", "a.com", []models.TopicCandidate{
		{Name: "first"}, {Name: "second"}, {Name: "third"},
	}, now))

	topics, err := store.ListTopicsByUser(ctx, "alice")
	if err != nil {
		t.Fatalf("ListTopicsByUser failed: %v", err)
	}
	want := []string{"third", "second", "first"}
	for i, name := range want {
		if topics[i].Name != name {
			t.Errorf("topics[%d] = %q, want %q", i, topics[i].Name, name)
		}
	}
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(dbPath)
	mustNoErr(t, err)
	post := models.NewPost("alice", "kept", "body", models.StatusDraft, models.GeneratedByAI, "a.com", "x")
	mustNoErr(t, store.CreatePost(ctx, post))
	mustNoErr(t, store.Close())

	store, err = NewSQLiteStore(dbPath)
	mustNoErr(t, err)
	defer store.Close()

	got, err := store.GetPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetPost after reopen failed: %v", err)
	}
	if got.Title != "kept" {
		t.Errorf("Title = %q, want kept", got.Title)
	}
}
