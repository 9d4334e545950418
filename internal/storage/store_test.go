// ABOUTME: Backend-agnostic behaviour tests run against every Store implementation
// ABOUTME: Covers post CRUD, per-user scoping, ordering, and topic batches

package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harper/oneblog/internal/models"
)

// runStoreSuite exercises the Store contract against a fresh store per subtest.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("PostCRUD", func(t *testing.T) { testPostCRUD(t, newStore(t)) })
	t.Run("PostNotFound", func(t *testing.T) { testPostNotFound(t, newStore(t)) })
	t.Run("ListPostsByUser", func(t *testing.T) { testListPostsByUser(t, newStore(t)) })
	t.Run("TopicBatch", func(t *testing.T) { testTopicBatch(t, newStore(t)) })
	t.Run("TopicsByDomain", func(t *testing.T) { testTopicsByDomain(t, newStore(t)) })
	t.Run("BulkOperations", func(t *testing.T) { testBulkOperations(t, newStore(t)) })
}

func mustNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func testPostCRUD(t *testing.T, store Store) {
	defer store.Close()
	ctx := context.Background()

	post := models.NewPost("user-1", "Hello", "one two three", models.StatusDraft, models.GeneratedByAI, "example.com", "Go")
	mustNoErr(t, store.CreatePost(ctx, post))

	got, err := store.GetPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Title != "Hello" || got.Content != "one two three" {
		t.Errorf("unexpected post: %+v", got)
	}
	if got.UserID != "user-1" || got.Domain != "example.com" || got.Topic != "Go" {
		t.Errorf("owner fields mismatch: %+v", got)
	}
	if got.WordCount != 3 {
		t.Errorf("WordCount = %d, want 3", got.WordCount)
	}
	if got.Status != models.StatusDraft || got.GeneratedBy != models.GeneratedByAI {
		t.Errorf("status fields mismatch: %+v", got)
	}
	if d := got.CreatedAt.Sub(post.CreatedAt); d > time.Millisecond || d < -time.Millisecond {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, post.CreatedAt)
	}

	newContent := "four five"
	published := models.StatusPublished
	got.Apply(models.PostPatch{Content: &newContent, Status: &published}, time.Now())
	mustNoErr(t, store.UpdatePost(ctx, got))

	updated, err := store.GetPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetPost after update failed: %v", err)
	}
	if updated.Content != "four five" || updated.WordCount != 2 {
		t.Errorf("content not updated: %+v", updated)
	}
	if updated.Status != models.StatusPublished {
		t.Errorf("Status = %q, want published", updated.Status)
	}
	if updated.Domain != "example.com" {
		t.Errorf("immutable Domain changed to %q", updated.Domain)
	}

	mustNoErr(t, store.DeletePost(ctx, post.ID))
	if _, err := store.GetPost(ctx, post.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPost after delete: got %v, want ErrNotFound", err)
	}
}

func testPostNotFound(t *testing.T, store Store) {
	defer store.Close()
	ctx := context.Background()
	missing := models.NewPost("user-1", "t", "c", models.StatusDraft, models.GeneratedByMCP, "d", "t")

	if _, err := store.GetPost(ctx, missing.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPost: got %v, want ErrNotFound", err)
	}
	if err := store.UpdatePost(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdatePost: got %v, want ErrNotFound", err)
	}
	if err := store.DeletePost(ctx, missing.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeletePost: got %v, want ErrNotFound", err)
	}
}

func testListPostsByUser(t *testing.T, store Store) {
	defer store.Close()
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second).Add(-time.Hour)

	var ids []string
	for i, status := range []models.PostStatus{models.StatusDraft, models.StatusPublished, models.StatusDraft} {
		p := models.NewPost("alice", "post", "body", status, models.GeneratedByAI, "a.com", "x")
		p.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		p.UpdatedAt = p.CreatedAt
		mustNoErr(t, store.CreatePost(ctx, p))
		ids = append(ids, p.ID)
	}
	mustNoErr(t, store.CreatePost(ctx, models.NewPost("bob", "other", "body", models.StatusDraft, models.GeneratedByAI, "b.com", "y")))

	posts, err := store.ListPostsByUser(ctx, "alice", nil)
	if err != nil {
		t.Fatalf("ListPostsByUser failed: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("got %d posts, want 3", len(posts))
	}
	for i, want := range []string{ids[2], ids[1], ids[0]} {
		if posts[i].ID != want {
			t.Errorf("posts[%d] = %s, want %s (newest first)", i, posts[i].ID, want)
		}
	}

	drafts := models.StatusDraft
	posts, err = store.ListPostsByUser(ctx, "alice", &drafts)
	if err != nil {
		t.Fatalf("ListPostsByUser with status failed: %v", err)
	}
	if len(posts) != 2 {
		t.Errorf("got %d drafts, want 2", len(posts))
	}

	posts, err = store.ListPostsByUser(ctx, "nobody", nil)
	if err != nil {
		t.Fatalf("ListPostsByUser for unknown user failed: %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("got %d posts for unknown user, want 0", len(posts))
	}
}

func testTopicBatch(t *testing.T, store Store) {
	defer store.Close()
	ctx := context.Background()
	// Whole seconds so every backend round-trips the timestamp exactly
	first := time.Now().UTC().Truncate(time.Second).Add(-time.Hour)
	second := first.Add(30 * time.Minute)

	mustNoErr(t, store.InsertTopicBatch(ctx, "alice", "old.com", []models.TopicCandidate{
		{Name: "Old topic", SearchVolume: "low", Trend: "stable", Reason: "r"},
	}, first))
	mustNoErr(t, store.InsertTopicBatch(ctx, "alice", "new.com", []models.TopicCandidate{
		{Name: "A", SearchVolume: "high", Trend: "rising", Reason: "ra"},
		{Name: "B", SearchVolume: "medium", Trend: "stable", Reason: "rb"},
	}, second))
	mustNoErr(t, store.InsertTopicBatch(ctx, "bob", "bob.com", []models.TopicCandidate{
		{Name: "Bob topic", SearchVolume: "low", Trend: "falling", Reason: "r"},
	}, second))

	topics, err := store.ListTopicsByUser(ctx, "alice")
	if err != nil {
		t.Fatalf("ListTopicsByUser failed: %v", err)
	}
	if len(topics) != 3 {
		t.Fatalf("got %d topics, want 3", len(topics))
	}
	if topics[2].Name != "Old topic" {
		t.Errorf("oldest topic should list last, got %q", topics[2].Name)
	}
	for _, topic := range topics[:2] {
		if topic.Domain != "new.com" || !topic.CreatedAt.Equal(second) {
			t.Errorf("batch topic mismatch: %+v", topic)
		}
		if topic.ID == "" {
			t.Error("topic ID should be assigned")
		}
	}
	if topics[0].ID == topics[1].ID {
		t.Error("each batch record should get its own ID")
	}

	got := RecentDomains(topics, MaxRecentDomains)
	if len(got) != 2 || got[0] != "new.com" || got[1] != "old.com" {
		t.Errorf("RecentDomains = %v, want [new.com old.com]", got)
	}
}

func testTopicsByDomain(t *testing.T, store Store) {
	defer store.Close()
	ctx := context.Background()
	now := time.Now().UTC()

	mustNoErr(t, store.InsertTopicBatch(ctx, "alice", "a.com", []models.TopicCandidate{{Name: "one"}}, now))
	mustNoErr(t, store.InsertTopicBatch(ctx, "alice", "b.com", []models.TopicCandidate{{Name: "two"}}, now))
	mustNoErr(t, store.InsertTopicBatch(ctx, "bob", "a.com", []models.TopicCandidate{{Name: "three"}}, now))

	topics, err := store.ListTopicsByDomain(ctx, "alice", "a.com")
	if err != nil {
		t.Fatalf("ListTopicsByDomain failed: %v", err)
	}
	if len(topics) != 1 || topics[0].Name != "one" {
		t.Errorf("got %+v, want only alice's a.com topic", topics)
	}
}

func testBulkOperations(t *testing.T, store Store) {
	defer store.Close()
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	p1 := models.NewPost("alice", "first", "a", models.StatusDraft, models.GeneratedByAI, "a.com", "x")
	p1.CreatedAt = base
	p2 := models.NewPost("bob", "second", "b", models.StatusDraft, models.GeneratedByAI, "b.com", "y")
	p2.CreatedAt = base.Add(time.Minute)
	mustNoErr(t, store.CreatePost(ctx, p1))
	mustNoErr(t, store.CreatePost(ctx, p2))

	topic := models.NewTopic("carol", "c.com", models.TopicCandidate{Name: "kept"}, base)
	mustNoErr(t, store.CreateTopic(ctx, topic))

	posts, err := store.AllPosts(ctx)
	if err != nil {
		t.Fatalf("AllPosts failed: %v", err)
	}
	if len(posts) != 2 || posts[0].ID != p1.ID || posts[1].ID != p2.ID {
		t.Errorf("AllPosts should span users oldest first, got %d posts", len(posts))
	}

	topics, err := store.AllTopics(ctx)
	if err != nil {
		t.Fatalf("AllTopics failed: %v", err)
	}
	if len(topics) != 1 || topics[0].ID != topic.ID {
		t.Errorf("CreateTopic should keep the topic ID, got %+v", topics)
	}
}

func TestRecentDomains(t *testing.T) {
	mk := func(domains ...string) []*models.Topic {
		var out []*models.Topic
		for _, d := range domains {
			out = append(out, &models.Topic{Domain: d})
		}
		return out
	}

	tests := []struct {
		name   string
		topics []*models.Topic
		want   []string
	}{
		{"empty", nil, []string{}},
		{"dedupe keeps first", mk("a", "b", "a", "c"), []string{"a", "b", "c"}},
		{"caps at five", mk("a", "b", "c", "d", "e", "f", "g"), []string{"a", "b", "c", "d", "e"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecentDomains(tt.topics, MaxRecentDomains)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}
