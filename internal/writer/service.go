// ABOUTME: Trending-topic and post-generation orchestrators
// ABOUTME: Each call authorises the caller, runs its model calls in sequence, then persists

package writer

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/harper/oneblog/internal/auth"
	"github.com/harper/oneblog/internal/llm"
	"github.com/harper/oneblog/internal/models"
	"github.com/harper/oneblog/internal/storage"
)

// Topic limits.
const (
	DefaultTopicLimit = 5
	MaxTopicLimit     = 10
)

var (
	// ErrInvalidInput is returned for missing or malformed request fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoContent is returned when the draft step produces no text.
	ErrNoContent = errors.New("no content generated")
)

// TrendingRequest asks for trending topic candidates in a domain.
type TrendingRequest struct {
	Domain   string
	Limit    int
	Provider string
}

// GenerateRequest asks for a full post about a topic.
type GenerateRequest struct {
	Topic    string
	Domain   string
	Provider string
}

// GeneratedPost mirrors exactly what was persisted.
type GeneratedPost struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	WordCount int    `json:"wordCount"`
}

// Service runs the AI pipelines against a store.
type Service struct {
	store     storage.Store
	llm       llm.Responder
	providers *Registry
	now       func() time.Time
}

// NewService wires the orchestrators. The openai_web provider shares responder.
func NewService(store storage.Store, responder llm.Responder) *Service {
	return &Service{
		store:     store,
		llm:       responder,
		providers: NewRegistry(NewOpenAIWeb(responder)),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ClampTopicLimit maps 0 to the default and clamps everything else to [1,10].
func ClampTopicLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultTopicLimit
	case limit < 1:
		return 1
	case limit > MaxTopicLimit:
		return MaxTopicLimit
	default:
		return limit
	}
}

// FindTrendingTopics asks the provider for candidates, persists them as one
// batch, and returns the same candidates.
func (s *Service) FindTrendingTopics(ctx context.Context, caller auth.Caller, req TrendingRequest) ([]models.TopicCandidate, error) {
	userID, err := caller.Require()
	if err != nil {
		return nil, err
	}
	domain := strings.TrimSpace(req.Domain)
	if domain == "" {
		return nil, fmt.Errorf("%w: domain is required", ErrInvalidInput)
	}
	provider, err := s.providers.Resolve(req.Provider)
	if err != nil {
		return nil, err
	}
	limit := ClampTopicLimit(req.Limit)

	logger := log.With().Str("user_id", userID).Str("domain", domain).Str("provider", provider.Name()).Logger()
	logger.Info().Int("limit", limit).Str("step", "search").Msg("finding trending topics")

	raw, err := provider.Search(ctx, trendingPrompt(domain, limit))
	if err != nil {
		return nil, fmt.Errorf("search trending topics: %w", err)
	}

	candidates, err := ParseTopicCandidates(raw, limit)
	if err != nil {
		return nil, err
	}

	if err := s.store.InsertTopicBatch(ctx, userID, domain, candidates, s.now()); err != nil {
		return nil, fmt.Errorf("save topics: %w", err)
	}

	logger.Info().Int("count", len(candidates)).Str("step", "persist").Msg("saved trending topics")
	return candidates, nil
}

// GeneratePost researches, drafts and titles a post, then saves it as published.
func (s *Service) GeneratePost(ctx context.Context, caller auth.Caller, req GenerateRequest) (*GeneratedPost, error) {
	userID, err := caller.Require()
	if err != nil {
		return nil, err
	}
	topic := strings.TrimSpace(req.Topic)
	domain := strings.TrimSpace(req.Domain)
	if topic == "" || domain == "" {
		return nil, fmt.Errorf("%w: topic and domain are required", ErrInvalidInput)
	}
	provider, err := s.providers.Resolve(req.Provider)
	if err != nil {
		return nil, err
	}

	logger := log.With().Str("user_id", userID).Str("domain", domain).Str("topic", topic).Logger()

	logger.Info().Str("step", "research").Msg("generating post")
	research, err := provider.Search(ctx, researchPrompt(topic, domain))
	if err != nil {
		return nil, fmt.Errorf("research: %w", err)
	}

	logger.Info().Str("step", "draft").Int("research_chars", len(research)).Msg("generating post")
	content, err := s.complete(ctx, draftPrompt(research, topic, domain))
	if err != nil {
		return nil, fmt.Errorf("draft: %w", err)
	}
	if content == "" {
		return nil, ErrNoContent
	}

	logger.Info().Str("step", "title").Msg("generating post")
	rawTitle, err := s.complete(ctx, titlePrompt(topic))
	if err != nil {
		return nil, fmt.Errorf("title: %w", err)
	}
	title := cleanTitle(rawTitle)
	if title == "" {
		title = topic
	}

	post := models.NewPost(userID, title, content, models.StatusPublished, models.GeneratedByAI, domain, topic)
	post.CreatedAt = s.now()
	post.UpdatedAt = post.CreatedAt
	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("save post: %w", err)
	}

	logger.Info().Str("step", "persist").Str("post_id", post.ID).Int("word_count", post.WordCount).Msg("post generated")
	return &GeneratedPost{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		WordCount: post.WordCount,
	}, nil
}

// complete runs a prompt without web search.
func (s *Service) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := s.llm.CreateResponse(ctx, llm.Request{Input: prompt})
	if err != nil {
		return "", err
	}
	return llm.ExtractText(resp), nil
}

var edgeQuotes = regexp.MustCompile(`^["']|["']$`)

// cleanTitle trims and strips at most one quote character from each end.
func cleanTitle(s string) string {
	return strings.TrimSpace(edgeQuotes.ReplaceAllString(strings.TrimSpace(s), ""))
}
