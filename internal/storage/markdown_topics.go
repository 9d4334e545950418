// ABOUTME: Topic operations for MarkdownStore
// ABOUTME: Appends topic records to the _topics.yaml registry one write per record

package storage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/harper/oneblog/internal/models"
)

// topicRecord represents a single topic in the _topics.yaml file.
type topicRecord struct {
	ID           string `yaml:"id"`
	UserID       string `yaml:"user_id"`
	Domain       string `yaml:"domain"`
	Name         string `yaml:"name"`
	SearchVolume string `yaml:"search_volume"`
	Trend        string `yaml:"trend"`
	Reason       string `yaml:"reason"`
	CreatedAt    string `yaml:"created_at"`
}

func (r *topicRecord) toModel() (*models.Topic, error) {
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse topic created_at %q: %w", r.CreatedAt, err)
	}
	return &models.Topic{
		ID:     r.ID,
		UserID: r.UserID,
		Domain: r.Domain,
		TopicCandidate: models.TopicCandidate{
			Name:         r.Name,
			SearchVolume: r.SearchVolume,
			Trend:        r.Trend,
			Reason:       r.Reason,
		},
		CreatedAt: createdAt,
	}, nil
}

func (s *MarkdownStore) readTopics() ([]topicRecord, error) {
	var records []topicRecord
	if err := readYAML(s.topicsFilePath(), &records); err != nil {
		return nil, fmt.Errorf("read topics file: %w", err)
	}
	return records, nil
}

// InsertTopicBatch appends each candidate with its own registry write.
func (s *MarkdownStore) InsertTopicBatch(_ context.Context, userID, domain string, candidates []models.TopicCandidate, createdAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range candidates {
		records, err := s.readTopics()
		if err != nil {
			return err
		}
		records = append(records, topicRecord{
			ID:           uuid.New().String(),
			UserID:       userID,
			Domain:       domain,
			Name:         c.Name,
			SearchVolume: c.SearchVolume,
			Trend:        c.Trend,
			Reason:       c.Reason,
			CreatedAt:    formatTime(createdAt),
		})
		if err := writeYAML(s.topicsFilePath(), records); err != nil {
			return fmt.Errorf("insert topic %q: %w", c.Name, err)
		}
	}
	return nil
}

// ListTopicsByUser returns a user's topics, newest first.
func (s *MarkdownStore) ListTopicsByUser(_ context.Context, userID string) ([]*models.Topic, error) {
	return s.listTopics(func(r *topicRecord) bool { return r.UserID == userID })
}

// ListTopicsByDomain returns a user's topics for one domain, newest first.
func (s *MarkdownStore) ListTopicsByDomain(_ context.Context, userID, domain string) ([]*models.Topic, error) {
	return s.listTopics(func(r *topicRecord) bool { return r.UserID == userID && r.Domain == domain })
}

func (s *MarkdownStore) listTopics(match func(*topicRecord) bool) ([]*models.Topic, error) {
	s.mu.Lock()
	records, err := s.readTopics()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	// Walk backwards so later inserts come first among equal timestamps
	var topics []*models.Topic
	for i := len(records) - 1; i >= 0; i-- {
		if !match(&records[i]) {
			continue
		}
		t, err := records[i].toModel()
		if err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}

	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].CreatedAt.After(topics[j].CreatedAt)
	})
	return topics, nil
}

// AllTopics returns every topic in registry order.
func (s *MarkdownStore) AllTopics(_ context.Context) ([]*models.Topic, error) {
	s.mu.Lock()
	records, err := s.readTopics()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	topics := make([]*models.Topic, 0, len(records))
	for i := range records {
		t, err := records[i].toModel()
		if err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, nil
}

// CreateTopic appends a single topic record.
func (s *MarkdownStore) CreateTopic(_ context.Context, t *models.Topic) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readTopics()
	if err != nil {
		return err
	}
	records = append(records, topicRecord{
		ID:           t.ID,
		UserID:       t.UserID,
		Domain:       t.Domain,
		Name:         t.Name,
		SearchVolume: t.SearchVolume,
		Trend:        t.Trend,
		Reason:       t.Reason,
		CreatedAt:    formatTime(t.CreatedAt),
	})
	return writeYAML(s.topicsFilePath(), records)
}
