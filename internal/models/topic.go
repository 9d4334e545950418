// ABOUTME: Topic models for AI-discovered blog subjects
// ABOUTME: TopicCandidate is the model-produced shape; Topic is the persisted record

package models

import (
	"time"

	"github.com/google/uuid"
)

// TopicCandidate is a proposed blog subject with trend metadata.
type TopicCandidate struct {
	Name         string `json:"name" yaml:"name"`
	SearchVolume string `json:"searchVolume" yaml:"search_volume"`
	Trend        string `json:"trend" yaml:"trend"`
	Reason       string `json:"reason" yaml:"reason"`
}

// Topic is a persisted topic candidate, owned by a user and tagged with the
// domain it was discovered for. Topics are immutable once written.
type Topic struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Domain string `json:"domain"`
	TopicCandidate
	CreatedAt time.Time `json:"createdAt"`
}

// NewTopic creates a Topic from a candidate with a generated ID.
func NewTopic(userID, domain string, c TopicCandidate, createdAt time.Time) *Topic {
	return &Topic{
		ID:             uuid.New().String(),
		UserID:         userID,
		Domain:         domain,
		TopicCandidate: c,
		CreatedAt:      createdAt,
	}
}
