// ABOUTME: Parses topic candidates out of free-text model output
// ABOUTME: Strips an optional code fence, decodes JSON, and shape-checks every element

package writer

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/harper/oneblog/internal/models"
)

var (
	// ErrInvalidTopics is returned when the decoded value has the wrong shape.
	ErrInvalidTopics = errors.New("invalid topics response")

	// ErrMalformedTopics is returned when the model output is not valid JSON.
	ErrMalformedTopics = errors.New("malformed topics JSON")
)

var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

var topicFields = []string{"name", "searchVolume", "trend", "reason"}

// ParseTopicCandidates decodes at most limit candidates from raw. A limit
// below 1 keeps every element. Any malformed element fails the whole call.
func ParseTopicCandidates(raw string, limit int) ([]models.TopicCandidate, error) {
	text := raw
	if m := fencePattern.FindStringSubmatch(raw); m != nil {
		text = strings.TrimSpace(m[1])
	}

	var decoded interface{}
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTopics, err)
	}

	items, ok := decoded.([]interface{})
	if !ok || len(items) == 0 {
		return nil, ErrInvalidTopics
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	candidates := make([]models.TopicCandidate, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrInvalidTopics, i)
		}

		values := make(map[string]string, len(topicFields))
		for _, field := range topicFields {
			s, ok := obj[field].(string)
			if !ok {
				return nil, fmt.Errorf("%w: element %d field %q must be a string", ErrInvalidTopics, i, field)
			}
			values[field] = s
		}

		candidates = append(candidates, models.TopicCandidate{
			Name:         values["name"],
			SearchVolume: values["searchVolume"],
			Trend:        values["trend"],
			Reason:       values["reason"],
		})
	}
	return candidates, nil
}
