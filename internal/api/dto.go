// ABOUTME: Request bodies for both HTTP surfaces with ozzo-validation rules
// ABOUTME: Service bodies carry the acting userId alongside the operation fields

package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/harper/oneblog/internal/content"
	"github.com/harper/oneblog/internal/models"
	"github.com/harper/oneblog/internal/writer"
)

func anyOf[T ~string](values []T) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

var (
	statusRule   = validation.In(anyOf(models.PostStatuses)...).Error("status must be draft, generating or published")
	providerRule = validation.In(anyOf(writer.KnownProviders)...).Error("provider must be openai_web or gsc")
	formatRule   = validation.In(string(content.FormatMarkdown), string(content.FormatHTML)).Error("format must be markdown or html")
)

type trendingRequest struct {
	Domain   string `json:"domain"`
	Limit    int    `json:"limit"`
	Provider string `json:"provider"`
}

func (r trendingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Domain, validation.Required.Error("domain is required")),
		validation.Field(&r.Provider, providerRule),
	)
}

type generateRequest struct {
	Topic    string `json:"topic"`
	Domain   string `json:"domain"`
	Provider string `json:"provider"`
}

func (r generateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Topic, validation.Required.Error("topic is required")),
		validation.Field(&r.Domain, validation.Required.Error("domain is required")),
		validation.Field(&r.Provider, providerRule),
	)
}

type createPostRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Format      string `json:"format"`
	Status      string `json:"status"`
	GeneratedBy string `json:"generatedBy"`
	Domain      string `json:"domain"`
	Topic       string `json:"topic"`
}

func (r createPostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("title is required")),
		validation.Field(&r.Status, statusRule),
		validation.Field(&r.Format, formatRule),
	)
}

type updatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Status  *string `json:"status"`
	Format  string  `json:"format"`
}

func (r updatePostRequest) Validate() error {
	if r.Title == nil && r.Content == nil && r.Status == nil {
		return validation.Errors{"body": validation.NewError("validation_update_empty", "at least one of title, content or status is required")}
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty.Error("title cannot be blank")),
		validation.Field(&r.Status, statusRule),
		validation.Field(&r.Format, formatRule),
	)
}

func (r updatePostRequest) patch() models.PostPatch {
	patch := models.PostPatch{Title: r.Title, Content: r.Content}
	if r.Status != nil {
		status := models.PostStatus(*r.Status)
		patch.Status = &status
	}
	return patch
}

type topicBatchRequest struct {
	serviceEnvelope
	Domain string                  `json:"domain"`
	Topics []models.TopicCandidate `json:"topics"`
}

func (r topicBatchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Domain, validation.Required.Error("domain is required")),
	)
}

// serviceEnvelope is the acting user every service body names.
type serviceEnvelope struct {
	UserID string `json:"userId"`
}

type serviceTrendingRequest struct {
	serviceEnvelope
	trendingRequest
}

type serviceGenerateRequest struct {
	serviceEnvelope
	generateRequest
}

type serviceListRequest struct {
	serviceEnvelope
	Status string `json:"status"`
	Limit  int    `json:"limit"`
	Cursor string `json:"cursor"`
}

func (r serviceListRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, statusRule),
	)
}

type servicePostRequest struct {
	serviceEnvelope
	PostID string `json:"postId"`
}

func (r servicePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PostID, validation.Required.Error("postId is required")),
	)
}

type serviceCreateRequest struct {
	serviceEnvelope
	createPostRequest
}

type serviceUpdateRequest struct {
	serviceEnvelope
	PostID string `json:"postId"`
	updatePostRequest
}

func (r serviceUpdateRequest) Validate() error {
	if r.PostID == "" {
		return validation.Errors{"postId": validation.NewError("validation_required", "postId is required")}
	}
	return r.updatePostRequest.Validate()
}
