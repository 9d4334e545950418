// ABOUTME: Maps domain errors to HTTP statuses and writes JSON error bodies
// ABOUTME: Errors are logged once here, at the HTTP boundary

package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"github.com/harper/oneblog/internal/auth"
	"github.com/harper/oneblog/internal/blog"
	"github.com/harper/oneblog/internal/content"
	"github.com/harper/oneblog/internal/llm"
	"github.com/harper/oneblog/internal/storage"
	"github.com/harper/oneblog/internal/writer"
)

// errBadRequest marks undecodable request bodies.
var errBadRequest = errors.New("bad request")

// StatusFor returns the HTTP status for err.
func StatusFor(err error) int {
	var validationErrs validation.Errors
	var apiErr *llm.APIError

	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, blog.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &validationErrs),
		errors.Is(err, errBadRequest),
		errors.Is(err, blog.ErrInvalidInput),
		errors.Is(err, writer.ErrInvalidInput),
		errors.Is(err, writer.ErrUnknownProvider),
		errors.Is(err, content.ErrUnknownFormat):
		return http.StatusBadRequest
	case errors.Is(err, writer.ErrProviderNotConfigured):
		return http.StatusNotImplemented
	case errors.As(err, &apiErr),
		errors.Is(err, writer.ErrInvalidTopics),
		errors.Is(err, writer.ErrMalformedTopics),
		errors.Is(err, writer.ErrNoContent):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError logs err and writes {"error": ...} with the mapped status.
func abortWithError(c *gin.Context, err error) {
	status := StatusFor(err)
	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("status", status).
		Msg("request failed")

	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
