// ABOUTME: Tests for the Responses API client and text extraction
// ABOUTME: Uses httptest servers to check wire format, auth header, and error mapping

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateResponseMissingKey(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	c := NewClient("  ", "gpt-4o", srv.URL)
	_, err := c.CreateResponse(context.Background(), Request{Input: "hi"})
	require.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits), "no request should be sent without a key")
}

func TestCreateResponseWireFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/responses", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o", req.Model)
		assert.Equal(t, "find topics", req.Input)
		require.Len(t, req.Tools, 1)
		assert.Equal(t, "web_search_preview", req.Tools[0].Type)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"resp_1","output":[
			{"type":"web_search_call"},
			{"type":"message","role":"assistant","content":[{"type":"output_text","text":"hello"}]}
		]}`))
	}))
	defer srv.Close()

	c := NewClient("sk-test", "gpt-4o", srv.URL+"/v1/")
	resp, err := c.CreateResponse(context.Background(), Request{Input: "find topics", Tools: []Tool{WebSearchTool}})
	require.NoError(t, err)
	assert.Equal(t, "resp_1", resp.ID)
	assert.Equal(t, "hello", ExtractText(resp))
}

func TestCreateResponseOmitsToolsWithoutSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, hasTools := raw["tools"]
		assert.False(t, hasTools)
		_, _ = w.Write([]byte(`{"output":[]}`))
	}))
	defer srv.Close()

	_, err := NewClient("k", "gpt-4o", srv.URL).CreateResponse(context.Background(), Request{Input: "x"})
	require.NoError(t, err)
}

func TestCreateResponseAPIError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"envelope", http.StatusTooManyRequests, `{"error":{"message":"rate limited"}}`, "rate limited"},
		{"plain body", http.StatusBadGateway, "upstream down", "upstream down"},
		{"empty body", http.StatusInternalServerError, "", "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient("k", "gpt-4o", srv.URL).CreateResponse(context.Background(), Request{Input: "x"})
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr), "want *APIError, got %v", err)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestCreateResponseHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient("k", "gpt-4o", srv.URL).CreateResponse(ctx, Request{Input: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractText(t *testing.T) {
	msg := func(role string, parts ...ContentPart) OutputItem {
		return OutputItem{Type: "message", Role: role, Content: parts}
	}
	text := func(s string) ContentPart { return ContentPart{Type: "output_text", Text: s} }

	tests := []struct {
		name string
		resp *Response
		want string
	}{
		{"nil", nil, ""},
		{"no output", &Response{}, ""},
		{"single", &Response{Output: []OutputItem{msg("assistant", text("  hi  "))}}, "hi"},
		{
			"joins items with newline",
			&Response{Output: []OutputItem{msg("assistant", text("one")), msg("assistant", text("two"))}},
			"one\ntwo",
		},
		{
			"skips non-message items",
			&Response{Output: []OutputItem{{Type: "web_search_call"}, msg("assistant", text("kept"))}},
			"kept",
		},
		{
			"skips non-text parts",
			&Response{Output: []OutputItem{msg("assistant", ContentPart{Type: "refusal", Text: "no"}, text("yes"))}},
			"yes",
		},
		{
			"skips other roles",
			&Response{Output: []OutputItem{msg("user", text("prompt")), msg("", text("reply"))}},
			"reply",
		},
		{
			"only non-qualifying",
			&Response{Output: []OutputItem{{Type: "reasoning"}}},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractText(tt.resp))
		})
	}
}
