// ABOUTME: Integration tests for the full oneblog workflow
// ABOUTME: Drives the app API, the MCP tools over the service API, and a backend migration end to end

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/oneblog/internal/api"
	"github.com/harper/oneblog/internal/auth"
	"github.com/harper/oneblog/internal/backend"
	"github.com/harper/oneblog/internal/blog"
	"github.com/harper/oneblog/internal/llm"
	oneblogmcp "github.com/harper/oneblog/internal/mcp"
	"github.com/harper/oneblog/internal/models"
	"github.com/harper/oneblog/internal/storage"
	"github.com/harper/oneblog/internal/writer"
)

const (
	sessionSecret  = "integration-session"
	serviceSecret  = "integration-service"
	operatorSecret = "integration-operator"
)

// scriptedModel answers each model call with the next scripted reply.
type scriptedModel struct {
	replies []string
	calls   int
}

func (m *scriptedModel) CreateResponse(_ context.Context, _ llm.Request) (*llm.Response, error) {
	m.calls++
	text := ""
	if m.calls <= len(m.replies) {
		text = m.replies[m.calls-1]
	}
	return &llm.Response{Output: []llm.OutputItem{{
		Type:    "message",
		Role:    "assistant",
		Content: []llm.ContentPart{{Type: "output_text", Text: text}},
	}}}, nil
}

type stack struct {
	store    storage.Store
	model    *scriptedModel
	baseURL  string
	appToken string
	mcp      *oneblogmcp.Server
	nextID   int
}

func newStack(t *testing.T, replies ...string) *stack {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "oneblog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	model := &scriptedModel{replies: replies}
	sessions := auth.NewSessionGuard(sessionSecret)
	srv := api.NewServer(api.Options{
		Blog:         blog.NewService(store),
		Writer:       writer.NewService(store, model),
		SessionGuard: sessions,
		ServiceGuard: auth.NewServiceGuard(serviceSecret),
		Mode:         gin.TestMode,
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	appToken, err := sessions.Issue("alice", time.Hour)
	require.NoError(t, err)
	operatorToken, err := auth.NewTokenManager(operatorSecret, auth.OperatorIssuer).Issue("alice", time.Hour, time.Now())
	require.NoError(t, err)

	client := backend.NewClient(ts.URL, serviceSecret)
	st := &stack{
		store:    store,
		model:    model,
		baseURL:  ts.URL,
		appToken: appToken,
		mcp:      oneblogmcp.NewServer(client, oneblogmcp.NewSessionResolver(operatorSecret, operatorToken), "test"),
	}
	_, errMsg := st.rpc(t, "initialize", map[string]interface{}{
		"protocolVersion": mcp.LATEST_PROTOCOL_VERSION,
		"clientInfo":      map[string]interface{}{"name": "integration", "version": "1.0"},
		"capabilities":    map[string]interface{}{},
	})
	require.Empty(t, errMsg)
	return st
}

func (s *stack) app(t *testing.T, method, path string, body interface{}, out interface{}) int {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, s.baseURL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.appToken)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// rpc sends one JSON-RPC request to the MCP server and returns the raw result
// or the error message.
func (s *stack) rpc(t *testing.T, method string, params interface{}) (json.RawMessage, string) {
	t.Helper()
	s.nextID++
	raw, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      s.nextID,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	reply, err := json.Marshal(s.mcp.HandleMessage(context.Background(), raw))
	require.NoError(t, err)

	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(reply, &envelope))
	if envelope.Error != nil {
		return nil, envelope.Error.Message
	}
	return envelope.Result, ""
}

// callTool invokes a tool and decodes its structured content.
func (s *stack) callTool(t *testing.T, name string, args map[string]interface{}) map[string]interface{} {
	t.Helper()
	result, errMsg := s.rpc(t, "tools/call", map[string]interface{}{"name": name, "arguments": args})
	require.Empty(t, errMsg, "tool %s failed", name)

	var out struct {
		Content           []mcp.TextContent      `json:"content"`
		StructuredContent map[string]interface{} `json:"structuredContent"`
	}
	require.NoError(t, json.Unmarshal(result, &out))
	require.Len(t, out.Content, 2)
	return out.StructuredContent
}

// TestFullWorkflow researches topics in the app, writes a post through MCP,
// reads it back in the app, then migrates everything to the markdown backend.
func TestFullWorkflow(t *testing.T) {
	s := newStack(t,
		`[{"name":"Range over func","searchVolume":"high","trend":"rising","reason":"new in Go 1.23"}]`,
		"research notes",
		"## Range over func\n\nIterators are here.",
		`"Iterators Arrive in Go"`,
	)

	// App: find trending topics
	var trending struct {
		Topics []models.TopicCandidate `json:"topics"`
	}
	status := s.app(t, http.MethodPost, "/api/topics/trending", map[string]interface{}{"domain": "go.dev", "limit": 3}, &trending)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, trending.Topics, 1)

	// MCP: the search shows up as a recent domain for the same user
	domains := s.callTool(t, "topics_list_recent_domains", map[string]interface{}{})
	assert.Equal(t, []interface{}{"go.dev"}, domains["domains"])

	// MCP: generate a post from the topic
	generated := s.callTool(t, "post_generate_from_topic", map[string]interface{}{
		"topic":  trending.Topics[0].Name,
		"domain": "go.dev",
	})
	postID, _ := generated["postId"].(string)
	require.NotEmpty(t, postID)
	assert.Equal(t, "Iterators Arrive in Go", generated["title"])
	assert.Equal(t, "published", generated["status"])
	assert.Equal(t, 4, s.model.calls)

	// App: the post is visible to the session user
	var post models.Post
	status = s.app(t, http.MethodGet, "/api/posts/"+postID, nil, &post)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.GeneratedByAI, post.GeneratedBy)
	assert.Equal(t, 7, post.WordCount)

	// App: move it back to draft, MCP sees the change
	status = s.app(t, http.MethodPatch, "/api/posts/"+postID, map[string]interface{}{"status": "draft"}, nil)
	require.Equal(t, http.StatusOK, status)
	page := s.callTool(t, "posts_list", map[string]interface{}{"status": "draft"})
	items, _ := page["items"].([]interface{})
	assert.Len(t, items, 1)

	// Migrate the whole store to markdown files
	dst, err := storage.NewMarkdownStore(filepath.Join(t.TempDir(), "md"))
	require.NoError(t, err)
	defer dst.Close()

	summary, err := storage.MigrateData(context.Background(), s.store, dst)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Posts)
	assert.Equal(t, 1, summary.Topics)

	migrated, err := dst.GetPost(context.Background(), postID)
	require.NoError(t, err)
	assert.Equal(t, "Iterators Arrive in Go", migrated.Title)
	assert.Equal(t, models.StatusDraft, migrated.Status)
}

// TestUserIsolation checks that the operator cannot reach another user's posts.
func TestUserIsolation(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	other := models.NewPost("bob", "Bob's post", "private words", models.StatusDraft, models.GeneratedByUser, "bob.dev", "misc")
	require.NoError(t, s.store.CreatePost(ctx, other))

	args := map[string]interface{}{"name": "posts_get", "arguments": map[string]interface{}{"postId": other.ID}}
	_, errMsg := s.rpc(t, "tools/call", args)
	assert.Contains(t, errMsg, "post not found")

	args["name"] = "posts_delete"
	_, errMsg = s.rpc(t, "tools/call", args)
	assert.Contains(t, errMsg, "unauthorized")

	_, err := s.store.GetPost(ctx, other.ID)
	assert.NoError(t, err, "bob's post must survive")
}

// TestToolCatalog checks the tools an agent sees over the protocol.
func TestToolCatalog(t *testing.T) {
	s := newStack(t)

	result, errMsg := s.rpc(t, "tools/list", map[string]interface{}{})
	require.Empty(t, errMsg)

	var list struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(result, &list))

	var names []string
	for _, tool := range list.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"auth_whoami",
		"topics_find_trending",
		"topics_list_recent_domains",
		"post_generate_from_topic",
		"posts_create",
		"posts_get",
		"posts_list",
		"posts_update",
		"posts_delete",
	}, names)
}
