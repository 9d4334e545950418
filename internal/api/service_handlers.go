// ABOUTME: Handlers for the service-secret surface under /service/v1
// ABOUTME: Each handler acts as the userId named in the body once the secret has been checked

package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/harper/oneblog/internal/auth"
	"github.com/harper/oneblog/internal/blog"
	"github.com/harper/oneblog/internal/content"
	"github.com/harper/oneblog/internal/models"
	"github.com/harper/oneblog/internal/writer"
)

// WhoAmIAuthType names how MCP operators authenticate.
const WhoAmIAuthType = "jwt"

// actingUser is implemented by every service body through serviceEnvelope.
type actingUser interface {
	actingUserID() string
}

func (e serviceEnvelope) actingUserID() string { return e.UserID }

// bindService decodes req, resolves the acting caller, then validates. The
// caller is resolved before validation so unauthenticated bodies fail as 401.
func bindService(c *gin.Context, req actingUser) (auth.Caller, bool) {
	if err := decode(c, req); err != nil {
		abortWithError(c, err)
		return auth.Caller{}, false
	}
	caller, err := actAs(c, req.actingUserID())
	if err != nil {
		abortWithError(c, err)
		return auth.Caller{}, false
	}
	if v, ok := req.(validation.Validatable); ok {
		if err := v.Validate(); err != nil {
			abortWithError(c, err)
			return auth.Caller{}, false
		}
	}
	return caller, true
}

func (s *Server) svcWhoAmI(c *gin.Context) {
	var req serviceEnvelope
	caller, ok := bindService(c, &req)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": caller.UserID(), "authType": WhoAmIAuthType})
}

func (s *Server) svcRecentDomains(c *gin.Context) {
	var req serviceEnvelope
	caller, ok := bindService(c, &req)
	if !ok {
		return
	}
	domains, err := s.blog.RecentDomains(c.Request.Context(), caller)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"domains": domains})
}

func (s *Server) svcInsertTopics(c *gin.Context) {
	var req topicBatchRequest
	caller, ok := bindService(c, &req)
	if !ok {
		return
	}
	if err := s.blog.InsertTopics(c.Request.Context(), caller, req.Domain, req.Topics); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) svcFindTrending(c *gin.Context) {
	var req serviceTrendingRequest
	caller, ok := bindService(c, &req)
	if !ok {
		return
	}
	topics, err := s.writer.FindTrendingTopics(c.Request.Context(), caller, writer.TrendingRequest{
		Domain:   req.Domain,
		Limit:    req.Limit,
		Provider: req.Provider,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}

func (s *Server) svcGeneratePost(c *gin.Context) {
	var req serviceGenerateRequest
	caller, ok := bindService(c, &req)
	if !ok {
		return
	}
	post, err := s.writer.GeneratePost(c.Request.Context(), caller, writer.GenerateRequest{
		Topic:    req.Topic,
		Domain:   req.Domain,
		Provider: req.Provider,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (s *Server) svcListPosts(c *gin.Context) {
	var req serviceListRequest
	caller, ok := bindService(c, &req)
	if !ok {
		return
	}
	opts := blog.ListOptions{Limit: req.Limit, Cursor: req.Cursor}
	if req.Status != "" {
		status := models.PostStatus(req.Status)
		opts.Status = &status
	}
	page, err := s.blog.ListPosts(c.Request.Context(), caller, opts)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) svcGetPost(c *gin.Context) {
	var req servicePostRequest
	caller, ok := bindService(c, &req)
	if !ok {
		return
	}
	post, err := s.blog.GetPost(c.Request.Context(), caller, req.PostID)
	if errors.Is(err, blog.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{"post": nil})
		return
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (s *Server) svcCreatePost(c *gin.Context) {
	var req serviceCreateRequest
	caller, ok := bindService(c, &req)
	if !ok {
		return
	}
	s.createPost(c, caller, req.createPostRequest)
}

func (s *Server) svcUpdatePost(c *gin.Context) {
	var req serviceUpdateRequest
	caller, ok := bindService(c, &req)
	if !ok {
		return
	}
	if _, err := s.updatePost(c, caller, req.PostID, req.updatePostRequest); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) svcDeletePost(c *gin.Context) {
	var req servicePostRequest
	caller, ok := bindService(c, &req)
	if !ok {
		return
	}
	if err := s.blog.DeletePost(c.Request.Context(), caller, req.PostID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// createPost is shared by both surfaces once the caller is known.
func (s *Server) createPost(c *gin.Context, caller auth.Caller, req createPostRequest) {
	format, err := content.ParseFormat(req.Format)
	if err != nil {
		abortWithError(c, err)
		return
	}
	result, err := s.blog.CreatePost(c.Request.Context(), caller, blog.CreateInput{
		Title:       req.Title,
		Content:     req.Content,
		Format:      format,
		Status:      models.PostStatus(req.Status),
		GeneratedBy: req.GeneratedBy,
		Domain:      req.Domain,
		Topic:       req.Topic,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (s *Server) updatePost(c *gin.Context, caller auth.Caller, id string, req updatePostRequest) (*models.Post, error) {
	format, err := content.ParseFormat(req.Format)
	if err != nil {
		return nil, err
	}
	return s.blog.UpdatePost(c.Request.Context(), caller, id, req.patch(), format)
}
