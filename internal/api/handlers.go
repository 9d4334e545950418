// ABOUTME: Handlers for the session-guarded app surface under /api
// ABOUTME: Each handler acts as the session caller and delegates to blog or writer

package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/harper/oneblog/internal/writer"
)

// decode reads the JSON body into req.
func decode(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// bind decodes the JSON body into req and runs its validation rules.
func bind(c *gin.Context, req interface{}) error {
	if err := decode(c, req); err != nil {
		return err
	}
	if v, ok := req.(validation.Validatable); ok {
		return v.Validate()
	}
	return nil
}

func (s *Server) appFindTrending(c *gin.Context) {
	var req trendingRequest
	if err := bind(c, &req); err != nil {
		abortWithError(c, err)
		return
	}

	topics, err := s.writer.FindTrendingTopics(c.Request.Context(), sessionCaller(c), writer.TrendingRequest{
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

func (s *Server) appListTopics(c *gin.Context) {
	topics, err := s.blog.ListTopics(c.Request.Context(), sessionCaller(c), c.Query("domain"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}

func (s *Server) appRecentDomains(c *gin.Context) {
	domains, err := s.blog.RecentDomains(c.Request.Context(), sessionCaller(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"domains": domains})
}

func (s *Server) appGeneratePost(c *gin.Context) {
	var req generateRequest
	if err := bind(c, &req); err != nil {
		abortWithError(c, err)
		return
	}

	post, err := s.writer.GeneratePost(c.Request.Context(), sessionCaller(c), writer.GenerateRequest{
		Topic:    req.Topic,
		Domain:   req.Domain,
		Provider: req.Provider,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (s *Server) appListPosts(c *gin.Context) {
	posts, err := s.blog.AllPosts(c.Request.Context(), sessionCaller(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (s *Server) appGetPost(c *gin.Context) {
	post, err := s.blog.GetPost(c.Request.Context(), sessionCaller(c), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (s *Server) appCreatePost(c *gin.Context) {
	var req createPostRequest
	if err := bind(c, &req); err != nil {
		abortWithError(c, err)
		return
	}
	s.createPost(c, sessionCaller(c), req)
}

func (s *Server) appUpdatePost(c *gin.Context) {
	var req updatePostRequest
	if err := bind(c, &req); err != nil {
		abortWithError(c, err)
		return
	}

	post, err := s.updatePost(c, sessionCaller(c), c.Param("id"), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (s *Server) appDeletePost(c *gin.Context) {
	if err := s.blog.DeletePost(c.Request.Context(), sessionCaller(c), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
