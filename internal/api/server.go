// ABOUTME: gin HTTP server exposing the session-guarded app surface and the service surface
// ABOUTME: Wires blog CRUD and the writer orchestrators behind their guards

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harper/oneblog/internal/auth"
	"github.com/harper/oneblog/internal/blog"
	"github.com/harper/oneblog/internal/writer"
)

// Options holds the server dependencies.
type Options struct {
	Blog         *blog.Service
	Writer       *writer.Service
	SessionGuard *auth.SessionGuard
	ServiceGuard *auth.ServiceGuard
	// Mode is the gin mode; empty leaves the global mode alone.
	Mode string
}

// Server routes HTTP requests to the blog and writer services.
type Server struct {
	router  *gin.Engine
	blog    *blog.Service
	writer  *writer.Service
	session *auth.SessionGuard
	service *auth.ServiceGuard
}

// NewServer builds the router with every route registered.
func NewServer(opts Options) *Server {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}

	s := &Server{
		router:  gin.New(),
		blog:    opts.Blog,
		writer:  opts.Writer,
		session: opts.SessionGuard,
		service: opts.ServiceGuard,
	}
	s.router.Use(Recovery(), Logger())
	s.routes()
	return s
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	app := s.router.Group("/api", RequireSession(s.session))
	{
		app.POST("/topics/trending", s.appFindTrending)
		app.GET("/topics", s.appListTopics)
		app.GET("/topics/recent-domains", s.appRecentDomains)

		app.POST("/posts/generate", s.appGeneratePost)
		app.GET("/posts", s.appListPosts)
		app.GET("/posts/:id", s.appGetPost)
		app.POST("/posts", s.appCreatePost)
		app.PATCH("/posts/:id", s.appUpdatePost)
		app.DELETE("/posts/:id", s.appDeletePost)
	}

	svc := s.router.Group("/service/v1", RequireService(s.service))
	{
		svc.POST("/auth/whoami", s.svcWhoAmI)
		svc.POST("/topics/recent-domains", s.svcRecentDomains)
		svc.POST("/topics/batch", s.svcInsertTopics)
		svc.POST("/topics/trending", s.svcFindTrending)
		svc.POST("/posts/generate", s.svcGeneratePost)
		svc.POST("/posts/list", s.svcListPosts)
		svc.POST("/posts/get", s.svcGetPost)
		svc.POST("/posts/create", s.svcCreatePost)
		svc.POST("/posts/update", s.svcUpdatePost)
		svc.POST("/posts/delete", s.svcDeletePost)
	}
}
