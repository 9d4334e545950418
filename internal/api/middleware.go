// ABOUTME: gin middleware for request logging, panic recovery and both auth guards
// ABOUTME: Guards store the admitted identity on the gin context for handlers

package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/harper/oneblog/internal/auth"
)

const (
	callerKey    = "caller"
	principalKey = "principal"
)

// Logger logs one line per request through zerolog.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("http request")
	}
}

// Recovery turns panics into a 500 JSON response.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("path", c.Request.URL.Path).
					Interface("panic", err).
					Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			}
		}()
		c.Next()
	}
}

// RequireSession admits requests carrying a valid session bearer token.
func RequireSession(guard *auth.SessionGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := auth.BearerToken(c.GetHeader("Authorization"))
		caller, err := guard.Authenticate(token)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.Set(callerKey, caller)
		c.Next()
	}
}

// RequireService admits requests carrying the shared service secret. The
// acting user is resolved per handler from the request body.
func RequireService(guard *auth.ServiceGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := guard.Authenticate(c.GetHeader(auth.ServiceSecretHeader))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

// sessionCaller returns the caller admitted by RequireSession.
func sessionCaller(c *gin.Context) auth.Caller {
	caller, _ := c.MustGet(callerKey).(auth.Caller)
	return caller
}

// actAs returns a service caller for userID using the principal admitted by RequireService.
func actAs(c *gin.Context, userID string) (auth.Caller, error) {
	principal, _ := c.MustGet(principalKey).(auth.ServicePrincipal)
	return principal.ActAs(userID)
}
