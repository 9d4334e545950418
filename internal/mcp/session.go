// ABOUTME: Resolves the MCP operator's identity from a locally verified session token
// ABOUTME: The token is re-verified on every call so expiry takes effect mid-session

package mcp

import (
	"fmt"

	"github.com/harper/oneblog/internal/auth"
)

// ErrNoSession is returned when no operator token is configured.
var ErrNoSession = fmt.Errorf("%w: no active operator session", auth.ErrUnauthorized)

// SessionResolver verifies the operator token issued by `oneblog token --operator`.
type SessionResolver struct {
	tokens *auth.TokenManager
	token  string
}

// NewSessionResolver creates a resolver for token signed with secret.
func NewSessionResolver(secret, token string) *SessionResolver {
	return &SessionResolver{
		tokens: auth.NewTokenManager(secret, auth.OperatorIssuer),
		token:  token,
	}
}

// UserID returns the operator's user ID.
func (r *SessionResolver) UserID() (string, error) {
	if r == nil || r.token == "" {
		return "", ErrNoSession
	}
	userID, err := r.tokens.Verify(r.token)
	if err != nil {
		return "", fmt.Errorf("operator session: %w", err)
	}
	return userID, nil
}
