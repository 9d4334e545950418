// ABOUTME: HS256 JWT issuing and verification for end-user and operator sessions
// ABOUTME: SessionGuard turns a bearer token into a session Caller

package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token issuers. The app session and the MCP operator session are signed with
// different keys and carry different issuers so neither token verifies as the other.
const (
	AppIssuer      = "oneblog"
	OperatorIssuer = "oneblog-mcp"
)

// Claims is the JWT payload. The subject is the user ID.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 tokens for one issuer.
type TokenManager struct {
	secret []byte
	issuer string
}

// NewTokenManager creates a manager for tokens signed with secret.
func NewTokenManager(secret, issuer string) *TokenManager {
	return &TokenManager{secret: []byte(secret), issuer: issuer}
}

// Issue signs a token for subject. A zero ttl produces a token without expiry.
func (m *TokenManager) Issue(subject string, ttl time.Duration, now time.Time) (string, error) {
	if len(m.secret) == 0 {
		return "", fmt.Errorf("sign token: empty secret")
	}
	if strings.TrimSpace(subject) == "" {
		return "", fmt.Errorf("sign token: empty subject")
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  subject,
			Issuer:   m.issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, issuer and expiry and returns the subject.
func (m *TokenManager) Verify(token string) (string, error) {
	if len(m.secret) == 0 || token == "" {
		return "", ErrUnauthorized
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", ErrUnauthorized)
	}
	return claims.Subject, nil
}

// SessionGuard authenticates end users on the app surface.
type SessionGuard struct {
	tokens *TokenManager
}

// NewSessionGuard creates a guard for app session tokens signed with secret.
func NewSessionGuard(secret string) *SessionGuard {
	return &SessionGuard{tokens: NewTokenManager(secret, AppIssuer)}
}

// Authenticate verifies a session token and returns the session Caller.
// Any failure is ErrSignInRequired.
func (g *SessionGuard) Authenticate(token string) (Caller, error) {
	userID, err := g.tokens.Verify(token)
	if err != nil {
		return Caller{}, ErrSignInRequired
	}
	return Caller{userID: userID, channel: ChannelSession}, nil
}

// Issue mints a session token for userID.
func (g *SessionGuard) Issue(userID string, ttl time.Duration) (string, error) {
	return g.tokens.Issue(userID, ttl, time.Now())
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
