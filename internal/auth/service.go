// ABOUTME: Shared-secret guard for the service-to-service surface
// ABOUTME: Produces a ServicePrincipal that can act on behalf of a named user

package auth

import (
	"crypto/subtle"
	"strings"
)

// ServiceSecretHeader carries the shared service secret on the service surface.
const ServiceSecretHeader = "X-Service-Secret"

// ServiceGuard checks the pre-shared service secret.
type ServiceGuard struct {
	expected []byte
}

// NewServiceGuard creates a guard expecting secret. An empty secret rejects every call.
func NewServiceGuard(secret string) *ServiceGuard {
	return &ServiceGuard{expected: []byte(secret)}
}

// Authenticate compares supplied against the configured secret.
func (g *ServiceGuard) Authenticate(supplied string) (ServicePrincipal, error) {
	if len(g.expected) == 0 || supplied == "" {
		return ServicePrincipal{}, ErrUnauthorized
	}
	if subtle.ConstantTimeCompare(g.expected, []byte(supplied)) != 1 {
		return ServicePrincipal{}, ErrUnauthorized
	}
	return ServicePrincipal{verified: true}, nil
}

// ServicePrincipal proves one request passed the service guard.
// The zero value is unverified.
type ServicePrincipal struct {
	verified bool
}

// ActAs returns a service Caller for userID. The service secret authenticates
// the calling service; the asserted user ID is trusted as-is.
func (p ServicePrincipal) ActAs(userID string) (Caller, error) {
	userID = strings.TrimSpace(userID)
	if !p.verified || userID == "" {
		return Caller{}, ErrUnauthorized
	}
	return Caller{userID: userID, channel: ChannelService}, nil
}
