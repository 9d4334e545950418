// ABOUTME: Caller capability and error sentinels shared by both guarded surfaces
// ABOUTME: A Caller can only be minted by a guard; its zero value is unauthenticated

package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is the generic authorization failure.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSignInRequired is returned by the session guard. It matches ErrUnauthorized.
	ErrSignInRequired = fmt.Errorf("%w - please sign in", ErrUnauthorized)
)

// Channel records which guard admitted a caller.
type Channel string

const (
	ChannelSession Channel = "session"
	ChannelService Channel = "service"
)

// Caller is the authenticated identity every orchestrator and CRUD operation
// requires. Fields are unexported so only guards in this package can build one.
type Caller struct {
	userID  string
	channel Channel
}

// UserID returns the owning user, or "" for the zero Caller.
func (c Caller) UserID() string { return c.userID }

// Channel returns the admitting channel, or "" for the zero Caller.
func (c Caller) Channel() Channel { return c.channel }

// Authenticated reports whether a guard produced this caller.
func (c Caller) Authenticated() bool { return c.userID != "" }

// Require returns the caller's user ID or ErrUnauthorized.
func (c Caller) Require() (string, error) {
	if !c.Authenticated() {
		return "", ErrUnauthorized
	}
	return c.userID, nil
}

// String implements fmt.Stringer for log output.
func (c Caller) String() string {
	if !c.Authenticated() {
		return "anonymous"
	}
	return fmt.Sprintf("%s:%s", c.channel, c.userID)
}
