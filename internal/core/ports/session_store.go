package ports

import (
	"context"

	"github.com/jelajah-asia/travel-site/internal/core/domain"
)

// SessionState is a read-only projection of a session store. Pointers are
// copies; mutating them does not affect the store.
type SessionState struct {
	Identity *domain.Identity
	Profile  *domain.Profile
	Busy     bool
	Err      error
}

// Authenticated reports whether an identity is present.
func (s SessionState) Authenticated() bool {
	return s.Identity != nil
}

// Role returns the cached profile role, or "" while the profile is missing.
func (s SessionState) Role() domain.Role {
	if s.Profile == nil {
		return ""
	}
	return s.Profile.Role
}

// ErrMessage returns the last error message, or "".
func (s SessionState) ErrMessage() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

// SessionStore is the authority for who the current visitor is.
// Views read State and call the actions; they never mutate identity or profile.
type SessionStore interface {
	State() SessionState
	Subscribe(fn func(SessionState)) (unsubscribe func())

	CheckSession(ctx context.Context)
	FetchProfile(ctx context.Context, identityID string)
	Register(ctx context.Context, email, password, fullName string)
	// Login returns the signed-in profile's role; ok is false when login
	// failed or the profile could not be read.
	Login(ctx context.Context, email, password string) (role domain.Role, ok bool)
	Logout(ctx context.Context)
}

// Visitor bundles what a single browser visitor needs from the core.
type Visitor struct {
	ID      string
	Store   SessionStore
	Backend BackendClient
}

// SessionRegistry hands out one session store per visitor.
type SessionRegistry interface {
	Acquire(ctx context.Context, visitorID string) (*Visitor, error)
}
