// Package auth handles user identity and session state for Discbox. It
// provides local email login, the OAuth handshake state machine (anti-forgery
// nonce issue and validation), the identity resolver that maps provider
// profiles to user rows, and the authorization middleware used by the rest
// of the application.
package auth

import (
	"time"
)

// Provider names recorded in Session.Provider. OAuth adapters register
// under these names; "local" never has an adapter.
const (
	ProviderLocal    = "local"
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
)

// User represents a registered Discbox user. Rows are created on first
// successful login (local or OAuth) and never deleted by the application.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionState is the discriminant for the per-client session state machine.
// Each state permits exactly one subset of Session fields; accessing a field
// outside its state is a bug, not a runtime condition to recover from.
type SessionState string

const (
	// StateAnonymous is the initial state. No fields are valid. An anonymous
	// session is represented by the absence of a Redis entry, so this value
	// never round-trips through storage.
	StateAnonymous SessionState = "anonymous"

	// StatePending means an OAuth anti-forgery nonce is outstanding.
	// Valid fields: Nonce.
	StatePending SessionState = "pending"

	// StateAuthenticated means a user identity is bound to this session.
	// Valid fields: UserID, Provider, AccessToken, ProviderUserID.
	StateAuthenticated SessionState = "authenticated"
)

// Session is the per-client session blob, JSON-encoded into Redis under the
// cookie token. Redis TTL is the only expiry mechanism: an expired session
// simply reads back as absent, which callers treat as StateAnonymous.
type Session struct {
	State SessionState `json:"state"`

	// Nonce is the outstanding OAuth anti-forgery token (StatePending only).
	Nonce string `json:"nonce,omitempty"`

	// UserID identifies the authenticated user (StateAuthenticated only).
	UserID int64 `json:"user_id,omitempty"`

	// Provider records which identity provider authenticated this session:
	// "local", "google", or "facebook" (StateAuthenticated only).
	Provider string `json:"provider,omitempty"`

	// AccessToken and ProviderUserID are retained only so logout can perform
	// a provider-side disconnect (StateAuthenticated, OAuth providers only).
	AccessToken    string `json:"access_token,omitempty"`
	ProviderUserID string `json:"provider_user_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Authenticated reports whether the session carries a bound user identity.
func (s *Session) Authenticated() bool {
	return s != nil && s.State == StateAuthenticated
}
