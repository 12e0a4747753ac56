package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/discboxhq/discbox/internal/apperror"
	"github.com/discboxhq/discbox/internal/auth/provider"
)

// nonceLength is the length of the OAuth anti-forgery nonce.
const nonceLength = 32

// nonceAlphabet is the character set nonces are drawn from.
const nonceAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// AuthService defines the business logic contract for identity and sessions.
type AuthService interface {
	// Viewer resolves the session bound to a cookie token. Returns (nil, nil)
	// for anonymous clients.
	Viewer(ctx context.Context, token string) (*Session, error)

	// BeginHandshake issues a fresh anti-forgery nonce and moves the session
	// to the pending state. Any previous session under this token is replaced.
	BeginHandshake(ctx context.Context, token string) (string, error)

	// CompleteOAuth validates the echoed nonce, exchanges the credential with
	// the named provider, resolves the user, and authenticates the session.
	CompleteOAuth(ctx context.Context, token, providerName, stateEcho, credential string) (*Session, error)

	// LoginLocal authenticates an existing user by email.
	LoginLocal(ctx context.Context, token, email string) (*Session, error)

	// Logout revokes any provider-side token and deletes the session.
	Logout(ctx context.Context, token string) error
}

// authService implements AuthService.
type authService struct {
	users     UserRepository
	sessions  *SessionStore
	providers map[string]provider.Provider
}

// NewAuthService creates the auth service. Providers are registered under
// their Name(); the local path never consults the map.
func NewAuthService(users UserRepository, sessions *SessionStore, providers ...provider.Provider) AuthService {
	m := make(map[string]provider.Provider, len(providers))
	for _, p := range providers {
		m[p.Name()] = p
	}
	return &authService{users: users, sessions: sessions, providers: m}
}

// newInvalidState creates the 401 error for a failed nonce comparison.
func newInvalidState() *apperror.AppError {
	return apperror.New(http.StatusUnauthorized, "invalid_state", "Invalid state parameter")
}

// Viewer resolves the session for a token.
func (s *authService) Viewer(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}
	return s.sessions.Get(ctx, token)
}

// BeginHandshake issues a nonce and stores a pending session.
func (s *authService) BeginHandshake(ctx context.Context, token string) (string, error) {
	nonce, err := generateNonce()
	if err != nil {
		return "", apperror.NewInternal(fmt.Errorf("generating nonce: %w", err))
	}

	session := &Session{
		State:     StatePending,
		Nonce:     nonce,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessions.Put(ctx, token, session); err != nil {
		return "", apperror.NewInternal(err)
	}

	return nonce, nil
}

// CompleteOAuth runs the server half of the OAuth handshake. The nonce is
// consumed before comparison, so a failed attempt can never be retried with
// the same state value.
func (s *authService) CompleteOAuth(ctx context.Context, token, providerName, stateEcho, credential string) (*Session, error) {
	p, ok := s.providers[providerName]
	if !ok {
		return nil, apperror.NewBadRequest("unknown identity provider")
	}

	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	if session == nil || session.State != StatePending || session.Nonce == "" {
		return nil, newInvalidState()
	}

	// Consume the nonce first. Whatever happens next, this one is spent.
	if err := s.sessions.Delete(ctx, token); err != nil {
		return nil, apperror.NewInternal(err)
	}
	if stateEcho == "" || stateEcho != session.Nonce {
		return nil, newInvalidState()
	}

	profile, err := p.Exchange(ctx, credential)
	if err != nil {
		return nil, err
	}

	user, err := s.resolveOrCreate(ctx, profile)
	if err != nil {
		return nil, err
	}

	authed := &Session{
		State:          StateAuthenticated,
		UserID:         user.ID,
		Provider:       p.Name(),
		AccessToken:    profile.AccessToken,
		ProviderUserID: profile.ProviderUserID,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.sessions.Put(ctx, token, authed); err != nil {
		return nil, apperror.NewInternal(err)
	}

	slog.Info("user logged in",
		"user_id", user.ID,
		"provider", p.Name(),
	)
	return authed, nil
}

// LoginLocal authenticates an existing user by email address.
func (s *authService) LoginLocal(ctx context.Context, token, email string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperror.NewValidation("email is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	session := &Session{
		State:     StateAuthenticated,
		UserID:    user.ID,
		Provider:  ProviderLocal,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessions.Put(ctx, token, session); err != nil {
		return nil, apperror.NewInternal(err)
	}

	slog.Info("user logged in",
		"user_id", user.ID,
		"provider", ProviderLocal,
	)
	return session, nil
}

// Logout disconnects the provider-side token when one exists, then deletes
// the session. A failed disconnect is logged and does not block logout.
func (s *authService) Logout(ctx context.Context, token string) error {
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return apperror.NewInternal(err)
	}
	if session == nil {
		return nil
	}

	if session.State == StateAuthenticated && session.Provider != ProviderLocal {
		if p, ok := s.providers[session.Provider]; ok && session.AccessToken != "" {
			if err := p.Disconnect(ctx, session.AccessToken, session.ProviderUserID); err != nil {
				slog.Warn("provider disconnect failed",
					"provider", session.Provider,
					"user_id", session.UserID,
					"error", err,
				)
			}
		}
	}

	if err := s.sessions.Delete(ctx, token); err != nil {
		return apperror.NewInternal(err)
	}

	slog.Info("user logged out", "user_id", session.UserID)
	return nil
}

// resolveOrCreate maps a provider profile to a user row by email, creating
// the row on first login. An existing user's name is never overwritten.
func (s *authService) resolveOrCreate(ctx context.Context, profile *provider.Profile) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(profile.Email))

	user, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if appErr, ok := err.(*apperror.AppError); !ok || appErr.Code != http.StatusNotFound {
		return nil, err
	}

	user = &User{
		Email: email,
		Name:  profile.Name,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperror.NewInternal(err)
	}

	slog.Info("user created", "user_id", user.ID, "email", email)
	return user, nil
}

// generateNonce draws a random alphanumeric nonce. Bytes at or above the
// largest multiple of the alphabet size are discarded; reducing them mod
// the alphabet would skew the draw toward its first characters.
func generateNonce() (string, error) {
	const limit = 256 - 256%len(nonceAlphabet)

	nonce := make([]byte, 0, nonceLength)
	buf := make([]byte, nonceLength)
	for len(nonce) < nonceLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, v := range buf {
			if int(v) >= limit {
				continue
			}
			nonce = append(nonce, nonceAlphabet[int(v)%len(nonceAlphabet)])
			if len(nonce) == nonceLength {
				break
			}
		}
	}
	return string(nonce), nil
}
