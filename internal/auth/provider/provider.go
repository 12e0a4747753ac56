// Package provider implements the OAuth bridge adapters. Every adapter
// satisfies the same two-call contract (Exchange, Disconnect) so the session
// manager and route layer never branch on provider identity beyond picking
// which adapter to invoke. The third call of the handshake -- issuing the
// anti-forgery nonce -- lives in the auth service, shared by all providers.
package provider

import (
	"context"
	"net/http"
	"time"

	"github.com/discboxhq/discbox/internal/apperror"
)

// Error type classifiers for OAuth handshake failures. The connect endpoints
// serialize these into their JSON error responses.
const (
	// TypeExchangeFailed: the provider rejected the code/token we were given.
	// The client sent something malformed, expired, or already used.
	TypeExchangeFailed = "exchange_failed"

	// TypeProviderError: the provider itself misbehaved (non-2xx on a
	// well-formed request, transport failure, timeout). Exchanges fail
	// closed on the ambient HTTP timeout rather than hang.
	TypeProviderError = "provider_error"

	// TypeTokenMismatch: the exchanged token is bound to a different user or
	// a different client application than expected. A mandatory check on the
	// Google path to defeat token substitution.
	TypeTokenMismatch = "token_mismatch"
)

// Profile is the identity assertion an adapter extracts from a provider.
// Email is the identity key the resolver matches on; adapters reject
// profiles without one.
type Profile struct {
	Email          string
	Name           string
	ProviderUserID string
	AccessToken    string
}

// Provider is the shared adapter contract.
type Provider interface {
	// Name returns the provider name recorded on authenticated sessions.
	Name() string

	// Exchange turns the credential posted by the client (an authorization
	// code for Google, a short-lived access token for Facebook) into a
	// verified Profile.
	Exchange(ctx context.Context, credential string) (*Profile, error)

	// Disconnect revokes the stored access token with the provider.
	// Best-effort: callers log failures and proceed with logout regardless.
	Disconnect(ctx context.Context, accessToken, providerUserID string) error
}

// exchangeTimeout bounds every provider-side HTTP call.
const exchangeTimeout = 10 * time.Second

// newHTTPClient returns the client adapters use for provider calls.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: exchangeTimeout}
}

// --- Error constructors ---

// NewExchangeFailed creates a 401 error for a rejected or malformed credential.
func NewExchangeFailed(message string) *apperror.AppError {
	return apperror.New(http.StatusUnauthorized, TypeExchangeFailed, message)
}

// NewProviderError creates a 500 error for a misbehaving provider. The
// underlying cause is kept internal.
func NewProviderError(err error) *apperror.AppError {
	ae := apperror.New(http.StatusInternalServerError, TypeProviderError, "identity provider request failed")
	ae.Internal = err
	return ae
}

// NewTokenMismatch creates a 401 error for a token bound to the wrong user
// or client application.
func NewTokenMismatch(message string) *apperror.AppError {
	return apperror.New(http.StatusUnauthorized, TypeTokenMismatch, message)
}
