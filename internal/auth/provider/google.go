package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Google exchanges one-time authorization codes obtained by the login page's
// postmessage flow. Beyond the code exchange it performs the mandatory
// anti-token-substitution check: the token's subject must equal the profile's
// user id, and the token must have been issued to this application.
type Google struct {
	conf       *oauth2.Config
	httpClient *http.Client

	// Endpoint URLs, overridable in tests.
	tokenInfoURL string
	userInfoURL  string
	revokeURL    string
}

// NewGoogle creates the Google adapter for the given application credentials.
func NewGoogle(clientID, clientSecret string) *Google {
	return &Google{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			// The login page obtains the code via the postmessage flow and
			// posts it to /gconnect; there is no redirect leg.
			RedirectURL: "postmessage",
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		httpClient:   newHTTPClient(),
		tokenInfoURL: "https://www.googleapis.com/oauth2/v1/tokeninfo",
		userInfoURL:  "https://www.googleapis.com/oauth2/v1/userinfo",
		revokeURL:    "https://accounts.google.com/o/oauth2/revoke",
	}
}

// Name implements Provider.
func (g *Google) Name() string { return "google" }

// googleTokenInfo is the subset of the tokeninfo response we validate.
type googleTokenInfo struct {
	UserID   string `json:"user_id"`
	IssuedTo string `json:"issued_to"`
}

// googleUserInfo is the subset of the userinfo response we consume.
type googleUserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Exchange upgrades the authorization code, validates the resulting token
// against tokeninfo, and fetches the user's profile.
func (g *Google) Exchange(ctx context.Context, code string) (*Profile, error) {
	// Route the oauth2 exchange through the timeout-bound client.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)

	token, err := g.conf.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil && retrieveErr.Response.StatusCode < 500 {
			return nil, NewExchangeFailed("failed to upgrade the authorization code")
		}
		return nil, NewProviderError(err)
	}

	var info googleTokenInfo
	if err := g.getJSON(ctx, g.tokenInfoURL+"?access_token="+url.QueryEscape(token.AccessToken), &info); err != nil {
		return nil, err
	}

	var user googleUserInfo
	if err := g.getJSON(ctx, g.userInfoURL+"?access_token="+url.QueryEscape(token.AccessToken), &user); err != nil {
		return nil, err
	}

	// Token substitution checks: the access token must belong to the user
	// whose profile we fetched, and must have been minted for this app.
	if info.UserID != user.ID {
		return nil, NewTokenMismatch("token user id does not match the profile's user id")
	}
	if info.IssuedTo != g.conf.ClientID {
		return nil, NewTokenMismatch("token client id does not match this application's")
	}

	if user.Email == "" {
		return nil, NewExchangeFailed("google profile has no email address")
	}

	return &Profile{
		Email:          user.Email,
		Name:           user.Name,
		ProviderUserID: user.ID,
		AccessToken:    token.AccessToken,
	}, nil
}

// Disconnect revokes the access token with Google's revocation endpoint.
func (g *Google) Disconnect(ctx context.Context, accessToken, _ string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.revokeURL+"?token="+url.QueryEscape(accessToken), nil)
	if err != nil {
		return fmt.Errorf("building revoke request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("revoking google token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("revoking google token: status %d", resp.StatusCode)
	}
	return nil
}

// getJSON fetches a Google API endpoint and decodes the JSON response.
// Non-2xx responses and transport failures map to ProviderError.
func (g *Google) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return NewProviderError(err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return NewProviderError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return NewProviderError(fmt.Errorf("google returned status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewProviderError(fmt.Errorf("decoding google response: %w", err))
	}
	return nil
}
