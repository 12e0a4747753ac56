package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/oauth2/facebook"
)

// Facebook upgrades the short-lived access token posted by the login page's
// JS SDK into a long-lived token, then fetches the user's profile from the
// Graph API. Disconnect removes the app's permission grant, which is
// Facebook's equivalent of token revocation.
type Facebook struct {
	appID      string
	appSecret  string
	httpClient *http.Client

	// Endpoint URLs, overridable in tests. exchangeURL defaults to the
	// token endpoint published by golang.org/x/oauth2/facebook.
	exchangeURL string
	graphURL    string
}

// NewFacebook creates the Facebook adapter for the given application credentials.
func NewFacebook(appID, appSecret string) *Facebook {
	return &Facebook{
		appID:       appID,
		appSecret:   appSecret,
		httpClient:  newHTTPClient(),
		exchangeURL: facebook.Endpoint.TokenURL,
		graphURL:    "https://graph.facebook.com",
	}
}

// Name implements Provider.
func (f *Facebook) Name() string { return "facebook" }

// facebookToken is the token endpoint's JSON response.
type facebookToken struct {
	AccessToken string `json:"access_token"`
}

// facebookProfile is the subset of the /me response we consume.
type facebookProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Exchange trades the short-lived token for a long-lived one and fetches the
// user's profile.
func (f *Facebook) Exchange(ctx context.Context, shortToken string) (*Profile, error) {
	q := url.Values{
		"grant_type":        {"fb_exchange_token"},
		"client_id":         {f.appID},
		"client_secret":     {f.appSecret},
		"fb_exchange_token": {shortToken},
	}

	var token facebookToken
	if err := f.getJSON(ctx, f.exchangeURL+"?"+q.Encode(), &token, true); err != nil {
		return nil, err
	}
	if token.AccessToken == "" {
		return nil, NewExchangeFailed("facebook returned no access token")
	}

	mq := url.Values{
		"access_token": {token.AccessToken},
		"fields":       {"id,name,email"},
	}

	var profile facebookProfile
	if err := f.getJSON(ctx, f.graphURL+"/me?"+mq.Encode(), &profile, false); err != nil {
		return nil, err
	}

	if profile.Email == "" {
		return nil, NewExchangeFailed("facebook profile has no email address")
	}

	return &Profile{
		Email:          profile.Email,
		Name:           profile.Name,
		ProviderUserID: profile.ID,
		AccessToken:    token.AccessToken,
	}, nil
}

// Disconnect deletes the app's permission grant for this user, revoking the
// stored token.
func (f *Facebook) Disconnect(ctx context.Context, accessToken, providerUserID string) error {
	u := f.graphURL + "/" + url.PathEscape(providerUserID) + "/permissions?access_token=" + url.QueryEscape(accessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return fmt.Errorf("building facebook disconnect request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("revoking facebook permissions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("revoking facebook permissions: status %d", resp.StatusCode)
	}
	return nil
}

// getJSON fetches a Graph API endpoint and decodes the JSON response.
// When rejectAsExchange is set, a 4xx status maps to ExchangeFailed (the
// credential we forwarded was bad); otherwise all failures are the
// provider's fault.
func (f *Facebook) getJSON(ctx context.Context, rawURL string, out any, rejectAsExchange bool) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return NewProviderError(err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return NewProviderError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if rejectAsExchange && resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return NewExchangeFailed("facebook rejected the access token")
		}
		return NewProviderError(fmt.Errorf("facebook returned status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewProviderError(fmt.Errorf("decoding facebook response: %w", err))
	}
	return nil
}
