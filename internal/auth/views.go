package auth

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/discboxhq/discbox/internal/templates/layouts"
)

// LoginData carries everything the login page needs: the anti-forgery nonce
// for the OAuth buttons and the client-side identifiers for the provider SDKs.
type LoginData struct {
	Nonce          string
	Error          string
	GoogleClientID string
	FacebookAppID  string
}

// loginErrorText maps the ?error= query flag to a user-facing message.
func loginErrorText(flag string) string {
	switch flag {
	case "missing":
		return "Please enter an email address."
	case "wrong":
		return "No account found for that email."
	default:
		return ""
	}
}

// LoginPage renders the login form with local email login and the Google and
// Facebook sign-in buttons. The nonce rides along as the state parameter on
// the connect requests.
func LoginPage(data LoginData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<h1>Sign in</h1>
`); err != nil {
			return err
		}

		if msg := loginErrorText(data.Error); msg != "" {
			if _, err := fmt.Fprintf(w, `<p class="error">%s</p>
`, templ.EscapeString(msg)); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, `<form class="login-form" method="post" action="/login">
<label for="email">Email</label>
<input type="email" id="email" name="email" placeholder="you@example.com">
<button type="submit">Sign in</button>
</form>
<div class="oauth-buttons">
<button id="google-signin" type="button">Sign in with Google</button>
<button id="facebook-signin" type="button">Sign in with Facebook</button>
</div>
`); err != nil {
			return err
		}

		_, err := fmt.Fprintf(w, `<script src="/static/js/login.js"
  data-state=%q
  data-google-client-id=%q
  data-facebook-app-id=%q></script>
`,
			templ.EscapeString(data.Nonce),
			templ.EscapeString(data.GoogleClientID),
			templ.EscapeString(data.FacebookAppID),
		)
		return err
	})
	return layouts.Base("Login", body)
}
