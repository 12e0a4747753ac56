package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// sessionCookieName is the cookie carrying the opaque session token.
const sessionCookieName = "discbox_session"

// sessionCookieMaxAge caps the cookie's lifetime client-side. Server-side
// expiry is governed by the Redis TTL.
const sessionCookieMaxAge = 30 * 24 * 60 * 60

// Context keys for storing session data in Echo context. Other packages
// use these keys (via the exported getter functions below) to access the
// authenticated user's information.
const (
	contextKeySession = "auth_session"
	contextKeyUserID  = "auth_user_id"
)

// EnsureSession returns middleware that guarantees every request carries a
// session token cookie, minting one on first contact. The token alone
// conveys nothing: without a Redis entry behind it, the client is anonymous.
func EnsureSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := c.Cookie(sessionCookieName); err != nil {
				token, err := GenerateToken()
				if err != nil {
					return err
				}
				cookie := &http.Cookie{
					Name:     sessionCookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   sessionCookieMaxAge,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				}
				c.SetCookie(cookie)
				// Make the fresh token visible to this request too.
				c.Request().AddCookie(cookie)
			}
			return next(c)
		}
	}
}

// LoadViewer returns middleware that resolves the viewer's session and, when
// authenticated, injects it into the Echo context. Anonymous and pending
// sessions pass through with nothing set.
func LoadViewer(service AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, err := service.Viewer(c.Request().Context(), Token(c))
			if err != nil {
				return err
			}
			if session.Authenticated() {
				c.Set(contextKeySession, session)
				c.Set(contextKeyUserID, session.UserID)
			}
			return next(c)
		}
	}
}

// RequireAuth returns middleware that rejects unauthenticated requests.
// API requests get a 401 JSON response; browsers get a redirect to /login.
// Must run after LoadViewer.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if GetSession(c) == nil {
				return handleUnauthenticated(c)
			}
			return next(c)
		}
	}
}

// handleUnauthenticated returns the appropriate response for unauthenticated
// requests: 401 JSON for API clients, redirect for browsers.
func handleUnauthenticated(c echo.Context) error {
	if isAPIRequest(c) {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error":   "unauthorized",
			"message": "authentication required",
		})
	}
	return c.Redirect(http.StatusSeeOther, "/login")
}

// Token returns the session token from the request cookie, or "" when the
// client has none.
func Token(c echo.Context) string {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// clearSessionCookie expires the session cookie on the client.
func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// --- Exported getters for other packages ---

// GetSession retrieves the authenticated session from the Echo context.
// Returns nil if the request is not authenticated.
func GetSession(c echo.Context) *Session {
	session, ok := c.Get(contextKeySession).(*Session)
	if !ok {
		return nil
	}
	return session
}

// GetUserID retrieves the authenticated user's ID from the Echo context.
// Returns 0 if the request is not authenticated.
func GetUserID(c echo.Context) int64 {
	id, ok := c.Get(contextKeyUserID).(int64)
	if !ok {
		return 0
	}
	return id
}

// --- Helpers ---

// isAPIRequest returns true if the request targets the /rest/ path.
func isAPIRequest(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/rest")
}
