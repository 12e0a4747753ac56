package auth

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/discboxhq/discbox/internal/apperror"
	"github.com/discboxhq/discbox/internal/middleware"
)

// Handler processes HTTP requests for login, logout, and the OAuth connect
// endpoints.
type Handler struct {
	svc            AuthService
	googleClientID string
	facebookAppID  string
}

// NewHandler creates a new auth Handler. The client-side identifiers are
// embedded into the login page for the provider JS SDKs.
func NewHandler(svc AuthService, googleClientID, facebookAppID string) *Handler {
	return &Handler{
		svc:            svc,
		googleClientID: googleClientID,
		facebookAppID:  facebookAppID,
	}
}

// LoginForm renders the login page with a fresh anti-forgery nonce.
// GET /login
func (h *Handler) LoginForm(c echo.Context) error {
	if GetSession(c) != nil {
		return c.Redirect(http.StatusFound, "/")
	}

	nonce, err := h.svc.BeginHandshake(c.Request().Context(), Token(c))
	if err != nil {
		return err
	}

	return middleware.Render(c, http.StatusOK, LoginPage(LoginData{
		Nonce:          nonce,
		Error:          c.QueryParam("error"),
		GoogleClientID: h.googleClientID,
		FacebookAppID:  h.facebookAppID,
	}))
}

// LoginLocal authenticates by email alone.
// POST /login
func (h *Handler) LoginLocal(c echo.Context) error {
	if _, err := h.svc.LoginLocal(c.Request().Context(), Token(c), c.FormValue("email")); err != nil {
		if appErr, ok := err.(*apperror.AppError); ok {
			switch appErr.Code {
			case http.StatusUnprocessableEntity:
				return c.Redirect(http.StatusFound, "/login?error=missing")
			case http.StatusNotFound:
				return c.Redirect(http.StatusFound, "/login?error=wrong")
			}
		}
		return err
	}

	return c.Redirect(http.StatusFound, "/")
}

// Logout tears down the session and clears the cookie.
// GET /logout
func (h *Handler) Logout(c echo.Context) error {
	if err := h.svc.Logout(c.Request().Context(), Token(c)); err != nil {
		return err
	}
	clearSessionCookie(c)
	return c.Redirect(http.StatusFound, "/")
}

// GoogleConnect completes the Google handshake. The one-time authorization
// code arrives as the raw request body; the nonce echo rides the state
// query parameter.
// POST /gconnect
func (h *Handler) GoogleConnect(c echo.Context) error {
	return h.connect(c, ProviderGoogle)
}

// FacebookConnect completes the Facebook handshake. The short-lived access
// token arrives as the raw request body.
// POST /fbconnect
func (h *Handler) FacebookConnect(c echo.Context) error {
	return h.connect(c, ProviderFacebook)
}

// connect is the shared connect-endpoint body. These endpoints always answer
// JSON, success and failure alike, because the caller is page JS rather than
// a navigating browser.
func (h *Handler) connect(c echo.Context, providerName string) error {
	credential, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return connectError(c, apperror.NewBadRequest("unreadable request body"))
	}

	if _, err := h.svc.CompleteOAuth(
		c.Request().Context(),
		Token(c),
		providerName,
		c.QueryParam("state"),
		string(credential),
	); err != nil {
		if appErr, ok := err.(*apperror.AppError); ok {
			return connectError(c, appErr)
		}
		return connectError(c, apperror.NewInternal(err))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message":    "Login successful",
		"httpStatus": http.StatusOK,
	})
}

// connectError serializes an AppError as the connect endpoints' JSON error
// shape.
func connectError(c echo.Context, appErr *apperror.AppError) error {
	return c.JSON(appErr.Code, map[string]any{
		"message":    appErr.Message,
		"httpStatus": appErr.Code,
	})
}
