package auth

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/discboxhq/discbox/internal/middleware"
)

// RegisterRoutes sets up all auth-related routes on the given Echo instance.
// Auth routes are public (no session required) -- the middleware is exported
// separately for other packages to use on their route groups.
//
// Credential endpoints are rate-limited to slow brute-force and credential
// stuffing attempts: 10 per IP per minute.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/login", h.LoginForm)
	e.POST("/login", h.LoginLocal, middleware.RateLimit(10, time.Minute))

	e.POST("/gconnect", h.GoogleConnect, middleware.RateLimit(10, time.Minute))
	e.POST("/fbconnect", h.FacebookConnect, middleware.RateLimit(10, time.Minute))

	// Logout requires an active session.
	e.GET("/logout", h.Logout, RequireAuth())
}
