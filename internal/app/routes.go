package app

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/discboxhq/discbox/internal/auth"
	authprovider "github.com/discboxhq/discbox/internal/auth/provider"
	"github.com/discboxhq/discbox/internal/middleware"
	"github.com/discboxhq/discbox/internal/posts"
	"github.com/discboxhq/discbox/internal/restapi"
	"github.com/discboxhq/discbox/internal/templates/layouts"
)

// RegisterRoutes builds the dependency graph (repositories, services,
// handlers) and registers every route. This is the single place where all
// routes are aggregated.
func (a *App) RegisterRoutes() {
	e := a.Echo

	// --- Repositories and services ---

	userRepo := auth.NewUserRepository(a.DB)
	sessionStore := auth.NewSessionStore(a.Redis, a.Config.Auth.SessionTTL)

	var providers []authprovider.Provider
	if a.Config.Auth.Google.Configured() {
		providers = append(providers,
			authprovider.NewGoogle(a.Config.Auth.Google.ClientID, a.Config.Auth.Google.ClientSecret))
	}
	if a.Config.Auth.Facebook.Configured() {
		providers = append(providers,
			authprovider.NewFacebook(a.Config.Auth.Facebook.ClientID, a.Config.Auth.Facebook.ClientSecret))
	}

	authSvc := auth.NewAuthService(userRepo, sessionStore, providers...)
	postSvc := posts.NewPostService(posts.NewPostRepository(a.DB))

	// --- Layout injection ---

	// Copy session data from the Echo context into the Go context so page
	// components can read the viewer's identity.
	middleware.LayoutInjector = func(c echo.Context, ctx context.Context) context.Context {
		session := auth.GetSession(c)
		if session == nil {
			return layouts.SetIsAuthenticated(ctx, false)
		}
		ctx = layouts.SetIsAuthenticated(ctx, true)
		ctx = layouts.SetUserID(ctx, session.UserID)
		if user, err := userRepo.FindByID(c.Request().Context(), session.UserID); err == nil {
			ctx = layouts.SetUserName(ctx, user.Name)
		}
		return ctx
	}

	// --- Session middleware ---

	// Every request gets a session token cookie; the viewer loader resolves
	// it so handlers and templates can see who is asking.
	e.Use(auth.EnsureSession())
	e.Use(auth.LoadViewer(authSvc))

	// --- Feature routes ---

	auth.RegisterRoutes(e, auth.NewHandler(authSvc,
		a.Config.Auth.Google.ClientID, a.Config.Auth.Facebook.ClientID))
	posts.RegisterRoutes(e, posts.NewHandler(postSvc))
	restapi.RegisterRoutes(e, restapi.NewHandler(postSvc))

	// Health check endpoint for container health monitoring.
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
