package posts

import (
	"github.com/labstack/echo/v4"

	"github.com/discboxhq/discbox/internal/auth"
)

// RegisterRoutes sets up all post routes on the given Echo instance.
// Browsing is public; composition, editing, and deletion require a session.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/", h.Index)
	e.GET("/catalog/:id", h.CatalogOrDetail)
	e.GET("/catalog/:id/items", h.CatalogItems)

	requireAuth := auth.RequireAuth()
	e.GET("/new", h.NewForm, requireAuth)
	e.POST("/new", h.NewSubmit, requireAuth)
	e.GET("/catalog/:id/edit", h.EditForm, requireAuth)
	e.POST("/catalog/:id/edit", h.EditSubmit, requireAuth)
	e.GET("/catalog/:id/delete", h.DeleteConfirm, requireAuth)
	e.POST("/catalog/:id/delete", h.DeleteSubmit, requireAuth)
}
