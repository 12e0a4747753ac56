package restapi

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up the JSON API routes. All endpoints are public and
// read-only.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	rest := e.Group("/rest")
	rest.GET("/catalog", h.Catalogs)
	rest.GET("/catalog/item/:postId", h.Item)
	rest.GET("/catalog/:catalogId", h.Catalog)
}
