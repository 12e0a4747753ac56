// Package restapi serves the read-only JSON API under /rest. It reuses the
// post service; no state is ever mutated through these endpoints.
package restapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/discboxhq/discbox/internal/apperror"
	"github.com/discboxhq/discbox/internal/catalog"
	"github.com/discboxhq/discbox/internal/posts"
)

// Handler processes JSON API requests.
type Handler struct {
	svc posts.PostService
}

// NewHandler creates a new restapi Handler.
func NewHandler(svc posts.PostService) *Handler {
	return &Handler{svc: svc}
}

// catalogPayload is the JSON shape of a catalog with its posts.
type catalogPayload struct {
	ID    int          `json:"id"`
	Name  string       `json:"name"`
	Items []posts.Post `json:"items"`
}

// Catalogs returns every catalog with its posts nested.
// GET /rest/catalog
func (h *Handler) Catalogs(c echo.Context) error {
	ctx := c.Request().Context()

	payload := make([]catalogPayload, 0, len(catalog.All()))
	for _, cat := range catalog.All() {
		items, err := h.svc.ListCatalogPosts(ctx, cat.ID)
		if err != nil {
			return err
		}
		if items == nil {
			items = []posts.Post{}
		}
		payload = append(payload, catalogPayload{ID: cat.ID, Name: cat.Name, Items: items})
	}

	return c.JSON(http.StatusOK, map[string]any{"catalogs": payload})
}

// Catalog returns a single catalog with its posts.
// GET /rest/catalog/:catalogId
func (h *Handler) Catalog(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("catalogId"))
	if err != nil {
		return apperror.NewNotFound("catalog not found")
	}

	items, err := h.svc.ListCatalogPosts(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if items == nil {
		items = []posts.Post{}
	}

	return c.JSON(http.StatusOK, catalogPayload{
		ID:    id,
		Name:  catalog.Name(id),
		Items: items,
	})
}

// Item returns a single post. A missing or malformed post id answers 400
// with an error body rather than 404.
// GET /rest/catalog/item/:postId
func (h *Handler) Item(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("postId"), 10, 64)
	if err != nil {
		return itemError(c)
	}

	post, err := h.svc.GetPost(c.Request().Context(), id)
	if err != nil {
		if appErr, ok := err.(*apperror.AppError); ok && appErr.Code == http.StatusNotFound {
			return itemError(c)
		}
		return err
	}

	return c.JSON(http.StatusOK, post)
}

// itemError writes the item endpoint's 400 error body.
func itemError(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, map[string]any{
		"error":      "no item found",
		"httpStatus": http.StatusBadRequest,
	})
}
