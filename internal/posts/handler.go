package posts

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/discboxhq/discbox/internal/apperror"
	"github.com/discboxhq/discbox/internal/auth"
	"github.com/discboxhq/discbox/internal/catalog"
	"github.com/discboxhq/discbox/internal/middleware"
)

// Handler processes HTTP requests for browsing and managing posts.
type Handler struct {
	svc PostService
}

// NewHandler creates a new posts Handler.
func NewHandler(svc PostService) *Handler {
	return &Handler{svc: svc}
}

// Index renders the home page: catalog menu plus all posts, newest first.
// GET /
func (h *Handler) Index(c echo.Context) error {
	posts, err := h.svc.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return middleware.Render(c, http.StatusOK, MenuPage(catalog.All(), posts))
}

// CatalogOrDetail serves both catalog listings and post detail pages from the
// same path. A path id naming a known catalog lists that catalog; any other
// id is treated as a post id.
// GET /catalog/:id
func (h *Handler) CatalogOrDetail(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if catalog.Valid(int(id)) {
		return h.renderCatalog(c, int(id))
	}
	return h.renderDetail(c, id)
}

// CatalogItems lists the posts of one catalog. Unlike CatalogOrDetail, the
// id here must name a catalog; anything else is a 404.
// GET /catalog/:id/items
func (h *Handler) CatalogItems(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	return h.renderCatalog(c, int(id))
}

// renderCatalog lists the posts of one catalog.
func (h *Handler) renderCatalog(c echo.Context, catalogID int) error {
	posts, err := h.svc.ListCatalogPosts(c.Request().Context(), catalogID)
	if err != nil {
		return err
	}
	cat := catalog.Catalog{ID: catalogID, Name: catalog.Name(catalogID)}
	return middleware.Render(c, http.StatusOK, CatalogPage(cat, posts))
}

// renderDetail shows a single post.
func (h *Handler) renderDetail(c echo.Context, id int64) error {
	post, err := h.svc.GetPost(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return middleware.Render(c, http.StatusOK, PostDetailPage(post))
}

// NewForm renders the blank post composition form.
// GET /new
func (h *Handler) NewForm(c echo.Context) error {
	return middleware.Render(c, http.StatusOK, NewPostPage(c.QueryParam("error")))
}

// NewSubmit creates a post. Validation failures bounce back to the form;
// success lands on the new post's detail page.
// POST /new
func (h *Handler) NewSubmit(c echo.Context) error {
	post, err := h.svc.CreatePost(c.Request().Context(), auth.GetUserID(c), formInput(c).create())
	if err != nil {
		if isValidation(err) {
			return c.Redirect(http.StatusFound, "/new?error=missing")
		}
		return err
	}

	return c.Redirect(http.StatusFound, "/catalog/"+strconv.FormatInt(post.ID, 10))
}

// EditForm renders the edit form, prefilled. Only the author gets this far.
// GET /catalog/:id/edit
func (h *Handler) EditForm(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	post, err := h.svc.GetOwnedPost(c.Request().Context(), id, auth.GetUserID(c))
	if err != nil {
		return err
	}
	return middleware.Render(c, http.StatusOK, EditPostPage(post, c.QueryParam("error")))
}

// EditSubmit applies an edit to the caller's own post.
// POST /catalog/:id/edit
func (h *Handler) EditSubmit(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.svc.UpdatePost(c.Request().Context(), id, auth.GetUserID(c), formInput(c).update()); err != nil {
		if isValidation(err) {
			return c.Redirect(http.StatusFound, "/catalog/"+strconv.FormatInt(id, 10)+"/edit?error=missing")
		}
		return err
	}

	return c.Redirect(http.StatusFound, "/catalog/"+strconv.FormatInt(id, 10))
}

// DeleteConfirm renders the delete confirmation page.
// GET /catalog/:id/delete
func (h *Handler) DeleteConfirm(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	post, err := h.svc.GetOwnedPost(c.Request().Context(), id, auth.GetUserID(c))
	if err != nil {
		return err
	}
	return middleware.Render(c, http.StatusOK, DeletePostPage(post))
}

// DeleteSubmit removes the caller's own post.
// POST /catalog/:id/delete
func (h *Handler) DeleteSubmit(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.svc.DeletePost(c.Request().Context(), id, auth.GetUserID(c)); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/")
}

// --- Helpers ---

// rawInput carries the unparsed form fields.
type rawInput struct {
	title   string
	body    string
	catalog int
}

func (in rawInput) create() CreatePostInput {
	return CreatePostInput{Title: in.title, Body: in.body, Catalog: in.catalog}
}

func (in rawInput) update() UpdatePostInput {
	return UpdatePostInput{Title: in.title, Body: in.body, Catalog: in.catalog}
}

// formInput reads the shared new/edit form fields. An empty or non-numeric
// catalog field maps to 0, which fails catalog validation downstream like
// any other missing field.
func formInput(c echo.Context) rawInput {
	catalogID, _ := strconv.Atoi(c.FormValue("catalog"))
	return rawInput{
		title:   c.FormValue("title"),
		body:    c.FormValue("body"),
		catalog: catalogID,
	}
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperror.NewBadRequest("invalid id")
	}
	return id, nil
}

// isValidation reports whether err is a 422 validation error.
func isValidation(err error) bool {
	appErr, ok := err.(*apperror.AppError)
	return ok && appErr.Code == http.StatusUnprocessableEntity
}
