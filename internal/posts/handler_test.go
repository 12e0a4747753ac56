package posts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

// newTestContext builds an Echo context for a single handler call.
func newTestContext(t *testing.T, method, target string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

// asUser marks the context as authenticated for the given user, the same way
// the viewer middleware does.
func asUser(c echo.Context, userID int64) {
	c.Set("auth_user_id", userID)
}

func TestIndex_ListsCatalogsAndPosts(t *testing.T) {
	repo := &mockPostRepo{
		listFn: func(ctx context.Context) ([]Post, error) {
			return []Post{
				{ID: 2, Title: "Kind of Blue", Catalog: 1, AuthorName: "Miles", CreateAt: time.Now()},
				{ID: 1, Title: "Harvest", Catalog: 2, AuthorName: "Neil", CreateAt: time.Now()},
			}, nil
		},
	}
	h := NewHandler(NewPostService(repo))

	c, rec := newTestContext(t, http.MethodGet, "/", nil)
	if err := h.Index(c); err != nil {
		t.Fatalf("Index failed: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Rock", "Country", "Pop", "Kind of Blue", "Harvest"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
}

func TestCatalogOrDetail_KnownCatalogListsPosts(t *testing.T) {
	repo := &mockPostRepo{
		listByCatalogFn: func(ctx context.Context, catalogID int) ([]Post, error) {
			if catalogID != 2 {
				t.Errorf("expected catalog 2, got %d", catalogID)
			}
			return []Post{{ID: 9, Title: "Harvest", Catalog: 2, AuthorName: "Neil", CreateAt: time.Now()}}, nil
		},
	}
	h := NewHandler(NewPostService(repo))

	c, rec := newTestContext(t, http.MethodGet, "/catalog/2", nil)
	c.SetParamNames("id")
	c.SetParamValues("2")

	if err := h.CatalogOrDetail(c); err != nil {
		t.Fatalf("CatalogOrDetail failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Harvest") {
		t.Error("expected catalog page to contain the post title")
	}
}

func TestCatalogOrDetail_UnknownIDIsPostDetail(t *testing.T) {
	repo := &mockPostRepo{findByIDFn: ownedPost(55, 3)}
	h := NewHandler(NewPostService(repo))

	c, rec := newTestContext(t, http.MethodGet, "/catalog/55", nil)
	c.SetParamNames("id")
	c.SetParamValues("55")

	if err := h.CatalogOrDetail(c); err != nil {
		t.Fatalf("CatalogOrDetail failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Blue Train") {
		t.Error("expected detail page to contain the post title")
	}
}

func TestCatalogOrDetail_MissingPost(t *testing.T) {
	h := NewHandler(NewPostService(&mockPostRepo{}))

	c, _ := newTestContext(t, http.MethodGet, "/catalog/55", nil)
	c.SetParamNames("id")
	c.SetParamValues("55")

	err := h.CatalogOrDetail(c)
	assertAppError(t, err, 404)
}

func TestCatalogOrDetail_BadID(t *testing.T) {
	h := NewHandler(NewPostService(&mockPostRepo{}))

	c, _ := newTestContext(t, http.MethodGet, "/catalog/abc", nil)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := h.CatalogOrDetail(c)
	assertAppError(t, err, 400)
}

func TestCatalogItems_FiltersByCatalog(t *testing.T) {
	repo := &mockPostRepo{
		listByCatalogFn: func(ctx context.Context, catalogID int) ([]Post, error) {
			return []Post{{ID: 9, Title: "Harvest", Catalog: catalogID, AuthorName: "Neil", CreateAt: time.Now()}}, nil
		},
	}
	h := NewHandler(NewPostService(repo))

	c, rec := newTestContext(t, http.MethodGet, "/catalog/2/items", nil)
	c.SetParamNames("id")
	c.SetParamValues("2")

	if err := h.CatalogItems(c); err != nil {
		t.Fatalf("CatalogItems failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	c, _ = newTestContext(t, http.MethodGet, "/catalog/99/items", nil)
	c.SetParamNames("id")
	c.SetParamValues("99")
	assertAppError(t, h.CatalogItems(c), 404)
}

func TestNewSubmit_EmptyTitleBouncesBack(t *testing.T) {
	repo := &mockPostRepo{}
	h := NewHandler(NewPostService(repo))

	c, rec := newTestContext(t, http.MethodPost, "/new", url.Values{
		"title":   {"   "},
		"body":    {"some text"},
		"catalog": {"1"},
	})
	asUser(c, 3)

	if err := h.NewSubmit(c); err != nil {
		t.Fatalf("NewSubmit failed: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Errorf("status = %d, want 302", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/new?error=missing" {
		t.Errorf("redirect = %q, want /new?error=missing", got)
	}
	if repo.createCount != 0 {
		t.Errorf("expected no insert for invalid input, got %d", repo.createCount)
	}
}

func TestNewSubmit_EmptyCatalogBouncesBack(t *testing.T) {
	repo := &mockPostRepo{}
	h := NewHandler(NewPostService(repo))

	c, rec := newTestContext(t, http.MethodPost, "/new", url.Values{
		"title":   {"Blue Train"},
		"body":    {"some text"},
		"catalog": {""},
	})
	asUser(c, 3)

	if err := h.NewSubmit(c); err != nil {
		t.Fatalf("NewSubmit failed: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Errorf("status = %d, want 302", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/new?error=missing" {
		t.Errorf("redirect = %q, want /new?error=missing", got)
	}
	if repo.createCount != 0 {
		t.Errorf("expected no insert for invalid input, got %d", repo.createCount)
	}
}

func TestEditSubmit_EmptyCatalogBouncesBack(t *testing.T) {
	repo := &mockPostRepo{findByIDFn: ownedPost(5, 3)}
	h := NewHandler(NewPostService(repo))

	c, rec := newTestContext(t, http.MethodPost, "/catalog/5/edit", url.Values{
		"title":   {"Blue Train"},
		"body":    {"some text"},
		"catalog": {"nope"},
	})
	c.SetParamNames("id")
	c.SetParamValues("5")
	asUser(c, 3)

	if err := h.EditSubmit(c); err != nil {
		t.Fatalf("EditSubmit failed: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Errorf("status = %d, want 302", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/catalog/5/edit?error=missing" {
		t.Errorf("redirect = %q, want /catalog/5/edit?error=missing", got)
	}
}

func TestNewSubmit_Success(t *testing.T) {
	repo := &mockPostRepo{
		createFn: func(ctx context.Context, post *Post) error {
			post.ID = 12
			if post.Author != 3 {
				t.Errorf("expected author 3, got %d", post.Author)
			}
			return nil
		},
	}
	h := NewHandler(NewPostService(repo))

	c, rec := newTestContext(t, http.MethodPost, "/new", url.Values{
		"title":   {"Blue Train"},
		"body":    {"<p>classic</p>"},
		"catalog": {"1"},
	})
	asUser(c, 3)

	if err := h.NewSubmit(c); err != nil {
		t.Fatalf("NewSubmit failed: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Errorf("status = %d, want 302", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/catalog/12" {
		t.Errorf("redirect = %q, want /catalog/12", got)
	}
}

func TestDeleteSubmit_NonOwnerRejected(t *testing.T) {
	repo := &mockPostRepo{findByIDFn: ownedPost(5, 3)}
	h := NewHandler(NewPostService(repo))

	c, _ := newTestContext(t, http.MethodPost, "/catalog/5/delete", nil)
	c.SetParamNames("id")
	c.SetParamValues("5")
	asUser(c, 99)

	err := h.DeleteSubmit(c)
	assertAppError(t, err, 403)
	if repo.deleteCount != 0 {
		t.Errorf("expected no delete for a non-owner, got %d", repo.deleteCount)
	}
}

func TestDeleteSubmit_OwnerSucceeds(t *testing.T) {
	repo := &mockPostRepo{findByIDFn: ownedPost(5, 3)}
	h := NewHandler(NewPostService(repo))

	c, rec := newTestContext(t, http.MethodPost, "/catalog/5/delete", nil)
	c.SetParamNames("id")
	c.SetParamValues("5")
	asUser(c, 3)

	if err := h.DeleteSubmit(c); err != nil {
		t.Fatalf("DeleteSubmit failed: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Errorf("status = %d, want 302", rec.Code)
	}
	if repo.deleteCount != 1 {
		t.Errorf("expected 1 delete, got %d", repo.deleteCount)
	}
}

func TestEditForm_ShowsOwnersPost(t *testing.T) {
	repo := &mockPostRepo{findByIDFn: ownedPost(5, 3)}
	h := NewHandler(NewPostService(repo))

	c, rec := newTestContext(t, http.MethodGet, "/catalog/5/edit", nil)
	c.SetParamNames("id")
	c.SetParamValues("5")
	asUser(c, 3)

	if err := h.EditForm(c); err != nil {
		t.Fatalf("EditForm failed: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "Blue Train") {
		t.Error("expected edit form prefilled with the post title")
	}
}
