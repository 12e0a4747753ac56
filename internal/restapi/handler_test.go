package restapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/discboxhq/discbox/internal/apperror"
	"github.com/discboxhq/discbox/internal/posts"
)

// mockPostService implements posts.PostService for testing.
type mockPostService struct {
	getPostFn          func(ctx context.Context, id int64) (*posts.Post, error)
	listCatalogPostsFn func(ctx context.Context, catalogID int) ([]posts.Post, error)
}

func (m *mockPostService) CreatePost(ctx context.Context, authorID int64, input posts.CreatePostInput) (*posts.Post, error) {
	panic("not used")
}

func (m *mockPostService) GetPost(ctx context.Context, id int64) (*posts.Post, error) {
	if m.getPostFn != nil {
		return m.getPostFn(ctx, id)
	}
	return nil, apperror.NewNotFound("post not found")
}

func (m *mockPostService) ListPosts(ctx context.Context) ([]posts.Post, error) {
	return nil, nil
}

func (m *mockPostService) ListCatalogPosts(ctx context.Context, catalogID int) ([]posts.Post, error) {
	if m.listCatalogPostsFn != nil {
		return m.listCatalogPostsFn(ctx, catalogID)
	}
	return nil, nil
}

func (m *mockPostService) GetOwnedPost(ctx context.Context, id, userID int64) (*posts.Post, error) {
	panic("not used")
}

func (m *mockPostService) UpdatePost(ctx context.Context, id, userID int64, input posts.UpdatePostInput) error {
	panic("not used")
}

func (m *mockPostService) DeletePost(ctx context.Context, id, userID int64) error {
	panic("not used")
}

// newTestContext builds an Echo context for a single handler call.
func newTestContext(method, target string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestCatalogs_NestsPostsPerCatalog(t *testing.T) {
	svc := &mockPostService{
		listCatalogPostsFn: func(ctx context.Context, catalogID int) ([]posts.Post, error) {
			if catalogID == 2 {
				return []posts.Post{{ID: 1, Title: "Harvest", Catalog: 2, CreateAt: time.Now()}}, nil
			}
			return nil, nil
		},
	}
	h := NewHandler(svc)

	c, rec := newTestContext(http.MethodGet, "/rest/catalog")
	if err := h.Catalogs(c); err != nil {
		t.Fatalf("Catalogs failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Catalogs []struct {
			ID    int          `json:"id"`
			Name  string       `json:"name"`
			Items []posts.Post `json:"items"`
		} `json:"catalogs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(body.Catalogs) != 3 {
		t.Fatalf("expected 3 catalogs, got %d", len(body.Catalogs))
	}
	if body.Catalogs[0].Name != "Rock" || body.Catalogs[1].Name != "Country" || body.Catalogs[2].Name != "Pop" {
		t.Errorf("unexpected catalog order: %+v", body.Catalogs)
	}
	if len(body.Catalogs[1].Items) != 1 || body.Catalogs[1].Items[0].Title != "Harvest" {
		t.Errorf("expected Harvest nested under Country, got %+v", body.Catalogs[1].Items)
	}
	// Empty catalogs must serialize as [], not null.
	if body.Catalogs[0].Items == nil {
		t.Error("expected empty items array, got null")
	}
}

func TestCatalog_UnknownID(t *testing.T) {
	h := NewHandler(&mockPostService{
		listCatalogPostsFn: func(ctx context.Context, catalogID int) ([]posts.Post, error) {
			return nil, apperror.NewNotFound("catalog not found")
		},
	})

	c, _ := newTestContext(http.MethodGet, "/rest/catalog/99")
	c.SetParamNames("catalogId")
	c.SetParamValues("99")

	err := h.Catalog(c)
	appErr, ok := err.(*apperror.AppError)
	if !ok || appErr.Code != http.StatusNotFound {
		t.Errorf("expected 404 AppError, got %v", err)
	}
}

func TestCatalog_Success(t *testing.T) {
	h := NewHandler(&mockPostService{
		listCatalogPostsFn: func(ctx context.Context, catalogID int) ([]posts.Post, error) {
			return []posts.Post{{ID: 4, Title: "Nevermind", Catalog: 1}}, nil
		},
	})

	c, rec := newTestContext(http.MethodGet, "/rest/catalog/1")
	c.SetParamNames("catalogId")
	c.SetParamValues("1")

	if err := h.Catalog(c); err != nil {
		t.Fatalf("Catalog failed: %v", err)
	}

	var body struct {
		ID    int          `json:"id"`
		Name  string       `json:"name"`
		Items []posts.Post `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.ID != 1 || body.Name != "Rock" {
		t.Errorf("expected catalog 1 Rock, got %d %q", body.ID, body.Name)
	}
	if len(body.Items) != 1 || body.Items[0].Title != "Nevermind" {
		t.Errorf("unexpected items: %+v", body.Items)
	}
}

func TestItem_Success(t *testing.T) {
	h := NewHandler(&mockPostService{
		getPostFn: func(ctx context.Context, id int64) (*posts.Post, error) {
			return &posts.Post{ID: id, Title: "Blue Train", Catalog: 1, Author: 3}, nil
		},
	})

	c, rec := newTestContext(http.MethodGet, "/rest/catalog/item/5")
	c.SetParamNames("postId")
	c.SetParamValues("5")

	if err := h.Item(c); err != nil {
		t.Fatalf("Item failed: %v", err)
	}

	var post posts.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &post); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if post.ID != 5 || post.Title != "Blue Train" {
		t.Errorf("unexpected post: %+v", post)
	}
}

func TestItem_MissingIs400WithErrorBody(t *testing.T) {
	h := NewHandler(&mockPostService{})

	c, rec := newTestContext(http.MethodGet, "/rest/catalog/item/5")
	c.SetParamNames("postId")
	c.SetParamValues("5")

	if err := h.Item(c); err != nil {
		t.Fatalf("Item failed: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	var body struct {
		Error      string `json:"error"`
		HTTPStatus int    `json:"httpStatus"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Error == "" || body.HTTPStatus != http.StatusBadRequest {
		t.Errorf("unexpected error body: %+v", body)
	}
}

func TestItem_BadID(t *testing.T) {
	h := NewHandler(&mockPostService{})

	c, rec := newTestContext(http.MethodGet, "/rest/catalog/item/abc")
	c.SetParamNames("postId")
	c.SetParamValues("abc")

	if err := h.Item(c); err != nil {
		t.Fatalf("Item failed: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
