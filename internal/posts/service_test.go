package posts

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/discboxhq/discbox/internal/apperror"
)

// --- Mock Repository ---

// mockPostRepo implements PostRepository for testing.
type mockPostRepo struct {
	createFn        func(ctx context.Context, post *Post) error
	findByIDFn      func(ctx context.Context, id int64) (*Post, error)
	listFn          func(ctx context.Context) ([]Post, error)
	listByCatalogFn func(ctx context.Context, catalogID int) ([]Post, error)
	updateFn        func(ctx context.Context, post *Post) error
	deleteFn        func(ctx context.Context, id int64) error

	createCount int
	deleteCount int
}

func (m *mockPostRepo) Create(ctx context.Context, post *Post) error {
	m.createCount++
	if m.createFn != nil {
		return m.createFn(ctx, post)
	}
	post.ID = 1
	return nil
}

func (m *mockPostRepo) FindByID(ctx context.Context, id int64) (*Post, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, apperror.NewNotFound("post not found")
}

func (m *mockPostRepo) List(ctx context.Context) ([]Post, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockPostRepo) ListByCatalog(ctx context.Context, catalogID int) ([]Post, error) {
	if m.listByCatalogFn != nil {
		return m.listByCatalogFn(ctx, catalogID)
	}
	return nil, nil
}

func (m *mockPostRepo) Update(ctx context.Context, post *Post) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, post)
	}
	return nil
}

func (m *mockPostRepo) Delete(ctx context.Context, id int64) error {
	m.deleteCount++
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// assertAppError checks that err is an *apperror.AppError with the expected code.
func assertAppError(t *testing.T, err error, expectedCode int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", expectedCode)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status %d, got %d (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// ownedPost returns a findByIDFn serving one post owned by the given author.
func ownedPost(id, author int64) func(ctx context.Context, gotID int64) (*Post, error) {
	return func(ctx context.Context, gotID int64) (*Post, error) {
		if gotID != id {
			return nil, apperror.NewNotFound("post not found")
		}
		return &Post{
			ID:       id,
			Title:    "Blue Train",
			Body:     "<p>classic</p>",
			Catalog:  1,
			Author:   author,
			CreateAt: time.Now().UTC(),
		}, nil
	}
}

// --- Create Tests ---

func TestCreatePost_Success(t *testing.T) {
	var created *Post
	repo := &mockPostRepo{
		createFn: func(ctx context.Context, post *Post) error {
			post.ID = 7
			created = post
			return nil
		},
	}

	svc := NewPostService(repo)
	post, err := svc.CreatePost(context.Background(), 3, CreatePostInput{
		Title:   "  Blue Train  ",
		Body:    "<p>classic</p>",
		Catalog: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.ID != 7 {
		t.Errorf("expected generated id 7, got %d", post.ID)
	}
	if created.Title != "Blue Train" {
		t.Errorf("expected trimmed title, got %q", created.Title)
	}
	if created.Author != 3 {
		t.Errorf("expected author 3, got %d", created.Author)
	}
	if created.CreateAt.IsZero() {
		t.Error("expected create_at to be set")
	}
}

func TestCreatePost_EmptyTitle(t *testing.T) {
	repo := &mockPostRepo{}
	svc := NewPostService(repo)

	_, err := svc.CreatePost(context.Background(), 3, CreatePostInput{
		Title:   "   ",
		Body:    "something",
		Catalog: 1,
	})
	assertAppError(t, err, 422)

	if repo.createCount != 0 {
		t.Errorf("expected no insert for invalid input, got %d", repo.createCount)
	}
}

func TestCreatePost_EmptyBody(t *testing.T) {
	repo := &mockPostRepo{}
	svc := NewPostService(repo)

	_, err := svc.CreatePost(context.Background(), 3, CreatePostInput{
		Title:   "Blue Train",
		Body:    "",
		Catalog: 1,
	})
	assertAppError(t, err, 422)
	if repo.createCount != 0 {
		t.Errorf("expected no insert for invalid input, got %d", repo.createCount)
	}
}

func TestCreatePost_UnknownCatalog(t *testing.T) {
	svc := NewPostService(&mockPostRepo{})

	_, err := svc.CreatePost(context.Background(), 3, CreatePostInput{
		Title:   "Blue Train",
		Body:    "something",
		Catalog: 99,
	})
	assertAppError(t, err, 422)
}

func TestCreatePost_SanitizesBody(t *testing.T) {
	var created *Post
	repo := &mockPostRepo{
		createFn: func(ctx context.Context, post *Post) error {
			created = post
			return nil
		},
	}

	svc := NewPostService(repo)
	_, err := svc.CreatePost(context.Background(), 3, CreatePostInput{
		Title:   "Blue Train",
		Body:    `<p>fine</p><script>alert("x")</script>`,
		Catalog: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(created.Body, "<script>") {
		t.Errorf("expected script stripped from body, got %q", created.Body)
	}
	if !strings.Contains(created.Body, "<p>fine</p>") {
		t.Errorf("expected benign markup preserved, got %q", created.Body)
	}
}

// --- Listing Tests ---

func TestListCatalogPosts_UnknownCatalog(t *testing.T) {
	svc := NewPostService(&mockPostRepo{})

	_, err := svc.ListCatalogPosts(context.Background(), 99)
	assertAppError(t, err, 404)
}

func TestListCatalogPosts_Success(t *testing.T) {
	repo := &mockPostRepo{
		listByCatalogFn: func(ctx context.Context, catalogID int) ([]Post, error) {
			if catalogID != 2 {
				t.Errorf("expected catalog 2, got %d", catalogID)
			}
			return []Post{{ID: 1, Catalog: 2}}, nil
		},
	}
	svc := NewPostService(repo)

	posts, err := svc.ListCatalogPosts(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posts) != 1 {
		t.Errorf("expected 1 post, got %d", len(posts))
	}
}

func TestListPosts_PreservesRepositoryOrder(t *testing.T) {
	// The repository sorts newest first with same-instant ties in insertion
	// order; the service must hand the rows through untouched.
	stamp := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	repo := &mockPostRepo{
		listFn: func(ctx context.Context) ([]Post, error) {
			return []Post{
				{ID: 9, Title: "Aja", CreateAt: stamp.Add(time.Hour)},
				{ID: 4, Title: "Horses", CreateAt: stamp},
				{ID: 5, Title: "Marquee Moon", CreateAt: stamp},
			}, nil
		},
	}
	svc := NewPostService(repo)

	posts, err := svc.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int64{9, 4, 5}
	if len(posts) != len(want) {
		t.Fatalf("expected %d posts, got %d", len(want), len(posts))
	}
	for i, id := range want {
		if posts[i].ID != id {
			t.Errorf("position %d: expected post %d, got %d", i, id, posts[i].ID)
		}
	}
}

// --- Ownership Tests ---

func TestUpdatePost_NotOwner(t *testing.T) {
	repo := &mockPostRepo{findByIDFn: ownedPost(5, 3)}
	svc := NewPostService(repo)

	err := svc.UpdatePost(context.Background(), 5, 99, UpdatePostInput{
		Title:   "Hijacked",
		Body:    "nope",
		Catalog: 1,
	})
	assertAppError(t, err, 403)
}

func TestUpdatePost_Missing(t *testing.T) {
	svc := NewPostService(&mockPostRepo{})

	err := svc.UpdatePost(context.Background(), 5, 3, UpdatePostInput{
		Title:   "Anything",
		Body:    "anything",
		Catalog: 1,
	})
	assertAppError(t, err, 404)
}

func TestUpdatePost_Success(t *testing.T) {
	var updated *Post
	repo := &mockPostRepo{
		findByIDFn: ownedPost(5, 3),
		updateFn: func(ctx context.Context, post *Post) error {
			updated = post
			return nil
		},
	}
	svc := NewPostService(repo)

	err := svc.UpdatePost(context.Background(), 5, 3, UpdatePostInput{
		Title:   "Giant Steps",
		Body:    "<p>revised</p>",
		Catalog: 3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != "Giant Steps" || updated.Catalog != 3 {
		t.Errorf("expected fields rewritten, got %+v", updated)
	}
}

func TestDeletePost_NotOwner(t *testing.T) {
	repo := &mockPostRepo{findByIDFn: ownedPost(5, 3)}
	svc := NewPostService(repo)

	err := svc.DeletePost(context.Background(), 5, 99)
	assertAppError(t, err, 403)

	if repo.deleteCount != 0 {
		t.Errorf("expected no delete for a non-owner, got %d", repo.deleteCount)
	}
}

func TestDeletePost_Success(t *testing.T) {
	repo := &mockPostRepo{findByIDFn: ownedPost(5, 3)}
	svc := NewPostService(repo)

	if err := svc.DeletePost(context.Background(), 5, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.deleteCount != 1 {
		t.Errorf("expected 1 delete, got %d", repo.deleteCount)
	}
}

func TestGetOwnedPost_DistinguishesMissingFromForbidden(t *testing.T) {
	repo := &mockPostRepo{findByIDFn: ownedPost(5, 3)}
	svc := NewPostService(repo)

	_, err := svc.GetOwnedPost(context.Background(), 6, 3)
	assertAppError(t, err, 404)

	_, err = svc.GetOwnedPost(context.Background(), 5, 99)
	assertAppError(t, err, 403)
}
