package posts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/discboxhq/discbox/internal/apperror"
	"github.com/discboxhq/discbox/internal/catalog"
	"github.com/discboxhq/discbox/internal/sanitize"
)

// maxTitleLength bounds post titles to the title column width.
const maxTitleLength = 120

// PostService defines the business logic contract for posts.
type PostService interface {
	CreatePost(ctx context.Context, authorID int64, input CreatePostInput) (*Post, error)
	GetPost(ctx context.Context, id int64) (*Post, error)
	ListPosts(ctx context.Context) ([]Post, error)
	ListCatalogPosts(ctx context.Context, catalogID int) ([]Post, error)

	// Owner-gated mutations. Reject with 403 when userID is not the author.
	GetOwnedPost(ctx context.Context, id, userID int64) (*Post, error)
	UpdatePost(ctx context.Context, id, userID int64, input UpdatePostInput) error
	DeletePost(ctx context.Context, id, userID int64) error
}

// postService implements PostService.
type postService struct {
	repo PostRepository
}

// NewPostService creates a new post service.
func NewPostService(repo PostRepository) PostService {
	return &postService{repo: repo}
}

// CreatePost validates input, sanitizes the body, and creates a new post.
func (s *postService) CreatePost(ctx context.Context, authorID int64, input CreatePostInput) (*Post, error) {
	if err := validateInput(input.Title, input.Body, input.Catalog); err != nil {
		return nil, err
	}

	post := &Post{
		Title:    strings.TrimSpace(input.Title),
		Body:     sanitize.HTML(input.Body),
		Catalog:  input.Catalog,
		Author:   authorID,
		CreateAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating post: %w", err))
	}

	slog.Info("post created", "post_id", post.ID, "author", authorID, "catalog", post.Catalog)
	return post, nil
}

// GetPost retrieves a post by ID.
func (s *postService) GetPost(ctx context.Context, id int64) (*Post, error) {
	return s.repo.FindByID(ctx, id)
}

// ListPosts returns all posts, newest first.
func (s *postService) ListPosts(ctx context.Context) ([]Post, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing posts: %w", err))
	}
	return posts, nil
}

// ListCatalogPosts returns the posts in one catalog, newest first.
// Returns apperror.NotFound for an unknown catalog id.
func (s *postService) ListCatalogPosts(ctx context.Context, catalogID int) ([]Post, error) {
	if !catalog.Valid(catalogID) {
		return nil, apperror.NewNotFound("catalog not found")
	}

	posts, err := s.repo.ListByCatalog(ctx, catalogID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing catalog posts: %w", err))
	}
	return posts, nil
}

// GetOwnedPost retrieves a post and verifies the caller is its author.
func (s *postService) GetOwnedPost(ctx context.Context, id, userID int64) (*Post, error) {
	return s.requireOwner(ctx, id, userID)
}

// UpdatePost validates input and rewrites a post the caller owns.
func (s *postService) UpdatePost(ctx context.Context, id, userID int64, input UpdatePostInput) error {
	post, err := s.requireOwner(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := validateInput(input.Title, input.Body, input.Catalog); err != nil {
		return err
	}

	post.Title = strings.TrimSpace(input.Title)
	post.Body = sanitize.HTML(input.Body)
	post.Catalog = input.Catalog

	if err := s.repo.Update(ctx, post); err != nil {
		return apperror.NewInternal(fmt.Errorf("updating post: %w", err))
	}

	slog.Info("post updated", "post_id", id, "author", userID)
	return nil
}

// DeletePost removes a post the caller owns.
func (s *postService) DeletePost(ctx context.Context, id, userID int64) error {
	if _, err := s.requireOwner(ctx, id, userID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperror.NewInternal(fmt.Errorf("deleting post: %w", err))
	}

	slog.Info("post deleted", "post_id", id, "author", userID)
	return nil
}

// requireOwner fetches a post and verifies ownership. A missing post is 404;
// an existing post owned by someone else is 403. The two are distinct so a
// client can tell "gone" from "not yours".
func (s *postService) requireOwner(ctx context.Context, id, userID int64) (*Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Author != userID {
		return nil, apperror.NewForbidden("Not this post author")
	}
	return post, nil
}

// validateInput checks the shared create/update field constraints.
func validateInput(title, body string, catalogID int) error {
	if strings.TrimSpace(title) == "" {
		return apperror.NewValidation("title is required")
	}
	if len(title) > maxTitleLength {
		return apperror.NewValidation(fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	}
	if strings.TrimSpace(body) == "" {
		return apperror.NewValidation("body is required")
	}
	if !catalog.Valid(catalogID) {
		return apperror.NewValidation("unknown catalog")
	}
	return nil
}
