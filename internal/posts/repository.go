package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/discboxhq/discbox/internal/apperror"
)

// PostRepository defines the data access contract for post rows.
// All SQL lives in the concrete implementation -- no SQL leaks out.
type PostRepository interface {
	Create(ctx context.Context, post *Post) error
	FindByID(ctx context.Context, id int64) (*Post, error)
	List(ctx context.Context) ([]Post, error)
	ListByCatalog(ctx context.Context, catalogID int) ([]Post, error)
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id int64) error
}

// postRepository implements PostRepository with hand-written MariaDB queries.
type postRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new post repository backed by the given DB pool.
func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

// postColumns is the select list shared by every read query. The user join
// fills AuthorName; id breaks ties between posts created in the same instant.
const postColumns = `p.id, p.title, p.body, p.catalog, p.author, p.create_at, u.name`

// postOrder sorts listings newest first; the ascending id keeps posts
// created in the same instant in insertion order. Callers above this layer
// rely on the rows arriving already sorted.
const postOrder = `ORDER BY p.create_at DESC, p.id ASC`

// Create inserts a new post row and fills in the generated id.
func (r *postRepository) Create(ctx context.Context, post *Post) error {
	query := `INSERT INTO posts (title, body, catalog, author, create_at) VALUES (?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		post.Title, post.Body, post.Catalog, post.Author, post.CreateAt)
	if err != nil {
		return fmt.Errorf("inserting post: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading generated post id: %w", err)
	}
	post.ID = id

	return nil
}

// FindByID retrieves a post with its author's name.
// Returns apperror.NotFound if no post exists with this id.
func (r *postRepository) FindByID(ctx context.Context, id int64) (*Post, error) {
	query := `SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.author
		WHERE p.id = ?`

	post := &Post{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID,
		&post.Title,
		&post.Body,
		&post.Catalog,
		&post.Author,
		&post.CreateAt,
		&post.AuthorName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("post not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying post by id: %w", err)
	}

	return post, nil
}

// List returns every post, newest first.
func (r *postRepository) List(ctx context.Context) ([]Post, error) {
	query := `SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.author
		` + postOrder

	return r.queryPosts(ctx, query)
}

// ListByCatalog returns the posts in one catalog, newest first.
func (r *postRepository) ListByCatalog(ctx context.Context, catalogID int) ([]Post, error) {
	query := `SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.author
		WHERE p.catalog = ?
		` + postOrder

	return r.queryPosts(ctx, query, catalogID)
}

// Update rewrites the editable columns of a post.
func (r *postRepository) Update(ctx context.Context, post *Post) error {
	query := `UPDATE posts SET title = ?, body = ?, catalog = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query,
		post.Title, post.Body, post.Catalog, post.ID); err != nil {
		return fmt.Errorf("updating post: %w", err)
	}
	return nil
}

// Delete removes a post row.
func (r *postRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	return nil
}

// queryPosts runs a multi-row post query and scans the results.
func (r *postRepository) queryPosts(ctx context.Context, query string, args ...any) ([]Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying posts: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var post Post
		if err := rows.Scan(
			&post.ID,
			&post.Title,
			&post.Body,
			&post.Catalog,
			&post.Author,
			&post.CreateAt,
			&post.AuthorName,
		); err != nil {
			return nil, fmt.Errorf("scanning post row: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating post rows: %w", err)
	}

	return posts, nil
}
