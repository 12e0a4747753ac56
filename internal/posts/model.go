// Package posts implements the post catalog: creation, browsing by catalog,
// and owner-gated editing and deletion.
package posts

import "time"

// Post represents a single post. Body holds sanitized HTML; raw input is
// cleaned at the service boundary before it ever reaches storage.
type Post struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	Catalog  int       `json:"catalog"`
	Author   int64     `json:"author"`
	CreateAt time.Time `json:"create_at"`

	// AuthorName is the author's display name, filled by the repository's
	// user join. Not a column on the posts table.
	AuthorName string `json:"author_name,omitempty"`
}

// CreatePostInput carries validated-at-the-service-layer fields for a new post.
type CreatePostInput struct {
	Title   string
	Body    string
	Catalog int
}

// UpdatePostInput carries the editable fields of an existing post.
type UpdatePostInput struct {
	Title   string
	Body    string
	Catalog int
}
