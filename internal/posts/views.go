package posts

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/discboxhq/discbox/internal/catalog"
	"github.com/discboxhq/discbox/internal/templates/layouts"
)

// MenuPage is the home page: the catalog menu plus the latest posts across
// all catalogs.
func MenuPage(catalogs []catalog.Catalog, latest []Post) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<h1>Catalogs</h1>
<ul class="catalog-menu">
`); err != nil {
			return err
		}
		for _, cat := range catalogs {
			if _, err := fmt.Fprintf(w, `<li><a href="/catalog/%d">%s</a></li>
`, cat.ID, templ.EscapeString(cat.Name)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</ul>
<h2>Latest posts</h2>
`); err != nil {
			return err
		}
		return renderPostList(ctx, w, latest)
	})
	return layouts.Base("Home", body)
}

// CatalogPage lists the posts within a single catalog.
func CatalogPage(cat catalog.Catalog, posts []Post) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h1>%s</h1>
`, templ.EscapeString(cat.Name)); err != nil {
			return err
		}
		return renderPostList(ctx, w, posts)
	})
	return layouts.Base(cat.Name, body)
}

// PostDetailPage shows a single post. Edit and delete links appear only for
// the post's author.
func PostDetailPage(post *Post) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<article class="post">
<h1>%s</h1>
<p class="post-meta">by %s in %s on %s</p>
`,
			templ.EscapeString(post.Title),
			templ.EscapeString(post.AuthorName),
			templ.EscapeString(catalog.Name(post.Catalog)),
			post.CreateAt.Format("2006-01-02"),
		); err != nil {
			return err
		}

		// Body is sanitized HTML; it is emitted as-is.
		if _, err := io.WriteString(w, `<div class="post-body">`+post.Body+`</div>
`); err != nil {
			return err
		}

		if layouts.GetUserID(ctx) == post.Author {
			if _, err := fmt.Fprintf(w, `<div class="post-actions">
<a href="/catalog/%d/edit">Edit</a>
<a href="/catalog/%d/delete">Delete</a>
</div>
`, post.ID, post.ID); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, `</article>`)
		return err
	})
	return layouts.Base(post.Title, body)
}

// PostFormData drives the shared new/edit form.
type PostFormData struct {
	// Action is the form's POST target.
	Action string
	// Error is the ?error= query flag, rendered as a validation message.
	Error string
	// Post prefills the fields when editing; nil for a blank form.
	Post *Post
}

// NewPostPage renders the blank post composition form.
func NewPostPage(errFlag string) templ.Component {
	return postFormPage("New Post", PostFormData{Action: "/new", Error: errFlag})
}

// EditPostPage renders the form prefilled with an existing post.
func EditPostPage(post *Post, errFlag string) templ.Component {
	return postFormPage("Edit Post", PostFormData{
		Action: "/catalog/" + strconv.FormatInt(post.ID, 10) + "/edit",
		Error:  errFlag,
		Post:   post,
	})
}

// DeletePostPage asks the author to confirm deletion.
func DeletePostPage(post *Post) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<h1>Delete post</h1>
<p>Delete "%s"? This cannot be undone.</p>
<form method="post" action="/catalog/%d/delete">
<button type="submit">Delete</button>
<a href="/catalog/%d">Cancel</a>
</form>
`, templ.EscapeString(post.Title), post.ID, post.ID)
		return err
	})
	return layouts.Base("Delete Post", body)
}

// postFormPage renders the shared create/edit form.
func postFormPage(title string, data PostFormData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h1>%s</h1>
`, templ.EscapeString(title)); err != nil {
			return err
		}

		if data.Error == "missing" {
			if _, err := io.WriteString(w, `<p class="error">Title and body are both required.</p>
`); err != nil {
				return err
			}
		}

		var postTitle, postBody string
		selected := 0
		if data.Post != nil {
			postTitle = data.Post.Title
			postBody = data.Post.Body
			selected = data.Post.Catalog
		}

		if _, err := fmt.Fprintf(w, `<form class="post-form" method="post" action="%s">
<label for="title">Title</label>
<input type="text" id="title" name="title" value="%s">
<label for="catalog">Catalog</label>
<select id="catalog" name="catalog">
`, templ.EscapeString(data.Action), templ.EscapeString(postTitle)); err != nil {
			return err
		}

		for _, cat := range catalog.All() {
			mark := ""
			if cat.ID == selected {
				mark = " selected"
			}
			if _, err := fmt.Fprintf(w, `<option value="%d"%s>%s</option>
`, cat.ID, mark, templ.EscapeString(cat.Name)); err != nil {
				return err
			}
		}

		_, err := fmt.Fprintf(w, `</select>
<label for="body">Body</label>
<textarea id="body" name="body" rows="12">%s</textarea>
<button type="submit">Save</button>
</form>
`, templ.EscapeString(postBody))
		return err
	})
	return layouts.Base(title, body)
}

// renderPostList writes the shared post listing markup.
func renderPostList(_ context.Context, w io.Writer, posts []Post) error {
	if len(posts) == 0 {
		_, err := io.WriteString(w, `<p class="empty">No posts yet.</p>
`)
		return err
	}

	if _, err := io.WriteString(w, `<ul class="post-list">
`); err != nil {
		return err
	}
	for _, post := range posts {
		if _, err := fmt.Fprintf(w, `<li><a href="/catalog/%d">%s</a> <span class="post-meta">by %s, %s</span></li>
`,
			post.ID,
			templ.EscapeString(post.Title),
			templ.EscapeString(post.AuthorName),
			post.CreateAt.Format("2006-01-02"),
		); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</ul>
`)
	return err
}
