package layouts

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Base wraps a page body in the shared HTML shell: head, navigation bar, and
// footer. The navigation reflects the viewer's authentication state via the
// layout context helpers.
func Base(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s | Discbox</title>
<link rel="stylesheet" href="/static/css/main.css">
</head>
<body>
<nav class="topnav">
<a class="brand" href="/">Discbox</a>
<div class="nav-links">`, templ.EscapeString(title)); err != nil {
			return err
		}

		if IsAuthenticated(ctx) {
			if _, err := fmt.Fprintf(w, `<span class="nav-user">%s</span><a href="/new">New Post</a><a href="/logout">Logout</a>`,
				templ.EscapeString(GetUserName(ctx))); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w, `<a href="/login">Login</a>`); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, `</div>
</nav>
<main class="content">
`); err != nil {
			return err
		}

		if err := body.Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w, `
</main>
<footer class="footer">Discbox</footer>
</body>
</html>`)
		return err
	})
}
