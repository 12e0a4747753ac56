// Package pages holds the shared page components that belong to no single
// feature package.
package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/discboxhq/discbox/internal/templates/layouts"
)

// ErrorPage renders the shared error page for browser requests.
func ErrorPage(code int, message string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div class="error-page">
<h1>%d</h1>
<p>%s</p>
<a href="/">Back to home</a>
</div>
`, code, templ.EscapeString(message))
		return err
	})
	return layouts.Base("Error", body)
}
