package handler

import (
	"log/slog"
	"net/http"

	"github.com/msomdec/todo-api/internal/view"
)

// HandleHome renders the API index page. Unknown paths fall through to here
// and get a 404.
func HandleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.HomePage(view.Routes).Render(r.Context(), w); err != nil {
		slog.ErrorContext(r.Context(), "render home page", "error", err)
	}
}
