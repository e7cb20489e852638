package web

import (
	"bytes"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/hishmat-dev/job-listing-app/internal/app"
	"github.com/hishmat-dev/job-listing-app/internal/logger"
)

// Layout carries the fields every page shares with layout.html.
type Layout struct {
	Title    string
	Toasts   []app.Toast
	Error    string
	ReturnTo string // request URI restored after form posts
}

// ErrorPage is the data of the fallback page.
type ErrorPage struct {
	Layout
	Detail    string
	ReloadURL string
}

// ErrorBoundary recovers panics in page handlers and renders the fallback
// page instead of a bare 500. http.ErrAbortHandler is re-raised.
func ErrorBoundary(templates *TemplateEngine, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.Error().
					Str("path", r.URL.Path).
					Str("request_id", middleware.GetReqID(r.Context())).
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Msg("page handler panicked")

				RenderError(w, templates, r.URL.RequestURI(), fmt.Sprint(rec))
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// RenderError writes the fallback page with status 500. Detail is shown
// only when the templates are reloaded from disk.
func RenderError(w http.ResponseWriter, templates *TemplateEngine, reloadURL, detail string) {
	page := ErrorPage{Layout: Layout{Title: "Error"}, ReloadURL: reloadURL}
	if templates != nil && templates.reload {
		page.Detail = detail
	}

	var buf bytes.Buffer
	if templates == nil || templates.Render(&buf, "error", page) != nil {
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = buf.WriteTo(w)
}
