package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/hishmat-dev/job-listing-app/internal/models"
)

//go:embed templates
var embedded embed.FS

//go:embed static
var staticFiles embed.FS

// EmbeddedTemplates returns the templates compiled into the binary.
func EmbeddedTemplates() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// StaticFS returns the embedded static assets.
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// TemplateEngine handles HTML template rendering. Shared templates live at
// the root of the file system and pages under pages/.
type TemplateEngine struct {
	fsys   fs.FS
	reload bool // dev mode: reload on each request

	mu    sync.RWMutex
	base  *template.Template
	pages map[string]*template.Template
}

// NewTemplateEngine creates a template engine reading from fsys.
func NewTemplateEngine(fsys fs.FS, reload bool) *TemplateEngine {
	return &TemplateEngine{fsys: fsys, reload: reload}
}

// NewTemplateEngineFromDir uses templates from dir, reloading them on every
// render, or the embedded templates when dir is empty.
func NewTemplateEngineFromDir(dir string) *TemplateEngine {
	if dir == "" {
		return NewTemplateEngine(EmbeddedTemplates(), false)
	}
	return NewTemplateEngine(os.DirFS(dir), true)
}

// Funcs are available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, errors.New("dict: odd number of arguments")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict: key %v is not a string", values[i])
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"lower":       strings.ToLower,
		"join":        strings.Join,
		"formatDate":  formatDate,
		"jobTypeSlug": jobTypeSlug,
		"withQuery":   withQuery,
	}
}

// formatDate renders a posting date as "Jan 10, 2024"; unparseable dates
// are shown as given.
func formatDate(s string) string {
	t := models.ParsePostingDate(s, time.UTC)
	if t.IsZero() {
		return s
	}
	return t.Format("Jan 2, 2006")
}

func jobTypeSlug(t models.JobType) string {
	return strings.ToLower(string(t))
}

// withQuery appends an encoded query to a path.
func withQuery(p string, q url.Values) string {
	if len(q) == 0 {
		return p
	}
	return p + "?" + q.Encode()
}

// Load parses the shared templates and every page.
func (te *TemplateEngine) Load() error {
	base := template.New("").Funcs(Funcs())

	var pageFiles []string
	err := fs.WalkDir(te.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".html" {
			return nil
		}
		if strings.HasPrefix(p, "pages/") {
			pageFiles = append(pageFiles, p)
			return nil
		}
		_, err = base.ParseFS(te.fsys, p)
		return err
	})
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageFiles))
	for _, p := range pageFiles {
		tmpl, err := base.Clone()
		if err != nil {
			return err
		}
		if _, err := tmpl.ParseFS(te.fsys, p); err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}
		pages[strings.TrimSuffix(path.Base(p), ".html")] = tmpl
	}

	te.mu.Lock()
	te.base = base
	te.pages = pages
	te.mu.Unlock()
	return nil
}

func (te *TemplateEngine) page(name string) (*template.Template, error) {
	if te.reload {
		if err := te.Load(); err != nil {
			return nil, err
		}
	}

	te.mu.RLock()
	defer te.mu.RUnlock()
	tmpl, ok := te.pages[name]
	if !ok {
		return nil, fmt.Errorf("page %q not found", name)
	}
	return tmpl, nil
}

// Render renders a page inside the layout.
func (te *TemplateEngine) Render(w io.Writer, name string, data interface{}) error {
	tmpl, err := te.page(name)
	if err != nil {
		return err
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

// RenderContent renders only the page's content block, without layout.
func (te *TemplateEngine) RenderContent(w io.Writer, name string, data interface{}) error {
	tmpl, err := te.page(name)
	if err != nil {
		return err
	}
	return tmpl.ExecuteTemplate(w, "content", data)
}

// RenderPartial renders a shared template by name.
func (te *TemplateEngine) RenderPartial(w io.Writer, name string, data interface{}) error {
	if te.reload {
		if err := te.Load(); err != nil {
			return err
		}
	}
	te.mu.RLock()
	base := te.base
	te.mu.RUnlock()
	if base == nil {
		return errors.New("templates not loaded")
	}
	return base.ExecuteTemplate(w, name, data)
}
