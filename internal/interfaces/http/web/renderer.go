// Package web renders the server-side HTML pages of the events site.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"maps"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin/render"
)

//go:embed templates/*.html
var templateFS embed.FS

// layoutName is the file every page is executed through
const layoutName = "base.html"

// Renderer holds one parsed template set per page, each made of the shared
// layout plus the page itself. It implements gin's render.HTMLRender.
type Renderer struct {
	funcMap template.FuncMap
	files   fs.FS
	pages   map[string]*template.Template
}

// RendererOption configures the renderer
type RendererOption func(*Renderer)

// WithFuncs adds or overrides template functions
func WithFuncs(funcs template.FuncMap) RendererOption {
	return func(r *Renderer) {
		maps.Copy(r.funcMap, funcs)
	}
}

// WithFS parses the pages from another file system, rooted at the template directory
func WithFS(files fs.FS) RendererOption {
	return func(r *Renderer) {
		r.files = files
	}
}

// NewRenderer parses the embedded layout and pages
func NewRenderer(opts ...RendererOption) (*Renderer, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, err
	}
	r := &Renderer{
		funcMap: defaultFuncs(),
		files:   sub,
		pages:   make(map[string]*template.Template),
	}
	for _, opt := range opts {
		opt(r)
	}

	layout, err := template.New(layoutName).Funcs(r.funcMap).ParseFS(r.files, layoutName)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	names, err := fs.Glob(r.files, "*.html")
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		if name == layoutName {
			continue
		}
		page, err := template.Must(layout.Clone()).ParseFS(r.files, name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", name, err)
		}
		r.pages[strings.TrimSuffix(name, ".html")] = page
	}
	return r, nil
}

// Pages returns the names of the parsed pages
func (r *Renderer) Pages() []string {
	names := make([]string, 0, len(r.pages))
	for name := range r.pages {
		names = append(names, name)
	}
	return names
}

// Instance implements render.HTMLRender. name is the page without extension.
func (r *Renderer) Instance(name string, data any) render.Render {
	page, ok := r.pages[name]
	if !ok {
		return missingPage{name: name}
	}
	return render.HTML{
		Template: page,
		Name:     "base",
		Data:     data,
	}
}

type missingPage struct {
	name string
}

func (m missingPage) Render(http.ResponseWriter) error {
	return fmt.Errorf("template %q not found", m.name)
}

func (m missingPage) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if val := header["Content-Type"]; len(val) == 0 {
		header["Content-Type"] = []string{"text/html; charset=utf-8"}
	}
}
