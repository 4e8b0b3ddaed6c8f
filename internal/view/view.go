// Package view renders the HTML pages.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/pathmuseum/museum/internal/content"
	"github.com/pathmuseum/museum/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names.
const (
	PageIndex       = "index"
	PageLogin       = "login"
	PageSignup      = "signup"
	PageDescription = "description"
	PageVideo       = "video"
	PageModel       = "model-viewer"
	PageNotFound    = "not-found"
	PageError       = "error"
)

var pages = []string{
	PageIndex,
	PageLogin,
	PageSignup,
	PageDescription,
	PageVideo,
	PageModel,
	PageNotFound,
	PageError,
}

// Base carries the fields the layout needs on every page.
type Base struct {
	Viewer model.Viewer
	Title  string
}

// IndexData is the home page model.
type IndexData struct {
	Base
	Specimens []content.Specimen
}

// AuthFormData is the login and signup form model. Error is empty on a
// fresh form.
type AuthFormData struct {
	Base
	Error string
	Email string
}

// DescriptionData is the specimen description page model.
type DescriptionData struct {
	Base
	Specimen content.Specimen
	Content  template.HTML
}

// VideoData is the video player page model.
type VideoData struct {
	Base
	Specimen content.Specimen
	VideoURL string
}

// ModelData is the 3D model viewer page model.
type ModelData struct {
	Base
	Specimen  content.Specimen
	ModelFile string
	ModelURL  string
}

// ErrorData is the generic error page model.
type ErrorData struct {
	Base
	Message string
}

// Renderer executes page templates. It is safe for concurrent use.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every embedded page together with the layout.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		tmpl, err := template.New(name).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render writes page with status. The page is rendered into a buffer first
// so a template error never produces a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Trusted marks registry HTML as safe for rendering. Descriptions come from
// the operator-controlled content file, never from users.
func Trusted(html string) template.HTML {
	return template.HTML(html) //nolint:gosec
}
