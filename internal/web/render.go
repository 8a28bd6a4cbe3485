// Package web holds the portal's embedded templates and static assets and
// renders full pages and HTMX fragments from them.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strings"
)

//go:embed templates/*.html templates/fragments/*.html
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// PageData wraps every full page render.
type PageData struct {
	Title       string
	CurrentPath string
	Owner       string
	Flashes     []Flash
	Data        any
}

// Flash is a one-shot notification shown at the top of the next page.
type Flash struct {
	Kind    string // "success", "error", "warning", "info"
	Message string
}

// NavSelected returns the top bar entry for the current path.
func (p PageData) NavSelected() string {
	if strings.HasPrefix(p.CurrentPath, "/tools") {
		return "tools"
	}
	return "home"
}

type Renderer struct {
	base *template.Template
}

// NewRenderer parses the layout and shared fragments. Page templates are
// parsed into a clone per render so their "content" blocks never collide.
func NewRenderer() (*Renderer, error) {
	base, err := template.New("").
		Funcs(templateFuncs()).
		ParseFS(templatesFS, "templates/base.html", "templates/fragments/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse base templates: %w", err)
	}
	return &Renderer{base: base}, nil
}

// Render executes the page template name inside the layout. Nothing is
// written to w when execution fails.
func (r *Renderer) Render(w io.Writer, name string, page PageData) error {
	tmpl, err := r.base.Clone()
	if err != nil {
		return fmt.Errorf("clone template: %w", err)
	}
	if _, err := tmpl.ParseFS(templatesFS, "templates/"+name); err != nil {
		return fmt.Errorf("parse page template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", page); err != nil {
		return fmt.Errorf("execute page template %s: %w", name, err)
	}
	_, err = buf.WriteTo(w)
	return err
}

// RenderFragment executes one of the shared fragments without the layout.
func (r *Renderer) RenderFragment(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := r.base.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("execute fragment %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// StaticHandler serves the embedded assets; mount it under /static/.
func StaticHandler() http.Handler {
	sub, _ := fs.Sub(staticFS, "static")
	return http.FileServer(http.FS(sub))
}
