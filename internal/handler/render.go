package handler

import (
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

// TemplateRenderer adapts html/template to echo's Renderer interface so the
// dashboard pages can be served from the same Echo instance as the JSON
// API.
type TemplateRenderer struct {
	templates *template.Template
}

// NewTemplateRenderer parses every template matching the glob (e.g.
// "web/templates/*.html").  Parsing happens once at startup; a bad
// template is a deployment error, not a request error.
func NewTemplateRenderer(glob string) (*TemplateRenderer, error) {
	t, err := template.ParseGlob(glob)
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{templates: t}, nil
}

// Render executes the named template with the given data.
func (r *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
