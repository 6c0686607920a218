package mailer

import (
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Renderer renders the embedded email templates. Names ending in
// ".html.tmpl" render with html/template (contextual escaping), names
// ending in ".txt.tmpl" with text/template.
type Renderer struct {
	text *texttemplate.Template
	html *htmltemplate.Template
}

// NewRenderer parses all embedded templates.
func NewRenderer() (*Renderer, error) {
	text, err := texttemplate.ParseFS(templateFS, "templates/*.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse text templates: %w", err)
	}
	html, err := htmltemplate.ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse html templates: %w", err)
	}
	return &Renderer{text: text, html: html}, nil
}

// Render executes the named template ("contact_owner.txt.tmpl", ...) with
// the given data.
func (r *Renderer) Render(name string, data any) (string, error) {
	var sb strings.Builder
	var err error
	if strings.HasSuffix(name, ".html.tmpl") {
		err = r.html.ExecuteTemplate(&sb, name, data)
	} else {
		err = r.text.ExecuteTemplate(&sb, name, data)
	}
	if err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return sb.String(), nil
}
