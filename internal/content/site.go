package content

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/shell.html.tmpl
var shellFS embed.FS

// ErrPageNotFound is returned when a slug has neither a page template nor
// a markdown file.
var ErrPageNotFound = errors.New("page not found")

// PageData is the render context for page templates and the shell.
type PageData struct {
	Slug    string
	Meta    PageMeta
	Nav     []NavItem
	Content template.HTML
}

// Site renders pages. A slug resolves, in order, to an HTML template at
// {dir}/pages/{slug}.html, then a markdown file at {dir}/{slug}.md
// rendered into the shell, then ErrPageNotFound.
type Site struct {
	pages *Pages
	dir   string
	md    goldmark.Markdown
	shell *template.Template
}

// NewSite creates a Site over the given pages table and content directory.
func NewSite(pages *Pages, dir string) (*Site, error) {
	shell, err := template.ParseFS(shellFS, "templates/shell.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse shell template: %w", err)
	}
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	return &Site{pages: pages, dir: dir, md: md, shell: shell}, nil
}

// Pages exposes the metadata table.
func (s *Site) Pages() *Pages {
	return s.pages
}

// RenderPage renders the page for slug into a full HTML document.
func (s *Site) RenderPage(slug string) ([]byte, error) {
	meta, _ := s.pages.Get(slug)
	data := PageData{Slug: slug, Meta: meta, Nav: s.pages.NavItems()}

	tmplPath := filepath.Join(s.dir, "pages", slug+".html")
	if raw, err := os.ReadFile(tmplPath); err == nil {
		tmpl, err := template.New(slug).Parse(string(raw))
		if err != nil {
			return nil, fmt.Errorf("parse page template %s: %w", slug, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("render page %s: %w", slug, err)
		}
		return buf.Bytes(), nil
	}

	mdPath := filepath.Join(s.dir, slug+".md")
	raw, err := os.ReadFile(mdPath)
	if err != nil {
		return nil, ErrPageNotFound
	}

	var body bytes.Buffer
	if err := s.md.Convert(raw, &body); err != nil {
		return nil, fmt.Errorf("render markdown %s: %w", slug, err)
	}
	data.Content = template.HTML(body.String())

	var buf bytes.Buffer
	if err := s.shell.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render shell for %s: %w", slug, err)
	}
	return buf.Bytes(), nil
}
