// Package content serves the site's pages: a metadata table loaded from
// content/pages.yaml, a navigation builder derived from it, and page
// rendering from on-disk HTML templates or markdown files.
package content

import (
	"fmt"
	"sort"

	"github.com/spf13/viper"
)

// IndexSlug is the slug served at the site root.
const IndexSlug = "index"

// PageMeta is one row of the page metadata table.
type PageMeta struct {
	Title       string `mapstructure:"title"`
	Description string `mapstructure:"description"`
	Keywords    string `mapstructure:"keywords"`
	Canonical   string `mapstructure:"canonical"`
	Robots      string `mapstructure:"robots"`
	OGImage     string `mapstructure:"og_image"`
	CMS         bool   `mapstructure:"cms"`
	Nav         bool   `mapstructure:"nav"`
	NavLabel    string `mapstructure:"nav_label"`
	NavOrder    int    `mapstructure:"nav_order"`
}

// NavItem is one entry of the site navigation.
type NavItem struct {
	Slug  string
	Label string
	URL   string
	Order int
}

// Pages is the loaded page metadata table.
type Pages struct {
	bySlug map[string]PageMeta
}

// LoadPages reads the metadata table from the given YAML file.
func LoadPages(path string) (*Pages, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read pages file: %w", err)
	}

	var bySlug map[string]PageMeta
	if err := v.UnmarshalKey("pages", &bySlug); err != nil {
		return nil, fmt.Errorf("unmarshal pages: %w", err)
	}
	if bySlug == nil {
		bySlug = map[string]PageMeta{}
	}
	return &Pages{bySlug: bySlug}, nil
}

// NewPages builds a table from an in-memory map, used by tests.
func NewPages(bySlug map[string]PageMeta) *Pages {
	return &Pages{bySlug: bySlug}
}

// Get returns the metadata for slug.
func (p *Pages) Get(slug string) (PageMeta, bool) {
	m, ok := p.bySlug[slug]
	return m, ok
}

// NavItems returns the navigation entries: pages flagged nav, labeled by
// nav_label falling back to title then slug, sorted by nav_order. The
// index page maps to "/".
func (p *Pages) NavItems() []NavItem {
	var items []NavItem
	for slug, meta := range p.bySlug {
		if !meta.Nav {
			continue
		}
		label := meta.NavLabel
		if label == "" {
			label = meta.Title
		}
		if label == "" {
			label = slug
		}
		url := "/" + slug
		if slug == IndexSlug {
			url = "/"
		}
		items = append(items, NavItem{Slug: slug, Label: label, URL: url, Order: meta.NavOrder})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Order < items[j].Order })
	return items
}
