package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/netidea/webbase/internal/content"
	"github.com/netidea/webbase/internal/service"
)

// PageHandler renders the public site pages.
type PageHandler struct {
	site *content.Site
}

// NewPageHandler creates a PageHandler over the given site content.
func NewPageHandler(site *content.Site) *PageHandler {
	return &PageHandler{site: site}
}

// Page handles GET / and GET /{slug}.
func (h *PageHandler) Page(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		slug = "index"
	}
	h.render(w, slug)
}

// ContactPage handles GET /kontakt. A fresh anti-forgery token is minted
// into the session and exposed via the X-CSRF-Token response header for
// the form script to pick up.
func (h *PageHandler) ContactPage(w http.ResponseWriter, r *http.Request) {
	if sess, ok := SessionFromContext(r.Context()); ok {
		token, err := service.MintCSRFToken(r.Context(), sess)
		if err != nil {
			slog.Error("mint csrf token", "error", err)
		} else {
			w.Header().Set("X-CSRF-Token", token)
		}
	}
	h.render(w, "kontakt")
}

func (h *PageHandler) render(w http.ResponseWriter, slug string) {
	html, err := h.site.RenderPage(slug)
	if err != nil {
		if errors.Is(err, content.ErrPageNotFound) {
			http.Error(w, "404 page not found", http.StatusNotFound)
			return
		}
		slog.Error("render page", "slug", slug, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(html)
}
