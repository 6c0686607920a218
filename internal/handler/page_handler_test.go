package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/netidea/webbase/internal/content"
)

func newTestSite(t *testing.T) *content.Site {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.md"), []byte("# Willkommen"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "kontakt.md"), []byte("# Kontakt"), 0o644); err != nil {
		t.Fatal(err)
	}

	pages := content.NewPages(map[string]content.PageMeta{
		"index":   {Title: "Start", Nav: true, NavOrder: 1},
		"kontakt": {Title: "Kontakt", Nav: true, NavOrder: 2},
	})
	site, err := content.NewSite(pages, dir)
	if err != nil {
		t.Fatal(err)
	}
	return site
}

func TestPageHandler_Page_Index(t *testing.T) {
	h := NewPageHandler(newTestSite(t))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{slug}", h.Page)
	mux.HandleFunc("GET /{$}", h.Page)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected html content type, got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "Willkommen") {
		t.Errorf("expected rendered markdown in body, got %s", rec.Body.String())
	}
}

func TestPageHandler_Page_NotFound(t *testing.T) {
	h := NewPageHandler(newTestSite(t))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{slug}", h.Page)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

// TestPageHandler_ContactPage verifies that the contact page mints a CSRF
// token into the session and exposes it via the response header.
func TestPageHandler_ContactPage(t *testing.T) {
	h := NewPageHandler(newTestSite(t))

	req := httptest.NewRequest(http.MethodGet, "/kontakt", nil)
	req = withSession(req)
	rec := httptest.NewRecorder()
	h.ContactPage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d — body: %s", rec.Code, rec.Body.String())
	}
	if token := rec.Header().Get("X-CSRF-Token"); token == "" {
		t.Error("expected X-CSRF-Token header to be set")
	}
	if !strings.Contains(rec.Body.String(), "Kontakt") {
		t.Errorf("expected contact page content, got %s", rec.Body.String())
	}
}

// Without a session the page still renders; only the token header is absent.
func TestPageHandler_ContactPage_NoSession(t *testing.T) {
	h := NewPageHandler(newTestSite(t))

	req := httptest.NewRequest(http.MethodGet, "/kontakt", nil)
	rec := httptest.NewRecorder()
	h.ContactPage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if token := rec.Header().Get("X-CSRF-Token"); token != "" {
		t.Errorf("expected no token without session, got %q", token)
	}
}
