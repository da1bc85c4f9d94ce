// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the admin interface.
// It supports full-page and HTMX partial rendering, automatically detecting
// the request type via the HX-Request header.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"audiobook-admin/internal/middleware"
	"audiobook-admin/internal/models"
	"audiobook-admin/internal/session"
	"audiobook-admin/internal/sidebar"
)

//go:embed templates/admin/*.html
var adminFS embed.FS

// PageData holds all data passed to admin templates.
type PageData struct {
	Title     string         // Page title for <title> tag
	Status    int            // Response status, 200 when zero
	Session   *session.Data  // Current user session (nil if unauthenticated)
	CSRFToken string         // CSRF token for forms and HTMX headers
	Nav       []sidebar.Link // Sidebar resolved against the request path
	Data      map[string]any // Page-specific data
	Flashes   []Flash        // One-time notification messages
}

// Flash represents a one-time notification message displayed to the user.
type Flash struct {
	Type    string // "success", "error", "warning", "info"
	Message string
}

// Renderer handles template parsing and execution for admin pages.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
	menu      []sidebar.Item
}

// standaloneTemplates lists templates that render as full HTML pages
// without the base layout (they have their own <html>, <head>, etc.).
var standaloneTemplates = map[string]bool{
	"gate": true,
}

// New creates a Renderer by parsing all admin templates from the embedded
// filesystem. Each page template is paired with the base layout. When
// devMode is true, pages load the unminified HTMX build.
func New(devMode bool) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		funcMap:   funcMap(devMode),
		menu:      sidebar.AdminMenu(),
	}

	entries, err := fs.ReadDir(adminFS, "templates/admin")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "base.html" || path.Ext(name) != ".html" {
			continue
		}
		tmplName := strings.TrimSuffix(name, ".html")

		var tmpl *template.Template
		if standaloneTemplates[tmplName] {
			tmpl, err = template.New(name).Funcs(r.funcMap).ParseFS(adminFS, "templates/admin/"+name)
		} else {
			tmpl, err = template.New("base.html").Funcs(r.funcMap).ParseFS(
				adminFS, "templates/admin/base.html", "templates/admin/"+name,
			)
		}
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[tmplName] = tmpl
	}

	return r, nil
}

func funcMap(devMode bool) template.FuncMap {
	return template.FuncMap{
		// isDev selects the unminified HTMX build.
		"isDev":    func() bool { return devMode },
		"cents":    models.FormatCents,
		"duration": models.FormatDuration,
		"bytes": func(n int64) string {
			if n <= 0 {
				return "-"
			}
			return humanize.IBytes(uint64(n))
		},
		"ago":   humanize.Time,
		"comma": func(n int) string { return humanize.Comma(int64(n)) },
		// catIndent returns a category name with non-breaking space indentation
		// based on depth. Used for hierarchical <select> dropdowns.
		"catIndent": func(depth int, name string) string {
			if depth == 0 {
				return name
			}
			return strings.Repeat("\u00A0\u00A0\u00A0\u00A0", depth) + name
		},
		// deref safely dereferences a string pointer for use in templates.
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"chapterRow": NewChapterRow,
		"tone":       Tone,
		"add":  func(a, b int) int { return a + b },
		"seq": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i + 1
			}
			return out
		},
		"contains": func(list []string, s string) bool {
			for _, v := range list {
				if v == s {
					return true
				}
			}
			return false
		},
		"year": func() int { return time.Now().Year() },
	}
}

// ChapterRow is the data for one chapter row of the audiobook form. A
// negative Index renders the blank row the form clones for new chapters.
type ChapterRow struct {
	Index   int
	Chapter models.Chapter
}

// NewChapterRow accepts a models.Chapter, a *models.Chapter or nil.
func NewChapterRow(index int, ch any) ChapterRow {
	row := ChapterRow{Index: index}
	switch v := ch.(type) {
	case models.Chapter:
		row.Chapter = v
	case *models.Chapter:
		if v != nil {
			row.Chapter = *v
		}
	}
	return row
}

// Tone maps a status label to the badge color class suffix.
func Tone(status string) string {
	switch strings.ToLower(status) {
	case "completed", "published", "active", "admin":
		return "success"
	case "processing", "running", "moderator":
		return "info"
	case "shipped", "partial", "draft":
		return "warning"
	case "pending":
		return "pending"
	case "cancelled", "suspended", "archived", "failed":
		return "danger"
	}
	return "muted"
}

// Has reports whether a template with the given name was parsed.
func (rn *Renderer) Has(name string) bool {
	_, ok := rn.templates[name]
	return ok
}

// Page renders a full admin page or an HTMX partial, depending on the
// request headers. For HTMX requests, only the "content" block is sent.
// For full page loads, the entire base layout is rendered.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	rn.prepare(r, data)

	execName := "base.html"
	if isHTMX(r) {
		execName = "content"
	} else if standaloneTemplates[name] {
		execName = name + ".html"
	}
	rn.execute(w, r, tmpl, execName, data)
}

// Partial renders a single named block of a page template, for HTMX swaps
// that replace less than the content area (e.g. a form inside a dialog).
func (rn *Renderer) Partial(w http.ResponseWriter, r *http.Request, name, block string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok || tmpl.Lookup(block) == nil {
		http.Error(w, fmt.Sprintf("template %s/%s not found", name, block), http.StatusInternalServerError)
		return
	}
	rn.prepare(r, data)
	rn.execute(w, r, tmpl, block, data)
}

// Gate writes the interim page shown by the access gate. The gate
// middleware has already written the status line.
func (rn *Renderer) Gate(w http.ResponseWriter, r *http.Request, state middleware.GateState) {
	tmpl, ok := rn.templates["gate"]
	if !ok {
		fmt.Fprint(w, state.String())
		return
	}
	data := &PageData{
		Title:   gateTitle(state),
		Session: middleware.SessionFromCtx(r.Context()),
		Data: map[string]any{
			"State":       state.String(),
			"Redirecting": w.Header().Get("Refresh") != "",
		},
	}
	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())
	if err := tmpl.ExecuteTemplate(w, "gate.html", data); err != nil {
		slog.Error("render gate page", "state", state, "error", err)
	}
}

func gateTitle(state middleware.GateState) string {
	switch state {
	case middleware.GateLoading:
		return "Loading..."
	case middleware.GateUnauthenticated:
		return "Authentication Required"
	default:
		return "Access Denied"
	}
}

// prepare injects request-scoped values the layout needs.
func (rn *Renderer) prepare(r *http.Request, data *PageData) {
	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}
	if data.Nav == nil {
		data.Nav = sidebar.Render(rn.menu, r.URL.Path)
	}
	if data.Data == nil {
		data.Data = map[string]any{}
	}
}

// execute renders into a buffer so a template error never leaves a
// half-written page behind.
func (rn *Renderer) execute(w http.ResponseWriter, r *http.Request, tmpl *template.Template, name string, data *PageData) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("render template", "template", name, "path", r.URL.Path, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if data.Status != 0 {
		w.WriteHeader(data.Status)
	}
	buf.WriteTo(w) //nolint:errcheck // client went away
}

// isHTMX returns true if the request was made by HTMX (has HX-Request header).
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
