// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the audiobook admin.
// Handlers are grouped by concern (admin pages, uploads, auth) and receive
// their dependencies through the handler struct. Catalog state lives in
// stores built per request; nothing is shared between requests except the
// injected clients.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"audiobook-admin/internal/backend"
	"audiobook-admin/internal/cache"
	"audiobook-admin/internal/catalog"
	"audiobook-admin/internal/fixtures"
	"audiobook-admin/internal/models"
	"audiobook-admin/internal/render"
	"audiobook-admin/internal/upload"
)

// healthTimeout bounds the backend probe on the dashboard.
const healthTimeout = 3 * time.Second

// SagaJournal records audiobook creations and lists the ones that stopped
// part way.
type SagaJournal interface {
	catalog.Journal
	ListPartial(ctx context.Context, limit int) ([]models.CreationSaga, error)
}

// UploadLimits are the per-kind size ceilings in bytes. Zero falls back to
// the upload package defaults.
type UploadLimits struct {
	Audio int64
	Image int64
}

// For returns the ceiling for kind.
func (l UploadLimits) For(kind upload.Kind) int64 {
	var n int64
	switch kind {
	case upload.KindAudio:
		n = l.Audio
	case upload.KindImage:
		n = l.Image
	}
	if n <= 0 {
		n = upload.DefaultMaxSize(kind)
	}
	return n
}

// Admin groups all admin panel HTTP handlers and their dependencies.
type Admin struct {
	renderer  *render.Renderer
	api       *backend.Client
	sagas     SagaJournal
	tree      *cache.TreeCache
	presigner upload.Presigner
	prober    upload.AudioProber
	limits    UploadLimits
}

// NewAdmin creates a new Admin handler group with the given dependencies.
// tree may be nil, in which case the category tree is always loaded from
// the backend. presigner may be nil when uploads are disabled.
func NewAdmin(renderer *render.Renderer, api *backend.Client, sagas SagaJournal, tree *cache.TreeCache, presigner upload.Presigner, limits UploadLimits) *Admin {
	return &Admin{
		renderer:  renderer,
		api:       api,
		sagas:     sagas,
		tree:      tree,
		presigner: presigner,
		limits:    limits,
	}
}

// SetAudioProber replaces the duration probe used for audio uploads.
func (a *Admin) SetAudioProber(p upload.AudioProber) {
	a.prober = p
}

// Dashboard renders the admin dashboard. Figures come from fixtures; the
// backend is only probed so an outage is visible up front.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	d := fixtures.DashboardData()
	data := map[string]any{
		"Stats":        d.Stats,
		"RecentOrders": d.RecentOrders,
		"TopProducts":  d.TopProducts,
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()
	if _, err := a.api.Health(ctx); err != nil {
		slog.Warn("backend health check failed", "error", err)
		data["BackendError"] = err.Error()
	}

	a.renderer.Page(w, r, "dashboard", &render.PageData{
		Title: "Dashboard",
		Data:  data,
	})
}

// --- Fixture pages ---

// Orders renders the orders page.
func (a *Admin) Orders(w http.ResponseWriter, r *http.Request) {
	q := searchQuery(r)
	a.renderer.Page(w, r, "orders", &render.PageData{
		Title: "Orders",
		Data: map[string]any{
			"Stats": fixtures.OrderStats(fixtures.Orders()),
			"Rows":  fixtures.SearchOrders(q),
			"Query": q,
		},
	})
}

// Customers renders the customers page.
func (a *Admin) Customers(w http.ResponseWriter, r *http.Request) {
	q := searchQuery(r)
	a.renderer.Page(w, r, "customers", &render.PageData{
		Title: "Customers",
		Data: map[string]any{
			"Stats": fixtures.CustomerStats(fixtures.Customers()),
			"Rows":  fixtures.SearchCustomers(q),
			"Query": q,
		},
	})
}

// Reviews renders the reviews page.
func (a *Admin) Reviews(w http.ResponseWriter, r *http.Request) {
	q := searchQuery(r)
	a.renderer.Page(w, r, "reviews", &render.PageData{
		Title: "Reviews",
		Data: map[string]any{
			"Stats": fixtures.ReviewStats(fixtures.Reviews()),
			"Rows":  fixtures.SearchReviews(q),
			"Query": q,
		},
	})
}

// Users renders the user management page.
func (a *Admin) Users(w http.ResponseWriter, r *http.Request) {
	q := searchQuery(r)
	a.renderer.Page(w, r, "users", &render.PageData{
		Title: "User Management",
		Data: map[string]any{
			"Stats": fixtures.UserStats(fixtures.Users()),
			"Rows":  fixtures.SearchUsers(q),
			"Query": q,
		},
	})
}

func searchQuery(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("q"))
}

// categoryTree returns the category tree, through the cache when one is
// configured.
func (a *Admin) categoryTree(ctx context.Context) ([]models.Category, error) {
	if a.tree == nil {
		return a.api.CategoryTree(ctx)
	}
	return a.tree.Tree(ctx, a.api)
}

// isHTMX returns true if the request was made by HTMX.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode json response", "error", err)
	}
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// apiMessage returns the backend's message for err, or err's text.
func apiMessage(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

// apiStatus maps a backend failure onto the status the admin answers with.
func apiStatus(err error) int {
	switch backend.StatusOf(err) {
	case http.StatusUnauthorized:
		return http.StatusUnauthorized
	case http.StatusForbidden:
		return http.StatusForbidden
	case http.StatusNotFound:
		return http.StatusNotFound
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}
