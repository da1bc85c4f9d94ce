// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// audiobook admin. It organizes routes into public, auth and admin groups
// with appropriate middleware stacks.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"audiobook-admin/internal/handlers"
	"audiobook-admin/internal/middleware"
	"audiobook-admin/internal/render"
	"audiobook-admin/web"
)

// landing is where the gate sends visitors without access.
const landing = "/"

// Options carries the settings that vary between environments.
type Options struct {
	// SecureCookies marks the CSRF cookie HTTPS-only.
	SecureCookies bool
	// UploadLimiter throttles uploads per client. Nil disables it.
	UploadLimiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessions middleware.SessionGetter, renderer *render.Renderer, admin *handlers.Admin, auth *handlers.Auth, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessions))

	// Health check: no gate, no CSRF.
	r.Get("/health", healthHandler)

	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic(err) // embedded at build time
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(static)))

	// Sign-in handoff from the identity provider. The callback is a
	// cross-site form post, so it stays outside CSRF.
	r.Post("/auth/callback", auth.Callback)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCSRF(opts.SecureCookies))
		r.Get("/", auth.Landing)
		r.Post("/auth/logout", auth.Logout)
	})

	// Admin area: gated on the admin role, CSRF protected.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.NewCSRF(opts.SecureCookies))
		r.Use(middleware.Gate(landing, renderer.Gate))

		r.Get("/", admin.Dashboard)
		r.Get("/dashboard", admin.Dashboard)

		// Catalog
		r.Get("/products", admin.Products)
		r.Post("/categories", admin.CategoryCreate)
		r.Route("/audiobooks", func(r chi.Router) {
			r.Get("/new", admin.AudiobookNew)
			r.Post("/", admin.AudiobookCreate)
			r.Post("/preview", admin.AudiobookPreview)
		})

		// Uploads go through a per-client limiter when one is configured.
		r.Group(func(r chi.Router) {
			if opts.UploadLimiter != nil {
				r.Use(opts.UploadLimiter.Middleware)
			}
			r.Post("/uploads/{kind}", admin.Upload)
		})

		// Interrupted audiobook creations
		r.Get("/sagas", admin.Sagas)
		r.Post("/sagas/{id}/resume", admin.SagaResume)

		// Fixture-backed pages
		r.Get("/orders", admin.Orders)
		r.Get("/customers", admin.Customers)
		r.Get("/reviews", admin.Reviews)
		r.Get("/users", admin.Users)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
