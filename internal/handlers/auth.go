// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"audiobook-admin/internal/identity"
	"audiobook-admin/internal/middleware"
	"audiobook-admin/internal/render"
	"audiobook-admin/internal/session"
)

// adminHome is where a signed-in user lands.
const adminHome = "/admin/dashboard"

// Auth groups the sign-in handoff from the identity provider and sign-out.
type Auth struct {
	renderer  *render.Renderer
	sessions  *session.Store
	verifier  *identity.Verifier
	signInURL string
}

// NewAuth creates a new Auth handler group. verifier may be nil when no
// identity key is configured; callbacks are then refused. signInURL is the
// identity provider's hosted sign-in page, if any.
func NewAuth(renderer *render.Renderer, sessions *session.Store, verifier *identity.Verifier, signInURL string) *Auth {
	return &Auth{
		renderer:  renderer,
		sessions:  sessions,
		verifier:  verifier,
		signInURL: signInURL,
	}
}

// Landing is the public entry point. Admins go to the admin area and
// signed-in users without the admin role stay here on an access denied
// page. Everyone else is sent to the identity provider when one is
// configured.
func (a *Auth) Landing(w http.ResponseWriter, r *http.Request) {
	switch middleware.ResolveGate(r.Context()) {
	case middleware.GateAuthorized:
		http.Redirect(w, r, adminHome, http.StatusSeeOther)
		return
	case middleware.GateUnauthorized:
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusForbidden)
		a.renderer.Gate(w, r, middleware.GateUnauthorized)
		return
	}
	if a.signInURL != "" {
		http.Redirect(w, r, a.signInURL, http.StatusSeeOther)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusUnauthorized)
	a.renderer.Gate(w, r, middleware.GateUnauthenticated)
}

// Callback receives the identity provider's token as a form post,
// verifies it and opens a session carrying the identity and the bearer
// token used for backend calls. Role checks are left to the gate.
func (a *Auth) Callback(w http.ResponseWriter, r *http.Request) {
	if a.verifier == nil {
		http.Error(w, "Sign-in is not configured", http.StatusServiceUnavailable)
		return
	}

	token := strings.TrimSpace(r.PostFormValue("token"))
	if token == "" {
		http.Error(w, "Missing token", http.StatusBadRequest)
		return
	}

	id, expiresAt, err := a.verifier.Verify(token)
	if err != nil {
		slog.Warn("sign-in token rejected", "error", err)
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusUnauthorized)
		a.renderer.Gate(w, r, middleware.GateUnauthenticated)
		return
	}

	if _, err := a.sessions.Create(r.Context(), w, session.FromIdentity(id, token, expiresAt)); err != nil {
		slog.Error("session create failed", "user", id.ID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("user signed in", "user", id.ID, "role", id.Role)
	http.Redirect(w, r, adminHome, http.StatusSeeOther)
}

// Logout destroys the session and returns to the landing page.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
