// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"audiobook-admin/internal/backend"
	"audiobook-admin/internal/models"
	"audiobook-admin/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the session data.
	SessionKey contextKey = "session"

	// lookupFailedKey marks a request whose session could not be read.
	lookupFailedKey contextKey = "session_lookup_failed"
)

// SessionGetter reads the session attached to a request.
type SessionGetter interface {
	Get(ctx context.Context, r *http.Request) (*session.Data, error)
}

// LoadSession retrieves the session from Valkey and stores it in the
// request context along with its bearer token for backend calls.
// Downstream handlers can access it via SessionFromCtx(). This middleware
// does NOT enforce authentication; it only records what it found. A
// failed lookup is remembered so the gate can show a loading state
// instead of treating the user as signed out.
func LoadSession(store SessionGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := store.Get(r.Context(), r)
			if err != nil {
				slog.Warn("session lookup failed", "path", r.URL.Path, "error", err)
				ctx := context.WithValue(r.Context(), lookupFailedKey, true)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if data != nil && !data.Expired(time.Now()) {
				ctx := context.WithValue(r.Context(), SessionKey, data)
				ctx = backend.WithToken(ctx, data.AccessToken)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GateState is the outcome of the admin access check.
type GateState int

const (
	// GateLoading means the identity could not be resolved yet.
	GateLoading GateState = iota
	// GateUnauthenticated means there is no identity.
	GateUnauthenticated
	// GateUnauthorized means the identity lacks the admin role.
	GateUnauthorized
	// GateAuthorized means the page may render.
	GateAuthorized
)

func (s GateState) String() string {
	switch s {
	case GateLoading:
		return "loading"
	case GateUnauthenticated:
		return "unauthenticated"
	case GateUnauthorized:
		return "unauthorized"
	case GateAuthorized:
		return "authorized"
	}
	return fmt.Sprintf("GateState(%d)", int(s))
}

// ResolveGate computes the gate state for a request context prepared by
// LoadSession. Only the literal role "admin" is authorized.
func ResolveGate(ctx context.Context) GateState {
	if failed, _ := ctx.Value(lookupFailedKey).(bool); failed {
		return GateLoading
	}
	sess := SessionFromCtx(ctx)
	if sess == nil {
		return GateUnauthenticated
	}
	if sess.Role != string(models.RoleAdmin) {
		return GateUnauthorized
	}
	return GateAuthorized
}

// GateRenderer writes the body of an interim gate page. Status code and
// redirect headers are already set when it is called.
type GateRenderer func(w http.ResponseWriter, r *http.Request, state GateState)

// redirectDelay is how long the interim page is shown before redirecting.
const redirectDelay = 2

// Gate wraps admin pages. Authorized requests pass through. Unauthenticated
// and unauthorized requests get a short interim page and are then sent to
// landing (via a Refresh header, or HX-Redirect for HTMX requests). When
// the identity could not be resolved, a loading page refreshes the same
// URL. The gate only controls rendering; the backend enforces access on
// every API call.
func Gate(landing string, render GateRenderer) func(http.Handler) http.Handler {
	if landing == "" {
		landing = "/"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := ResolveGate(r.Context())
			if state == GateAuthorized {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("Cache-Control", "no-store")
			var status int
			switch state {
			case GateLoading:
				status = http.StatusServiceUnavailable
				h.Set("Refresh", fmt.Sprintf("%d", redirectDelay))
				h.Set("Retry-After", fmt.Sprintf("%d", redirectDelay))
			case GateUnauthenticated:
				status = http.StatusUnauthorized
				setGateRedirect(h, r, landing)
			default:
				status = http.StatusForbidden
				setGateRedirect(h, r, landing)
				if sess := SessionFromCtx(r.Context()); sess != nil {
					slog.Info("admin access denied", "user", sess.UserID, "role", sess.Role, "path", r.URL.Path)
				}
			}

			if render == nil {
				http.Error(w, gateMessage(state), status)
				return
			}
			h.Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(status)
			render(w, r, state)
		})
	}
}

func setGateRedirect(h http.Header, r *http.Request, landing string) {
	h.Set("Refresh", fmt.Sprintf("%d; url=%s", redirectDelay, landing))
	if r.Header.Get("HX-Request") == "true" {
		h.Set("HX-Redirect", landing)
	}
}

// gateMessage is the plain-text fallback for each interim state.
func gateMessage(state GateState) string {
	switch state {
	case GateLoading:
		return "Loading..."
	case GateUnauthenticated:
		return "Authentication Required"
	default:
		return "Access Denied"
	}
}

// SessionFromCtx extracts the session data from the request context.
// Returns nil if no session is loaded (user is not authenticated).
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}

// IdentityFromCtx returns the identity of the signed-in user, or nil.
func IdentityFromCtx(ctx context.Context) *models.Identity {
	if sess := SessionFromCtx(ctx); sess != nil {
		return sess.Identity()
	}
	return nil
}
