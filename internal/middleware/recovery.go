// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recoverer catches panics in downstream handlers, logs the stack trace,
// and returns a 500 Internal Server Error instead of crashing the server.
// HTMX requests get the message swapped into the page's flash area so the
// admin sees it without a full reload.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				attrs := []any{
					"error", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				}
				if sess := SessionFromCtx(r.Context()); sess != nil {
					attrs = append(attrs, "user", sess.UserID)
				}
				slog.Error("panic recovered", attrs...)

				if r.Header.Get("HX-Request") == "true" {
					w.Header().Set("HX-Retarget", "#flash")
					w.Header().Set("HX-Reswap", "innerHTML")
				}
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
