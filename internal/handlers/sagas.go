// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"audiobook-admin/internal/catalog"
	"audiobook-admin/internal/render"
)

// sagaListLimit caps the incomplete creations shown at once.
const sagaListLimit = 100

// Sagas lists audiobook creations that stopped before every chapter was
// saved.
func (a *Admin) Sagas(w http.ResponseWriter, r *http.Request) {
	a.renderSagas(w, r, sagaNotice(r.URL.Query()), "", http.StatusOK)
}

// SagaResume continues a stopped creation from its first unsaved chapter.
func (a *Admin) SagaResume(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	creator := catalog.NewCreator(a.api, a.sagas)
	saga, err := creator.Resume(r.Context(), id)
	var partial *catalog.PartialError
	switch {
	case errors.Is(err, catalog.ErrSagaNotFound):
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	case errors.As(err, &partial):
		msg := fmt.Sprintf("%q still has %d of %d chapters saved: %s",
			saga.Title, partial.Persisted, partial.Total, apiMessage(partial.Err))
		a.renderSagas(w, r, nil, msg, apiStatus(partial.Err))
		return
	case err != nil:
		slog.Error("resume saga failed", "saga", id, "error", err)
		a.renderSagas(w, r, nil, "Could not resume: "+err.Error(), http.StatusInternalServerError)
		return
	}

	slog.Info("saga resumed", "saga", id, "audiobook", saga.AudiobookID, "persisted", saga.Persisted)
	if !isHTMX(r) {
		http.Redirect(w, r, "/admin/sagas?resumed="+url.QueryEscape(id.String()), http.StatusSeeOther)
		return
	}
	notice := &render.Flash{Type: "success", Message: fmt.Sprintf("All %d chapters of %q are saved.", saga.TotalChapters, saga.Title)}
	a.renderSagas(w, r, notice, "", http.StatusOK)
}

func (a *Admin) renderSagas(w http.ResponseWriter, r *http.Request, notice *render.Flash, msg string, status int) {
	data := map[string]any{"Error": msg}
	if notice != nil {
		data["Notice"] = notice
	}

	sagas, err := a.sagas.ListPartial(r.Context(), sagaListLimit)
	if err != nil {
		slog.Error("list sagas failed", "error", err)
		if msg == "" {
			data["Error"] = "Incomplete audiobooks could not be loaded."
		}
	}
	data["Sagas"] = sagas

	// HTMX leaves the page in place on error statuses; the message has to
	// be swapped in to be seen.
	if isHTMX(r) {
		status = http.StatusOK
	}
	a.renderer.Page(w, r, "sagas", &render.PageData{
		Title:  "Incomplete Audiobooks",
		Status: status,
		Data:   data,
	})
}

// sagaNotice turns the redirect markers into a message.
func sagaNotice(q url.Values) *render.Flash {
	switch {
	case q.Get("partial") != "":
		return &render.Flash{Type: "warning", Message: "The audiobook was created but some chapters were not saved. Resume it below."}
	case q.Get("resumed") != "":
		return &render.Flash{Type: "success", Message: "All chapters are saved."}
	}
	return nil
}
