// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"audiobook-admin/internal/models"
)

// seedPartialSaga journals a creation that saved one of two chapters.
func seedPartialSaga(t *testing.T, env *testEnv) uuid.UUID {
	t.Helper()
	s := &models.CreationSaga{
		ID:            uuid.New(),
		AudiobookID:   "book-9",
		Title:         "Solaris",
		TotalChapters: 2,
		Persisted:     1,
		Status:        models.SagaPartial,
		LastError:     "backend: 500: chapter store failed",
		Chapters: []models.Chapter{
			{Title: "One", FileURL: "https://cdn/1.mp3"},
			{Title: "Two", FileURL: "https://cdn/2.mp3", DurationSeconds: 600},
		},
		CreatedAt: time.Now().Add(-time.Hour),
		UpdatedAt: time.Now().Add(-time.Hour),
	}
	if err := env.Journal.Insert(t.Context(), s); err != nil {
		t.Fatalf("seed saga: %v", err)
	}
	return s.ID
}

func TestSagasList(t *testing.T) {
	env := newTestEnv(t)
	id := seedPartialSaga(t, env)

	w := httptest.NewRecorder()
	env.Admin.Sagas(w, httptest.NewRequest(http.MethodGet, "/admin/sagas?partial="+id.String(), nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"Solaris", "1 of 2", "/admin/sagas/" + id.String() + "/resume", "some chapters were not saved"} {
		if !strings.Contains(body, want) {
			t.Errorf("sagas page missing %q", want)
		}
	}
}

func TestSagasListJournalError(t *testing.T) {
	env := newTestEnv(t)
	env.Journal.err = errors.New("connection refused")

	w := httptest.NewRecorder()
	env.Admin.Sagas(w, httptest.NewRequest(http.MethodGet, "/admin/sagas", nil))

	if !strings.Contains(w.Body.String(), "Incomplete audiobooks could not be loaded.") {
		t.Error("journal failure should be reported")
	}
}

func TestSagaResume(t *testing.T) {
	env := newTestEnv(t)
	id := seedPartialSaga(t, env)

	req := htmx(httptest.NewRequest(http.MethodPost, "/admin/sagas/"+id.String()+"/resume", nil))
	w := httptest.NewRecorder()
	env.Admin.SagaResume(w, withChiURLParam(req, "id", id.String()))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "All 2 chapters of") {
		t.Errorf("success notice missing:\n%s", w.Body.String())
	}

	files := env.Backend.audioFiles
	if len(files) != 1 {
		t.Fatalf("only the unsaved chapter should be sent, got %d", len(files))
	}
	if files[0].ChapterNumber != 2 || files[0].ChapterTitle != "Two" || files[0].AudiobookID != "book-9" {
		t.Errorf("resumed chapter: got %+v", files[0])
	}

	saga, _ := env.Journal.Get(t.Context(), id)
	if saga.Status != models.SagaCompleted || saga.Persisted != 2 {
		t.Errorf("saga after resume: %s %d/%d", saga.Status, saga.Persisted, saga.TotalChapters)
	}
}

func TestSagaResumePlainPostRedirects(t *testing.T) {
	env := newTestEnv(t)
	id := seedPartialSaga(t, env)

	req := httptest.NewRequest(http.MethodPost, "/admin/sagas/"+id.String()+"/resume", nil)
	w := httptest.NewRecorder()
	env.Admin.SagaResume(w, withChiURLParam(req, "id", id.String()))

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/admin/sagas?resumed="+id.String() {
		t.Errorf("Location: got %q", loc)
	}
}

func TestSagaResumeFailsAgain(t *testing.T) {
	env := newTestEnv(t)
	id := seedPartialSaga(t, env)
	env.Backend.set(func(fb *fakeBackend) { fb.failChapter = 2 })

	req := htmx(httptest.NewRequest(http.MethodPost, "/admin/sagas/"+id.String()+"/resume", nil))
	w := httptest.NewRecorder()
	env.Admin.SagaResume(w, withChiURLParam(req, "id", id.String()))

	if w.Code != http.StatusOK {
		t.Fatalf("HTMX should receive 200 so the error is swapped in, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "chapter store failed") {
		t.Errorf("backend error missing:\n%s", w.Body.String())
	}

	saga, _ := env.Journal.Get(t.Context(), id)
	if saga.Status != models.SagaPartial || saga.Persisted != 1 {
		t.Errorf("saga should still be partial at 1, got %s %d", saga.Status, saga.Persisted)
	}
}

func TestSagaResumeBadRequests(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		id   string
		want int
	}{
		{"invalid id", "not-a-uuid", http.StatusBadRequest},
		{"unknown saga", uuid.NewString(), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin/sagas/"+tt.id+"/resume", nil)
			w := httptest.NewRecorder()
			env.Admin.SagaResume(w, withChiURLParam(req, "id", tt.id))
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}
