// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests:
// an in-process fake of the catalog backend and storage, an in-memory saga
// journal, and Valkey access for the session tests, which are skipped when
// Valkey is unavailable.
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"audiobook-admin/internal/backend"
	"audiobook-admin/internal/middleware"
	"audiobook-admin/internal/models"
	"audiobook-admin/internal/render"
	"audiobook-admin/internal/session"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// fakeBackend serves the catalog endpoints and a storage bucket that
// accepts PUTs. Fields set before a request control failures.
type fakeBackend struct {
	srv *httptest.Server

	mu         sync.Mutex
	categories []models.Category
	tree       []models.Category
	books      []models.Audiobook
	pages      int

	healthDown       bool
	listStatus       int
	createCatStatus  int
	createBookStatus int
	failChapter      int // 1-based chapter number that fails, 0 for none
	storageStatus    int

	listQuery   url.Values
	catCreates  []models.CategoryCreate
	bookCreates []models.AudiobookCreate
	audioFiles  []models.AudioFile
	presigns    []models.PresignRequest
	stored      []byte
	storedType  string
	authHeader  string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	parent := "c1"
	fb := &fakeBackend{
		categories: []models.Category{
			{ID: "c1", Name: "Science Fiction", Slug: "science-fiction", IsActive: true},
			{ID: "c2", Name: "Space Opera", Slug: "space-opera", ParentID: &parent, IsActive: true},
		},
		books: []models.Audiobook{
			{ID: "b1", Title: "Dune", Slug: "dune", AuthorName: "Frank Herbert", PriceCents: 2499,
				Status: models.StatusPublished, Categories: []models.CategoryRef{{ID: "c1", Name: "Science Fiction"}}},
			{ID: "b2", Title: "Emma", Slug: "emma", AuthorName: "Jane Austen", PriceCents: 999, Status: models.StatusDraft},
		},
		pages: 1,
	}
	fb.tree = []models.Category{{
		ID: "c1", Name: "Science Fiction", Slug: "science-fiction", IsActive: true,
		Children: []models.Category{{ID: "c2", Name: "Space Opera", Slug: "space-opera", ParentID: &parent, IsActive: true}},
	}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/health/", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		down := fb.healthDown
		fb.mu.Unlock()
		if down {
			writeFakeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		writeFake(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /api/v1/categories/{$}", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		writeFake(w, http.StatusOK, fb.categories)
	})
	mux.HandleFunc("GET /api/v1/categories/tree", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		writeFake(w, http.StatusOK, fb.tree)
	})
	mux.HandleFunc("POST /api/v1/categories/{$}", func(w http.ResponseWriter, r *http.Request) {
		var in models.CategoryCreate
		json.NewDecoder(r.Body).Decode(&in) //nolint:errcheck
		fb.mu.Lock()
		defer fb.mu.Unlock()
		fb.catCreates = append(fb.catCreates, in)
		if fb.createCatStatus != 0 {
			writeFakeError(w, fb.createCatStatus, "Category slug already exists")
			return
		}
		writeFake(w, http.StatusCreated, models.Category{ID: uuid.NewString(), Name: in.Name, Slug: in.Slug, IsActive: in.IsActive})
	})
	mux.HandleFunc("GET /api/v1/audiobooks/{$}", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		fb.listQuery = r.URL.Query()
		fb.authHeader = r.Header.Get("Authorization")
		if fb.listStatus != 0 {
			writeFakeError(w, fb.listStatus, "search index offline")
			return
		}
		writeFake(w, http.StatusOK, models.AudiobookPage{
			Items:      fb.books,
			Pagination: models.Pagination{Total: len(fb.books), Page: atoiOr(fb.listQuery.Get("page"), 1), Size: 20, Pages: fb.pages},
		})
	})
	mux.HandleFunc("POST /api/v1/audiobooks/{$}", func(w http.ResponseWriter, r *http.Request) {
		var in models.AudiobookCreate
		json.NewDecoder(r.Body).Decode(&in) //nolint:errcheck
		fb.mu.Lock()
		defer fb.mu.Unlock()
		fb.bookCreates = append(fb.bookCreates, in)
		if fb.createBookStatus != 0 {
			writeFakeError(w, fb.createBookStatus, "Audiobook with this slug already exists")
			return
		}
		writeFake(w, http.StatusCreated, models.Audiobook{ID: "new-book", Title: in.Title, Slug: in.Slug})
	})
	mux.HandleFunc("POST /api/v1/audio-files/{$}", func(w http.ResponseWriter, r *http.Request) {
		var in models.AudioFile
		json.NewDecoder(r.Body).Decode(&in) //nolint:errcheck
		fb.mu.Lock()
		defer fb.mu.Unlock()
		if fb.failChapter != 0 && in.ChapterNumber == fb.failChapter {
			writeFakeError(w, http.StatusInternalServerError, "chapter store failed")
			return
		}
		fb.audioFiles = append(fb.audioFiles, in)
		in.ID = uuid.NewString()
		writeFake(w, http.StatusCreated, in)
	})
	mux.HandleFunc("POST /api/v1/audio-files/presigned-url", func(w http.ResponseWriter, r *http.Request) {
		var in models.PresignRequest
		json.NewDecoder(r.Body).Decode(&in) //nolint:errcheck
		fb.mu.Lock()
		fb.presigns = append(fb.presigns, in)
		fb.mu.Unlock()
		writeFake(w, http.StatusOK, models.PresignedUpload{
			UploadURL: fb.srv.URL + "/bucket/" + in.FileName,
			FileURL:   "https://cdn.example.com/" + in.FileName,
			ExpiresIn: 3600,
		})
	})
	mux.HandleFunc("PUT /bucket/{name}", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fb.mu.Lock()
		defer fb.mu.Unlock()
		if fb.storageStatus != 0 {
			w.WriteHeader(fb.storageStatus)
			return
		}
		fb.stored = body
		fb.storedType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	})

	fb.srv = httptest.NewServer(mux)
	t.Cleanup(fb.srv.Close)
	return fb
}

func (fb *fakeBackend) client() *backend.Client {
	return backend.New(fb.srv.URL, 5*time.Second)
}

// set runs fn with the fake locked.
func (fb *fakeBackend) set(fn func(fb *fakeBackend)) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fn(fb)
}

func writeFake(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeFakeError(w http.ResponseWriter, status int, detail string) {
	writeFake(w, status, map[string]string{"detail": detail})
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// memJournal is an in-memory SagaJournal. err fails listing and
// insertErr fails Insert.
type memJournal struct {
	mu        sync.Mutex
	sagas     map[uuid.UUID]models.CreationSaga
	err       error
	insertErr error
}

func newMemJournal() *memJournal {
	return &memJournal{sagas: map[uuid.UUID]models.CreationSaga{}}
}

func (j *memJournal) Insert(_ context.Context, s *models.CreationSaga) error {
	if j.insertErr != nil {
		return j.insertErr
	}
	return j.put(s)
}

func (j *memJournal) Update(_ context.Context, s *models.CreationSaga) error {
	return j.put(s)
}

func (j *memJournal) put(s *models.CreationSaga) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	cp := *s
	cp.Chapters = append([]models.Chapter(nil), s.Chapters...)
	j.sagas[s.ID] = cp
	return nil
}

func (j *memJournal) Get(_ context.Context, id uuid.UUID) (*models.CreationSaga, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	s, ok := j.sagas[id]
	if !ok {
		return nil, nil
	}
	s.Chapters = append([]models.Chapter(nil), s.Chapters...)
	return &s, nil
}

func (j *memJournal) ListPartial(_ context.Context, _ int) ([]models.CreationSaga, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return nil, j.err
	}
	var out []models.CreationSaga
	for _, s := range j.sagas {
		if s.Status == models.SagaPartial {
			out = append(out, s)
		}
	}
	return out, nil
}

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	Backend  *fakeBackend
	Journal  *memJournal
	Renderer *render.Renderer
	Admin    *Admin
}

// newTestEnv builds an Admin wired to a fake backend and an in-memory
// journal. The category tree cache is disabled.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	renderer, err := render.New(true)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	fb := newFakeBackend(t)
	journal := newMemJournal()
	api := fb.client()
	admin := NewAdmin(renderer, api, journal, nil, api, UploadLimits{})

	return &testEnv{Backend: fb, Journal: journal, Renderer: renderer, Admin: admin}
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "session:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// testSession creates a session.Data for testing.
func testSession(role string) *session.Data {
	return &session.Data{
		UserID:      "user_123",
		Email:       "admin@audiobook.test",
		DisplayName: "Test Admin",
		Role:        role,
		AccessToken: "tok-123",
	}
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// htmx marks r as an HTMX request.
func htmx(r *http.Request) *http.Request {
	r.Header.Set("HX-Request", "true")
	return r
}
